package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
)

func TestLogObserver_EmitsEntityFields(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf)

	obs.ObserveOperation(context.Background(), OperationEvent{
		Name:     "delete-task",
		Duration: 5 * time.Millisecond,
		Success:  true,
		Fields:   entityFields(domain.KindTask, "task-1", "alice"),
	})

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "msg=lifecycle_operation")
	assert.Contains(t, out, "operation=delete-task")
	assert.Contains(t, out, "entity_kind=task")
	assert.Contains(t, out, "entity_id=task-1")
	assert.Contains(t, out, "actor=alice")
	assert.Contains(t, out, "success=true")
}

func TestLogObserver_FailureLogsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf)

	obs.ObserveOperation(context.Background(), OperationEvent{
		Name:    "delete-project",
		Success: false,
		Err:     errors.New("project p1 has 3 tasks"),
		Fields:  entityFields(domain.KindProject, "p1", "bob"),
	})

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "entity_kind=project")
	assert.Contains(t, out, "error=")
	assert.Contains(t, out, "success=false")
}

func TestNewLogObserver_NilWriterIsNoop(t *testing.T) {
	obs := NewLogObserver(nil)
	assert.IsType(t, NoopObserver{}, obs)
}

func TestObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopObserver{}, observerOrNoop(nil))
	assert.IsType(t, NoopObserver{}, observerOrNoop([]OperationObserver{nil}))

	var buf bytes.Buffer
	obs := NewLogObserver(&buf)
	assert.Equal(t, obs, observerOrNoop([]OperationObserver{nil, obs}))
}
