package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderProgress(t *testing.T) {
	assert.Equal(t, "[██████████] 100%", stripANSI(RenderProgress(1.0, 10)))
	assert.Equal(t, "[█████░░░░░]  50%", stripANSI(RenderProgress(0.5, 10)))
	assert.Equal(t, "[░░░░░░░░░░]   0%", stripANSI(RenderProgress(0, 10)))
}

func TestRenderProgress_ClampsInputs(t *testing.T) {
	assert.Contains(t, stripANSI(RenderProgress(-0.5, 10)), "0%")
	assert.Contains(t, stripANSI(RenderProgress(1.7, 10)), "100%")
	// Width below the minimum is widened rather than panicking.
	assert.Contains(t, stripANSI(RenderProgress(0.5, 0)), "█")
}
