package workload

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
)

func TestCompute_OverAllocatedMember(t *testing.T) {
	// 20h + 30h of active work against a 40h week.
	s := Compute(Input{
		HoursPerWeek: 40,
		Tasks: []TaskLoad{
			{TaskID: "t1", Status: domain.TaskInProgress, EstimatedHours: 20},
			{TaskID: "t2", Status: domain.TaskNotStarted, EstimatedHours: 30},
		},
	})

	assert.Equal(t, 2, s.ActiveTaskCount)
	assert.Equal(t, float64(50), s.AllocatedHours)
	assert.InDelta(t, 1.25, s.Utilization, 1e-9)
	assert.Equal(t, domain.WorkloadOverloaded, s.Level)
}

func TestCompute_OnlyActiveStatusesCount(t *testing.T) {
	s := Compute(Input{
		HoursPerWeek: 40,
		Tasks: []TaskLoad{
			{TaskID: "t1", Status: domain.TaskNotStarted, EstimatedHours: 4},
			{TaskID: "t2", Status: domain.TaskInProgress, EstimatedHours: 4},
			{TaskID: "t3", Status: domain.TaskUnderReview, EstimatedHours: 4},
			{TaskID: "t4", Status: domain.TaskBlocked, EstimatedHours: 40},
			{TaskID: "t5", Status: domain.TaskCompleted, EstimatedHours: 40},
			{TaskID: "t6", Status: domain.TaskCancelled, EstimatedHours: 40},
		},
	})

	assert.Equal(t, 3, s.ActiveTaskCount)
	assert.Equal(t, float64(12), s.AllocatedHours)
	assert.Equal(t, domain.WorkloadLow, s.Level)
}

func TestCompute_NoTasks(t *testing.T) {
	s := Compute(Input{HoursPerWeek: 40})

	assert.Equal(t, 0, s.ActiveTaskCount)
	assert.Equal(t, float64(0), s.AllocatedHours)
	assert.Equal(t, float64(0), s.Utilization)
	assert.Equal(t, domain.WorkloadLow, s.Level)
}

func TestCompute_ZeroCapacityWithWork(t *testing.T) {
	s := Compute(Input{
		HoursPerWeek: 0,
		Tasks:        []TaskLoad{{TaskID: "t1", Status: domain.TaskInProgress, EstimatedHours: 1}},
	})

	assert.True(t, math.IsInf(s.Utilization, 1))
	assert.Equal(t, domain.WorkloadOverloaded, s.Level)
}

func TestCompute_ZeroCapacityNoWork(t *testing.T) {
	s := Compute(Input{HoursPerWeek: 0})

	assert.Equal(t, float64(0), s.Utilization)
	assert.Equal(t, domain.WorkloadLow, s.Level)
}

func TestClassify_BandEdges(t *testing.T) {
	cases := []struct {
		utilization float64
		level       domain.WorkloadLevel
	}{
		{0, domain.WorkloadLow},
		{0.5, domain.WorkloadLow},
		{0.50001, domain.WorkloadModerate},
		{0.8, domain.WorkloadModerate},
		{0.80001, domain.WorkloadHigh},
		{1.0, domain.WorkloadHigh},
		{1.00001, domain.WorkloadOverloaded},
		{3.5, domain.WorkloadOverloaded},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, Classify(tc.utilization), "utilization=%g", tc.utilization)
	}
}
