package workload

import (
	"math"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
)

// Input carries a member's declared weekly capacity and the tasks
// currently assigned to them.
type Input struct {
	HoursPerWeek float64
	Tasks        []TaskLoad
}

// TaskLoad is the slice of a task that matters for capacity accounting.
type TaskLoad struct {
	TaskID         string
	Status         domain.TaskStatus
	EstimatedHours float64
}

// Summary is the derived workload picture. It is recomputed on every
// query and never stored on the member document.
type Summary struct {
	ActiveTaskCount int
	AllocatedHours  float64
	Utilization     float64
	Level           domain.WorkloadLevel
}

// Compute derives the workload summary. Only tasks in an active status
// (not_started, in_progress, under_review) count toward allocation.
// Zero declared capacity with allocated work yields infinite
// utilization, classified overloaded.
func Compute(input Input) Summary {
	var count int
	var allocated float64
	for _, t := range input.Tasks {
		if !t.Status.IsActive() {
			continue
		}
		count++
		allocated += t.EstimatedHours
	}

	var utilization float64
	switch {
	case input.HoursPerWeek > 0:
		utilization = allocated / input.HoursPerWeek
	case allocated > 0:
		utilization = math.Inf(1)
	}

	return Summary{
		ActiveTaskCount: count,
		AllocatedHours:  allocated,
		Utilization:     utilization,
		Level:           Classify(utilization),
	}
}

// Classify maps a utilization ratio onto the workload bands. Band edges
// belong to the lower band: exactly 0.5 is low, exactly 1.0 is high.
func Classify(utilization float64) domain.WorkloadLevel {
	switch {
	case utilization <= 0.5:
		return domain.WorkloadLow
	case utilization <= 0.8:
		return domain.WorkloadModerate
	case utilization <= 1.0:
		return domain.WorkloadHigh
	default:
		return domain.WorkloadOverloaded
	}
}
