package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
	"github.com/wilfredeveloper/barka-sub001/internal/testutil"
)

func TestTeamCreate_DefaultsAndValidation(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")

	member, err := e.team.Create(ctx, caller, CreateMemberInput{Name: "Priya", HoursPerWeek: 32})
	require.NoError(t, err)
	assert.Equal(t, domain.MemberActive, member.Status)
	assert.Equal(t, domain.AvailabilityFullTime, member.Capacity.Availability)
	assert.Equal(t, "org-a", member.OrganizationID)

	_, err = e.team.Create(ctx, caller, CreateMemberInput{Name: ""})
	assert.Error(t, err)
	_, err = e.team.Create(ctx, caller, CreateMemberInput{Name: "X", HoursPerWeek: -1})
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}

func TestWorkload_OverAllocatedMemberIsOverloaded(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")
	member := e.seedMember(t, "org-a", "Priya", testutil.WithHoursPerWeek(40))

	e.seedTask(t, "org-a", project.ID, "Big",
		testutil.WithAssignee(member.ID), testutil.WithEstimatedHours(20),
		testutil.WithTaskStatus(domain.TaskInProgress))
	e.seedTask(t, "org-a", project.ID, "Bigger",
		testutil.WithAssignee(member.ID), testutil.WithEstimatedHours(30))

	summary, err := e.team.Workload(ctx, caller, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ActiveTaskCount)
	assert.Equal(t, 50.0, summary.AllocatedHours)
	assert.Equal(t, 1.25, summary.Utilization)
	assert.Equal(t, domain.WorkloadOverloaded, summary.Level)
	assert.Equal(t, "Priya", summary.MemberName)
}

func TestWorkload_OnlyActiveStatusesCount(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")
	member := e.seedMember(t, "org-a", "Priya", testutil.WithHoursPerWeek(40))

	e.seedTask(t, "org-a", project.ID, "Queued",
		testutil.WithAssignee(member.ID), testutil.WithEstimatedHours(10))
	e.seedTask(t, "org-a", project.ID, "Review",
		testutil.WithAssignee(member.ID), testutil.WithEstimatedHours(6),
		testutil.WithTaskStatus(domain.TaskUnderReview))
	e.seedTask(t, "org-a", project.ID, "Shipped",
		testutil.WithAssignee(member.ID), testutil.WithEstimatedHours(99),
		testutil.WithTaskStatus(domain.TaskCompleted))
	e.seedTask(t, "org-a", project.ID, "Stuck",
		testutil.WithAssignee(member.ID), testutil.WithEstimatedHours(99),
		testutil.WithTaskStatus(domain.TaskBlocked))

	summary, err := e.team.Workload(ctx, caller, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.ActiveTaskCount)
	assert.Equal(t, 16.0, summary.AllocatedHours)
	assert.Equal(t, 0.4, summary.Utilization)
	assert.Equal(t, domain.WorkloadLow, summary.Level)
}

func TestWorkload_ZeroCapacityWithWorkIsInfinite(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")
	member := e.seedMember(t, "org-a", "Ghost", testutil.WithHoursPerWeek(0))

	e.seedTask(t, "org-a", project.ID, "Any",
		testutil.WithAssignee(member.ID), testutil.WithEstimatedHours(1))

	summary, err := e.team.Workload(ctx, caller, member.ID)
	require.NoError(t, err)
	assert.True(t, math.IsInf(summary.Utilization, 1))
	assert.Equal(t, domain.WorkloadOverloaded, summary.Level)
}

func TestTeamWorkload_SummarizesWholeRoster(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	project := e.seedProject(t, "org-a", "Launch")

	idle := e.seedMember(t, "org-a", "Idle")
	busy := e.seedMember(t, "org-a", "Busy", testutil.WithHoursPerWeek(10))
	e.seedMember(t, "org-b", "Elsewhere")
	e.seedTask(t, "org-a", project.ID, "Work",
		testutil.WithAssignee(busy.ID), testutil.WithEstimatedHours(9))

	summaries, err := e.team.TeamWorkload(ctx, caller)
	require.NoError(t, err)
	require.Len(t, summaries, 2, "scope confines the roster to the caller's organization")

	byID := map[string]*WorkloadSummary{}
	for _, s := range summaries {
		byID[s.MemberID] = s
	}
	assert.Equal(t, domain.WorkloadLow, byID[idle.ID].Level)
	assert.Equal(t, domain.WorkloadHigh, byID[busy.ID].Level)
}

func TestSetCapacityAndStatus(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	caller := testutil.AdminCaller("org-a")
	member := e.seedMember(t, "org-a", "Priya")

	require.NoError(t, e.team.SetCapacity(ctx, caller, member.ID, 24, domain.AvailabilityPartTime))
	assert.ErrorIs(t, e.team.SetCapacity(ctx, caller, member.ID, -5, ""), domain.ErrOutOfRange)

	require.NoError(t, e.team.SetStatus(ctx, caller, member.ID, domain.MemberOnLeave))

	got, err := e.memberRepo.GetByID(ctx, tenancy.OrgScope("org-a"), member.ID)
	require.NoError(t, err)
	assert.Equal(t, 24.0, got.Capacity.HoursPerWeek)
	assert.Equal(t, domain.AvailabilityPartTime, got.Capacity.Availability)
	assert.Equal(t, domain.MemberOnLeave, got.Status)
}
