package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/repository"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
	"github.com/wilfredeveloper/barka-sub001/internal/workload"
)

type teamService struct {
	members repository.TeamMemberRepo
	tasks   repository.TaskRepo
}

// NewTeamService creates the team roster and capacity service.
// Workload figures are derived per query, never stored on the member.
func NewTeamService(members repository.TeamMemberRepo, tasks repository.TaskRepo) TeamService {
	return &teamService{members: members, tasks: tasks}
}

func (s *teamService) Create(ctx context.Context, caller tenancy.Caller, in CreateMemberInput) (*domain.TeamMember, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, fmt.Errorf("member name is required")
	}
	if scope.All() {
		return nil, fmt.Errorf("member creation needs a concrete organization: %w", domain.ErrUnauthorized)
	}
	if in.HoursPerWeek < 0 {
		return nil, &domain.OutOfRangeError{Field: "hoursPerWeek", Value: in.HoursPerWeek, Min: 0, Max: maxHours}
	}

	now := time.Now().UTC()
	member := &domain.TeamMember{
		ID:             uuid.New().String(),
		OrganizationID: scope.OrgID(),
		Name:           in.Name,
		Email:          in.Email,
		Role:           in.Role,
		Capacity:       domain.Capacity{HoursPerWeek: in.HoursPerWeek, Availability: in.Availability},
		Skills:         in.Skills,
		Status:         domain.MemberActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if member.Capacity.Availability == "" {
		member.Capacity.Availability = domain.AvailabilityFullTime
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *teamService) Get(ctx context.Context, caller tenancy.Caller, id string) (*domain.TeamMember, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	return s.members.GetByID(ctx, scope, id)
}

func (s *teamService) List(ctx context.Context, caller tenancy.Caller) ([]*domain.TeamMember, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	return s.members.List(ctx, scope)
}

func (s *teamService) SetCapacity(ctx context.Context, caller tenancy.Caller, memberID string, hoursPerWeek float64, availability domain.Availability) error {
	if hoursPerWeek < 0 {
		return &domain.OutOfRangeError{Field: "hoursPerWeek", Value: hoursPerWeek, Min: 0, Max: maxHours}
	}
	scope, err := caller.Scope()
	if err != nil {
		return err
	}
	member, err := s.members.GetByID(ctx, scope, memberID)
	if err != nil {
		return err
	}
	member.Capacity.HoursPerWeek = hoursPerWeek
	if availability != "" {
		member.Capacity.Availability = availability
	}
	member.UpdatedAt = time.Now().UTC()
	return mapWriteErr(s.members.Update(ctx, member))
}

func (s *teamService) SetStatus(ctx context.Context, caller tenancy.Caller, memberID string, status domain.MemberStatus) error {
	scope, err := caller.Scope()
	if err != nil {
		return err
	}
	member, err := s.members.GetByID(ctx, scope, memberID)
	if err != nil {
		return err
	}
	member.Status = status
	member.UpdatedAt = time.Now().UTC()
	return mapWriteErr(s.members.Update(ctx, member))
}

func (s *teamService) Workload(ctx context.Context, caller tenancy.Caller, memberID string) (*WorkloadSummary, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	member, err := s.members.GetByID(ctx, scope, memberID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, member)
}

func (s *teamService) TeamWorkload(ctx context.Context, caller tenancy.Caller) ([]*WorkloadSummary, error) {
	scope, err := caller.Scope()
	if err != nil {
		return nil, err
	}
	members, err := s.members.List(ctx, scope)
	if err != nil {
		return nil, err
	}

	summaries := make([]*WorkloadSummary, 0, len(members))
	for _, member := range members {
		summary, err := s.summarize(ctx, member)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *teamService) summarize(ctx context.Context, member *domain.TeamMember) (*WorkloadSummary, error) {
	assigned, err := s.tasks.ListByAssignee(ctx, tenancy.OrgScope(member.OrganizationID), member.ID)
	if err != nil {
		return nil, err
	}

	input := workload.Input{HoursPerWeek: member.Capacity.HoursPerWeek}
	for _, t := range assigned {
		input.Tasks = append(input.Tasks, workload.TaskLoad{
			TaskID:         t.ID,
			Status:         t.Status,
			EstimatedHours: t.EstimatedHours,
		})
	}
	summary := workload.Compute(input)

	return &WorkloadSummary{
		MemberID:        member.ID,
		MemberName:      member.Name,
		HoursPerWeek:    member.Capacity.HoursPerWeek,
		ActiveTaskCount: summary.ActiveTaskCount,
		AllocatedHours:  summary.AllocatedHours,
		Utilization:     summary.Utilization,
		Level:           summary.Level,
	}, nil
}
