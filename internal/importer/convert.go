package importer

import (
	"time"

	"github.com/google/uuid"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
)

// Workspace holds the converted domain entities ready for persistence,
// in dependency-safe creation order.
type Workspace struct {
	OrganizationID  string
	Members         []*domain.TeamMember
	Projects        []*domain.Project
	Tasks           []*domain.Task
	DependencyCount int
}

// Convert transforms a validated WorkspaceSchema into domain entities.
// Call ValidateWorkspaceSchema first; Convert assumes the schema is
// valid. Refs are resolved to fresh uuids and membership
// back-references are wired on both sides.
func Convert(schema *WorkspaceSchema, actor string) *Workspace {
	now := time.Now().UTC()
	ws := &Workspace{OrganizationID: schema.OrganizationID}
	defaults := schema.Defaults
	if defaults == nil {
		defaults = &DefaultsImport{}
	}

	memberIDs := make(map[string]string, len(schema.Members))
	membersByRef := make(map[string]*domain.TeamMember, len(schema.Members))
	for _, m := range schema.Members {
		member := &domain.TeamMember{
			ID:             uuid.New().String(),
			OrganizationID: schema.OrganizationID,
			Name:           m.Name,
			Email:          m.Email,
			Role:           m.Role,
			Capacity: domain.Capacity{
				HoursPerWeek: float64OrDefault(40, m.HoursPerWeek, defaults.HoursPerWeek),
				Availability: domain.Availability(firstNonEmpty(m.Availability, string(domain.AvailabilityFullTime))),
			},
			Skills:    m.Skills,
			Status:    domain.MemberActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		memberIDs[m.Ref] = member.ID
		membersByRef[m.Ref] = member
		ws.Members = append(ws.Members, member)
	}

	projectIDs := make(map[string]string, len(schema.Projects))
	for _, p := range schema.Projects {
		status := domain.ProjectStatus(firstNonEmpty(p.Status, string(domain.ProjectPlanning)))
		project := &domain.Project{
			ID:             uuid.New().String(),
			OrganizationID: schema.OrganizationID,
			Name:           p.Name,
			Description:    p.Description,
			Status:         status,
			Priority:       domain.Priority(firstNonEmpty(p.Priority, defaults.Priority, string(domain.PriorityMedium))),
			StartDate:      parseOptionalDate(p.StartDate),
			DueDate:        parseOptionalDate(p.DueDate),
			Budget:         float64OrDefault(0, p.Budget),
			StatusHistory: []domain.StatusHistoryEntry{
				{Status: string(status), Timestamp: now, ChangedBy: actor, Reason: "imported"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if p.ManagerRef != "" {
			project.ProjectManagerID = memberIDs[p.ManagerRef]
		}
		for _, ref := range p.TeamRefs {
			if project.AddTeamMember(memberIDs[ref]) {
				membersByRef[ref].AddProjectRef(project.ID)
			}
		}
		for _, m := range p.Milestones {
			project.Milestones = append(project.Milestones, domain.Milestone{
				Name:    m.Name,
				DueDate: parseOptionalDate(m.DueDate),
				Status:  domain.MilestonePending,
			})
		}
		projectIDs[p.Ref] = project.ID
		ws.Projects = append(ws.Projects, project)
	}

	taskIDs := make(map[string]string, len(schema.Tasks))
	for _, t := range schema.Tasks {
		taskIDs[t.Ref] = uuid.New().String()
	}
	tasksByRef := make(map[string]*domain.Task, len(schema.Tasks))
	for _, t := range schema.Tasks {
		status := domain.TaskStatus(firstNonEmpty(t.Status, string(domain.TaskNotStarted)))
		task := &domain.Task{
			ID:             taskIDs[t.Ref],
			OrganizationID: schema.OrganizationID,
			ProjectID:      projectIDs[t.ProjectRef],
			Name:           t.Name,
			Description:    t.Description,
			Status:         status,
			Priority:       domain.Priority(firstNonEmpty(t.Priority, defaults.Priority, string(domain.PriorityMedium))),
			Complexity:     domain.Complexity(firstNonEmpty(t.Complexity, defaults.Complexity, string(domain.ComplexityModerate))),
			EstimatedHours: float64OrDefault(0, t.EstimatedHours, defaults.EstimatedHours),
			StartDate:      parseOptionalDate(t.StartDate),
			DueDate:        parseOptionalDate(t.DueDate),
			StatusHistory: []domain.StatusHistoryEntry{
				{Status: string(status), Timestamp: now, ChangedBy: actor, Reason: "imported"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if t.ParentRef != "" {
			task.ParentTaskID = taskIDs[t.ParentRef]
		}
		if t.CompletionPercentage != nil {
			task.Progress.CompletionPercentage = *t.CompletionPercentage
		}
		if status == domain.TaskCompleted {
			task.Progress.CompletionPercentage = 100
			task.CompletedAt = &now
		}
		if t.AssignedRef != "" {
			task.AssignedTo = memberIDs[t.AssignedRef]
			member := membersByRef[t.AssignedRef]
			member.AddProjectRef(task.ProjectID)
			for _, project := range ws.Projects {
				if project.ID == task.ProjectID {
					project.AddTeamMember(member.ID)
					break
				}
			}
		}
		tasksByRef[t.Ref] = task
		ws.Tasks = append(ws.Tasks, task)
	}

	for _, d := range schema.Dependencies {
		if tasksByRef[d.TaskRef].AddDependsOn(taskIDs[d.DependsOnRef]) {
			ws.DependencyCount++
		}
	}

	return ws
}

// firstNonEmpty walks the defaults cascade (explicit value, workspace
// default, engine default) and returns the first level that is set.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// float64OrDefault is the cascade for optional numeric fields, which
// arrive as pointers so zero stays distinguishable from absent.
func float64OrDefault(fallback float64, ptrs ...*float64) float64 {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

func parseOptionalDate(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
