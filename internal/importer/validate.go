package importer

import (
	"fmt"
	"time"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/graph"
)

// validImportTaskStatuses restricts imports to statuses that make sense
// for seeded data. cancelled tasks are not importable; cancel them
// through the live API if needed.
var validImportTaskStatuses = map[string]bool{
	"not_started": true, "in_progress": true, "under_review": true,
	"blocked": true, "completed": true,
}

// validImportProjectStatuses restricts imports to live project statuses.
var validImportProjectStatuses = map[string]bool{
	"planning": true, "active": true, "on_hold": true,
}

// ValidateWorkspaceSchema checks the workspace schema before conversion.
// Returns a slice of all validation errors found, so a caller can fix
// the file in one pass.
func ValidateWorkspaceSchema(schema *WorkspaceSchema) []error {
	var errs []error

	if schema.OrganizationID == "" {
		errs = append(errs, fmt.Errorf("organization_id is required"))
	}

	memberRefs := make(map[string]bool)
	errs = append(errs, validateMembers(schema.Members, memberRefs)...)

	projectRefs := make(map[string]bool)
	errs = append(errs, validateProjects(schema.Projects, memberRefs, projectRefs)...)

	taskRefs := make(map[string]bool)
	errs = append(errs, validateTasks(schema.Tasks, projectRefs, memberRefs, taskRefs)...)

	errs = append(errs, validateDependencies(schema.Dependencies, taskRefs)...)

	return errs
}

func validateMembers(members []MemberImport, refs map[string]bool) []error {
	var errs []error
	for i, m := range members {
		prefix := fmt.Sprintf("members[%d]", i)
		if m.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[m.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, m.Ref))
		} else {
			refs[m.Ref] = true
		}
		if m.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if m.Availability != "" && !domain.ValidAvailabilities[m.Availability] {
			errs = append(errs, fmt.Errorf("%s.availability: invalid value %q", prefix, m.Availability))
		}
		if m.HoursPerWeek != nil && *m.HoursPerWeek < 0 {
			errs = append(errs, fmt.Errorf("%s.hours_per_week must be non-negative", prefix))
		}
	}
	return errs
}

func validateProjects(projects []ProjectImport, memberRefs, refs map[string]bool) []error {
	var errs []error
	for i, p := range projects {
		prefix := fmt.Sprintf("projects[%d]", i)
		if p.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[p.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, p.Ref))
		} else {
			refs[p.Ref] = true
		}
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if p.Status != "" && !validImportProjectStatuses[p.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q (importable: planning, active, on_hold)", prefix, p.Status))
		}
		if p.Priority != "" && !domain.ValidPriorities[p.Priority] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, p.Priority))
		}
		errs = append(errs, validateDate(prefix+".start_date", p.StartDate)...)
		errs = append(errs, validateDate(prefix+".due_date", p.DueDate)...)
		if p.ManagerRef != "" && !memberRefs[p.ManagerRef] {
			errs = append(errs, fmt.Errorf("%s.manager_ref: unknown member ref %q", prefix, p.ManagerRef))
		}
		for _, ref := range p.TeamRefs {
			if !memberRefs[ref] {
				errs = append(errs, fmt.Errorf("%s.team_refs: unknown member ref %q", prefix, ref))
			}
		}
		for j, m := range p.Milestones {
			if m.Name == "" {
				errs = append(errs, fmt.Errorf("%s.milestones[%d].name is required", prefix, j))
			}
			errs = append(errs, validateDate(fmt.Sprintf("%s.milestones[%d].due_date", prefix, j), m.DueDate)...)
		}
	}
	return errs
}

func validateTasks(tasks []TaskImport, projectRefs, memberRefs, refs map[string]bool) []error {
	var errs []error
	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)
		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[t.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
		} else {
			refs[t.Ref] = true
		}
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if t.ProjectRef == "" {
			errs = append(errs, fmt.Errorf("%s.project_ref is required", prefix))
		} else if !projectRefs[t.ProjectRef] {
			errs = append(errs, fmt.Errorf("%s.project_ref: unknown project ref %q", prefix, t.ProjectRef))
		}
		if t.Status != "" && !validImportTaskStatuses[t.Status] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		}
		if t.Priority != "" && !domain.ValidPriorities[t.Priority] {
			errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, t.Priority))
		}
		if t.Complexity != "" && !domain.ValidComplexities[t.Complexity] {
			errs = append(errs, fmt.Errorf("%s.complexity: invalid value %q", prefix, t.Complexity))
		}
		if t.AssignedRef != "" && !memberRefs[t.AssignedRef] {
			errs = append(errs, fmt.Errorf("%s.assigned_ref: unknown member ref %q", prefix, t.AssignedRef))
		}
		if t.ParentRef != "" {
			if t.ParentRef == t.Ref {
				errs = append(errs, fmt.Errorf("%s.parent_ref: task cannot be its own parent", prefix))
			}
		}
		if t.EstimatedHours != nil && *t.EstimatedHours < 0 {
			errs = append(errs, fmt.Errorf("%s.estimated_hours must be non-negative", prefix))
		}
		errs = append(errs, validateProgress(prefix, t)...)
		errs = append(errs, validateDate(prefix+".start_date", t.StartDate)...)
		errs = append(errs, validateDate(prefix+".due_date", t.DueDate)...)
	}

	// Parent refs may point forward in the list, so resolve them in a
	// second pass, then reject parent chains that loop.
	parents := make(map[string]string, len(tasks))
	for i, t := range tasks {
		if t.ParentRef == "" || t.ParentRef == t.Ref {
			continue
		}
		if !refs[t.ParentRef] {
			errs = append(errs, fmt.Errorf("tasks[%d].parent_ref: unknown task ref %q", i, t.ParentRef))
			continue
		}
		parents[t.Ref] = t.ParentRef
	}
	for i, t := range tasks {
		if parent, ok := parents[t.Ref]; ok && graph.AncestorChainContains(parents, parent, t.Ref) {
			errs = append(errs, fmt.Errorf("tasks[%d].parent_ref: parent chain loops back to %q", i, t.Ref))
		}
	}
	return errs
}

// validateProgress enforces the percentage/status consistency rules
// the live API maintains: completed means exactly 100, a not_started
// task carries no progress, and a blocked task cannot sit at 100.
func validateProgress(prefix string, t TaskImport) []error {
	var errs []error
	if t.CompletionPercentage == nil {
		return nil
	}
	pct := *t.CompletionPercentage
	if pct < 0 || pct > 100 {
		errs = append(errs, fmt.Errorf("%s.completion_percentage %g outside [0, 100]", prefix, pct))
		return errs
	}
	switch t.Status {
	case "completed":
		if pct != 100 {
			errs = append(errs, fmt.Errorf("%s: status completed requires completion_percentage 100, got %g", prefix, pct))
		}
	case "not_started", "":
		if pct > 0 {
			errs = append(errs, fmt.Errorf("%s: completion_percentage %g requires an in-flight status", prefix, pct))
		}
	case "blocked":
		if pct >= 100 {
			errs = append(errs, fmt.Errorf("%s: a blocked task cannot carry completion_percentage 100", prefix))
		}
	default:
		if pct >= 100 {
			errs = append(errs, fmt.Errorf("%s: completion_percentage 100 requires status completed", prefix))
		}
	}
	return errs
}

func validateDependencies(deps []DependencyImport, taskRefs map[string]bool) []error {
	var errs []error
	edges := make(graph.Edges, len(deps))
	seen := make(map[[2]string]bool, len(deps))

	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)
		if !taskRefs[d.TaskRef] {
			errs = append(errs, fmt.Errorf("%s.task_ref: unknown task ref %q", prefix, d.TaskRef))
			continue
		}
		if !taskRefs[d.DependsOnRef] {
			errs = append(errs, fmt.Errorf("%s.depends_on_ref: unknown task ref %q", prefix, d.DependsOnRef))
			continue
		}
		if d.TaskRef == d.DependsOnRef {
			errs = append(errs, fmt.Errorf("%s: task %q cannot depend on itself", prefix, d.TaskRef))
			continue
		}
		key := [2]string{d.TaskRef, d.DependsOnRef}
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s: duplicate dependency %q -> %q", prefix, d.TaskRef, d.DependsOnRef))
			continue
		}
		seen[key] = true

		// Build the graph edge by edge so the offending entry is named.
		if graph.WouldCreateCycle(edges, d.TaskRef, d.DependsOnRef) {
			errs = append(errs, fmt.Errorf("%s: dependency %q -> %q closes a cycle", prefix, d.TaskRef, d.DependsOnRef))
			continue
		}
		edges[d.TaskRef] = append(edges[d.TaskRef], d.DependsOnRef)
	}
	return errs
}

func validateDate(path string, value *string) []error {
	if value == nil || *value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *value); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", path, *value)}
	}
	return nil
}
