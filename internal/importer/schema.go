// Package importer loads, validates and converts workspace JSON files
// into domain entities. Imported data passes the same graph and status
// invariants as the live API before anything is written.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// WorkspaceSchema is the top-level JSON structure for workspace import.
// Entities reference each other by symbolic ref; conversion resolves
// refs to fresh ids.
type WorkspaceSchema struct {
	OrganizationID string             `json:"organization_id"`
	Defaults       *DefaultsImport    `json:"defaults,omitempty"`
	Members        []MemberImport     `json:"members,omitempty"`
	Projects       []ProjectImport    `json:"projects"`
	Tasks          []TaskImport       `json:"tasks,omitempty"`
	Dependencies   []DependencyImport `json:"dependencies,omitempty"`
}

// DefaultsImport defines workspace-wide defaults that cascade to tasks
// and members: explicit field, then workspace default, then built-in.
type DefaultsImport struct {
	Priority       string   `json:"priority,omitempty"`
	Complexity     string   `json:"complexity,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	HoursPerWeek   *float64 `json:"hours_per_week,omitempty"`
}

// MemberImport defines a team member in the import file.
type MemberImport struct {
	Ref          string   `json:"ref"`
	Name         string   `json:"name"`
	Email        string   `json:"email,omitempty"`
	Role         string   `json:"role,omitempty"`
	HoursPerWeek *float64 `json:"hours_per_week,omitempty"`
	Availability string   `json:"availability,omitempty"`
	Skills       []string `json:"skills,omitempty"`
}

// MilestoneImport defines a project milestone in the import file.
type MilestoneImport struct {
	Name    string  `json:"name"`
	DueDate *string `json:"due_date,omitempty"`
}

// ProjectImport defines a project in the import file. Only live
// statuses may be imported.
type ProjectImport struct {
	Ref         string            `json:"ref"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Status      string            `json:"status,omitempty"`
	Priority    string            `json:"priority,omitempty"`
	StartDate   *string           `json:"start_date,omitempty"`
	DueDate     *string           `json:"due_date,omitempty"`
	Budget      *float64          `json:"budget,omitempty"`
	ManagerRef  string            `json:"manager_ref,omitempty"`
	TeamRefs    []string          `json:"team_refs,omitempty"`
	Milestones  []MilestoneImport `json:"milestones,omitempty"`
}

// TaskImport defines a task in the import file.
type TaskImport struct {
	Ref                  string   `json:"ref"`
	ProjectRef           string   `json:"project_ref"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	Status               string   `json:"status,omitempty"`
	Priority             string   `json:"priority,omitempty"`
	Complexity           string   `json:"complexity,omitempty"`
	AssignedRef          string   `json:"assigned_ref,omitempty"`
	ParentRef            string   `json:"parent_ref,omitempty"`
	EstimatedHours       *float64 `json:"estimated_hours,omitempty"`
	CompletionPercentage *float64 `json:"completion_percentage,omitempty"`
	StartDate            *string  `json:"start_date,omitempty"`
	DueDate              *string  `json:"due_date,omitempty"`
}

// DependencyImport defines a dependsOn edge between two task refs.
type DependencyImport struct {
	TaskRef      string `json:"task_ref"`
	DependsOnRef string `json:"depends_on_ref"`
}

// LoadWorkspaceSchema reads and parses a workspace import JSON file.
func LoadWorkspaceSchema(path string) (*WorkspaceSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema WorkspaceSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
