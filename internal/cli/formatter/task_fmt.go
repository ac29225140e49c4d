package formatter

import (
	"fmt"
	"strings"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/service"
)

// FormatTaskList renders tasks as a table.
func FormatTaskList(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		assignee := Dim("--")
		if t.AssignedTo != "" {
			assignee = TruncID(t.AssignedTo)
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			t.Name,
			TaskStatusPill(t.Status),
			PriorityBadge(t.Priority),
			assignee,
			RenderProgress(t.Progress.CompletionPercentage/100, 10),
			DueDateStyled(t.DueDate),
		})
	}
	return RenderTable([]string{"ID", "NAME", "STATUS", "PRIORITY", "ASSIGNEE", "PROGRESS", "DUE"}, rows)
}

// FormatTaskDetail renders the full task read model including the
// derived graph views.
func FormatTaskDetail(d *service.TaskDetail) string {
	t := d.Task

	var b strings.Builder
	b.WriteString(Header(t.Name) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n", TruncID(t.ID), TaskStatusPill(t.Status), PriorityBadge(t.Priority), Dim(string(t.Complexity))))
	if t.Description != "" {
		b.WriteString(t.Description + "\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Project    %s %s\n", d.ProjectName, TruncID(t.ProjectID)))
	if t.AssignedTo != "" {
		b.WriteString(fmt.Sprintf("Assignee   %s %s\n", d.AssigneeName, TruncID(t.AssignedTo)))
	}
	b.WriteString(fmt.Sprintf("Progress   %s\n", RenderProgress(t.Progress.CompletionPercentage/100, 20)))
	if t.EstimatedHours > 0 {
		b.WriteString(fmt.Sprintf("Estimate   %s\n", FormatHours(t.EstimatedHours)))
	}
	if t.Progress.TimeSpent > 0 || t.Progress.RemainingWork > 0 {
		b.WriteString(fmt.Sprintf("Time       %s spent, %s remaining\n",
			FormatHours(t.Progress.TimeSpent), FormatHours(t.Progress.RemainingWork)))
	}
	if t.DueDate != nil {
		b.WriteString(fmt.Sprintf("Due        %s\n", DueDateStyled(t.DueDate)))
	}

	writeIDList := func(label string, ids []string) {
		if len(ids) == 0 {
			return
		}
		short := make([]string, len(ids))
		for i, id := range ids {
			short[i] = TruncID(id)
		}
		b.WriteString(fmt.Sprintf("%-10s %s\n", label, strings.Join(short, " ")))
	}
	writeIDList("DependsOn", t.DependsOn)
	writeIDList("BlockedBy", t.BlockedBy)
	writeIDList("Blocks", d.DependentIDs)
	writeIDList("Subtasks", d.SubtaskIDs)
	if t.ParentTaskID != "" {
		b.WriteString(fmt.Sprintf("Parent     %s\n", TruncID(t.ParentTaskID)))
	}

	if len(t.Comments) > 0 {
		b.WriteString("\n" + Header("Comments") + "\n")
		for _, c := range t.Comments {
			b.WriteString(fmt.Sprintf("%s %s\n  %s\n", Dim(c.CreatedAt.Format("2006-01-02 15:04")), Dim(c.AuthorID), c.Body))
		}
	}

	if len(t.StatusHistory) > 0 {
		b.WriteString("\n" + Header("History") + "\n")
		b.WriteString(formatHistory(t.StatusHistory))
	}

	return b.String()
}
