package formatter

import (
	"fmt"
	"strings"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/service"
)

// FormatProjectList renders projects as a table.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects.") + "\n"
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			p.Name,
			ProjectStatusPill(p.Status),
			PriorityBadge(p.Priority),
			RenderProgress(p.Progress.CompletionPercentage/100, 12),
			DueDateStyled(p.DueDate),
		})
	}
	return RenderTable([]string{"ID", "NAME", "STATUS", "PRIORITY", "PROGRESS", "DUE"}, rows)
}

// FormatProjectDetail renders the full project read model.
func FormatProjectDetail(d *service.ProjectDetail) string {
	p := d.Project

	var b strings.Builder
	b.WriteString(Header(p.Name) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", TruncID(p.ID), ProjectStatusPill(p.Status), PriorityBadge(p.Priority)))
	if p.Description != "" {
		b.WriteString(p.Description + "\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Progress   %s\n", RenderProgress(p.Progress.CompletionPercentage/100, 20)))
	b.WriteString(fmt.Sprintf("Tasks      %d total, %d completed\n", d.TaskCount, d.CompletedTasks))
	if p.Budget > 0 {
		b.WriteString(fmt.Sprintf("Budget     %.2f\n", p.Budget))
	}
	if p.StartDate != nil {
		b.WriteString(fmt.Sprintf("Start      %s\n", p.StartDate.Format("2006-01-02")))
	}
	if p.DueDate != nil {
		b.WriteString(fmt.Sprintf("Due        %s\n", DueDateStyled(p.DueDate)))
	}

	if len(d.TeamMemberNames) > 0 {
		b.WriteString(fmt.Sprintf("Team       %s\n", strings.Join(d.TeamMemberNames, ", ")))
	}

	if len(p.Milestones) > 0 {
		b.WriteString("\n" + Header("Milestones") + "\n")
		for _, m := range p.Milestones {
			mark := StyleDim.Render("○")
			if m.Status == domain.MilestoneCompleted {
				mark = StyleGreen.Render("✔")
			}
			due := ""
			if m.DueDate != nil {
				due = "  " + Dim(m.DueDate.Format("2006-01-02"))
			}
			b.WriteString(fmt.Sprintf("%s %s%s\n", mark, m.Name, due))
		}
	}

	if len(p.StatusHistory) > 0 {
		b.WriteString("\n" + Header("History") + "\n")
		b.WriteString(formatHistory(p.StatusHistory))
	}

	return b.String()
}

// formatHistory renders an append-only status history, newest last.
func formatHistory(entries []domain.StatusHistoryEntry) string {
	var b strings.Builder
	for _, e := range entries {
		line := fmt.Sprintf("%s  %s  %s", Dim(e.Timestamp.Format("2006-01-02 15:04")), e.Status, Dim("by "+e.ChangedBy))
		if e.Reason != "" {
			line += Dim(" — " + e.Reason)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
