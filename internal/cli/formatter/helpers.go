package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// TaskStatusPill returns a colored status indicator for a task status.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.TaskNotStarted:
		return StyleDim.Render("○ Not started")
	case domain.TaskInProgress:
		return StyleGreen.Render("● In progress")
	case domain.TaskUnderReview:
		return StyleBlue.Render("◍ Under review")
	case domain.TaskBlocked:
		return StyleRed.Render("■ Blocked")
	case domain.TaskCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.TaskCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// ProjectStatusPill returns a colored status indicator for a project status.
func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectPlanning:
		return StyleBlue.Render("◌ Planning")
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectOnHold:
		return StyleYellow.Render("○ On hold")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ProjectCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// MemberStatusPill returns a colored status indicator for a member status.
func MemberStatusPill(status domain.MemberStatus) string {
	switch status {
	case domain.MemberActive:
		return StyleGreen.Render("● Active")
	case domain.MemberOnLeave:
		return StyleYellow.Render("○ On leave")
	case domain.MemberInactive:
		return StyleDim.Render("✖ Inactive")
	default:
		return StyleDim.Render(string(status))
	}
}

// PriorityBadge returns a colored priority label.
func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityCritical:
		return StyleRed.Render("▲ critical")
	case domain.PriorityHigh:
		return StyleYellow.Render("▲ high")
	case domain.PriorityMedium:
		return StyleFg.Render("• medium")
	case domain.PriorityLow:
		return StyleDim.Render("▽ low")
	default:
		return StyleDim.Render(string(p))
	}
}

// WorkloadBadge returns a colored workload level label.
func WorkloadBadge(level domain.WorkloadLevel) string {
	switch level {
	case domain.WorkloadOverloaded:
		return StyleRed.Render("OVERLOADED")
	case domain.WorkloadHigh:
		return StyleYellow.Render("HIGH")
	case domain.WorkloadModerate:
		return StyleBlue.Render("MODERATE")
	case domain.WorkloadLow:
		return StyleGreen.Render("LOW")
	default:
		return StyleDim.Render(strings.ToUpper(string(level)))
	}
}

// FormatUtilization renders a utilization ratio as a percentage, with
// an unbounded marker when capacity is zero.
func FormatUtilization(u float64) string {
	if math.IsInf(u, 1) {
		return StyleRed.Render("∞")
	}
	text := fmt.Sprintf("%.0f%%", u*100)
	switch {
	case u > 1.0:
		return StyleRed.Render(text)
	case u > 0.8:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatHours renders an hour figure compactly: whole hours without a
// fraction, everything else with one decimal.
func FormatHours(h float64) string {
	if h == math.Trunc(h) {
		return fmt.Sprintf("%.0fh", h)
	}
	return fmt.Sprintf("%.1fh", h)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// DueDateStyled renders a due date with urgency coloring: overdue and
// imminent dates in red, this week in yellow.
func DueDateStyled(t *time.Time) string {
	if t == nil {
		return StyleDim.Render("--")
	}
	text := t.Format("2006-01-02")
	days := int(math.Round(time.Until(*t).Hours() / 24))
	switch {
	case days < 0:
		return StyleRed.Render(text + " (overdue)")
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}
