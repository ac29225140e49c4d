package formatter

import (
	"fmt"
	"strings"

	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/service"
)

// FormatMemberList renders team members as a table.
func FormatMemberList(members []*domain.TeamMember) string {
	if len(members) == 0 {
		return Dim("No team members.") + "\n"
	}

	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			TruncID(m.ID),
			m.Name,
			m.Role,
			MemberStatusPill(m.Status),
			FormatHours(m.Capacity.HoursPerWeek) + "/wk",
			string(m.Capacity.Availability),
		})
	}
	return RenderTable([]string{"ID", "NAME", "ROLE", "STATUS", "CAPACITY", "AVAILABILITY"}, rows)
}

// FormatMemberDetail renders one team member in full.
func FormatMemberDetail(m *domain.TeamMember) string {
	var b strings.Builder
	b.WriteString(Header(m.Name) + "\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", TruncID(m.ID), MemberStatusPill(m.Status)))
	if m.Email != "" {
		b.WriteString(fmt.Sprintf("Email      %s\n", m.Email))
	}
	if m.Role != "" {
		b.WriteString(fmt.Sprintf("Role       %s\n", m.Role))
	}
	b.WriteString(fmt.Sprintf("Capacity   %s/wk, %s\n", FormatHours(m.Capacity.HoursPerWeek), m.Capacity.Availability))
	if len(m.Skills) > 0 {
		b.WriteString(fmt.Sprintf("Skills     %s\n", strings.Join(m.Skills, ", ")))
	}
	if len(m.CurrentProjectIDs) > 0 {
		short := make([]string, len(m.CurrentProjectIDs))
		for i, id := range m.CurrentProjectIDs {
			short[i] = TruncID(id)
		}
		b.WriteString(fmt.Sprintf("Projects   %s\n", strings.Join(short, " ")))
	}
	return b.String()
}

// FormatWorkloadTable renders derived workload summaries as a table.
func FormatWorkloadTable(summaries []*service.WorkloadSummary) string {
	if len(summaries) == 0 {
		return Dim("No team members.") + "\n"
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.MemberName,
			fmt.Sprintf("%d", s.ActiveTaskCount),
			FormatHours(s.AllocatedHours),
			FormatHours(s.HoursPerWeek) + "/wk",
			FormatUtilization(s.Utilization),
			WorkloadBadge(s.Level),
		})
	}
	return RenderTable([]string{"MEMBER", "ACTIVE", "ALLOCATED", "CAPACITY", "UTILIZATION", "LEVEL"}, rows)
}
