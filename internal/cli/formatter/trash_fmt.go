package formatter

import (
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
)

// FormatTrashList renders trash entries with their recovery deadlines.
func FormatTrashList(entries []*domain.TrashEntry) string {
	if len(entries) == 0 {
		return Dim("Trash is empty.") + "\n"
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			TruncID(e.ID),
			string(e.EntityType),
			TruncID(e.EntityID),
			Dim(e.DeletedBy),
			HumanDate(e.DeletedAt),
			e.ExpiresAt.Format("2006-01-02"),
		})
	}
	return RenderTable([]string{"ID", "KIND", "ENTITY", "DELETED BY", "DELETED", "EXPIRES"}, rows)
}
