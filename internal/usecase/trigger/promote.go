package trigger

import (
	"strings"
	"time"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
)

// PromoteActionItems converts analysis output entries into ActionItem
// records, preserving input order. Bare strings become pending/medium items
// with generated ids; structured entries keep their own fields, with
// unrecognized status/priority values falling back to the defaults.
func PromoteActionItems(meetingID string, items []entities.AnalysisItem) []entities.ActionItem {
	out := make([]entities.ActionItem, 0, len(items))

	for _, it := range items {
		content := strings.TrimSpace(it.Content)
		if content == "" {
			continue
		}

		item := entities.NewActionItem(meetingID, content)
		item.Source = entities.ActionItemSourceAnalysis
		item.Assignee = strings.TrimSpace(it.Assignee)

		if entities.ValidActionItemStatus(it.Status) {
			item.Status = it.Status
		}
		if entities.ValidActionItemPriority(it.Priority) {
			item.Priority = it.Priority
		}
		if due := strings.TrimSpace(it.DueDate); due != "" {
			if d, err := time.ParseInLocation("2006-01-02", due, time.Local); err == nil {
				item.DueDate = &d
			}
		}

		out = append(out, *item)
	}

	return out
}
