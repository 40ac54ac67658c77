package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
)

func TestPromoteActionItemsDefaults(t *testing.T) {
	items := PromoteActionItems("m-1", []entities.AnalysisItem{
		{Content: "Send the follow-up deck"},
	})

	require.Len(t, items, 1)
	it := items[0]
	assert.Equal(t, "m-1", it.MeetingID)
	assert.Equal(t, "Send the follow-up deck", it.Content)
	assert.Equal(t, entities.ActionItemStatusPending, it.Status)
	assert.Equal(t, entities.ActionItemPriorityMedium, it.Priority)
	assert.Equal(t, entities.ActionItemSourceAnalysis, it.Source)
	assert.Nil(t, it.DueDate)
	assert.NotEqual(t, it.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestPromoteActionItemsPreservesOrderAndSkipsEmpty(t *testing.T) {
	items := PromoteActionItems("m-1", []entities.AnalysisItem{
		{Content: "first"},
		{Content: "   "},
		{Content: ""},
		{Content: "second"},
		{Content: "third"},
	})

	require.Len(t, items, 3)
	assert.Equal(t, "first", items[0].Content)
	assert.Equal(t, "second", items[1].Content)
	assert.Equal(t, "third", items[2].Content)

	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.NotEqual(t, items[1].ID, items[2].ID)
}

func TestPromoteActionItemsStructuredFields(t *testing.T) {
	items := PromoteActionItems("m-1", []entities.AnalysisItem{
		{
			Content:  "  Review budget  ",
			Assignee: " alex ",
			DueDate:  "2026-09-15",
			Status:   entities.ActionItemStatusCompleted,
			Priority: entities.ActionItemPriorityHigh,
		},
		{
			Content:  "Loose item",
			Status:   "doing", // unrecognized
			Priority: "urgent",
			DueDate:  "next tuesday",
		},
	})

	require.Len(t, items, 2)

	assert.Equal(t, "Review budget", items[0].Content)
	assert.Equal(t, "alex", items[0].Assignee)
	assert.Equal(t, entities.ActionItemStatusCompleted, items[0].Status)
	assert.Equal(t, entities.ActionItemPriorityHigh, items[0].Priority)
	require.NotNil(t, items[0].DueDate)
	assert.Equal(t, "2026-09-15", items[0].DueDate.Format("2006-01-02"))

	assert.Equal(t, entities.ActionItemStatusPending, items[1].Status)
	assert.Equal(t, entities.ActionItemPriorityMedium, items[1].Priority)
	assert.Nil(t, items[1].DueDate, "unparseable due date is dropped")
}

func TestPromoteActionItemsEmptyInput(t *testing.T) {
	assert.Empty(t, PromoteActionItems("m-1", nil))
	assert.Empty(t, PromoteActionItems("m-1", []entities.AnalysisItem{}))
}
