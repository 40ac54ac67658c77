package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItemStatus constants
const (
	ActionItemStatusPending   = "pending"
	ActionItemStatusCompleted = "completed"
)

// ActionItemPriority constants
const (
	ActionItemPriorityLow    = "low"
	ActionItemPriorityMedium = "medium"
	ActionItemPriorityHigh   = "high"
)

// ActionItemSource constants
const (
	ActionItemSourceManual   = "manual"   // created by a user through the API
	ActionItemSourceAnalysis = "analysis" // promoted from AI analysis output
)

// ActionItem is a task owned by the meeting it references. Deleting a
// meeting cascades to its action items.
type ActionItem struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	MeetingID string     `json:"meeting_id" gorm:"type:varchar(255);not null;index"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	Assignee  string     `json:"assignee,omitempty" gorm:"type:varchar(255)"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	Status    string     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	Priority  string     `json:"priority" gorm:"type:varchar(20);default:'medium'"`
	Source    string     `json:"source" gorm:"type:varchar(20);default:'manual'"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for ActionItem
func (ActionItem) TableName() string {
	return "action_items"
}

// NewActionItem creates a new ActionItem entity with defaults
func NewActionItem(meetingID, content string) *ActionItem {
	return &ActionItem{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Content:   content,
		Status:    ActionItemStatusPending,
		Priority:  ActionItemPriorityMedium,
		Source:    ActionItemSourceManual,
	}
}

// ValidActionItemStatus reports whether s is a known action item status.
func ValidActionItemStatus(s string) bool {
	return s == ActionItemStatusPending || s == ActionItemStatusCompleted
}

// ValidActionItemPriority reports whether p is a known action item priority.
func ValidActionItemPriority(p string) bool {
	return p == ActionItemPriorityLow || p == ActionItemPriorityMedium || p == ActionItemPriorityHigh
}
