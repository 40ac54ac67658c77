package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AnalysisItem is one entry of an analysis response's action_items array.
// The upstream emits either a bare string or a structured object; a bare
// string decodes into Content with everything else left empty.
type AnalysisItem struct {
	Content  string `json:"content"`
	Assignee string `json:"assignee,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form.
func (it *AnalysisItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*it = AnalysisItem{Content: s}
		return nil
	}

	type plain AnalysisItem
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*it = AnalysisItem(p)
	return nil
}

// AnalysisResult is the decoded response of an analysis request. Both
// fields are optional.
type AnalysisResult struct {
	Summary     string         `json:"summary,omitempty"`
	ActionItems []AnalysisItem `json:"action_items,omitempty"`
}

// AnalysisRecord persists the outcome of a successful analysis so summaries
// survive a process restart. One record per meeting.
type AnalysisRecord struct {
	ID         uuid.UUID                                  `json:"id" gorm:"type:uuid;primary_key"`
	MeetingID  string                                     `json:"meeting_id" gorm:"type:varchar(255);not null;uniqueIndex"`
	Summary    string                                     `json:"summary" gorm:"type:text"`
	RawPayload datatypes.JSONType[map[string]interface{}] `json:"raw_payload,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time                                  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time                                  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for AnalysisRecord
func (AnalysisRecord) TableName() string {
	return "analysis_records"
}

// NewAnalysisRecord creates a new AnalysisRecord entity
func NewAnalysisRecord(meetingID, summary string) *AnalysisRecord {
	return &AnalysisRecord{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Summary:   summary,
	}
}
