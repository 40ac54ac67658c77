package entities

import (
	"time"
)

// MeetingStatus is the canonical lifecycle state of a meeting, decoupled
// from the raw status vocabulary of the upstream bot API.
type MeetingStatus string

const (
	MeetingStatusScheduled       MeetingStatus = "scheduled"
	MeetingStatusInProgress      MeetingStatus = "in_progress"
	MeetingStatusInCallRecording MeetingStatus = "in_call_recording"
	MeetingStatusCompleted       MeetingStatus = "completed"
	MeetingStatusFailed          MeetingStatus = "failed"
	MeetingStatusUnknown         MeetingStatus = "unknown"
)

// IsTerminal reports whether the status is an end state. A meeting never
// moves backward out of a terminal state.
func (s MeetingStatus) IsTerminal() bool {
	return s == MeetingStatusCompleted || s == MeetingStatusFailed
}

// IsActive reports whether the meeting may still produce transcript content.
func (s MeetingStatus) IsActive() bool {
	return s == MeetingStatusInProgress || s == MeetingStatusInCallRecording || s == MeetingStatusUnknown
}

// Meeting is the central entity of the reconciliation engine. Identity is an
// opaque string id that is stable across polls. Schedule fields are local
// wall-clock strings as delivered by the upstream feed.
type Meeting struct {
	ID        string        `json:"id"`
	Topic     string        `json:"topic,omitempty"`
	Date      string        `json:"date,omitempty"`       // "2006-01-02"
	StartTime string        `json:"start_time,omitempty"` // "15:04"
	EndTime   string        `json:"end_time,omitempty"`   // "15:04"
	Platform  string        `json:"platform,omitempty"`
	Status    MeetingStatus `json:"status"`
	RawStatus string        `json:"raw_status,omitempty"`

	// Populated asynchronously and monotonically; never un-set once present.
	BotID       string       `json:"bot_id,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	ActionItems []ActionItem `json:"action_items,omitempty"`
}

var clockLayouts = []string{"15:04", "15:04:05"}

func (m *Meeting) scheduleAt(clock string) (time.Time, bool) {
	if m.Date == "" || clock == "" {
		return time.Time{}, false
	}
	for _, layout := range clockLayouts {
		t, err := time.ParseInLocation("2006-01-02 "+layout, m.Date+" "+clock, time.Local)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StartsAt resolves the scheduled start as a local time. The second return
// is false when the schedule fields are absent or unparseable.
func (m *Meeting) StartsAt() (time.Time, bool) {
	return m.scheduleAt(m.StartTime)
}

// EndsAt resolves the scheduled end as a local time.
func (m *Meeting) EndsAt() (time.Time, bool) {
	return m.scheduleAt(m.EndTime)
}
