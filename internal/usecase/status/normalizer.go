package status

import (
	"strings"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
)

// DefaultTable returns the built-in raw-token mapping. Tokens are matched
// case-insensitively and exactly; adding a new backend status value is a
// data change, not a code change.
func DefaultTable() map[string]entities.MeetingStatus {
	return map[string]entities.MeetingStatus{
		// bot actively capturing media
		"recording":             entities.MeetingStatusInCallRecording,
		"in_recording":          entities.MeetingStatusInCallRecording,
		"in_call_recording":     entities.MeetingStatusInCallRecording,
		"bot.in_call_recording": entities.MeetingStatusInCallRecording,

		// bot connecting, waiting, or granted but not yet recording
		"joining":                          entities.MeetingStatusInProgress,
		"joining_call":                     entities.MeetingStatusInProgress,
		"bot.joining_call":                 entities.MeetingStatusInProgress,
		"waiting":                          entities.MeetingStatusInProgress,
		"in_waiting_room":                  entities.MeetingStatusInProgress,
		"bot.in_waiting_room":              entities.MeetingStatusInProgress,
		"in_call_not_recording":            entities.MeetingStatusInProgress,
		"bot.in_call_not_recording":        entities.MeetingStatusInProgress,
		"recording_permission_allowed":     entities.MeetingStatusInProgress,
		"bot.recording_permission_allowed": entities.MeetingStatusInProgress,
		"call_started":                     entities.MeetingStatusInProgress,
		"in_progress":                      entities.MeetingStatusInProgress,
		"started":                          entities.MeetingStatusInProgress,

		// terminal success
		"call_ended":        entities.MeetingStatusCompleted,
		"bot.call_ended":    entities.MeetingStatusCompleted,
		"done":              entities.MeetingStatusCompleted,
		"bot.done":          entities.MeetingStatusCompleted,
		"media_expired":     entities.MeetingStatusCompleted,
		"bot.media_expired": entities.MeetingStatusCompleted,
		"completed":         entities.MeetingStatusCompleted,
		"finished":          entities.MeetingStatusCompleted,
		"ended":             entities.MeetingStatusCompleted,

		// fatal error or permission denied
		"fatal":                           entities.MeetingStatusFailed,
		"bot.fatal":                       entities.MeetingStatusFailed,
		"recording_permission_denied":     entities.MeetingStatusFailed,
		"bot.recording_permission_denied": entities.MeetingStatusFailed,
		"failed":                          entities.MeetingStatusFailed,
		"error":                           entities.MeetingStatusFailed,

		// not started yet
		"scheduled": entities.MeetingStatusScheduled,
		"upcoming":  entities.MeetingStatusScheduled,
		"ready":     entities.MeetingStatusScheduled,
		"pending":   entities.MeetingStatusScheduled,
	}
}

// Normalizer maps heterogeneous raw status strings into the canonical
// lifecycle. Normalize is total and deterministic: every input yields
// exactly one canonical status, and unrecognized tokens fall through to
// unknown instead of raising an error.
type Normalizer struct {
	table map[string]entities.MeetingStatus
}

// NewNormalizer builds a Normalizer from the default table merged with the
// given overrides. Overrides win on conflicting tokens; pass nil for the
// defaults alone.
func NewNormalizer(overrides map[string]entities.MeetingStatus) *Normalizer {
	table := DefaultTable()
	for token, st := range overrides {
		table[strings.ToLower(token)] = st
	}
	return &Normalizer{table: table}
}

// Normalize maps a raw status string to its canonical lifecycle state.
func (n *Normalizer) Normalize(raw string) entities.MeetingStatus {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return entities.MeetingStatusUnknown
	}
	if st, ok := n.table[token]; ok {
		return st
	}
	return entities.MeetingStatusUnknown
}
