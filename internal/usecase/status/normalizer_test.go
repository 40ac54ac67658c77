package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
)

func TestNormalize_KnownTokens(t *testing.T) {
	n := NewNormalizer(nil)

	tests := []struct {
		raw  string
		want entities.MeetingStatus
	}{
		{"bot.in_call_recording", entities.MeetingStatusInCallRecording},
		{"in_call_recording", entities.MeetingStatusInCallRecording},
		{"recording", entities.MeetingStatusInCallRecording},
		{"bot.joining_call", entities.MeetingStatusInProgress},
		{"in_waiting_room", entities.MeetingStatusInProgress},
		{"bot.recording_permission_allowed", entities.MeetingStatusInProgress},
		{"call_started", entities.MeetingStatusInProgress},
		{"bot.call_ended", entities.MeetingStatusCompleted},
		{"done", entities.MeetingStatusCompleted},
		{"media_expired", entities.MeetingStatusCompleted},
		{"finished", entities.MeetingStatusCompleted},
		{"bot.fatal", entities.MeetingStatusFailed},
		{"recording_permission_denied", entities.MeetingStatusFailed},
		{"scheduled", entities.MeetingStatusScheduled},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.raw))
		})
	}
}

func TestNormalize_CaseInsensitiveAndTrimmed(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, entities.MeetingStatusInCallRecording, n.Normalize("BOT.IN_CALL_RECORDING"))
	assert.Equal(t, entities.MeetingStatusCompleted, n.Normalize("  Done  "))
	assert.Equal(t, entities.MeetingStatusFailed, n.Normalize("Bot.Fatal"))
}

func TestNormalize_Totality(t *testing.T) {
	n := NewNormalizer(nil)

	known := map[entities.MeetingStatus]bool{
		entities.MeetingStatusScheduled:       true,
		entities.MeetingStatusInProgress:      true,
		entities.MeetingStatusInCallRecording: true,
		entities.MeetingStatusCompleted:       true,
		entities.MeetingStatusFailed:          true,
		entities.MeetingStatusUnknown:         true,
	}

	inputs := []string{
		"", " ", "garbage", "bot.some_future_state", "DONE", "done",
		"call_ended", "\tfatal\n", "??", "0", "in-call-recording",
	}
	for _, raw := range inputs {
		got := n.Normalize(raw)
		require.True(t, known[got], "Normalize(%q) = %q is outside the canonical set", raw, got)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := NewNormalizer(nil)

	for _, raw := range []string{"", "done", "bot.in_call_recording", "nonsense"} {
		first := n.Normalize(raw)
		for i := 0; i < 10; i++ {
			require.Equal(t, first, n.Normalize(raw))
		}
	}
}

func TestNormalize_UnrecognizedAndEmptyAreUnknown(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, entities.MeetingStatusUnknown, n.Normalize(""))
	assert.Equal(t, entities.MeetingStatusUnknown, n.Normalize("bot.brand_new_status"))
}

func TestNormalize_Overrides(t *testing.T) {
	n := NewNormalizer(map[string]entities.MeetingStatus{
		"Bot.Archived": entities.MeetingStatusCompleted,
		"done":         entities.MeetingStatusFailed, // override a default
	})

	assert.Equal(t, entities.MeetingStatusCompleted, n.Normalize("bot.archived"))
	assert.Equal(t, entities.MeetingStatusFailed, n.Normalize("done"))
}
