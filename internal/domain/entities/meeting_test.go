package entities

import (
	"encoding/json"
	"testing"
	"time"
)

func TestScheduleParsing(t *testing.T) {
	m := Meeting{Date: "2026-01-02", StartTime: "09:00", EndTime: "10:30:15"}

	start, ok := m.StartsAt()
	if !ok {
		t.Fatal("expected start to parse")
	}
	want := time.Date(2026, 1, 2, 9, 0, 0, 0, time.Local)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}

	end, ok := m.EndsAt()
	if !ok {
		t.Fatal("expected seconds layout to parse")
	}
	if end.Minute() != 30 || end.Second() != 15 {
		t.Errorf("end = %v", end)
	}
}

func TestScheduleParsingMissingFields(t *testing.T) {
	cases := []Meeting{
		{},
		{Date: "2026-01-02"},
		{StartTime: "09:00"},
		{Date: "01/02/2026", StartTime: "09:00"},
		{Date: "2026-01-02", StartTime: "9am"},
	}
	for i, m := range cases {
		if _, ok := m.StartsAt(); ok {
			t.Errorf("case %d: expected no start time for %+v", i, m)
		}
	}
}

func TestStatusPredicates(t *testing.T) {
	if !MeetingStatusCompleted.IsTerminal() || !MeetingStatusFailed.IsTerminal() {
		t.Error("completed and failed are terminal")
	}
	if MeetingStatusInProgress.IsTerminal() || MeetingStatusUnknown.IsTerminal() {
		t.Error("active statuses are not terminal")
	}
	if !MeetingStatusUnknown.IsActive() {
		t.Error("unknown may still produce content")
	}
}

func TestAnalysisItemUnmarshalBothForms(t *testing.T) {
	var result AnalysisResult
	payload := `{"summary": "s", "action_items": ["plain string", {"content": "structured", "assignee": "kim"}]}`
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(result.ActionItems) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.ActionItems))
	}
	if result.ActionItems[0].Content != "plain string" {
		t.Errorf("string form: %+v", result.ActionItems[0])
	}
	if result.ActionItems[1].Content != "structured" || result.ActionItems[1].Assignee != "kim" {
		t.Errorf("object form: %+v", result.ActionItems[1])
	}
}

func TestTranscriptOutputHasContent(t *testing.T) {
	var nilOut *TranscriptOutput
	if nilOut.HasContent() {
		t.Error("nil output has no content")
	}
	if (&TranscriptOutput{Text: "   "}).HasContent() {
		t.Error("whitespace text is not content")
	}
	if !(&TranscriptOutput{Text: "hi"}).HasContent() {
		t.Error("text is content")
	}
	seg := TranscriptSegment{Words: []TranscriptWord{{Text: "hi"}}}
	if !(&TranscriptOutput{Segments: []TranscriptSegment{seg}}).HasContent() {
		t.Error("segment words are content")
	}
	if (&TranscriptOutput{Segments: []TranscriptSegment{{}}}).HasContent() {
		t.Error("wordless segments are not content")
	}
}
