package entities

import "strings"

// TranscriptParticipant identifies a speaker in a transcript segment.
type TranscriptParticipant struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	IsHost bool   `json:"is_host,omitempty"`
}

// TranscriptWord is a single recognized word with relative timestamps in
// seconds and optional absolute wall-clock timestamps.
type TranscriptWord struct {
	Text          string  `json:"text"`
	Start         float64 `json:"start_timestamp,omitempty"`
	End           float64 `json:"end_timestamp,omitempty"`
	AbsoluteStart string  `json:"absolute_start_timestamp,omitempty"`
	AbsoluteEnd   string  `json:"absolute_end_timestamp,omitempty"`
}

// TranscriptSegment is a contiguous run of words from one participant.
type TranscriptSegment struct {
	Participant TranscriptParticipant `json:"participant"`
	Words       []TranscriptWord      `json:"words"`
}

// TranscriptOutput is the engine-facing shape of a transcript fetch. The
// upstream delivers either plain text or speaker segments; both may be empty
// when the transcript is not yet available.
type TranscriptOutput struct {
	Text     string              `json:"text,omitempty"`
	Segments []TranscriptSegment `json:"segments,omitempty"`
}

// HasContent reports whether the fetch yielded usable transcript content.
// An empty output is the "not yet available" signal, not an error.
func (t *TranscriptOutput) HasContent() bool {
	if t == nil {
		return false
	}
	if strings.TrimSpace(t.Text) != "" {
		return true
	}
	for _, seg := range t.Segments {
		if len(seg.Words) > 0 {
			return true
		}
	}
	return false
}

// PlainText flattens the transcript into a single string, preferring the
// text field when present.
func (t *TranscriptOutput) PlainText() string {
	if t == nil {
		return ""
	}
	if strings.TrimSpace(t.Text) != "" {
		return t.Text
	}
	var sb strings.Builder
	for _, seg := range t.Segments {
		for i, w := range seg.Words {
			if i > 0 || sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(w.Text)
		}
	}
	return sb.String()
}
