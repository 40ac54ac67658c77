package sourceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
	"github.com/meetingdash/meeting-reconciler/pkg/config"
)

// Client is a minimal client for the meeting bot API. It serves the three
// calls the reconciliation engine needs: the meeting list, recorded
// transcripts, and on-demand analysis.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a bot API client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewClient(cfg *config.SourceAPIConfig) *Client {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("SOURCE_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("SOURCE_API_URL")
	}

	timeout := 30 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(base, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// flexID tolerates both string and numeric ids in upstream payloads.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("meeting id is neither string nor number: %s", data)
	}
	*f = flexID(n.String())
	return nil
}

type meetingPayload struct {
	ID        flexID `json:"id"`
	Topic     string `json:"topic"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Platform  string `json:"platform"`
	Status    string `json:"status"`
	BotID     flexID `json:"bot_id"`
}

// ListMeetings fetches the full meeting list from the source of truth. The
// raw status string is preserved untouched for the normalizer.
func (c *Client) ListMeetings(ctx context.Context) ([]entities.Meeting, error) {
	endpoint := c.baseURL + "/api/meetings"
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("meeting list returned status %d", resp.StatusCode)
	}

	var payloads []meetingPayload
	if err := json.NewDecoder(resp.Body).Decode(&payloads); err != nil {
		return nil, fmt.Errorf("failed to decode meeting list: %w", err)
	}

	meetings := make([]entities.Meeting, 0, len(payloads))
	for _, p := range payloads {
		meetings = append(meetings, entities.Meeting{
			ID:        string(p.ID),
			Topic:     p.Topic,
			Date:      p.Date,
			StartTime: p.StartTime,
			EndTime:   p.EndTime,
			Platform:  p.Platform,
			RawStatus: p.Status,
			BotID:     string(p.BotID),
		})
	}
	return meetings, nil
}

// FetchTranscript retrieves the transcript recorded by the given bot. The
// upstream response shape varies between deployments, so decoding is
// tolerant: a bare string, a segment array, or a wrapper object under
// several known keys all produce the same output. A 404 means the
// transcript is not ready yet and returns an empty output with no error.
// Transient failures are retried with exponential backoff within this call;
// cross-cycle retry budgeting belongs to the caller.
func (c *Client) FetchTranscript(ctx context.Context, botID string) (*entities.TranscriptOutput, error) {
	endpoint := c.baseURL + "/api/bots/" + url.PathEscape(botID) + "/transcript"

	var out *entities.TranscriptOutput

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		c.setHeaders(req)

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to fetch transcript: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			out = &entities.TranscriptOutput{}
			return nil
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("transcript endpoint returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("transcript endpoint returned status %d", resp.StatusCode))
		}

		var raw json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode transcript: %w", err))
		}

		decoded, err := decodeTranscript(raw)
		if err != nil {
			return backoff.Permanent(err)
		}
		out = decoded
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeTranscript normalizes the known upstream transcript shapes into a
// single TranscriptOutput.
func decodeTranscript(raw json.RawMessage) (*entities.TranscriptOutput, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return &entities.TranscriptOutput{}, nil
	}

	// Top-level segment array.
	if raw[0] == '[' {
		var segments []entities.TranscriptSegment
		if err := json.Unmarshal(raw, &segments); err != nil {
			return nil, fmt.Errorf("failed to decode transcript segments: %w", err)
		}
		return outputFromSegments(segments), nil
	}

	// Bare string transcript.
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("failed to decode transcript text: %w", err)
		}
		return &entities.TranscriptOutput{Text: text}, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode transcript wrapper: %w", err)
	}

	for _, key := range []string{"transcript", "raw_transcript", "segments", "data"} {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		inner = bytes.TrimSpace(inner)
		if len(inner) == 0 || string(inner) == "null" {
			continue
		}
		if inner[0] == '"' {
			var text string
			if err := json.Unmarshal(inner, &text); err != nil {
				return nil, fmt.Errorf("failed to decode transcript text: %w", err)
			}
			return &entities.TranscriptOutput{Text: text}, nil
		}
		if inner[0] == '[' {
			var segments []entities.TranscriptSegment
			if err := json.Unmarshal(inner, &segments); err != nil {
				return nil, fmt.Errorf("failed to decode transcript segments: %w", err)
			}
			return outputFromSegments(segments), nil
		}
	}

	// Unrecognized object shape is treated as not-ready rather than fatal.
	return &entities.TranscriptOutput{}, nil
}

func outputFromSegments(segments []entities.TranscriptSegment) *entities.TranscriptOutput {
	out := &entities.TranscriptOutput{Segments: segments}
	out.Text = out.PlainText()
	return out
}

// AnalyzeMeeting asks the upstream service to run summary and action item
// extraction for the meeting.
func (c *Client) AnalyzeMeeting(ctx context.Context, meetingID string) (*entities.AnalysisResult, error) {
	endpoint := c.baseURL + "/api/meetings/" + url.PathEscape(meetingID) + "/analyze"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("analysis endpoint returned status %d", resp.StatusCode)
	}

	var result entities.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	return &result, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}
