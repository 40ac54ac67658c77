package trigger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
	"github.com/meetingdash/meeting-reconciler/internal/usecase/reconcile"
)

type fakeFetcher struct {
	mu          sync.Mutex
	fetches     int
	analyses    int
	transcript  *entities.TranscriptOutput
	fetchErr    error
	analysis    *entities.AnalysisResult
	analysisErr error
}

func (f *fakeFetcher) FetchTranscript(ctx context.Context, botID string) (*entities.TranscriptOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.transcript, nil
}

func (f *fakeFetcher) AnalyzeMeeting(ctx context.Context, meetingID string) (*entities.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyses++
	if f.analysisErr != nil {
		return nil, f.analysisErr
	}
	return f.analysis, nil
}

func (f *fakeFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakeFetcher) analysisCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.analyses
}

var testNow = time.Date(2026, 1, 2, 12, 0, 0, 0, time.Local)

func endedMeeting(id string) entities.Meeting {
	return entities.Meeting{
		ID:        id,
		Topic:     "weekly sync",
		Date:      "2026-01-02",
		StartTime: "09:00",
		EndTime:   "10:00",
		Status:    entities.MeetingStatusInProgress,
		BotID:     "bot-" + id,
	}
}

func newTestService(fetcher *fakeFetcher, store *reconcile.MeetingStore) *Service {
	svc := NewService(fetcher, store, nil, nil, Config{Workers: 2, MaxRetries: 3}, nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestScanTriggersAtMostOnce(t *testing.T) {
	fetcher := &fakeFetcher{
		transcript: &entities.TranscriptOutput{Text: "hello world"},
		analysis: &entities.AnalysisResult{
			Summary:     "Team aligned on the launch plan.",
			ActionItems: []entities.AnalysisItem{{Content: "Ship it"}},
		},
	}
	store := reconcile.NewMeetingStore()
	store.Replace([]entities.Meeting{endedMeeting("m-1")})
	svc := newTestService(fetcher, store)

	meetings := store.List()
	svc.Scan(context.Background(), meetings)
	svc.Scan(context.Background(), meetings)
	svc.Wait()
	svc.Scan(context.Background(), store.List())
	svc.Wait()

	assert.Equal(t, 1, fetcher.fetchCount(), "a processed meeting must never be re-triggered")
	assert.Equal(t, 1, fetcher.analysisCount())

	m, ok := store.Get("m-1")
	require.True(t, ok)
	assert.Equal(t, entities.MeetingStatusInProgress, m.Status, "merge never touches status")
	assert.Equal(t, "Team aligned on the launch plan.", m.Summary)
	require.Len(t, m.ActionItems, 1)
	assert.Equal(t, "Ship it", m.ActionItems[0].Content)
	assert.Equal(t, entities.ActionItemSourceAnalysis, m.ActionItems[0].Source)
}

func TestScanRequiresBot(t *testing.T) {
	fetcher := &fakeFetcher{transcript: &entities.TranscriptOutput{Text: "x"}}
	store := reconcile.NewMeetingStore()
	svc := newTestService(fetcher, store)

	m := endedMeeting("m-1")
	m.BotID = "  "
	svc.Scan(context.Background(), []entities.Meeting{m})
	svc.Wait()

	assert.Zero(t, fetcher.fetchCount(), "a meeting without a bot has nothing to fetch")
}

func TestScanIgnoresSettledStatuses(t *testing.T) {
	fetcher := &fakeFetcher{transcript: &entities.TranscriptOutput{Text: "x"}}
	store := reconcile.NewMeetingStore()
	svc := newTestService(fetcher, store)

	completed := endedMeeting("m-1")
	completed.Status = entities.MeetingStatusCompleted
	scheduled := endedMeeting("m-2")
	scheduled.Status = entities.MeetingStatusScheduled
	failed := endedMeeting("m-3")
	failed.Status = entities.MeetingStatusFailed

	svc.Scan(context.Background(), []entities.Meeting{completed, scheduled, failed})
	svc.Wait()

	assert.Zero(t, fetcher.fetchCount())
}

func TestEmptyTranscriptRetriesUntilCeiling(t *testing.T) {
	fetcher := &fakeFetcher{transcript: &entities.TranscriptOutput{}}
	store := reconcile.NewMeetingStore()
	store.Replace([]entities.Meeting{endedMeeting("m-1")})
	svc := newTestService(fetcher, store)

	// Simulate many poll cycles; only the initial attempt plus three
	// retries may reach the fetcher.
	for i := 0; i < 6; i++ {
		svc.Scan(context.Background(), store.List())
		svc.Wait()
	}

	assert.Equal(t, 4, fetcher.fetchCount())
	assert.Zero(t, fetcher.analysisCount(), "analysis never runs without content")

	m, ok := store.Get("m-1")
	require.True(t, ok)
	assert.Equal(t, entities.MeetingStatusInProgress, m.Status, "status untouched without a transcript")
}

func TestFetchErrorCountsAsAttempt(t *testing.T) {
	fetcher := &fakeFetcher{fetchErr: errors.New("upstream down")}
	store := reconcile.NewMeetingStore()
	store.Replace([]entities.Meeting{endedMeeting("m-1")})
	svc := newTestService(fetcher, store)

	for i := 0; i < 6; i++ {
		svc.Scan(context.Background(), store.List())
		svc.Wait()
	}

	assert.Equal(t, 4, fetcher.fetchCount(), "errors consume the same retry budget as empty fetches")
}

func TestAnalysisFailureKeepsTranscriptVerdict(t *testing.T) {
	fetcher := &fakeFetcher{
		transcript:  &entities.TranscriptOutput{Text: "usable content"},
		analysisErr: errors.New("analysis backend down"),
	}
	store := reconcile.NewMeetingStore()
	store.Replace([]entities.Meeting{endedMeeting("m-1")})
	svc := newTestService(fetcher, store)

	svc.Scan(context.Background(), store.List())
	svc.Wait()
	svc.Scan(context.Background(), store.List())
	svc.Wait()

	assert.Equal(t, 1, fetcher.fetchCount(), "a usable transcript settles the meeting even if analysis fails")

	m, ok := store.Get("m-1")
	require.True(t, ok)
	assert.Equal(t, entities.MeetingStatusInProgress, m.Status)
	assert.Empty(t, m.Summary)
}

func TestCancelledContextSkipsMerge(t *testing.T) {
	fetcher := &fakeFetcher{
		transcript: &entities.TranscriptOutput{Text: "x"},
		analysis:   &entities.AnalysisResult{Summary: "late result"},
	}
	store := reconcile.NewMeetingStore()
	store.Replace([]entities.Meeting{endedMeeting("m-1")})
	svc := newTestService(fetcher, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.True(t, svc.guard.Reserve("m-1"))
	svc.processMeeting(ctx, endedMeeting("m-1"), 0)

	m, ok := store.Get("m-1")
	require.True(t, ok)
	assert.Empty(t, m.Summary, "no merge after shutdown")
	assert.Empty(t, m.ActionItems)
}

func TestUnknownStatusWithBotIsEligible(t *testing.T) {
	fetcher := &fakeFetcher{transcript: &entities.TranscriptOutput{Text: "x"}}
	store := reconcile.NewMeetingStore()
	svc := newTestService(fetcher, store)

	m := entities.Meeting{
		ID:     "m-1",
		Status: entities.MeetingStatusUnknown,
		BotID:  "bot-1",
	}
	store.Replace([]entities.Meeting{m})

	svc.Scan(context.Background(), store.List())
	svc.Wait()

	assert.Equal(t, 1, fetcher.fetchCount(), "unknown status with a bot warrants a probe even without a schedule")
}

func TestMergeLeavesStatusToFeed(t *testing.T) {
	fetcher := &fakeFetcher{
		transcript: &entities.TranscriptOutput{Text: "hello world"},
		analysis:   &entities.AnalysisResult{Summary: "Mid-meeting summary."},
	}
	store := reconcile.NewMeetingStore()
	svc := newTestService(fetcher, store)

	// Actively recording, started 5 minutes ago, ends 10 minutes from now.
	recording := entities.Meeting{
		ID:        "m-1",
		Date:      "2026-01-02",
		StartTime: "11:55",
		EndTime:   "12:10",
		Status:    entities.MeetingStatusInCallRecording,
		RawStatus: "in_call_recording",
		BotID:     "bot-1",
	}
	store.Replace([]entities.Meeting{recording})

	svc.Scan(context.Background(), store.List())
	svc.Wait()

	require.Equal(t, 1, fetcher.fetchCount())
	m, ok := store.Get("m-1")
	require.True(t, ok)
	assert.Equal(t, entities.MeetingStatusInCallRecording, m.Status,
		"an early transcript must not end the meeting")
	assert.Equal(t, "Mid-meeting summary.", m.Summary)

	// The next poll still reports the meeting as recording; the merged
	// summary survives and the status keeps following the feed.
	store.Replace([]entities.Meeting{recording})
	m, _ = store.Get("m-1")
	assert.Equal(t, entities.MeetingStatusInCallRecording, m.Status)
	assert.Equal(t, "Mid-meeting summary.", m.Summary)
}

func TestMergeAppendsToManualActionItems(t *testing.T) {
	fetcher := &fakeFetcher{
		transcript: &entities.TranscriptOutput{Text: "hello world"},
		analysis: &entities.AnalysisResult{
			ActionItems: []entities.AnalysisItem{{Content: "from analysis"}},
		},
	}
	store := reconcile.NewMeetingStore()
	store.Replace([]entities.Meeting{endedMeeting("m-1")})
	svc := newTestService(fetcher, store)

	// A user created an item through the API before analysis landed.
	manual := *entities.NewActionItem("m-1", "from the user")
	require.True(t, store.Update("m-1", func(m *entities.Meeting) {
		m.ActionItems = append(m.ActionItems, manual)
	}))

	svc.Scan(context.Background(), store.List())
	svc.Wait()

	m, ok := store.Get("m-1")
	require.True(t, ok)
	require.Len(t, m.ActionItems, 2, "promotion must not overwrite manual items")
	assert.Equal(t, "from the user", m.ActionItems[0].Content)
	assert.Equal(t, "from analysis", m.ActionItems[1].Content)
}

func TestRecordingMinAge(t *testing.T) {
	fetcher := &fakeFetcher{transcript: &entities.TranscriptOutput{Text: "x"}}
	store := reconcile.NewMeetingStore()
	svc := newTestService(fetcher, store)

	recent := entities.Meeting{
		ID:        "m-1",
		Date:      "2026-01-02",
		StartTime: "11:59",
		EndTime:   "13:00",
		Status:    entities.MeetingStatusInCallRecording,
		BotID:     "bot-1",
	}
	old := recent
	old.ID = "m-2"
	old.StartTime = "11:00"

	assert.False(t, svc.eligible(recent, testNow), "recording younger than the minimum age is left alone")
	assert.True(t, svc.eligible(old, testNow))
}
