package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
	"github.com/meetingdash/meeting-reconciler/internal/usecase/status"
)

type fakeLister struct {
	mu       sync.Mutex
	meetings []entities.Meeting
	err      error
	calls    int
}

func (f *fakeLister) ListMeetings(ctx context.Context) ([]entities.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entities.Meeting, len(f.meetings))
	copy(out, f.meetings)
	return out, nil
}

func (f *fakeLister) set(meetings []entities.Meeting, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meetings = meetings
	f.err = err
}

type fakeScanner struct {
	mu   sync.Mutex
	seen [][]entities.Meeting
}

func (f *fakeScanner) Scan(ctx context.Context, meetings []entities.Meeting) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, meetings)
}

type fakeSnapshotter struct {
	mu       sync.Mutex
	saved    []entities.Meeting
	loadData []entities.Meeting
	loadOK   bool
	loadErr  error
}

func (f *fakeSnapshotter) Save(ctx context.Context, meetings []entities.Meeting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = meetings
	return nil
}

func (f *fakeSnapshotter) Load(ctx context.Context) ([]entities.Meeting, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadData, f.loadOK, f.loadErr
}

func rawMeeting(id, raw string) entities.Meeting {
	return entities.Meeting{ID: id, RawStatus: raw}
}

func TestRunOnceNormalizesAndReplaces(t *testing.T) {
	store := NewMeetingStore()
	lister := &fakeLister{}
	lister.set([]entities.Meeting{
		rawMeeting("a", "bot.in_call_recording"),
		rawMeeting("b", "call_ended"),
		rawMeeting("c", "something-new"),
	}, nil)

	svc := NewService(store, status.NewNormalizer(nil), lister, nil, nil, time.Second, nil)

	require.NoError(t, svc.RunOnce(context.Background()))

	m, _ := store.Get("a")
	assert.Equal(t, entities.MeetingStatusInCallRecording, m.Status)
	m, _ = store.Get("b")
	assert.Equal(t, entities.MeetingStatusCompleted, m.Status)
	m, _ = store.Get("c")
	assert.Equal(t, entities.MeetingStatusUnknown, m.Status)
}

func TestRunOnceFailureKeepsLastKnownGood(t *testing.T) {
	store := NewMeetingStore()
	lister := &fakeLister{}
	lister.set([]entities.Meeting{rawMeeting("a", "joining")}, nil)

	svc := NewService(store, status.NewNormalizer(nil), lister, nil, nil, time.Second, nil)
	require.NoError(t, svc.RunOnce(context.Background()))
	require.Equal(t, 1, store.Len())

	lister.set(nil, errors.New("feed unreachable"))
	err := svc.RunOnce(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, store.Len(), "a failed poll must not wipe the collection")
	m, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, entities.MeetingStatusInProgress, m.Status)
}

func TestRunOnceNotifiesScannerAndSnapshot(t *testing.T) {
	store := NewMeetingStore()
	lister := &fakeLister{}
	lister.set([]entities.Meeting{rawMeeting("a", "joining")}, nil)
	scanner := &fakeScanner{}
	snapshot := &fakeSnapshotter{}

	svc := NewService(store, status.NewNormalizer(nil), lister, scanner, snapshot, time.Second, nil)
	require.NoError(t, svc.RunOnce(context.Background()))

	require.Len(t, scanner.seen, 1)
	require.Len(t, scanner.seen[0], 1)
	assert.Equal(t, entities.MeetingStatusInProgress, scanner.seen[0][0].Status,
		"scanner sees normalized statuses")
	require.Len(t, snapshot.saved, 1)
	assert.Equal(t, "a", snapshot.saved[0].ID)
}

func TestWarmStartSeedsEmptyStore(t *testing.T) {
	store := NewMeetingStore()
	lister := &fakeLister{}
	lister.set(nil, errors.New("feed unreachable"))
	snapshot := &fakeSnapshotter{
		loadData: []entities.Meeting{rawMeeting("a", "call_ended")},
		loadOK:   true,
	}

	svc := NewService(store, status.NewNormalizer(nil), lister, nil, snapshot, 50*time.Millisecond, nil)
	require.NoError(t, svc.Start(context.Background()))
	defer func() { _ = svc.Stop() }()

	m, ok := store.Get("a")
	require.True(t, ok, "snapshot warms the store before the first poll")
	assert.Equal(t, entities.MeetingStatusCompleted, m.Status, "snapshot statuses are re-normalized")
}

func TestStartStopLifecycle(t *testing.T) {
	store := NewMeetingStore()
	lister := &fakeLister{}
	lister.set([]entities.Meeting{rawMeeting("a", "joining")}, nil)

	svc := NewService(store, status.NewNormalizer(nil), lister, nil, nil, 10*time.Millisecond, nil)

	require.NoError(t, svc.Start(context.Background()))
	assert.Error(t, svc.Start(context.Background()), "double start is rejected")

	require.Eventually(t, func() bool {
		lister.mu.Lock()
		defer lister.mu.Unlock()
		return lister.calls >= 2
	}, 2*time.Second, 5*time.Millisecond, "loop keeps polling on the interval")

	require.NoError(t, svc.Stop())
	assert.Error(t, svc.Stop(), "double stop is rejected")

	lister.mu.Lock()
	settled := lister.calls
	lister.mu.Unlock()
	time.Sleep(50 * time.Millisecond)
	lister.mu.Lock()
	after := lister.calls
	lister.mu.Unlock()
	assert.Equal(t, settled, after, "no polls after stop")
}

func TestDefaultInterval(t *testing.T) {
	svc := NewService(NewMeetingStore(), status.NewNormalizer(nil), &fakeLister{}, nil, nil, 0, nil)
	assert.Equal(t, 15*time.Second, svc.interval)
}
