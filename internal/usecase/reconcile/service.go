package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
	"github.com/meetingdash/meeting-reconciler/internal/metrics"
	"github.com/meetingdash/meeting-reconciler/internal/usecase/status"
)

// Lister fetches the full meeting list from the upstream source of truth.
type Lister interface {
	ListMeetings(ctx context.Context) ([]entities.Meeting, error)
}

// Scanner is invoked after every successful reconcile cycle with the fresh
// collection. The transcript/analysis trigger implements it.
type Scanner interface {
	Scan(ctx context.Context, meetings []entities.Meeting)
}

// Snapshotter persists the last-known-good collection so a restarted
// instance can serve data before its first poll.
type Snapshotter interface {
	Save(ctx context.Context, meetings []entities.Meeting) error
	Load(ctx context.Context) ([]entities.Meeting, bool, error)
}

// Service is the reconciliation poller. It refreshes the local meeting
// collection from the upstream feed on a fixed interval, normalizing raw
// statuses on the way in. A failed poll keeps the last-known-good state.
type Service struct {
	store      *MeetingStore
	normalizer *status.Normalizer
	lister     Lister
	scanner    Scanner     // optional
	snapshot   Snapshotter // optional
	interval   time.Duration
	logger     *zap.Logger

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewService constructs the poller. scanner and snapshot may be nil.
func NewService(
	store *MeetingStore,
	normalizer *status.Normalizer,
	lister Lister,
	scanner Scanner,
	snapshot Snapshotter,
	interval time.Duration,
	logger *zap.Logger,
) *Service {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Service{
		store:      store,
		normalizer: normalizer,
		lister:     lister,
		scanner:    scanner,
		snapshot:   snapshot,
		interval:   interval,
		logger:     logger,
	}
}

// Start launches the polling loop. An immediate cycle runs before the first
// tick. Returns an error if the loop is already running.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("reconciliation loop already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopChan = make(chan struct{})
	s.running = true

	s.warmStart(runCtx)

	if s.logger != nil {
		s.logger.Info("🚀 Starting reconciliation loop",
			zap.Duration("interval", s.interval),
		)
	}

	s.wg.Add(1)
	go s.loop(runCtx)

	return nil
}

// Stop cancels the loop and waits for it to drain. In-flight trigger work
// observes the cancelled context and skips its merge.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("reconciliation loop not running")
	}

	close(s.stopChan)
	s.cancel()
	s.wg.Wait()
	s.running = false

	if s.logger != nil {
		s.logger.Info("✅ Reconciliation loop stopped")
	}
	return nil
}

func (s *Service) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.RunOnce(ctx); err != nil && s.logger != nil {
		s.logger.Warn("⚠️ Initial reconcile cycle failed", zap.Error(err))
	}

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil && s.logger != nil {
				s.logger.Warn("⚠️ Reconcile cycle failed", zap.Error(err))
			}
		}
	}
}

// RunOnce executes a single reconcile cycle: fetch, normalize, replace,
// snapshot, scan. On fetch failure the previous collection is retained
// untouched and the error is returned for logging only.
func (s *Service) RunOnce(ctx context.Context) error {
	fresh, err := s.lister.ListMeetings(ctx)
	if err != nil {
		metrics.PollsTotal.WithLabelValues(metrics.ResultError).Inc()
		return fmt.Errorf("failed to fetch meeting list: %w", err)
	}

	for i := range fresh {
		fresh[i].Status = s.normalizer.Normalize(fresh[i].RawStatus)
	}

	s.store.Replace(fresh)
	metrics.PollsTotal.WithLabelValues(metrics.ResultOK).Inc()
	metrics.MeetingsTracked.Set(float64(s.store.Len()))

	if s.logger != nil {
		s.logger.Info("🔄 Reconciled meeting collection",
			zap.Int("meetings", s.store.Len()),
		)
	}

	current := s.store.List()

	if s.snapshot != nil {
		if err := s.snapshot.Save(ctx, current); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to save meeting snapshot", zap.Error(err))
		}
	}

	if s.scanner != nil {
		s.scanner.Scan(ctx, current)
	}

	return nil
}

// warmStart seeds the store from the snapshot cache when the collection is
// still empty. Snapshot statuses are re-normalized in case the token table
// changed between restarts.
func (s *Service) warmStart(ctx context.Context) {
	if s.snapshot == nil || s.store.Len() > 0 {
		return
	}

	meetings, ok, err := s.snapshot.Load(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Failed to load meeting snapshot", zap.Error(err))
		}
		return
	}
	if !ok || len(meetings) == 0 {
		return
	}

	for i := range meetings {
		meetings[i].Status = s.normalizer.Normalize(meetings[i].RawStatus)
	}
	s.store.Replace(meetings)

	if s.logger != nil {
		s.logger.Info("📦 Warm-started meeting collection from snapshot",
			zap.Int("meetings", len(meetings)),
		)
	}
}
