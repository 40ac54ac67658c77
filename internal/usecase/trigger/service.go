package trigger

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
	"github.com/meetingdash/meeting-reconciler/internal/domain/repositories"
	"github.com/meetingdash/meeting-reconciler/internal/metrics"
	"github.com/meetingdash/meeting-reconciler/pkg/jobcontext"
)

// TranscriptFetcher talks to the upstream bot API for transcript and
// analysis retrieval.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, botID string) (*entities.TranscriptOutput, error)
	AnalyzeMeeting(ctx context.Context, meetingID string) (*entities.AnalysisResult, error)
}

// MeetingUpdater applies an in-place mutation to one meeting in the local
// collection. Returns false when the meeting no longer exists.
type MeetingUpdater interface {
	Update(id string, fn func(*entities.Meeting)) bool
}

// Service watches reconciled meetings for transcript availability. When a
// meeting looks finished it fetches the transcript, requests analysis, and
// merges the results back into the collection. Each meeting is triggered at
// most once per session, with a bounded number of retries when the
// transcript is not yet available.
type Service struct {
	fetcher TranscriptFetcher
	store   MeetingUpdater
	guard   *ProcessGuard
	logger  *zap.Logger

	actionItemRepo repositories.ActionItemRepository // optional
	analysisRepo   repositories.AnalysisRepository   // optional

	semaphore       chan struct{}
	wg              sync.WaitGroup
	recordingMinAge time.Duration
	now             func() time.Time
}

// Config tunes the trigger service. Zero values fall back to defaults.
type Config struct {
	Workers         int
	MaxRetries      int
	RecordingMinAge time.Duration
}

// NewService constructs the trigger. actionItemRepo and analysisRepo may be
// nil when persistence is disabled.
func NewService(
	fetcher TranscriptFetcher,
	store MeetingUpdater,
	actionItemRepo repositories.ActionItemRepository,
	analysisRepo repositories.AnalysisRepository,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.RecordingMinAge <= 0 {
		cfg.RecordingMinAge = 2 * time.Minute
	}
	return &Service{
		fetcher:         fetcher,
		store:           store,
		guard:           NewProcessGuard(cfg.MaxRetries),
		logger:          logger,
		actionItemRepo:  actionItemRepo,
		analysisRepo:    analysisRepo,
		semaphore:       make(chan struct{}, cfg.Workers),
		recordingMinAge: cfg.RecordingMinAge,
		now:             time.Now,
	}
}

// Guard exposes the process guard so callers can reset it on full reloads.
func (s *Service) Guard() *ProcessGuard {
	return s.guard
}

// Scan walks the freshly reconciled collection and spawns a fetch job for
// every eligible meeting. Reservations are taken synchronously before the
// goroutine starts so a meeting cannot be double-triggered across cycles.
func (s *Service) Scan(ctx context.Context, meetings []entities.Meeting) {
	now := s.now()

	for _, m := range meetings {
		if strings.TrimSpace(m.BotID) == "" {
			continue
		}
		if !s.eligible(m, now) {
			continue
		}
		if !s.guard.Reserve(m.ID) {
			metrics.TriggerSkipsTotal.Inc()
			continue
		}

		meeting := m
		attempt := s.guard.Attempts(meeting.ID)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()

			s.semaphore <- struct{}{}
			defer func() { <-s.semaphore }()

			s.processMeeting(ctx, meeting, attempt)
		}()
	}
}

// Wait blocks until all in-flight fetch jobs have drained. Used during
// graceful shutdown, after the polling loop has stopped.
func (s *Service) Wait() {
	s.wg.Wait()
}

// eligible reports whether the meeting should be checked for a transcript.
// Three conditions qualify a meeting: an active or unknown status whose
// scheduled end has passed, a recording in progress that started long
// enough ago, or an unknown status with a bot attached (the bot may have
// outlived the source record's status updates).
func (s *Service) eligible(m entities.Meeting, now time.Time) bool {
	if m.Status == entities.MeetingStatusInProgress ||
		m.Status == entities.MeetingStatusInCallRecording ||
		m.Status == entities.MeetingStatusUnknown {
		if endsAt, ok := m.EndsAt(); ok && now.After(endsAt) {
			return true
		}
	}

	if m.Status == entities.MeetingStatusInCallRecording {
		if startsAt, ok := m.StartsAt(); ok && now.Sub(startsAt) >= s.recordingMinAge {
			return true
		}
	}

	if m.Status == entities.MeetingStatusUnknown {
		return true
	}

	return false
}

// processMeeting runs one fetch attempt: transcript, then analysis, then
// merge. An attempt that yields no usable transcript releases the
// reservation (up to the retry ceiling) so a later cycle can try again. A
// failed analysis after a usable transcript does not release; the
// transcript text still lands in the collection.
func (s *Service) processMeeting(ctx context.Context, meeting entities.Meeting, attempt int) {
	jobCtx, cancel := jobcontext.JobBegin(ctx, meeting.ID, meeting.BotID, len(s.semaphore), attempt)
	defer cancel()

	err := jobcontext.Run(jobCtx, func(ctx context.Context) error {
		transcript, err := s.fetcher.FetchTranscript(ctx, meeting.BotID)
		if err != nil {
			metrics.TranscriptFetchesTotal.WithLabelValues(metrics.ResultError).Inc()
			retryable := s.guard.Release(meeting.ID)
			if s.logger != nil {
				s.logger.Warn("⚠️ Transcript fetch failed",
					zap.String("meeting_id", meeting.ID),
					zap.String("bot_id", meeting.BotID),
					zap.Int("attempt", attempt),
					zap.Bool("will_retry", retryable),
					zap.Error(err),
				)
			}
			return err
		}

		if transcript == nil || !transcript.HasContent() {
			metrics.TranscriptFetchesTotal.WithLabelValues(metrics.ResultEmpty).Inc()
			retryable := s.guard.Release(meeting.ID)
			if s.logger != nil {
				s.logger.Info("📭 Transcript not ready",
					zap.String("meeting_id", meeting.ID),
					zap.Int("attempt", attempt),
					zap.Bool("will_retry", retryable),
				)
			}
			return nil
		}

		metrics.TranscriptFetchesTotal.WithLabelValues(metrics.ResultOK).Inc()

		var analysis *entities.AnalysisResult
		analysis, err = s.fetcher.AnalyzeMeeting(ctx, meeting.ID)
		if err != nil {
			metrics.AnalysesTotal.WithLabelValues(metrics.ResultError).Inc()
			if s.logger != nil {
				s.logger.Warn("⚠️ Analysis request failed, keeping transcript",
					zap.String("meeting_id", meeting.ID),
					zap.Error(err),
				)
			}
			analysis = nil
		} else {
			metrics.AnalysesTotal.WithLabelValues(metrics.ResultOK).Inc()
		}

		// Shutdown raced the fetch. Leave the collection untouched; the
		// reservation stands so the next session starts clean.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		s.merge(ctx, meeting.ID, transcript, analysis)
		return nil
	})

	if err == nil && s.logger != nil {
		s.logger.Info("✅ Meeting processed",
			zap.String("meeting_id", meeting.ID),
			zap.String("bot_id", meeting.BotID),
		)
	}
}

// merge writes transcript and analysis results into the local collection
// and, when repositories are wired, persists the promoted items. Only
// summary and action items are touched; status belongs to the normalizer
// acting on fresh feed data, and a transcript can land while the meeting is
// still recording.
func (s *Service) merge(ctx context.Context, meetingID string, transcript *entities.TranscriptOutput, analysis *entities.AnalysisResult) {
	var summary string
	var promoted []entities.ActionItem

	if analysis != nil {
		summary = strings.TrimSpace(analysis.Summary)
		promoted = PromoteActionItems(meetingID, analysis.ActionItems)
	}

	updated := s.store.Update(meetingID, func(m *entities.Meeting) {
		if summary != "" {
			m.Summary = summary
		}
		if len(promoted) > 0 {
			m.ActionItems = append(m.ActionItems, promoted...)
		}
	})
	if !updated && s.logger != nil {
		s.logger.Warn("⚠️ Meeting vanished before merge",
			zap.String("meeting_id", meetingID),
		)
	}

	if s.actionItemRepo != nil {
		for i := range promoted {
			if err := s.actionItemRepo.Create(ctx, &promoted[i]); err != nil && s.logger != nil {
				s.logger.Warn("⚠️ Failed to persist action item",
					zap.String("meeting_id", meetingID),
					zap.Error(err),
				)
			}
		}
	}

	if s.analysisRepo != nil && analysis != nil {
		record := entities.NewAnalysisRecord(meetingID, summary)
		record.RawPayload = datatypes.NewJSONType(map[string]interface{}{
			"summary":      analysis.Summary,
			"action_items": analysis.ActionItems,
		})
		if err := s.analysisRepo.Upsert(ctx, record); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to persist analysis record",
				zap.String("meeting_id", meetingID),
				zap.Error(err),
			)
		}
	}
}
