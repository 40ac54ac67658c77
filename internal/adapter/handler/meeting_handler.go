package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetingdash/meeting-reconciler/errors"
	"github.com/meetingdash/meeting-reconciler/internal/domain/repositories"
	"github.com/meetingdash/meeting-reconciler/internal/usecase/reconcile"
)

// Meeting serves the read side of the reconciled meeting collection.
type Meeting struct {
	store          *reconcile.MeetingStore
	poller         *reconcile.Service
	actionItemRepo repositories.ActionItemRepository // optional
	analysisRepo   repositories.AnalysisRepository   // optional
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(
	store *reconcile.MeetingStore,
	poller *reconcile.Service,
	actionItemRepo repositories.ActionItemRepository,
	analysisRepo repositories.AnalysisRepository,
	logger *zap.Logger,
) *Meeting {
	return &Meeting{
		store:          store,
		poller:         poller,
		actionItemRepo: actionItemRepo,
		analysisRepo:   analysisRepo,
		logger:         logger,
	}
}

// List returns the tracked meetings in feed order. An optional partition
// query parameter filters to one lifecycle group.
func (h *Meeting) List(c echo.Context) error {
	meetings := h.store.List()

	if partition := c.QueryParam("partition"); partition != "" {
		switch partition {
		case "ongoing", "upcoming", "completed", "failed", "unknown":
		default:
			return HandleError(h.logger, c, errors.ErrInvalidArgument("unknown partition: "+partition))
		}

		filtered := meetings[:0]
		for _, m := range meetings {
			if reconcile.PartitionName(m.Status) == partition {
				filtered = append(filtered, m)
			}
		}
		meetings = filtered
	}

	return HandleSuccess(h.logger, c, meetings)
}

// Partitions returns the collection grouped by lifecycle partition.
func (h *Meeting) Partitions(c echo.Context) error {
	return HandleSuccess(h.logger, c, h.store.Partitions())
}

// Get returns one meeting by id.
func (h *Meeting) Get(c echo.Context) error {
	id := c.Param("id")

	meeting, ok := h.store.Get(id)
	if !ok {
		return HandleError(h.logger, c, errors.ErrMeetingNotFound(id))
	}
	return HandleSuccess(h.logger, c, meeting)
}

// Delete removes a meeting from the local collection and cascades to the
// persisted action items and analysis record. The upstream feed may
// resurrect the meeting on the next poll.
func (h *Meeting) Delete(c echo.Context) error {
	id := c.Param("id")

	if !h.store.Delete(id) {
		return HandleError(h.logger, c, errors.ErrMeetingNotFound(id))
	}

	ctx := c.Request().Context()
	if h.actionItemRepo != nil {
		if err := h.actionItemRepo.DeleteByMeetingID(ctx, id); err != nil && h.logger != nil {
			h.logger.Warn("⚠️ Failed to cascade action item delete",
				zap.String("meeting_id", id),
				zap.Error(err),
			)
		}
	}
	if h.analysisRepo != nil {
		if err := h.analysisRepo.DeleteByMeetingID(ctx, id); err != nil && h.logger != nil {
			h.logger.Warn("⚠️ Failed to cascade analysis delete",
				zap.String("meeting_id", id),
				zap.Error(err),
			)
		}
	}

	return HandleSuccess(h.logger, c, map[string]string{"id": id})
}

// RunReconcile executes a reconcile cycle immediately, outside the polling
// schedule.
func (h *Meeting) RunReconcile(c echo.Context) error {
	if err := h.poller.RunOnce(c.Request().Context()); err != nil {
		return HandleError(h.logger, c, errors.ErrReconcileFailed(err))
	}
	return HandleSuccess(h.logger, c, map[string]int{"meetings": h.store.Len()})
}
