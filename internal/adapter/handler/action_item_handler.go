package handler

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetingdash/meeting-reconciler/errors"
	"github.com/meetingdash/meeting-reconciler/internal/adapter/dto/actionitem"
	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
	"github.com/meetingdash/meeting-reconciler/internal/domain/repositories"
	"github.com/meetingdash/meeting-reconciler/internal/usecase/reconcile"
)

// ActionItem serves CRUD for action items. Persisted rows are the source of
// truth; the in-memory meeting collection mirrors them so list responses
// stay self-contained.
type ActionItem struct {
	repo   repositories.ActionItemRepository
	store  *reconcile.MeetingStore
	logger *zap.Logger
}

// NewActionItemHandler creates a new action item handler
func NewActionItemHandler(
	repo repositories.ActionItemRepository,
	store *reconcile.MeetingStore,
	logger *zap.Logger,
) *ActionItem {
	return &ActionItem{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// ListByMeeting returns the action items of a meeting, oldest first.
func (h *ActionItem) ListByMeeting(c echo.Context) error {
	meetingID := c.Param("id")

	if _, ok := h.store.Get(meetingID); !ok {
		return HandleError(h.logger, c, errors.ErrMeetingNotFound(meetingID))
	}

	items, err := h.repo.FindByMeetingID(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	return HandleSuccess(h.logger, c, items)
}

// Create adds a manual action item to a meeting.
func (h *ActionItem) Create(c echo.Context) error {
	meetingID := c.Param("id")

	if _, ok := h.store.Get(meetingID); !ok {
		return HandleError(h.logger, c, errors.ErrMeetingNotFound(meetingID))
	}

	var req actionitem.CreateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	item := entities.NewActionItem(meetingID, strings.TrimSpace(req.Content))
	item.Assignee = strings.TrimSpace(req.Assignee)
	if req.Priority != "" {
		item.Priority = req.Priority
	}
	if req.DueDate != "" {
		if d, err := time.ParseInLocation("2006-01-02", req.DueDate, time.Local); err == nil {
			item.DueDate = &d
		}
	}

	if err := h.repo.Create(c.Request().Context(), item); err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	h.syncMeeting(c.Request().Context(), meetingID)
	return HandleSuccess(h.logger, c, item)
}

// Update modifies an action item. Absent fields are left untouched.
func (h *ActionItem) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid action item id"))
	}

	var req actionitem.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	ctx := c.Request().Context()
	item, err := h.repo.FindByID(ctx, id)
	if err != nil {
		if err == entities.ErrActionItemNotFound {
			return HandleError(h.logger, c, errors.ErrActionItemNotFound(id.String()))
		}
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	if req.Content != nil {
		item.Content = strings.TrimSpace(*req.Content)
	}
	if req.Assignee != nil {
		item.Assignee = strings.TrimSpace(*req.Assignee)
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.Priority != nil {
		item.Priority = *req.Priority
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			item.DueDate = nil
		} else if d, perr := time.ParseInLocation("2006-01-02", *req.DueDate, time.Local); perr == nil {
			item.DueDate = &d
		}
	}

	if err := h.repo.Update(ctx, item); err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	h.syncMeeting(ctx, item.MeetingID)
	return HandleSuccess(h.logger, c, item)
}

// Delete removes an action item.
func (h *ActionItem) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid action item id"))
	}

	ctx := c.Request().Context()
	item, err := h.repo.FindByID(ctx, id)
	if err != nil {
		if err == entities.ErrActionItemNotFound {
			return HandleError(h.logger, c, errors.ErrActionItemNotFound(id.String()))
		}
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	h.syncMeeting(ctx, item.MeetingID)
	return HandleSuccess(h.logger, c, map[string]string{"id": id.String()})
}

// syncMeeting refreshes the in-memory mirror of a meeting's action items
// from the persisted rows.
func (h *ActionItem) syncMeeting(ctx context.Context, meetingID string) {
	items, err := h.repo.FindByMeetingID(ctx, meetingID)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("⚠️ Failed to refresh action item mirror",
				zap.String("meeting_id", meetingID),
				zap.Error(err),
			)
		}
		return
	}

	mirror := make([]entities.ActionItem, 0, len(items))
	for _, it := range items {
		mirror = append(mirror, *it)
	}
	h.store.Update(meetingID, func(m *entities.Meeting) {
		m.ActionItems = mirror
	})
}
