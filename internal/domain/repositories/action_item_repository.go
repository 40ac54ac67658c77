package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
)

// ActionItemRepository defines the interface for action item data access
type ActionItemRepository interface {
	// Create creates a new action item
	Create(ctx context.Context, item *entities.ActionItem) error

	// FindByID finds an action item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)

	// FindByMeetingID finds all action items for a meeting
	FindByMeetingID(ctx context.Context, meetingID string) ([]*entities.ActionItem, error)

	// Update updates an action item
	Update(ctx context.Context, item *entities.ActionItem) error

	// Delete deletes an action item
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByMeetingID deletes all action items for a meeting
	DeleteByMeetingID(ctx context.Context, meetingID string) error
}
