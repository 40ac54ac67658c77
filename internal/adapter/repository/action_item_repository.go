package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
)

// ActionItemRepository implements the action item repository interface using GORM
type ActionItemRepository struct {
	db *gorm.DB
}

// NewActionItemRepository creates a new action item repository
func NewActionItemRepository(db *gorm.DB) *ActionItemRepository {
	return &ActionItemRepository{
		db: db,
	}
}

// Create creates a new action item
func (r *ActionItemRepository) Create(ctx context.Context, item *entities.ActionItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create action item: %w", err)
	}
	return nil
}

// FindByID finds an action item by ID
func (r *ActionItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	var item entities.ActionItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrActionItemNotFound
		}
		return nil, fmt.Errorf("failed to find action item by ID: %w", err)
	}
	return &item, nil
}

// FindByMeetingID finds all action items for a meeting, oldest first
func (r *ActionItemRepository) FindByMeetingID(ctx context.Context, meetingID string) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to find action items by meeting ID: %w", err)
	}
	return items, nil
}

// Update updates an action item
func (r *ActionItemRepository) Update(ctx context.Context, item *entities.ActionItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update action item: %w", err)
	}
	return nil
}

// Delete deletes an action item
func (r *ActionItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.ActionItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete action item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entities.ErrActionItemNotFound
	}
	return nil
}

// DeleteByMeetingID deletes all action items for a meeting
func (r *ActionItemRepository) DeleteByMeetingID(ctx context.Context, meetingID string) error {
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Delete(&entities.ActionItem{}).Error; err != nil {
		return fmt.Errorf("failed to delete action items by meeting ID: %w", err)
	}
	return nil
}
