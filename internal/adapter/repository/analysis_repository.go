package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
)

// AnalysisRepository implements the analysis record repository interface using GORM
type AnalysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new analysis record repository
func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{
		db: db,
	}
}

// Upsert creates or replaces the analysis record for a meeting. A meeting
// has at most one analysis record; a re-run overwrites the previous payload.
func (r *AnalysisRepository) Upsert(ctx context.Context, record *entities.AnalysisRecord) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meeting_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"summary", "raw_payload", "updated_at"}),
		}).
		Create(record).Error; err != nil {
		return fmt.Errorf("failed to upsert analysis record: %w", err)
	}
	return nil
}

// FindByMeetingID finds the analysis record for a meeting
func (r *AnalysisRepository) FindByMeetingID(ctx context.Context, meetingID string) (*entities.AnalysisRecord, error) {
	var record entities.AnalysisRecord
	if err := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to find analysis record by meeting ID: %w", err)
	}
	return &record, nil
}

// DeleteByMeetingID deletes the analysis record for a meeting
func (r *AnalysisRepository) DeleteByMeetingID(ctx context.Context, meetingID string) error {
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Delete(&entities.AnalysisRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete analysis record by meeting ID: %w", err)
	}
	return nil
}
