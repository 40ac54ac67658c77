package repositories

import (
	"context"

	"github.com/meetingdash/meeting-reconciler/internal/domain/entities"
)

// AnalysisRepository defines the interface for analysis record data access
type AnalysisRepository interface {
	// Upsert creates or replaces the analysis record for a meeting
	Upsert(ctx context.Context, record *entities.AnalysisRecord) error

	// FindByMeetingID finds the analysis record for a meeting
	FindByMeetingID(ctx context.Context, meetingID string) (*entities.AnalysisRecord, error)

	// DeleteByMeetingID deletes the analysis record for a meeting
	DeleteByMeetingID(ctx context.Context, meetingID string) error
}
