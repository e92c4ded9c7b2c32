// internal/services/revision_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grantdesk/grantdesk-backend/internal/models"
)

// RevisionService maintains the append-only snapshot log for applications.
// "No history yet" is a first-class outcome here, not an error: counting or
// fetching revisions for a never-persisted application returns zero / nil
// rather than failing, so callers never have to special-case new records.
type RevisionService struct {
	db *gorm.DB
}

func NewRevisionService(db *gorm.DB) *RevisionService {
	return &RevisionService{db: db}
}

// Append writes a snapshot of the application's current field values,
// attributed to actorID. It must run on the same transaction as the
// application persist so the record and its latest snapshot commit
// together.
func (s *RevisionService) Append(tx *gorm.DB, app *models.Application, actorID uuid.UUID) error {
	revision := &models.ApplicationRevision{
		ApplicationID: app.ID,
		EditorID:      actorID,
		Snapshot:      models.SnapshotOf(app),
	}

	if err := tx.Create(revision).Error; err != nil {
		return fmt.Errorf("failed to append revision: %w", err)
	}
	return nil
}

// CountFor returns the number of snapshots recorded for an application.
// Zero for an application with no history, including one that has never
// been persisted.
func (s *RevisionService) CountFor(applicationID uuid.UUID) (int64, error) {
	if applicationID == uuid.Nil {
		return 0, nil
	}

	var count int64
	if err := s.db.Model(&models.ApplicationRevision{}).
		Where("application_id = ?", applicationID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count revisions: %w", err)
	}
	return count, nil
}

// LatestFor returns the most recent snapshot, or nil when none exists.
func (s *RevisionService) LatestFor(applicationID uuid.UUID) (*models.ApplicationRevision, error) {
	if applicationID == uuid.Nil {
		return nil, nil
	}

	var revision models.ApplicationRevision
	err := s.db.Where("application_id = ?", applicationID).
		Order("created_at DESC").
		First(&revision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest revision: %w", err)
	}
	return &revision, nil
}

// LatestStatusFor returns the status recorded in the most recent snapshot,
// or nil when the application has no history. The save protocol uses this
// as "the previous persisted status".
func (s *RevisionService) LatestStatusFor(applicationID uuid.UUID) (*models.ApplicationStatus, error) {
	revision, err := s.LatestFor(applicationID)
	if err != nil {
		return nil, err
	}
	return statusFromRevision(revision), nil
}

// statusFromRevision decodes the status a snapshot recorded. Nil when there
// is no snapshot at all or the snapshot carries no usable status.
func statusFromRevision(revision *models.ApplicationRevision) *models.ApplicationStatus {
	if revision == nil {
		return nil
	}
	status, ok := revision.Status()
	if !ok {
		return nil
	}
	return &status
}

// LatestReviewerFor returns the editor who saved the most recent snapshot,
// or nil when the application has no history.
func (s *RevisionService) LatestReviewerFor(applicationID uuid.UUID) (*models.Editor, error) {
	revision, err := s.LatestFor(applicationID)
	if err != nil || revision == nil {
		return nil, err
	}

	var editor models.Editor
	if err := s.db.First(&editor, "id = ?", revision.EditorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch reviewer: %w", err)
	}
	return &editor, nil
}
