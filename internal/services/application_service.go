// internal/services/application_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/grantdesk/grantdesk-backend/internal/database"
	"github.com/grantdesk/grantdesk-backend/internal/models"
	"github.com/grantdesk/grantdesk-backend/internal/utils"
)

// Sentinel errors that handlers translate into 403 responses.
var (
	ErrNotApplicationOwner = errors.New("only the owning editor may modify this application")
	ErrNotCoordinator      = errors.New("only a coordinator may review applications")
)

type ApplicationService struct {
	db                  *gorm.DB
	revisions           *RevisionService
	notificationService *NotificationService
}

type SubmitApplicationRequest struct {
	PartnerID               uuid.UUID  `json:"partner_id" validate:"required"`
	SpecificStreamID        *uuid.UUID `json:"specific_stream_id,omitempty"`
	SpecificTitle           string     `json:"specific_title,omitempty" validate:"max=128"`
	Rationale               string     `json:"rationale,omitempty"`
	Comments                string     `json:"comments,omitempty"`
	AgreementWithTermsOfUse bool       `json:"agreement_with_terms_of_use"`
}

type ReviewApplicationRequest struct {
	Status   models.ApplicationStatus `json:"status" validate:"required"`
	Comments string                   `json:"comments,omitempty"`
}

type UpdateApplicationRequest struct {
	Rationale               *string `json:"rationale,omitempty"`
	SpecificTitle           *string `json:"specific_title,omitempty" validate:"omitempty,max=128"`
	Comments                *string `json:"comments,omitempty"`
	AgreementWithTermsOfUse *bool   `json:"agreement_with_terms_of_use,omitempty"`
}

type ApplicationSearchParams struct {
	utils.PaginationParams
	Status    *models.ApplicationStatus `json:"status,omitempty"`
	EditorID  *uuid.UUID                `json:"editor_id,omitempty"`
	PartnerID *uuid.UUID                `json:"partner_id,omitempty"`
	Expired   *bool                     `json:"expired,omitempty"`
}

func NewApplicationService(db *gorm.DB, revisions *RevisionService, notificationService *NotificationService) *ApplicationService {
	return &ApplicationService{
		db:                  db,
		revisions:           revisions,
		notificationService: notificationService,
	}
}

// Submit creates an application and its first revision snapshot. When the
// partner auto-approves, the application is born closed: date_closed is the
// creation date and days_open is zero.
func (s *ApplicationService) Submit(editorID uuid.UUID, req *SubmitApplicationRequest) (*models.Application, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Verify editor exists and is active
	var editor models.Editor
	if err := s.db.First(&editor, "id = ?", editorID).Error; err != nil {
		return nil, fmt.Errorf("editor not found: %w", err)
	}
	if editor.Status != models.EditorStatusActive {
		return nil, errors.New("editor account is not active")
	}

	// Get partner
	var partner models.Partner
	if err := s.db.First(&partner, "id = ?", req.PartnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("partner not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if partner.Status != models.PartnerStatusAvailable {
		return nil, errors.New("partner is not accepting applications")
	}

	// Verify stream belongs to the partner
	if req.SpecificStreamID != nil {
		var stream models.Stream
		if err := s.db.Where("id = ? AND partner_id = ?", *req.SpecificStreamID, req.PartnerID).
			First(&stream).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("stream not found for this partner")
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	application := &models.Application{
		Status:                  models.ApplicationStatusPending,
		DateCreated:             models.Today(),
		EditorID:                editorID,
		PartnerID:               req.PartnerID,
		SpecificStreamID:        req.SpecificStreamID,
		Rationale:               req.Rationale,
		SpecificTitle:           req.SpecificTitle,
		Comments:                req.Comments,
		AgreementWithTermsOfUse: req.AgreementWithTermsOfUse,
	}

	if partner.AutoApprove {
		application.Status = models.ApplicationStatusApproved
	}

	// First save: no prior snapshot exists.
	application.ApplyStatusDerivations(nil, partner.AccessGrantTermDays, time.Now())

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(application).Error; err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		return s.revisions.Append(tx, application, editorID)
	})
	if err != nil {
		return nil, err
	}

	// Load relationships
	if err := s.db.Preload("Editor").Preload("Partner").Preload("SpecificStream").
		First(application, "id = ?", application.ID).Error; err != nil {
		// The row is already committed; without the editor loaded the
		// notification would address nobody, so log and skip it.
		logrus.WithError(err).WithField("application_id", application.ID).
			Warn("Failed to reload application after create")
		return application, nil
	}

	if shouldNotifyDecision(application) {
		go s.sendDecisionNotification(application)
	}

	return application, nil
}

// shouldNotifyDecision reports whether a just-persisted application
// warrants a decision email. The editor relationship must be loaded; a
// zero-valued editor has no address to notify.
func shouldNotifyDecision(application *models.Application) bool {
	return application.Status.IsClosed() && application.Editor.Email != ""
}

// Review changes an application's status on behalf of a coordinator and
// runs the save protocol: the previous persisted status comes from the
// latest revision snapshot, closure fields derive exactly once on the
// open-to-closed transition, and the persist plus the new snapshot commit
// in one transaction.
func (s *ApplicationService) Review(applicationID, reviewerID uuid.UUID, req *ReviewApplicationRequest) (*models.Application, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("unknown application status %q", req.Status)
	}

	// Verify reviewer is a coordinator
	var reviewer models.Editor
	if err := s.db.First(&reviewer, "id = ?", reviewerID).Error; err != nil {
		return nil, ErrNotCoordinator
	}
	if !reviewer.IsCoordinator() {
		return nil, ErrNotCoordinator
	}

	// Find application
	var application models.Application
	if err := s.db.Preload("Editor").Preload("Partner").Preload("SpecificStream").
		First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("application not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Previous persisted status, or nil when no snapshot exists yet.
	prevStatus, err := s.revisions.LatestStatusFor(applicationID)
	if err != nil {
		return nil, err
	}

	wasClosed := application.DateClosed != nil

	application.Status = req.Status
	if req.Comments != "" {
		application.Comments = req.Comments
	}

	application.ApplyStatusDerivations(prevStatus, application.Partner.AccessGrantTermDays, time.Now())

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Save(&application).Error; err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}
		return s.revisions.Append(tx, &application, reviewerID)
	})
	if err != nil {
		return nil, err
	}

	if !wasClosed && application.DateClosed != nil {
		go s.sendDecisionNotification(&application)
	}

	return &application, nil
}

// Update lets the owning editor amend a still-open application. The edit
// goes through the same persist path as every other save: derivations run
// (a no-op while the status stays open) and a snapshot is appended.
func (s *ApplicationService) Update(applicationID, editorID uuid.UUID, req *UpdateApplicationRequest) (*models.Application, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Find application
	var application models.Application
	if err := s.db.Preload("Editor").Preload("Partner").
		First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("application not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if application.EditorID != editorID {
		return nil, ErrNotApplicationOwner
	}
	if application.Status.IsClosed() {
		return nil, errors.New("cannot update a closed application")
	}

	if req.Rationale != nil {
		application.Rationale = *req.Rationale
	}
	if req.SpecificTitle != nil {
		application.SpecificTitle = *req.SpecificTitle
	}
	if req.Comments != nil {
		application.Comments = *req.Comments
	}
	if req.AgreementWithTermsOfUse != nil {
		application.AgreementWithTermsOfUse = *req.AgreementWithTermsOfUse
	}

	prevStatus, err := s.revisions.LatestStatusFor(applicationID)
	if err != nil {
		return nil, err
	}
	application.ApplyStatusDerivations(prevStatus, application.Partner.AccessGrantTermDays, time.Now())

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Save(&application).Error; err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}
		return s.revisions.Append(tx, &application, editorID)
	})
	if err != nil {
		return nil, err
	}

	return &application, nil
}

func (s *ApplicationService) Get(applicationID uuid.UUID) (*models.Application, error) {
	var application models.Application
	if err := s.db.Preload("Editor").Preload("Partner").Preload("Partner.Streams").
		Preload("SpecificStream").
		First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("application not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &application, nil
}

// Search lists applications in the canonical order: newest first, then by
// editor, then by partner.
func (s *ApplicationService) Search(params ApplicationSearchParams) ([]models.Application, int64, error) {
	query := s.db.Model(&models.Application{}).
		Preload("Editor").Preload("Partner").Preload("SpecificStream")

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.EditorID != nil {
		query = query.Where("editor_id = ?", *params.EditorID)
	}
	if params.PartnerID != nil {
		query = query.Where("partner_id = ?", *params.PartnerID)
	}
	if params.Expired != nil {
		if *params.Expired {
			query = query.Where("earliest_expiry_date IS NOT NULL AND earliest_expiry_date <= ?", models.Today())
		} else {
			query = query.Where("earliest_expiry_date IS NULL OR earliest_expiry_date > ?", models.Today())
		}
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	query = query.Order("date_created DESC, editor_id, partner_id")
	query = utils.ApplyPagination(query, params.PaginationParams)

	var applications []models.Application
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, total, nil
}

// ListExpiring returns approved applications whose earliest expiry date
// falls within the next withinDays days.
func (s *ApplicationService) ListExpiring(withinDays int) ([]models.Application, error) {
	cutoff := models.Today().AddDate(0, 0, withinDays)

	var applications []models.Application
	err := s.db.Preload("Editor").Preload("Partner").
		Where("status = ? AND earliest_expiry_date IS NOT NULL AND earliest_expiry_date <= ?",
			models.ApplicationStatusApproved, cutoff).
		Order("earliest_expiry_date ASC").
		Find(&applications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expiring applications: %w", err)
	}

	return applications, nil
}

// History accessors. All of these treat "no revisions yet" as a normal
// outcome and return zero values rather than errors.

func (s *ApplicationService) VersionCount(applicationID uuid.UUID) (int64, error) {
	return s.revisions.CountFor(applicationID)
}

func (s *ApplicationService) LatestVersion(applicationID uuid.UUID) (*models.ApplicationRevision, error) {
	return s.revisions.LatestFor(applicationID)
}

func (s *ApplicationService) LatestReviewer(applicationID uuid.UUID) (*models.Editor, error) {
	return s.revisions.LatestReviewerFor(applicationID)
}

func (s *ApplicationService) LatestReviewDate(applicationID uuid.UUID) (*time.Time, error) {
	revision, err := s.revisions.LatestFor(applicationID)
	if err != nil || revision == nil {
		return nil, err
	}
	return &revision.CreatedAt, nil
}

func (s *ApplicationService) ListRevisions(applicationID uuid.UUID) ([]models.ApplicationRevision, error) {
	var revisions []models.ApplicationRevision
	err := s.db.Preload("Editor").
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&revisions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch revisions: %w", err)
	}
	return revisions, nil
}

// AddAttachment records a supporting document already placed in storage.
// Only the owning editor may attach, and only while the application is
// open.
func (s *ApplicationService) AddAttachment(applicationID, editorID uuid.UUID, fileName string, upload *UploadResult) (*models.Attachment, error) {
	var application models.Application
	if err := s.db.First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("application not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if application.EditorID != editorID {
		return nil, ErrNotApplicationOwner
	}
	if application.Status.IsClosed() {
		return nil, errors.New("cannot attach to a closed application")
	}

	attachment := &models.Attachment{
		ApplicationID: applicationID,
		UploadedByID:  editorID,
		FileName:      fileName,
		StorageKey:    upload.Key,
		URL:           upload.URL,
		Size:          upload.Size,
		MimeType:      upload.MimeType,
	}
	if err := s.db.Create(attachment).Error; err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}

	return attachment, nil
}

func (s *ApplicationService) ListAttachments(applicationID uuid.UUID) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := s.db.Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attachments: %w", err)
	}
	return attachments, nil
}

func (s *ApplicationService) sendDecisionNotification(application *models.Application) {
	if s.notificationService == nil {
		return
	}

	switch application.Status {
	case models.ApplicationStatusApproved:
		s.notificationService.SendApplicationApprovedEmail(application)
	case models.ApplicationStatusNotApproved:
		s.notificationService.SendApplicationDeniedEmail(application)
	}
}
