// internal/services/partner_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grantdesk/grantdesk-backend/internal/models"
	"github.com/grantdesk/grantdesk-backend/internal/utils"
)

type PartnerService struct {
	db *gorm.DB
}

type CreatePartnerRequest struct {
	CompanyName         string                `json:"company_name" validate:"required,max=128"`
	Description         string                `json:"description,omitempty"`
	TermsURL            string                `json:"terms_url,omitempty" validate:"omitempty,url"`
	AccessGrantTermDays int                   `json:"access_grant_term_days" validate:"required,min=1"`
	AutoApprove         bool                  `json:"auto_approve"`
	Streams             []CreateStreamRequest `json:"streams,omitempty"`
}

type CreateStreamRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	Description string `json:"description,omitempty"`
}

type UpdatePartnerRequest struct {
	Description         *string               `json:"description,omitempty"`
	TermsURL            *string               `json:"terms_url,omitempty" validate:"omitempty,url"`
	Status              *models.PartnerStatus `json:"status,omitempty"`
	AccessGrantTermDays *int                  `json:"access_grant_term_days,omitempty" validate:"omitempty,min=1"`
	AutoApprove         *bool                 `json:"auto_approve,omitempty"`
}

func NewPartnerService(db *gorm.DB) *PartnerService {
	return &PartnerService{db: db}
}

func (s *PartnerService) Create(req *CreatePartnerRequest) (*models.Partner, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	partner := &models.Partner{
		CompanyName:         req.CompanyName,
		Description:         req.Description,
		TermsURL:            req.TermsURL,
		Status:              models.PartnerStatusAvailable,
		AccessGrantTermDays: req.AccessGrantTermDays,
		AutoApprove:         req.AutoApprove,
	}
	for _, stream := range req.Streams {
		partner.Streams = append(partner.Streams, models.Stream{
			Name:        stream.Name,
			Description: stream.Description,
		})
	}

	if err := s.db.Create(partner).Error; err != nil {
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}

	return partner, nil
}

func (s *PartnerService) Update(partnerID uuid.UUID, req *UpdatePartnerRequest) (*models.Partner, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var partner models.Partner
	if err := s.db.First(&partner, "id = ?", partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("partner not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Description != nil {
		partner.Description = *req.Description
	}
	if req.TermsURL != nil {
		partner.TermsURL = *req.TermsURL
	}
	if req.Status != nil {
		partner.Status = *req.Status
	}
	// Changing the term only affects applications closed after the change;
	// already-derived expiry dates keep the term captured at closure.
	if req.AccessGrantTermDays != nil {
		partner.AccessGrantTermDays = *req.AccessGrantTermDays
	}
	if req.AutoApprove != nil {
		partner.AutoApprove = *req.AutoApprove
	}

	if err := s.db.Save(&partner).Error; err != nil {
		return nil, fmt.Errorf("failed to update partner: %w", err)
	}

	return &partner, nil
}

func (s *PartnerService) Get(partnerID uuid.UUID) (*models.Partner, error) {
	var partner models.Partner
	if err := s.db.Preload("Streams").First(&partner, "id = ?", partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("partner not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &partner, nil
}

// List returns partners ordered by name. Unavailable partners are hidden
// unless includeUnavailable is set; coordinators browse the full catalog.
func (s *PartnerService) List(params utils.PaginationParams, includeUnavailable bool) ([]models.Partner, int64, error) {
	query := s.db.Model(&models.Partner{}).Preload("Streams")
	if !includeUnavailable {
		query = query.Where("status = ?", models.PartnerStatusAvailable)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count partners: %w", err)
	}

	query = query.Order("company_name ASC")
	query = utils.ApplyPagination(query, params)

	var partners []models.Partner
	if err := query.Find(&partners).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch partners: %w", err)
	}

	return partners, total, nil
}

func (s *PartnerService) AddStream(partnerID uuid.UUID, req *CreateStreamRequest) (*models.Stream, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var partner models.Partner
	if err := s.db.First(&partner, "id = ?", partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("partner not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	stream := &models.Stream{
		PartnerID:   partnerID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.Create(stream).Error; err != nil {
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	return stream, nil
}
