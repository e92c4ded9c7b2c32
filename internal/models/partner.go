// internal/models/partner.go
package models

import (
	"github.com/google/uuid"
)

type Partner struct {
	BaseModel
	CompanyName string        `json:"company_name" gorm:"uniqueIndex;size:128;not null"`
	Description string        `json:"description,omitempty" gorm:"type:text"`
	TermsURL    string        `json:"terms_url,omitempty" gorm:"size:255"`
	Status      PartnerStatus `json:"status" gorm:"type:varchar(20);default:'available'"`

	// Length of an access grant, in days, counted from the day an
	// application is closed. Captured into earliest_expiry_date at closure
	// time; editing it later does not move already-derived expiry dates.
	AccessGrantTermDays int `json:"access_grant_term_days" gorm:"default:365;not null"`

	// Applications submitted to an auto-approving partner are created
	// directly in the approved state.
	AutoApprove bool `json:"auto_approve" gorm:"default:false"`

	// Relationships
	Streams      []Stream      `json:"streams,omitempty" gorm:"foreignKey:PartnerID"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:PartnerID"`
}

// Stream is a named sub-resource of a partner (a journal collection, a
// database, a publication series) that an application may be scoped to.
type Stream struct {
	BaseModel
	PartnerID   uuid.UUID `json:"partner_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
}
