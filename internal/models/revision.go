// internal/models/revision.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationRevision is one entry in the append-only history of an
// application. Every persist of an Application writes a revision in the
// same transaction, capturing the full field values at commit time plus who
// saved it and when. The save protocol reads back the most recent revision
// to learn an application's previous status.
type ApplicationRevision struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:uuid;not null;index"`
	EditorID      uuid.UUID `json:"editor_id" gorm:"type:uuid;not null;index"`
	Snapshot      JSONB     `json:"snapshot" gorm:"type:jsonb;not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;index"`

	// Relationships
	Editor Editor `json:"editor,omitempty" gorm:"foreignKey:EditorID"`
}

func (ApplicationRevision) TableName() string {
	return "application_revisions"
}

// SnapshotOf captures an application's persisted field values for the
// revision log.
func SnapshotOf(a *Application) JSONB {
	snapshot := JSONB{
		"status":                      string(a.Status),
		"date_created":                a.DateCreated.Format("2006-01-02"),
		"editor_id":                   a.EditorID.String(),
		"partner_id":                  a.PartnerID.String(),
		"rationale":                   a.Rationale,
		"specific_title":              a.SpecificTitle,
		"comments":                    a.Comments,
		"agreement_with_terms_of_use": a.AgreementWithTermsOfUse,
	}
	if a.SpecificStreamID != nil {
		snapshot["specific_stream_id"] = a.SpecificStreamID.String()
	}
	if a.DateClosed != nil {
		snapshot["date_closed"] = a.DateClosed.Format("2006-01-02")
	}
	if a.DaysOpen != nil {
		snapshot["days_open"] = *a.DaysOpen
	}
	if a.EarliestExpiryDate != nil {
		snapshot["earliest_expiry_date"] = a.EarliestExpiryDate.Format("2006-01-02")
	}
	return snapshot
}

// Status returns the application status recorded in this revision's
// snapshot. ok is false when the snapshot has no status field.
func (r *ApplicationRevision) Status() (ApplicationStatus, bool) {
	raw, exists := r.Snapshot["status"]
	if !exists {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	return ApplicationStatus(s), true
}
