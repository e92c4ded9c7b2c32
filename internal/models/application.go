// internal/models/application.go
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application is one editor's request for an access grant to one partner,
// optionally scoped to a specific stream. Listings order by date_created
// descending, then editor, then partner.
type Application struct {
	BaseModel
	Status ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	// Set once at first persist, never changed afterwards.
	DateCreated time.Time `json:"date_created" gorm:"type:date;not null"`

	// Do not set these three fields directly. They are derived exactly once
	// when the application first transitions into a closed status; manual
	// overrides leave the derived values inconsistent.
	DateClosed         *time.Time `json:"date_closed,omitempty" gorm:"type:date"`
	DaysOpen           *int       `json:"days_open,omitempty"`
	EarliestExpiryDate *time.Time `json:"earliest_expiry_date,omitempty" gorm:"type:date"`

	EditorID         uuid.UUID  `json:"editor_id" gorm:"type:uuid;not null;index"`
	PartnerID        uuid.UUID  `json:"partner_id" gorm:"type:uuid;not null;index"`
	SpecificStreamID *uuid.UUID `json:"specific_stream_id,omitempty" gorm:"type:uuid"`

	Rationale               string `json:"rationale,omitempty" gorm:"type:text"`
	SpecificTitle           string `json:"specific_title,omitempty" gorm:"size:128"`
	Comments                string `json:"comments,omitempty" gorm:"type:text"`
	AgreementWithTermsOfUse bool   `json:"agreement_with_terms_of_use" gorm:"default:false"`

	// Relationships
	Editor         Editor  `json:"editor,omitempty" gorm:"foreignKey:EditorID"`
	Partner        Partner `json:"partner,omitempty" gorm:"foreignKey:PartnerID"`
	SpecificStream *Stream `json:"specific_stream,omitempty" gorm:"foreignKey:SpecificStreamID"`
}

func (a *Application) String() string {
	return fmt.Sprintf("%s - %s", a.Editor.Username, a.Partner.CompanyName)
}

// BeforeCreate stamps the immutable creation date.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.DateCreated.IsZero() {
		a.DateCreated = Today()
	}
	return nil
}

// URLPath is the canonical reference path for this application.
func (a *Application) URLPath() string {
	return fmt.Sprintf("/v1/applications/%s", a.ID)
}

// ApplyStatusDerivations is the pre-commit computation step run on every
// persist. Given the previous persisted status (nil when no snapshot exists,
// i.e. a first save) and the current in-memory state, it sets date_closed,
// days_open and earliest_expiry_date. All three are write-once: an
// application that reopens and closes again keeps its original closure
// values. Idempotent, so re-running it before a no-op save changes nothing.
func (a *Application) ApplyStatusDerivations(prevStatus *ApplicationStatus, grantTermDays int, now time.Time) {
	today := DateOf(now)

	if a.DateClosed == nil && a.Status.IsClosed() {
		if prevStatus == nil {
			// Closed at the moment of creation (auto-approved partner):
			// the application was never open.
			a.DateClosed = &today
			daysOpen := 0
			a.DaysOpen = &daysOpen
		} else if prevStatus.IsOpen() {
			a.DateClosed = &today
			daysOpen := DaysBetween(a.DateCreated, today)
			a.DaysOpen = &daysOpen
		}
	}

	if a.DateClosed != nil && a.EarliestExpiryDate == nil {
		expiry := a.DateClosed.AddDate(0, 0, grantTermDays)
		a.EarliestExpiryDate = &expiry
	}
}

// Bootstrap label classes, keyed by status.
var bootstrapClasses = map[ApplicationStatus]string{
	ApplicationStatusPending:     "-primary",
	ApplicationStatusQuestion:    "-warning",
	ApplicationStatusApproved:    "-success",
	ApplicationStatusNotApproved: "-danger",
}

// BootstrapClass returns the Bootstrap styling suffix for this
// application's status, like "-success"; the consumer prepends "label" or
// "btn" as appropriate. Unknown statuses yield "".
func (a *Application) BootstrapClass() string {
	return bootstrapClasses[a.Status]
}

// NumDaysOpen returns the number of days since the application was
// initiated while it is still open, or the number of days from initiation
// to the final status determination once closed. A status outside the four
// known values is a programmer error and panics.
func (a *Application) NumDaysOpen(now time.Time) int {
	if a.Status.IsOpen() {
		return DaysBetween(a.DateCreated, now)
	}
	if !a.Status.IsClosed() {
		panic(fmt.Sprintf("application %s has unknown status %q", a.ID, a.Status))
	}
	return DaysBetween(a.DateCreated, *a.DateClosed)
}

// IsProbablyExpired reports whether the earliest possible expiry date has
// passed. "Probably" because grants are activated manually after review, so
// the real expiry is usually later.
func (a *Application) IsProbablyExpired(now time.Time) bool {
	if a.EarliestExpiryDate == nil {
		return false
	}
	return !a.EarliestExpiryDate.After(DateOf(now))
}

// NumDaysSinceExpiration returns the days elapsed since the earliest expiry
// date, or nil if the application has not expired.
func (a *Application) NumDaysSinceExpiration(now time.Time) *int {
	if a.EarliestExpiryDate == nil || !a.IsProbablyExpired(now) {
		return nil
	}
	days := DaysBetween(*a.EarliestExpiryDate, now)
	return &days
}

// NumDaysUntilExpiration returns the days remaining until the earliest
// expiry date, or nil if it is unset or already past.
func (a *Application) NumDaysUntilExpiration(now time.Time) *int {
	if a.EarliestExpiryDate == nil || !a.EarliestExpiryDate.After(DateOf(now)) {
		return nil
	}
	days := DaysBetween(now, *a.EarliestExpiryDate)
	return &days
}
