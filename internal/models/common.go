// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type EditorRole string

const (
	EditorRoleEditor      EditorRole = "editor"
	EditorRoleCoordinator EditorRole = "coordinator"
)

type EditorStatus string

const (
	EditorStatusActive    EditorStatus = "active"
	EditorStatusSuspended EditorStatus = "suspended"
)

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusQuestion    ApplicationStatus = "question"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusNotApproved ApplicationStatus = "not_approved"
)

// IsOpen reports whether the status is one of the two open states. An
// application stays open while it is pending or under discussion.
func (s ApplicationStatus) IsOpen() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusQuestion
}

// IsClosed reports whether the status is a terminal review outcome.
func (s ApplicationStatus) IsClosed() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusNotApproved
}

// IsValid reports whether the status is one of the four known values.
func (s ApplicationStatus) IsValid() bool {
	return s.IsOpen() || s.IsClosed()
}

type PartnerStatus string

const (
	PartnerStatusAvailable    PartnerStatus = "available"
	PartnerStatusNotAvailable PartnerStatus = "not_available"
)

// Today returns the current date truncated to midnight UTC. Date-typed
// columns (date_created, date_closed, earliest_expiry_date) store
// midnight-UTC values so day arithmetic stays exact.
func Today() time.Time {
	return DateOf(time.Now())
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference to - from, both truncated
// to their UTC calendar dates.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}
