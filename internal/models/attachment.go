// internal/models/attachment.go
package models

import (
	"github.com/google/uuid"
)

// Attachment is a supporting document uploaded alongside an application
// (proof of editing activity, institutional affiliation, etc.).
type Attachment struct {
	BaseModel
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:uuid;not null;index"`
	UploadedByID  uuid.UUID `json:"uploaded_by_id" gorm:"type:uuid;not null"`
	FileName      string    `json:"file_name" gorm:"size:255;not null"`
	StorageKey    string    `json:"storage_key" gorm:"size:255;not null"`
	URL           string    `json:"url" gorm:"size:512"`
	Size          int64     `json:"size"`
	MimeType      string    `json:"mime_type" gorm:"size:128"`

	// Relationships
	Application Application `json:"application,omitempty" gorm:"foreignKey:ApplicationID"`
	UploadedBy  Editor      `json:"uploaded_by,omitempty" gorm:"foreignKey:UploadedByID"`
}
