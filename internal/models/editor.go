// internal/models/editor.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Editor struct {
	BaseModel
	Username      string       `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email         string       `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string       `json:"-" gorm:"size:255;not null"`
	RealName      string       `json:"real_name,omitempty" gorm:"size:128"`
	HomeWiki      string       `json:"home_wiki,omitempty" gorm:"size:128"`
	Contributions string       `json:"contributions,omitempty" gorm:"type:text"`
	Role          EditorRole   `json:"role" gorm:"type:varchar(20);default:'editor'"`
	Status        EditorStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	LastLoginAt   *time.Time   `json:"last_login_at"`

	// Relationships
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:EditorID"`
}

func (e *Editor) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.PasswordHash = string(hashedPassword)
	return nil
}

func (e *Editor) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password))
}

// IsCoordinator reports whether the editor may review applications.
func (e *Editor) IsCoordinator() bool {
	return e.Role == EditorRoleCoordinator
}
