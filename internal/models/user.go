package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
)

const DefaultPhoto = "default.jpg"

type User struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email" validate:"required,email"`
	Photo string `gorm:"size:255;default:'default.jpg'" json:"photo"`
	Role  string `gorm:"size:20;default:'user'" json:"role" validate:"required,oneof=admin user guide lead-guide"`

	PasswordHash         string     `gorm:"size:255;not null" json:"-"`
	PasswordChangedAt    *time.Time `json:"passwordChangedAt,omitempty"`
	PasswordResetToken   *string    `gorm:"size:64;index" json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	Active bool `gorm:"default:true;index" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
