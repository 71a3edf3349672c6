package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	TourID uuid.UUID `gorm:"type:uuid;not null;index" json:"tourId" validate:"required"`
	Tour   *Tour     `json:"tour,omitempty"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId" validate:"required"`
	User   *User     `json:"user,omitempty"`

	Price float64 `gorm:"not null" json:"price" validate:"required,gt=0"`
	Paid  bool    `gorm:"not null" json:"paid"`

	// PaymentID is the provider payment that produced the booking, if any.
	PaymentID *string `gorm:"size:64;uniqueIndex" json:"paymentId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
