package models

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Review string  `gorm:"type:text;not null" json:"review" validate:"required"`
	Rating float64 `gorm:"not null" json:"rating" validate:"required,gte=1,lte=5"`

	TourID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_tour_user" json:"tourId" validate:"required"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_tour_user" json:"userId" validate:"required"`

	Tour *Tour `json:"tour,omitempty"`
	User *User `json:"user,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
