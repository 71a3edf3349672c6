package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is a GeoJSON point with an optional itinerary day.
type Location struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	Day         int       `json:"day,omitempty"`
}

type Tour struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name         string  `gorm:"size:50;uniqueIndex;not null" json:"name" validate:"required,min=10,max=50"`
	Slug         string  `gorm:"size:80;index" json:"slug"`
	Duration     int     `gorm:"not null" json:"duration" validate:"required,gt=0"`
	MaxGroupSize int     `gorm:"not null" json:"maxGroupSize" validate:"required,gt=0"`
	Difficulty   string  `gorm:"size:20;not null" json:"difficulty" validate:"required,oneof=easy medium difficult"`
	Price        float64 `gorm:"not null" json:"price" validate:"required,gt=0"`

	PriceDiscount float64 `json:"priceDiscount,omitempty" validate:"omitempty,gte=0,ltfield=Price"`

	RatingsAverage  float64 `gorm:"default:4.5" json:"ratingsAverage" validate:"gte=1,lte=5"`
	RatingsQuantity int     `gorm:"default:0" json:"ratingsQuantity" validate:"gte=0"`

	Summary     string `gorm:"size:255;not null" json:"summary" validate:"required"`
	Description string `gorm:"type:text" json:"description"`
	ImageCover  string `gorm:"size:255;not null" json:"imageCover" validate:"required"`

	Images     []string    `gorm:"serializer:json" json:"images"`
	StartDates []time.Time `gorm:"serializer:json" json:"startDates"`

	StartLocation Location   `gorm:"serializer:json" json:"startLocation"`
	Locations     []Location `gorm:"serializer:json" json:"locations"`

	SecretTour bool `gorm:"default:false;index" json:"secretTour"`

	Guides []User `gorm:"many2many:tour_guides;" json:"guides,omitempty"`
	// GuideIDs replaces the guide set when sent on create or update.
	GuideIDs []uuid.UUID `gorm:"-" json:"guideIds,omitempty"`

	Reviews []Review `gorm:"foreignKey:TourID" json:"reviews,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DurationWeeks mirrors the derived field shown on tour pages.
func (t Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}
