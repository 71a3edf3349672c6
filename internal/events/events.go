// Package events carries booking notifications over RabbitMQ.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const BookingConfirmedQueue = "booking.confirmed"

type BookingConfirmed struct {
	BookingID uuid.UUID `json:"bookingId"`
	TourID    uuid.UUID `json:"tourId"`
	TourName  string    `json:"tourName"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier announces confirmed bookings.
type Notifier interface {
	BookingConfirmed(ctx context.Context, ev BookingConfirmed) error
}

// Handler processes one delivered event.
type Handler func(ctx context.Context, ev BookingConfirmed) error
