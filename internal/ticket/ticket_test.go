package ticket

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	start := time.Date(2026, 6, 19, 9, 0, 0, 0, time.UTC)
	pdf, err := Render(Ticket{
		BookingID:   "2d9a0c1e-0000-4000-8000-000000000001",
		TourName:    "The Snow Adventurer",
		Summary:     "Exciting adventure in the snow with snowboarding and skiing",
		StartDate:   &start,
		DurationDay: 4,
		Customer:    "José Müller",
		Email:       "jose@example.com",
		Price:       997,
		Currency:    "BRL",
		Paid:        true,
		IssuedAt:    start.Add(-24 * time.Hour),
		VerifyURL:   "https://natours.example.com/api/v1/bookings/2d9a0c1e/ticket",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}
