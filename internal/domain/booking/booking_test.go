package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/testutil"
)

func TestReference_RoundTrip(t *testing.T) {
	tourID, userID := uuid.New(), uuid.New()

	gotTour, gotUser, err := ParseReference(Reference(tourID, userID))
	require.NoError(t, err)
	assert.Equal(t, tourID, gotTour)
	assert.Equal(t, userID, gotUser)
}

func TestParseReference_Invalid(t *testing.T) {
	for _, ref := range []string{"", "abc", uuid.NewString(), uuid.NewString() + ":x", "x:" + uuid.NewString()} {
		_, _, err := ParseReference(ref)
		assert.ErrorIs(t, err, ErrInvalidReference, ref)
	}
}

func TestBeforeSave_RequiresTourAndUser(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	tour := testutil.CreateTour(t, db, "The Forest Hiker", 397)
	user := testutil.CreateUser(t, db, "buyer@example.com", models.RoleUser)

	assert.NoError(t, BeforeSave(ctx, db, &models.Booking{TourID: tour.ID, UserID: user.ID}, true))

	var appErr *httperr.AppError
	err := BeforeSave(ctx, db, &models.Booking{TourID: uuid.New(), UserID: user.ID}, true)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Booking must belong to a tour!", appErr.Message)

	err = BeforeSave(ctx, db, &models.Booking{TourID: tour.ID, UserID: uuid.New()}, true)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Booking must belong to a user!", appErr.Message)
}
