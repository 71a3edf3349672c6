package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/testutil"
)

func TestBookingRepository_Lifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	tour := testutil.CreateTour(t, db, "The Sea Explorer", 497)
	other := testutil.CreateTour(t, db, "The Park Camper", 1497)
	u := testutil.CreateUser(t, db, "buyer@example.com", models.RoleUser)

	pid := "1234"
	b := &models.Booking{ID: uuid.New(), TourID: tour.ID, UserID: u.ID, Price: 497, Paid: true, PaymentID: &pid}
	require.NoError(t, repo.Create(ctx, b))

	again := &models.Booking{ID: uuid.New(), TourID: tour.ID, UserID: u.ID, Price: 497, Paid: true}
	require.NoError(t, repo.Create(ctx, again))

	found, err := repo.FindByPaymentID(ctx, "1234")
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)

	full, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, full.Tour)
	require.NotNil(t, full.User)
	assert.Equal(t, "The Sea Explorer", full.Tour.Name)

	tours, err := repo.ToursBookedBy(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, tours, 1)
	assert.Equal(t, tour.ID, tours[0].ID)
	assert.NotEqual(t, other.ID, tours[0].ID)

	dup := &models.Booking{ID: uuid.New(), TourID: tour.ID, UserID: u.ID, Price: 497, PaymentID: &pid}
	assert.Error(t, repo.Create(ctx, dup))
}

func TestBookingRepository_FindTourHidesSecret(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)

	secret := testutil.CreateTour(t, db, "The Secret Hideout", 999)
	require.NoError(t, db.Model(secret).Update("secret_tour", true).Error)

	_, err := repo.FindTour(context.Background(), secret.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
