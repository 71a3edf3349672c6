package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/events"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/infra/repository"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/payment"
	"github.com/BruksfildServices01/tour-booking/internal/testutil"
)

type fakeProvider struct {
	checkout payment.CheckoutRequest
	payments map[string]*payment.Payment
	failures error
}

func (f *fakeProvider) CreateCheckout(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	if f.failures != nil {
		return nil, f.failures
	}
	f.checkout = req
	return &payment.CheckoutSession{ID: "pref-1", URL: "https://pay.example.com/pref-1"}, nil
}

func (f *fakeProvider) GetPayment(_ context.Context, id string) (*payment.Payment, error) {
	if f.failures != nil {
		return nil, f.failures
	}
	p, ok := f.payments[id]
	if !ok {
		return nil, errors.New("payment not found")
	}
	return p, nil
}

type fakeNotifier struct {
	events []events.BookingConfirmed
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, ev events.BookingConfirmed) error {
	f.events = append(f.events, ev)
	return nil
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *httperr.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.StatusCode
}

func TestCreateCheckoutSession(t *testing.T) {
	db := testutil.NewDB(t)
	tour := testutil.CreateTour(t, db, "The Forest Hiker", 397)
	user := testutil.CreateUser(t, db, "buyer@example.com", models.RoleUser)

	provider := &fakeProvider{}
	uc := NewCreateCheckoutSession(repository.NewBookingGormRepository(db), provider, "BRL")

	session, err := uc.Execute(context.Background(), CheckoutInput{TourID: tour.ID, User: user, BaseURL: "https://natours.io/"})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/pref-1", session.URL)

	req := provider.checkout
	assert.Equal(t, domain.Reference(tour.ID, user.ID), req.Reference)
	assert.Equal(t, "buyer@example.com", req.CustomerEmail)
	assert.Equal(t, "https://natours.io/my-tours?alert=booking", req.SuccessURL)
	assert.Equal(t, "https://natours.io/tour/"+tour.Slug, req.CancelURL)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "The Forest Hiker Tour", req.Items[0].Title)
	assert.Equal(t, 397.0, req.Items[0].UnitPrice)
	assert.Equal(t, "https://natours.io/img/tours/cover.jpg", req.Items[0].ImageURL)
	assert.Equal(t, "BRL", req.Items[0].Currency)
}

func TestCreateCheckoutSession_Errors(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "buyer@example.com", models.RoleUser)
	tour := testutil.CreateTour(t, db, "The Forest Hiker", 397)

	uc := NewCreateCheckoutSession(repository.NewBookingGormRepository(db), &fakeProvider{}, "BRL")
	_, err := uc.Execute(context.Background(), CheckoutInput{TourID: uuid.New(), User: user})
	assert.Equal(t, 404, statusOf(t, err))

	failing := NewCreateCheckoutSession(repository.NewBookingGormRepository(db), &fakeProvider{failures: errors.New("down")}, "BRL")
	_, err = failing.Execute(context.Background(), CheckoutInput{TourID: tour.ID, User: user})
	assert.Equal(t, 502, statusOf(t, err))
}

func TestFinalizeBooking(t *testing.T) {
	db := testutil.NewDB(t)
	tour := testutil.CreateTour(t, db, "The Forest Hiker", 397)
	user := testutil.CreateUser(t, db, "buyer@example.com", models.RoleUser)
	ref := domain.Reference(tour.ID, user.ID)

	provider := &fakeProvider{payments: map[string]*payment.Payment{
		"100": {ID: "100", Status: payment.StatusApproved, Reference: ref, Amount: 397},
		"200": {ID: "200", Status: "pending", Reference: ref, Amount: 397},
		"300": {ID: "300", Status: payment.StatusApproved, Reference: "garbage"},
	}}
	notifier := &fakeNotifier{}
	uc := NewFinalizeBooking(repository.NewBookingGormRepository(db), provider, nil, notifier, zap.NewNop())
	ctx := context.Background()

	res, err := uc.Execute(ctx, "100")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.True(t, res.Booking.Paid)
	assert.Equal(t, 397.0, res.Booking.Price)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, "buyer@example.com", notifier.events[0].UserEmail)

	again, err := uc.Execute(ctx, "100")
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.Booking.ID, again.Booking.ID)
	assert.Len(t, notifier.events, 1)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	pending, err := uc.Execute(ctx, "200")
	require.NoError(t, err)
	assert.False(t, pending.Created)
	assert.Nil(t, pending.Booking)

	_, err = uc.Execute(ctx, "300")
	assert.Equal(t, 400, statusOf(t, err))

	_, err = uc.Execute(ctx, "")
	assert.Equal(t, 400, statusOf(t, err))
}
