package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/events"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/payment"
)

// FinalizeBooking turns an approved payment into a paid booking. Repeated
// notifications for the same payment return the existing booking.
type FinalizeBooking struct {
	repo     domain.Repository
	provider payment.Provider
	audit    *audit.Dispatcher
	notifier events.Notifier
	log      *zap.Logger
}

func NewFinalizeBooking(
	repo domain.Repository,
	provider payment.Provider,
	audit *audit.Dispatcher,
	notifier events.Notifier,
	log *zap.Logger,
) *FinalizeBooking {
	return &FinalizeBooking{
		repo:     repo,
		provider: provider,
		audit:    audit,
		notifier: notifier,
		log:      log,
	}
}

type FinalizeResult struct {
	Booking *models.Booking
	// Created is false for ignored or repeated notifications.
	Created bool
}

func (uc *FinalizeBooking) Execute(ctx context.Context, paymentID string) (*FinalizeResult, error) {
	if paymentID == "" {
		return nil, httperr.BadRequest("Missing payment id")
	}

	p, err := uc.provider.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, httperr.Wrap(502, "Could not load the payment. Please try again later.", err)
	}
	if p.Status != payment.StatusApproved {
		return &FinalizeResult{}, nil
	}

	if existing, err := uc.repo.FindByPaymentID(ctx, p.ID); err == nil {
		return &FinalizeResult{Booking: existing}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tourID, userID, err := domain.ParseReference(p.Reference)
	if err != nil {
		return nil, httperr.Wrap(400, "Payment reference is invalid", err)
	}

	tour, err := uc.repo.FindTour(ctx, tourID)
	if err != nil {
		return nil, notFound(err, "No tour found with that ID")
	}
	user, err := uc.repo.FindUser(ctx, userID)
	if err != nil {
		return nil, notFound(err, "The user belonging to this payment does no longer exist.")
	}

	price := p.Amount
	if price <= 0 {
		price = tour.Price
	}
	pid := p.ID
	b := &models.Booking{
		ID:        uuid.New(),
		TourID:    tour.ID,
		UserID:    user.ID,
		Price:     price,
		Paid:      true,
		PaymentID: &pid,
	}

	if err := uc.repo.Create(ctx, b); err != nil {
		// a concurrent notification may have won the unique payment id
		if existing, ferr := uc.repo.FindByPaymentID(ctx, p.ID); ferr == nil {
			return &FinalizeResult{Booking: existing}, nil
		}
		return nil, err
	}
	b.Tour, b.User = tour, user

	uc.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(user.ID),
		Action:   audit.ActionBookingCreated,
		Entity:   "booking",
		EntityID: audit.Ptr(b.ID),
		Metadata: map[string]any{"paymentId": p.ID, "price": price},
	})

	if uc.notifier != nil {
		ev := events.BookingConfirmed{
			BookingID: b.ID,
			TourID:    tour.ID,
			TourName:  tour.Name,
			UserID:    user.ID,
			UserName:  user.Name,
			UserEmail: user.Email,
			Price:     price,
			CreatedAt: b.CreatedAt,
		}
		if err := uc.notifier.BookingConfirmed(ctx, ev); err != nil {
			uc.log.Warn("booking notification failed", zap.String("booking_id", b.ID.String()), zap.Error(err))
		}
	}

	return &FinalizeResult{Booking: b, Created: true}, nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.Wrap(404, msg, err)
	}
	return err
}
