package booking

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

var ErrInvalidReference = errors.New("invalid booking reference")

// Reference identifies the tour and buyer of a checkout. It travels through
// the payment provider and comes back on the payment.
func Reference(tourID, userID uuid.UUID) string {
	return tourID.String() + ":" + userID.String()
}

func ParseReference(ref string) (tourID, userID uuid.UUID, err error) {
	t, u, ok := strings.Cut(ref, ":")
	if !ok {
		return uuid.Nil, uuid.Nil, ErrInvalidReference
	}
	if tourID, err = uuid.Parse(t); err != nil {
		return uuid.Nil, uuid.Nil, ErrInvalidReference
	}
	if userID, err = uuid.Parse(u); err != nil {
		return uuid.Nil, uuid.Nil, ErrInvalidReference
	}
	return tourID, userID, nil
}

// New returns a booking that is paid unless the request says otherwise.
func New() *models.Booking {
	return &models.Booking{Paid: true}
}

// BeforeSave checks that the referenced tour and user exist.
func BeforeSave(ctx context.Context, tx *gorm.DB, b *models.Booking, _ bool) error {
	var n int64
	if err := tx.WithContext(ctx).Model(&models.Tour{}).Where("id = ?", b.TourID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return httperr.BadRequest("Booking must belong to a tour!")
	}

	if err := tx.WithContext(ctx).Model(&models.User{}).Where("id = ? AND active = ?", b.UserID, true).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return httperr.BadRequest("Booking must belong to a user!")
	}
	return nil
}

type Repository interface {
	FindTour(ctx context.Context, id uuid.UUID) (*models.Tour, error)
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error)
	Create(ctx context.Context, b *models.Booking) error
	ToursBookedBy(ctx context.Context, userID uuid.UUID) ([]models.Tour, error)
}
