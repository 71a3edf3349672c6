package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/payment"
)

type CheckoutInput struct {
	TourID uuid.UUID
	User   *models.User
	// BaseURL is the scheme and host of the incoming request.
	BaseURL string
}

type CreateCheckoutSession struct {
	repo     domain.Repository
	provider payment.Provider
	currency string
}

func NewCreateCheckoutSession(
	repo domain.Repository,
	provider payment.Provider,
	currency string,
) *CreateCheckoutSession {
	return &CreateCheckoutSession{
		repo:     repo,
		provider: provider,
		currency: currency,
	}
}

func (uc *CreateCheckoutSession) Execute(
	ctx context.Context,
	in CheckoutInput,
) (*payment.CheckoutSession, error) {

	tour, err := uc.repo.FindTour(ctx, in.TourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound("No tour found with that ID")
		}
		return nil, err
	}

	base := strings.TrimRight(in.BaseURL, "/")

	session, err := uc.provider.CreateCheckout(ctx, payment.CheckoutRequest{
		Reference:       domain.Reference(tour.ID, in.User.ID),
		CustomerEmail:   in.User.Email,
		SuccessURL:      base + "/my-tours?alert=booking",
		CancelURL:       base + "/tour/" + tour.Slug,
		NotificationURL: base + "/api/v1/bookings/webhook",
		Items: []payment.LineItem{{
			Title:       fmt.Sprintf("%s Tour", tour.Name),
			Description: tour.Summary,
			ImageURL:    imageURL(base, tour.ImageCover),
			Currency:    uc.currency,
			UnitPrice:   tour.Price,
			Quantity:    1,
		}},
	})
	if err != nil {
		return nil, httperr.Wrap(502, "Could not create the checkout session. Please try again later.", err)
	}
	return session, nil
}

func imageURL(base, cover string) string {
	if strings.HasPrefix(cover, "http://") || strings.HasPrefix(cover, "https://") {
		return cover
	}
	if strings.HasPrefix(cover, "/") {
		return base + cover
	}
	return base + "/img/tours/" + cover
}
