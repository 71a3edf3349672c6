package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/payment"
	"github.com/BruksfildServices01/tour-booking/internal/query"
	"github.com/BruksfildServices01/tour-booking/internal/resource"
	"github.com/BruksfildServices01/tour-booking/internal/ticket"
	ucBooking "github.com/BruksfildServices01/tour-booking/internal/usecase/booking"
)

type BookingsHandler struct {
	*resource.Resource[models.Booking, *models.Booking]

	repo          booking.Repository
	checkout      *ucBooking.CreateCheckoutSession
	finalize      *ucBooking.FinalizeBooking
	webhookSecret string
	currency      string
	log           *zap.Logger
}

func NewBookingsHandler(
	db *gorm.DB,
	repo booking.Repository,
	checkout *ucBooking.CreateCheckoutSession,
	finalize *ucBooking.FinalizeBooking,
	webhookSecret string,
	currency string,
	log *zap.Logger,
) *BookingsHandler {
	res := resource.New[models.Booking](db, resource.Config[models.Booking]{
		Name:        "booking",
		Schema:      query.MustSchema(&models.Booking{}),
		ListPreload: []string{"Tour", "User"},
		New:         booking.New,
		Hooks: resource.Hooks[models.Booking]{
			BeforeSave: booking.BeforeSave,
		},
		FromRequest: func(_ *gin.Context, b, _ *models.Booking) error {
			b.Tour, b.User = nil, nil
			return nil
		},
	})

	return &BookingsHandler{
		Resource:      res,
		repo:          repo,
		checkout:      checkout,
		finalize:      finalize,
		webhookSecret: webhookSecret,
		currency:      currency,
		log:           log,
	}
}

func (h *BookingsHandler) GetCheckoutSession(c *gin.Context) {
	tourID, err := resource.ParseID(c, "tourId")
	if err != nil {
		_ = c.Error(err)
		return
	}
	u, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	session, err := h.checkout.Execute(c.Request.Context(), ucBooking.CheckoutInput{
		TourID:  tourID,
		User:    u,
		BaseURL: baseURL(c),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "session": session})
}

type webhookNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Webhook receives payment notifications. Both the JSON body and the
// "type"/"data.id" query parameters are accepted.
func (h *BookingsHandler) Webhook(c *gin.Context) {
	var n webhookNotification
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&n); err != nil {
			_ = c.Error(err)
			return
		}
	}
	if n.Type == "" {
		n.Type = c.Query("type")
	}
	if id := c.Query("data.id"); id != "" {
		n.Data.ID = id
	}

	if h.webhookSecret != "" &&
		!payment.VerifySignature(h.webhookSecret, c.GetHeader("x-signature"), c.GetHeader("x-request-id"), n.Data.ID) {
		_ = c.Error(httperr.Unauthorized("Invalid webhook signature"))
		return
	}

	if n.Type != "payment" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	res, err := h.finalize.Execute(c.Request.Context(), n.Data.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if res.Booking == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	h.log.Info("payment notification processed",
		zap.String("payment_id", n.Data.ID),
		zap.String("booking_id", res.Booking.ID.String()),
		zap.Bool("created", res.Created),
	)
	httpresp.OK(c, gin.H{"booking": res.Booking, "created": res.Created})
}

// Ticket renders the booking PDF for its owner or an admin.
func (h *BookingsHandler) Ticket(c *gin.Context) {
	id, err := resource.ParseID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	u, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	b, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = httperr.NotFound("No booking found with that ID")
		}
		_ = c.Error(err)
		return
	}
	if b.UserID != u.ID && u.Role != models.RoleAdmin {
		_ = c.Error(httperr.Forbidden("You do not have permission to perform this action"))
		return
	}

	pdf, err := ticket.Render(TicketFor(b, h.currency, baseURL(c)))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ticket-%s.pdf"`, b.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// TicketFor maps a booking with its tour and user onto the ticket layout.
func TicketFor(b *models.Booking, currency, base string) ticket.Ticket {
	t := ticket.Ticket{
		BookingID: b.ID.String(),
		Price:     b.Price,
		Currency:  currency,
		Paid:      b.Paid,
		IssuedAt:  b.CreatedAt,
		VerifyURL: fmt.Sprintf("%s/api/v1/bookings/%s", base, b.ID),
	}
	if b.Tour != nil {
		t.TourName = b.Tour.Name
		t.Summary = b.Tour.Summary
		t.DurationDay = b.Tour.Duration
		if len(b.Tour.StartDates) > 0 {
			start := b.Tour.StartDates[0]
			t.StartDate = &start
		}
	}
	if b.User != nil {
		t.Customer = b.User.Name
		t.Email = b.User.Email
	}
	return t
}
