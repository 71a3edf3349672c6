package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/domain/tour"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/middleware"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

var alerts = map[string]string{
	"booking": "Your booking was successful! Please check your email for a confirmation. " +
		"If your booking doesn't show up here immediately, please come back later.",
}

// ViewsHandler renders the server-side pages.
type ViewsHandler struct {
	db       *gorm.DB
	bookings booking.Repository
}

func NewViewsHandler(db *gorm.DB, bookings booking.Repository) *ViewsHandler {
	return &ViewsHandler{db: db, bookings: bookings}
}

func (h *ViewsHandler) render(c *gin.Context, page string, data gin.H) {
	if u := middleware.CurrentUser(c); u != nil {
		data["user"] = u
	}
	if msg, ok := alerts[c.Query("alert")]; ok {
		data["alert"] = msg
	}
	c.HTML(http.StatusOK, page, data)
}

func (h *ViewsHandler) Overview(c *gin.Context) {
	var tours []models.Tour
	if err := h.db.WithContext(c.Request.Context()).
		Scopes(tour.Visible).
		Order("created_at DESC").
		Find(&tours).Error; err != nil {
		_ = c.Error(err)
		return
	}
	h.render(c, "overview.html", gin.H{"title": "All tours", "tours": tours})
}

func (h *ViewsHandler) Tour(c *gin.Context) {
	var t models.Tour
	err := h.db.WithContext(c.Request.Context()).
		Scopes(tour.Visible).
		Preload("Guides").
		Preload("Reviews.User").
		Where("slug = ?", c.Param("slug")).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = httperr.NotFound("There is no tour with that name.")
		}
		_ = c.Error(err)
		return
	}
	h.render(c, "tour.html", gin.H{"title": t.Name + " Tour", "tour": &t})
}

func (h *ViewsHandler) Login(c *gin.Context) {
	h.render(c, "login.html", gin.H{"title": "Log into your account"})
}

func (h *ViewsHandler) Account(c *gin.Context) {
	h.render(c, "account.html", gin.H{"title": "Your account"})
}

func (h *ViewsHandler) MyTours(c *gin.Context) {
	u, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	tours, err := h.bookings.ToursBookedBy(c.Request.Context(), u.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.render(c, "overview.html", gin.H{"title": "My Tours", "tours": tours})
}
