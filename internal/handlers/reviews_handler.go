package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/domain/review"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/query"
	"github.com/BruksfildServices01/tour-booking/internal/resource"
)

type ReviewsHandler struct {
	*resource.Resource[models.Review, *models.Review]
}

// NewReviewsHandler serves /reviews and /tours/:tourId/reviews.
func NewReviewsHandler(db *gorm.DB) *ReviewsHandler {
	res := resource.New[models.Review](db, resource.Config[models.Review]{
		Name:        "review",
		Schema:      query.MustSchema(&models.Review{}),
		ListPreload: []string{"User"},
		Nested:      &resource.Nested{Param: "tourId", Column: "tour_id"},
		FromRequest: setReviewOwner,
		Authorize:   authorOrAdmin,
		Hooks: resource.Hooks[models.Review]{
			BeforeSave:  review.BeforeSave,
			AfterSave:   review.AfterSave,
			AfterDelete: review.AfterDelete,
		},
	})
	return &ReviewsHandler{Resource: res}
}

// setReviewOwner takes the tour from the path and the author from the
// session on create. An update keeps both from the stored row.
func setReviewOwner(c *gin.Context, r, stored *models.Review) error {
	r.Tour, r.User = nil, nil
	if stored != nil {
		r.TourID, r.UserID = stored.TourID, stored.UserID
		return nil
	}

	if raw := c.Param("tourId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return httperr.InvalidID(raw, err)
		}
		r.TourID = id
	}
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	r.UserID = u.ID
	return nil
}

// authorOrAdmin lets only the author or an admin change a review.
func authorOrAdmin(c *gin.Context, r *models.Review) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	if u.Role != models.RoleAdmin && r.UserID != u.ID {
		return httperr.Forbidden("You can only change your own reviews")
	}
	return nil
}
