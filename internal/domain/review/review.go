package review

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/domain/tour"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

// BeforeSave requires the reviewed tour to exist.
func BeforeSave(ctx context.Context, tx *gorm.DB, r *models.Review, _ bool) error {
	var n int64
	if err := tx.WithContext(ctx).Model(&models.Tour{}).Where("id = ?", r.TourID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return httperr.BadRequest("Review must belong to a tour.")
	}
	return nil
}

// AfterSave refreshes the tour aggregates once the review is written.
func AfterSave(ctx context.Context, tx *gorm.DB, r *models.Review, _ bool) error {
	return RecalculateRatings(ctx, tx, r.TourID)
}

func AfterDelete(ctx context.Context, tx *gorm.DB, r *models.Review) error {
	return RecalculateRatings(ctx, tx, r.TourID)
}

// RecalculateRatings stores the review count and mean rating on the tour.
// A tour without reviews falls back to the default rating.
func RecalculateRatings(ctx context.Context, tx *gorm.DB, tourID uuid.UUID) error {
	var stats struct {
		Quantity int
		Average  float64
	}
	if err := tx.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS quantity, COALESCE(AVG(rating), 0) AS average").
		Where("tour_id = ?", tourID).
		Scan(&stats).Error; err != nil {
		return err
	}

	avg := tour.DefaultRating
	if stats.Quantity > 0 {
		avg = tour.RoundRating(stats.Average)
	}

	return tx.WithContext(ctx).
		Model(&models.Tour{}).
		Where("id = ?", tourID).
		Updates(map[string]any{"ratings_quantity": stats.Quantity, "ratings_average": avg}).Error
}
