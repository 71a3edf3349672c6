package tour

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

const DefaultRating = 4.5

var GuideRoles = []string{models.RoleGuide, models.RoleLeadGuide}

// Visible hides secret tours from every public read.
func Visible(tx *gorm.DB) *gorm.DB {
	return tx.Where("secret_tour = ?", false)
}

func New() *models.Tour {
	return &models.Tour{RatingsAverage: DefaultRating}
}

// RoundRating clamps a rating average to [1,5] with one decimal.
func RoundRating(v float64) float64 {
	v = math.Max(1, math.Min(5, v))
	return math.Round(v*10) / 10
}

// BeforeSave assigns the slug on creation and normalizes the rating.
func BeforeSave(_ context.Context, _ *gorm.DB, t *models.Tour, isNew bool) error {
	if isNew || t.Slug == "" {
		t.Slug = Slugify(t.Name)
	}
	t.RatingsAverage = RoundRating(t.RatingsAverage)
	if t.StartLocation.Type == "" && len(t.StartLocation.Coordinates) > 0 {
		t.StartLocation.Type = "Point"
	}
	for i := range t.Locations {
		if t.Locations[i].Type == "" {
			t.Locations[i].Type = "Point"
		}
	}
	return nil
}

// AfterSave replaces the guide set when the request carried one, either as
// guideIds or as guide objects. Every id must belong to an active guide or
// lead guide.
func AfterSave(_ context.Context, tx *gorm.DB, t *models.Tour, _ bool) error {
	ids := t.GuideIDs
	if ids == nil {
		if t.Guides == nil {
			return nil
		}
		ids = make([]uuid.UUID, 0, len(t.Guides))
		for _, g := range t.Guides {
			ids = append(ids, g.ID)
		}
	}

	var guides []models.User
	if len(ids) > 0 {
		if err := tx.Where("id IN ? AND role IN ? AND active = ?", ids, GuideRoles, true).
			Find(&guides).Error; err != nil {
			return err
		}
	}
	if len(guides) != len(ids) {
		return httperr.BadRequest(fmt.Sprintf("guides must reference existing guides (%d of %d found)", len(guides), len(ids)))
	}

	assoc := tx.Model(t).Association("Guides")
	if len(guides) == 0 {
		if err := assoc.Clear(); err != nil {
			return err
		}
	} else if err := assoc.Replace(guides); err != nil {
		return err
	}
	t.Guides = guides
	t.GuideIDs = nil
	return nil
}
