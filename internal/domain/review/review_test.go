package review

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/testutil"
)

func TestRecalculateRatings(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	tr := testutil.CreateTour(t, db, "The Park Camper", 300)

	for i, rating := range []float64{5, 4, 4} {
		u := testutil.CreateUser(t, db, string(rune('a'+i))+"@example.com", models.RoleUser)
		require.NoError(t, db.Create(&models.Review{
			ID: uuid.New(), Review: "Great", Rating: rating, TourID: tr.ID, UserID: u.ID,
		}).Error)
	}

	require.NoError(t, RecalculateRatings(ctx, db, tr.ID))

	var got models.Tour
	require.NoError(t, db.First(&got, "id = ?", tr.ID).Error)
	assert.Equal(t, 3, got.RatingsQuantity)
	assert.Equal(t, 4.3, got.RatingsAverage)

	require.NoError(t, db.Where("tour_id = ?", tr.ID).Delete(&models.Review{}).Error)
	require.NoError(t, RecalculateRatings(ctx, db, tr.ID))

	require.NoError(t, db.First(&got, "id = ?", tr.ID).Error)
	assert.Equal(t, 0, got.RatingsQuantity)
	assert.Equal(t, 4.5, got.RatingsAverage)
}
