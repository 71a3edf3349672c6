package tour

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/testutil"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "the-forest-hiker", Slugify("The Forest Hiker"))
	assert.Equal(t, "sao-paulo-city-walk", Slugify("São Paulo: City Walk!"))
	assert.Equal(t, "the-snow-adventurer-2", Slugify("  The Snow Adventurer 2  "))
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.7, RoundRating(4.666666))
	assert.Equal(t, 5.0, RoundRating(7))
	assert.Equal(t, 1.0, RoundRating(0))
}

func TestBeforeSave(t *testing.T) {
	tr := &models.Tour{Name: "The Sea Explorer", Slug: "stale", RatingsAverage: 4.83}

	require.NoError(t, BeforeSave(context.Background(), nil, tr, true))
	assert.Equal(t, "the-sea-explorer", tr.Slug)
	assert.Equal(t, 4.8, tr.RatingsAverage)

	tr.Name = "The Sea Explorer Deluxe"
	require.NoError(t, BeforeSave(context.Background(), nil, tr, false))
	assert.Equal(t, "the-sea-explorer", tr.Slug, "slug is fixed after creation")
}

func TestAfterSave_ReplacesGuides(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	tr := testutil.CreateTour(t, db, "The Forest Hiker", 397)
	guide := testutil.CreateUser(t, db, "guide@example.com", models.RoleGuide)
	lead := testutil.CreateUser(t, db, "lead@example.com", models.RoleLeadGuide)
	plain := testutil.CreateUser(t, db, "user@example.com", models.RoleUser)

	tr.GuideIDs = []uuid.UUID{guide.ID, lead.ID}
	require.NoError(t, AfterSave(ctx, db, tr, true))
	assert.Len(t, tr.Guides, 2)
	assert.Nil(t, tr.GuideIDs)

	var loaded models.Tour
	require.NoError(t, db.Preload("Guides").First(&loaded, "id = ?", tr.ID).Error)
	assert.Len(t, loaded.Guides, 2)

	tr.GuideIDs = []uuid.UUID{plain.ID}
	var appErr *httperr.AppError
	require.True(t, errors.As(AfterSave(ctx, db, tr, false), &appErr))
	assert.Equal(t, 400, appErr.StatusCode)

	tr.GuideIDs = []uuid.UUID{}
	require.NoError(t, AfterSave(ctx, db, tr, false))
	require.NoError(t, db.Preload("Guides").First(&loaded, "id = ?", tr.ID).Error)
	assert.Empty(t, loaded.Guides)
}
