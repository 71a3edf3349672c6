package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/BruksfildServices01/tour-booking/internal/db"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/testutil"
)

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

const seedUsers = `[
  {"id": "11111111-1111-4111-8111-111111111111", "name": "Lead", "email": "LEAD@example.com", "role": "lead-guide", "password": "test1234"},
  {"id": "22222222-2222-4222-8222-222222222222", "name": "Reader", "email": "reader@example.com", "password": "test1234"}
]`

const seedTours = `[
  {"id": "33333333-3333-4333-8333-333333333333", "name": "The Forest Hiker", "duration": 5, "maxGroupSize": 25,
   "difficulty": "easy", "price": 397, "summary": "Hike", "imageCover": "c.jpg",
   "guides": ["11111111-1111-4111-8111-111111111111"]}
]`

const seedReviews = `[
  {"review": "Lovely", "rating": 4, "tour": "33333333-3333-4333-8333-333333333333", "user": "22222222-2222-4222-8222-222222222222"}
]`

func writeSeed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{
		dbpkg.UsersFile:   seedUsers,
		dbpkg.ToursFile:   seedTours,
		dbpkg.ReviewsFile: seedReviews,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestSeed_ImportsAndLinks(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	res, err := dbpkg.Seed(ctx, db, writeSeed(t), plainHasher{})
	require.NoError(t, err)
	assert.Equal(t, dbpkg.SeedResult{Users: 2, Tours: 1, Reviews: 1}, res)

	var reader models.User
	require.NoError(t, db.First(&reader, "email = ?", "reader@example.com").Error)
	assert.Equal(t, models.RoleUser, reader.Role)
	assert.Equal(t, "hashed:test1234", reader.PasswordHash)

	var lead models.User
	require.NoError(t, db.First(&lead, "email = ?", "lead@example.com").Error)

	var tour models.Tour
	require.NoError(t, db.Preload("Guides").First(&tour).Error)
	assert.Equal(t, "the-forest-hiker", tour.Slug)
	assert.Equal(t, 1, tour.RatingsQuantity)
	assert.Equal(t, 4.0, tour.RatingsAverage)
	require.Len(t, tour.Guides, 1)
	assert.Equal(t, lead.ID, tour.Guides[0].ID)
}

func TestSeed_MissingFilesAreSkipped(t *testing.T) {
	db := testutil.NewDB(t)

	res, err := dbpkg.Seed(context.Background(), db, t.TempDir(), plainHasher{})
	require.NoError(t, err)
	assert.Zero(t, res)
}

func TestPurge(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	_, err := dbpkg.Seed(ctx, db, writeSeed(t), plainHasher{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Purge(ctx, db))

	for _, model := range []any{&models.User{}, &models.Tour{}, &models.Review{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n)
	}
}
