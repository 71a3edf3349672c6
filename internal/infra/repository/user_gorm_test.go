package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/user"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/testutil"
)

func TestUserRepository_DeactivatedUsersAreHidden(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserGormRepository(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "gone@example.com", models.RoleUser)

	rows, err := repo.Deactivate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	_, err = repo.FindActiveByID(ctx, u.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = repo.FindActiveByEmail(ctx, u.Email)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	rows, err = repo.Deactivate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestUserRepository_ResetTokenLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserGormRepository(db)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "reset@example.com", models.RoleUser)
	now := time.Now()

	domain.StartPasswordReset(u, "digest", now.Add(10*time.Minute))
	require.NoError(t, repo.SaveCredentials(ctx, u))

	found, err := repo.FindByResetToken(ctx, "digest", now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = repo.FindByResetToken(ctx, "digest", now.Add(11*time.Minute))
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	purged, err := repo.PurgeExpiredResetTokens(ctx, now.Add(11*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = repo.FindByResetToken(ctx, "digest", now)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserGormRepository(db)
	u := testutil.CreateUser(t, db, "me@example.com", models.RoleUser)

	updated, err := repo.UpdateProfile(context.Background(), u.ID, map[string]any{"name": "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, u.Email, updated.Email)
}
