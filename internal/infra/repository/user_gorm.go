package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/user"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

var _ domain.Repository = (*UserGormRepository)(nil)

func (r *UserGormRepository) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserGormRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Scopes(domain.Active).
		Where("id = ?", id).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserGormRepository) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Scopes(domain.Active).
		Where("email = ?", email).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserGormRepository) FindByResetToken(
	ctx context.Context,
	hashedToken string,
	now time.Time,
) (*models.User, error) {

	var u models.User
	if err := r.db.WithContext(ctx).
		Scopes(domain.Active).
		Where("password_reset_token = ? AND password_reset_expires > ?", hashedToken, now).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// SaveCredentials writes only the password and reset columns.
func (r *UserGormRepository) SaveCredentials(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).
		Model(u).
		Select("password_hash", "password_changed_at", "password_reset_token", "password_reset_expires").
		Updates(u).Error
}

func (r *UserGormRepository) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	changes map[string]any,
) (*models.User, error) {

	if len(changes) > 0 {
		res := r.db.WithContext(ctx).
			Model(&models.User{}).
			Scopes(domain.Active).
			Where("id = ?", id).
			Updates(changes)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindActiveByID(ctx, id)
}

func (r *UserGormRepository) Deactivate(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return res.RowsAffected, res.Error
}

func (r *UserGormRepository) PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("password_reset_expires IS NOT NULL AND password_reset_expires <= ?", now).
		Updates(map[string]any{"password_reset_token": nil, "password_reset_expires": nil})
	return res.RowsAffected, res.Error
}
