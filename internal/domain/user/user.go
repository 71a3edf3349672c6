package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/models"
)

// Active hides deactivated accounts from reads.
func Active(tx *gorm.DB) *gorm.DB {
	return tx.Where("active = ?", true)
}

// ChangedPasswordAfter reports whether the password changed after a token
// issued at issuedAt, at one second resolution.
func ChangedPasswordAfter(u *models.User, issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// SetPassword stores a new hash and stamps the change one second in the
// past, so a token issued right after still verifies.
func SetPassword(u *models.User, hash string, now time.Time) {
	changed := now.Add(-time.Second)
	u.PasswordHash = hash
	u.PasswordChangedAt = &changed
	ClearPasswordReset(u)
}

func StartPasswordReset(u *models.User, hashedToken string, expires time.Time) {
	u.PasswordResetToken = &hashedToken
	u.PasswordResetExpires = &expires
}

func ClearPasswordReset(u *models.User) {
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
}

// Repository is the credential store.
type Repository interface {
	Create(ctx context.Context, u *models.User) error
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	FindByResetToken(ctx context.Context, hashedToken string, now time.Time) (*models.User, error)
	SaveCredentials(ctx context.Context, u *models.User) error
	UpdateProfile(ctx context.Context, id uuid.UUID, changes map[string]any) (*models.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) (int64, error)
	PurgeExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}
