package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/tour-booking/internal/models"
)

func TestChangedPasswordAfter(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := &models.User{}

	assert.False(t, ChangedPasswordAfter(u, issued), "never changed")

	SetPassword(u, "hash", issued.Add(10*time.Second))
	assert.True(t, ChangedPasswordAfter(u, issued))
	assert.False(t, ChangedPasswordAfter(u, issued.Add(20*time.Second)))
}

func TestSetPassword_TokenIssuedImmediatelyAfterStaysValid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u := &models.User{}

	SetPassword(u, "hash", now)

	assert.False(t, ChangedPasswordAfter(u, now))
}

func TestSetPassword_ClearsReset(t *testing.T) {
	u := &models.User{}
	StartPasswordReset(u, "digest", time.Now().Add(10*time.Minute))
	assert.NotNil(t, u.PasswordResetToken)

	SetPassword(u, "hash", time.Now())

	assert.Equal(t, "hash", u.PasswordHash)
	assert.Nil(t, u.PasswordResetToken)
	assert.Nil(t, u.PasswordResetExpires)
}
