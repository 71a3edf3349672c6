package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/models"
)

const Password = "pass1234"

func CreateUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		ID:           uuid.New(),
		Name:         "User " + email,
		Email:        email,
		Photo:        "default.jpg",
		Role:         role,
		PasswordHash: string(hash),
		Active:       true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateTour(t *testing.T, db *gorm.DB, name string, price float64) *models.Tour {
	t.Helper()

	tour := &models.Tour{
		ID:             uuid.New(),
		Name:           name,
		Slug:           fmt.Sprintf("tour-%.0f", price),
		Duration:       5,
		MaxGroupSize:   10,
		Difficulty:     "easy",
		Price:          price,
		RatingsAverage: 4.5,
		Summary:        "A tour used in tests",
		ImageCover:     "cover.jpg",
	}
	require.NoError(t, db.Create(tour).Error)
	return tour
}
