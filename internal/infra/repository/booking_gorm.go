package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/tour-booking/internal/domain/booking"
	"github.com/BruksfildServices01/tour-booking/internal/domain/tour"
	"github.com/BruksfildServices01/tour-booking/internal/domain/user"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

var _ domain.Repository = (*BookingGormRepository)(nil)

// FindTour only returns tours that are publicly visible.
func (r *BookingGormRepository) FindTour(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	var t models.Tour
	if err := r.db.WithContext(ctx).
		Scopes(tour.Visible).
		Where("id = ?", id).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *BookingGormRepository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Scopes(user.Active).
		Where("id = ?", id).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *BookingGormRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Tour").
		Preload("User").
		Where("id = ?", id).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) FindByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) Create(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Omit("Tour", "User").Create(b).Error
}

// ToursBookedBy lists the distinct tours a user holds bookings for.
func (r *BookingGormRepository) ToursBookedBy(ctx context.Context, userID uuid.UUID) ([]models.Tour, error) {
	var tours []models.Tour
	sub := r.db.Model(&models.Booking{}).Select("tour_id").Where("user_id = ?", userID)
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", sub).
		Order("name").
		Find(&tours).Error; err != nil {
		return nil, err
	}
	return tours, nil
}
