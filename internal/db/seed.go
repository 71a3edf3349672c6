package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/tour-booking/internal/domain/review"
	"github.com/BruksfildServices01/tour-booking/internal/domain/tour"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/validators"
)

// Seed files read from the data directory. Missing files are skipped.
const (
	UsersFile   = "users.json"
	ToursFile   = "tours.json"
	ReviewsFile = "reviews.json"
)

type seedUser struct {
	models.User
	Password string `json:"password"`
}

type seedTour struct {
	models.Tour
	Guides []uuid.UUID `json:"guides"`
}

type seedReview struct {
	models.Review
	Tour *uuid.UUID `json:"tour"`
	User *uuid.UUID `json:"user"`
}

type SeedResult struct {
	Users   int
	Tours   int
	Reviews int
}

// Hasher hashes seeded plain-text passwords.
type Hasher interface {
	Hash(plain string) (string, error)
}

// Seed imports users, then tours, then reviews from dir in one transaction.
func Seed(ctx context.Context, db *gorm.DB, dir string, hasher Hasher) (SeedResult, error) {
	var res SeedResult

	var users []seedUser
	if err := readSeed(dir, UsersFile, &users); err != nil {
		return res, err
	}
	var tours []seedTour
	if err := readSeed(dir, ToursFile, &tours); err != nil {
		return res, err
	}
	var reviews []seedReview
	if err := readSeed(dir, ReviewsFile, &reviews); err != nil {
		return res, err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range users {
			u := &users[i].User
			if u.ID == uuid.Nil {
				u.ID = uuid.New()
			}
			if u.Role == "" {
				u.Role = models.RoleUser
			}
			if u.Photo == "" {
				u.Photo = models.DefaultPhoto
			}
			u.Email = validators.NormalizeEmail(u.Email)
			u.Active = true

			hash, err := hasher.Hash(users[i].Password)
			if err != nil {
				return err
			}
			u.PasswordHash = hash

			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}

		for i := range tours {
			t := &tours[i].Tour
			if t.RatingsAverage == 0 {
				t.RatingsAverage = tour.DefaultRating
			}
			if t.ID == uuid.Nil {
				t.ID = uuid.New()
			}
			t.GuideIDs = tours[i].Guides
			t.Guides, t.Reviews = nil, nil

			if err := tour.BeforeSave(ctx, tx, t, true); err != nil {
				return err
			}
			if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
				return fmt.Errorf("seed tour %s: %w", t.Name, err)
			}
			if t.GuideIDs != nil {
				if err := tour.AfterSave(ctx, tx, t, true); err != nil {
					return fmt.Errorf("seed tour %s: %w", t.Name, err)
				}
			}
		}

		for i := range reviews {
			r := &reviews[i].Review
			if ref := reviews[i].Tour; ref != nil {
				r.TourID = *ref
			}
			if ref := reviews[i].User; ref != nil {
				r.UserID = *ref
			}
			if r.ID == uuid.Nil {
				r.ID = uuid.New()
			}
			r.Tour, r.User = nil, nil

			if err := review.BeforeSave(ctx, tx, r, true); err != nil {
				return err
			}
			if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
				return fmt.Errorf("seed review %s: %w", r.ID, err)
			}
			if err := review.AfterSave(ctx, tx, r, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	res.Users, res.Tours, res.Reviews = len(users), len(tours), len(reviews)
	return res, nil
}

// Purge deletes every seeded collection along with bookings.
func Purge(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM tour_guides").Error; err != nil {
			return err
		}
		for _, model := range []any{&models.Booking{}, &models.Review{}, &models.Tour{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func readSeed(dir, name string, dst any) error {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
