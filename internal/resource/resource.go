// Package resource exposes any model as a REST collection.
//
// Entity-specific behaviour (password hashing, slugs, rating aggregates) is
// not hidden in store callbacks: each collection declares explicit hooks
// that the handlers run around the store calls.
package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/query"
	"github.com/BruksfildServices01/tour-booking/internal/validators"
)

// Hooks run inside the write transaction.
type Hooks[T any] struct {
	BeforeSave  func(ctx context.Context, tx *gorm.DB, item *T, isNew bool) error
	AfterSave   func(ctx context.Context, tx *gorm.DB, item *T, isNew bool) error
	AfterDelete func(ctx context.Context, tx *gorm.DB, item *T) error
}

// Nested restricts a collection to the parent named in the route,
// e.g. /tours/:tourId/reviews.
type Nested struct {
	Param  string
	Column string
}

type Config[T any] struct {
	Name   string
	Schema *query.Schema

	// Scope is the visibility applied to every read. WriteScope limits the
	// rows update and delete can reach; nil reaches every row.
	Scope      func(tx *gorm.DB) *gorm.DB
	WriteScope func(tx *gorm.DB) *gorm.DB
	// Preload lists relations loaded by GetOne; ListPreload by every read.
	Preload     []string
	ListPreload []string

	Nested *Nested

	// New returns a value carrying defaults; request bodies are bound onto it.
	New func() *T
	// FromRequest copies request-derived values (route params, the session
	// user) onto the item after the body is bound. stored is nil on create
	// and a copy of the row as loaded on update.
	FromRequest func(c *gin.Context, item, stored *T) error
	// Authorize runs on update and delete against the stored row.
	Authorize func(c *gin.Context, stored *T) error

	Hooks Hooks[T]

	// SoftDelete replaces the row deletion; it reports affected rows.
	SoftDelete func(tx *gorm.DB, id uuid.UUID) (int64, error)
}

type entity[T any] interface {
	*T
	models.Entity
}

type Resource[T any, P entity[T]] struct {
	db  *gorm.DB
	cfg Config[T]
}

func New[T any, P entity[T]](db *gorm.DB, cfg Config[T]) *Resource[T, P] {
	if cfg.New == nil {
		cfg.New = func() *T { return new(T) }
	}
	if cfg.Schema == nil {
		cfg.Schema = query.MustSchema(new(T))
	}
	return &Resource[T, P]{db: db, cfg: cfg}
}

// base is a fresh read query with the collection's fixed scopes applied.
func (r *Resource[T, P]) base(c *gin.Context) (*gorm.DB, error) {
	return r.scoped(c, r.cfg.Scope)
}

// writeBase is the query update and delete load their row through.
func (r *Resource[T, P]) writeBase(c *gin.Context) (*gorm.DB, error) {
	return r.scoped(c, r.cfg.WriteScope)
}

func (r *Resource[T, P]) scoped(c *gin.Context, scope func(*gorm.DB) *gorm.DB) (*gorm.DB, error) {
	tx := r.db.WithContext(c.Request.Context()).Model(new(T))
	if scope != nil {
		tx = tx.Scopes(scope)
	}
	if n := r.cfg.Nested; n != nil {
		if raw := c.Param(n.Param); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return nil, httperr.InvalidID(raw, err)
			}
			tx = tx.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: n.Column}, Value: id})
		}
	}
	return tx, nil
}

func preload(tx *gorm.DB, relations []string) *gorm.DB {
	for _, rel := range relations {
		tx = tx.Preload(rel)
	}
	return tx
}

func (r *Resource[T, P]) notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.Wrap(404, fmt.Sprintf("No %s found with that ID", r.cfg.Name), err)
	}
	return err
}

// ParseID reads the :id route parameter.
func ParseID(c *gin.Context, param string) (uuid.UUID, error) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, httperr.InvalidID(raw, err)
	}
	return id, nil
}

// Find loads one visible item with the GetOne relations.
func (r *Resource[T, P]) Find(c *gin.Context, id uuid.UUID) (*T, error) {
	tx, err := r.base(c)
	if err != nil {
		return nil, err
	}
	item := new(T)
	tx = preload(preload(tx, r.cfg.ListPreload), r.cfg.Preload)
	if err := tx.First(item, clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Value: id}).Error; err != nil {
		return nil, r.notFound(err)
	}
	return item, nil
}

// Lookup loads one item for a write, ignoring read visibility, and runs
// Authorize against it.
func (r *Resource[T, P]) Lookup(c *gin.Context, id uuid.UUID) (*T, error) {
	tx, err := r.writeBase(c)
	if err != nil {
		return nil, err
	}
	item := new(T)
	if err := tx.First(item, clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Value: id}).Error; err != nil {
		return nil, r.notFound(err)
	}
	if f := r.cfg.Authorize; f != nil {
		if err := f(c, item); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// save validates and writes item, running the hooks in one transaction.
func (r *Resource[T, P]) save(ctx context.Context, item *T, isNew bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if h := r.cfg.Hooks.BeforeSave; h != nil {
			if err := h(ctx, tx, item, isNew); err != nil {
				return err
			}
		}

		if err := validators.Struct(ctx, item); err != nil {
			return err
		}

		write := tx.Omit(clause.Associations)
		var err error
		if isNew {
			err = write.Create(item).Error
		} else {
			err = write.Save(item).Error
		}
		if err != nil {
			return err
		}

		if h := r.cfg.Hooks.AfterSave; h != nil {
			return h(ctx, tx, item, isNew)
		}
		return nil
	})
}
