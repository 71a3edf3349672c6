package models

import "github.com/google/uuid"

// Entity is implemented by every row exposed through the generic handlers.
type Entity interface {
	PrimaryKey() uuid.UUID
	SetPrimaryKey(uuid.UUID)
}

func (u *User) PrimaryKey() uuid.UUID { return u.ID }
func (u *User) SetPrimaryKey(id uuid.UUID) { u.ID = id }
func (t *Tour) PrimaryKey() uuid.UUID { return t.ID }
func (t *Tour) SetPrimaryKey(id uuid.UUID) { t.ID = id }
func (r *Review) PrimaryKey() uuid.UUID { return r.ID }
func (r *Review) SetPrimaryKey(id uuid.UUID) { r.ID = id }
func (b *Booking) PrimaryKey() uuid.UUID { return b.ID }
func (b *Booking) SetPrimaryKey(id uuid.UUID) { b.ID = id }
func (a *AuditLog) PrimaryKey() uuid.UUID { return a.ID }
func (a *AuditLog) SetPrimaryKey(id uuid.UUID) { a.ID = id }
