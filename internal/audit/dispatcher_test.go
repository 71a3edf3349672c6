package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/testutil"
)

func TestDispatcher_WritesEventsBeforeClose(t *testing.T) {
	db := testutil.NewDB(t)
	d := NewDispatcher(New(db), zap.NewNop())

	userID := uuid.New()
	d.Dispatch(Event{
		UserID:   Ptr(userID),
		Action:   ActionSignup,
		Entity:   "user",
		EntityID: Ptr(userID),
		Metadata: map[string]string{"email": "a@b.io"},
	})
	d.Dispatch(Event{Action: ActionBookingCreated, Entity: "booking"})
	d.Close()

	var rows []models.AuditLog
	require.NoError(t, db.Order("action").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, ActionBookingCreated, rows[0].Action)
	assert.Nil(t, rows[0].UserID)
	assert.Equal(t, ActionSignup, rows[1].Action)
	assert.Equal(t, userID, *rows[1].UserID)
	assert.JSONEq(t, `{"email":"a@b.io"}`, rows[1].Metadata)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Dispatch(Event{Action: "x"}) })
}
