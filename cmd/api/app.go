package main

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/tour-booking/internal/db"
	"github.com/BruksfildServices01/tour-booking/internal/email"
	"github.com/BruksfildServices01/tour-booking/internal/events"
	"github.com/BruksfildServices01/tour-booking/internal/logger"
	"github.com/BruksfildServices01/tour-booking/internal/ticket"
	"github.com/BruksfildServices01/tour-booking/internal/validators"
)

// app holds what every subcommand needs.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap(cfg *config.Config) (*app, error) {
	log := logger.New(cfg.Env, cfg.LogLevel)
	validators.UseJSONNames()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Error("database connection failed", zap.Error(err))
		_ = log.Sync()
		return nil, err
	}
	log.Info("database connected")

	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	if err := dbpkg.Close(a.db); err != nil {
		a.log.Warn("database close failed", zap.Error(err))
	}
	_ = a.log.Sync()
}

// confirmationMailer sends booking confirmations with the PDF ticket.
func (a *app) confirmationMailer() *email.Notifier {
	mailer := email.New(a.cfg.ResendAPIKey, a.cfg.EmailFrom, a.log)
	currency := a.cfg.PaymentCurrency

	return email.NewNotifier(mailer, func(ev events.BookingConfirmed) ([]byte, error) {
		return ticket.Render(ticket.Ticket{
			BookingID: ev.BookingID.String(),
			TourName:  ev.TourName,
			Customer:  ev.UserName,
			Email:     ev.UserEmail,
			Price:     ev.Price,
			Currency:  currency,
			Paid:      true,
			IssuedAt:  ev.CreatedAt,
		})
	})
}
