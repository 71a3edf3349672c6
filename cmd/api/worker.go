package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/tour-booking/internal/config"
	"github.com/BruksfildServices01/tour-booking/internal/events"
	infraRepo "github.com/BruksfildServices01/tour-booking/internal/infra/repository"
)

const purgeSchedule = "@hourly"

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume booking events and run scheduled cleanup",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorker(cmd.Context(), config.Load())
		},
	}
}

func runWorker(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(cfg)
	if err != nil {
		return err
	}
	defer a.close()
	log := a.log

	users := infraRepo.NewUserGormRepository(a.db)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(purgeSchedule, func() {
		n, err := users.PurgeExpiredResetTokens(ctx, time.Now())
		if err != nil {
			log.Error("reset token purge failed", zap.Error(err))
			return
		}
		log.Info("expired reset tokens purged", zap.Int64("users", n))
	}); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()
		<-scheduler.Stop().Done()
		return nil
	})

	if cfg.AMQPUrl != "" {
		mailer := a.confirmationMailer()
		consumer := events.NewConsumer(cfg.AMQPUrl, mailer.BookingConfirmed, log)
		g.Go(func() error {
			log.Info("consuming booking events", zap.String("queue", events.BookingConfirmedQueue))
			if err := consumer.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	} else {
		log.Warn("AMQP_URL not set, booking events are not consumed")
	}

	if err := g.Wait(); err != nil {
		log.Error("worker stopped", zap.Error(err))
		return err
	}
	log.Info("worker stopped")
	return nil
}
