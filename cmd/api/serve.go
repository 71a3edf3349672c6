package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	"github.com/BruksfildServices01/tour-booking/internal/auth"
	"github.com/BruksfildServices01/tour-booking/internal/config"
	"github.com/BruksfildServices01/tour-booking/internal/email"
	"github.com/BruksfildServices01/tour-booking/internal/events"
	"github.com/BruksfildServices01/tour-booking/internal/payment"
	"github.com/BruksfildServices01/tour-booking/internal/ratelimit"
	"github.com/BruksfildServices01/tour-booking/internal/routes"
	"github.com/BruksfildServices01/tour-booking/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), config.Load())
		},
	}
}

func runServe(parent context.Context, cfg *config.Config) error {
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

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// ------------------------------
	// Optional infrastructure
	// ------------------------------
	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		client, err := ratelimit.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("rate limiting disabled", zap.Error(err))
		} else {
			defer client.Close()
			limiter = ratelimit.NewRedisLimiter(client, cfg.RateLimitMax, cfg.RateLimitWindow)
		}
	}

	var notifier events.Notifier = a.confirmationMailer()
	if cfg.AMQPUrl != "" {
		publisher := events.NewPublisher(cfg.AMQPUrl)
		defer publisher.Close()
		notifier = publisher
	}

	provider, err := payment.NewMercadoPago(cfg.PaymentAccessToken)
	if err != nil {
		return err
	}

	dispatcher := audit.NewDispatcher(audit.New(a.db), log)
	defer dispatcher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// ------------------------------
	// HTTP
	// ------------------------------
	r := gin.New()
	if err := routes.RegisterRoutes(r, routes.Deps{
		DB:       a.db,
		Config:   cfg,
		Log:      log,
		Tokens:   auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn),
		Hasher:   auth.NewPasswordHasher(cfg.BcryptCost),
		Mailer:   email.New(cfg.ResendAPIKey, cfg.EmailFrom, log),
		Storage:  storage.New(cfg),
		Payment:  provider,
		Notifier: notifier,
		Audit:    dispatcher,
		Limiter:  limiter,
		Registry: registry,
	}); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
