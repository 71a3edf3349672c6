package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	"github.com/BruksfildServices01/tour-booking/internal/auth"
	"github.com/BruksfildServices01/tour-booking/internal/config"
	"github.com/BruksfildServices01/tour-booking/internal/email"
	"github.com/BruksfildServices01/tour-booking/internal/events"
	"github.com/BruksfildServices01/tour-booking/internal/handlers"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	infraRepo "github.com/BruksfildServices01/tour-booking/internal/infra/repository"
	"github.com/BruksfildServices01/tour-booking/internal/middleware"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/payment"
	"github.com/BruksfildServices01/tour-booking/internal/ratelimit"
	"github.com/BruksfildServices01/tour-booking/internal/storage"
	ucBooking "github.com/BruksfildServices01/tour-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/tour-booking/internal/web"
)

// Deps are the process-wide services the routes are built from.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Log     *zap.Logger
	Tokens  *auth.TokenService
	Hasher  *auth.PasswordHasher
	Mailer  email.Mailer
	Storage storage.Storage
	Payment payment.Provider
	// Notifier receives confirmed bookings: the broker publisher, or the
	// mail notifier when no broker is configured.
	Notifier events.Notifier
	Audit    *audit.Dispatcher
	// Limiter may be nil; requests are then not limited.
	Limiter  ratelimit.Limiter
	Registry *prometheus.Registry
}

func RegisterRoutes(r *gin.Engine, d Deps) error {
	cfg := d.Config
	production := cfg.IsProduction()

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	metrics := middleware.NewMetrics(d.Registry)

	r.Use(
		middleware.RequestLogger(d.Log),
		metrics.Handler(),
		httperr.Middleware(d.Log, production),
		middleware.Recovery(d.Log),
		middleware.RequestTime(),
		middleware.SecurityHeaders(production),
		middleware.CORS(cfg.CORSOrigins),
	)

	tmpl, err := web.Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", web.Static())
	r.Static("/img", cfg.UploadDir)
	r.Static("/uploads", cfg.UploadDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	// ======================================================
	// INFRA
	// ======================================================
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)

	guard := middleware.NewGuard(d.Tokens, userRepo)

	// ======================================================
	// USE CASES
	// ======================================================
	checkoutUC := ucBooking.NewCreateCheckoutSession(bookingRepo, d.Payment, cfg.PaymentCurrency)
	finalizeUC := ucBooking.NewFinalizeBooking(bookingRepo, d.Payment, d.Audit, d.Notifier, d.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(userRepo, d.Tokens, d.Hasher, d.Mailer, d.Audit, cfg, d.Log)
	usersHandler := handlers.NewUsersHandler(d.DB, userRepo, d.Storage, d.Audit)
	toursHandler := handlers.NewToursHandler(d.DB, d.Storage)
	reviewsHandler := handlers.NewReviewsHandler(d.DB)
	bookingsHandler := handlers.NewBookingsHandler(
		d.DB,
		bookingRepo,
		checkoutUC,
		finalizeUC,
		cfg.PaymentWebhookSecret,
		cfg.PaymentCurrency,
		d.Log,
	)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
	viewsHandler := handlers.NewViewsHandler(d.DB, bookingRepo)

	// ======================================================
	// PAGES (HTML)
	// ======================================================
	r.GET("/", guard.IsLoggedIn(), viewsHandler.Overview)
	r.GET("/tour/:slug", guard.IsLoggedIn(), viewsHandler.Tour)
	r.GET("/login", guard.IsLoggedIn(), viewsHandler.Login)
	r.GET("/me", guard.Protect(), viewsHandler.Account)
	r.GET("/my-tours", guard.Protect(), viewsHandler.MyTours)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(
		middleware.RateLimit(d.Limiter, d.Log),
		middleware.BodyLimit(middleware.DefaultBodyLimit),
	)
	v1 := api.Group("/v1")

	// ------------------------------
	// TOURS
	// ------------------------------
	tours := v1.Group("/tours")
	{
		tours.GET("/top-5-cheap", handlers.AliasTopTours, toursHandler.GetAll)
		tours.GET("/tour-stats", toursHandler.Stats)
		tours.GET("/monthly-plan/:year",
			guard.Protect(),
			middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide),
			toursHandler.MonthlyPlan,
		)

		tours.GET("", toursHandler.GetAll)
		tours.GET("/:id", toursHandler.GetOne)

		staff := tours.Group("", guard.Protect(), middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide))
		staff.POST("", toursHandler.CreateOne)
		staff.PATCH("/:id", toursHandler.UpdateOne)
		staff.PATCH("/:id/images", toursHandler.UploadImages)
		staff.DELETE("/:id", toursHandler.DeleteOne)

		nested := tours.Group("/:id/reviews", tourParam, guard.Protect())
		nested.GET("", reviewsHandler.GetAll)
		nested.POST("", middleware.RestrictTo(models.RoleUser), reviewsHandler.CreateOne)
	}

	// ------------------------------
	// USERS
	// ------------------------------
	users := v1.Group("/users")
	{
		users.POST("/signup", authHandler.Signup)
		users.POST("/login", authHandler.Login)
		users.GET("/logout", authHandler.Logout)
		users.POST("/forgotPassword", authHandler.ForgotPassword)
		users.PATCH("/resetPassword/:token", authHandler.ResetPassword)

		me := users.Group("", guard.Protect())
		me.PATCH("/updateMyPassword", authHandler.UpdatePassword)
		me.PATCH("/updatePassword", authHandler.UpdatePassword)
		me.GET("/me", usersHandler.GetMe)
		me.PATCH("/updateMe", usersHandler.UpdateMe)
		me.DELETE("/deleteMe", usersHandler.DeleteMe)

		admin := me.Group("", middleware.RestrictTo(models.RoleAdmin))
		admin.GET("", usersHandler.GetAll)
		admin.POST("", usersHandler.CreateUser)
		admin.GET("/:id", usersHandler.GetOne)
		admin.PATCH("/:id", usersHandler.UpdateOne)
		admin.DELETE("/:id", usersHandler.DeleteOne)
	}

	// ------------------------------
	// REVIEWS
	// ------------------------------
	reviews := v1.Group("/reviews", guard.Protect())
	{
		reviews.GET("", reviewsHandler.GetAll)
		reviews.POST("", middleware.RestrictTo(models.RoleUser), reviewsHandler.CreateOne)
		reviews.GET("/:id", reviewsHandler.GetOne)
		reviews.PATCH("/:id", middleware.RestrictTo(models.RoleUser, models.RoleAdmin), reviewsHandler.UpdateOne)
		reviews.DELETE("/:id", middleware.RestrictTo(models.RoleUser, models.RoleAdmin), reviewsHandler.DeleteOne)
	}

	// ------------------------------
	// BOOKINGS
	// ------------------------------
	bookings := v1.Group("/bookings")
	{
		bookings.POST("/webhook", bookingsHandler.Webhook)

		session := bookings.Group("", guard.Protect())
		session.GET("/checkout-session/:tourId", bookingsHandler.GetCheckoutSession)
		session.GET("/:id/ticket", bookingsHandler.Ticket)

		staff := session.Group("", middleware.RestrictTo(models.RoleAdmin, models.RoleLeadGuide))
		staff.GET("", bookingsHandler.GetAll)
		staff.POST("", bookingsHandler.CreateOne)
		staff.GET("/:id", bookingsHandler.GetOne)
		staff.PATCH("/:id", bookingsHandler.UpdateOne)
		staff.DELETE("/:id", bookingsHandler.DeleteOne)
	}

	// ------------------------------
	// AUDIT LOGS
	// ------------------------------
	auditLogs := v1.Group("/audit-logs", guard.Protect(), middleware.RestrictTo(models.RoleAdmin))
	{
		auditLogs.GET("", auditLogsHandler.GetAll)
		auditLogs.GET("/:id", auditLogsHandler.GetOne)
	}

	r.NoRoute(middleware.NotFound)
	return nil
}

// tourParam exposes the parent tour of a nested route as :tourId. Routes
// under /tours share the :id wildcard, so nested handlers cannot name it
// differently in the pattern.
func tourParam(c *gin.Context) {
	c.Params = append(c.Params, gin.Param{Key: "tourId", Value: c.Param("id")})
	c.Next()
}
