package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	"github.com/BruksfildServices01/tour-booking/internal/auth"
	"github.com/BruksfildServices01/tour-booking/internal/config"
	"github.com/BruksfildServices01/tour-booking/internal/domain/user"
	"github.com/BruksfildServices01/tour-booking/internal/dto"
	"github.com/BruksfildServices01/tour-booking/internal/email"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/validators"
)

type AuthHandler struct {
	users  user.Repository
	tokens *auth.TokenService
	hasher *auth.PasswordHasher
	mailer email.Mailer
	audit  *audit.Dispatcher
	config *config.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthHandler(
	users user.Repository,
	tokens *auth.TokenService,
	hasher *auth.PasswordHasher,
	mailer email.Mailer,
	audit *audit.Dispatcher,
	cfg *config.Config,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		mailer: mailer,
		audit:  audit,
		config: cfg,
		log:    log,
		now:    time.Now,
	}
}

// --------- Requests ---------

type SignupRequest struct {
	Name            string `json:"name" binding:"required,max=100"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	// CurrentPassword is accepted as an alias of passwordCurrent.
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

// --------- Handlers ---------

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	emailAddr := validators.NormalizeEmail(req.Email)
	if h.config.CheckEmailDomain && !validators.IsEmailDomainValid(emailAddr) {
		_ = c.Error(httperr.BadRequest("The email domain does not seem to be valid."))
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	u := &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        emailAddr,
		Photo:        models.DefaultPhoto,
		Role:         models.RoleUser,
		PasswordHash: hash,
		Active:       true,
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		_ = c.Error(err)
		return
	}

	if msg, err := email.Welcome(u.Email, u.Name, baseURL(c)+"/me"); err == nil {
		if err := h.mailer.Send(c.Request.Context(), msg); err != nil {
			h.log.Warn("welcome email failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		}
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(u.ID),
		Action:   audit.ActionSignup,
		Entity:   "user",
		EntityID: audit.Ptr(u.ID),
	})

	h.sendToken(c, http.StatusCreated, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	if req.Email == "" || req.Password == "" {
		_ = c.Error(httperr.BadRequest("Please provide email and password!"))
		return
	}

	u, err := h.users.FindActiveByEmail(c.Request.Context(), validators.NormalizeEmail(req.Email))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		_ = c.Error(err)
		return
	}
	var ok bool
	if u != nil {
		ok = h.hasher.Compare(u.PasswordHash, req.Password)
	} else {
		ok = h.hasher.CompareMissing(req.Password)
	}
	if !ok {
		_ = c.Error(httperr.Unauthorized("Incorrect email or password"))
		return
	}

	h.sendToken(c, http.StatusOK, u)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	auth.ClearTokenCookie(c, h.config.IsProduction())
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	ctx := c.Request.Context()

	u, err := h.users.FindActiveByEmail(ctx, validators.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = httperr.NotFound("There is no user with that email address.")
		}
		_ = c.Error(err)
		return
	}

	raw, hashed, err := auth.NewResetToken()
	if err != nil {
		_ = c.Error(err)
		return
	}
	user.StartPasswordReset(u, hashed, h.now().Add(auth.ResetTokenTTL))
	if err := h.users.SaveCredentials(ctx, u); err != nil {
		_ = c.Error(err)
		return
	}

	resetURL := baseURL(c) + "/api/v1/users/resetPassword/" + raw
	msg, err := email.PasswordReset(u.Email, u.Name, resetURL)
	if err == nil {
		err = h.mailer.Send(ctx, msg)
	}
	if err != nil {
		user.ClearPasswordReset(u)
		if serr := h.users.SaveCredentials(ctx, u); serr != nil {
			h.log.Error("clearing reset token failed", zap.Error(serr))
		}
		_ = c.Error(httperr.Wrap(http.StatusInternalServerError,
			"There was an error sending the email. Try again later!", err))
		return
	}

	httpresp.Message(c, "Token sent to email!")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	ctx := c.Request.Context()
	now := h.now()

	u, err := h.users.FindByResetToken(ctx, auth.HashResetSecret(c.Param("token")), now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = httperr.BadRequest("Token is invalid or has expired")
		}
		_ = c.Error(err)
		return
	}

	if err := h.changePassword(c, u, req.Password, now); err != nil {
		_ = c.Error(err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(u.ID),
		Action:   audit.ActionPasswordReset,
		Entity:   "user",
		EntityID: audit.Ptr(u.ID),
	})

	h.sendToken(c, http.StatusOK, u)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	u, err := currentUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	current := req.PasswordCurrent
	if current == "" {
		current = req.CurrentPassword
	}
	if !h.hasher.Compare(u.PasswordHash, current) {
		_ = c.Error(httperr.Unauthorized("Your current password is wrong."))
		return
	}

	if err := h.changePassword(c, u, req.Password, h.now()); err != nil {
		_ = c.Error(err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(u.ID),
		Action:   audit.ActionPasswordChanged,
		Entity:   "user",
		EntityID: audit.Ptr(u.ID),
	})

	h.sendToken(c, http.StatusOK, u)
}

func (h *AuthHandler) changePassword(c *gin.Context, u *models.User, plain string, now time.Time) error {
	hash, err := h.hasher.Hash(plain)
	if err != nil {
		return err
	}
	user.SetPassword(u, hash, now)
	return h.users.SaveCredentials(c.Request.Context(), u)
}

func (h *AuthHandler) sendToken(c *gin.Context, status int, u *models.User) {
	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	auth.SetTokenCookie(c, token, h.config.CookieMaxAge(), h.config.IsProduction())
	httpresp.Token(c, status, token, dto.NewUserDTO(u))
}
