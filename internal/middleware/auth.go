package middleware

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/auth"
	"github.com/BruksfildServices01/tour-booking/internal/domain/user"
	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

const (
	ContextUser = "user"
	// ContextSession holds the verified token claims.
	ContextSession = "session"
)

var (
	errNotLoggedIn     = httperr.Unauthorized("You are not logged in! Please log in to get access.")
	errUserGone        = httperr.Unauthorized("The user belonging to this token does no longer exist.")
	errPasswordChanged = httperr.Unauthorized("User recently changed password! Please log in again.")
	errForbidden       = httperr.Forbidden("You do not have permission to perform this action")
)

type UserFinder interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Guard authenticates requests from the session token.
type Guard struct {
	tokens *auth.TokenService
	users  UserFinder
}

func NewGuard(tokens *auth.TokenService, users UserFinder) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// TokenFromRequest prefers the Authorization header over the cookie.
func TokenFromRequest(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if cookie, err := c.Cookie(auth.CookieName); err == nil {
		return cookie
	}
	return ""
}

func (g *Guard) authenticate(c *gin.Context) (*models.User, *auth.Session, error) {
	raw := TokenFromRequest(c)
	if raw == "" {
		return nil, nil, errNotLoggedIn
	}

	session, err := g.tokens.Verify(raw)
	if err != nil {
		return nil, nil, err
	}

	u, err := g.users.FindActiveByID(c.Request.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errUserGone
		}
		return nil, nil, err
	}

	if user.ChangedPasswordAfter(u, session.IssuedAt) {
		return nil, nil, errPasswordChanged
	}
	return u, session, nil
}

// Protect rejects requests without a valid session.
func (g *Guard) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, session, err := g.authenticate(c)
		if err != nil {
			httperr.Abort(c, err)
			return
		}
		c.Set(ContextUser, u)
		c.Set(ContextSession, session)
		c.Next()
	}
}

// IsLoggedIn loads the user when a valid session exists and never fails.
func (g *Guard) IsLoggedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, session, err := g.authenticate(c); err == nil {
			c.Set(ContextUser, u)
			c.Set(ContextSession, session)
		}
		c.Next()
	}
}

// Authorize reports whether u holds one of roles.
func Authorize(u *models.User, roles ...string) error {
	if u == nil {
		return errNotLoggedIn
	}
	if !slices.Contains(roles, u.Role) {
		return errForbidden
	}
	return nil
}

// RestrictTo must run after Protect.
func RestrictTo(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := Authorize(CurrentUser(c), roles...); err != nil {
			httperr.Abort(c, err)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
