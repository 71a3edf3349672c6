package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/middleware"
	"github.com/BruksfildServices01/tour-booking/internal/models"
)

// baseURL is the scheme and host the client used to reach us.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

// currentUser returns the session user; the route must be protected.
func currentUser(c *gin.Context) (*models.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, httperr.Unauthorized("You are not logged in! Please log in to get access.")
	}
	return u, nil
}
