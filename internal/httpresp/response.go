package httpresp

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestTimeKey holds the time the request entered the router.
const RequestTimeKey = "requestTime"

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": data})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// List writes a collection with its size and the request time.
func List(c *gin.Context, docs any, count int) {
	requestedAt := time.Now()
	if v, ok := c.Get(RequestTimeKey); ok {
		if t, ok := v.(time.Time); ok {
			requestedAt = t
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"requestedAt": requestedAt.UTC().Format(time.RFC3339),
		"result":      count,
		"data":        gin.H{"docs": docs},
	})
}

// Token answers an authentication flow with the issued session token.
func Token(c *gin.Context, status int, token string, user any) {
	c.JSON(status, gin.H{
		"status": "success",
		"token":  token,
		"data":   gin.H{"user": user},
	})
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": message})
}
