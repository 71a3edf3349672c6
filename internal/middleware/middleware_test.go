package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tour-booking/internal/httperr"
	"github.com/BruksfildServices01/tour-booking/internal/httpresp"
	"github.com/BruksfildServices01/tour-booking/internal/ratelimit"
)

type fakeLimiter struct {
	calls int
	limit int
	err   error
}

func (f *fakeLimiter) Allow(context.Context, string) (ratelimit.Result, error) {
	if f.err != nil {
		return ratelimit.Result{}, f.err
	}
	f.calls++
	return ratelimit.Result{
		Allowed:   f.calls <= f.limit,
		Limit:     f.limit,
		Remaining: max(f.limit-f.calls, 0),
		ResetIn:   time.Hour,
	}, nil
}

func engineWith(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(httperr.Middleware(zap.NewNop(), true))
	r.Use(mw...)
	r.GET("/api/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.POST("/api/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, body)
	})
	r.GET("/api/panic", func(*gin.Context) { panic("boom") })
	r.NoRoute(NotFound)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_Blocks(t *testing.T) {
	r := engineWith(RateLimit(&fakeLimiter{limit: 2}, zap.NewNop()))

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests from this IP, please try again in an hour!")
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_FailsOpen(t *testing.T) {
	r := engineWith(RateLimit(&fakeLimiter{err: errors.New("redis down")}, zap.NewNop()))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBodyLimit(t *testing.T) {
	r := engineWith(BodyLimit(DefaultBodyLimit))

	small := httptest.NewRequest(http.MethodPost, "/api/echo", strings.NewReader(`{"name":"x"}`))
	small.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusOK, serve(r, small).Code)

	big := httptest.NewRequest(http.MethodPost, "/api/echo",
		strings.NewReader(`{"name":"`+strings.Repeat("x", DefaultBodyLimit)+`"}`))
	big.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, big).Code)
}

func TestNotFound_CatchAll(t *testing.T) {
	r := engineWith()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Can't find /api/v1/nothing on this server!", body["message"])
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(httperr.Middleware(zap.NewNop(), true), Recovery(zap.NewNop()))
	r.GET("/api/panic", func(*gin.Context) { panic("boom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went very wrong!")
}

func TestRequestTimeAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestTime(), SecurityHeaders(true))
	r.GET("/api/t", func(c *gin.Context) {
		_, ok := c.Get(httpresp.RequestTimeKey)
		c.JSON(http.StatusOK, gin.H{"stamped": ok})
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/t", nil))
	assert.JSONEq(t, `{"stamped":true}`, w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestCORS_ReflectsOrigin(t *testing.T) {
	r := engineWith(CORS(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Origin", "https://natours.example.com")
	w := serve(r, req)
	assert.Equal(t, "https://natours.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestMetrics_CountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := engineWith(m.Handler())

	serve(r, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/ping", "200")))
}
