package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tour-booking/internal/validators"
)

func TestClassify(t *testing.T) {
	type tour struct {
		Name string `json:"name" validate:"required,min=10"`
	}
	verr := validators.Struct(t.Context(), tour{Name: "short"})
	require.Error(t, verr)

	tests := []struct {
		name        string
		err         error
		status      int
		message     string
		operational bool
	}{
		{"app error", NotFound("No tour found"), 404, "No tour found", true},
		{"record not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), 404, "No document found with that ID", true},
		{"pg duplicate", &pgconn.PgError{Code: "23505", Detail: "Key (email)=(a@b.io) already exists."}, 409, "Duplicate field value: a@b.io. Please use another value!", true},
		{"sqlite duplicate", errors.New("constraint failed: UNIQUE constraint failed: tours.name (2067)"), 409, "Duplicate value for field name. Please use another value!", true},
		{"pg invalid text", &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}, 400, "Invalid input: invalid input syntax for type uuid", true},
		{"validation", verr, 400, "Invalid input data. name must have at least 10 characters", true},
		{"expired token", fmt.Errorf("verify: %w", jwt.ErrTokenExpired), 401, "Your token has expired! Please log in again.", true},
		{"bad signature", fmt.Errorf("verify: %w", jwt.ErrTokenSignatureInvalid), 401, "Invalid token. Please log in again!", true},
		{"unknown", errors.New("boom"), 500, "Something went very wrong!", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, tt.operational, got.Operational)
		})
	}
}

func TestAppError_Status(t *testing.T) {
	assert.Equal(t, "fail", BadRequest("x").Status())
	assert.Equal(t, "fail", TooManyRequests("x").Status())
	assert.Equal(t, "error", Internal(errors.New("x")).Status())
}

func newEngine(production bool, err error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(zap.NewNop(), production))
	r.GET("/api/v1/thing", func(c *gin.Context) {
		_ = c.Error(err)
	})
	return r
}

func do(t *testing.T, r *gin.Engine) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/thing", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestMiddleware_ProductionHidesInternalErrors(t *testing.T) {
	code, body := do(t, newEngine(true, errors.New("db connection reset")))

	assert.Equal(t, 500, code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Something went very wrong!", body["message"])
	assert.NotContains(t, body, "stack")
	assert.NotContains(t, body, "error")
}

func TestMiddleware_ProductionShowsOperationalMessage(t *testing.T) {
	code, body := do(t, newEngine(true, Forbidden("You do not have permission to perform this action")))

	assert.Equal(t, 403, code)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, float64(403), body["statusCode"])
	assert.Equal(t, "You do not have permission to perform this action", body["message"])
}

func TestMiddleware_DevelopmentIsVerbose(t *testing.T) {
	code, body := do(t, newEngine(false, errors.New("db connection reset")))

	assert.Equal(t, 500, code)
	assert.Contains(t, body["error"], "db connection reset")
	assert.NotEmpty(t, body["stack"])
}
