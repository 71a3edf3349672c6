package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextFormat = "22P02"
)

var pgKeyDetail = regexp.MustCompile(`Key \((.+)\)=\((.*)\)`)

// Classify turns any error into an *AppError.
func Classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Wrap(http.StatusNotFound, "No document found with that ID", err)
	}

	if field, value, ok := duplicateKey(err); ok {
		msg := "Duplicate field value. Please use another value!"
		switch {
		case value != "":
			msg = fmt.Sprintf("Duplicate field value: %s. Please use another value!", value)
		case field != "":
			msg = fmt.Sprintf("Duplicate value for field %s. Please use another value!", field)
		}
		return Wrap(http.StatusConflict, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextFormat {
		return Wrap(http.StatusBadRequest, "Invalid input: "+pgErr.Message, err)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return Wrap(http.StatusBadRequest, "Invalid input data. "+strings.Join(msgs, ". "), err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return Wrap(http.StatusBadRequest, "Malformed JSON body", err)
	case errors.As(err, &typeErr):
		return Wrap(http.StatusBadRequest, fmt.Sprintf("Invalid value for field %s", typeErr.Field), err)
	case errors.Is(err, io.EOF):
		return Wrap(http.StatusBadRequest, "Request body is empty", err)
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return Wrap(http.StatusRequestEntityTooLarge, "Request body is too large", err)
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		return Wrap(http.StatusUnauthorized, "Your token has expired! Please log in again.", err)
	}
	if isTokenError(err) {
		return Wrap(http.StatusUnauthorized, "Invalid token. Please log in again!", err)
	}

	return Internal(err)
}

func duplicateKey(err error) (field, value string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if m := pgKeyDetail.FindStringSubmatch(pgErr.Detail); m != nil {
			return m[1], m[2], true
		}
		return pgErr.ColumnName, "", true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", "", true
	}
	// SQLite: "UNIQUE constraint failed: users.email"
	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		rest := msg[strings.Index(msg, "UNIQUE constraint failed")+len("UNIQUE constraint failed:"):]
		rest = strings.TrimSpace(strings.SplitN(rest, " ", 2)[0])
		if i := strings.LastIndex(rest, "."); i >= 0 {
			rest = rest[i+1:]
		}
		return strings.TrimSuffix(rest, ","), "", true
	}
	return "", "", false
}

func isTokenError(err error) bool {
	for _, target := range []error{
		jwt.ErrTokenMalformed,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrTokenUnverifiable,
		jwt.ErrTokenInvalidClaims,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenUsedBeforeIssued,
		jwt.ErrTokenRequiredClaimMissing,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Middleware renders the last error attached to the context, for both the
// JSON API and the rendered pages.
func Middleware(log *zap.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := Classify(c.Errors.Last().Err)

		if !appErr.Operational {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(appErr.Err),
			)
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			writeJSON(c, appErr, production)
			return
		}
		renderPage(c, appErr, production)
	}
}

// Abort attaches err to the context and stops the handler chain.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func writeJSON(c *gin.Context, e *AppError, production bool) {
	body := gin.H{
		"statusCode": e.StatusCode,
		"status":     e.Status(),
	}

	switch {
	case !production:
		body["message"] = e.Message
		body["error"] = e.Error()
		body["stack"] = e.Stack()
	case e.Operational:
		body["message"] = e.Message
	default:
		body["message"] = "Something went very wrong!"
	}

	c.JSON(e.StatusCode, body)
}

func renderPage(c *gin.Context, e *AppError, production bool) {
	msg := e.Message
	if production && !e.Operational {
		msg = "Please try again later."
	}
	c.HTML(e.StatusCode, "error.html", gin.H{
		"title": "Something went wrong!",
		"msg":   msg,
	})
}
