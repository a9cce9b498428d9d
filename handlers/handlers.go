// Package handlers implements the HTTP surface: auth, the seven record
// collections, the dashboard summary and the data-management endpoints.
// Every response carries a status field of "success" or "error".
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Azi77ry/personal-App/auth"
	"github.com/Azi77ry/personal-App/directory"
	"github.com/Azi77ry/personal-App/logger"
	"github.com/Azi77ry/personal-App/mailer"
	"github.com/Azi77ry/personal-App/middleware"
	"github.com/Azi77ry/personal-App/store"
)

// errNotFound marks a record id that does not exist for the requesting
// user. Because documents are scoped per user, a foreign record id is
// indistinguishable from an unknown one and both yield 404.
var errNotFound = errors.New("item not found")

// ValidationError rejects a request before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func required(field string) *ValidationError {
	return validationErr(field, "%s is required", field)
}

type Handler struct {
	documents *store.Documents
	directory directory.Directory
	tokens    *auth.TokenService
	revoked   *auth.RevocationList
	mailer    mailer.Mailer
	baseURL   string
}

func New(documents *store.Documents, dir directory.Directory, tokens *auth.TokenService, revoked *auth.RevocationList, m mailer.Mailer, baseURL string) *Handler {
	return &Handler{
		documents: documents,
		directory: dir,
		tokens:    tokens,
		revoked:   revoked,
		mailer:    m,
		baseURL:   baseURL,
	}
}

// userID returns the authenticated caller's id. Record ownership is always
// derived from it, never from the request payload.
func userID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}

// fail translates service errors into the error envelope. Unexpected
// failures become a generic 500 so internals never leak to clients.
func fail(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, errNotFound):
		respondError(c, http.StatusNotFound, "Item not found")
	case errors.Is(err, directory.ErrNotFound):
		respondError(c, http.StatusNotFound, "User not found")
	default:
		logger.Get().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

func parseDate(field, value string) (string, *ValidationError) {
	if value == "" {
		return "", required(field)
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return "", validationErr(field, "%s must be a YYYY-MM-DD date", field)
	}
	return value, nil
}

func parseMonth(value string) (string, *ValidationError) {
	if value == "" {
		return "", required("month")
	}
	if _, err := time.Parse(monthLayout, value); err != nil {
		return "", validationErr("month", "month must be a YYYY-MM value")
	}
	return value, nil
}

// parseEventTime accepts the datetime-local wire format as well as full
// ISO-8601 timestamps and bare dates.
func parseEventTime(field, value string) (time.Time, *ValidationError) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", dateLayout}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, validationErr(field, "%s must be an ISO-8601 timestamp", field)
}
