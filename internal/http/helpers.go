package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/account-manager/internal/audit"
	"github.com/mrlokans/account-manager/internal/i18n"
	"github.com/mrlokans/account-manager/internal/services"
)

// --- Response Types ---

// MessageResponse is the error body returned by every endpoint.
type MessageResponse struct {
	Message string                `json:"message"`
	Errors  []services.FieldError `json:"errors,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// --- Error Response Helpers ---

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Message: message})
}

// respondInvalidData sends a 400 with the field errors that caused it.
func respondInvalidData(c *gin.Context, message string, fields []services.FieldError) {
	c.JSON(http.StatusBadRequest, MessageResponse{Message: message, Errors: fields})
}

// respondInternalError logs the error and sends a 500 with a generic message.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context, message string) {
	log.Printf("Internal error (%s) [request %s]: %v", context, requestID(c), err)
	respondMessage(c, http.StatusInternalServerError, message)
}

// --- Localization ---

func newLocalizer(l *i18n.Localizer) *i18n.Localizer {
	if l == nil {
		return i18n.NewLocalizer("")
	}
	return l
}

// tr formats a message in the language the client asked for.
func tr(c *gin.Context, l *i18n.Localizer, key i18n.Key, args ...any) string {
	return l.Message(c.GetHeader("Accept-Language"), key, args...)
}

// --- Parameter Parsing ---

// parseIDParam extracts an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, l *i18n.Localizer, paramName string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(paramName), 10, 32)
	if err != nil || id == 0 {
		respondMessage(c, http.StatusBadRequest, tr(c, l, i18n.InvalidID))
		return 0, false
	}
	return uint(id), true
}

// queryInt reads a non-negative integer query parameter.
func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

// requestMeta collects the caller details recorded with audit events.
func requestMeta(c *gin.Context) audit.RequestMeta {
	return audit.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: requestID(c),
	}
}
