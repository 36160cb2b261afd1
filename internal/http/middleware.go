package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/unrolled/secure"

	"github.com/mrlokans/account-manager/internal/i18n"
)

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"

	// ContextKeyRequestID is the Gin context key for the request ID.
	ContextKeyRequestID = "request_id"

	maxRequestIDLength = 64
)

// RequestIDMiddleware tags every request with an ID, honouring a sane
// incoming X-Request-ID and generating a UUID otherwise.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// SecurityHeadersMiddleware adds security headers to all responses.
// The API serves JSON only, so the content security policy denies everything.
func SecurityHeadersMiddleware(production bool) gin.HandlerFunc {
	opts := secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	}
	if production {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
	}
	sm := secure.New(opts)

	return func(c *gin.Context) {
		if err := sm.Process(c.Writer, c.Request); err != nil {
			log.Printf("Secure headers blocked request [request %s]: %v", requestID(c), err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware limits requests per client IP. A non-positive
// requestsPerMinute disables it. Rejected requests get a localized 429.
func RateLimitMiddleware(requestsPerMinute int, localizer *i18n.Localizer) gin.HandlerFunc {
	if requestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	localizer = newLocalizer(localizer)

	limiter := httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(MessageResponse{
				Message: localizer.Message(r.Header.Get("Accept-Language"), i18n.TooManyRequests),
			})
		}),
	)

	return wrapHandler(limiter)
}

// wrapHandler adapts net/http middleware to Gin. The Gin chain continues only
// if the wrapped middleware calls its next handler.
func wrapHandler(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}
