package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var corsStaticHeaders = map[string]string{
	"Access-Control-Allow-Methods":  "GET,POST,OPTIONS",
	"Access-Control-Allow-Headers":  "Content-Type, X-Request-Id",
	"Access-Control-Expose-Headers": "X-Request-Id",
	"Access-Control-Max-Age":        "600",
}

// originPolicy decides which Allow-Origin value, if any, a request origin gets.
type originPolicy struct {
	listed   map[string]bool
	wildcard bool
}

func newOriginPolicy(allowed []string) originPolicy {
	p := originPolicy{listed: make(map[string]bool, len(allowed))}
	for _, o := range allowed {
		o = strings.TrimSpace(o)
		if o == "*" {
			p.wildcard = true
		} else if o != "" {
			p.listed[o] = true
		}
	}
	return p
}

// resolve returns the Allow-Origin value and whether credentials may be sent.
// Explicitly listed origins win over the wildcard so they keep credentials.
func (p originPolicy) resolve(origin string) (allow string, credentials bool) {
	switch {
	case origin == "":
		return "", false
	case p.listed[origin]:
		return origin, true
	case p.wildcard:
		return "*", false
	default:
		return "", false
	}
}

// CORS answers preflights with 204 and decorates allowed cross-origin responses.
// "*" in allowedOrigins admits any origin, without credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	policy := newOriginPolicy(allowedOrigins)

	return func(c *gin.Context) {
		if allow, creds := policy.resolve(c.GetHeader("Origin")); allow != "" {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", allow)
			if creds {
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}
			for k, v := range corsStaticHeaders {
				h.Set(k, v)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
