package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const hostIDKey = "hostID"

// RequireHost rejects requests without a valid bearer token and stores the
// token's host id in the request context.
func RequireHost(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token", "code": "unauthorized"})
			return
		}

		hostID, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token", "code": "unauthorized"})
			return
		}
		c.Set(hostIDKey, hostID)
		c.Next()
	}
}

// HostID returns the authenticated host id set by RequireHost.
func HostID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(hostIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
