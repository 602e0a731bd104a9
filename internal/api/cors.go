// Package api carries kuzhd's ambient HTTP concerns (CORS, bearer auth,
// upgrade rate limiting) kept separate from internal/transport's
// wire-protocol dispatch. The CORS and auth middlewares follow the
// teacher's internal/api shape; the upgrade limiter is kuzh's own,
// keyed by claimed connection identity rather than a bare per-IP
// bucket, since long-lived identity-bound websocket upgrades are what
// this server actually serves.
package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS returns a Gin middleware honoring ALLOWED_ORIGINS (comma
// separated), or "*" when unset.
func CORS() gin.HandlerFunc {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
