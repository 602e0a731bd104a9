package api

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware gates kuzhd's /admin HTTP endpoints behind
// API_AUTH_TOKEN; /healthz stays open. It never gates /ws: every survey/room
// transaction carries its own Schnorr signature, checked against the
// sender's registered key, so the websocket upgrade itself needs no
// bearer token to stay safe against forged writes — only against
// unwanted read access to an otherwise-public endpoint.
func AuthMiddleware() gin.HandlerFunc {
	token := os.Getenv("API_AUTH_TOKEN")
	if token == "" && os.Getenv("GIN_MODE") == "release" {
		log.Println("[SECURITY WARNING] API_AUTH_TOKEN is not set in release mode; admin endpoints are unauthenticated")
	}
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		auth := c.GetHeader("Authorization")
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid bearer token"})
			c.Abort()
			return
		}
		c.Next()
	}
}
