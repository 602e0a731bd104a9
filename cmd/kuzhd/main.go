package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rawblock/kuzh/internal/api"
	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/store"
	"github.com/rawblock/kuzh/internal/transport"
)

var errBadIdentity = errors.New("kuzhd: identity query param must be \"room\", \"user:<n>\", or \"mask:<n>\"")

func main() {
	log.Println("Starting kuzhd (anonymous survey room server)...")

	dbURL := getEnvOrDefault("DATABASE_URL", "")
	var st store.Store
	if dbURL != "" {
		pg, err := store.Connect(context.Background(), dbURL)
		if err != nil {
			log.Printf("Warning: failed to connect to PostgreSQL, continuing without persisting blocks: %v", err)
			st = store.NewMemoryStore()
		} else {
			if err := pg.InitSchema(context.Background(), getEnvOrDefault("SCHEMA_PATH", "internal/store/schema.sql")); err != nil {
				log.Printf("Warning: schema init failed: %v", err)
			}
			st = pg
		}
	} else {
		log.Println("DATABASE_URL not set, running with in-memory storage only")
		st = store.NewMemoryStore()
	}

	owner := loadRoomOwner()
	hub := transport.NewHub()
	go hub.Run()
	srv := newServer(owner, st, hub)

	r := gin.Default()
	r.Use(api.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := api.NewUpgradeLimiter(30, time.Minute)
	r.GET("/ws", limiter.Middleware(), func(c *gin.Context) {
		identity, user, err := parseConnectionIdentity(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		hub.Subscribe(c, identity, user, srv)
	})

	admin := r.Group("/admin")
	admin.Use(api.AuthMiddleware())
	admin.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"answering": srv.answeringSnapshot()})
	})

	port := getEnvOrDefault("PORT", "7339")
	log.Printf("kuzhd listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("FATAL: server exited: %v", err)
	}
}

// parseConnectionIdentity reads ?identity=user:<n>|mask:<n>|room and
// derives the matching UserID the hub can route peer-message relays to.
// This binding is only a routing hint: every transaction a connection
// sends is independently authenticated by its own Schnorr signature,
// checked against the sender's registered key (spec.md §6), so a
// connection that lies about its identity here gains nothing — its
// transactions will simply fail verification.
func parseConnectionIdentity(c *gin.Context) (ids.IdentityID, ids.UserID, error) {
	raw := c.Query("identity")
	if raw == "room" {
		return ids.RoomIdentity(), 0, nil
	}
	kind, numStr, ok := splitOnce(raw, ':')
	if !ok {
		return ids.IdentityID{}, 0, errBadIdentity
	}
	n, err := strconv.Atoi(numStr)
	if err != nil || n < 0 {
		return ids.IdentityID{}, 0, errBadIdentity
	}
	switch kind {
	case "user":
		u := ids.UserID(n)
		return ids.UserIdentity(u), u, nil
	case "mask":
		return ids.MaskIdentity(ids.MaskID(n)), 0, nil
	default:
		return ids.IdentityID{}, 0, errBadIdentity
	}
}

func splitOnce(s string, sep byte) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}
