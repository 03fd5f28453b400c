// api/handlers/stats_handlers.go
package handlers

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"pawtrack/api/models"
	"pawtrack/api/store"

	"github.com/gin-gonic/gin"
)

// startTime anchors the uptime figure surfaced in the stats document.
var startTime = time.Now()

type StatsHandlers struct {
	StatsStore *store.StatsStore
	db         *sql.DB
}

func NewStatsHandlers(s *store.StatsStore, db *sql.DB) *StatsHandlers {
	return &StatsHandlers{
		StatsStore: s,
		db:         db,
	}
}

// GetStats assembles the full dashboard document: eighteen concurrent
// aggregate queries plus process metadata read from the environment at
// request time.
func (h *StatsHandlers) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	resp, err := h.StatsStore.GetStats(ctx)
	if err != nil {
		log.Printf("Error computing stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp.Meta = models.ProcessMeta{
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		Version:       envOrDefault("APP_VERSION", "dev"),
		Image:         envOrDefault("BUILD_IMAGE", "unknown"),
		Commit:        envOrDefault("COMMIT_SHA", "unknown"),
	}

	c.JSON(http.StatusOK, resp)
}

// HealthCheck pings the database so the container orchestrator can tell a
// live process from a reachable one.
func (h *StatsHandlers) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Printf("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
