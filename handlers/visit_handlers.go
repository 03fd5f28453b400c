// api/handlers/visit_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"pawtrack/api/config"
	"pawtrack/api/enrich"
	"pawtrack/api/models"
	"pawtrack/api/store"
	"pawtrack/api/utils"

	"github.com/gin-gonic/gin"
)

type VisitHandlers struct {
	VisitStore *store.VisitStore
	Enricher   *enrich.Enricher
	Config     *config.Config
}

func NewVisitHandlers(s *store.VisitStore, e *enrich.Enricher, cfg *config.Config) *VisitHandlers {
	return &VisitHandlers{
		VisitStore: s,
		Enricher:   e,
		Config:     cfg,
	}
}

// isAdminPage reports whether a page name identifies the admin dashboard.
// Covers "admin", "/admin" and "admin/..." sub-pages.
func isAdminPage(page string) bool {
	normalized := strings.ToLower(strings.Trim(page, "/"))
	return normalized == "admin" || strings.HasPrefix(normalized, "admin/")
}

// RecordVisit creates one visit row for a browsing session and returns its
// id. Admin self-visits are answered with an ignored marker before any
// hashing, enrichment or write happens.
func (h *VisitHandlers) RecordVisit(c *gin.Context) {
	var req models.VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Error binding incoming visit JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Page == "" {
		req.Page = "home"
	}
	if req.Language == "" {
		req.Language = "he"
	}
	if req.Referrer == "" {
		req.Referrer = "direct"
	}

	if isAdminPage(req.Page) {
		c.JSON(http.StatusOK, gin.H{"ignored": true})
		return
	}

	// ClientIP prefers the first X-Forwarded-For entry and falls back to
	// the socket address.
	clientIP := c.ClientIP()
	country, city := h.Enricher.Lookup(clientIP)
	browser, os, deviceType := h.Enricher.ParseUserAgent(c.Request.UserAgent())

	visit := models.NewVisit{
		Page:         req.Page,
		IdentityHash: utils.HashIdentity(clientIP, h.Config.IdentitySalt),
		Language:     req.Language,
		Country:      country,
		City:         city,
		Referrer:     req.Referrer,
		Browser:      browser,
		OS:           os,
		DeviceType:   deviceType,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	id, err := h.VisitStore.InsertVisit(ctx, visit)
	if err != nil {
		log.Printf("Error inserting visit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Heartbeat refreshes a visit's liveness timestamp. Unknown ids are a
// silent no-op so a stale session storage entry can never produce errors.
func (h *VisitHandlers) Heartbeat(c *gin.Context) {
	var req models.HeartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Error binding incoming heartbeat JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.VisitID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visitId is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.VisitStore.Heartbeat(ctx, req.VisitID); err != nil {
		log.Printf("Error updating heartbeat for visit %d: %v", req.VisitID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
