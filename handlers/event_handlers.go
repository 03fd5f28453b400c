// api/handlers/event_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"pawtrack/api/models"
	"pawtrack/api/store"

	"github.com/gin-gonic/gin"
)

type EventHandlers struct {
	EventStore *store.EventStore
}

func NewEventHandlers(s *store.EventStore) *EventHandlers {
	return &EventHandlers{EventStore: s}
}

// RecordEvent appends one interaction row and returns its id.
func (h *EventHandlers) RecordEvent(c *gin.Context) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Error binding incoming event JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	id, err := h.EventStore.InsertEvent(ctx, req.Type, req.Name, req.Metadata)
	if err != nil {
		log.Printf("Error inserting event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}
