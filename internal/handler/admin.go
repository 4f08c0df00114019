package handler

import (
	"log"
	"net/http"

	"github.com/arcadehub/api/internal/scoring"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	registry *scoring.Registry
}

func NewAdminHandler(registry *scoring.Registry) *AdminHandler {
	return &AdminHandler{registry: registry}
}

// RefreshRegistry rebuilds the strategy registry from the games catalog.
// Called after catalog edits so scoring dispatch doesn't serve stale
// bindings for the rest of the process lifetime.
func (h *AdminHandler) RefreshRegistry(c *gin.Context) {
	if err := h.registry.Refresh(c.Request.Context()); err != nil {
		log.Printf("registry refresh failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh registry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Registry refreshed"})
}
