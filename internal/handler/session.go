package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/arcadehub/api/internal/middleware"
	"github.com/arcadehub/api/internal/scoring"
	"github.com/arcadehub/api/internal/session"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	generator *session.Generator
}

func NewSessionHandler(generator *session.Generator) *SessionHandler {
	return &SessionHandler{generator: generator}
}

type CreateSessionRequest struct {
	Variant  string `json:"variant"`
	Language string `json:"language"`
}

// Create generates a fresh session for the game in the path. The state and
// hash returned here are the only starting position the server will accept
// results for.
func (h *SessionHandler) Create(c *gin.Context) {
	slug := c.Param("slug")

	var req CreateSessionRequest
	c.ShouldBindJSON(&req)

	sess, err := h.generator.NewSession(c.Request.Context(), slug, middleware.UserID(c), req.Variant, req.Language)
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidGame) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown game"})
			return
		}
		log.Printf("failed to create session for %s: %v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	middleware.RecordSessionCreated(slug)
	c.JSON(http.StatusCreated, gin.H{
		"gameSessionId": sess.ID,
		"state":         json.RawMessage(sess.State),
		"hash":          sess.IntegrityHash,
		"variant":       sess.Variant,
		"expiresAt":     sess.Expiry,
	})
}
