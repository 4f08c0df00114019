package handler

import (
	"net/http"

	"github.com/arcadehub/api/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GameHandler struct {
	db *gorm.DB
}

func NewGameHandler(db *gorm.DB) *GameHandler {
	return &GameHandler{db: db}
}

// List returns the games catalog.
func (h *GameHandler) List(c *gin.Context) {
	var games []model.Game
	if err := h.db.Order("name ASC").Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load games"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": games})
}
