package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/arcadehub/api/internal/middleware"
	"github.com/arcadehub/api/internal/model"
	"github.com/arcadehub/api/internal/rank"
	"github.com/arcadehub/api/internal/scoring"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ScoreHandler struct {
	db          *gorm.DB
	uploader    *rank.Uploader
	leaderboard *rank.Leaderboard
}

func NewScoreHandler(db *gorm.DB, uploader *rank.Uploader, leaderboard *rank.Leaderboard) *ScoreHandler {
	return &ScoreHandler{db: db, uploader: uploader, leaderboard: leaderboard}
}

type SubmitRequest struct {
	GameSessionID string          `json:"gameSessionId" binding:"required"`
	Trace         json.RawMessage `json:"trace" binding:"required"`
}

// Submit validates a recorded play against its session and stores the
// canonical score if it beats the user's current one. Cheat rejections are
// reported generically; the heuristic that fired stays in server logs.
func (h *ScoreHandler) Submit(c *gin.Context) {
	slug := c.Param("slug")

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gameSessionId and trace are required"})
		return
	}

	userID := middleware.UserID(c)
	up, err := h.uploader.Upload(c.Request.Context(), userID, slug, rank.Submission{
		GameSessionID: req.GameSessionID,
		Trace:         req.Trace,
	})
	if err != nil {
		h.respondUploadError(c, slug, err)
		return
	}

	middleware.RecordValidation(slug, "valid")
	middleware.RecordScoreUpload(slug, string(up.Result))

	resp := gin.H{
		"result":    up.Result,
		"scoreData": json.RawMessage(up.Outcome.ScoreData),
	}
	if up.Score != nil {
		resp["score"] = up.Score
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ScoreHandler) respondUploadError(c *gin.Context, slug string, err error) {
	switch {
	case errors.Is(err, scoring.ErrSessionNotFound):
		middleware.RecordValidation(slug, "not_found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, scoring.ErrSessionAlreadyValidated):
		middleware.RecordValidation(slug, "already_validated")
		c.JSON(http.StatusConflict, gin.H{"error": "Session already validated"})
	case errors.Is(err, scoring.ErrTraceMalformed):
		middleware.RecordValidation(slug, "malformed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trace"})
	case errors.Is(err, scoring.ErrScoreInvalid):
		// Never reveal which heuristic fired.
		middleware.RecordValidation(slug, "invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid score"})
	case errors.Is(err, scoring.ErrInvalidGame):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown game"})
	default:
		middleware.RecordValidation(slug, "error")
		log.Printf("score upload failed for game %s: %v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process score"})
	}
}

// List returns the paginated, globally ranked leaderboard for a game.
func (h *ScoreHandler) List(c *gin.Context) {
	gameID := c.Param("gameId")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.leaderboard.List(c.Request.Context(), gameID, page, limit)
	if err != nil {
		if errors.Is(err, scoring.ErrInvalidGame) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown game"})
			return
		}
		log.Printf("failed to list scores for game %s: %v", gameID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// UserScores returns all of a user's stored scores for their profile page.
func (h *ScoreHandler) UserScores(c *gin.Context) {
	userID := c.Param("id")

	var user model.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var scores []model.Score
	if err := h.db.Preload("Game").Where("user_id = ?", userID).Order("updated_at DESC").Find(&scores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load scores"})
		return
	}

	type profileScore struct {
		ScoreID   string          `json:"scoreId"`
		GameID    string          `json:"gameId"`
		GameName  string          `json:"gameName"`
		GameSlug  string          `json:"gameSlug"`
		CoverURL  string          `json:"coverUrl,omitempty"`
		Variant   string          `json:"variant,omitempty"`
		ScoreData json.RawMessage `json:"scoreData"`
	}
	data := make([]profileScore, len(scores))
	for i, sc := range scores {
		data[i] = profileScore{
			ScoreID:   sc.ID,
			GameID:    sc.GameID,
			GameName:  sc.Game.Name,
			GameSlug:  sc.Game.Slug,
			CoverURL:  sc.Game.CoverURL,
			Variant:   sc.Variant,
			ScoreData: json.RawMessage(sc.ScoreData),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"nickname":  user.Nickname,
			"avatarUrl": user.AvatarURL,
		},
		"data": data,
	})
}
