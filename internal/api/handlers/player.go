package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtwatch/stattracker/internal/models"
	"github.com/courtwatch/stattracker/pkg/utils"
)

const defaultGameLogLength = 10

// PlayerDirectory looks up players and their game logs.
type PlayerDirectory interface {
	FindPlayer(ctx context.Context, name string) (*models.PlayerInfo, error)
	FetchPlayerGameLog(ctx context.Context, playerID, limit int) ([]models.PlayerGameLine, error)
}

type PlayerHandler struct {
	directory PlayerDirectory
}

func NewPlayerHandler(directory PlayerDirectory) *PlayerHandler {
	return &PlayerHandler{directory: directory}
}

// GetPlayer handles GET /api/player/:name?games=
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	name := c.Param("name")

	limit := defaultGameLogLength
	if raw := c.Query("games"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			utils.SendValidationError(c, "games must be a positive integer")
			return
		}
		limit = v
	}

	player, err := h.directory.FindPlayer(c.Request.Context(), name)
	if err != nil {
		utils.SendInternalError(c, "player lookup failed: "+err.Error())
		return
	}
	if player == nil {
		utils.SendNotFound(c, "no player matching '"+name+"'")
		return
	}

	log, err := h.directory.FetchPlayerGameLog(c.Request.Context(), player.ID, limit)
	if err != nil {
		utils.SendInternalError(c, "game log fetch failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"player":   player,
		"count":    len(log),
		"game_log": log,
	})
}
