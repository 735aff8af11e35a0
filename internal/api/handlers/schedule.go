package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtwatch/stattracker/internal/models"
	"github.com/courtwatch/stattracker/pkg/utils"
)

// ScoreboardProvider serves the daily game schedule.
type ScoreboardProvider interface {
	FetchScoreboard(ctx context.Context, date string) ([]models.Game, error)
}

type ScheduleHandler struct {
	scoreboard ScoreboardProvider
}

func NewScheduleHandler(scoreboard ScoreboardProvider) *ScheduleHandler {
	return &ScheduleHandler{scoreboard: scoreboard}
}

// GetSchedule handles GET /api/schedule?date=, defaulting to today.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.SendValidationError(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	games, err := h.scoreboard.FetchScoreboard(c.Request.Context(), date)
	if err != nil {
		utils.SendInternalError(c, "failed to fetch schedule: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"date":    date,
		"count":   len(games),
		"games":   games,
	})
}
