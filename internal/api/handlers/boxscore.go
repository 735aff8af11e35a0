package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtwatch/stattracker/internal/services"
	"github.com/courtwatch/stattracker/pkg/utils"
)

type BoxscoreHandler struct {
	fetcher services.BoxscoreFetcher
}

func NewBoxscoreHandler(fetcher services.BoxscoreFetcher) *BoxscoreHandler {
	return &BoxscoreHandler{fetcher: fetcher}
}

// GetBoxscore handles GET /api/boxscore?game_id=&date=&source=
// At least one of game_id or date is required; a game_id alone is looked up
// against today's slate.
func (h *BoxscoreHandler) GetBoxscore(c *gin.Context) {
	gameID := c.Query("game_id")
	date := c.Query("date")
	source := c.Query("source")

	if gameID == "" && date == "" {
		utils.SendValidationError(c, "game_id or date is required")
		return
	}
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.SendValidationError(c, "invalid date, expected YYYY-MM-DD")
		return
	}
	// An unknown forced source falls through to the controller, which
	// answers success=false without invoking any provider. Exhaustion is
	// likewise a normal outcome: still 200 with the accumulated errors.
	result := h.fetcher.Fetch(c.Request.Context(), date, gameID, source)
	c.JSON(http.StatusOK, gin.H{
		"success":   result.Success,
		"date":      result.Date,
		"game_id":   gameID,
		"source":    result.Source,
		"count":     len(result.Boxscores),
		"boxscores": result.Boxscores,
		"errors":    result.Errors,
	})
}
