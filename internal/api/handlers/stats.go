package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtwatch/stattracker/internal/services"
	"github.com/courtwatch/stattracker/internal/stats"
	"github.com/courtwatch/stattracker/pkg/utils"
)

// StatsProvider answers threshold-filtered stat queries.
type StatsProvider interface {
	QualifiedPlayers(ctx context.Context, date string, spec stats.ThresholdSpec) services.StatsResult
}

type StatsHandler struct {
	service StatsProvider
}

func NewStatsHandler(service StatsProvider) *StatsHandler {
	return &StatsHandler{service: service}
}

// GetStats handles GET /api/stats?date=&pts=&ast=&reb=&logic=
func (h *StatsHandler) GetStats(c *gin.Context) {
	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			utils.SendValidationError(c, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	spec := stats.ThresholdSpec{Logic: stats.LogicAny}
	if logic := c.Query("logic"); logic != "" {
		if logic != stats.LogicAny && logic != stats.LogicAll {
			utils.SendValidationError(c, "logic must be 'any' or 'all'")
			return
		}
		spec.Logic = logic
	}

	var err error
	if spec.Pts, err = intQuery(c, "pts"); err != nil {
		utils.SendValidationError(c, "pts must be an integer")
		return
	}
	if spec.Ast, err = intQuery(c, "ast"); err != nil {
		utils.SendValidationError(c, "ast must be an integer")
		return
	}
	if spec.Reb, err = intQuery(c, "reb"); err != nil {
		utils.SendValidationError(c, "reb must be an integer")
		return
	}

	// Provider exhaustion still answers 200; success=false carries the
	// accumulated errors.
	result := h.service.QualifiedPlayers(c.Request.Context(), date, spec)
	c.JSON(http.StatusOK, result)
}

// intQuery parses an optional integer query parameter, nil when absent.
func intQuery(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
