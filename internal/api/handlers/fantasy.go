package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtwatch/stattracker/internal/models"
	"github.com/courtwatch/stattracker/pkg/utils"
)

// FantasyService is what the fantasy endpoints need from the sync layer.
type FantasyService interface {
	Sync(ctx context.Context) models.SyncResult
	Latest() (*models.FantasySnapshot, error)
}

// ReportService builds the merged daily report.
type ReportService interface {
	DailyReport(date string) (models.DailyReport, error)
}

// FantasyHandler serves the fantasy league endpoints. Both services are nil
// when fantasy credentials are not configured.
type FantasyHandler struct {
	service  FantasyService
	reporter ReportService
}

func NewFantasyHandler(service FantasyService, reporter ReportService) *FantasyHandler {
	return &FantasyHandler{service: service, reporter: reporter}
}

func (h *FantasyHandler) configured(c *gin.Context) bool {
	if h.service == nil {
		utils.SendServiceUnavailable(c, "fantasy integration not configured: set ESPN_S2, SWID, LEAGUE_ID and FANTASY_YEAR")
		return false
	}
	return true
}

// PostSync handles POST /api/fantasy/sync. The sync result is returned with
// 200 regardless of outcome; the status field carries success/partial/failed.
func (h *FantasyHandler) PostSync(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	result := h.service.Sync(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": result.Status != "failed",
		"result":  result,
	})
}

// GetTeams handles GET /api/fantasy/teams.
func (h *FantasyHandler) GetTeams(c *gin.Context) {
	snapshot, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"synced_at": snapshot.SyncedAt,
		"count":     len(snapshot.Teams),
		"teams":     snapshot.Teams,
	})
}

// GetRosters handles GET /api/fantasy/rosters.
func (h *FantasyHandler) GetRosters(c *gin.Context) {
	snapshot, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"synced_at": snapshot.SyncedAt,
		"count":     len(snapshot.Rosters),
		"rosters":   snapshot.Rosters,
	})
}

// GetMatchups handles GET /api/fantasy/matchups.
func (h *FantasyHandler) GetMatchups(c *gin.Context) {
	snapshot, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"synced_at": snapshot.SyncedAt,
		"count":     len(snapshot.Matchups),
		"matchups":  snapshot.Matchups,
	})
}

// GetFreeAgents handles GET /api/fantasy/freeagents.
func (h *FantasyHandler) GetFreeAgents(c *gin.Context) {
	snapshot, ok := h.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"synced_at":   snapshot.SyncedAt,
		"count":       len(snapshot.FreeAgents),
		"free_agents": snapshot.FreeAgents,
	})
}

// GetReport handles GET /api/fantasy/report?date=, defaulting to yesterday.
func (h *FantasyHandler) GetReport(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	if h.reporter == nil {
		utils.SendServiceUnavailable(c, "fantasy integration not configured: set ESPN_S2, SWID, LEAGUE_ID and FANTASY_YEAR")
		return
	}

	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			utils.SendValidationError(c, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	report, err := h.reporter.DailyReport(date)
	if err != nil {
		utils.SendNotFound(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  report,
	})
}

func (h *FantasyHandler) snapshot(c *gin.Context) (*models.FantasySnapshot, bool) {
	if !h.configured(c) {
		return nil, false
	}
	snapshot, err := h.service.Latest()
	if err != nil {
		utils.SendNotFound(c, err.Error())
		return nil, false
	}
	return snapshot, true
}
