package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtwatch/stattracker/internal/models"
)

type stubFantasy struct {
	syncResult models.SyncResult
	snapshot   *models.FantasySnapshot
	latestErr  error
}

func (s *stubFantasy) Sync(ctx context.Context) models.SyncResult {
	return s.syncResult
}

func (s *stubFantasy) Latest() (*models.FantasySnapshot, error) {
	return s.snapshot, s.latestErr
}

type stubReport struct {
	report models.DailyReport
	err    error
}

func (s *stubReport) DailyReport(date string) (models.DailyReport, error) {
	if s.err != nil {
		return models.DailyReport{}, s.err
	}
	report := s.report
	if date != "" {
		report.Date = date
	}
	return report, nil
}

func fantasyRouter(service FantasyService, reporter ReportService) *gin.Engine {
	router := gin.New()
	h := NewFantasyHandler(service, reporter)
	router.POST("/api/fantasy/sync", h.PostSync)
	router.GET("/api/fantasy/teams", h.GetTeams)
	router.GET("/api/fantasy/rosters", h.GetRosters)
	router.GET("/api/fantasy/matchups", h.GetMatchups)
	router.GET("/api/fantasy/freeagents", h.GetFreeAgents)
	router.GET("/api/fantasy/report", h.GetReport)
	return router
}

func TestFantasyNotConfigured(t *testing.T) {
	router := fantasyRouter(nil, nil)

	for _, target := range []string{"/api/fantasy/teams", "/api/fantasy/report"} {
		w := performRequest(router, http.MethodGet, target)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, target)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "not configured")
	}

	w := performRequest(router, http.MethodPost, "/api/fantasy/sync")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestFantasySyncReportsFailureWithOK(t *testing.T) {
	stub := &stubFantasy{syncResult: models.SyncResult{
		Status: "failed",
		Errors: []string{"settings: espn unavailable"},
	}}

	w := performRequest(fantasyRouter(stub, nil), http.MethodPost, "/api/fantasy/sync")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	result := body["result"].(map[string]interface{})
	assert.Equal(t, "failed", result["status"])
}

func TestFantasyTeams(t *testing.T) {
	stub := &stubFantasy{snapshot: &models.FantasySnapshot{
		SyncedAt: time.Now().UTC(),
		Teams: []models.FantasyTeam{
			{TeamID: 1, TeamName: "Ball Hogs"},
			{TeamID: 2, TeamName: "Bricklayers"},
		},
	}}

	w := performRequest(fantasyRouter(stub, nil), http.MethodGet, "/api/fantasy/teams")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["count"])
}

func TestFantasyEndpointsBeforeFirstSync(t *testing.T) {
	stub := &stubFantasy{latestErr: errors.New("no fantasy data synced yet")}

	for _, target := range []string{
		"/api/fantasy/teams",
		"/api/fantasy/rosters",
		"/api/fantasy/matchups",
		"/api/fantasy/freeagents",
	} {
		w := performRequest(fantasyRouter(stub, nil), http.MethodGet, target)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
	}
}

func TestFantasyReport(t *testing.T) {
	reporter := &stubReport{report: models.DailyReport{
		Date:          "2025-01-14",
		TopPerformers: []models.PerformerRow{{PlayerName: "Anthony Davis"}},
	}}

	w := performRequest(fantasyRouter(&stubFantasy{}, reporter), http.MethodGet, "/api/fantasy/report?date=2025-01-15")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	report := body["report"].(map[string]interface{})
	assert.Equal(t, "2025-01-15", report["date"])
}

func TestFantasyReportBadDate(t *testing.T) {
	w := performRequest(fantasyRouter(&stubFantasy{}, &stubReport{}), http.MethodGet, "/api/fantasy/report?date=Jan15")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
