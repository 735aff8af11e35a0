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

type stubScoreboard struct {
	games   []models.Game
	err     error
	gotDate string
}

func (s *stubScoreboard) FetchScoreboard(ctx context.Context, date string) ([]models.Game, error) {
	s.gotDate = date
	return s.games, s.err
}

func scheduleRouter(stub *stubScoreboard) *gin.Engine {
	router := gin.New()
	router.GET("/api/schedule", NewScheduleHandler(stub).GetSchedule)
	return router
}

func TestGetSchedule(t *testing.T) {
	stub := &stubScoreboard{games: []models.Game{
		{ID: "401585601", Name: "Celtics at Lakers", Status: "Final", State: "post"},
	}}

	w := performRequest(scheduleRouter(stub), http.MethodGet, "/api/schedule?date=2025-01-15")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "2025-01-15", body["date"])
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, "2025-01-15", stub.gotDate)
}

func TestGetScheduleDefaultsToToday(t *testing.T) {
	stub := &stubScoreboard{}

	w := performRequest(scheduleRouter(stub), http.MethodGet, "/api/schedule")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), stub.gotDate)
}

func TestGetScheduleBadDate(t *testing.T) {
	w := performRequest(scheduleRouter(&stubScoreboard{}), http.MethodGet, "/api/schedule?date=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetScheduleUpstreamFailure(t *testing.T) {
	stub := &stubScoreboard{err: errors.New("scoreboard request failed")}

	w := performRequest(scheduleRouter(stub), http.MethodGet, "/api/schedule?date=2025-01-15")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
