package fantasy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtwatch/stattracker/internal/models"
)

type stubLeague struct {
	settings    models.LeagueSettings
	teams       []models.FantasyTeam
	rosters     []models.FantasyRosterEntry
	matchups    []models.FantasyMatchup
	freeAgents  []models.FreeAgent
	rostersErr  error
	settingsErr error
	failAll     bool
}

var errStub = errors.New("espn unavailable")

func (s *stubLeague) LeagueSettings(ctx context.Context) (models.LeagueSettings, error) {
	if s.failAll || s.settingsErr != nil {
		return models.LeagueSettings{}, errStub
	}
	return s.settings, nil
}

func (s *stubLeague) Teams(ctx context.Context) ([]models.FantasyTeam, error) {
	if s.failAll {
		return nil, errStub
	}
	return s.teams, nil
}

func (s *stubLeague) Rosters(ctx context.Context) ([]models.FantasyRosterEntry, error) {
	if s.failAll || s.rostersErr != nil {
		return nil, errStub
	}
	return s.rosters, nil
}

func (s *stubLeague) Matchups(ctx context.Context, week int) ([]models.FantasyMatchup, error) {
	if s.failAll {
		return nil, errStub
	}
	return s.matchups, nil
}

func (s *stubLeague) FreeAgents(ctx context.Context, size int) ([]models.FreeAgent, error) {
	if s.failAll {
		return nil, errStub
	}
	return s.freeAgents, nil
}

func syncTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func fullStubLeague() *stubLeague {
	return &stubLeague{
		settings: models.LeagueSettings{LeagueID: 12345, Name: "Test League", TeamCount: 2},
		teams: []models.FantasyTeam{
			{TeamID: 1, TeamName: "Ball Hogs", Owner: "alice", Wins: 5, Losses: 2},
			{TeamID: 2, TeamName: "Bricklayers", Owner: "bob", Wins: 2, Losses: 5},
		},
		rosters: []models.FantasyRosterEntry{
			{TeamID: 1, TeamName: "Ball Hogs", PlayerName: "Anthony Davis", Position: "PF", AvgPoints: 45},
		},
		matchups: []models.FantasyMatchup{
			{HomeTeam: "Ball Hogs", HomeTeamID: 1, AwayTeam: "Bricklayers", AwayTeamID: 2, Week: 3},
		},
		freeAgents: []models.FreeAgent{
			{PlayerName: "Naz Reid", Position: "C", PercentOwned: 61.2},
		},
	}
}

func TestSyncSuccess(t *testing.T) {
	dir := t.TempDir()
	svc := NewSyncService(fullStubLeague(), dir, syncTestLogger())

	result := svc.Sync(context.Background())

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 2, result.TeamsCount)
	assert.Equal(t, 1, result.RostersCount)
	assert.Equal(t, 1, result.MatchupsCount)
	assert.Equal(t, 1, result.FreeAgentsCount)
	assert.Empty(t, result.Errors)

	snapshot, err := svc.Latest()
	require.NoError(t, err)
	assert.Equal(t, "Test League", snapshot.Settings.Name)
	assert.Len(t, snapshot.Teams, 2)

	date := time.Now().UTC().Format("2006-01-02")
	_, err = os.Stat(filepath.Join(dir, "fantasy", date, "snapshot.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "fantasy", date, "rosters.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "logs", "fantasy", "sync_log.json"))
	assert.NoError(t, err)
}

func TestSyncPartialFailure(t *testing.T) {
	league := fullStubLeague()
	league.rostersErr = errStub
	svc := NewSyncService(league, t.TempDir(), syncTestLogger())

	result := svc.Sync(context.Background())

	assert.Equal(t, "partial", result.Status)
	assert.Equal(t, 2, result.TeamsCount)
	assert.Zero(t, result.RostersCount)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "rosters")

	snapshot, err := svc.Latest()
	require.NoError(t, err)
	assert.Len(t, snapshot.Teams, 2)
	assert.Empty(t, snapshot.Rosters)
}

func TestSyncTotalFailureKeepsPreviousSnapshot(t *testing.T) {
	league := fullStubLeague()
	svc := NewSyncService(league, t.TempDir(), syncTestLogger())

	first := svc.Sync(context.Background())
	require.Equal(t, "success", first.Status)

	league.failAll = true
	second := svc.Sync(context.Background())
	assert.Equal(t, "failed", second.Status)
	assert.Len(t, second.Errors, 5)

	snapshot, err := svc.Latest()
	require.NoError(t, err)
	assert.Equal(t, "Test League", snapshot.Settings.Name)
}

func TestLatestLoadsFromDisk(t *testing.T) {
	dir := t.TempDir()

	// Sync with one service, then read with a fresh one sharing the dir.
	writer := NewSyncService(fullStubLeague(), dir, syncTestLogger())
	require.Equal(t, "success", writer.Sync(context.Background()).Status)

	reader := NewSyncService(fullStubLeague(), dir, syncTestLogger())
	snapshot, err := reader.Latest()
	require.NoError(t, err)
	assert.Equal(t, "Test League", snapshot.Settings.Name)
	assert.Len(t, snapshot.Rosters, 1)
}

func TestLatestWithoutAnyDataErrors(t *testing.T) {
	svc := NewSyncService(fullStubLeague(), t.TempDir(), syncTestLogger())
	_, err := svc.Latest()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fantasy data")
}
