package services

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtwatch/stattracker/internal/models"
	"github.com/courtwatch/stattracker/internal/stats"
)

type stubFetcher struct {
	results map[string]models.FetchResult
	dates   []string
}

func (f *stubFetcher) Fetch(ctx context.Context, date, gameID, forceSource string) models.FetchResult {
	f.dates = append(f.dates, date)
	if result, ok := f.results[date]; ok {
		return result
	}
	return models.FetchResult{
		Success: false,
		Date:    date,
		Errors:  []string{"all sources failed to return valid box scores"},
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func scoringLine(player string, pts int) models.StatRecord {
	return models.StatRecord{
		GameID: "0022400001",
		Player: player,
		Team:   "BOS",
		Pts:    models.IntPtr(pts),
		Reb:    models.IntPtr(5),
		Ast:    models.IntPtr(4),
		Source: "NBA_API",
	}
}

func TestQualifiedPlayersExplicitDate(t *testing.T) {
	fetcher := &stubFetcher{results: map[string]models.FetchResult{
		"2025-01-15": {
			Success:   true,
			Date:      "2025-01-15",
			Source:    "NBA_API",
			Boxscores: []models.StatRecord{scoringLine("Jayson Tatum", 31), scoringLine("Role Player", 6)},
		},
	}}
	svc := NewStatsService(fetcher, quietLogger())

	spec := stats.ThresholdSpec{Pts: models.IntPtr(20)}
	result := svc.QualifiedPlayers(context.Background(), "2025-01-15", spec)

	assert.True(t, result.Success)
	assert.Equal(t, "2025-01-15", result.Date)
	assert.Equal(t, "NBA_API", result.Source)
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Players, 1)
	assert.Equal(t, "Jayson Tatum", result.Players[0].Player)
	assert.Equal(t, []string{"2025-01-15"}, fetcher.dates)
}

func TestQualifiedPlayersExplicitDateNeverRetries(t *testing.T) {
	fetcher := &stubFetcher{results: map[string]models.FetchResult{}}
	svc := NewStatsService(fetcher, quietLogger())

	result := svc.QualifiedPlayers(context.Background(), "2025-01-15", stats.ThresholdSpec{})
	assert.False(t, result.Success)
	assert.Contains(t, result.Errors, "all sources failed to return valid box scores")
	assert.Equal(t, []string{"2025-01-15"}, fetcher.dates)
}

func TestQualifiedPlayersRetriesYesterday(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	fetcher := &stubFetcher{results: map[string]models.FetchResult{
		yesterday: {
			Success:   true,
			Date:      yesterday,
			Source:    "ESPN_API",
			Boxscores: []models.StatRecord{scoringLine("Jaylen Brown", 27)},
		},
	}}
	svc := NewStatsService(fetcher, quietLogger())

	result := svc.QualifiedPlayers(context.Background(), "", stats.ThresholdSpec{Pts: models.IntPtr(20)})

	assert.True(t, result.Success)
	assert.Equal(t, yesterday, result.Date)
	assert.Equal(t, "ESPN_API", result.Source)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, []string{today, yesterday}, fetcher.dates)
}

func TestQualifiedPlayersEmptyBothDays(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	fetcher := &stubFetcher{results: map[string]models.FetchResult{
		today: {
			Success:   true,
			Date:      today,
			Source:    "NBA_API",
			Boxscores: []models.StatRecord{scoringLine("Role Player", 4)},
		},
		yesterday: {
			Success:   true,
			Date:      yesterday,
			Source:    "NBA_API",
			Boxscores: []models.StatRecord{scoringLine("Backup", 2)},
		},
	}}
	svc := NewStatsService(fetcher, quietLogger())

	result := svc.QualifiedPlayers(context.Background(), "", stats.ThresholdSpec{Pts: models.IntPtr(20)})
	assert.True(t, result.Success)
	assert.Equal(t, today, result.Date)
	assert.Zero(t, result.Count)
}

func TestQualifiedPlayersBothDaysExhausted(t *testing.T) {
	fetcher := &stubFetcher{results: map[string]models.FetchResult{}}
	svc := NewStatsService(fetcher, quietLogger())

	result := svc.QualifiedPlayers(context.Background(), "", stats.ThresholdSpec{})
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
	assert.Len(t, fetcher.dates, 2)
}
