package fantasy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtwatch/stattracker/internal/models"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "lebron james", "lebron james"},
		{"case and suffix", "LeBron James Jr.", "lebron james"},
		{"roman numeral suffix", "Gary Payton II", "gary payton"},
		{"third generation", "Tim Hardaway III", "tim hardaway"},
		{"senior", "Glen Rice Sr.", "glen rice"},
		{"punctuation stripped", "De'Aaron Fox", "deaaron fox"},
		{"hyphenated", "Shai Gilgeous-Alexander", "shai gilgeousalexander"},
		{"extra whitespace", "  Jayson   Tatum  ", "jayson tatum"},
		{"iv suffix", "Lonnie Walker IV", "lonnie walker"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestEstimatePoints(t *testing.T) {
	w := models.DefaultScoringWeights()

	// 30*1.0 + 10*1.2 + 5*1.5 + 2*3.0 + 1*3.0 = 58.5
	assert.Equal(t, 58.5, EstimatePoints(30, 10, 5, 2, 1, w))
	assert.Equal(t, 0.0, EstimatePoints(0, 0, 0, 0, 0, w))
}

func rosterEntry(team int, name string, avg float64) models.FantasyRosterEntry {
	return models.FantasyRosterEntry{
		TeamID:      team,
		TeamName:    "Team " + name,
		PlayerName:  name,
		Position:    "SF",
		ProTeam:     "LAL",
		TotalPoints: avg * 20,
		AvgPoints:   avg,
	}
}

func statRecord(name, date string, pts, reb, ast int) models.StatRecord {
	return models.StatRecord{
		GameID:   "0022400001",
		GameDate: date,
		Player:   name,
		Team:     "LAL",
		Pts:      models.IntPtr(pts),
		Reb:      models.IntPtr(reb),
		Ast:      models.IntPtr(ast),
		Stl:      1,
		Blk:      1,
		Min:      "34:12",
		Source:   "NBA_API",
	}
}

func TestMergeMatchesAcrossNameVariants(t *testing.T) {
	rosters := []models.FantasyRosterEntry{rosterEntry(1, "LeBron James Jr.", 40)}
	records := []models.StatRecord{statRecord("lebron james", "2025-01-15", 30, 10, 5)}

	merged := Merge(rosters, records, "2025-01-15", models.DefaultScoringWeights())
	require.Len(t, merged, 1)

	m := merged[0]
	assert.True(t, m.HasRealStats)
	assert.False(t, m.MissedGame)
	assert.Equal(t, 30, models.IntOrZero(m.Pts))
	// 30 + 12 + 7.5 + 3 + 3 = 55.5, variance = 800 - 55.5
	assert.Equal(t, 55.5, m.FantasyPtsEstimated)
	require.NotNil(t, m.PtsVariance)
	assert.Equal(t, 744.5, *m.PtsVariance)
}

func TestMergeMarksMissedGames(t *testing.T) {
	rosters := []models.FantasyRosterEntry{
		rosterEntry(1, "Anthony Davis", 45),
		rosterEntry(1, "Austin Reaves", 25),
	}
	records := []models.StatRecord{statRecord("Anthony Davis", "2025-01-15", 28, 12, 3)}

	merged := Merge(rosters, records, "2025-01-15", models.DefaultScoringWeights())
	require.Len(t, merged, 2)

	assert.False(t, merged[0].MissedGame)
	assert.True(t, merged[1].MissedGame)
	assert.False(t, merged[1].HasRealStats)
	assert.Nil(t, merged[1].Pts)
	assert.Zero(t, merged[1].FantasyPtsEstimated)
}

func TestMergeIgnoresOtherDates(t *testing.T) {
	rosters := []models.FantasyRosterEntry{rosterEntry(1, "Anthony Davis", 45)}
	records := []models.StatRecord{statRecord("Anthony Davis", "2025-01-14", 28, 12, 3)}

	merged := Merge(rosters, records, "2025-01-15", models.DefaultScoringWeights())
	require.Len(t, merged, 1)
	assert.True(t, merged[0].MissedGame)
}

func TestMergeWithoutCompleteStatsSkipsEstimate(t *testing.T) {
	rec := statRecord("Anthony Davis", "2025-01-15", 28, 12, 3)
	rec.Ast = nil

	merged := Merge(
		[]models.FantasyRosterEntry{rosterEntry(1, "Anthony Davis", 45)},
		[]models.StatRecord{rec},
		"2025-01-15", models.DefaultScoringWeights())
	require.Len(t, merged, 1)

	m := merged[0]
	assert.True(t, m.MissedGame)
	assert.False(t, m.HasRealStats)
	assert.Nil(t, m.PtsVariance)
	assert.Zero(t, m.FantasyPtsEstimated)
}

func TestMergeInjuredAbsenteeNotMissedGame(t *testing.T) {
	out := rosterEntry(2, "Joel Embiid", 55)
	out.Injured = true
	out.InjuryStatus = "OUT"

	merged := Merge(
		[]models.FantasyRosterEntry{out},
		nil,
		"2025-01-15", models.DefaultScoringWeights())
	require.Len(t, merged, 1)
	assert.False(t, merged[0].MissedGame)
	assert.False(t, merged[0].HasRealStats)
}

func TestMergeInjuredWithPartialLineNotMissedGame(t *testing.T) {
	out := rosterEntry(2, "Joel Embiid", 55)
	out.Injured = true
	rec := statRecord("Joel Embiid", "2025-01-15", 4, 2, 0)
	rec.Reb = nil

	merged := Merge(
		[]models.FantasyRosterEntry{out},
		[]models.StatRecord{rec},
		"2025-01-15", models.DefaultScoringWeights())
	require.Len(t, merged, 1)
	assert.False(t, merged[0].MissedGame)
	assert.False(t, merged[0].HasRealStats)
}

func TestMergeEmptyDateMatchesAnySlate(t *testing.T) {
	rosters := []models.FantasyRosterEntry{rosterEntry(1, "Anthony Davis", 45)}
	records := []models.StatRecord{statRecord("Anthony Davis", "2025-01-14", 28, 12, 3)}

	merged := Merge(rosters, records, "", models.DefaultScoringWeights())
	require.Len(t, merged, 1)
	assert.True(t, merged[0].HasRealStats)
	assert.False(t, merged[0].MissedGame)
	assert.Equal(t, "2025-01-14", merged[0].GameDate)
}
