package fantasy

import (
	"math"
	"regexp"
	"strings"

	"github.com/courtwatch/stattracker/internal/models"
)

var (
	suffixPattern    = regexp.MustCompile(`(?i)\s+(jr\.?|sr\.?|iii|ii|iv)$`)
	nonLetterPattern = regexp.MustCompile(`[^a-z\s]`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// NormalizeName reduces a player name to a canonical matching key: lowercase,
// generational suffix stripped, punctuation removed, whitespace collapsed.
// "LeBron James Jr." and "lebron james" normalize to the same key.
func NormalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = suffixPattern.ReplaceAllString(n, "")
	n = nonLetterPattern.ReplaceAllString(n, "")
	n = spacePattern.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// EstimatePoints scores a stat line with the given weights, rounded to two
// decimal places.
func EstimatePoints(pts, reb, ast, stl, blk int, w models.ScoringWeights) float64 {
	raw := float64(pts)*w.Pts + float64(reb)*w.Reb + float64(ast)*w.Ast +
		float64(stl)*w.Stl + float64(blk)*w.Blk
	return math.Round(raw*100) / 100
}

// Merge left-joins fantasy roster entries with real box score lines by
// normalized player name. Every roster entry yields exactly one merged
// record; a healthy player with no complete stat line is marked missed_game,
// an injured one is not. A non-empty date drops stat records from other days.
func Merge(rosters []models.FantasyRosterEntry, records []models.StatRecord, date string, weights models.ScoringWeights) []models.MergedRecord {
	byName := make(map[string]models.StatRecord, len(records))
	for _, rec := range records {
		if date != "" && rec.GameDate != date {
			continue
		}
		byName[NormalizeName(rec.Player)] = rec
	}

	merged := make([]models.MergedRecord, 0, len(rosters))
	for _, entry := range rosters {
		m := models.MergedRecord{
			TeamID:       entry.TeamID,
			TeamName:     entry.TeamName,
			PlayerName:   entry.PlayerName,
			Position:     entry.Position,
			ProTeam:      entry.ProTeam,
			TotalPoints:  entry.TotalPoints,
			AvgPoints:    entry.AvgPoints,
			Injured:      entry.Injured,
			InjuryStatus: entry.InjuryStatus,
		}

		rec, ok := byName[NormalizeName(entry.PlayerName)]
		if !ok {
			m.MissedGame = !entry.Injured
			merged = append(merged, m)
			continue
		}

		m.HasRealStats = rec.Pts != nil && rec.Reb != nil && rec.Ast != nil
		m.MissedGame = !m.HasRealStats && !entry.Injured
		m.GameID = rec.GameID
		m.GameDate = rec.GameDate
		m.RealTeam = rec.Team
		m.Pts = rec.Pts
		m.Reb = rec.Reb
		m.Ast = rec.Ast
		m.Stl = models.IntPtr(rec.Stl)
		m.Blk = models.IntPtr(rec.Blk)
		m.Min = rec.Min

		if m.HasRealStats {
			m.FantasyPtsEstimated = EstimatePoints(
				models.IntOrZero(rec.Pts), models.IntOrZero(rec.Reb), models.IntOrZero(rec.Ast),
				rec.Stl, rec.Blk, weights)
			variance := math.Round((entry.TotalPoints-m.FantasyPtsEstimated)*100) / 100
			m.PtsVariance = &variance
		}

		merged = append(merged, m)
	}
	return merged
}
