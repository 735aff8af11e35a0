package fantasy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtwatch/stattracker/internal/models"
)

const leaderboardSize = 10

// StatsLoader reads back the processed box scores for a date.
type StatsLoader interface {
	LoadProcessed(date string) ([]models.StatRecord, error)
}

// Reporter builds the daily merged fantasy report: roster production against
// real box scores, leaderboards, and the injured list.
type Reporter struct {
	sync    *SyncService
	stats   StatsLoader
	baseDir string
	weights models.ScoringWeights
	logger  *logrus.Logger
}

func NewReporter(sync *SyncService, stats StatsLoader, baseDir string, logger *logrus.Logger) *Reporter {
	return &Reporter{
		sync:    sync,
		stats:   stats,
		baseDir: baseDir,
		weights: models.DefaultScoringWeights(),
		logger:  logger,
	}
}

// DailyReport merges the latest rosters with the processed box scores for
// date. An empty date defaults to yesterday, since box scores for a slate
// only settle after the games finish.
func (r *Reporter) DailyReport(date string) (models.DailyReport, error) {
	if date == "" {
		date = time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	}

	report := models.DailyReport{
		Date:      date,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	snapshot, err := r.sync.Latest()
	if err != nil {
		return report, fmt.Errorf("no fantasy rosters available: %w", err)
	}

	records, err := r.stats.LoadProcessed(date)
	if err != nil {
		return report, fmt.Errorf("no processed box scores for %s: %w", date, err)
	}

	merged := Merge(snapshot.Rosters, records, date, r.weights)

	var played []models.MergedRecord
	for _, m := range merged {
		if m.HasRealStats {
			played = append(played, m)
		}
	}

	sort.SliceStable(played, func(i, j int) bool {
		return played[i].FantasyPtsEstimated > played[j].FantasyPtsEstimated
	})
	for i, m := range played {
		if i >= leaderboardSize {
			break
		}
		report.TopPerformers = append(report.TopPerformers, models.PerformerRow{
			PlayerName:          m.PlayerName,
			TeamName:            m.TeamName,
			FantasyPtsEstimated: m.FantasyPtsEstimated,
			Pts:                 models.IntOrZero(m.Pts),
			Reb:                 models.IntOrZero(m.Reb),
			Ast:                 models.IntOrZero(m.Ast),
		})
	}

	var withVariance []models.MergedRecord
	for _, m := range played {
		if m.PtsVariance != nil {
			withVariance = append(withVariance, m)
		}
	}
	sort.SliceStable(withVariance, func(i, j int) bool {
		return *withVariance[i].PtsVariance < *withVariance[j].PtsVariance
	})
	for i, m := range withVariance {
		if i >= leaderboardSize {
			break
		}
		report.Underperformers = append(report.Underperformers, models.VarianceRow{
			PlayerName:          m.PlayerName,
			TeamName:            m.TeamName,
			PtsVariance:         *m.PtsVariance,
			TotalPoints:         m.TotalPoints,
			FantasyPtsEstimated: m.FantasyPtsEstimated,
		})
	}

	for _, entry := range snapshot.Rosters {
		if !entry.Injured {
			continue
		}
		report.InjuredPlayers = append(report.InjuredPlayers, models.InjuredRow{
			PlayerName:   entry.PlayerName,
			TeamName:     entry.TeamName,
			InjuryStatus: entry.InjuryStatus,
		})
	}

	r.persistReport(report)
	return report, nil
}

// persistReport writes the report to disk best-effort; a write failure never
// fails the report itself.
func (r *Reporter) persistReport(report models.DailyReport) {
	dir := filepath.Join(r.baseDir, "fantasy", "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		r.logger.Warnf("Failed to create report dir: %v", err)
		return
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		r.logger.Warnf("Failed to encode daily report: %v", err)
		return
	}

	path := filepath.Join(dir, fmt.Sprintf("daily_report_%s.json", report.Date))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		r.logger.Warnf("Failed to write daily report: %v", err)
	}
}
