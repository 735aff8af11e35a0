package fantasy

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/courtwatch/stattracker/internal/models"
)

// LeagueAPI is the slice of the fantasy client the sync service needs.
type LeagueAPI interface {
	LeagueSettings(ctx context.Context) (models.LeagueSettings, error)
	Teams(ctx context.Context) ([]models.FantasyTeam, error)
	Rosters(ctx context.Context) ([]models.FantasyRosterEntry, error)
	Matchups(ctx context.Context, week int) ([]models.FantasyMatchup, error)
	FreeAgents(ctx context.Context, size int) ([]models.FreeAgent, error)
}

const defaultFreeAgentCount = 50

// SyncService pulls full league snapshots from ESPN and keeps the latest one
// in memory for the API handlers. Each successful sync also lands on disk so
// a restart can serve the most recent snapshot without re-hitting ESPN.
type SyncService struct {
	api     LeagueAPI
	baseDir string
	logger  *logrus.Logger

	mu     sync.RWMutex
	latest *models.FantasySnapshot
}

func NewSyncService(api LeagueAPI, baseDir string, logger *logrus.Logger) *SyncService {
	return &SyncService{api: api, baseDir: baseDir, logger: logger}
}

// Sync pulls every league view and swaps the in-memory snapshot. Partial
// failures are tolerated: whatever sections succeed go into the snapshot and
// the result reports status "partial". A sync with no successful sections
// keeps the previous snapshot and reports "failed".
func (s *SyncService) Sync(ctx context.Context) models.SyncResult {
	now := time.Now().UTC()
	result := models.SyncResult{
		Timestamp: now.Format(time.RFC3339),
		Errors:    []string{},
	}
	snapshot := &models.FantasySnapshot{
		SyncedAt: now,
		Date:     now.Format("2006-01-02"),
	}

	sections := 0

	if settings, err := s.api.LeagueSettings(ctx); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("settings: %v", err))
	} else {
		snapshot.Settings = settings
		sections++
	}

	if teams, err := s.api.Teams(ctx); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("teams: %v", err))
	} else {
		snapshot.Teams = teams
		result.TeamsCount = len(teams)
		sections++
	}

	if rosters, err := s.api.Rosters(ctx); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("rosters: %v", err))
	} else {
		snapshot.Rosters = rosters
		result.RostersCount = len(rosters)
		sections++
	}

	if matchups, err := s.api.Matchups(ctx, 0); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("matchups: %v", err))
	} else {
		snapshot.Matchups = matchups
		result.MatchupsCount = len(matchups)
		sections++
	}

	if agents, err := s.api.FreeAgents(ctx, defaultFreeAgentCount); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("free_agents: %v", err))
	} else {
		snapshot.FreeAgents = agents
		result.FreeAgentsCount = len(agents)
		sections++
	}

	switch {
	case sections == 0:
		result.Status = "failed"
		s.logger.Errorf("Fantasy sync failed: %v", result.Errors)
		s.appendSyncLog(result)
		return result
	case len(result.Errors) > 0:
		result.Status = "partial"
	default:
		result.Status = "success"
	}

	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()

	if err := s.persistSnapshot(snapshot); err != nil {
		s.logger.Warnf("Failed to persist fantasy snapshot: %v", err)
	}
	s.appendSyncLog(result)

	s.logger.Infof("Fantasy sync %s: %d teams, %d rostered players, %d matchups, %d free agents",
		result.Status, result.TeamsCount, result.RostersCount, result.MatchupsCount, result.FreeAgentsCount)
	return result
}

// Latest returns the current snapshot, loading the newest on-disk snapshot
// when nothing has been synced in this process yet.
func (s *SyncService) Latest() (*models.FantasySnapshot, error) {
	s.mu.RLock()
	snapshot := s.latest
	s.mu.RUnlock()
	if snapshot != nil {
		return snapshot, nil
	}

	snapshot, err := s.loadNewestSnapshot()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.latest == nil {
		s.latest = snapshot
	}
	snapshot = s.latest
	s.mu.Unlock()
	return snapshot, nil
}

func (s *SyncService) snapshotDir(date string) string {
	return filepath.Join(s.baseDir, "fantasy", date)
}

func (s *SyncService) persistSnapshot(snapshot *models.FantasySnapshot) error {
	dir := s.snapshotDir(snapshot.Date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "snapshot.json"), data, 0o644); err != nil {
		return err
	}

	settings, err := json.MarshalIndent(snapshot.Settings, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "league_settings.json"), settings, 0o644); err != nil {
		return err
	}

	return s.writeRosterCSV(filepath.Join(dir, "rosters.csv"), snapshot.Rosters)
}

func (s *SyncService) writeRosterCSV(path string, rosters []models.FantasyRosterEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"team_id", "team_name", "player_name", "position", "pro_team", "total_points", "avg_points", "injured", "injury_status"}); err != nil {
		return err
	}
	for _, r := range rosters {
		row := []string{
			strconv.Itoa(r.TeamID),
			r.TeamName,
			r.PlayerName,
			r.Position,
			r.ProTeam,
			strconv.FormatFloat(r.TotalPoints, 'f', 2, 64),
			strconv.FormatFloat(r.AvgPoints, 'f', 2, 64),
			strconv.FormatBool(r.Injured),
			r.InjuryStatus,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *SyncService) loadNewestSnapshot() (*models.FantasySnapshot, error) {
	root := filepath.Join(s.baseDir, "fantasy")
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("no fantasy data synced yet")
	}

	var dates []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != "reports" {
			dates = append(dates, e.Name())
		}
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("no fantasy data synced yet")
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	for _, date := range dates {
		data, err := os.ReadFile(filepath.Join(root, date, "snapshot.json"))
		if err != nil {
			continue
		}
		var snapshot models.FantasySnapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			s.logger.Warnf("Skipping corrupt fantasy snapshot for %s: %v", date, err)
			continue
		}
		return &snapshot, nil
	}
	return nil, fmt.Errorf("no fantasy data synced yet")
}

func (s *SyncService) appendSyncLog(result models.SyncResult) {
	dir := filepath.Join(s.baseDir, "logs", "fantasy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Warnf("Failed to create fantasy log dir: %v", err)
		return
	}
	path := filepath.Join(dir, "sync_log.json")

	var entries []models.SyncResult
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &entries); err != nil {
			entries = nil
		}
	}
	entries = append(entries, result)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		s.logger.Warnf("Failed to encode fantasy sync log: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Warnf("Failed to write fantasy sync log: %v", err)
	}
}
