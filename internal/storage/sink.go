package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/courtwatch/stattracker/internal/models"
)

var csvHeader = []string{
	"game_id", "game_date", "player", "team",
	"pts", "reb", "ast", "stl", "blk",
	"fg_pct", "fg3_pct", "ft_pct", "min", "source", "timestamp_utc",
}

// Sink writes accepted batches to disk for auditing: a raw JSON snapshot, an
// aggregated per-date CSV and an append-only fetch log. Every write is
// best-effort; failures are logged and never reach the fetch path.
type Sink struct {
	baseDir string
	logger  *logrus.Logger
}

func NewSink(baseDir string, logger *logrus.Logger) *Sink {
	return &Sink{baseDir: baseDir, logger: logger}
}

type scrapeLogEntry struct {
	Date         string `json:"date"`
	Source       string `json:"source"`
	TimestampUTC string `json:"timestamp_utc"`
	GamesFound   int    `json:"games_found"`
	PlayersFound int    `json:"players_found"`
	Status       string `json:"status"`
}

// Persist writes the batch. Never returns an error; a read-only filesystem
// degrades to a warning.
func (s *Sink) Persist(records []models.StatRecord, source, date string) {
	if err := s.writeRawSnapshot(records, source, date); err != nil {
		s.logger.Warnf("Failed to write raw snapshot: %v", err)
	}
	if err := s.writeProcessedCSV(records, date); err != nil {
		s.logger.Warnf("Failed to write processed CSV: %v", err)
	}
	if err := s.appendScrapeLog(records, source, date); err != nil {
		s.logger.Warnf("Failed to append scrape log: %v", err)
	}
}

func (s *Sink) writeRawSnapshot(records []models.StatRecord, source, date string) error {
	dir := filepath.Join(s.baseDir, "raw", source, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	file := filepath.Join(dir, fmt.Sprintf("boxscores_%s.json", uuid.NewString()))
	return os.WriteFile(file, data, 0o644)
}

func (s *Sink) writeProcessedCSV(records []models.StatRecord, date string) error {
	dir := filepath.Join(s.baseDir, "processed")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, fmt.Sprintf("boxscores_%s.csv", date)))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.GameID, r.GameDate, r.Player, r.Team,
			strconv.Itoa(models.IntOrZero(r.Pts)),
			strconv.Itoa(models.IntOrZero(r.Reb)),
			strconv.Itoa(models.IntOrZero(r.Ast)),
			strconv.Itoa(r.Stl),
			strconv.Itoa(r.Blk),
			strconv.FormatFloat(r.FGPct, 'f', -1, 64),
			strconv.FormatFloat(r.FG3Pct, 'f', -1, 64),
			strconv.FormatFloat(r.FTPct, 'f', -1, 64),
			r.Min, r.Source, r.TimestampUTC,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Sink) appendScrapeLog(records []models.StatRecord, source, date string) error {
	dir := filepath.Join(s.baseDir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	games := make(map[string]struct{})
	for _, r := range records {
		games[r.GameID] = struct{}{}
	}

	entry := scrapeLogEntry{
		Date:         date,
		Source:       source,
		TimestampUTC: time.Now().UTC().Format(time.RFC3339),
		GamesFound:   len(games),
		PlayersFound: len(records),
		Status:       "success",
	}

	file := filepath.Join(dir, fmt.Sprintf("scrape_log_%s.json", date))
	var entries []scrapeLogEntry
	if data, err := os.ReadFile(file); err == nil {
		// a corrupt log starts over rather than blocking the append
		json.Unmarshal(data, &entries)
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}

// LoadProcessed reads back the aggregated CSV for a date.
func (s *Sink) LoadProcessed(date string) ([]models.StatRecord, error) {
	f, err := os.Open(filepath.Join(s.baseDir, "processed", fmt.Sprintf("boxscores_%s.csv", date)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	records := make([]models.StatRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(csvHeader) {
			continue
		}
		records = append(records, models.StatRecord{
			GameID:       row[0],
			GameDate:     row[1],
			Player:       row[2],
			Team:         row[3],
			Pts:          parseIntPtr(row[4]),
			Reb:          parseIntPtr(row[5]),
			Ast:          parseIntPtr(row[6]),
			Stl:          parseIntField(row[7]),
			Blk:          parseIntField(row[8]),
			FGPct:        parseFloatField(row[9]),
			FG3Pct:       parseFloatField(row[10]),
			FTPct:        parseFloatField(row[11]),
			Min:          row[12],
			Source:       row[13],
			TimestampUTC: row[14],
		})
	}
	return records, nil
}

func parseIntPtr(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntField(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parseFloatField(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
