package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/courtwatch/stattracker/internal/models"
)

const nbaStatsBaseURL = "https://stats.nba.com/stats"

// NBAStatsClient reads the official stats.nba.com API (scoreboardv2 +
// boxscoretraditionalv2). Highest-quality source, first in the fallback order.
type NBAStatsClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache
	logger     *logrus.Logger
	baseURL    string
	maxGames   int
}

// NewNBAStatsClient creates a stats.nba.com client. maxGames caps the number
// of per-game boxscore calls made for a single date.
func NewNBAStatsClient(cache Cache, logger *logrus.Logger, timeout time.Duration, maxGames int) *NBAStatsClient {
	return &NBAStatsClient{
		httpClient: &http.Client{Timeout: timeout},
		// stats.nba.com throttles aggressively; ~3 req/s keeps us under it
		limiter:  rate.NewLimiter(rate.Every(300*time.Millisecond), 1),
		cache:    cache,
		logger:   logger,
		baseURL:  nbaStatsBaseURL,
		maxGames: maxGames,
	}
}

func (c *NBAStatsClient) Name() string { return SourceNBAAPI }

// resultSets is the stats.nba.com envelope: tabular data as header names plus
// positional rows.
type nbaStatsResponse struct {
	ResultSets []struct {
		Name    string          `json:"name"`
		Headers []string        `json:"headers"`
		RowSet  [][]interface{} `json:"rowSet"`
	} `json:"resultSets"`
}

func (r *nbaStatsResponse) resultSet(name string) (map[string]int, [][]interface{}, bool) {
	for _, rs := range r.ResultSets {
		if rs.Name != name {
			continue
		}
		idx := make(map[string]int, len(rs.Headers))
		for i, h := range rs.Headers {
			idx[h] = i
		}
		return idx, rs.RowSet, true
	}
	return nil, nil, false
}

// FetchBoxscores returns player box score lines for the date, or for a single
// game when gameID is set.
func (c *NBAStatsClient) FetchBoxscores(ctx context.Context, date, gameID string) ([]models.StatRecord, error) {
	cacheKey := fmt.Sprintf("nbastats:boxscores:%s:%s", date, gameID)

	var cached []models.StatRecord
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	gameIDs := []string{gameID}
	if gameID == "" {
		ids, err := c.fetchGameIDs(ctx, date)
		if err != nil {
			return nil, err
		}
		if c.maxGames > 0 && len(ids) > c.maxGames {
			c.logger.Warnf("Limiting NBA stats fetch to first %d of %d games", c.maxGames, len(ids))
			ids = ids[:c.maxGames]
		}
		gameIDs = ids
	}

	var records []models.StatRecord
	for _, gid := range gameIDs {
		lines, err := c.fetchGameBoxscore(ctx, gid, date)
		if err != nil {
			c.logger.Warnf("NBA stats boxscore failed for game %s: %v", gid, err)
			continue
		}
		records = append(records, lines...)
	}

	if len(records) > 0 {
		c.cache.SetSimple(cacheKey, records, 15*time.Minute)
	}
	return records, nil
}

func (c *NBAStatsClient) fetchGameIDs(ctx context.Context, date string) ([]string, error) {
	u := fmt.Sprintf("%s/scoreboardv2?GameDate=%s&LeagueID=00&DayOffset=0", c.baseURL, url.QueryEscape(date))

	var resp nbaStatsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("scoreboard fetch failed: %w", err)
	}

	idx, rows, ok := resp.resultSet("GameHeader")
	if !ok {
		return nil, fmt.Errorf("scoreboard response missing GameHeader result set")
	}
	gidCol, ok := idx["GAME_ID"]
	if !ok {
		return nil, fmt.Errorf("scoreboard response missing GAME_ID column")
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, row := range rows {
		id := cellString(row, gidCol)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *NBAStatsClient) fetchGameBoxscore(ctx context.Context, gameID, date string) ([]models.StatRecord, error) {
	u := fmt.Sprintf("%s/boxscoretraditionalv2?GameID=%s&StartPeriod=0&EndPeriod=10&StartRange=0&EndRange=0&RangeType=0", c.baseURL, url.QueryEscape(gameID))

	var resp nbaStatsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	idx, rows, ok := resp.resultSet("PlayerStats")
	if !ok {
		return nil, fmt.Errorf("boxscore response missing PlayerStats result set")
	}

	fetchedAt := utcTimestamp()
	var records []models.StatRecord
	for _, row := range rows {
		minutes := cellString(row, col(idx, "MIN"))
		if isDNP(minutes) {
			continue
		}
		records = append(records, models.StatRecord{
			GameID:       gameID,
			GameDate:     date,
			Player:       cellString(row, col(idx, "PLAYER_NAME")),
			Team:         cellString(row, col(idx, "TEAM_ABBREVIATION")),
			Pts:          cellInt(row, col(idx, "PTS")),
			Reb:          cellInt(row, col(idx, "REB")),
			Ast:          cellInt(row, col(idx, "AST")),
			Stl:          models.IntOrZero(cellInt(row, col(idx, "STL"))),
			Blk:          models.IntOrZero(cellInt(row, col(idx, "BLK"))),
			FGPct:        cellFloat(row, col(idx, "FG_PCT")),
			FG3Pct:       cellFloat(row, col(idx, "FG3_PCT")),
			FTPct:        cellFloat(row, col(idx, "FT_PCT")),
			Min:          minutes,
			Source:       SourceNBAAPI,
			TimestampUTC: fetchedAt,
		})
	}
	return records, nil
}

// FindPlayer resolves a player by (partial, case-insensitive) name against the
// full player index.
func (c *NBAStatsClient) FindPlayer(ctx context.Context, name string) (*models.PlayerInfo, error) {
	u := fmt.Sprintf("%s/commonallplayers?LeagueID=00&IsOnlyCurrentSeason=0&Season=%s", c.baseURL, url.QueryEscape(currentSeason(time.Now())))

	var resp nbaStatsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("player index fetch failed: %w", err)
	}

	idx, rows, ok := resp.resultSet("CommonAllPlayers")
	if !ok {
		return nil, fmt.Errorf("player index response missing CommonAllPlayers result set")
	}

	needle := strings.ToLower(name)
	for _, row := range rows {
		fullName := cellString(row, col(idx, "DISPLAY_FIRST_LAST"))
		if !strings.Contains(strings.ToLower(fullName), needle) {
			continue
		}
		return &models.PlayerInfo{
			ID:       int(cellFloat(row, col(idx, "PERSON_ID"))),
			Name:     fullName,
			IsActive: cellFloat(row, col(idx, "ROSTERSTATUS")) == 1,
		}, nil
	}
	return nil, nil
}

// FetchPlayerGameLog returns the player's most recent games, newest first.
func (c *NBAStatsClient) FetchPlayerGameLog(ctx context.Context, playerID, limit int) ([]models.PlayerGameLine, error) {
	u := fmt.Sprintf("%s/playergamelog?PlayerID=%d&Season=%s&SeasonType=Regular+Season", c.baseURL, playerID, url.QueryEscape(currentSeason(time.Now())))

	var resp nbaStatsResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("game log fetch failed: %w", err)
	}

	idx, rows, ok := resp.resultSet("PlayerGameLog")
	if !ok {
		return nil, fmt.Errorf("game log response missing PlayerGameLog result set")
	}

	var games []models.PlayerGameLine
	for _, row := range rows {
		if limit > 0 && len(games) >= limit {
			break
		}
		games = append(games, models.PlayerGameLine{
			GameID:   cellString(row, col(idx, "Game_ID")),
			GameDate: cellString(row, col(idx, "GAME_DATE")),
			Matchup:  cellString(row, col(idx, "MATCHUP")),
			Result:   cellString(row, col(idx, "WL")),
			Min:      cellString(row, col(idx, "MIN")),
			Pts:      models.IntOrZero(cellInt(row, col(idx, "PTS"))),
			Reb:      models.IntOrZero(cellInt(row, col(idx, "REB"))),
			Ast:      models.IntOrZero(cellInt(row, col(idx, "AST"))),
			Stl:      models.IntOrZero(cellInt(row, col(idx, "STL"))),
			Blk:      models.IntOrZero(cellInt(row, col(idx, "BLK"))),
			FGPct:    cellFloat(row, col(idx, "FG_PCT")),
		})
	}
	return games, nil
}

// getJSON performs a rate-limited GET with the headers stats.nba.com requires.
func (c *NBAStatsClient) getJSON(ctx context.Context, u string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

// currentSeason formats the NBA season string (e.g. 2025-26) that the season
// starting in year t falls into.
func currentSeason(t time.Time) string {
	year := t.Year()
	if t.Month() < time.October {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// Cell accessors tolerate the mixed string/float/null columns of rowSet data.

func col(idx map[string]int, name string) int {
	if i, ok := idx[name]; ok {
		return i
	}
	return -1
}

func cellString(row []interface{}, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	if s, ok := row[i].(string); ok {
		return s
	}
	return ""
}

func cellFloat(row []interface{}, i int) float64 {
	if i < 0 || i >= len(row) {
		return 0
	}
	if f, ok := row[i].(float64); ok {
		return f
	}
	return 0
}

func cellInt(row []interface{}, i int) *int {
	if i < 0 || i >= len(row) {
		return nil
	}
	if f, ok := row[i].(float64); ok {
		v := int(f)
		return &v
	}
	return nil
}
