package models

import "time"

// FantasyTeam is one franchise in the ESPN fantasy league.
type FantasyTeam struct {
	TeamID        int     `json:"team_id"`
	TeamName      string  `json:"team_name"`
	Owner         string  `json:"owner"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	PointsFor     float64 `json:"points_for"`
	PointsAgainst float64 `json:"points_against"`
}

// FantasyRosterEntry is one rostered player on a fantasy team.
type FantasyRosterEntry struct {
	TeamID       int     `json:"team_id"`
	TeamName     string  `json:"team_name"`
	PlayerName   string  `json:"player_name"`
	Position     string  `json:"position"`
	ProTeam      string  `json:"pro_team"`
	TotalPoints  float64 `json:"total_points"`
	AvgPoints    float64 `json:"avg_points"`
	Injured      bool    `json:"injured"`
	InjuryStatus string  `json:"injury_status,omitempty"`
}

// FantasyMatchup is one head-to-head pairing for a matchup period.
type FantasyMatchup struct {
	HomeTeam   string  `json:"home_team"`
	HomeTeamID int     `json:"home_team_id"`
	AwayTeam   string  `json:"away_team"`
	AwayTeamID int     `json:"away_team_id"`
	HomeScore  float64 `json:"home_score"`
	AwayScore  float64 `json:"away_score"`
	Week       int     `json:"week"`
}

// FreeAgent is an unrostered player available on waivers.
type FreeAgent struct {
	PlayerName   string  `json:"player_name"`
	Position     string  `json:"position"`
	ProTeam      string  `json:"pro_team"`
	TotalPoints  float64 `json:"total_points"`
	AvgPoints    float64 `json:"avg_points"`
	PercentOwned float64 `json:"percent_owned"`
}

// LeagueSettings captures the league-level configuration returned by ESPN.
type LeagueSettings struct {
	LeagueID         int    `json:"league_id"`
	Name             string `json:"name"`
	Year             int    `json:"year"`
	TeamCount        int    `json:"team_count"`
	RegSeasonCount   int    `json:"reg_season_count,omitempty"`
	PlayoffTeamCount int    `json:"playoff_team_count,omitempty"`
	CurrentWeek      int    `json:"current_week"`
}

// FantasySnapshot is one complete pull of league data. The sync service swaps
// the whole snapshot atomically; readers never see a partial refresh.
type FantasySnapshot struct {
	SyncedAt   time.Time            `json:"synced_at"`
	Date       string               `json:"date"`
	Settings   LeagueSettings       `json:"settings"`
	Teams      []FantasyTeam        `json:"teams"`
	Rosters    []FantasyRosterEntry `json:"rosters"`
	Matchups   []FantasyMatchup     `json:"matchups"`
	FreeAgents []FreeAgent          `json:"free_agents"`
}

// SyncResult summarizes one fantasy sync attempt.
type SyncResult struct {
	Timestamp       string   `json:"timestamp"`
	Status          string   `json:"status"`
	TeamsCount      int      `json:"teams_count"`
	RostersCount    int      `json:"rosters_count"`
	MatchupsCount   int      `json:"matchups_count"`
	FreeAgentsCount int      `json:"free_agents_count"`
	Errors          []string `json:"errors"`
}

// ScoringWeights maps counting stats to fantasy point values.
type ScoringWeights struct {
	Pts float64 `json:"pts"`
	Reb float64 `json:"reb"`
	Ast float64 `json:"ast"`
	Stl float64 `json:"stl"`
	Blk float64 `json:"blk"`
}

// DefaultScoringWeights returns the standard ESPN fantasy basketball scoring.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{Pts: 1.0, Reb: 1.2, Ast: 1.5, Stl: 3.0, Blk: 3.0}
}

// MergedRecord is a fantasy roster entry left-joined with a real box score
// line. The real-stat fields are nil when the player has no stat record for
// the date.
type MergedRecord struct {
	TeamID       int     `json:"team_id"`
	TeamName     string  `json:"team_name"`
	PlayerName   string  `json:"player_name"`
	Position     string  `json:"position"`
	ProTeam      string  `json:"pro_team"`
	TotalPoints  float64 `json:"total_points"`
	AvgPoints    float64 `json:"avg_points"`
	Injured      bool    `json:"injured"`
	InjuryStatus string  `json:"injury_status,omitempty"`

	GameID   string `json:"game_id,omitempty"`
	GameDate string `json:"game_date,omitempty"`
	RealTeam string `json:"real_team,omitempty"`
	Pts      *int   `json:"pts"`
	Reb      *int   `json:"reb"`
	Ast      *int   `json:"ast"`
	Stl      *int   `json:"stl"`
	Blk      *int   `json:"blk"`
	Min      string `json:"min,omitempty"`

	FantasyPtsEstimated float64  `json:"fantasy_pts_estimated"`
	PtsVariance         *float64 `json:"pts_variance,omitempty"`
	HasRealStats        bool     `json:"has_real_stats"`
	MissedGame          bool     `json:"missed_game"`
}

// PerformerRow is a trimmed merged record for the daily report's leaderboards.
type PerformerRow struct {
	PlayerName          string  `json:"player_name"`
	TeamName            string  `json:"team_name"`
	FantasyPtsEstimated float64 `json:"fantasy_pts_estimated"`
	Pts                 int     `json:"pts"`
	Reb                 int     `json:"reb"`
	Ast                 int     `json:"ast"`
}

// VarianceRow highlights players whose real production diverged from their
// fantasy point total.
type VarianceRow struct {
	PlayerName          string  `json:"player_name"`
	TeamName            string  `json:"team_name"`
	PtsVariance         float64 `json:"pts_variance"`
	TotalPoints         float64 `json:"total_points"`
	FantasyPtsEstimated float64 `json:"fantasy_pts_estimated"`
}

// InjuredRow lists a rostered player currently flagged as injured.
type InjuredRow struct {
	PlayerName   string `json:"player_name"`
	TeamName     string `json:"team_name"`
	InjuryStatus string `json:"injury_status"`
}

// DailyReport is the merged fantasy/real-stats report for one date.
type DailyReport struct {
	Date            string         `json:"date"`
	Timestamp       string         `json:"timestamp"`
	TopPerformers   []PerformerRow `json:"top_performers"`
	Underperformers []VarianceRow  `json:"underperformers"`
	InjuredPlayers  []InjuredRow   `json:"injured_players"`
	Error           string         `json:"error,omitempty"`
}
