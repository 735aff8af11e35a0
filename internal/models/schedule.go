package models

// TeamSummary is one side of a scheduled or completed game.
type TeamSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Logo         string `json:"logo"`
	Score        string `json:"score"`
	Record       string `json:"record"`
}

// Game is a single entry on the daily schedule, sourced from the public
// scoreboard feed.
type Game struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Date   string       `json:"date"`
	Status string       `json:"status"`
	State  string       `json:"state"`
	Home   *TeamSummary `json:"home"`
	Away   *TeamSummary `json:"away"`
}

// PlayerInfo identifies a player looked up by name.
type PlayerInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// PlayerGameLine is one game from a player's game log.
type PlayerGameLine struct {
	GameID   string  `json:"game_id"`
	GameDate string  `json:"game_date"`
	Matchup  string  `json:"matchup"`
	Result   string  `json:"result"`
	Min      string  `json:"min"`
	Pts      int     `json:"pts"`
	Reb      int     `json:"reb"`
	Ast      int     `json:"ast"`
	Stl      int     `json:"stl"`
	Blk      int     `json:"blk"`
	FGPct    float64 `json:"fg_pct"`
}
