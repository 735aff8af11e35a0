package models

// StatRecord is a single player box score line normalized from one of the
// external providers. Pts, Reb and Ast are pointers so a stat that was missing
// from the provider payload is distinguishable from a genuine zero; the
// validator rejects batches carrying nil values for any of the three.
type StatRecord struct {
	GameID       string  `json:"game_id"`
	GameDate     string  `json:"game_date"`
	Player       string  `json:"player"`
	Team         string  `json:"team"`
	Pts          *int    `json:"pts"`
	Reb          *int    `json:"reb"`
	Ast          *int    `json:"ast"`
	Stl          int     `json:"stl"`
	Blk          int     `json:"blk"`
	FGPct        float64 `json:"fg_pct"`
	FG3Pct       float64 `json:"fg3_pct"`
	FTPct        float64 `json:"ft_pct"`
	Min          string  `json:"min"`
	Source       string  `json:"source"`
	TimestampUTC string  `json:"timestamp_utc"`
}

// FetchResult is the outcome of one fallback-controller call. Errors collects
// one entry per provider that failed or returned unusable data.
type FetchResult struct {
	Success   bool         `json:"success"`
	Date      string       `json:"date"`
	GameID    string       `json:"game_id,omitempty"`
	Source    string       `json:"source"`
	Boxscores []StatRecord `json:"boxscores"`
	Errors    []string     `json:"errors"`
}

// IntPtr returns a pointer to v. Convenience for building StatRecord literals.
func IntPtr(v int) *int {
	return &v
}

// IntOrZero dereferences p, treating nil as zero.
func IntOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
