package boxscore

import (
	"errors"
	"fmt"

	"github.com/courtwatch/stattracker/internal/models"
)

// Hard bounds on a single-game stat line. Anything outside means the provider
// handed back garbage.
const (
	maxPts = 100
	maxReb = 40
	maxAst = 30
)

// Validate checks a batch of records before the fallback controller accepts
// them. Validation is all-or-nothing: one bad record invalidates the entire
// batch. Returns nil when the batch is acceptable.
func Validate(records []models.StatRecord) error {
	if len(records) == 0 {
		return errors.New("empty batch")
	}

	for i, r := range records {
		if r.GameID == "" || r.GameDate == "" || r.Player == "" || r.Team == "" {
			return fmt.Errorf("record %d (%q) is missing identity fields", i, r.Player)
		}
		if r.Pts == nil {
			return fmt.Errorf("record %d (%q) is missing pts", i, r.Player)
		}
		if r.Reb == nil {
			return fmt.Errorf("record %d (%q) is missing reb", i, r.Player)
		}
		if r.Ast == nil {
			return fmt.Errorf("record %d (%q) is missing ast", i, r.Player)
		}
		if *r.Pts < 0 || *r.Pts > maxPts {
			return fmt.Errorf("record %d (%q) has out-of-bounds pts %d", i, r.Player, *r.Pts)
		}
		if *r.Reb < 0 || *r.Reb > maxReb {
			return fmt.Errorf("record %d (%q) has out-of-bounds reb %d", i, r.Player, *r.Reb)
		}
		if *r.Ast < 0 || *r.Ast > maxAst {
			return fmt.Errorf("record %d (%q) has out-of-bounds ast %d", i, r.Player, *r.Ast)
		}
	}
	return nil
}
