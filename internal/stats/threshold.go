package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/courtwatch/stattracker/internal/models"
)

const (
	LogicAny = "any"
	LogicAll = "all"
)

// Default thresholds applied when the caller provides none.
const (
	defaultPtsThreshold = 20
	defaultAstThreshold = 5
	defaultRebThreshold = 7
)

// ThresholdSpec holds the per-metric minimums a stat line must meet. A nil
// threshold is excluded from consideration entirely, it does not default to
// zero. Logic controls how multiple provided thresholds combine.
type ThresholdSpec struct {
	Pts   *int   `json:"pts"`
	Ast   *int   `json:"ast"`
	Reb   *int   `json:"reb"`
	Logic string `json:"logic"`
}

// Provided reports whether at least one threshold was supplied.
func (s ThresholdSpec) Provided() bool {
	return s.Pts != nil || s.Ast != nil || s.Reb != nil
}

// Summary renders a readable description of the applied thresholds.
func (s ThresholdSpec) Summary() string {
	var parts []string
	if s.Pts != nil {
		parts = append(parts, fmt.Sprintf("%d+ PTS", *s.Pts))
	}
	if s.Ast != nil {
		parts = append(parts, fmt.Sprintf("%d+ AST", *s.Ast))
	}
	if s.Reb != nil {
		parts = append(parts, fmt.Sprintf("%d+ REB", *s.Reb))
	}
	if len(parts) == 0 {
		return "20+ PTS, 5+ AST, 7+ REB (defaults, any)"
	}
	return strings.Join(parts, ", ")
}

// Qualifies decides whether a stat line meets the provided thresholds. With no
// thresholds set the fixed default rule applies (20 pts OR 5 ast OR 7 reb) and
// Logic is ignored.
func Qualifies(pts, ast, reb float64, spec ThresholdSpec) bool {
	if !spec.Provided() {
		return pts >= defaultPtsThreshold || ast >= defaultAstThreshold || reb >= defaultRebThreshold
	}

	var checks []bool
	if spec.Pts != nil {
		checks = append(checks, pts >= float64(*spec.Pts))
	}
	if spec.Ast != nil {
		checks = append(checks, ast >= float64(*spec.Ast))
	}
	if spec.Reb != nil {
		checks = append(checks, reb >= float64(*spec.Reb))
	}

	if spec.Logic == LogicAll {
		for _, ok := range checks {
			if !ok {
				return false
			}
		}
		return true
	}
	for _, ok := range checks {
		if ok {
			return true
		}
	}
	return false
}

// PlayerLine is a qualified player row as served by the stats endpoint.
type PlayerLine struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Pts    int    `json:"pts"`
	Reb    int    `json:"reb"`
	Ast    int    `json:"ast"`
}

// QualifiedLines filters records against the thresholds, deduplicates identical
// lines and sorts by the provided metrics (points, then assists, then
// rebounds, descending).
func QualifiedLines(records []models.StatRecord, spec ThresholdSpec) []PlayerLine {
	seen := make(map[PlayerLine]struct{})
	lines := make([]PlayerLine, 0, len(records))
	for _, r := range records {
		pts := models.IntOrZero(r.Pts)
		reb := models.IntOrZero(r.Reb)
		ast := models.IntOrZero(r.Ast)
		if !Qualifies(float64(pts), float64(ast), float64(reb), spec) {
			continue
		}
		line := PlayerLine{Player: r.Player, Team: r.Team, Pts: pts, Reb: reb, Ast: ast}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}

	keys := sortKeys(spec)
	sort.SliceStable(lines, func(i, j int) bool {
		for _, k := range keys {
			a, b := statByKey(lines[i], k), statByKey(lines[j], k)
			if a != b {
				return a > b
			}
		}
		return false
	})
	return lines
}

// sortKeys orders the sort columns by which thresholds were provided; with no
// thresholds all three metrics apply.
func sortKeys(spec ThresholdSpec) []string {
	if !spec.Provided() {
		return []string{"pts", "ast", "reb"}
	}
	var keys []string
	if spec.Pts != nil {
		keys = append(keys, "pts")
	}
	if spec.Ast != nil {
		keys = append(keys, "ast")
	}
	if spec.Reb != nil {
		keys = append(keys, "reb")
	}
	return keys
}

func statByKey(l PlayerLine, key string) int {
	switch key {
	case "ast":
		return l.Ast
	case "reb":
		return l.Reb
	default:
		return l.Pts
	}
}
