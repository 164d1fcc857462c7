// Package probability estimates fantasy matchup win probabilities and
// classifies player performance against projections. Every function is pure.
package probability

import "math"

// StarterEntry is one player's contribution to a lineup slot for a scoring period.
// Nil point values mean the figure is absent and are treated as zero.
type StarterEntry struct {
	HasPlayed       bool     `json:"hasPlayed"`
	IsPlaying       bool     `json:"isPlaying"`
	NotPlayed       bool     `json:"notPlayed"`
	PointsActual    *float64 `json:"pointsActual"`
	PointsProjected *float64 `json:"pointsProjected"`
}

// TeamRoster is one fantasy team's starting lineup for one week.
type TeamRoster struct {
	Starters       []StarterEntry `json:"starters"`
	TotalActual    *float64       `json:"totalActual"`
	TotalProjected *float64       `json:"totalProjected,omitempty"`
}

// SimpleTeamScore is used when only aggregate figures are known.
type SimpleTeamScore struct {
	Score          float64 `json:"score"`
	ProjectedScore float64 `json:"projectedScore"`
}

type WinProbabilityResult struct {
	Team1WinProb float64 `json:"team1WinProb"`
	Team2WinProb float64 `json:"team2WinProb"`
}

// Points returns a pointer to v, for building rosters in literals.
func Points(v float64) *float64 {
	return &v
}

// value coalesces absent and non-finite figures to zero.
func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return finite(*p)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
