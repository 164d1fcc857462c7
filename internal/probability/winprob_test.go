package probability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func played(actual float64) StarterEntry {
	return StarterEntry{HasPlayed: true, PointsActual: Points(actual)}
}

func playing(actual, projected float64) StarterEntry {
	return StarterEntry{IsPlaying: true, PointsActual: Points(actual), PointsProjected: Points(projected)}
}

func pending(projected float64) StarterEntry {
	return StarterEntry{NotPlayed: true, PointsProjected: Points(projected)}
}

func TestExpectedTotal(t *testing.T) {
	team := TeamRoster{
		Starters: []StarterEntry{
			played(12),
			playing(8, 15),
			pending(20),
			{NotPlayed: true},
		},
		TotalActual: Points(20),
	}
	assert.InDelta(t, 40.0, ExpectedTotal(team), 1e-9)
}

func TestExpectedTotalUsesReportedTotalWhenNothingPending(t *testing.T) {
	team := TeamRoster{
		Starters:    []StarterEntry{played(10), playing(11, 14)},
		TotalActual: Points(22.5),
	}
	assert.InDelta(t, 22.5, ExpectedTotal(team), 1e-9)

	team.TotalActual = nil
	assert.InDelta(t, 21.0, ExpectedTotal(team), 1e-9)
}

func TestAllStartersDone(t *testing.T) {
	assert.True(t, AllStartersDone(TeamRoster{Starters: []StarterEntry{played(1), played(2)}}))
	assert.False(t, AllStartersDone(TeamRoster{Starters: []StarterEntry{played(1), playing(2, 3)}}))
	assert.False(t, AllStartersDone(TeamRoster{Starters: []StarterEntry{played(1), pending(3)}}))
	assert.True(t, AllStartersDone(TeamRoster{}))
}

func TestWinProbabilityOverrides(t *testing.T) {
	tests := []struct {
		name           string
		team, opponent float64
		teamDone       bool
		opponentDone   bool
		want           float64
	}{
		{"team done behind", 90, 100, true, false, 0},
		{"team done ahead", 110, 100, true, false, 1},
		{"opponent done behind", 90, 100, false, true, 0},
		{"opponent done ahead", 110, 100, false, true, 1},
		{"both done tied", 100, 100, true, true, 0.5},
		{"neither done tied", 100, 100, false, false, 0.5},
		{"team done tied", 100, 100, true, false, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WinProbability(tt.team, tt.opponent, tt.teamDone, tt.opponentDone))
		})
	}
}

func TestWinProbabilityLogistic(t *testing.T) {
	assert.InDelta(t, 0.5498, WinProbability(110, 100, false, false), 1e-4)
	assert.InDelta(t, 0.7311, WinProbability(150, 100, false, false), 1e-4)
	assert.InDelta(t, 0.2689, WinProbability(100, 150, false, false), 1e-4)
}

func TestWinProbabilityMonotonic(t *testing.T) {
	prev := -1.0
	for diff := -500.0; diff <= 500; diff += 2.5 {
		p := WinProbability(100+diff, 100, false, false)
		assert.GreaterOrEqual(t, p, prev, "diff %v", diff)
		prev = p
	}
}

func TestWinProbabilityBounds(t *testing.T) {
	scores := []float64{-1e6, -100, 0, 0.5, 99.9, 100, 1e6, math.Inf(1), math.NaN()}
	for _, a := range scores {
		for _, b := range scores {
			for _, done := range [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}} {
				p := WinProbability(a, b, done[0], done[1])
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 1.0)
			}
		}
	}
}

func TestMatchupProbabilitiesBothFinished(t *testing.T) {
	team1 := TeamRoster{Starters: []StarterEntry{played(60), played(55)}, TotalActual: Points(120)}
	team2 := TeamRoster{Starters: []StarterEntry{played(50), played(45)}, TotalActual: Points(100)}

	result := MatchupProbabilities(team1, team2)
	assert.Equal(t, 1.0, result.Team1WinProb)
	assert.Equal(t, 0.0, result.Team2WinProb)
}

func TestMatchupProbabilitiesTiedAgainstFinishedTeam(t *testing.T) {
	team1 := TeamRoster{
		Starters: []StarterEntry{
			playing(15, 12),
			pending(40),
			pending(45),
		},
		TotalActual: Points(15),
	}
	team2 := TeamRoster{Starters: []StarterEntry{played(50), played(50)}, TotalActual: Points(100)}

	assert.InDelta(t, 100.0, ExpectedTotal(team1), 1e-9)
	result := MatchupProbabilities(team1, team2)
	assert.InDelta(t, 0.5, result.Team1WinProb, 1e-9)
	assert.InDelta(t, 0.5, result.Team2WinProb, 1e-9)
}

func TestMatchupProbabilitiesSumAndSymmetry(t *testing.T) {
	rosters := []TeamRoster{
		{Starters: []StarterEntry{played(20), playing(5, 14), pending(18)}, TotalActual: Points(25)},
		{Starters: []StarterEntry{pending(22), pending(16), pending(9)}},
		{Starters: []StarterEntry{played(31), played(4)}, TotalActual: Points(35)},
		{Starters: []StarterEntry{played(10), played(25.5)}, TotalActual: Points(35)},
		{Starters: []StarterEntry{playing(40, 20), pending(10)}},
	}

	for i, a := range rosters {
		for j, b := range rosters {
			ab := MatchupProbabilities(a, b)
			ba := MatchupProbabilities(b, a)
			assert.InDelta(t, 1.0, ab.Team1WinProb+ab.Team2WinProb, 1e-9, "rosters %d vs %d", i, j)
			assert.Equal(t, ab.Team1WinProb, ba.Team2WinProb, "rosters %d vs %d", i, j)
			assert.Equal(t, ab.Team2WinProb, ba.Team1WinProb, "rosters %d vs %d", i, j)
		}
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	assert.Equal(t, WinProbabilityResult{Team1WinProb: 0.5, Team2WinProb: 0.5}, normalize(0, 0))
	assert.Equal(t, WinProbabilityResult{Team1WinProb: 0.25, Team2WinProb: 0.75}, normalize(0.25, 0.75))
}

func TestSimpleMatchupProbabilities(t *testing.T) {
	result := SimpleMatchupProbabilities(
		SimpleTeamScore{Score: 0, ProjectedScore: 110},
		SimpleTeamScore{Score: 95, ProjectedScore: 100},
	)

	want := 1 / (1 + math.Exp(-0.2))
	assert.InDelta(t, want, result.Team1WinProb, 1e-9)
	assert.InDelta(t, 1-want, result.Team2WinProb, 1e-9)
}

func TestSimpleMatchupProbabilitiesFinishedTeam(t *testing.T) {
	result := SimpleMatchupProbabilities(
		SimpleTeamScore{Score: 118, ProjectedScore: 104},
		SimpleTeamScore{Score: 60, ProjectedScore: 101},
	)
	assert.Equal(t, 1.0, result.Team1WinProb)
	assert.Equal(t, 0.0, result.Team2WinProb)
}

func TestSimpleExpected(t *testing.T) {
	tests := []struct {
		name     string
		score    SimpleTeamScore
		expected float64
		done     bool
	}{
		{"not started", SimpleTeamScore{Score: 3, ProjectedScore: 100}, 100, false},
		{"low projection not trusted", SimpleTeamScore{Score: 4, ProjectedScore: 2}, 2, false},
		{"in progress", SimpleTeamScore{Score: 60, ProjectedScore: 100}, 100, false},
		{"beat projection", SimpleTeamScore{Score: 105, ProjectedScore: 100}, 105, true},
		{"exactly five", SimpleTeamScore{Score: 5, ProjectedScore: 5}, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected, done := simpleExpected(tt.score)
			assert.Equal(t, tt.expected, expected)
			assert.Equal(t, tt.done, done)
		})
	}
}
