package probability

import "math"

// LogisticSlope is the steepness of the score-differential curve. A 50 point
// lead lands near 73%, so blowouts approach certainty without reaching it.
const LogisticSlope = 0.02

// Points a team needs before its total is trusted over its projection.
const simpleStartedPoints = 5.0

// WinProbability estimates the chance that a team finishes ahead of its opponent.
// A side with every starter finished locks the result whenever the scores differ.
func WinProbability(teamScore, opponentScore float64, teamAllDone, opponentAllDone bool) float64 {
	diff := finite(teamScore) - finite(opponentScore)

	switch {
	case teamAllDone && diff < 0:
		return 0
	case teamAllDone && diff > 0:
		return 1
	case opponentAllDone && diff < 0:
		return 0
	case opponentAllDone && diff > 0:
		return 1
	case teamAllDone && opponentAllDone:
		// only reachable on a tie
		return 0.5
	}

	p := 1 / (1 + math.Exp(-LogisticSlope*diff))
	return math.Max(0, math.Min(1, p))
}

// MatchupProbabilities estimates both teams' win chances from full rosters.
func MatchupProbabilities(team1, team2 TeamRoster) WinProbabilityResult {
	team1Expected := ExpectedTotal(team1)
	team2Expected := ExpectedTotal(team2)
	team1Done := AllStartersDone(team1)
	team2Done := AllStartersDone(team2)

	p1 := WinProbability(team1Expected, team2Expected, team1Done, team2Done)
	p2 := WinProbability(team2Expected, team1Expected, team2Done, team1Done)
	return normalize(p1, p2)
}

// SimpleMatchupProbabilities estimates win chances from team totals alone.
//
// Game state is guessed, not known: a team is taken as finished once it has
// matched its projection with more than a handful of points, and its expected
// score is its projection until it has started scoring or beaten it.
func SimpleMatchupProbabilities(team1, team2 SimpleTeamScore) WinProbabilityResult {
	team1Expected, team1Done := simpleExpected(team1)
	team2Expected, team2Done := simpleExpected(team2)

	p1 := WinProbability(team1Expected, team2Expected, team1Done, team2Done)
	p2 := WinProbability(team2Expected, team1Expected, team2Done, team1Done)
	return normalize(p1, p2)
}

func simpleExpected(t SimpleTeamScore) (float64, bool) {
	actual := finite(t.Score)
	projected := finite(t.ProjectedScore)

	done := actual >= projected && actual > simpleStartedPoints

	switch {
	case actual < simpleStartedPoints:
		return projected, done
	case actual >= projected:
		return actual, done
	default:
		return projected, done
	}
}

func normalize(p1, p2 float64) WinProbabilityResult {
	total := p1 + p2
	if total > 0 {
		return WinProbabilityResult{Team1WinProb: p1 / total, Team2WinProb: p2 / total}
	}
	return WinProbabilityResult{Team1WinProb: 0.5, Team2WinProb: 0.5}
}
