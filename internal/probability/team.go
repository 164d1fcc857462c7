package probability

// countsActual reports whether a starter's actual points stand in for their
// projection: the game is over or in progress.
func countsActual(s StarterEntry) bool {
	return s.HasPlayed || s.IsPlaying
}

// ExpectedTotal estimates a team's final score. Starters who have played or are
// playing contribute actual points, the rest contribute their projection. Once no
// starter is pending, the reported team total wins over the per-starter sum.
func ExpectedTotal(team TeamRoster) float64 {
	total := 0.0
	allDone := true

	for _, s := range team.Starters {
		if countsActual(s) {
			total += value(s.PointsActual)
			continue
		}
		total += value(s.PointsProjected)
		allDone = false
	}

	if allDone && team.TotalActual != nil {
		return value(team.TotalActual)
	}
	return total
}

// AllStartersDone reports whether every starter has finished playing.
// A starter still in a live game does not count.
func AllStartersDone(team TeamRoster) bool {
	for _, s := range team.Starters {
		if !s.HasPlayed {
			return false
		}
	}
	return true
}
