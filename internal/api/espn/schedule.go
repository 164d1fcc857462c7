package espn

import (
	"strconv"
	"time"

	"github.com/omarshaarawi/gameday/internal/models"
)

// A pro game is treated as over this long after kickoff even before ESPN
// marks its stats official.
const gameLength = 4 * time.Hour

type ProSchedule struct {
	byeWeeks map[int]int
	games    map[int]map[int]models.ProGame
}

func newProSchedule(teams []models.ProTeam) *ProSchedule {
	s := &ProSchedule{
		byeWeeks: make(map[int]int),
		games:    make(map[int]map[int]models.ProGame),
	}

	for _, team := range teams {
		if team.ByeWeek > 0 {
			s.byeWeeks[team.ID] = team.ByeWeek
		}
		for key, games := range team.ProGamesByScoringPeriod {
			period, err := strconv.Atoi(key)
			if err != nil {
				continue
			}
			for _, game := range games {
				if s.games[period] == nil {
					s.games[period] = make(map[int]models.ProGame)
				}
				s.games[period][game.HomeProTeamID] = game
				s.games[period][game.AwayProTeamID] = game
			}
		}
	}
	return s
}

func (s *ProSchedule) ByeWeek(proTeamID int) int {
	return s.byeWeeks[proTeamID]
}

func (s *ProSchedule) Game(period, proTeamID int) (models.ProGame, bool) {
	game, ok := s.games[period][proTeamID]
	return game, ok
}

// GameState places a pro team's game for the period relative to now. With no
// game on record the state falls back to whether stats have started arriving.
func (s *ProSchedule) GameState(period, proTeamID int, hasStats bool, now time.Time) models.GameState {
	if s.ByeWeek(proTeamID) == period {
		return models.GameBye
	}

	game, ok := s.Game(period, proTeamID)
	if !ok {
		if hasStats {
			return models.GameInProgress
		}
		return models.GameNotStarted
	}

	kickoff := time.UnixMilli(game.Date)
	switch {
	case game.StatsOfficial || now.Sub(kickoff) >= gameLength:
		return models.GameFinal
	case !now.Before(kickoff):
		return models.GameInProgress
	default:
		return models.GameNotStarted
	}
}
