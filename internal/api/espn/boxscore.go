package espn

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/omarshaarawi/gameday/internal/models"
	"github.com/omarshaarawi/gameday/internal/probability"
)

// GetBoxscores returns every matchup of the week with per-starter lines and
// the rosters the win probability estimate runs on.
func (a *API) GetBoxscores(ctx context.Context, week int) ([]models.MatchupBoxscore, error) {
	var leagueResponse models.LeagueResponse
	params := map[string]string{
		"view":            "mMatchupScore,mScoreboard,mTeam",
		"scoringPeriodId": strconv.Itoa(week),
	}

	headers, err := matchupFilter(week)
	if err != nil {
		return nil, err
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, headers, &leagueResponse); err != nil {
		return nil, fmt.Errorf("fetching boxscores: %w", err)
	}

	schedule, err := a.GetProSchedule(ctx)
	if err != nil {
		return nil, err
	}

	names := teamNames(leagueResponse.Teams)
	now := a.now()

	var boxscores []models.MatchupBoxscore
	for _, match := range leagueResponse.Schedule {
		if !inWeek(match, week) {
			continue
		}
		boxscores = append(boxscores, models.MatchupBoxscore{
			MatchID:     match.ID,
			Home:        boxscoreTeam(match.Home, names, schedule, week, now),
			Away:        boxscoreTeam(match.Away, names, schedule, week, now),
			IsCompleted: isCompleted(match),
		})
	}
	return boxscores, nil
}

func boxscoreTeam(ts models.TeamScore, names map[int]string, schedule *ProSchedule, week int, now time.Time) models.BoxscoreTeam {
	score, projected := getScoreAndProjected(ts)

	team := models.BoxscoreTeam{
		TeamID:    ts.TeamID,
		TeamName:  names[ts.TeamID],
		Score:     score,
		Projected: projected,
		Roster: probability.TeamRoster{
			TotalActual:    probability.Points(score),
			TotalProjected: probability.Points(projected),
		},
	}

	for _, entry := range ts.RosterForCurrentScoringPeriod.Entries {
		if !isStartingLineup(entry.LineupSlotID) {
			continue
		}
		player := entry.PlayerPoolEntry.Player

		actual, hasActual := statTotal(player, week, models.StatSourceActual)
		line := models.PlayerLine{
			Name:       player.FullName,
			Position:   getPositionString(player.DefaultPositionID),
			LineupSlot: getLineupSlotString(entry.LineupSlotID),
			Actual:     actual,
			State:      schedule.GameState(week, player.ProTeamID, hasActual, now),
		}
		if proj, ok := statTotal(player, week, models.StatSourceProjected); ok {
			line.Projected = probability.Points(proj)
		}

		team.Players = append(team.Players, line)
		team.Roster.Starters = append(team.Roster.Starters, starterEntry(line))
	}

	sortLines(team.Players)
	return team
}

func starterEntry(line models.PlayerLine) probability.StarterEntry {
	entry := probability.StarterEntry{
		PointsActual:    probability.Points(line.Actual),
		PointsProjected: line.Projected,
	}

	switch line.State {
	case models.GameFinal, models.GameBye:
		entry.HasPlayed = true
	case models.GameInProgress:
		entry.IsPlaying = true
	default:
		entry.NotPlayed = true
	}
	return entry
}
