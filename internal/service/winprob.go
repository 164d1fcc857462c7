package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/gameday/internal/metrics"
	"github.com/omarshaarawi/gameday/internal/models"
	"github.com/omarshaarawi/gameday/internal/probability"
)

var ErrTeamNotFound = errors.New("team not found")

const oddsBarWidth = 10

var statusBadge = map[probability.StatusType]string{
	probability.StatusBoom:  "💥 boom",
	probability.StatusBust:  "🧊 bust",
	probability.StatusAbove: "📈 above",
	probability.StatusBelow: "📉 below",
}

// GetWinProbabilities reports per-matchup odds from each team's starting lineup.
func (s *FantasyService) GetWinProbabilities(ctx context.Context) (string, error) {
	week, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching current week: %w", err)
	}

	boxscores, err := s.api.GetBoxscores(ctx, week)
	if err != nil {
		return "", fmt.Errorf("error fetching boxscores: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📈 *Week %d Win Probability*\n\n", week))

	if len(boxscores) == 0 {
		sb.WriteString("No matchups this week.")
		return sb.String(), nil
	}

	for _, box := range boxscores {
		odds := probability.MatchupProbabilities(box.Home.Roster, box.Away.Roster)
		metrics.WinProbabilityCalculationsTotal.WithLabelValues("roster").Inc()

		sb.WriteString(formatOddsTeam(box.Home, odds.Team1WinProb))
		sb.WriteString(formatOddsTeam(box.Away, odds.Team2WinProb))
		if box.IsCompleted {
			sb.WriteString("(Final)\n")
		} else {
			sb.WriteString(fmt.Sprintf("Yet to play: %d vs %d\n", yetToPlay(box.Home), yetToPlay(box.Away)))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func formatOddsTeam(team models.BoxscoreTeam, prob float64) string {
	return fmt.Sprintf("*%s* %.2f (proj %.2f)\n%s %s\n",
		team.TeamName, team.Score, probability.ExpectedTotal(team.Roster), oddsBar(prob), percent(prob))
}

func yetToPlay(team models.BoxscoreTeam) int {
	n := 0
	for _, p := range team.Players {
		if p.State == models.GameNotStarted || p.State == models.GameInProgress {
			n++
		}
	}
	return n
}

// simpleOddsLine estimates odds from the scoreboard totals alone.
func simpleOddsLine(score models.CurrentScore) string {
	odds := probability.SimpleMatchupProbabilities(
		probability.SimpleTeamScore{Score: score.HomeScore, ProjectedScore: score.HomeProjected},
		probability.SimpleTeamScore{Score: score.AwayScore, ProjectedScore: score.AwayProjected},
	)
	metrics.WinProbabilityCalculationsTotal.WithLabelValues("simple").Inc()

	return fmt.Sprintf("Win odds: %s - %s\n", percent(odds.Team1WinProb), percent(odds.Team2WinProb))
}

func percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

func oddsBar(p float64) string {
	filled := int(p*oddsBarWidth + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > oddsBarWidth {
		filled = oddsBarWidth
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", oddsBarWidth-filled)
}

// GetBoomBust classifies every starter on the named team against projection.
func (s *FantasyService) GetBoomBust(ctx context.Context, teamName string) (string, error) {
	week, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching current week: %w", err)
	}

	boxscores, err := s.api.GetBoxscores(ctx, week)
	if err != nil {
		return "", fmt.Errorf("error fetching boxscores: %w", err)
	}

	team, err := findBoxscoreTeam(boxscores, teamName)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💥 *%s's Week %d Boom/Bust*\n\n", team.TeamName, week))

	for _, line := range team.Players {
		sb.WriteString(formatBoomBustLine(line))
	}

	return sb.String(), nil
}

func formatBoomBustLine(line models.PlayerLine) string {
	proj := 0.0
	if line.Projected != nil {
		proj = *line.Projected
	}
	head := fmt.Sprintf("▫️ %s %s - %.2f (proj %.2f)", line.LineupSlot, line.Name, line.Actual, proj)

	if line.State == models.GameNotStarted || line.State == models.GameBye {
		return fmt.Sprintf("%s %s\n", head, line.State)
	}

	status := probability.Classify(line.Actual, line.Projected)
	if status == nil {
		return fmt.Sprintf("%s on target\n", head)
	}
	return fmt.Sprintf("%s %s %+.1f (%+.0f%%)\n", head, statusBadge[status.Type], status.Diff, status.Percentage)
}

// findBoxscoreTeam picks the closest team name in the week's boxscores.
func findBoxscoreTeam(boxscores []models.MatchupBoxscore, teamName string) (models.BoxscoreTeam, error) {
	var teams []models.BoxscoreTeam
	var names []string
	for _, box := range boxscores {
		for _, t := range []models.BoxscoreTeam{box.Home, box.Away} {
			teams = append(teams, t)
			names = append(names, t.TeamName)
		}
	}

	ranks := fuzzy.RankFindFold(teamName, names)
	if len(ranks) == 0 {
		return models.BoxscoreTeam{}, fmt.Errorf("%w: %s", ErrTeamNotFound, teamName)
	}
	sort.Sort(ranks)
	return teams[ranks[0].OriginalIndex], nil
}
