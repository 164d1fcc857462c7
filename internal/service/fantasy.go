package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/omarshaarawi/gameday/internal/models"
	"github.com/omarshaarawi/gameday/internal/repository/memory"
)

type LeagueAPI interface {
	GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error)
	GetTeamNames(ctx context.Context) (map[int]string, error)
	GetStandings(ctx context.Context) ([]models.TeamStanding, error)
	GetCurrentScores(ctx context.Context, week int) ([]models.CurrentScore, error)
	GetBoxscores(ctx context.Context, week int) ([]models.MatchupBoxscore, error)
	WhoHas(ctx context.Context, playerName string, week int) (models.WhoHasResult, error)
	GetPlayersToMonitor(ctx context.Context, week int) (models.PlayersToMonitorReport, error)
	GetTeamRoster(ctx context.Context, teamName string, week int) (models.RosterReport, error)
}

const closeGameMargin = 16

type FantasyService struct {
	api  LeagueAPI
	repo *memory.Repository
}

func NewFantasyService(api LeagueAPI, repo *memory.Repository) *FantasyService {
	return &FantasyService{api: api, repo: repo}
}

func (s *FantasyService) GetCurrentWeek(ctx context.Context) (int, error) {
	metadata, err := s.getLeagueMetadata(ctx)
	if err != nil {
		return 0, err
	}

	slog.Info("Current week", "week", metadata.CurrentWeek)
	return metadata.CurrentWeek, nil
}

func (s *FantasyService) getLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	metadata := s.repo.GetMetadata()
	if metadata == nil || time.Since(metadata.LastUpdated) > 24*time.Hour {
		newMetadata, err := s.api.GetLeagueMetadata(ctx)
		if err != nil {
			return nil, err
		}
		s.repo.SaveMetadata(newMetadata)
		return newMetadata, nil
	}
	return metadata, nil
}

func (s *FantasyService) teamName(ctx context.Context, teamID int) string {
	names := s.repo.GetTeamNames()
	if names == nil {
		fetched, err := s.api.GetTeamNames(ctx)
		if err != nil {
			slog.Error("Failed to fetch team names", "error", err)
			return "Unknown"
		}
		s.repo.SaveTeamNames(fetched)
		names = fetched
	}

	name, ok := names[teamID]
	if !ok {
		return "Unknown"
	}
	return name
}

func (s *FantasyService) GetStandings(ctx context.Context) (string, error) {
	standings, err := s.api.GetStandings(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching standings: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("🏆 *Current Standings*\n\n")
	for _, team := range standings {
		sb.WriteString(fmt.Sprintf("%d. *%s*\n", team.Rank, team.TeamName))
		sb.WriteString(fmt.Sprintf("   Record: %d-%d-%d\n", team.Wins, team.Losses, team.Ties))
		sb.WriteString(fmt.Sprintf("   Points For: %.2f\n", team.PointsFor))
		sb.WriteString(fmt.Sprintf("   Points Against: %.2f\n\n", team.PointsAgainst))
	}

	return sb.String(), nil
}

func (s *FantasyService) GetCurrentScores(ctx context.Context) (string, error) {
	week, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching current week: %w", err)
	}

	scores, err := s.api.GetCurrentScores(ctx, week)
	if err != nil {
		return "", fmt.Errorf("error fetching current scores: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 *Week %d Current Scores*\n\n", week))

	for _, score := range scores {
		homeTeam := s.teamName(ctx, score.HomeTeamID)
		awayTeam := s.teamName(ctx, score.AwayTeamID)

		sb.WriteString(fmt.Sprintf("*%s* vs *%s*\n", homeTeam, awayTeam))
		sb.WriteString(fmt.Sprintf("Current: %.2f - %.2f\n", score.HomeScore, score.AwayScore))
		sb.WriteString(fmt.Sprintf("Projected: %.2f - %.2f\n", score.HomeProjected, score.AwayProjected))

		if score.IsCompleted {
			sb.WriteString("(Final)\n")
		} else {
			sb.WriteString(simpleOddsLine(score))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (s *FantasyService) WhoHas(ctx context.Context, playerName string) (string, error) {
	week, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching current week: %w", err)
	}

	result, err := s.api.WhoHas(ctx, playerName, week)
	if err != nil {
		return "", fmt.Errorf("error checking who has player: %w", err)
	}

	if !result.Found {
		return fmt.Sprintf("🔍 No player found matching '%s'.", playerName), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s - %s)\n", result.PlayerName, result.Position, result.ProTeam))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")

	if result.TeamID != 0 {
		sb.WriteString(fmt.Sprintf("*%s*\n", result.TeamName))
		if result.LineupSlot == "Bench" || result.LineupSlot == "IR" {
			sb.WriteString(fmt.Sprintf("%s\n", result.LineupSlot))
		} else {
			sb.WriteString("Starting\n")
		}
	} else {
		sb.WriteString("Free Agent\n")
	}

	pointsStr := "TBD"
	if result.Points > 0 {
		pointsStr = fmt.Sprintf("%.2f", result.Points)
	}

	sb.WriteString(fmt.Sprintf("\n%s pts", pointsStr))
	if result.IsProjected {
		sb.WriteString(" (Projected)")
	}

	sb.WriteString(fmt.Sprintf("\n%0.1f%% Rostered", result.PercentOwned))

	return sb.String(), nil
}

func (s *FantasyService) GetPlayersToMonitor(ctx context.Context) (string, error) {
	week, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching current week: %w", err)
	}

	report, err := s.api.GetPlayersToMonitor(ctx, week)
	if err != nil {
		return "", fmt.Errorf("error fetching players to monitor: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚑 *Week %d Players to Monitor*\n\n", week))

	if len(report.Teams) == 0 {
		sb.WriteString("No players to monitor at this time.")
		return sb.String(), nil
	}

	for _, team := range report.Teams {
		sb.WriteString(fmt.Sprintf("*%s:*\n", team.TeamName))
		for _, player := range team.Players {
			sb.WriteString(fmt.Sprintf("  • %s %s - %s\n", player.Position, player.Name, player.InjuryStatus))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (s *FantasyService) GetFinalScoreReport(ctx context.Context) (string, error) {
	week, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching current week: %w", err)
	}

	currentScores, err := s.api.GetCurrentScores(ctx, week)
	if err != nil {
		return "", fmt.Errorf("error fetching matchups: %w", err)
	}

	report := processScores(s.namedMatchups(ctx, currentScores))
	return formatFinalScoreReport(report), nil
}

func (s *FantasyService) namedMatchups(ctx context.Context, scores []models.CurrentScore) []models.Matchup {
	matchups := make([]models.Matchup, len(scores))
	for i, score := range scores {
		matchups[i] = models.Matchup{
			HomeTeam:  s.teamName(ctx, score.HomeTeamID),
			AwayTeam:  s.teamName(ctx, score.AwayTeamID),
			HomeScore: score.HomeScore,
			AwayScore: score.AwayScore,
		}
	}
	return matchups
}

func (s *FantasyService) GetTeamRoster(ctx context.Context, teamName string) (string, error) {
	week, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching current week: %w", err)
	}

	roster, err := s.api.GetTeamRoster(ctx, teamName, week)
	if err != nil {
		return "", fmt.Errorf("error fetching team roster: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s's Roster*\n\n", roster.TeamName))

	sb.WriteString("*Starting Lineup:*\n")
	for _, player := range roster.Players {
		if player.IsStarter {
			sb.WriteString(formatRosterLine(player))
		}
	}

	sb.WriteString("\n*Bench:*\n")
	for _, player := range roster.Players {
		if !player.IsStarter {
			sb.WriteString(formatRosterLine(player))
		}
	}

	return sb.String(), nil
}

var injuryAbbr = map[string]string{
	"QUESTIONABLE": "Q",
	"DOUBTFUL":     "D",
	"OUT":          "O",
}

func formatRosterLine(player models.RosterPlayer) string {
	pointsStr := player.PointsLabel
	if pointsStr != "IR" && pointsStr != "BYE" {
		pointsStr += " pts"
	}

	injuryStr := ""
	if abbr, ok := injuryAbbr[player.InjuryStatus]; ok {
		injuryStr = fmt.Sprintf(" (%s)", abbr)
	}

	return fmt.Sprintf("▫️ %s %s%s - %s\n", player.Position, player.Name, injuryStr, pointsStr)
}

type side struct {
	team  string
	score float64
}

func processScores(matchups []models.Matchup) models.FinalScoreReport {
	report := models.FinalScoreReport{Matchups: matchups}
	if len(matchups) == 0 {
		return report
	}

	high := side{score: -math.MaxFloat64}
	low := side{score: math.MaxFloat64}
	biggest := side{score: -1}
	closest := side{score: math.MaxFloat64}

	for _, m := range matchups {
		for _, sd := range []side{{m.HomeTeam, m.HomeScore}, {m.AwayTeam, m.AwayScore}} {
			if sd.score > high.score {
				high = sd
			}
			if sd.score < low.score {
				low = sd
			}
		}

		winner := side{team: m.AwayTeam, score: math.Abs(m.HomeScore - m.AwayScore)}
		if m.HomeScore > m.AwayScore {
			winner.team = m.HomeTeam
		}
		if winner.score > biggest.score {
			biggest = winner
		}
		if winner.score < closest.score {
			closest = winner
		}
	}

	report.Trophies = []models.Trophy{
		{Category: "High Score", Team: high.team, Value: high.score},
		{Category: "Low Score", Team: low.team, Value: low.score},
		{Category: "Biggest Win", Team: biggest.team, Value: biggest.score},
		{Category: "Closest Win", Team: closest.team, Value: closest.score},
	}
	return report
}

var trophyFormat = map[string]string{
	"High Score":  "Highest Score: %s (%.2f)\n",
	"Low Score":   "Lowest Score: %s (%.2f)\n",
	"Biggest Win": "Biggest Win: %s (Margin: %.2f)\n",
	"Closest Win": "Closest Win: %s (Margin: %.2f)\n",
}

func formatFinalScoreReport(report models.FinalScoreReport) string {
	var sb strings.Builder
	sb.WriteString("📊 *Final Scores:*\n\n")

	if len(report.Matchups) == 0 {
		sb.WriteString("No matchups this week.")
		return sb.String()
	}

	matchups := append([]models.Matchup(nil), report.Matchups...)
	sort.Slice(matchups, func(i, j int) bool {
		return matchups[i].HomeScore+matchups[i].AwayScore > matchups[j].HomeScore+matchups[j].AwayScore
	})
	for _, m := range matchups {
		sb.WriteString(fmt.Sprintf("%s %.2f - %.2f %s\n", m.HomeTeam, m.HomeScore, m.AwayScore, m.AwayTeam))
	}

	sb.WriteString("\n🏆 *Trophies:*\n")
	for _, t := range report.Trophies {
		if format, ok := trophyFormat[t.Category]; ok {
			sb.WriteString(fmt.Sprintf(format, t.Team, t.Value))
		}
	}
	return sb.String()
}

func (s *FantasyService) GetMondayNightCloseGames(ctx context.Context) (string, error) {
	week, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching current week: %w", err)
	}

	currentScores, err := s.api.GetCurrentScores(ctx, week)
	if err != nil {
		return "", fmt.Errorf("error fetching current scores: %w", err)
	}

	closeGames := findCloseGames(s.namedMatchups(ctx, currentScores))
	return formatMondayNightCloseGames(closeGames), nil
}

// findCloseGames keeps matchups within closeGameMargin, closest first.
func findCloseGames(matchups []models.Matchup) []models.CloseGame {
	var games []models.CloseGame
	for _, m := range matchups {
		margin := math.Abs(m.HomeScore - m.AwayScore)
		if margin > closeGameMargin {
			continue
		}
		games = append(games, models.CloseGame{
			HomeTeam:  m.HomeTeam,
			AwayTeam:  m.AwayTeam,
			HomeScore: m.HomeScore,
			AwayScore: m.AwayScore,
			Margin:    margin,
		})
	}

	sort.Slice(games, func(i, j int) bool { return games[i].Margin < games[j].Margin })
	return games
}

func formatMondayNightCloseGames(games []models.CloseGame) string {
	var sb strings.Builder
	sb.WriteString("🏈 *Monday Night Watch List*\n\n")

	if len(games) == 0 {
		sb.WriteString("No close games this week. All outcomes are likely decided.")
		return sb.String()
	}

	for _, g := range games {
		sb.WriteString(fmt.Sprintf("%s %.2f - %.2f %s (Margin: %.2f)\n", g.HomeTeam, g.HomeScore, g.AwayScore, g.AwayTeam, g.Margin))
	}
	return sb.String()
}

func (s *FantasyService) GetMatchups(ctx context.Context) (string, error) {
	week, err := s.GetCurrentWeek(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching current week: %w", err)
	}

	currentScores, err := s.api.GetCurrentScores(ctx, week)
	if err != nil {
		return "", fmt.Errorf("error fetching current scores: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 *Week %d Matchups*\n\n", week))

	slog.Info("Matchups", "matchups", len(currentScores))
	for _, score := range currentScores {
		homeTeam := s.teamName(ctx, score.HomeTeamID)
		awayTeam := s.teamName(ctx, score.AwayTeamID)

		sb.WriteString(fmt.Sprintf("*%s* vs *%s*\n", homeTeam, awayTeam))
		sb.WriteString(fmt.Sprintf("Projected: %.2f - %.2f\n", score.HomeProjected, score.AwayProjected))

		if score.HomeScore > 0 || score.AwayScore > 0 {
			sb.WriteString(fmt.Sprintf("Current: %.2f - %.2f", score.HomeScore, score.AwayScore))
			if score.IsCompleted {
				sb.WriteString(" (Final)")
			}
			sb.WriteString("\n")
		}
		if !score.IsCompleted {
			sb.WriteString(simpleOddsLine(score))
		}

		sb.WriteString("\n")
	}

	return sb.String(), nil
}
