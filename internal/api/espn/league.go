package espn

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/omarshaarawi/gameday/internal/models"
)

var ErrTeamNotFound = errors.New("team not found")

// ScheduleCache holds the season's pro team schedules between requests.
type ScheduleCache interface {
	GetProTeams() []models.ProTeam
	SaveProTeams(teams []models.ProTeam)
}

type API struct {
	client    *Client
	schedules ScheduleCache
	now       func() time.Time
}

// NewAPI builds the league API. schedules may be nil, in which case the pro
// schedule is fetched on every call that needs it.
func NewAPI(client *Client, schedules ScheduleCache) *API {
	return &API{client: client, schedules: schedules, now: time.Now}
}

func (a *API) leagueEndpoint() string {
	return fmt.Sprintf("/seasons/%s/segments/0/leagues/%s", a.client.Config.Year, a.client.Config.LeagueID)
}

func (a *API) GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	var espnResponse models.LeagueResponse
	params := map[string]string{
		"view": "mSettings",
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &espnResponse); err != nil {
		return nil, fmt.Errorf("fetching league metadata: %w", err)
	}

	metadata := &models.LeagueMetadata{
		LeagueID:             espnResponse.ID,
		Name:                 espnResponse.Settings.Name,
		CurrentWeek:          espnResponse.Status.CurrentMatchupPeriod,
		CurrentScoringPeriod: espnResponse.ScoringPeriodID,
		SeasonID:             espnResponse.SeasonID,
		FirstWeek:            espnResponse.Status.FirstScoringPeriod,
		LastWeek:             espnResponse.Status.FinalScoringPeriod,
		IsActive:             espnResponse.Status.IsActive,
		LastUpdated:          a.now(),
	}

	return metadata, nil
}

// GetTeamNames maps fantasy team IDs to their display names.
func (a *API) GetTeamNames(ctx context.Context) (map[int]string, error) {
	var leagueResponse models.LeagueResponse
	params := map[string]string{
		"view": "mTeam",
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &leagueResponse); err != nil {
		return nil, fmt.Errorf("fetching teams: %w", err)
	}

	return teamNames(leagueResponse.Teams), nil
}

func teamNames(teams []models.Team) map[int]string {
	names := make(map[int]string, len(teams))
	for _, team := range teams {
		names[team.ID] = team.DisplayName()
	}
	return names
}

func (a *API) GetStandings(ctx context.Context) ([]models.TeamStanding, error) {
	var leagueResponse models.LeagueResponse
	params := map[string]string{
		"view": "mTeam",
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &leagueResponse); err != nil {
		return nil, fmt.Errorf("fetching standings: %w", err)
	}

	standings := make([]models.TeamStanding, len(leagueResponse.Teams))
	for i, team := range leagueResponse.Teams {
		standings[i] = models.TeamStanding{
			TeamID:        team.ID,
			TeamName:      team.DisplayName(),
			Abbreviation:  team.Abbreviation,
			Wins:          team.Record.Overall.Wins,
			Losses:        team.Record.Overall.Losses,
			Ties:          team.Record.Overall.Ties,
			PointsFor:     team.Record.Overall.PointsFor,
			PointsAgainst: team.Record.Overall.PointsAgainst,
			WinPercentage: team.Record.Overall.Percentage,
			PlayoffSeed:   team.PlayoffSeed,
		}
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].WinPercentage != standings[j].WinPercentage {
			return standings[i].WinPercentage > standings[j].WinPercentage
		}
		return standings[i].PointsFor > standings[j].PointsFor
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}

	return standings, nil
}

func (a *API) GetCurrentScores(ctx context.Context, week int) ([]models.CurrentScore, error) {
	var scoreboardResponse models.ScoreboardResponse
	params := map[string]string{
		"view": "mScoreboard",
	}

	headers, err := matchupFilter(week)
	if err != nil {
		return nil, err
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, headers, &scoreboardResponse); err != nil {
		return nil, fmt.Errorf("fetching current scores: %w", err)
	}

	var scores []models.CurrentScore

	for _, match := range scoreboardResponse.Schedule {
		if !inWeek(match, week) {
			continue
		}
		homeScore, homeProjected := getScoreAndProjected(match.Home)
		awayScore, awayProjected := getScoreAndProjected(match.Away)

		scores = append(scores, models.CurrentScore{
			MatchID:       match.ID,
			HomeTeamID:    match.Home.TeamID,
			AwayTeamID:    match.Away.TeamID,
			HomeScore:     homeScore,
			AwayScore:     awayScore,
			HomeProjected: homeProjected,
			AwayProjected: awayProjected,
			IsCompleted:   isCompleted(match),
		})
	}
	return scores, nil
}

// inWeek drops matchups from other periods when ESPN ignores the filter header.
func inWeek(match models.MatchupScore, week int) bool {
	return match.MatchupPeriodID == 0 || match.MatchupPeriodID == week
}

func isCompleted(match models.MatchupScore) bool {
	return match.Winner != "" && match.Winner != "UNDECIDED"
}

func getScoreAndProjected(teamScore models.TeamScore) (float64, float64) {
	score := teamScore.TotalPointsLive
	if score == 0 {
		score = teamScore.TotalPoints
	}
	projected := teamScore.TotalProjectedPointsLive
	return round2(score), round2(projected)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func rosterParams(week int) map[string]string {
	return map[string]string{
		"view":            "mRoster,mTeam",
		"scoringPeriodId": strconv.Itoa(week),
	}
}

func (a *API) WhoHas(ctx context.Context, playerName string, week int) (models.WhoHasResult, error) {
	var leagueResponse models.LeagueResponse
	if err := a.client.Get(ctx, a.leagueEndpoint(), rosterParams(week), nil, &leagueResponse); err != nil {
		return models.WhoHasResult{}, fmt.Errorf("fetching league rosters: %w", err)
	}

	return searchPlayers(leagueResponse.Teams, playerName, week), nil
}

func searchPlayers(teams []models.Team, playerName string, week int) models.WhoHasResult {
	var candidates []string
	var entries []models.RosterEntry
	for _, team := range teams {
		for _, entry := range team.Roster.Entries {
			candidates = append(candidates, entry.PlayerPoolEntry.Player.FullName)
			entries = append(entries, entry)
		}
	}

	i := bestMatch(playerName, candidates, playerMatchThreshold)
	if i < 0 {
		return models.WhoHasResult{
			PlayerName: playerName,
			Found:      false,
		}
	}

	entry := entries[i]
	player := entry.PlayerPoolEntry
	points, isProjected := getPlayerPoints(player, week)

	return models.WhoHasResult{
		PlayerName:   player.Player.FullName,
		TeamName:     teamNames(teams)[player.OnTeamID],
		TeamID:       player.OnTeamID,
		Found:        true,
		PercentOwned: player.Player.Ownership.PercentOwned,
		Position:     getPositionString(player.Player.DefaultPositionID),
		ProTeam:      getProTeamString(player.Player.ProTeamID),
		Points:       points,
		IsProjected:  isProjected,
		LineupSlot:   getLineupSlotString(entry.LineupSlotID),
	}
}

func getPlayerPoints(player models.PlayerPoolEntry, week int) (float64, bool) {
	if actual, ok := statTotal(player.Player, week, models.StatSourceActual); ok {
		return actual, false
	}
	if projected, ok := statTotal(player.Player, week, models.StatSourceProjected); ok {
		return projected, true
	}
	return player.AppliedStatTotal, true
}

func statTotal(player models.Player, week, source int) (float64, bool) {
	for _, stat := range player.Stats {
		if stat.ScoringPeriodID == week && stat.StatSourceID == source {
			return stat.AppliedTotal, true
		}
	}
	return 0, false
}

func (a *API) GetPlayersToMonitor(ctx context.Context, week int) (models.PlayersToMonitorReport, error) {
	var leagueResponse models.LeagueResponse
	if err := a.client.Get(ctx, a.leagueEndpoint(), rosterParams(week), nil, &leagueResponse); err != nil {
		return models.PlayersToMonitorReport{}, fmt.Errorf("fetching league rosters: %w", err)
	}

	report := models.PlayersToMonitorReport{}

	for _, team := range leagueResponse.Teams {
		teamReport := models.TeamMonitorReport{
			TeamName: team.DisplayName(),
		}

		for _, entry := range team.Roster.Entries {
			player := entry.PlayerPoolEntry.Player
			if isStartingLineup(entry.LineupSlotID) && isPlayerToMonitor(player.InjuryStatus) {
				teamReport.Players = append(teamReport.Players, models.PlayerToMonitor{
					Name:         player.FullName,
					Position:     getPositionString(player.DefaultPositionID),
					InjuryStatus: player.InjuryStatus,
				})
			}
		}

		if len(teamReport.Players) > 0 {
			report.Teams = append(report.Teams, teamReport)
		}
	}

	return report, nil
}

func isPlayerToMonitor(status string) bool {
	return status == "QUESTIONABLE" || status == "DOUBTFUL" || status == "OUT"
}

func (a *API) GetTeamRoster(ctx context.Context, teamName string, week int) (models.RosterReport, error) {
	var leagueResponse models.LeagueResponse
	if err := a.client.Get(ctx, a.leagueEndpoint(), rosterParams(week), nil, &leagueResponse); err != nil {
		return models.RosterReport{}, fmt.Errorf("fetching league rosters: %w", err)
	}

	team, err := findTeam(leagueResponse.Teams, teamName)
	if err != nil {
		return models.RosterReport{}, err
	}

	schedule, err := a.GetProSchedule(ctx)
	if err != nil {
		return models.RosterReport{}, err
	}

	roster := models.RosterReport{
		TeamName: team.DisplayName(),
		Players:  make([]models.RosterPlayer, 0, len(team.Roster.Entries)),
	}

	var starters []models.RosterPlayer
	var bench []models.RosterPlayer

	for _, entry := range team.Roster.Entries {
		player := entry.PlayerPoolEntry.Player
		points, _ := getPlayerPoints(entry.PlayerPoolEntry, week)

		pointsDisplay := "TBD"
		if entry.LineupSlotID == slotIR || player.InjuryStatus == "INJURY_RESERVE" {
			pointsDisplay = "IR"
		} else if schedule.ByeWeek(player.ProTeamID) == week {
			pointsDisplay = "BYE"
		} else if actual, ok := statTotal(player, week, models.StatSourceActual); ok {
			pointsDisplay = fmt.Sprintf("%.2f", actual)
		}

		rosterPlayer := models.RosterPlayer{
			Name:         player.FullName,
			Position:     getPositionString(player.DefaultPositionID),
			Points:       points,
			PointsLabel:  pointsDisplay,
			IsStarter:    isStartingLineup(entry.LineupSlotID),
			LineupSlot:   getLineupSlotString(entry.LineupSlotID),
			InjuryStatus: player.InjuryStatus,
		}

		if rosterPlayer.IsStarter {
			starters = append(starters, rosterPlayer)
		} else {
			bench = append(bench, rosterPlayer)
		}
	}

	sortStarters(starters)

	roster.Players = append(roster.Players, starters...)
	roster.Players = append(roster.Players, bench...)

	return roster, nil
}

func findTeam(teams []models.Team, teamName string) (*models.Team, error) {
	names := make([]string, len(teams))
	for i, team := range teams {
		names[i] = team.DisplayName()
	}

	i := bestMatch(teamName, names, teamMatchThreshold)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamName)
	}
	return &teams[i], nil
}

func (a *API) GetProSchedule(ctx context.Context) (*ProSchedule, error) {
	if a.schedules != nil {
		if teams := a.schedules.GetProTeams(); teams != nil {
			return newProSchedule(teams), nil
		}
	}

	var scheduleResponse models.ProScheduleResponse

	endpoint := fmt.Sprintf("/seasons/%s", a.client.Config.Year)
	params := map[string]string{
		"view": "proTeamSchedules_wl",
	}

	if err := a.client.Get(ctx, endpoint, params, nil, &scheduleResponse); err != nil {
		return nil, fmt.Errorf("fetching pro schedule: %w", err)
	}

	teams := scheduleResponse.Settings.ProTeams
	if a.schedules != nil && len(teams) > 0 {
		a.schedules.SaveProTeams(teams)
	}
	return newProSchedule(teams), nil
}
