package fantasy

import (
	"context"

	"github.com/omarshaarawi/gameday/internal/api/espn"
	"github.com/omarshaarawi/gameday/internal/models"
)

type API struct {
	espnAPI *espn.API
}

func NewAPI(espnAPI *espn.API) *API {
	return &API{espnAPI: espnAPI}
}

func (a *API) GetLeagueMetadata(ctx context.Context) (*models.LeagueMetadata, error) {
	return a.espnAPI.GetLeagueMetadata(ctx)
}

func (a *API) GetTeamNames(ctx context.Context) (map[int]string, error) {
	return a.espnAPI.GetTeamNames(ctx)
}

func (a *API) GetStandings(ctx context.Context) ([]models.TeamStanding, error) {
	return a.espnAPI.GetStandings(ctx)
}

func (a *API) GetCurrentScores(ctx context.Context, week int) ([]models.CurrentScore, error) {
	return a.espnAPI.GetCurrentScores(ctx, week)
}

func (a *API) GetBoxscores(ctx context.Context, week int) ([]models.MatchupBoxscore, error) {
	return a.espnAPI.GetBoxscores(ctx, week)
}

func (a *API) WhoHas(ctx context.Context, playerName string, week int) (models.WhoHasResult, error) {
	return a.espnAPI.WhoHas(ctx, playerName, week)
}

func (a *API) GetPlayersToMonitor(ctx context.Context, week int) (models.PlayersToMonitorReport, error) {
	return a.espnAPI.GetPlayersToMonitor(ctx, week)
}

func (a *API) GetTeamRoster(ctx context.Context, teamName string, week int) (models.RosterReport, error) {
	return a.espnAPI.GetTeamRoster(ctx, teamName, week)
}
