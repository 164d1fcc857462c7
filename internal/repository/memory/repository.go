package memory

import (
	"time"

	"github.com/omarshaarawi/gameday/internal/models"
	"github.com/omarshaarawi/gameday/internal/squares"
	cache "github.com/patrickmn/go-cache"
)

const (
	metadataKey  = "league:metadata"
	teamNamesKey = "league:teams"
	squaresKey   = "squares:pool"
	proTeamsKey  = "pro:schedule"

	leagueTTL = 24 * time.Hour
)

type Repository struct {
	cache *cache.Cache
}

func NewRepository() *Repository {
	return &Repository{cache: cache.New(leagueTTL, time.Hour)}
}

func (r *Repository) SaveMetadata(metadata *models.LeagueMetadata) {
	r.cache.Set(metadataKey, metadata, leagueTTL)
}

// GetMetadata returns nil once the cached copy has expired.
func (r *Repository) GetMetadata() *models.LeagueMetadata {
	if v, ok := r.cache.Get(metadataKey); ok {
		return v.(*models.LeagueMetadata)
	}
	return nil
}

func (r *Repository) SaveTeamNames(names map[int]string) {
	r.cache.Set(teamNamesKey, names, leagueTTL)
}

func (r *Repository) GetTeamNames() map[int]string {
	if v, ok := r.cache.Get(teamNamesKey); ok {
		return v.(map[int]string)
	}
	return nil
}

func (r *Repository) SaveProTeams(teams []models.ProTeam) {
	r.cache.Set(proTeamsKey, teams, leagueTTL)
}

// GetProTeams returns the cached pro schedule, or nil once it has expired.
func (r *Repository) GetProTeams() []models.ProTeam {
	if v, ok := r.cache.Get(proTeamsKey); ok {
		return v.([]models.ProTeam)
	}
	return nil
}

func (r *Repository) SaveSquaresPool(pool *squares.Pool) {
	r.cache.Set(squaresKey, pool, cache.NoExpiration)
}

func (r *Repository) GetSquaresPool() *squares.Pool {
	if v, ok := r.cache.Get(squaresKey); ok {
		return v.(*squares.Pool)
	}
	return nil
}
