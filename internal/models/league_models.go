package models

import (
	"time"

	"github.com/omarshaarawi/gameday/internal/probability"
)

type LeagueMetadata struct {
	LeagueID             int
	Name                 string
	CurrentWeek          int
	CurrentScoringPeriod int
	SeasonID             int
	FirstWeek            int
	LastWeek             int
	IsActive             bool
	LastUpdated          time.Time
}

type TeamStanding struct {
	Rank          int
	TeamID        int
	TeamName      string
	Abbreviation  string
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
	WinPercentage float64
	PlayoffSeed   int
}

type CurrentScore struct {
	MatchID       int
	HomeTeamID    int
	AwayTeamID    int
	HomeScore     float64
	AwayScore     float64
	HomeProjected float64
	AwayProjected float64
	IsCompleted   bool
}

type WhoHasResult struct {
	PlayerName   string
	TeamName     string
	TeamID       int
	Found        bool
	PercentOwned float64
	Position     string
	ProTeam      string
	Points       float64
	IsProjected  bool
	LineupSlot   string
}

type PlayerToMonitor struct {
	Name         string
	Position     string
	InjuryStatus string
}

type TeamMonitorReport struct {
	TeamName string
	Players  []PlayerToMonitor
}

type PlayersToMonitorReport struct {
	Teams []TeamMonitorReport
}

type RosterPlayer struct {
	Name         string
	Position     string
	Points       float64
	PointsLabel  string
	IsStarter    bool
	LineupSlot   string
	InjuryStatus string
}

type RosterReport struct {
	TeamName string
	Players  []RosterPlayer
}

type Matchup struct {
	HomeTeam  string
	AwayTeam  string
	HomeScore float64
	AwayScore float64
}

type Trophy struct {
	Category string
	Team     string
	Value    float64
}

type FinalScoreReport struct {
	Matchups []Matchup
	Trophies []Trophy
}

type CloseGame struct {
	HomeTeam  string
	AwayTeam  string
	HomeScore float64
	AwayScore float64
	Margin    float64
}

type GameState int

const (
	GameNotStarted GameState = iota
	GameInProgress
	GameFinal
	GameBye
)

func (s GameState) String() string {
	switch s {
	case GameInProgress:
		return "live"
	case GameFinal:
		return "final"
	case GameBye:
		return "bye"
	default:
		return "pending"
	}
}

// PlayerLine is one starter's line in a live boxscore.
type PlayerLine struct {
	Name       string
	Position   string
	LineupSlot string
	Actual     float64
	Projected  *float64
	State      GameState
}

type BoxscoreTeam struct {
	TeamID    int
	TeamName  string
	Score     float64
	Projected float64
	Players   []PlayerLine
	Roster    probability.TeamRoster
}

type MatchupBoxscore struct {
	MatchID     int
	Home        BoxscoreTeam
	Away        BoxscoreTeam
	IsCompleted bool
}
