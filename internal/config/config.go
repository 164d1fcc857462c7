package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	TelegramBot TelegramBot
	ESPNAPI     ESPNAPI
	Server      Server
	Schedule    Schedule
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type ESPNAPI struct {
	Year       string  `envconfig:"YEAR" required:"true"`
	LeagueID   string  `envconfig:"LEAGUE_ID" required:"true"`
	SWID       string  `envconfig:"SWID" required:"true"`
	ESPNS2     string  `envconfig:"ESPN_S2" required:"true"`
	RateLimit  float64 `envconfig:"ESPN_RATE_LIMIT" default:"5"`
	MaxRetries int     `envconfig:"ESPN_MAX_RETRIES" default:"3"`
}

type Server struct {
	Addr string `envconfig:"HTTP_ADDR" default:":80"`
}

type Schedule struct {
	Timezone    string `envconfig:"TIMEZONE" default:"America/Chicago"`
	WinProbCron string `envconfig:"WINPROB_CRON" default:"0 13-22/3 * * 0"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}

	if _, err := cron.ParseStandard(c.Schedule.WinProbCron); err != nil {
		return nil, fmt.Errorf("invalid WINPROB_CRON %q: %w", c.Schedule.WinProbCron, err)
	}
	if c.ESPNAPI.RateLimit <= 0 {
		return nil, fmt.Errorf("ESPN_RATE_LIMIT must be positive, got %v", c.ESPNAPI.RateLimit)
	}
	return &c, nil
}
