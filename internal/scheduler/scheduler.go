package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/omarshaarawi/gameday/internal/config"
	"github.com/omarshaarawi/gameday/internal/metrics"
	"github.com/omarshaarawi/gameday/internal/service"
)

const jobTimeout = 2 * time.Minute

type Scheduler struct {
	s              gocron.Scheduler
	fantasyService *service.FantasyService
	sendMessage    func(string) error
	winProbCron    string
}

func NewScheduler(cfg config.Schedule, fantasyService *service.FantasyService, sendMessage func(string) error) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", cfg.Timezone, err)
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:              s,
		fantasyService: fantasyService,
		sendMessage:    sendMessage,
		winProbCron:    cfg.WinProbCron,
	}, nil
}

type job struct {
	name       string
	definition gocron.JobDefinition
	report     func(context.Context) (string, error)
}

func (s *Scheduler) jobs() []job {
	fs := s.fantasyService
	weekly := func(at gocron.AtTime, days ...time.Weekday) gocron.JobDefinition {
		return gocron.WeeklyJob(1, gocron.NewWeekdays(days[0], days[1:]...), gocron.NewAtTimes(at))
	}

	return []job{
		// Monday 17:30 local
		{"close_scores", weekly(gocron.NewAtTime(17, 30, 0), time.Monday), fs.GetMondayNightCloseGames},
		// Monday, Tuesday, Friday 7:30
		{"scoreboard", weekly(gocron.NewAtTime(7, 30, 0), time.Monday, time.Tuesday, time.Friday), fs.GetCurrentScores},
		{"trophies", weekly(gocron.NewAtTime(7, 30, 0), time.Tuesday), fs.GetFinalScoreReport},
		{"standings", weekly(gocron.NewAtTime(7, 30, 0), time.Wednesday), fs.GetStandings},
		// Thursday 18:30, before kickoff
		{"matchups", weekly(gocron.NewAtTime(18, 30, 0), time.Thursday), fs.GetMatchups},
		{"players_to_monitor", weekly(gocron.NewAtTime(7, 30, 0), time.Sunday), fs.GetPlayersToMonitor},
		{"sunday_scoreboard", gocron.WeeklyJob(1, gocron.NewWeekdays(time.Sunday),
			gocron.NewAtTimes(gocron.NewAtTime(15, 0, 0), gocron.NewAtTime(19, 0, 0))), fs.GetCurrentScores},
		{"win_probability", gocron.CronJob(s.winProbCron, false), fs.GetWinProbabilities},
	}
}

func (s *Scheduler) Start() error {
	for _, j := range s.jobs() {
		_, err := s.s.NewJob(
			j.definition,
			gocron.NewTask(s.run(j.name, j.report)),
			gocron.WithName(j.name),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s job: %w", j.name, err)
		}
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// run wraps a report into a task that posts it to the chat.
func (s *Scheduler) run(name string, report func(context.Context) (string, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		msg, err := report(ctx)
		if err == nil {
			err = s.sendMessage(msg)
		}
		metrics.ScheduledJobsTotal.WithLabelValues(name, metrics.Outcome(err)).Inc()
		if err != nil {
			slog.Error("Scheduled job failed", "job", name, "error", err)
			return
		}
		slog.Info("Scheduled job sent", "job", name)
	}
}
