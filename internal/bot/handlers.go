package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/gameday/internal/metrics"
	"github.com/omarshaarawi/gameday/internal/service"
)

const commandTimeout = 30 * time.Second

const helpText = "Available commands:\n" +
	"/scores - Get current scores\n" +
	"/standings - Get league standings\n" +
	"/team <team> - View team's roster and points\n" +
	"/whohas <player> - Check which team has a player\n" +
	"/monitor - Get players to monitor\n" +
	"/finalscore - Get final score report\n" +
	"/mondaynight - Get close games for Monday night\n" +
	"/matchup - Get matchups for this week\n" +
	"/winprob - Win probability for every matchup\n" +
	"/boombust <team> - Starters against their projections\n" +
	"/squares new <name> <fee> | claim <name> <count> | lock | board | score <q1|q2|q3|final> <home> <away>"

const squaresUsage = "Usage: /squares new <name> <fee> | claim <name> <count> | lock | board | score <period> <home> <away>"

var errUsage = errors.New(squaresUsage)

type Handler struct {
	fantasyService *service.FantasyService
	squaresService *service.SquaresService
}

func NewHandler(fantasyService *service.FantasyService, squaresService *service.SquaresService) *Handler {
	return &Handler{fantasyService: fantasyService, squaresService: squaresService}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch command {
	case "start":
		msg.Text = "Welcome to Gameday! Use /help to see available commands."
	case "help":
		msg.Text = helpText
	case "scores":
		h.reply(&msg, "Error fetching scores", func() (string, error) { return h.fantasyService.GetCurrentScores(ctx) })
	case "standings":
		h.reply(&msg, "Error fetching standings", func() (string, error) { return h.fantasyService.GetStandings(ctx) })
	case "whohas":
		if args == "" {
			msg.Text = "Please provide a player name. Usage: /whohas <player name>"
			break
		}
		h.reply(&msg, "Error checking who has player", func() (string, error) { return h.fantasyService.WhoHas(ctx, args) })
	case "monitor":
		h.reply(&msg, "Error fetching players to monitor", func() (string, error) { return h.fantasyService.GetPlayersToMonitor(ctx) })
	case "finalscore":
		h.reply(&msg, "Error generating final score report", func() (string, error) { return h.fantasyService.GetFinalScoreReport(ctx) })
	case "mondaynight":
		h.reply(&msg, "Error generating Monday night close games report", func() (string, error) {
			return h.fantasyService.GetMondayNightCloseGames(ctx)
		})
	case "matchup":
		h.reply(&msg, "Error generating matchups report", func() (string, error) { return h.fantasyService.GetMatchups(ctx) })
	case "team":
		if args == "" {
			msg.Text = "Please provide a team name. Usage: /team <team name>"
			break
		}
		h.reply(&msg, "Error getting team roster", func() (string, error) { return h.fantasyService.GetTeamRoster(ctx, args) })
	case "winprob":
		h.reply(&msg, "Error calculating win probabilities", func() (string, error) { return h.fantasyService.GetWinProbabilities(ctx) })
	case "boombust":
		if args == "" {
			msg.Text = "Please provide a team name. Usage: /boombust <team name>"
			break
		}
		h.reply(&msg, "Error classifying players", func() (string, error) { return h.fantasyService.GetBoomBust(ctx, args) })
	case "squares":
		h.handleSquares(&msg, args)
	default:
		command = "unknown"
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	metrics.BotCommandsTotal.WithLabelValues(command).Inc()
	return msg
}

func (h *Handler) reply(msg *tgbotapi.MessageConfig, failure string, report func() (string, error)) {
	text, err := report()
	if err != nil {
		msg.Text = fmt.Sprintf("%s: %v", failure, err)
		return
	}
	msg.Text = text
}

func (h *Handler) handleSquares(msg *tgbotapi.MessageConfig, args string) {
	cmd, err := parseSquaresArgs(args)
	if err != nil {
		msg.Text = err.Error()
		return
	}

	h.reply(msg, "Squares error", func() (string, error) {
		switch cmd.action {
		case "new":
			return h.squaresService.NewPool(cmd.name, cmd.fee)
		case "claim":
			return h.squaresService.Claim(cmd.name, cmd.count)
		case "lock":
			return h.squaresService.Lock()
		case "board":
			return h.squaresService.Board()
		default:
			return h.squaresService.Score(cmd.period, cmd.home, cmd.away)
		}
	})
}

type squaresCommand struct {
	action string
	name   string
	fee    string
	count  int
	period string
	home   int
	away   int
}

// parseSquaresArgs splits "/squares" arguments. Names may contain spaces; the
// trailing fee or count is always the last word.
func parseSquaresArgs(args string) (squaresCommand, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return squaresCommand{}, errUsage
	}

	cmd := squaresCommand{action: strings.ToLower(fields[0])}
	rest := fields[1:]

	switch cmd.action {
	case "new":
		if len(rest) < 2 {
			return cmd, errUsage
		}
		cmd.name = strings.Join(rest[:len(rest)-1], " ")
		cmd.fee = strings.TrimPrefix(rest[len(rest)-1], "$")
	case "claim":
		if len(rest) < 2 {
			return cmd, errUsage
		}
		count, err := strconv.Atoi(rest[len(rest)-1])
		if err != nil {
			return cmd, fmt.Errorf("count must be a number: %q", rest[len(rest)-1])
		}
		cmd.name = strings.Join(rest[:len(rest)-1], " ")
		cmd.count = count
	case "lock", "board":
		if len(rest) != 0 {
			return cmd, errUsage
		}
	case "score":
		if len(rest) != 3 {
			return cmd, errUsage
		}
		home, err := strconv.Atoi(rest[1])
		if err != nil {
			return cmd, fmt.Errorf("home score must be a number: %q", rest[1])
		}
		away, err := strconv.Atoi(rest[2])
		if err != nil {
			return cmd, fmt.Errorf("away score must be a number: %q", rest[2])
		}
		cmd.period = rest[0]
		cmd.home = home
		cmd.away = away
	default:
		return cmd, errUsage
	}

	return cmd, nil
}
