package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/omarshaarawi/gameday/internal/repository/memory"
	"github.com/omarshaarawi/gameday/internal/squares"
	"github.com/shopspring/decimal"
)

var ErrNoPool = errors.New("no squares pool, start one with /squares new")

// markdownEscaper escapes the characters Telegram's legacy Markdown treats as
// entity delimiters. Escapes are not honored inside an entity, so escaped text
// must stay outside bold or code spans.
var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// legend labels participants on the rendered board, one rune each.
const legend = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

type SquaresService struct {
	repo    *memory.Repository
	newRand func() *rand.Rand
}

func NewSquaresService(repo *memory.Repository) *SquaresService {
	return &SquaresService{
		repo: repo,
		newRand: func() *rand.Rand {
			seed := uint64(time.Now().UnixNano())
			return rand.New(rand.NewPCG(seed, seed>>1|1))
		},
	}
}

func (s *SquaresService) pool() (*squares.Pool, error) {
	pool := s.repo.GetSquaresPool()
	if pool == nil {
		return nil, ErrNoPool
	}
	return pool, nil
}

// NewPool replaces any running pool. fee is the price of one square.
func (s *SquaresService) NewPool(name, fee string) (string, error) {
	entryFee, err := decimal.NewFromString(fee)
	if err != nil {
		return "", fmt.Errorf("invalid entry fee %q: %w", fee, err)
	}

	pool, err := squares.NewPool(squares.Config{
		Name:     name,
		EntryFee: entryFee,
		Payouts:  squares.DefaultPayouts(),
	})
	if err != nil {
		return "", err
	}
	s.repo.SaveSquaresPool(pool)
	slog.Info("Squares pool created", "id", pool.ID, "name", pool.Name, "fee", pool.EntryFee.String())

	p := pool.Payouts
	return fmt.Sprintf("🎲 *Squares pool open:* %s\nSquares: $%s each, %d available\nPayouts: Q1 %d%% / Q2 %d%% / Q3 %d%% / Final %d%%",
		escapeMarkdown(pool.Name), pool.EntryFee.StringFixed(2), squares.TotalCells, p.Q1, p.Q2, p.Q3, p.Final), nil
}

func (s *SquaresService) Claim(participant string, count int) (string, error) {
	pool, err := s.pool()
	if err != nil {
		return "", err
	}

	if err := pool.Claim(participant, count); err != nil {
		return "", err
	}

	return fmt.Sprintf("✅ %s claimed %d square(s)\n%d left, pot $%s",
		escapeMarkdown(strings.TrimSpace(participant)), count, pool.Remaining(), pool.Pot().StringFixed(2)), nil
}

// Lock draws the board; no further claims are accepted.
func (s *SquaresService) Lock() (string, error) {
	pool, err := s.pool()
	if err != nil {
		return "", err
	}

	board, err := pool.Generate(s.newRand())
	if err != nil {
		return "", err
	}
	slog.Info("Squares board drawn", "id", pool.ID, "claimed", squares.TotalCells-pool.Remaining())

	return renderBoard(pool, board), nil
}

func (s *SquaresService) Board() (string, error) {
	pool, err := s.pool()
	if err != nil {
		return "", err
	}

	board, err := pool.Board()
	if errors.Is(err, squares.ErrPoolNotLocked) {
		return formatClaims(pool), nil
	}
	if err != nil {
		return "", err
	}

	return renderBoard(pool, board), nil
}

func (s *SquaresService) Score(period string, homeScore, awayScore int) (string, error) {
	pool, err := s.pool()
	if err != nil {
		return "", err
	}

	p, err := squares.ParsePeriod(period)
	if err != nil {
		return "", err
	}

	result, err := pool.ResolvePeriod(p, homeScore, awayScore)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 *%s* %d - %d\n", strings.ToUpper(string(result.Period)), result.HomeScore, result.AwayScore))
	switch {
	case result.RolledOver:
		sb.WriteString(fmt.Sprintf("Square unclaimed, $%s rolls to the next period", result.Payout.StringFixed(2)))
	case result.Unclaimed:
		sb.WriteString(fmt.Sprintf("Square unclaimed, $%s goes unpaid", result.Payout.StringFixed(2)))
	default:
		sb.WriteString(fmt.Sprintf("🏆 %s wins $%s", escapeMarkdown(result.Winner.Participant), result.Payout.StringFixed(2)))
	}
	return sb.String(), nil
}

func formatClaims(pool *squares.Pool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎲 *Squares pool (open):* %s\n\n", escapeMarkdown(pool.Name)))

	claims := pool.Claims()
	if len(claims) == 0 {
		sb.WriteString("No squares claimed yet.\n")
	}
	for _, c := range claims {
		sb.WriteString(fmt.Sprintf("%s: %d\n", escapeMarkdown(c.Participant), c.Count))
	}
	sb.WriteString(fmt.Sprintf("\n%d left, pot $%s", pool.Remaining(), pool.Pot().StringFixed(2)))
	return sb.String()
}

func renderBoard(pool *squares.Pool, board *squares.Board) string {
	labels := make(map[string]byte)
	var order []string
	for _, c := range pool.Claims() {
		if _, ok := labels[c.Participant]; ok {
			continue
		}
		label := byte('?')
		if len(order) < len(legend) {
			label = legend[len(order)]
		}
		labels[c.Participant] = label
		order = append(order, c.Participant)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎲 *Squares:* %s\n```\n   ", escapeMarkdown(pool.Name)))
	for _, d := range board.Cols {
		sb.WriteString(fmt.Sprintf(" %d", d))
	}
	sb.WriteString("\n")
	for r, d := range board.Rows {
		sb.WriteString(fmt.Sprintf(" %d ", d))
		for c := range board.Cols {
			label := byte('.')
			if owner := board.Owner(r, c); owner != "" {
				label = labels[owner]
			}
			sb.WriteString(" " + string(label))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")

	for _, name := range order {
		sb.WriteString(fmt.Sprintf("%c = %s\n", labels[name], escapeMarkdown(name)))
	}
	for _, r := range pool.Results() {
		winner := r.Winner.Participant
		if winner == "" {
			winner = "unclaimed"
		}
		sb.WriteString(fmt.Sprintf("%s %d-%d: %s $%s\n", strings.ToUpper(string(r.Period)), r.HomeScore, r.AwayScore, escapeMarkdown(winner), r.Payout.StringFixed(2)))
	}
	return sb.String()
}
