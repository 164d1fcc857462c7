package squares

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrPoolLocked     = errors.New("pool is locked")
	ErrPoolNotLocked  = errors.New("board has not been drawn")
	ErrBoardFull      = errors.New("not enough squares left")
	ErrNegativeScore  = errors.New("scores cannot be negative")
	ErrUnknownPeriod  = errors.New("unknown period")
	ErrPeriodResolved = errors.New("period already scored")
	ErrOutOfOrder     = errors.New("earlier period not scored yet")
	ErrInvalidClaim   = errors.New("invalid claim")
)

type Period string

const (
	Q1    Period = "q1"
	Q2    Period = "q2"
	Q3    Period = "q3"
	Final Period = "final"
)

var Periods = []Period{Q1, Q2, Q3, Final}

func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Periods {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// Payouts are whole percentages of the pot paid per period.
type Payouts struct {
	Q1    int `validate:"gte=0,lte=100"`
	Q2    int `validate:"gte=0,lte=100"`
	Q3    int `validate:"gte=0,lte=100"`
	Final int `validate:"gte=0,lte=100"`
}

func DefaultPayouts() Payouts {
	return Payouts{Q1: 25, Q2: 25, Q3: 25, Final: 25}
}

func (p Payouts) share(period Period) int {
	switch period {
	case Q1:
		return p.Q1
	case Q2:
		return p.Q2
	case Q3:
		return p.Q3
	default:
		return p.Final
	}
}

type Config struct {
	Name     string          `validate:"required,max=64"`
	EntryFee decimal.Decimal `validate:"gte=0"`
	Payouts  Payouts
}

type Claim struct {
	Participant string
	Count       int
}

type Result struct {
	Period     Period
	HomeScore  int
	AwayScore  int
	Winner     Winner
	Payout     decimal.Decimal
	RolledOver bool
	Unclaimed  bool
}

type Pool struct {
	ID       uuid.UUID
	Name     string
	EntryFee decimal.Decimal
	Payouts  Payouts

	mu      sync.Mutex
	claims  []Claim
	board   *Board
	carry   decimal.Decimal
	results map[Period]Result
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(Payouts)
		if p.Q1+p.Q2+p.Q3+p.Final != 100 {
			sl.ReportError(p.Final, "Final", "Final", "payoutsum", "")
		}
	}, Payouts{})
	return v
}

func NewPool(cfg Config) (*Pool, error) {
	cfg.Name = strings.TrimSpace(cfg.Name)
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid pool config: %w", err)
	}

	return &Pool{
		ID:       uuid.New(),
		Name:     cfg.Name,
		EntryFee: cfg.EntryFee,
		Payouts:  cfg.Payouts,
		results:  make(map[Period]Result),
	}, nil
}

// Claim reserves squares for a participant. Repeat claims accumulate.
func (p *Pool) Claim(participant string, count int) error {
	participant = strings.TrimSpace(participant)
	if participant == "" || count <= 0 {
		return fmt.Errorf("%w: %q x%d", ErrInvalidClaim, participant, count)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.board != nil {
		return ErrPoolLocked
	}
	if left := TotalCells - p.claimed(); count > left {
		return fmt.Errorf("%w: %d requested, %d left", ErrBoardFull, count, left)
	}

	for i := range p.claims {
		if p.claims[i].Participant == participant {
			p.claims[i].Count += count
			return nil
		}
	}
	p.claims = append(p.claims, Claim{Participant: participant, Count: count})
	return nil
}

func (p *Pool) claimed() int {
	n := 0
	for _, c := range p.claims {
		n += c.Count
	}
	return n
}

func (p *Pool) Claims() []Claim {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Claim(nil), p.claims...)
}

func (p *Pool) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return TotalCells - p.claimed()
}

// Pot is the entry fee times the number of claimed squares.
func (p *Pool) Pot() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pot()
}

func (p *Pool) pot() decimal.Decimal {
	return p.EntryFee.Mul(decimal.NewFromInt(int64(p.claimed())))
}

// Generate draws the row and column digits, places every claimed square and
// locks the pool against further claims.
func (p *Pool) Generate(rng *rand.Rand) (*Board, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.board != nil {
		return nil, ErrPoolLocked
	}
	p.board = newBoard(p.claims, rng)
	return p.board.clone(), nil
}

func (p *Pool) Board() (*Board, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.board == nil {
		return nil, ErrPoolNotLocked
	}
	return p.board.clone(), nil
}

// ResolvePeriod pays out a period. Periods are scored in order; the payout of an
// unclaimed winning cell rolls into the next period, and is left unclaimed after
// the final. Earlier periods round down to the cent and the final takes what is
// left, so the payouts always add up to the pot.
func (p *Pool) ResolvePeriod(period Period, homeScore, awayScore int) (Result, error) {
	period, err := ParsePeriod(string(period))
	if err != nil {
		return Result{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.board == nil {
		return Result{}, ErrPoolNotLocked
	}
	if _, ok := p.results[period]; ok {
		return Result{}, fmt.Errorf("%w: %s", ErrPeriodResolved, period)
	}
	for _, earlier := range Periods {
		if earlier == period {
			break
		}
		if _, ok := p.results[earlier]; !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrOutOfOrder, earlier)
		}
	}

	winner, err := p.board.Winner(homeScore, awayScore)
	if err != nil {
		return Result{}, err
	}

	share := decimal.NewFromInt(int64(p.Payouts.share(period))).Div(decimal.NewFromInt(100))
	amount := p.pot().Mul(share).Truncate(2).Add(p.carry)
	if period == Final {
		amount = p.pot().Sub(p.paid())
	}
	p.carry = decimal.Zero

	result := Result{
		Period:    period,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Winner:    winner,
		Payout:    amount,
	}

	if winner.Participant == "" {
		if period == Final {
			result.Unclaimed = true
		} else {
			result.RolledOver = true
			p.carry = amount
		}
	}

	p.results[period] = result
	return result, nil
}

// paid sums the payouts already awarded. Rolled-over amounts are counted by
// the period they rolled into.
func (p *Pool) paid() decimal.Decimal {
	total := decimal.Zero
	for _, r := range p.results {
		if !r.RolledOver {
			total = total.Add(r.Payout)
		}
	}
	return total
}

// Results returns scored periods in play order.
func (p *Pool) Results() []Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []Result
	for _, period := range Periods {
		if r, ok := p.results[period]; ok {
			out = append(out, r)
		}
	}
	return out
}
