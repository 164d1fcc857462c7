package squares

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, fee string) *Pool {
	t.Helper()
	pool, err := NewPool(Config{
		Name:     "Big Game",
		EntryFee: decimal.RequireFromString(fee),
		Payouts:  DefaultPayouts(),
	})
	require.NoError(t, err)
	return pool
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func TestNewPoolValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing name", Config{Name: "  ", Payouts: DefaultPayouts()}},
		{"negative fee", Config{Name: "x", EntryFee: decimal.NewFromInt(-5), Payouts: DefaultPayouts()}},
		{"payouts under 100", Config{Name: "x", Payouts: Payouts{Q1: 10, Q2: 20, Q3: 10, Final: 50}}},
		{"payouts over 100", Config{Name: "x", Payouts: Payouts{Q1: 25, Q2: 25, Q3: 25, Final: 50}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPool(tt.cfg)
			assert.Error(t, err)
		})
	}

	pool, err := NewPool(Config{Name: " Office ", Payouts: Payouts{Q1: 10, Q2: 20, Q3: 10, Final: 60}})
	require.NoError(t, err)
	assert.Equal(t, "Office", pool.Name)
	assert.NotEqual(t, uuid.Nil, pool.ID)
}

func TestClaim(t *testing.T) {
	pool := newTestPool(t, "10")

	require.NoError(t, pool.Claim("amy", 30))
	require.NoError(t, pool.Claim("ben", 50))
	require.NoError(t, pool.Claim("amy", 10))
	assert.Equal(t, 10, pool.Remaining())
	assert.Equal(t, []Claim{{"amy", 40}, {"ben", 50}}, pool.Claims())

	assert.ErrorIs(t, pool.Claim("cat", 11), ErrBoardFull)
	assert.ErrorIs(t, pool.Claim("", 1), ErrInvalidClaim)
	assert.ErrorIs(t, pool.Claim("cat", 0), ErrInvalidClaim)

	assert.True(t, decimal.NewFromInt(900).Equal(pool.Pot()))
}

func TestGenerate(t *testing.T) {
	pool := newTestPool(t, "5")
	require.NoError(t, pool.Claim("amy", 37))
	require.NoError(t, pool.Claim("ben", 25))

	board, err := pool.Generate(seeded())
	require.NoError(t, err)

	for _, d := range [][Size]int{board.Rows, board.Cols} {
		got := d[:]
		sorted := append([]int(nil), got...)
		sort.Ints(sorted)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, sorted)
	}

	assert.Equal(t, map[string]int{"amy": 37, "ben": 25}, board.Count())

	assert.ErrorIs(t, pool.Claim("cat", 1), ErrPoolLocked)
	_, err = pool.Generate(seeded())
	assert.ErrorIs(t, err, ErrPoolLocked)
}

func TestGenerateDeterministic(t *testing.T) {
	a := newTestPool(t, "1")
	b := newTestPool(t, "1")
	for _, p := range []*Pool{a, b} {
		require.NoError(t, p.Claim("amy", 50))
		require.NoError(t, p.Claim("ben", 50))
	}

	boardA, err := a.Generate(seeded())
	require.NoError(t, err)
	boardB, err := b.Generate(seeded())
	require.NoError(t, err)
	assert.Equal(t, *boardA, *boardB)
}

func TestWinner(t *testing.T) {
	pool := newTestPool(t, "1")
	require.NoError(t, pool.Claim("amy", 100))
	board, err := pool.Generate(seeded())
	require.NoError(t, err)

	w, err := board.Winner(17, 24)
	require.NoError(t, err)
	assert.Equal(t, 7, board.Rows[w.Row])
	assert.Equal(t, 4, board.Cols[w.Col])
	assert.Equal(t, "amy", w.Participant)

	_, err = board.Winner(-3, 0)
	assert.ErrorIs(t, err, ErrNegativeScore)
}

func TestResolvePeriod(t *testing.T) {
	pool := newTestPool(t, "10")
	require.NoError(t, pool.Claim("amy", 100))

	_, err := pool.ResolvePeriod(Q1, 7, 3)
	assert.ErrorIs(t, err, ErrPoolNotLocked)

	_, err = pool.Generate(seeded())
	require.NoError(t, err)

	_, err = pool.ResolvePeriod(Q2, 14, 3)
	assert.ErrorIs(t, err, ErrOutOfOrder)

	r, err := pool.ResolvePeriod(Q1, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, "amy", r.Winner.Participant)
	assert.Equal(t, "250.00", r.Payout.StringFixed(2))
	assert.False(t, r.RolledOver)

	_, err = pool.ResolvePeriod(Q1, 7, 3)
	assert.ErrorIs(t, err, ErrPeriodResolved)

	_, err = pool.ResolvePeriod("q5", 7, 3)
	assert.ErrorIs(t, err, ErrUnknownPeriod)

	assert.Len(t, pool.Results(), 1)
}

func TestResolvePeriodRollover(t *testing.T) {
	pool := newTestPool(t, "10")
	require.NoError(t, pool.Claim("amy", 1))
	board, err := pool.Generate(seeded())
	require.NoError(t, err)

	var emptyHome, emptyAway, ownedHome, ownedAway int
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if board.Owner(row, col) == "" {
				emptyHome, emptyAway = board.Rows[row], board.Cols[col]
			} else {
				ownedHome, ownedAway = board.Rows[row], board.Cols[col]
			}
		}
	}

	r, err := pool.ResolvePeriod(Q1, emptyHome, emptyAway)
	require.NoError(t, err)
	assert.True(t, r.RolledOver)
	assert.Equal(t, "2.50", r.Payout.StringFixed(2))

	r, err = pool.ResolvePeriod(Q2, ownedHome+10, ownedAway+20)
	require.NoError(t, err)
	assert.Equal(t, "amy", r.Winner.Participant)
	assert.Equal(t, "5.00", r.Payout.StringFixed(2))

	_, err = pool.ResolvePeriod(Q3, ownedHome, ownedAway)
	require.NoError(t, err)

	r, err = pool.ResolvePeriod(Final, emptyHome, emptyAway)
	require.NoError(t, err)
	assert.True(t, r.Unclaimed)
	assert.False(t, r.RolledOver)
	assert.Equal(t, "2.50", r.Payout.StringFixed(2))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" FINAL ")
	require.NoError(t, err)
	assert.Equal(t, Final, p)

	_, err = ParsePeriod("ot")
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestResolvePeriodNormalizesCase(t *testing.T) {
	pool := newTestPool(t, "10")
	require.NoError(t, pool.Claim("amy", 100))
	_, err := pool.Generate(seeded())
	require.NoError(t, err)

	r, err := pool.ResolvePeriod(Period("Q1"), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, Q1, r.Period)

	_, err = pool.ResolvePeriod(Period("q1"), 7, 3)
	assert.ErrorIs(t, err, ErrPeriodResolved)

	for _, period := range []Period{Q2, Q3, Final} {
		_, err = pool.ResolvePeriod(period, 7, 3)
		require.NoError(t, err)
	}

	_, err = pool.ResolvePeriod(Period("FINAL"), 7, 3)
	assert.ErrorIs(t, err, ErrPeriodResolved)
	assert.Len(t, pool.Results(), 4)
}

func TestResolvePeriodPaysWholePot(t *testing.T) {
	pool := newTestPool(t, "0.01")
	require.NoError(t, pool.Claim("amy", 100))
	_, err := pool.Generate(seeded())
	require.NoError(t, err)

	total := decimal.Zero
	for _, period := range Periods {
		r, err := pool.ResolvePeriod(period, 7, 3)
		require.NoError(t, err)
		total = total.Add(r.Payout)
	}
	assert.True(t, pool.Pot().Equal(total), "paid %s of %s", total, pool.Pot())

	small := newTestPool(t, "0.01")
	require.NoError(t, small.Claim("amy", 1))
	_, err = small.Generate(seeded())
	require.NoError(t, err)

	var payouts []string
	for _, period := range Periods {
		r, err := small.ResolvePeriod(period, 0, 0)
		require.NoError(t, err)
		payouts = append(payouts, r.Payout.StringFixed(2))
	}
	assert.Equal(t, "0.01", payouts[3])
}

func TestBoardOwnerOffGrid(t *testing.T) {
	pool := newTestPool(t, "1")
	require.NoError(t, pool.Claim("amy", 100))
	board, err := pool.Generate(seeded())
	require.NoError(t, err)

	assert.Equal(t, "amy", board.Owner(0, 0))
	assert.Equal(t, "", board.Owner(Size, 0))
	assert.Equal(t, "", board.Owner(0, -1))
}

func TestBoardIsCopied(t *testing.T) {
	pool := newTestPool(t, "1")
	require.NoError(t, pool.Claim("amy", 100))
	board, err := pool.Generate(seeded())
	require.NoError(t, err)

	board.Cells[0][0] = "mallory"
	board.Rows[0], board.Rows[1] = board.Rows[1], board.Rows[0]

	locked, err := pool.Board()
	require.NoError(t, err)
	assert.Equal(t, "amy", locked.Owner(0, 0))
	assert.NotEqual(t, board.Rows, locked.Rows)
}
