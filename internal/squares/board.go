// Package squares runs a "Super Bowl squares" pool: a 10x10 grid whose rows and
// columns are labelled with shuffled digits, where each quarter's winner owns the
// cell matching the last digit of both teams' scores.
package squares

import (
	"fmt"
	"math/rand/v2"
)

const (
	Size       = 10
	TotalCells = Size * Size
)

// Board is a generated grid. Rows are keyed to the home team's last digit,
// columns to the away team's.
type Board struct {
	Rows  [Size]int
	Cols  [Size]int
	Cells [Size][Size]string
}

type Winner struct {
	Row         int
	Col         int
	Participant string
}

func digits(rng *rand.Rand) [Size]int {
	var d [Size]int
	for i := range d {
		d[i] = i
	}
	rng.Shuffle(Size, func(i, j int) { d[i], d[j] = d[j], d[i] })
	return d
}

func newBoard(claims []Claim, rng *rand.Rand) *Board {
	b := &Board{
		Rows: digits(rng),
		Cols: digits(rng),
	}

	positions := rng.Perm(TotalCells)
	next := 0
	for _, c := range claims {
		for n := 0; n < c.Count; n++ {
			pos := positions[next]
			b.Cells[pos/Size][pos%Size] = c.Participant
			next++
		}
	}
	return b
}

// Owner returns the participant holding a cell, or "" when it is unclaimed or
// off the grid.
func (b *Board) Owner(row, col int) string {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return ""
	}
	return b.Cells[row][col]
}

func (b *Board) clone() *Board {
	c := *b
	return &c
}

// Cell finds the grid position for a score line.
func (b *Board) Cell(homeScore, awayScore int) (int, int, error) {
	if homeScore < 0 || awayScore < 0 {
		return 0, 0, fmt.Errorf("%w: %d-%d", ErrNegativeScore, homeScore, awayScore)
	}
	return indexOf(b.Rows, homeScore%Size), indexOf(b.Cols, awayScore%Size), nil
}

func (b *Board) Winner(homeScore, awayScore int) (Winner, error) {
	row, col, err := b.Cell(homeScore, awayScore)
	if err != nil {
		return Winner{}, err
	}
	return Winner{Row: row, Col: col, Participant: b.Cells[row][col]}, nil
}

// Count returns how many cells each participant holds.
func (b *Board) Count() map[string]int {
	counts := make(map[string]int)
	for _, row := range b.Cells {
		for _, owner := range row {
			if owner != "" {
				counts[owner]++
			}
		}
	}
	return counts
}

func indexOf(d [Size]int, digit int) int {
	for i, v := range d {
		if v == digit {
			return i
		}
	}
	return -1
}
