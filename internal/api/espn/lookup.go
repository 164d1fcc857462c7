package espn

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/gameday/internal/models"
)

const (
	slotQB    = 0
	slotRB    = 2
	slotWR    = 4
	slotTE    = 6
	slotDST   = 16
	slotK     = 17
	slotBench = 20
	slotIR    = 21
	slotFlex  = 23
)

const (
	playerMatchThreshold = 0.7
	teamMatchThreshold   = 0.6
)

func getPositionString(positionID int) string {
	positions := map[int]string{
		1: "QB", 2: "RB", 3: "WR", 4: "TE", 5: "K", 16: "D/ST",
	}
	if pos, ok := positions[positionID]; ok {
		return pos
	}
	return "Unknown"
}

func getProTeamString(proTeamID int) string {
	teams := map[int]string{
		1: "ATL", 2: "BUF", 3: "CHI", 4: "CIN", 5: "CLE", 6: "DAL", 7: "DEN", 8: "DET",
		9: "GB", 10: "TEN", 11: "IND", 12: "KC", 13: "LV", 14: "LAR", 15: "MIA", 16: "MIN",
		17: "NE", 18: "NO", 19: "NYG", 20: "NYJ", 21: "PHI", 22: "ARI", 23: "PIT", 24: "LAC",
		25: "SF", 26: "SEA", 27: "TB", 28: "WSH", 29: "CAR", 30: "JAX", 33: "BAL", 34: "HOU",
	}

	if team, ok := teams[proTeamID]; ok {
		return team
	}

	return "Unknown"
}

func isStartingLineup(slotID int) bool {
	switch slotID {
	case slotQB, slotRB, slotWR, slotTE, slotDST, slotK, slotFlex:
		return true
	default:
		return false
	}
}

func getLineupSlotString(slotID int) string {
	switch slotID {
	case slotQB:
		return "QB"
	case slotRB:
		return "RB"
	case slotWR:
		return "WR"
	case slotTE:
		return "TE"
	case slotDST:
		return "D/ST"
	case slotK:
		return "K"
	case slotBench:
		return "Bench"
	case slotIR:
		return "IR"
	case slotFlex:
		return "FLEX"
	default:
		return "Unknown"
	}
}

var lineupOrder = map[string]int{
	"QB":   1,
	"RB":   2,
	"WR":   3,
	"TE":   4,
	"FLEX": 5,
	"D/ST": 6,
	"K":    7,
}

func sortStarters(starters []models.RosterPlayer) {
	sort.SliceStable(starters, func(i, j int) bool {
		return lineupOrder[starters[i].LineupSlot] < lineupOrder[starters[j].LineupSlot]
	})
}

func sortLines(lines []models.PlayerLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lineupOrder[lines[i].LineupSlot] < lineupOrder[lines[j].LineupSlot]
	})
}

// similarity is 1 minus the normalized Levenshtein distance.
func similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(maxLen)
}

// bestMatch returns the index of the candidate most similar to query, or -1
// when nothing clears the threshold. A case-insensitive substring hit such as
// a last name wins outright.
func bestMatch(query string, candidates []string, threshold float64) int {
	query = strings.TrimSpace(query)
	if query == "" {
		return -1
	}

	if hits := fuzzy.FindFold(query, candidates); len(hits) == 1 {
		for i, c := range candidates {
			if c == hits[0] && strings.Contains(strings.ToLower(c), strings.ToLower(query)) {
				return i
			}
		}
	}

	best := -1
	bestScore := threshold
	for i, c := range candidates {
		if s := similarity(query, c); s > bestScore {
			best = i
			bestScore = s
		}
	}
	return best
}
