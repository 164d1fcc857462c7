package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/omarshaarawi/gameday/internal/probability"
	"github.com/spf13/cobra"
)

// matchupFile is the input of "winprob matchup".
type matchupFile struct {
	Team1 probability.TeamRoster `json:"team1"`
	Team2 probability.TeamRoster `json:"team2"`
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		slog.Error("winprob failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var asJSON bool

	root := &cobra.Command{
		Use:           "winprob",
		Short:         "Fantasy matchup win probabilities and boom/bust checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print results as JSON")

	printResult := func(cmd *cobra.Command, result probability.WinProbabilityResult) error {
		if asJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "team1 %.1f%%\nteam2 %.1f%%\n",
			result.Team1WinProb*100, result.Team2WinProb*100)
		return err
	}

	root.AddCommand(&cobra.Command{
		Use:   "matchup <file.json|->",
		Short: "Win probability from both starting lineups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readMatchup(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, probability.MatchupProbabilities(m.Team1, m.Team2))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "simple <score1> <projected1> <score2> <projected2>",
		Short: "Win probability from team totals only",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			return printResult(cmd, probability.SimpleMatchupProbabilities(
				probability.SimpleTeamScore{Score: v[0], ProjectedScore: v[1]},
				probability.SimpleTeamScore{Score: v[2], ProjectedScore: v[3]},
			))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "classify <actual> <projected>",
		Short: "Compare a player's points to projection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}

			status := probability.Classify(v[0], probability.Points(v[1]))
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(status)
			}
			if status == nil {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "on target")
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %+.2f (%+.1f%%)\n", status.Type, status.Diff, status.Percentage)
			return err
		},
	})

	return root
}

func readMatchup(stdin io.Reader, path string) (matchupFile, error) {
	var m matchupFile

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return m, fmt.Errorf("failed to open matchup: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return m, fmt.Errorf("failed to decode matchup: %w", err)
	}
	return m, nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}
