package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/circlez/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetDuration("since")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		attempts, err := s.EventRepo().RecentAttempts(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}

		if len(attempts) == 0 {
			fmt.Println("No attempts recorded yet.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %5s  %-16s  %6s  %6s  %6s  %s\n",
			"Seq", "Time", "Score", "Grade", "Reg", "Close", "Pts", "Session")
		fmt.Println(strings.Repeat("─", 92))

		for _, a := range attempts {
			score, grade := "-", "too short"
			if a.Scored {
				score = fmt.Sprintf("%d", a.Score)
				grade = a.Grade
			}
			if a.NewBest {
				grade += " ★"
			}
			fmt.Printf("%-6d  %-19s  %5s  %-16s  %6.1f  %6.1f  %6d  %s\n",
				a.Sequence,
				a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				score,
				grade,
				a.Regularity,
				a.Closure,
				a.PointCount,
				truncate(a.SessionID, 8),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show (0 for all)")
	historyCmd.Flags().Duration("since", 0, "Only show attempts newer than this (e.g. 24h)")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
