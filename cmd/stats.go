package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/circlez/internal/llm"
	"github.com/abhisek/circlez/internal/scoring"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show scoring statistics and coach usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		st, err := repo.Stats(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		if st.Attempts == 0 {
			fmt.Println("No attempts recorded yet. Run `circlez` and draw a circle.")
			return nil
		}

		fmt.Println("Attempts")
		fmt.Println(strings.Repeat("─", 40))
		fmt.Printf("%-16s  %d\n", "Total", st.Attempts)
		fmt.Printf("%-16s  %d\n", "Scored", st.Scored)
		fmt.Printf("%-16s  %d\n", "Sessions", st.Sessions)
		fmt.Printf("%-16s  %d\n", "Best", st.Best)
		fmt.Printf("%-16s  %.1f\n", "Average", st.Average)
		if !st.Last.IsZero() {
			fmt.Printf("%-16s  %s\n", "Last", st.Last.Local().Format("2006-01-02 15:04:05"))
		}

		fmt.Println()
		fmt.Println("Grades")
		fmt.Println(strings.Repeat("─", 40))
		for _, tier := range scoring.Tiers() {
			n := st.Grades[tier.String()]
			bar := ""
			if st.Scored > 0 {
				bar = strings.Repeat("█", n*20/st.Scored)
			}
			fmt.Printf("%-16s  %4d  %s\n", tier, n, bar)
		}

		usage, err := repo.CoachUsage(ctx)
		if err != nil {
			return fmt.Errorf("query coach usage: %w", err)
		}
		if len(usage) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Println("Coach Usage (estimated USD)")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-28s  %6s  %6s  %8s  %8s  %9s\n",
			"Model", "Calls", "Failed", "Input", "Output", "Cost")
		fmt.Println(strings.Repeat("─", 72))

		var totalCost float64
		var unknownModels []string
		for _, u := range usage {
			cost := "?"
			if mc := llm.LookupCost(u.Model); mc != nil {
				c := mc.Cost(u.InputTokens, u.OutputTokens)
				totalCost += c
				cost = formatCost(c)
			} else {
				unknownModels = append(unknownModels, u.Model)
			}
			fmt.Printf("%-28s  %6d  %6d  %8d  %8d  %9s\n",
				truncate(u.Model, 28), u.Requests, u.Failures, u.InputTokens, u.OutputTokens, cost)
		}

		fmt.Println(strings.Repeat("─", 72))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-28s  %6s  %6s  %8s  %8s  %9s\n", label, "", "", "", "", formatCost(totalCost))
		if len(unknownModels) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
