package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/circlez/internal/coach"
	"github.com/abhisek/circlez/internal/llm"
	"github.com/abhisek/circlez/internal/pointsfile"
	"github.com/abhisek/circlez/internal/scoring"
	"github.com/abhisek/circlez/internal/secrets"
	"github.com/abhisek/circlez/internal/store"
)

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Manage the AI coach",
}

var coachLoginCmd = &cobra.Command{
	Use:       "login <provider>",
	Short:     "Store an API key for a coach provider in the OS keychain",
	Args:      cobra.ExactArgs(1),
	ValidArgs: llm.Providers,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := checkProvider(args[0])
		if err != nil {
			return err
		}

		key, _ := cmd.Flags().GetString("key")
		if key == "" {
			fmt.Fprintf(os.Stderr, "API key for %s: ", provider)
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read API key: %w", err)
			}
			key = strings.TrimSpace(line)
		}

		if err := secrets.NewKeyringStore("").Set(provider, key); err != nil {
			return err
		}
		fmt.Printf("Saved %s key. Set CIRCLEZ_LLM_PROVIDER=%s to prefer it.\n", provider, provider)
		return nil
	},
}

var coachLogoutCmd = &cobra.Command{
	Use:       "logout <provider>",
	Short:     "Remove a stored API key",
	Args:      cobra.ExactArgs(1),
	ValidArgs: llm.Providers,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := checkProvider(args[0])
		if err != nil {
			return err
		}
		if err := secrets.NewKeyringStore("").Delete(provider); err != nil {
			return err
		}
		fmt.Printf("Removed %s key.\n", provider)
		return nil
	},
}

var coachTipCmd = &cobra.Command{
	Use:   "tip",
	Short: "Score a points file and ask the coach for advice",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		raw, _ := cmd.Flags().GetBool("raw")

		pts, err := pointsfile.LoadFile(input)
		if err != nil {
			return fmt.Errorf("load points: %w", err)
		}
		b, ok := scoring.Analyze(pointsfile.Sample(pts, raw))
		if !ok {
			return fmt.Errorf("too short to score: %d points, need at least %d", b.PointCount, scoring.MinPoints)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		c := buildCoach(cmd.Context(), s.EventRepo())
		tip, err := c.Tip(cmd.Context(), b)
		if err != nil {
			warnf("coach unavailable, showing offline advice: %v", err)
		}

		fmt.Printf("Score %d (%s)\n\n", b.Score, scoring.GradeFor(b.Score).Label)
		fmt.Println(tip.Headline)
		fmt.Println(tip.Advice)
		fmt.Printf("\nfocus: %s  source: %s\n", tip.Focus, tip.Source)
		return nil
	},
}

func checkProvider(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !slices.Contains(llm.Providers, name) {
		return "", fmt.Errorf("unknown provider %q (want one of %s)", name, strings.Join(llm.Providers, ", "))
	}
	return name, nil
}

// resolveLLMConfig layers CIRCLEZ_* variables, keychain entries and the
// providers' own key variables. An explicit CIRCLEZ_LLM_PROVIDER always
// wins; otherwise the first provider with a key is used.
func resolveLLMConfig() (llm.Config, error) {
	cfg := llm.ConfigFromEnv()

	isMissing := func(err error) bool {
		return errors.Is(err, secrets.ErrNotFound) || errors.Is(err, secrets.ErrUnavailable)
	}
	if err := cfg.FillFromKeyring(secrets.NewKeyringStore(""), isMissing); err != nil {
		warnf("read coach keys from keychain: %v", err)
	}

	if os.Getenv("CIRCLEZ_LLM_PROVIDER") == "" && cfg.Endpoint().APIKey == "" {
		if found := firstKeyed(cfg); found != "" {
			cfg.Provider = found
		} else if discovered, ok := llm.DiscoverConfig(); ok {
			cfg = discovered
		}
	}
	return cfg, cfg.Validate()
}

func firstKeyed(cfg llm.Config) string {
	for _, name := range llm.Providers {
		if cfg.Endpoints[name].APIKey != "" {
			return name
		}
	}
	return ""
}

// buildCoach returns a model-backed coach when a provider is configured and
// a heuristic-only coach otherwise.
func buildCoach(ctx context.Context, repo store.EventRepo) *coach.Coach {
	cfg, err := resolveLLMConfig()
	if err != nil {
		if !errors.Is(err, llm.ErrNoAPIKey) {
			warnf("coach: %v", err)
		}
		return coach.New(nil, coach.DefaultConfig())
	}
	provider, err := llm.NewProvider(ctx, cfg, repo)
	if err != nil {
		warnf("coach: %v", err)
		return coach.New(nil, coach.DefaultConfig())
	}
	return coach.New(provider, coach.DefaultConfig())
}

func init() {
	coachLoginCmd.Flags().String("key", "", "API key (read from stdin when omitted)")

	coachTipCmd.Flags().StringP("input", "i", "", "Points file (JSON), or - for stdin")
	coachTipCmd.Flags().Bool("raw", false, "Skip jitter filtering")
	_ = coachTipCmd.MarkFlagRequired("input")

	coachCmd.AddCommand(coachLoginCmd)
	coachCmd.AddCommand(coachLogoutCmd)
	coachCmd.AddCommand(coachTipCmd)
}
