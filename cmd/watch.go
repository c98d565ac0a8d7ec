package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/circlez/internal/feed"
)

const discoverTimeout = 3 * time.Second

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream attempts from a circlez feed",
	Long: `Print attempts from a feed started with "circlez run --share" or
"circlez serve" as they happen. Without --url the first feed found on the
local network is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, _ := cmd.Flags().GetString("url")
		backlog, _ := cmd.Flags().GetInt("backlog")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		if base == "" {
			peers, err := feed.Discover(ctx, discoverTimeout)
			if err != nil && len(peers) == 0 {
				return fmt.Errorf("discover feeds: %w", err)
			}
			if len(peers) == 0 {
				return errors.New("no feeds found on the local network; pass --url")
			}
			base = peers[0].Address()
			fmt.Printf("Watching %s at %s\n", peers[0].Name, base)
		}

		out := cmd.OutOrStdout()
		if backlog > 0 {
			recent, err := feed.Recent(ctx, base, backlog)
			if err != nil {
				return err
			}
			// Oldest first, like the live stream.
			for i := len(recent) - 1; i >= 0; i-- {
				printEvent(out, recent[i])
			}
		}

		client, err := feed.Dial(ctx, base)
		if err != nil {
			return err
		}
		go func() {
			<-ctx.Done()
			_ = client.Close()
		}()

		for {
			ev, err := client.Next()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("feed closed: %w", err)
			}
			printEvent(out, ev)
		}
	},
}

var watchDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List feeds advertised on the local network",
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout+time.Second)
		defer cancel()

		peers, err := feed.Discover(ctx, timeout)
		if err != nil && len(peers) == 0 {
			return fmt.Errorf("discover feeds: %w", err)
		}
		if len(peers) == 0 {
			fmt.Println("No feeds found.")
			return nil
		}
		for _, p := range peers {
			fmt.Printf("%-24s  %-21s  %s\n", p.Name, p.Address(), p.Host)
		}
		return nil
	},
}

func printEvent(w io.Writer, ev feed.AttemptEvent) {
	at := ev.At.Local().Format("15:04:05")
	if !ev.Scored {
		fmt.Fprintf(w, "%s  %-12s  too short (%d points)\n", at, truncate(ev.Source, 12), ev.PointCount)
		return
	}
	best := ""
	if ev.NewBest {
		best = "  ★ new best"
	}
	fmt.Fprintf(w, "%s  %-12s  %3d  %-16s  reg %5.1f  close %5.1f  pts %d%s\n",
		at, truncate(ev.Source, 12), ev.Score, ev.Grade, ev.Regularity, ev.Closure, ev.PointCount, best)
}

func init() {
	watchCmd.Flags().String("url", "", "Feed address, e.g. http://host:7420")
	watchCmd.Flags().Int("backlog", 10, "Print this many stored attempts before streaming")
	watchDiscoverCmd.Flags().Duration("timeout", discoverTimeout, "How long to browse")

	watchCmd.AddCommand(watchDiscoverCmd)
}
