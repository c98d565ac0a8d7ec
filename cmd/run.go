package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/circlez/internal/app"
	"github.com/abhisek/circlez/internal/feed"
	"github.com/abhisek/circlez/internal/render"
	"github.com/abhisek/circlez/internal/screen"
	"github.com/abhisek/circlez/internal/store"
)

type runOptions struct {
	share     bool
	advertise bool
	addr      string
	name      string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start drawing (optionally sharing attempts on the LAN)",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts runOptions
		opts.share, _ = cmd.Flags().GetBool("share")
		opts.advertise, _ = cmd.Flags().GetBool("advertise")
		opts.addr, _ = cmd.Flags().GetString("addr")
		opts.name, _ = cmd.Flags().GetString("name")
		if opts.advertise {
			opts.share = true
		}
		return runApp(cmd, opts)
	},
}

func init() {
	addFeedFlags(runCmd)
	runCmd.Flags().Bool("share", false, "Serve a live feed of attempts while drawing")
}

func addFeedFlags(cmd *cobra.Command) {
	cmd.Flags().String("addr", feed.DefaultAddr, "Feed listen address")
	cmd.Flags().Bool("advertise", false, "Announce the feed over mDNS")
	cmd.Flags().String("name", "", "Instance name shown to watchers (default hostname)")
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, opts runOptions) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	// The TUI owns the terminal; without --log-file logs are dropped.
	if logFile == nil {
		slog.SetDefault(slog.New(slog.DiscardHandler))
	}

	repo := st.EventRepo()
	deps := screen.Deps{
		Repo:   repo,
		Coach:  buildCoach(ctx, repo),
		Source: instanceName(opts.name),
		Render: render.DefaultConfig(),
		Log:    slog.Default(),
	}

	var feedDone <-chan error
	if opts.share {
		deps.Hub = feed.NewHub()
		done, err := startFeed(ctx, opts, deps.Hub, repo, deps.Source)
		if err != nil {
			return err
		}
		feedDone = done
	}

	err = app.Run(ctx, deps)
	cancel()
	if feedDone != nil {
		if ferr := <-feedDone; ferr != nil {
			warnf("feed: %v", ferr)
		}
	}
	return err
}

// startFeed listens on opts.addr, optionally advertises over mDNS, and
// serves until ctx is cancelled. The returned channel yields the serve
// result.
func startFeed(ctx context.Context, opts runOptions, hub *feed.Hub, repo store.EventRepo, source string) (<-chan error, error) {
	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", opts.addr, err)
	}

	var ad *feed.Advertisement
	if opts.advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		ad, err = feed.Advertise(opts.name, port)
		if err != nil {
			warnf("mDNS advertise: %v", err)
		}
	}

	srv := feed.NewServer(hub, repo, source, slog.Default())
	done := make(chan error, 1)
	go func() {
		err := srv.Serve(ctx, ln)
		if ad != nil {
			_ = ad.Close()
		}
		done <- err
	}()
	return done, nil
}

func instanceName(name string) string {
	if name != "" {
		return name
	}
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "circlez"
}
