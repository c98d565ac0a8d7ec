package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/circlez/internal/feed"
)

// tailInterval is how often serve polls the database for new attempts.
const tailInterval = time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only feed of stored and new attempts",
	Long: `Serve stored attempts over HTTP and stream new ones over a websocket.

New attempts are picked up from the database, so a TUI drawing against the
same --db shows up live without --share.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts runOptions
		opts.advertise, _ = cmd.Flags().GetBool("advertise")
		opts.addr, _ = cmd.Flags().GetString("addr")
		opts.name, _ = cmd.Flags().GetString("name")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if logFile == nil {
			installLogger(os.Stderr, slog.LevelInfo)
		}

		repo := st.EventRepo()
		hub := feed.NewHub()
		source := instanceName(opts.name)

		done, err := startFeed(ctx, opts, hub, repo, source)
		if err != nil {
			return err
		}
		fmt.Printf("Serving attempts on %s (ctrl+c to stop)\n", opts.addr)

		tailErr := make(chan error, 1)
		go func() { tailErr <- feed.Tail(ctx, repo, hub, source, tailInterval) }()

		select {
		case err = <-done:
			stop()
			<-tailErr
		case err = <-tailErr:
			stop()
			if serr := <-done; err == nil {
				err = serr
			}
		}
		return err
	},
}

func init() {
	addFeedFlags(serveCmd)
}
