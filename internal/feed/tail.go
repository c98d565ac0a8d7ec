package feed

import (
	"context"
	"time"

	"github.com/abhisek/circlez/internal/store"
)

// Tail polls repo for attempts recorded by other processes sharing the
// database and publishes them to hub until ctx is done. Only attempts
// newer than the latest one at start are published.
//
// A `circlez reset` rewinds sequences; Tail notices the newest sequence
// falling below its cursor and starts over from zero.
func Tail(ctx context.Context, repo store.EventRepo, hub *Hub, source string, interval time.Duration) error {
	cursor, err := latestSequence(ctx, repo)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		latest, err := latestSequence(ctx, repo)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if latest < cursor {
			cursor = 0
		}

		attempts, err := repo.AttemptsAfter(ctx, cursor, 100)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		for _, a := range attempts {
			hub.Publish(FromAttempt(a, source))
			cursor = a.Sequence
		}
	}
}

func latestSequence(ctx context.Context, repo store.EventRepo) (int64, error) {
	recent, err := repo.RecentAttempts(ctx, store.QueryOpts{Limit: 1})
	if err != nil || len(recent) == 0 {
		return 0, err
	}
	return recent[0].Sequence, nil
}
