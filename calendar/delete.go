package calendar

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DeleteAll removes every event of the calendar behind svc. Deletions run
// concurrently, at most limit at a time; the first failure cancels the rest
// and is returned.
func DeleteAll(ctx context.Context, svc Service, limit int) (int, error) {
	events, err := svc.ListEvents(ctx)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, event := range events {
		id := event.ID
		g.Go(func() error {
			return svc.DeleteEvent(gctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(events), nil
}
