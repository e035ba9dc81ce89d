package notes

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shortnote/shortnote-bot/calendar"
	"github.com/shortnote/shortnote-bot/logger"
	"github.com/shortnote/shortnote-bot/otel"
)

var errEmptyEvent = errors.New("calendar returned no event")

// ProgressFunc is told how many inserts have succeeded so far.
type ProgressFunc func(completed, total int)

// Result is the outcome of one insert, at the index of its request.
type Result struct {
	Event *calendar.Event
	Err   error
}

func (r Result) OK() bool {
	return r.Err == nil && r.Event != nil
}

type Submitter struct {
	limit     int
	timeout   time.Duration
	logger    logger.Logger
	telemetry otel.OpenTelemetry
}

// NewSubmitter returns a Submitter running at most limit inserts at once, each
// bounded by timeout. Zero values disable the bound. telemetry may be nil.
func NewSubmitter(limit int, timeout time.Duration, log logger.Logger, telemetry otel.OpenTelemetry) *Submitter {
	return &Submitter{
		limit:     limit,
		timeout:   timeout,
		logger:    log.With("component", "submitter"),
		telemetry: telemetry,
	}
}

// Submit inserts every request concurrently and consumes the completions in
// submission order, so progress only ever moves forward along the input. A
// failed insert is logged and left out of the completed count; it never stops
// the others.
func (s *Submitter) Submit(ctx context.Context, svc calendar.Service, reqs []calendar.EventRequest, progress ProgressFunc) []Result {
	total := len(reqs)
	results := make([]Result, total)
	if total == 0 {
		return results
	}
	started := time.Now()

	done := make([]chan Result, total)
	for i := range done {
		done[i] = make(chan Result, 1)
	}

	var g errgroup.Group
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, req := range reqs {
			i, req := i, req
			g.Go(func() error {
				done[i] <- s.insert(ctx, svc, req)
				return nil
			})
		}
	}()

	completed := 0
	for i := range done {
		r := <-done[i]
		results[i] = r
		if !r.OK() {
			s.logger.Error("failed to create event", r.Err, "operation", "insert", "index", i, "summary", reqs[i].Summary)
			s.record(ctx, otel.StatusFailure)
			continue
		}
		completed++
		s.record(ctx, otel.StatusSuccess)
		if progress != nil {
			progress(completed, total)
		}
	}

	<-launched
	_ = g.Wait()

	if s.telemetry != nil {
		s.telemetry.RecordBatch(ctx, total, completed, time.Since(started))
	}
	s.logger.Debug("batch submitted", "total", total, "completed", completed)
	return results
}

func (s *Submitter) insert(ctx context.Context, svc calendar.Service, req calendar.EventRequest) Result {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	event, err := svc.InsertEvent(ctx, req)
	if err == nil && event == nil {
		err = errEmptyEvent
	}
	return Result{Event: event, Err: err}
}

func (s *Submitter) record(ctx context.Context, status string) {
	if s.telemetry != nil {
		s.telemetry.RecordEventInsert(ctx, status)
	}
}
