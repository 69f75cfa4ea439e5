// Package tracking sends the provider's mandatory download pings off the
// request path.
package tracking

import (
	"context"
	"sync"
	"time"

	"spring/internal/logging"
	"spring/internal/unsplash"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

type Tracker interface {
	TrackDownload(ctx context.Context, ref unsplash.TrackingRef) error
}

type Options struct {
	Workers int
	Queue   int
	Timeout time.Duration
}

// Dispatcher queues tracking refs and pings them from a fixed pool of
// workers. Once Dispatch returns, the ping is owned by the dispatcher and
// will be attempted exactly once.
type Dispatcher struct {
	tracker Tracker
	timeout time.Duration
	queue   chan unsplash.TrackingRef
	g       *errgroup.Group

	mu     sync.RWMutex
	closed bool

	requests metric.Int64Counter
}

func New(tracker Tracker, opts Options) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	requests, err := otel.Meter("spring/internal/tracking").Int64Counter(
		"tracking.requests",
		metric.WithDescription("Download tracking pings by outcome"),
	)
	if err != nil {
		logging.Warn().Err(err).Msg("tracking counter unavailable")
	}

	d := &Dispatcher{
		tracker:  tracker,
		timeout:  opts.Timeout,
		queue:    make(chan unsplash.TrackingRef, opts.Queue),
		g:        new(errgroup.Group),
		requests: requests,
	}

	for range opts.Workers {
		d.g.Go(func() error {
			for ref := range d.queue {
				d.track(ref)
			}
			return nil
		})
	}

	return d
}

// Dispatch hands ref to a worker. It only blocks while the queue is full.
// After Close the ping is sent from its own goroutine instead of dropped.
func (d *Dispatcher) Dispatch(ref unsplash.TrackingRef) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		logging.Warn().Str("ref", string(ref)).Msg("tracking dispatched after close")
		go d.track(ref)
		return
	}

	d.queue <- ref
}

// Close stops intake and waits for queued pings, or for ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- d.g.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) track(ref unsplash.TrackingRef) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	outcome := "ok"
	if err := d.tracker.TrackDownload(ctx, ref); err != nil {
		outcome = "failed"
		logging.Warn().Err(err).Str("ref", string(ref)).Msg("download tracking failed")
	} else {
		logging.Debug().Str("ref", string(ref)).Msg("download tracked")
	}

	if d.requests != nil {
		d.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}
