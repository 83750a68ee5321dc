package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
)

var (
	ErrQueueFull = errors.New("notification queue is full")
	ErrClosed    = errors.New("notification dispatcher is closed")
)

// handleTimeout bounds a single delivery attempt.
const handleTimeout = 30 * time.Second

type job struct {
	ctx   context.Context
	event UserRegistered
}

// Dispatcher is a Sink that queues events in a bounded channel and hands them
// to a fixed pool of workers. Publish never blocks.
type Dispatcher struct {
	handler Handler
	logger  logging.Logger
	queue   chan job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts workers goroutines draining a queue of queueSize.
func NewDispatcher(handler Handler, workers, queueSize int, logger logging.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	d := &Dispatcher{
		handler: handler,
		logger:  logger.With("module", "notify"),
		queue:   make(chan job, queueSize),
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

// Publish enqueues event. The request context's values are kept but its
// cancellation is not, so delivery outlives the request.
func (d *Dispatcher) Publish(ctx context.Context, event UserRegistered) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.queue <- job{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until queued ones are handled or
// ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for j := range d.queue {
		ctx, cancel := context.WithTimeout(j.ctx, handleTimeout)
		if err := d.handler.Handle(ctx, j.event); err != nil {
			d.logger.Error(ctx, "notification delivery failed", "user_id", j.event.UserID, "error", err)
		}
		cancel()
	}
}
