package bot

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const defaultQueueSize = 64

// Dispatcher fans updates out to a fixed set of workers. Updates are sharded
// by user id, so one user's updates are handled one at a time and in arrival
// order while different users proceed in parallel.
type Dispatcher struct {
	handle HandlerFunc
	queues []chan Update
	logger *slog.Logger
}

func NewDispatcher(workers int, handle HandlerFunc, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	queues := make([]chan Update, workers)
	for i := range queues {
		queues[i] = make(chan Update, defaultQueueSize)
	}
	return &Dispatcher{handle: handle, queues: queues, logger: logger}
}

// Dispatch queues u on its user's worker. It blocks while that queue is full
// and gives up when ctx is done.
func (d *Dispatcher) Dispatch(ctx context.Context, u Update) error {
	q := d.queues[d.shard(u.From().UserID)]
	select {
	case q <- u:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) shard(userID int64) int {
	n := userID % int64(len(d.queues))
	if n < 0 {
		n = -n
	}
	return int(n)
}

// Run starts the workers and blocks until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, q := range d.queues {
		g.Go(func() error {
			d.work(ctx, i, q)
			return nil
		})
	}
	return g.Wait()
}

func (d *Dispatcher) work(ctx context.Context, id int, q <-chan Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u := <-q:
			d.safeHandle(ctx, id, u)
		}
	}
}

// safeHandle keeps one bad update from taking the worker down.
func (d *Dispatcher) safeHandle(ctx context.Context, id int, u Update) {
	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("update handler panicked", "worker", id, "user_id", u.From().UserID, "panic", fmt.Sprint(rec))
		}
	}()
	// the handler logs its own errors
	_ = d.handle(ctx, u)
}
