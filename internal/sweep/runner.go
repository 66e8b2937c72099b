package sweep

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"legacy-scheduler/internal/model"
)

// Sweeper is the single pass over due messages. The runner only decides
// when a pass happens, never what it does.
type Sweeper interface {
	RunSweep(ctx context.Context, now time.Time) (model.SweepSummary, error)
}

// Runner fires the sweeper on a fixed interval. Start and Stop are safe
// to call from any goroutine; a second Start while running is a no-op.
type Runner struct {
	log      *zap.Logger
	sweeper  Sweeper
	interval time.Duration

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewRunner(log *zap.Logger, sweeper Sweeper, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Minute
	}

	return &Runner{
		log:      log,
		sweeper:  sweeper,
		interval: interval,
	}
}

func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running.Load() {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.running.Store(true)

	go r.loop(ctx, r.done)

	r.log.Info("sweep runner started", zap.Duration("interval", r.interval))
}

func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running.Load() {
		return
	}

	r.cancel()
	<-r.done
	r.running.Store(false)

	r.log.Info("sweep runner stopped")
}

func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.safeTick(ctx)
		}
	}
}

// safeTick keeps a panicking sweep from killing the loop.
func (r *Runner) safeTick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("sweep tick panicked", zap.Any("panic", rec))
		}
	}()

	summary, err := r.sweeper.RunSweep(ctx, time.Now().UTC())
	if err != nil {
		r.log.Error("scheduled sweep failed", zap.Error(err))

		return
	}

	r.log.Info("scheduled sweep finished",
		zap.Int("processed", summary.Processed),
		zap.Int("errors", summary.Errors),
		zap.Int("total", summary.Total),
	)
}
