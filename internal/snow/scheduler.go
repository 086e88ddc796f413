package snow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Scheduler runs update ticks one at a time on a dedicated goroutine.
//
// At most one tick is ever pending: a request that arrives while another is
// still queued is absorbed by it. Request never blocks.
type Scheduler struct {
	tick   func()
	logger *slog.Logger

	pending chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once

	failed    atomic.Bool
	ran       atomic.Uint64
	coalesced atomic.Uint64
}

// NewScheduler starts the worker goroutine. tick is called on the worker for
// every accepted request.
func NewScheduler(tick func(), logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		tick:    tick,
		logger:  logger,
		pending: make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Request posts a tick. It returns false when the scheduler is stopped or
// failed.
func (s *Scheduler) Request() bool {
	if s.ctx.Err() != nil || s.failed.Load() {
		return false
	}
	select {
	case s.pending <- struct{}{}:
	default:
		s.coalesced.Add(1)
	}
	return true
}

// Stop cancels the worker, drops any pending tick and waits for a running
// tick to finish. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
		select {
		case <-s.pending:
		default:
		}
	})
}

// Failed reports whether a tick panicked and the worker gave up.
func (s *Scheduler) Failed() bool { return s.failed.Load() }

// Ticks returns the number of ticks that have run to completion.
func (s *Scheduler) Ticks() uint64 { return s.ran.Load() }

// Coalesced returns the number of requests absorbed by a pending tick.
func (s *Scheduler) Coalesced() uint64 { return s.coalesced.Load() }

func (s *Scheduler) run() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.pending:
			// Stop may race with a queued tick; cancellation wins.
			if s.ctx.Err() != nil {
				return
			}
			if err := s.runTick(); err != nil {
				s.failed.Store(true)
				s.logger.Error("snow_tick_failed", "error", err, "ticks", s.ran.Load())
				return
			}
		}
	}
}

func (s *Scheduler) runTick() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panicked: %v", r)
		}
	}()
	s.tick()
	s.ran.Add(1)
	return nil
}
