package snow

import (
	"testing"
	"time"
)

const waitTimeout = 2 * time.Second

func TestSchedulerRunsRequestedTick(t *testing.T) {
	ran := make(chan struct{}, 4)
	s := NewScheduler(func() { ran <- struct{}{} }, quietLogger)
	defer s.Stop()

	if !s.Request() {
		t.Fatal("Request refused on a running scheduler")
	}
	select {
	case <-ran:
	case <-time.After(waitTimeout):
		t.Fatal("tick never ran")
	}
}

func TestSchedulerCoalescesPendingTicks(t *testing.T) {
	started := make(chan struct{}, 4)
	gate := make(chan struct{})
	s := NewScheduler(func() {
		started <- struct{}{}
		<-gate
	}, quietLogger)
	defer s.Stop()

	s.Request()
	select {
	case <-started:
	case <-time.After(waitTimeout):
		t.Fatal("first tick never started")
	}

	// The worker is busy: one request queues, the rest are absorbed.
	for i := 0; i < 10; i++ {
		s.Request()
	}
	if got := s.Coalesced(); got != 9 {
		t.Errorf("expected 9 coalesced requests, got %d", got)
	}

	close(gate)
	select {
	case <-started:
	case <-time.After(waitTimeout):
		t.Fatal("queued tick never ran")
	}

	deadline := time.Now().Add(waitTimeout)
	for s.Ticks() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.Ticks() != 2 {
		t.Fatalf("expected 2 ticks, got %d", s.Ticks())
	}

	// Nothing else is queued.
	select {
	case <-started:
		t.Error("unexpected extra tick")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSchedulerStopDiscardsPending(t *testing.T) {
	started := make(chan struct{}, 4)
	gate := make(chan struct{})
	s := NewScheduler(func() {
		started <- struct{}{}
		<-gate
	}, quietLogger)

	s.Request()
	<-started
	s.Request() // queued behind the running tick

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(gate)
	}()
	s.Stop()

	if s.Ticks() != 1 {
		t.Errorf("expected only the running tick to finish, got %d ticks", s.Ticks())
	}
	if s.Request() {
		t.Error("Request accepted after Stop")
	}
	s.Stop()
}

func TestSchedulerRecoversPanics(t *testing.T) {
	s := NewScheduler(func() { panic("boom") }, quietLogger)
	defer s.Stop()

	s.Request()
	deadline := time.Now().Add(waitTimeout)
	for !s.Failed() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !s.Failed() {
		t.Fatal("expected the scheduler to be marked failed")
	}
	if s.Request() {
		t.Error("failed scheduler accepted a request")
	}
	if s.Ticks() != 0 {
		t.Errorf("panicked tick counted as complete (%d)", s.Ticks())
	}
}
