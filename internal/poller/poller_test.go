package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/finboardhq/finboard-portal/internal/common"
)

func TestPoller_RunsImmediatelyThenOnInterval(t *testing.T) {
	var calls int64
	p := New("test", 20*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt64(&calls, 1)
		return nil
	}, common.NewSilentLogger())

	p.Start(context.Background())
	defer p.Stop()

	// First invocation is immediate.
	time.Sleep(10 * time.Millisecond)
	if atomic.LoadInt64(&calls) < 1 {
		t.Fatal("expected an immediate first invocation")
	}

	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt64(&calls) < 2 {
		t.Error("expected repeated invocations on the interval")
	}
}

func TestPoller_StopWaitsAndHalts(t *testing.T) {
	var calls int64
	p := New("test", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt64(&calls, 1)
		return nil
	}, common.NewSilentLogger())

	p.Start(context.Background())
	time.Sleep(25 * time.Millisecond)
	p.Stop()

	after := atomic.LoadInt64(&calls)
	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt64(&calls) != after {
		t.Error("poller must not run after Stop returns")
	}
}

func TestPoller_TaskErrorKeepsPolling(t *testing.T) {
	var calls int64
	p := New("test", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt64(&calls, 1)
		return errors.New("upstream down")
	}, common.NewSilentLogger())

	p.Start(context.Background())
	defer p.Stop()

	time.Sleep(35 * time.Millisecond)
	if atomic.LoadInt64(&calls) < 2 {
		t.Error("a failing task must not stop the loop")
	}
}

func TestPoller_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int64
	p := New("test", 10*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt64(&calls, 1)
		return nil
	}, common.NewSilentLogger())

	p.Start(ctx)
	time.Sleep(15 * time.Millisecond)
	cancel()
	time.Sleep(15 * time.Millisecond)

	after := atomic.LoadInt64(&calls)
	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt64(&calls) != after {
		t.Error("poller must halt when its context is cancelled")
	}

	p.Stop()
}

func TestPoller_DoubleStartIsNoOp(t *testing.T) {
	var calls int64
	p := New("test", time.Hour, func(ctx context.Context) error {
		atomic.AddInt64(&calls, 1)
		return nil
	}, common.NewSilentLogger())

	p.Start(context.Background())
	p.Start(context.Background())
	defer p.Stop()

	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("expected exactly one immediate invocation, got %d", got)
	}
}
