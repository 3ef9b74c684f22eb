// Package poller runs one repeating fetch task per active view. Each poller
// is started with the view's lifetime context and stopped when the view
// goes away; there is no global timer.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/finboardhq/finboard-portal/internal/common"
)

// Task is one scheduled fetch. Errors are logged and the next tick proceeds;
// the last good result stays in place.
type Task func(ctx context.Context) error

// Poller invokes a task immediately on start and then at a fixed interval
// until stopped or its context is cancelled.
type Poller struct {
	name     string
	interval time.Duration
	task     Task
	logger   *common.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a poller. It does nothing until Start is called.
func New(name string, interval time.Duration, task Task, logger *common.Logger) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		task:     task,
		logger:   logger,
	}
}

// Start launches the polling loop. Calling Start on a running poller is a
// no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx, p.done)
}

// Stop cancels the polling loop and waits for the in-flight task to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	p.invoke(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug().Str("poller", p.name).Msg("poller stopped")
			return
		case <-ticker.C:
			p.invoke(ctx)
		}
	}
}

func (p *Poller) invoke(ctx context.Context) {
	if err := p.task(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn().Str("poller", p.name).Err(err).Msg("refresh failed, keeping last result")
	}
}
