// Package pump drives native message dispatch and timer callbacks on a
// single goroutine.
package pump

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/btree"

	"github.com/1broseidon/winhost/internal/native"
)

const (
	DefaultIdleQuantum = 10 * time.Millisecond
	DefaultMaxWait     = time.Second
)

// State is the run-loop lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateExitRequested
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateExitRequested:
		return "exit-requested"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config holds pump tuning.
type Config struct {
	// IdleQuantum is how long the loop sleeps between polls when the
	// driver cannot block for events.
	IdleQuantum time.Duration
	// MaxWait caps a single blocking wait. Zero or less waits until an
	// event, a wake or the next timer.
	MaxWait time.Duration
	Logger  *slog.Logger
	// Now overrides the clock for tests.
	Now func() time.Time
}

// Pump owns the timer registry and runs the message loop for one driver.
type Pump struct {
	driver      native.Driver
	waiter      native.Waiter
	idleQuantum time.Duration
	maxWait     time.Duration
	logger      *slog.Logger
	now         func() time.Time

	exit    atomic.Bool
	running atomic.Bool

	mu       sync.Mutex
	nextID   TimerID
	timers   map[TimerID]*timer
	schedule *btree.BTreeG[wakeup]
	closed   bool
}

// New creates a pump for driver. If the driver implements native.Waiter
// the loop blocks in it between events, otherwise it polls.
func New(driver native.Driver, cfg Config) *Pump {
	idle := cfg.IdleQuantum
	if idle <= 0 {
		idle = DefaultIdleQuantum
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	p := &Pump{
		driver:      driver,
		idleQuantum: idle,
		maxWait:     cfg.MaxWait,
		logger:      logger,
		now:         now,
		timers:      make(map[TimerID]*timer),
		schedule:    newSchedule(),
	}
	if w, ok := driver.(native.Waiter); ok {
		p.waiter = w
	}
	return p
}

// State reports where the loop is in its lifecycle.
func (p *Pump) State() State {
	switch {
	case !p.running.Load():
		return StateIdle
	case p.exit.Load():
		return StateExitRequested
	default:
		return StateRunning
	}
}

// RunLoop dispatches native events and timers until ExitLoop is called,
// ctx ends or the driver fails. An ExitLoop issued before RunLoop starts
// does not stop it.
func (p *Pump) RunLoop(ctx context.Context) error {
	p.exit.Store(false)
	p.running.Store(true)
	defer p.running.Store(false)

	stop := context.AfterFunc(ctx, p.driver.Wake)
	defer stop()

	p.logger.Debug("run loop started", "driver", p.driver.Name(), "blocking", p.waiter != nil)

	for {
		if err := ctx.Err(); err != nil {
			p.logger.Debug("run loop cancelled", "error", err)
			return err
		}

		if err := p.wait(ctx); err != nil {
			return fmt.Errorf("wait for events: %w", err)
		}
		if err := p.driver.Dispatch(); err != nil {
			return fmt.Errorf("dispatch events: %w", err)
		}
		if p.exit.Load() {
			p.logger.Debug("run loop exited")
			return nil
		}
		p.fireDue(p.now())

		if p.exit.Load() {
			p.logger.Debug("run loop exited")
			return nil
		}
	}
}

// ProcessEvents drains queued native events without blocking and runs any
// due timers.
func (p *Pump) ProcessEvents() error {
	if err := p.driver.Dispatch(); err != nil {
		return fmt.Errorf("dispatch events: %w", err)
	}
	p.fireDue(p.now())
	return nil
}

// ExitLoop asks a running loop to return after the current iteration.
func (p *Pump) ExitLoop() {
	p.exit.Store(true)
	p.driver.Wake()
}

// Close drops every timer. StartTimer returns 0 afterwards.
func (p *Pump) Close() {
	p.dropTimers()
	p.ExitLoop()
}

// budget returns how long the next wait may last. A negative budget means
// wait without a deadline.
func (p *Pump) budget() time.Duration {
	budget := time.Duration(-1)
	if deadline, ok := p.nextDeadline(); ok {
		budget = max(deadline.Sub(p.now()), 0)
	}
	if p.maxWait > 0 && (budget < 0 || budget > p.maxWait) {
		budget = p.maxWait
	}
	return budget
}

func (p *Pump) wait(ctx context.Context) error {
	budget := p.budget()
	if budget == 0 || p.exit.Load() {
		return nil
	}

	if p.waiter != nil {
		return p.waiter.WaitMessage(budget)
	}

	sleep := p.idleQuantum
	if budget > 0 && budget < sleep {
		sleep = budget
	}
	t := time.NewTimer(sleep)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
	return nil
}
