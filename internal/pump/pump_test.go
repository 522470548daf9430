package pump

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/winhost/internal/native"
	"github.com/1broseidon/winhost/internal/native/fake"
)

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newManualClock() *manualClock {
	return &manualClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newManualPump(t *testing.T) (*Pump, *manualClock, *fake.Driver) {
	t.Helper()
	clock := newManualClock()
	driver := fake.New()
	return New(driver, Config{Now: clock.Now}), clock, driver
}

func TestStartTimer_RejectsInvalidArguments(t *testing.T) {
	p, _, _ := newManualPump(t)

	tests := []struct {
		name     string
		interval int
		cb       func()
	}{
		{"zero interval", 0, func() {}},
		{"negative interval", -5, func() {}},
		{"nil callback", 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if id := p.StartTimer(tt.interval, tt.cb); id != 0 {
				t.Fatalf("expected id 0, got %d", id)
			}
		})
	}
	if n := p.ActiveTimers(); n != 0 {
		t.Fatalf("expected no timers registered, got %d", n)
	}
}

func TestStartTimer_IDsAreUniqueAndNonZero(t *testing.T) {
	p, _, _ := newManualPump(t)
	seen := map[TimerID]bool{}
	for i := 0; i < 100; i++ {
		id := p.StartTimer(10, func() {})
		if id == 0 {
			t.Fatalf("got zero id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestStartStop_NoCallbacks(t *testing.T) {
	p, clock, _ := newManualPump(t)
	var calls int
	id := p.StartTimer(10, func() { calls++ })
	p.StopTimer(id)

	for i := 0; i < 5; i++ {
		clock.Advance(20 * time.Millisecond)
		if err := p.ProcessEvents(); err != nil {
			t.Fatalf("process: %v", err)
		}
	}
	if calls != 0 {
		t.Fatalf("expected no callbacks after StopTimer, got %d", calls)
	}

	// Idempotent.
	p.StopTimer(id)
	p.StopTimer(0)
	p.StopTimer(9999)
}

func TestTimer_FiresAndReschedules(t *testing.T) {
	p, clock, _ := newManualPump(t)
	var calls int
	p.StartTimer(50, func() { calls++ })

	clock.Advance(49 * time.Millisecond)
	_ = p.ProcessEvents()
	if calls != 0 {
		t.Fatalf("fired early: %d", calls)
	}

	for want := 1; want <= 3; want++ {
		clock.Advance(50 * time.Millisecond)
		_ = p.ProcessEvents()
		if calls != want {
			t.Fatalf("expected %d calls, got %d", want, calls)
		}
	}
}

func TestTimer_FiresOncePerPassWhenLate(t *testing.T) {
	p, clock, _ := newManualPump(t)
	var calls int
	p.StartTimer(10, func() { calls++ })

	clock.Advance(time.Second)
	_ = p.ProcessEvents()
	if calls != 1 {
		t.Fatalf("expected one catch-up call, got %d", calls)
	}
	deadline, ok := p.nextDeadline()
	if !ok || !deadline.After(clock.Now()) {
		t.Fatalf("expected next deadline in the future, got %v (ok=%v)", deadline, ok)
	}
}

func TestTimer_OrderByDeadlineThenID(t *testing.T) {
	p, clock, _ := newManualPump(t)
	var order []string
	p.StartTimer(30, func() { order = append(order, "slow") })
	p.StartTimer(10, func() { order = append(order, "fast-a") })
	p.StartTimer(10, func() { order = append(order, "fast-b") })

	clock.Advance(30 * time.Millisecond)
	_ = p.ProcessEvents()

	want := []string{"fast-a", "fast-b", "slow"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestTimer_CallbackStopsItself(t *testing.T) {
	p, clock, _ := newManualPump(t)
	var calls int
	var id TimerID
	id = p.StartTimer(10, func() {
		calls++
		p.StopTimer(id)
	})

	for i := 0; i < 3; i++ {
		clock.Advance(10 * time.Millisecond)
		_ = p.ProcessEvents()
	}
	if calls != 1 {
		t.Fatalf("expected exactly one call, got %d", calls)
	}
	if p.ActiveTimers() != 0 {
		t.Fatalf("expected timer to be gone")
	}
}

func TestTimer_CallbackStopsAnotherDueTimer(t *testing.T) {
	p, clock, _ := newManualPump(t)
	var second TimerID
	var secondCalls int
	p.StartTimer(10, func() { p.StopTimer(second) })
	second = p.StartTimer(10, func() { secondCalls++ })

	clock.Advance(10 * time.Millisecond)
	_ = p.ProcessEvents()
	if secondCalls != 0 {
		t.Fatalf("stopped timer still fired")
	}
}

func TestTimer_CallbackStartsTimer(t *testing.T) {
	p, clock, _ := newManualPump(t)
	var inner int
	var once bool
	p.StartTimer(10, func() {
		if !once {
			once = true
			p.StartTimer(10, func() { inner++ })
		}
	})

	clock.Advance(10 * time.Millisecond)
	_ = p.ProcessEvents()
	if inner != 0 {
		t.Fatalf("new timer fired in the pass that created it")
	}
	clock.Advance(10 * time.Millisecond)
	_ = p.ProcessEvents()
	if inner != 1 {
		t.Fatalf("expected inner timer to fire once, got %d", inner)
	}
}

func TestTimer_PanicIsRecovered(t *testing.T) {
	p, clock, _ := newManualPump(t)
	var after int
	p.StartTimer(10, func() { panic("boom") })
	p.StartTimer(10, func() { after++ })

	clock.Advance(10 * time.Millisecond)
	_ = p.ProcessEvents()
	if after != 1 {
		t.Fatalf("expected second timer to run after panic")
	}
	if p.ActiveTimers() != 2 {
		t.Fatalf("panicking timer should stay registered")
	}
}

func TestClose_DropsTimers(t *testing.T) {
	p, clock, _ := newManualPump(t)
	var calls int
	p.StartTimer(10, func() { calls++ })
	p.Close()

	clock.Advance(time.Second)
	_ = p.ProcessEvents()
	if calls != 0 {
		t.Fatalf("timer fired after Close")
	}
	if id := p.StartTimer(10, func() {}); id != 0 {
		t.Fatalf("expected 0 from closed pump, got %d", id)
	}
}

func TestRunLoop_PriorExitLoopDoesNotStopNextRun(t *testing.T) {
	driver := fake.New()
	p := New(driver, Config{IdleQuantum: time.Millisecond})
	p.ExitLoop()

	var calls atomic.Int32
	p.StartTimer(2, func() {
		if calls.Add(1) == 3 {
			p.ExitLoop()
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.RunLoop(ctx); err != nil {
		t.Fatalf("RunLoop: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 timer calls before exit, got %d", got)
	}
	if p.State() != StateIdle {
		t.Fatalf("expected idle after return, got %v", p.State())
	}
}

func TestRunLoop_BlockingDriverExitFromOtherGoroutine(t *testing.T) {
	driver := fake.NewBlocking()
	p := New(driver, Config{})

	done := make(chan error, 1)
	go func() { done <- p.RunLoop(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for p.State() != StateRunning {
		if time.Now().After(deadline) {
			t.Fatalf("loop never started")
		}
		time.Sleep(time.Millisecond)
	}
	p.ExitLoop()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunLoop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("RunLoop did not return after ExitLoop")
	}
}

func TestRunLoop_ContextCancel(t *testing.T) {
	driver := fake.NewBlocking()
	p := New(driver, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.RunLoop(ctx) }()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("RunLoop did not return after cancel")
	}
}

func TestRunLoop_WaitBudgetCapped(t *testing.T) {
	driver := fake.NewBlocking()
	p := New(driver, Config{MaxWait: 20 * time.Millisecond})

	var calls atomic.Int32
	p.StartTimer(60_000, func() {})
	p.StartTimer(1, func() {
		if calls.Add(1) == 2 {
			p.ExitLoop()
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.RunLoop(ctx); err != nil {
		t.Fatalf("RunLoop: %v", err)
	}

	for _, w := range driver.Waits {
		if w < 0 || w > 20*time.Millisecond {
			t.Fatalf("wait %v outside [0, MaxWait]", w)
		}
	}
}

func TestRunLoop_DispatchErrorStops(t *testing.T) {
	driver := fake.New()
	p := New(driver, Config{IdleQuantum: time.Millisecond})
	_ = driver.Close()

	err := p.RunLoop(context.Background())
	if !errors.Is(err, native.ErrClosed) {
		t.Fatalf("expected ErrClosed from closed driver, got %v", err)
	}
}

func TestRunLoop_ExitDuringDispatchSkipsTimers(t *testing.T) {
	p, clock, driver := newManualPump(t)

	var fired int
	p.StartTimer(10, func() { fired++ })
	clock.Advance(20 * time.Millisecond)

	nw, err := driver.CreateWindow(native.WindowOptions{}, func(native.Event) { p.ExitLoop() })
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	driver.Post(nw.(*fake.Window), native.Event{Kind: native.EventPaint})

	if err := p.RunLoop(context.Background()); err != nil {
		t.Fatalf("RunLoop: %v", err)
	}
	if fired != 0 {
		t.Fatalf("timer fired %d times after exit was requested during dispatch", fired)
	}
	if p.ActiveTimers() != 1 {
		t.Fatalf("timer should still be scheduled, active=%d", p.ActiveTimers())
	}
}
