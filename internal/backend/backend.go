// Package backend creates windows on a native driver and owns the pump
// that services them.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/winhost/internal/config"
	"github.com/1broseidon/winhost/internal/input"
	"github.com/1broseidon/winhost/internal/native"
	"github.com/1broseidon/winhost/internal/pump"
	"github.com/1broseidon/winhost/internal/window"
)

// ErrUnknownDriver is returned by New for a driver name it cannot open.
var ErrUnknownDriver = errors.New("unknown window driver")

// Backend is the entry point for creating windows and running the loop.
type Backend struct {
	cfg     *config.Config
	driver  native.Driver
	pump    *pump.Pump
	logger  *slog.Logger
	uiScale float64

	mu      sync.Mutex
	windows map[*window.Window]struct{}
	closed  bool
}

// New opens the configured driver and returns a backend for it.
func New(cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	driver, err := openDriver(cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewWithDriver(driver, cfg, logger), nil
}

// NewWithDriver wraps an already open driver.
func NewWithDriver(driver native.Driver, cfg *config.Config, logger *slog.Logger) *Backend {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	scale := cfg.UIScale
	if scale <= 0 {
		scale = driver.DPIScale()
	}
	if scale <= 0 {
		scale = 1
	}

	b := &Backend{
		cfg:     cfg,
		driver:  driver,
		logger:  logger,
		uiScale: scale,
		windows: make(map[*window.Window]struct{}),
		pump: pump.New(driver, pump.Config{
			IdleQuantum: cfg.IdleQuantum(),
			MaxWait:     cfg.MaxWait(),
			Logger:      logger.With("component", "pump"),
		}),
	}
	logger.Info("backend ready", "driver", driver.Name(), "ui_scale", scale)
	return b
}

// Driver returns the native driver.
func (b *Backend) Driver() native.Driver {
	return b.driver
}

// UIScale is the DPI scale given to every window.
func (b *Backend) UIScale() float64 {
	return b.uiScale
}

// Create opens a window for host. Popup windows get the driver's
// lightweight style; owner may be nil.
func (b *Backend) Create(host window.Host, popup bool, owner *window.Window, renderAPI native.RenderAPI) (*window.Window, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("create window: %w", native.ErrClosed)
	}

	frame := native.Rect{
		X:      b.cfg.Window.X,
		Y:      b.cfg.Window.Y,
		Width:  b.cfg.Window.Width,
		Height: b.cfg.Window.Height,
	}
	w, err := window.New(b.driver, host, window.Options{
		Popup:     popup,
		Owner:     owner,
		RenderAPI: renderAPI,
		DPIScale:  b.uiScale,
		Frame:     frame,
		DoubleClick: input.ClickCounter{
			Interval: b.cfg.DoubleClick.Interval(),
			Distance: b.cfg.DoubleClick.Distance,
		},
		Logger:    b.logger.With("component", "window"),
		OnDestroy: b.forget,
	})
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.windows[w] = struct{}{}
	b.mu.Unlock()
	return w, nil
}

func (b *Backend) forget(w *window.Window) {
	b.mu.Lock()
	delete(b.windows, w)
	b.mu.Unlock()
}

// Windows returns the windows that have not been closed.
func (b *Backend) Windows() []*window.Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*window.Window, 0, len(b.windows))
	for w := range b.windows {
		out = append(out, w)
	}
	return out
}

func (b *Backend) ProcessEvents() error {
	return b.pump.ProcessEvents()
}

// RunLoop blocks dispatching events and timers until ExitLoop, ctx ends or
// the driver fails.
func (b *Backend) RunLoop(ctx context.Context) error {
	return b.pump.RunLoop(ctx)
}

func (b *Backend) ExitLoop() {
	b.pump.ExitLoop()
}

// StartTimer runs onTimer every timeoutMs milliseconds on the pump
// goroutine. It returns 0 if the timer could not be started.
func (b *Backend) StartTimer(timeoutMs int, onTimer func()) pump.TimerID {
	return b.pump.StartTimer(timeoutMs, onTimer)
}

func (b *Backend) StopTimer(id pump.TimerID) {
	b.pump.StopTimer(id)
}

// Invoke runs fn once on the pump goroutine and waits for it to return.
// The loop must be running. If ctx ends first Invoke returns ctx.Err() and
// fn may still run later.
func (b *Backend) Invoke(ctx context.Context, fn func()) error {
	ids := make(chan pump.TimerID, 1)
	done := make(chan struct{})
	id := b.pump.StartTimer(1, func() {
		b.pump.StopTimer(<-ids)
		fn()
		close(done)
	})
	if id == 0 {
		return fmt.Errorf("invoke: %w", native.ErrClosed)
	}
	ids <- id

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetScreenSize returns the primary screen size in logical units, or the
// configured fallback when the driver cannot tell.
func (b *Backend) GetScreenSize() native.Size {
	size, err := b.driver.ScreenSize()
	if err != nil || size.Width <= 0 || size.Height <= 0 {
		fallback := native.Size{Width: b.cfg.ScreenFallback.Width, Height: b.cfg.ScreenFallback.Height}
		b.logger.Debug("screen size unavailable, using fallback", "error", err, "fallback", fallback.String())
		return fallback
	}
	return native.Size{
		Width:  int(float64(size.Width) / b.uiScale),
		Height: int(float64(size.Height) / b.uiScale),
	}
}

// ClipboardText returns the clipboard text, or "" when there is none.
func (b *Backend) ClipboardText() string {
	text, err := b.driver.ClipboardText()
	if err != nil {
		b.logger.Debug("read clipboard", "error", err)
		return ""
	}
	return text
}

func (b *Backend) SetClipboardText(text string) {
	if err := b.driver.SetClipboardText(text); err != nil {
		b.logger.Debug("write clipboard", "error", err)
	}
}

// Close destroys every open window, drops all timers and closes the driver.
func (b *Backend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	open := make([]*window.Window, 0, len(b.windows))
	for w := range b.windows {
		open = append(open, w)
	}
	b.mu.Unlock()

	for _, w := range open {
		w.Close()
	}
	b.pump.Close()
	if err := b.driver.Close(); err != nil {
		return fmt.Errorf("close %s driver: %w", b.driver.Name(), err)
	}
	b.logger.Info("backend closed")
	return nil
}

var defaultBackend atomic.Pointer[Backend]

// SetDefault installs b as the process-wide backend.
func SetDefault(b *Backend) {
	defaultBackend.Store(b)
}

// Default returns the process-wide backend, or nil.
func Default() *Backend {
	return defaultBackend.Load()
}
