package x11

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/atotto/clipboard"

	"github.com/1broseidon/winhost/internal/native"
)

// Options configures Open.
type Options struct {
	// Display and XAuthority are used when the process environment does
	// not name a display.
	Display    string
	XAuthority string
	Logger     *slog.Logger
}

// Driver is a native.Driver backed by an X11 connection.
//
// A reader goroutine blocks on the connection and queues events; Dispatch
// drains the queue on the pump goroutine so windows only ever see events
// from one goroutine.
type Driver struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger

	notify chan struct{}
	done   chan struct{}
	lost   atomic.Bool
	closed atomic.Bool

	wmProtocols    xproto.Atom
	wmDeleteWindow xproto.Atom

	mu      sync.Mutex
	windows map[xproto.Window]*Window

	cursors *cursorCache
}

var _ native.Driver = (*Driver)(nil)
var _ native.Waiter = (*Driver)(nil)

// Open connects to the X server.
func Open(opts Options) (*Driver, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	display, xauthority, err := systemProbe().resolve(opts.Display, opts.XAuthority)
	if err != nil {
		return nil, err
	}
	if xauthority != "" && os.Getenv("XAUTHORITY") == "" {
		os.Setenv("XAUTHORITY", xauthority)
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to display %s: %w", display, err)
	}

	keybind.Initialize(xu)

	d := &Driver{
		xu:      xu,
		root:    xu.RootWin(),
		logger:  logger,
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		windows: make(map[xproto.Window]*Window),
	}
	d.cursors = newCursorCache(d)

	if d.wmProtocols, err = xprop.Atm(xu, "WM_PROTOCOLS"); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("intern WM_PROTOCOLS: %w", err)
	}
	if d.wmDeleteWindow, err = xprop.Atm(xu, "WM_DELETE_WINDOW"); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("intern WM_DELETE_WINDOW: %w", err)
	}

	go d.readEvents()

	logger.Info("connected to X server", "display", display)
	return d, nil
}

func (d *Driver) Name() string { return "x11" }

// readEvents moves events from the connection into the xevent queue.
func (d *Driver) readEvents() {
	conn := d.xu.Conn()
	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			if !d.closed.Load() {
				d.logger.Warn("X connection closed")
			}
			d.lost.Store(true)
			d.signal()
			return
		}
		xevent.Enqueue(d.xu, ev, xerr)
		d.signal()
	}
}

func (d *Driver) signal() {
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// Dispatch delivers every queued event.
func (d *Driver) Dispatch() error {
	if d.closed.Load() {
		return native.ErrClosed
	}
	for !xevent.Empty(d.xu) {
		ev, xerr := xevent.Dequeue(d.xu)
		if xerr != nil {
			d.logger.Debug("X error", "error", xerr)
			continue
		}
		if ev != nil {
			d.handle(ev)
		}
	}
	if d.lost.Load() {
		return fmt.Errorf("X connection lost: %w", native.ErrClosed)
	}
	return nil
}

// WaitMessage blocks until an event is queued, Wake is called or timeout
// elapses. A negative timeout waits indefinitely.
func (d *Driver) WaitMessage(timeout time.Duration) error {
	if d.closed.Load() {
		return native.ErrClosed
	}
	if !xevent.Empty(d.xu) || d.lost.Load() {
		return nil
	}

	var expired <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-d.notify:
	case <-expired:
	case <-d.done:
	}
	return nil
}

func (d *Driver) Wake() {
	d.signal()
}

func (d *Driver) ClipboardText() (string, error) {
	return clipboard.ReadAll()
}

func (d *Driver) SetClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// Close destroys remaining windows and disconnects.
func (d *Driver) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	d.mu.Lock()
	windows := make([]*Window, 0, len(d.windows))
	for _, w := range d.windows {
		windows = append(windows, w)
	}
	d.mu.Unlock()
	for _, w := range windows {
		w.Destroy()
	}

	d.cursors.free()
	close(d.done)
	d.xu.Conn().Close()
	return nil
}

func (d *Driver) register(w *Window) {
	d.mu.Lock()
	d.windows[w.id] = w
	d.mu.Unlock()
}

func (d *Driver) unregister(id xproto.Window) {
	d.mu.Lock()
	delete(d.windows, id)
	d.mu.Unlock()
}

func (d *Driver) lookup(id xproto.Window) *Window {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.windows[id]
}
