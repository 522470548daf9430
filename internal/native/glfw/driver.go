// Package glfw implements the native driver on GLFW. GLFW must be driven
// from the main OS thread: Open, every window call and the pump all run on
// the goroutine that called Open.
package glfw

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/1broseidon/winhost/internal/native"
)

// Options configures Open.
type Options struct {
	Logger *slog.Logger
}

type queued struct {
	w  *Window
	ev native.Event
}

// Driver is a native.Driver backed by GLFW.
type Driver struct {
	logger *slog.Logger
	closed atomic.Bool

	glReady bool
	windows map[*glfw.Window]*Window
	queue   []queued
	cursors map[native.Cursor]*glfw.Cursor
}

var _ native.Driver = (*Driver)(nil)
var _ native.Waiter = (*Driver)(nil)

// Open initializes GLFW and pins the calling goroutine to its OS thread.
func Open(opts Options) (*Driver, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	logger.Info("glfw initialized", "version", glfw.GetVersionString(), "vulkan", glfw.VulkanSupported())
	return &Driver{
		logger:  logger,
		windows: make(map[*glfw.Window]*Window),
		cursors: make(map[native.Cursor]*glfw.Cursor),
	}, nil
}

func (d *Driver) Name() string { return "glfw" }

// CreateWindow creates a hidden window. Vulkan windows get no client API;
// everything else gets a GL 3.3 core context used for presenting bitmaps.
func (d *Driver) CreateWindow(opts native.WindowOptions, sink native.EventSink) (native.Window, error) {
	if d.closed.Load() {
		return nil, native.ErrClosed
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	if opts.RenderAPI == native.RenderVulkan {
		if !glfw.VulkanSupported() {
			return nil, fmt.Errorf("glfw: %w", native.ErrVulkanUnsupported)
		}
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	} else {
		glfw.WindowHint(glfw.ContextVersionMajor, 3)
		glfw.WindowHint(glfw.ContextVersionMinor, 3)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	if opts.Popup {
		glfw.WindowHint(glfw.Decorated, glfw.False)
		glfw.WindowHint(glfw.Floating, glfw.True)
		glfw.WindowHint(glfw.FocusOnShow, glfw.False)
	}

	width, height := max(opts.Frame.Width, 1), max(opts.Frame.Height, 1)
	win, err := glfw.CreateWindow(width, height, opts.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.SetPos(opts.Frame.X, opts.Frame.Y)

	w := &Window{
		d:      d,
		win:    win,
		sink:   sink,
		popup:  opts.Popup,
		vulkan: opts.RenderAPI == native.RenderVulkan,
	}

	if !w.vulkan {
		win.MakeContextCurrent()
		if !d.glReady {
			if err := gl.Init(); err != nil {
				win.Destroy()
				return nil, fmt.Errorf("initialize gl: %w", err)
			}
			d.glReady = true
			d.logger.Debug("gl ready", "version", gl.GoStr(gl.GetString(gl.VERSION)))
		}
		glfw.SwapInterval(1)
	}

	w.installCallbacks()
	d.windows[win] = w
	return w, nil
}

func (d *Driver) enqueue(w *Window, ev native.Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	d.queue = append(d.queue, queued{w: w, ev: ev})
}

// Dispatch polls GLFW and delivers what its callbacks queued.
func (d *Driver) Dispatch() error {
	if d.closed.Load() {
		return native.ErrClosed
	}
	glfw.PollEvents()
	d.flush()
	return nil
}

func (d *Driver) flush() {
	for len(d.queue) > 0 {
		batch := d.queue
		d.queue = nil
		for _, q := range batch {
			if q.w.win == nil || q.w.sink == nil {
				continue
			}
			q.w.sink(q.ev)
		}
	}
}

// WaitMessage blocks in GLFW until an event arrives, Wake posts an empty
// event or timeout elapses. Callbacks fired while waiting stay queued until
// the next Dispatch.
func (d *Driver) WaitMessage(timeout time.Duration) error {
	if d.closed.Load() {
		return native.ErrClosed
	}
	if len(d.queue) > 0 {
		return nil
	}
	if timeout < 0 {
		glfw.WaitEvents()
		return nil
	}
	glfw.WaitEventsTimeout(timeout.Seconds())
	return nil
}

func (d *Driver) Wake() {
	if d.closed.Load() {
		return
	}
	glfw.PostEmptyEvent()
}

func (d *Driver) ScreenSize() (native.Size, error) {
	mon := glfw.GetPrimaryMonitor()
	if mon == nil {
		return native.Size{}, errors.New("glfw: no primary monitor")
	}
	mode := mon.GetVideoMode()
	if mode == nil {
		return native.Size{}, errors.New("glfw: primary monitor has no video mode")
	}
	return native.Size{Width: mode.Width, Height: mode.Height}, nil
}

func (d *Driver) DPIScale() float64 {
	mon := glfw.GetPrimaryMonitor()
	if mon == nil {
		return 1
	}
	x, _ := mon.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

func (d *Driver) ClipboardText() (string, error) {
	if d.closed.Load() {
		return "", native.ErrClosed
	}
	return glfw.GetClipboardString(), nil
}

func (d *Driver) SetClipboardText(text string) error {
	if d.closed.Load() {
		return native.ErrClosed
	}
	glfw.SetClipboardString(text)
	return nil
}

// Close destroys remaining windows and terminates GLFW.
func (d *Driver) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	for _, w := range d.windows {
		w.Destroy()
	}
	for _, c := range d.cursors {
		c.Destroy()
	}
	d.queue = nil
	glfw.Terminate()
	runtime.UnlockOSThread()
	return nil
}

func (d *Driver) cursor(c native.Cursor) *glfw.Cursor {
	if cur, ok := d.cursors[c]; ok {
		return cur
	}
	cur := glfw.CreateStandardCursor(standardCursor(c))
	d.cursors[c] = cur
	return cur
}

func standardCursor(c native.Cursor) glfw.StandardCursor {
	switch c {
	case native.CursorIBeam:
		return glfw.IBeamCursor
	case native.CursorCross, native.CursorNo:
		return glfw.CrosshairCursor
	case native.CursorHand:
		return glfw.HandCursor
	case native.CursorSizeWE:
		return glfw.HResizeCursor
	case native.CursorSizeNS:
		return glfw.VResizeCursor
	default:
		return glfw.ArrowCursor
	}
}
