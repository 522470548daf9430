package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/winhost/internal/backend"
	"github.com/1broseidon/winhost/internal/input"
	"github.com/1broseidon/winhost/internal/native"
	"github.com/1broseidon/winhost/internal/window"
	"github.com/pkg/profile"
)

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	df := addDriverFlags(fs)
	title := fs.String("title", "winhost", "Window title")
	render := fs.String("render", "software", "Render API: software, opengl or vulkan")
	duration := fs.Duration("for", 0, "Close the window after this long (0 = until closed)")
	profMode := fs.String("profile", "", "Write a cpu or mem profile while the loop runs")
	profDir := fs.String("profile-dir", ".", "Directory for --profile output")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := checkDuration(*duration); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	api, err := native.ParseRenderAPI(*render)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	profOpt, err := profileMode(*profMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	b, cfg, err := df.openBackend()
	if err != nil {
		log.Fatalf("Failed to open window backend: %v", err)
	}
	defer b.Close()

	host := &demoHost{b: b, logger: newLogger(os.Stderr, cfg.SlogLevel()).With("component", "demo")}
	w, err := b.Create(host, false, nil, api)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	host.w = w
	w.SetTitle(*title)
	w.SetCursor(native.CursorArrow)
	w.Show()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *duration > 0 {
		b.StartTimer(int(duration.Milliseconds()), b.ExitLoop)
	}

	if profOpt != nil {
		defer profile.Start(profOpt, profile.ProfilePath(*profDir), profile.Quiet).Stop()
	}

	host.logger.Info("window open", "size", w.GetClientSize().String(), "scale", w.GetDpiScale(),
		"hint", "Escape closes, F11 toggles fullscreen, L toggles cursor lock")
	if err := b.RunLoop(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("run loop stopped: %v", err)
		return 1
	}
	return 0
}

// checkDuration rejects --for values the millisecond timer cannot express.
func checkDuration(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("--for must not be negative, got %v", d)
	}
	if d > 0 && d < time.Millisecond {
		return fmt.Errorf("--for must be at least 1ms, got %v", d)
	}
	return nil
}

// profileMode maps a --profile value to a profiling mode. Empty disables it.
func profileMode(mode string) (func(*profile.Profile), error) {
	switch mode {
	case "":
		return nil, nil
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "block":
		return profile.BlockProfile, nil
	case "trace":
		return profile.TraceProfile, nil
	default:
		return nil, fmt.Errorf("unknown profile mode %q (want cpu, mem, block or trace)", mode)
	}
}

// demoHost logs every event and paints a gradient that shifts with time.
type demoHost struct {
	b      *backend.Backend
	w      *window.Window
	logger *slog.Logger
	pixels []byte
}

var _ window.Host = (*demoHost)(nil)

func (h *demoHost) OnWindowPaint() {
	width, height := h.w.GetPixelWidth(), h.w.GetPixelHeight()
	if width <= 0 || height <= 0 {
		return
	}
	stride := width * 4
	if need := stride * height; len(h.pixels) < need {
		h.pixels = make([]byte, need)
	}
	shift := byte(time.Now().UnixMilli() / 16)
	for y := 0; y < height; y++ {
		row := h.pixels[y*stride:]
		for x := 0; x < width; x++ {
			p := row[x*4:]
			p[0] = byte(x*255/width) + shift // B
			p[1] = byte(y * 255 / height)    // G
			p[2] = 0x40                      // R
			p[3] = 0xff
		}
	}
	h.w.PresentBitmap(0, 0, width, height, stride, h.pixels[:stride*height])
}

func (h *demoHost) OnWindowGeometryChanged() {
	h.logger.Info("geometry", "frame", h.w.GetWindowFrame(), "client", h.w.GetClientSize().String())
	h.w.Update()
}

func (h *demoHost) OnWindowMouseDown(key input.InputKey, x, y int) {
	h.logger.Info("mouse down", "key", key.String(), "x", x, "y", y)
}

func (h *demoHost) OnWindowMouseUp(key input.InputKey, x, y int) {
	h.logger.Info("mouse up", "key", key.String(), "x", x, "y", y)
}

func (h *demoHost) OnWindowMouseDoubleclick(key input.InputKey, x, y int) {
	h.logger.Info("double click", "key", key.String(), "x", x, "y", y)
}

func (h *demoHost) OnWindowMouseMove(x, y int) {
	h.logger.Debug("mouse move", "x", x, "y", y)
}

func (h *demoHost) OnWindowMouseWheel(key input.InputKey, x, y int) {
	h.logger.Info("wheel", "key", key.String(), "x", x, "y", y)
}

func (h *demoHost) OnWindowRawMouseMove(dx, dy int) {
	h.logger.Debug("raw mouse move", "dx", dx, "dy", dy)
}

func (h *demoHost) OnWindowKeyDown(key input.InputKey) {
	h.logger.Info("key down", "key", key.String())
	switch key {
	case input.InputKeyEscape:
		h.w.Close()
		h.b.ExitLoop()
	case input.InputKeyF11:
		if h.w.IsFullscreen() {
			h.w.ShowNormal()
		} else {
			h.w.ShowFullscreen()
		}
	case input.InputKeyL:
		if h.w.IsCursorLocked() {
			h.w.UnlockCursor()
			h.w.ReleaseMouseCapture()
			h.w.ShowCursor(true)
		} else {
			h.w.LockCursor()
			h.w.CaptureMouse()
			h.w.ShowCursor(false)
		}
	}
}

func (h *demoHost) OnWindowKeyUp(key input.InputKey) {
	h.logger.Info("key up", "key", key.String())
}

func (h *demoHost) OnWindowKeyChar(text string) {
	h.logger.Info("char", "text", text)
}

func (h *demoHost) OnWindowRawKey(code input.RawKeycode, down bool) {
	h.logger.Debug("raw key", "code", code.String(), "down", down)
}

func (h *demoHost) OnWindowClose() {
	h.logger.Info("close requested")
	h.w.Close()
	h.b.ExitLoop()
}

func (h *demoHost) OnWindowActivated() {
	h.logger.Info("activated")
}

func (h *demoHost) OnWindowDeactivated() {
	h.logger.Info("deactivated")
}
