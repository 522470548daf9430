package window

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/1broseidon/winhost/internal/input"
	"github.com/1broseidon/winhost/internal/native"
)

// DefaultFrame is the initial frame of a window created without one.
var DefaultFrame = native.Rect{X: 100, Y: 100, Width: 800, Height: 600}

// Options configure a new Window.
type Options struct {
	Title     string
	Popup     bool
	Owner     *Window
	RenderAPI native.RenderAPI
	// DPIScale is fixed for the window's lifetime. Zero means 1.
	DPIScale float64
	// Frame is the initial outer frame. A zero frame uses DefaultFrame.
	Frame native.Rect
	// DoubleClick thresholds for drivers that do not count clicks.
	DoubleClick input.ClickCounter
	Logger      *slog.Logger
	// OnDestroy runs once after Close destroys the native window.
	OnDestroy func(*Window)
}

// Window owns one native window and forwards its events to a Host.
type Window struct {
	driver    native.Driver
	native    native.Window
	host      Host
	logger    *slog.Logger
	dpiScale  float64
	popup     bool
	onDestroy func(*Window)

	geomMu sync.Mutex
	frame  native.Rect
	client native.Rect

	fullscreen     bool
	cursorLocked   bool
	cursorHidden   bool
	keyboardLocked bool
	mouseCaptured  bool

	lastMouse native.Point
	haveMouse bool
	clicks    input.ClickCounter
	mods      input.ModifierTracker
	buttons   input.ButtonSet
	keys      map[input.InputKey]bool
}

// New creates the native window for host and wires its events.
func New(driver native.Driver, host Host, opts Options) (*Window, error) {
	scale := opts.DPIScale
	if scale <= 0 {
		scale = 1
	}
	frame := opts.Frame
	if frame.Width <= 0 || frame.Height <= 0 {
		frame = DefaultFrame
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w := &Window{
		driver:    driver,
		host:      host,
		logger:    logger,
		dpiScale:  scale,
		popup:     opts.Popup,
		onDestroy: opts.OnDestroy,
		frame:     frame,
		client:    frame,
		clicks:    opts.DoubleClick,
		keys:      make(map[input.InputKey]bool),
	}

	nativeOpts := native.WindowOptions{
		Title:     opts.Title,
		Frame:     frame,
		Popup:     opts.Popup,
		RenderAPI: opts.RenderAPI,
	}
	if opts.Owner != nil && opts.Owner.native != nil {
		nativeOpts.Owner = opts.Owner.native
	}

	nw, err := driver.CreateWindow(nativeOpts, w.handleEvent)
	if err != nil {
		return nil, fmt.Errorf("create %s window: %w", driver.Name(), err)
	}
	w.native = nw
	w.refreshGeometry()

	w.logger.Debug("window created",
		"handle", nw.Handle().Window,
		"popup", opts.Popup,
		"render_api", opts.RenderAPI.String(),
		"frame", frame,
	)
	return w, nil
}

// DetachHost stops all further Host callbacks.
func (w *Window) DetachHost() {
	w.host = nil
}

// IsPopup reports whether the window was created with the popup style.
func (w *Window) IsPopup() bool {
	return w.popup
}

// Closed reports whether the native window has been destroyed.
func (w *Window) Closed() bool {
	return w.native == nil
}

// Close destroys the native window. Host.OnWindowClose is not called.
func (w *Window) Close() {
	if w.native == nil {
		return
	}
	if w.mouseCaptured {
		_ = w.native.GrabPointer(false)
	}
	if w.keyboardLocked {
		_ = w.native.GrabKeyboard(false)
	}
	if err := w.native.Destroy(); err != nil {
		w.logger.Debug("destroy native window", "error", err)
	}
	w.native = nil
	w.resetInputState()
	if w.onDestroy != nil {
		w.onDestroy(w)
	}
}

func (w *Window) SetTitle(title string) {
	if w.native == nil {
		return
	}
	w.cosmetic("set title", w.native.SetTitle(title))
}

func (w *Window) SetIcon(icon image.Image) {
	if w.native == nil || icon == nil {
		return
	}
	w.cosmetic("set icon", w.native.SetIcon(icon))
}

// SetWindowFrame moves and resizes the outer frame.
func (w *Window) SetWindowFrame(r native.Rect) {
	if w.native == nil {
		return
	}
	if err := w.native.SetFrame(r); err != nil {
		w.cosmetic("set window frame", err)
		return
	}
	w.refreshGeometry()
}

// SetClientFrame moves and resizes so the client area covers r.
func (w *Window) SetClientFrame(r native.Rect) {
	if w.native == nil {
		return
	}
	if err := w.native.SetClientRect(r); err != nil {
		w.cosmetic("set client frame", err)
		return
	}
	w.refreshGeometry()
}

// Show maps the window, keeping fullscreen if it was requested.
func (w *Window) Show() {
	if w.fullscreen {
		w.show(native.ShowFullscreen)
		return
	}
	w.show(native.ShowNormal)
}

func (w *Window) ShowFullscreen() {
	w.fullscreen = true
	w.show(native.ShowFullscreen)
}

func (w *Window) ShowMaximized() {
	w.fullscreen = false
	w.show(native.ShowMaximized)
}

func (w *Window) ShowMinimized() {
	w.show(native.ShowMinimized)
}

func (w *Window) ShowNormal() {
	w.fullscreen = false
	w.show(native.ShowNormal)
}

func (w *Window) show(mode native.ShowMode) {
	if w.native == nil {
		return
	}
	if err := w.native.Show(mode); err != nil {
		w.logger.Debug("show window", "mode", mode.String(), "error", err)
	}
}

func (w *Window) IsFullscreen() bool {
	return w.fullscreen
}

func (w *Window) Hide() {
	if w.native == nil {
		return
	}
	w.cosmetic("hide", w.native.Hide())
}

func (w *Window) Activate() {
	if w.native == nil {
		return
	}
	w.cosmetic("activate", w.native.Activate())
}

func (w *Window) ShowCursor(visible bool) {
	w.cursorHidden = !visible
	if w.native == nil {
		return
	}
	w.cosmetic("show cursor", w.native.SetCursorVisible(visible))
}

func (w *Window) SetCursor(c native.Cursor) {
	if w.native == nil {
		return
	}
	w.cosmetic("set cursor", w.native.SetCursor(c))
}

// LockCursor switches mouse moves to also report relative motion via
// OnWindowRawMouseMove. It does not confine or hide the OS cursor; use
// CaptureMouse and ShowCursor for that.
func (w *Window) LockCursor() {
	w.cursorLocked = true
}

func (w *Window) UnlockCursor() {
	w.cursorLocked = false
}

// IsCursorLocked reports whether LockCursor is in effect.
func (w *Window) IsCursorLocked() bool {
	return w.cursorLocked
}

func (w *Window) LockKeyboard() {
	if w.native == nil || w.keyboardLocked {
		return
	}
	if err := w.native.GrabKeyboard(true); err != nil {
		w.cosmetic("grab keyboard", err)
		return
	}
	w.keyboardLocked = true
}

func (w *Window) UnlockKeyboard() {
	if !w.keyboardLocked {
		return
	}
	w.keyboardLocked = false
	if w.native != nil {
		w.cosmetic("ungrab keyboard", w.native.GrabKeyboard(false))
	}
}

func (w *Window) CaptureMouse() {
	if w.native == nil || w.mouseCaptured {
		return
	}
	if err := w.native.GrabPointer(true); err != nil {
		w.cosmetic("capture mouse", err)
		return
	}
	w.mouseCaptured = true
}

// ReleaseMouseCapture is a no-op when the mouse is not captured.
func (w *Window) ReleaseMouseCapture() {
	if !w.mouseCaptured {
		return
	}
	w.mouseCaptured = false
	if w.native != nil {
		w.cosmetic("release mouse capture", w.native.GrabPointer(false))
	}
}

// Update requests a repaint.
func (w *Window) Update() {
	if w.native == nil {
		return
	}
	w.cosmetic("invalidate", w.native.Invalidate())
}

// GetKeyState reports whether key is held according to the events seen
// by this window.
func (w *Window) GetKeyState(key input.InputKey) bool {
	switch key {
	case input.InputKeyShift:
		return w.mods.State().Has(input.ModShift)
	case input.InputKeyControl:
		return w.mods.State().Has(input.ModControl)
	case input.InputKeyAlt:
		return w.mods.State().Has(input.ModAlt)
	}
	if b := input.ButtonForKey(key); b != input.ButtonNone {
		return w.buttons.Has(b)
	}
	return w.keys[key]
}

// GetWindowFrame returns the outer frame, refreshed from the native window
// when it is still alive.
func (w *Window) GetWindowFrame() native.Rect {
	w.refreshGeometry()
	w.geomMu.Lock()
	defer w.geomMu.Unlock()
	return w.frame
}

// GetClientSize returns the client area size in logical units.
func (w *Window) GetClientSize() native.Size {
	w.refreshGeometry()
	w.geomMu.Lock()
	defer w.geomMu.Unlock()
	return w.client.Size()
}

func (w *Window) GetPixelWidth() int {
	return int(float64(w.GetClientSize().Width) * w.dpiScale)
}

func (w *Window) GetPixelHeight() int {
	return int(float64(w.GetClientSize().Height) * w.dpiScale)
}

func (w *Window) GetDpiScale() float64 {
	return w.dpiScale
}

// PresentBitmap copies BGRA8 pixels to the client area at (x, y).
func (w *Window) PresentBitmap(x, y, width, height, stride int, pixels []byte) {
	if w.native == nil {
		return
	}
	w.cosmetic("present bitmap", w.native.PresentBitmap(x, y, width, height, stride, pixels))
}

func (w *Window) SetBorderColor(rgb uint32) {
	if w.native == nil {
		return
	}
	w.cosmetic("set border color", w.native.SetBorderColor(rgb))
}

func (w *Window) SetCaptionColor(rgb uint32) {
	if w.native == nil {
		return
	}
	w.cosmetic("set caption color", w.native.SetCaptionColor(rgb))
}

func (w *Window) SetCaptionTextColor(rgb uint32) {
	if w.native == nil {
		return
	}
	w.cosmetic("set caption text color", w.native.SetCaptionTextColor(rgb))
}

// GetClipboardText returns the clipboard text, or "" when there is none.
func (w *Window) GetClipboardText() string {
	text, err := w.driver.ClipboardText()
	if err != nil {
		w.logger.Debug("read clipboard", "error", err)
		return ""
	}
	return text
}

func (w *Window) SetClipboardText(text string) {
	w.cosmetic("write clipboard", w.driver.SetClipboardText(text))
}

// MapFromGlobal converts a screen position to client coordinates.
func (w *Window) MapFromGlobal(p native.Point) native.Point {
	origin := w.clientOrigin()
	return native.Point{X: p.X - origin.X, Y: p.Y - origin.Y}
}

// MapToGlobal converts a client position to screen coordinates.
func (w *Window) MapToGlobal(p native.Point) native.Point {
	origin := w.clientOrigin()
	return native.Point{X: p.X + origin.X, Y: p.Y + origin.Y}
}

func (w *Window) clientOrigin() native.Point {
	w.refreshGeometry()
	w.geomMu.Lock()
	defer w.geomMu.Unlock()
	return native.Point{X: w.client.X, Y: w.client.Y}
}

// GetNativeHandle returns the zero Handle once the window is closed.
func (w *Window) GetNativeHandle() native.Handle {
	if w.native == nil {
		return native.Handle{}
	}
	return w.native.Handle()
}

// GetVulkanInstanceExtensions lists the instance extensions a Vulkan
// surface for this window needs. It is empty when Vulkan is unavailable.
func (w *Window) GetVulkanInstanceExtensions() []string {
	if w.native == nil {
		return []string{}
	}
	exts := w.native.VulkanInstanceExtensions()
	if exts == nil {
		return []string{}
	}
	return exts
}

// CreateVulkanSurface creates a VkSurfaceKHR for the window from a
// VkInstance handle.
func (w *Window) CreateVulkanSurface(instance uintptr) (uintptr, error) {
	if w.native == nil {
		return 0, fmt.Errorf("create vulkan surface: %w", native.ErrClosed)
	}
	surface, err := w.native.CreateVulkanSurface(instance)
	if err != nil {
		return 0, fmt.Errorf("create vulkan surface: %w", err)
	}
	return surface, nil
}

func (w *Window) cosmetic(op string, err error) {
	if err != nil {
		w.logger.Debug(op, "error", err)
	}
}

func (w *Window) refreshGeometry() {
	if w.native == nil {
		return
	}
	frame, ferr := w.native.Frame()
	client, cerr := w.native.ClientRect()

	w.geomMu.Lock()
	defer w.geomMu.Unlock()
	if ferr == nil {
		w.frame = frame
	}
	if cerr == nil {
		w.client = client
	}
}

func (w *Window) resetInputState() []input.ModifierEvent {
	w.buttons = 0
	w.clicks.Reset()
	clear(w.keys)
	return w.mods.Reset()
}
