// Package fake provides an in-memory native driver for tests.
package fake

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/1broseidon/winhost/internal/native"
)

// Driver is an in-memory native.Driver. Events posted with Post are held
// until Dispatch delivers them to the target window's sink.
type Driver struct {
	mu        sync.Mutex
	nextID    uintptr
	windows   []*Window
	queue     []queued
	clipboard string
	closed    bool

	Screen      native.Size
	ScreenErr   error
	Scale       float64
	CreateErr   error
	Wakes       int
	Dispatches  int
	VulkanReady bool

	// ClipboardErr, when set, fails every clipboard read.
	ClipboardErr error
}

type queued struct {
	w  *Window
	ev native.Event
}

var _ native.Driver = (*Driver)(nil)

// New returns a driver without a blocking wait.
func New() *Driver {
	return &Driver{
		Screen: native.Size{Width: 2560, Height: 1440},
		Scale:  1,
	}
}

func (d *Driver) Name() string { return "fake" }

func (d *Driver) CreateWindow(opts native.WindowOptions, sink native.EventSink) (native.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, native.ErrClosed
	}
	if d.CreateErr != nil {
		return nil, d.CreateErr
	}
	d.nextID++
	w := &Window{
		driver: d,
		id:     d.nextID,
		sink:   sink,
		Opts:   opts,
		Title:  opts.Title,
		frame:  opts.Frame,
		client: opts.Frame,
		Mode:   native.ShowNormal,
	}
	d.windows = append(d.windows, w)
	return w, nil
}

// Windows returns every window created so far.
func (d *Driver) Windows() []*Window {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Window(nil), d.windows...)
}

// Post queues ev for w.
func (d *Driver) Post(w *Window, ev native.Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	d.mu.Lock()
	d.queue = append(d.queue, queued{w: w, ev: ev})
	d.mu.Unlock()
	d.Wake()
}

// Pending reports the number of undelivered events.
func (d *Driver) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

func (d *Driver) Dispatch() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return native.ErrClosed
	}
	d.Dispatches++
	pending := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, q := range pending {
		if q.w.destroyed() || q.w.sink == nil {
			continue
		}
		q.w.sink(q.ev)
	}
	return nil
}

func (d *Driver) Wake() {
	d.mu.Lock()
	d.Wakes++
	d.mu.Unlock()
}

func (d *Driver) ScreenSize() (native.Size, error) {
	if d.ScreenErr != nil {
		return native.Size{}, d.ScreenErr
	}
	return d.Screen, nil
}

func (d *Driver) DPIScale() float64 { return d.Scale }

func (d *Driver) ClipboardText() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ClipboardErr != nil {
		return "", d.ClipboardErr
	}
	return d.clipboard, nil
}

func (d *Driver) SetClipboardText(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clipboard = text
	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Closed reports whether Close was called.
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// BlockingDriver adds a native.Waiter to Driver. WaitMessage returns as
// soon as an event is posted or Wake is called.
type BlockingDriver struct {
	*Driver
	wake chan struct{}
	// Waits records the timeout of every WaitMessage call.
	waitsMu sync.Mutex
	Waits   []time.Duration
}

var _ native.Waiter = (*BlockingDriver)(nil)

func NewBlocking() *BlockingDriver {
	return &BlockingDriver{Driver: New(), wake: make(chan struct{}, 1)}
}

func (d *BlockingDriver) Wake() {
	d.Driver.Wake()
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Post queues ev and wakes a blocked wait.
func (d *BlockingDriver) Post(w *Window, ev native.Event) {
	d.Driver.Post(w, ev)
	d.Wake()
}

func (d *BlockingDriver) WaitMessage(timeout time.Duration) error {
	d.waitsMu.Lock()
	d.Waits = append(d.Waits, timeout)
	d.waitsMu.Unlock()

	if d.Pending() > 0 {
		return nil
	}
	if timeout < 0 {
		<-d.wake
		return nil
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-d.wake:
	case <-t.C:
	}
	return nil
}

// Window records every call made on it.
type Window struct {
	driver *Driver
	id     uintptr
	sink   native.EventSink

	mu     sync.Mutex
	frame  native.Rect
	client native.Rect
	gone   bool

	Opts          native.WindowOptions
	Title         string
	Icon          image.Image
	Mode          native.ShowMode
	Visible       bool
	Active        bool
	Cursor        native.Cursor
	CursorHidden  bool
	Warps         []native.Point
	KeyboardGrab  bool
	PointerGrab   bool
	Invalidations int
	Presented     int
	BorderColor   uint32
	CaptionColor  uint32
	CaptionText   uint32
	FailCosmetics bool
}

var _ native.Window = (*Window)(nil)

var errCosmetic = errors.New("fake: cosmetic failure")

func (w *Window) destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gone
}

func (w *Window) live() error {
	if w.destroyed() {
		return native.ErrClosed
	}
	return nil
}

func (w *Window) cosmetic() error {
	if err := w.live(); err != nil {
		return err
	}
	if w.FailCosmetics {
		return errCosmetic
	}
	return nil
}

// Destroyed reports whether Destroy was called.
func (w *Window) Destroyed() bool { return w.destroyed() }

// Move changes the frame as a window manager would, without posting an event.
func (w *Window) Move(r native.Rect) {
	w.mu.Lock()
	w.frame = r
	w.client = r
	w.mu.Unlock()
}

func (w *Window) SetTitle(title string) error {
	if err := w.cosmetic(); err != nil {
		return err
	}
	w.Title = title
	return nil
}

func (w *Window) SetIcon(icon image.Image) error {
	if err := w.cosmetic(); err != nil {
		return err
	}
	w.Icon = icon
	return nil
}

func (w *Window) Frame() (native.Rect, error) {
	if err := w.live(); err != nil {
		return native.Rect{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frame, nil
}

func (w *Window) ClientRect() (native.Rect, error) {
	if err := w.live(); err != nil {
		return native.Rect{}, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.client, nil
}

func (w *Window) SetFrame(r native.Rect) error {
	if err := w.live(); err != nil {
		return err
	}
	w.Move(r)
	return nil
}

func (w *Window) SetClientRect(r native.Rect) error {
	return w.SetFrame(r)
}

func (w *Window) Show(mode native.ShowMode) error {
	if err := w.live(); err != nil {
		return err
	}
	w.Mode = mode
	w.Visible = mode != native.ShowMinimized
	return nil
}

func (w *Window) Hide() error {
	if err := w.live(); err != nil {
		return err
	}
	w.Visible = false
	return nil
}

func (w *Window) Activate() error {
	if err := w.live(); err != nil {
		return err
	}
	w.Active = true
	return nil
}

func (w *Window) SetCursor(c native.Cursor) error {
	if err := w.cosmetic(); err != nil {
		return err
	}
	w.Cursor = c
	return nil
}

func (w *Window) SetCursorVisible(visible bool) error {
	if err := w.cosmetic(); err != nil {
		return err
	}
	w.CursorHidden = !visible
	return nil
}

func (w *Window) WarpPointer(x, y int) error {
	if err := w.live(); err != nil {
		return err
	}
	w.Warps = append(w.Warps, native.Point{X: x, Y: y})
	return nil
}

func (w *Window) GrabKeyboard(grab bool) error {
	if err := w.live(); err != nil {
		return err
	}
	w.KeyboardGrab = grab
	return nil
}

func (w *Window) GrabPointer(grab bool) error {
	if err := w.live(); err != nil {
		return err
	}
	w.PointerGrab = grab
	return nil
}

func (w *Window) Invalidate() error {
	if err := w.live(); err != nil {
		return err
	}
	w.Invalidations++
	return nil
}

func (w *Window) PresentBitmap(x, y, width, height, stride int, pixels []byte) error {
	if err := w.live(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	if stride < width*4 || len(pixels) < stride*(height-1)+width*4 {
		return fmt.Errorf("fake: bitmap %dx%d stride %d does not fit %d bytes", width, height, stride, len(pixels))
	}
	w.Presented++
	return nil
}

func (w *Window) SetBorderColor(rgb uint32) error {
	if err := w.cosmetic(); err != nil {
		return err
	}
	w.BorderColor = rgb
	return nil
}

func (w *Window) SetCaptionColor(rgb uint32) error {
	if err := w.cosmetic(); err != nil {
		return err
	}
	w.CaptionColor = rgb
	return nil
}

func (w *Window) SetCaptionTextColor(rgb uint32) error {
	if err := w.cosmetic(); err != nil {
		return err
	}
	w.CaptionText = rgb
	return nil
}

func (w *Window) Handle() native.Handle {
	return native.Handle{Window: w.id, View: w.id}
}

func (w *Window) VulkanInstanceExtensions() []string {
	if !w.driver.VulkanReady {
		return nil
	}
	return []string{"VK_KHR_surface", "VK_KHR_fake_surface"}
}

func (w *Window) CreateVulkanSurface(instance uintptr) (uintptr, error) {
	if err := w.live(); err != nil {
		return 0, err
	}
	if !w.driver.VulkanReady || w.Opts.RenderAPI != native.RenderVulkan {
		return 0, fmt.Errorf("fake window %d: %w", w.id, native.ErrVulkanUnsupported)
	}
	if instance == 0 {
		return 0, fmt.Errorf("fake window %d: nil vulkan instance", w.id)
	}
	return instance + w.id, nil
}

func (w *Window) Destroy() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gone {
		return native.ErrClosed
	}
	w.gone = true
	return nil
}
