package glfw

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/1broseidon/winhost/internal/input"
	"github.com/1broseidon/winhost/internal/native"
)

// Window wraps one GLFW window.
type Window struct {
	d      *Driver
	win    *glfw.Window
	sink   native.EventSink
	popup  bool
	vulkan bool

	mods       input.Modifier
	fullscreen bool
	restore    native.Rect

	blit blitter
}

var _ native.Window = (*Window)(nil)

func (w *Window) alive() error {
	if w.win == nil {
		return native.ErrClosed
	}
	return nil
}

func (w *Window) installCallbacks() {
	w.win.SetRefreshCallback(func(*glfw.Window) {
		w.d.enqueue(w, native.Event{Kind: native.EventPaint})
	})
	w.win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.d.enqueue(w, native.Event{Kind: native.EventResize, Width: width, Height: height})
	})
	w.win.SetPosCallback(func(_ *glfw.Window, x, y int) {
		left, top, _, _ := w.win.GetFrameSize()
		w.d.enqueue(w, native.Event{Kind: native.EventMove, X: x - left, Y: y - top})
	})
	w.win.SetCloseCallback(func(win *glfw.Window) {
		win.SetShouldClose(false)
		w.d.enqueue(w, native.Event{Kind: native.EventClose})
	})
	w.win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		kind := native.EventFocusOut
		if focused {
			kind = native.EventFocusIn
		}
		w.d.enqueue(w, native.Event{Kind: kind})
	})
	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.d.enqueue(w, native.Event{Kind: native.EventMouseMove, X: int(x), Y: int(y), Mods: w.mods})
	})
	w.win.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		b := buttonFromGLFW(button)
		if b == input.ButtonNone {
			return
		}
		w.mods = modifiersFromGLFW(mods)
		x, y := win.GetCursorPos()
		kind := native.EventButtonUp
		if action == glfw.Press {
			kind = native.EventButtonDown
		}
		w.d.enqueue(w, native.Event{Kind: kind, Button: b, X: int(x), Y: int(y), Mods: w.mods})
	})
	w.win.SetScrollCallback(func(win *glfw.Window, _, yoff float64) {
		if yoff == 0 {
			return
		}
		x, y := win.GetCursorPos()
		w.d.enqueue(w, native.Event{Kind: native.EventWheel, DeltaY: yoff, X: int(x), Y: int(y), Mods: w.mods})
	})
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		code := keysymFromGLFW(key)
		if code == 0 {
			return
		}
		w.mods = modifiersFromGLFW(mods)
		kind := native.EventKeyDown
		if action == glfw.Release {
			kind = native.EventKeyUp
		}
		w.d.enqueue(w, native.Event{Kind: kind, Code: code, Mods: w.mods})
	})
	w.win.SetCharCallback(func(_ *glfw.Window, char rune) {
		w.d.enqueue(w, native.Event{Kind: native.EventChar, Text: string(char)})
	})
}

func (w *Window) SetTitle(title string) error {
	if err := w.alive(); err != nil {
		return err
	}
	w.win.SetTitle(title)
	return nil
}

func (w *Window) SetIcon(icon image.Image) error {
	if err := w.alive(); err != nil {
		return err
	}
	if icon == nil {
		w.win.SetIcon(nil)
		return nil
	}
	w.win.SetIcon([]image.Image{icon})
	return nil
}

func (w *Window) ClientRect() (native.Rect, error) {
	if err := w.alive(); err != nil {
		return native.Rect{}, err
	}
	x, y := w.win.GetPos()
	width, height := w.win.GetSize()
	return native.Rect{X: x, Y: y, Width: width, Height: height}, nil
}

func (w *Window) Frame() (native.Rect, error) {
	client, err := w.ClientRect()
	if err != nil {
		return native.Rect{}, err
	}
	left, top, right, bottom := w.win.GetFrameSize()
	return native.Rect{
		X:      client.X - left,
		Y:      client.Y - top,
		Width:  client.Width + left + right,
		Height: client.Height + top + bottom,
	}, nil
}

func (w *Window) SetFrame(r native.Rect) error {
	if err := w.alive(); err != nil {
		return err
	}
	left, top, right, bottom := w.win.GetFrameSize()
	return w.SetClientRect(native.Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  r.Width - left - right,
		Height: r.Height - top - bottom,
	})
}

func (w *Window) SetClientRect(r native.Rect) error {
	if err := w.alive(); err != nil {
		return err
	}
	w.win.SetPos(r.X, r.Y)
	w.win.SetSize(max(r.Width, 1), max(r.Height, 1))
	return nil
}

func (w *Window) Show(mode native.ShowMode) error {
	if err := w.alive(); err != nil {
		return err
	}
	if mode != native.ShowFullscreen && w.fullscreen {
		w.leaveFullscreen()
	}

	switch mode {
	case native.ShowMinimized:
		w.win.Show()
		w.win.Iconify()
	case native.ShowMaximized:
		w.win.Show()
		w.win.Maximize()
	case native.ShowFullscreen:
		w.win.Show()
		return w.enterFullscreen()
	default:
		w.win.Show()
		if w.win.GetAttrib(glfw.Maximized) == glfw.True || w.win.GetAttrib(glfw.Iconified) == glfw.True {
			w.win.Restore()
		}
	}
	return nil
}

func (w *Window) enterFullscreen() error {
	if w.fullscreen {
		return nil
	}
	mon := glfw.GetPrimaryMonitor()
	if mon == nil {
		return fmt.Errorf("fullscreen: no primary monitor")
	}
	mode := mon.GetVideoMode()
	if mode == nil {
		return fmt.Errorf("fullscreen: primary monitor has no video mode")
	}
	w.restore, _ = w.ClientRect()
	w.win.SetMonitor(mon, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	w.fullscreen = true
	return nil
}

func (w *Window) leaveFullscreen() {
	r := w.restore
	w.win.SetMonitor(nil, r.X, r.Y, max(r.Width, 1), max(r.Height, 1), 0)
	w.fullscreen = false
}

func (w *Window) Hide() error {
	if err := w.alive(); err != nil {
		return err
	}
	w.win.Hide()
	return nil
}

func (w *Window) Activate() error {
	if err := w.alive(); err != nil {
		return err
	}
	w.win.Focus()
	return nil
}

func (w *Window) SetCursor(c native.Cursor) error {
	if err := w.alive(); err != nil {
		return err
	}
	w.win.SetCursor(w.d.cursor(c))
	return nil
}

func (w *Window) SetCursorVisible(visible bool) error {
	if err := w.alive(); err != nil {
		return err
	}
	mode := glfw.CursorHidden
	if visible {
		mode = glfw.CursorNormal
	}
	w.win.SetInputMode(glfw.CursorMode, mode)
	return nil
}

func (w *Window) WarpPointer(x, y int) error {
	if err := w.alive(); err != nil {
		return err
	}
	w.win.SetCursorPos(float64(x), float64(y))
	return nil
}

// GLFW has no keyboard grab; focus already routes every key to the window.
func (w *Window) GrabKeyboard(bool) error {
	return native.ErrUnsupported
}

// GrabPointer disables the cursor, which confines it to the window.
func (w *Window) GrabPointer(grab bool) error {
	if err := w.alive(); err != nil {
		return err
	}
	mode := glfw.CursorNormal
	if grab {
		mode = glfw.CursorDisabled
	}
	w.win.SetInputMode(glfw.CursorMode, mode)
	return nil
}

// Invalidate queues a paint for the next dispatch.
func (w *Window) Invalidate() error {
	if err := w.alive(); err != nil {
		return err
	}
	w.d.enqueue(w, native.Event{Kind: native.EventPaint})
	w.d.Wake()
	return nil
}

func (w *Window) SetBorderColor(uint32) error { return native.ErrUnsupported }
func (w *Window) SetCaptionColor(uint32) error { return native.ErrUnsupported }
func (w *Window) SetCaptionTextColor(uint32) error { return native.ErrUnsupported }

func (w *Window) Handle() native.Handle {
	if w.win == nil {
		return native.Handle{}
	}
	h := uintptr(w.win.Handle())
	return native.Handle{Window: h, View: h}
}

func (w *Window) VulkanInstanceExtensions() []string {
	if w.win == nil || !w.vulkan {
		return nil
	}
	return w.win.GetRequiredInstanceExtensions()
}

// CreateVulkanSurface creates a VkSurfaceKHR for a VkInstance handle.
func (w *Window) CreateVulkanSurface(instance uintptr) (uintptr, error) {
	if err := w.alive(); err != nil {
		return 0, err
	}
	if !w.vulkan {
		return 0, fmt.Errorf("window has a GL context: %w", native.ErrVulkanUnsupported)
	}
	if instance == 0 {
		return 0, fmt.Errorf("nil vulkan instance")
	}
	return w.win.CreateWindowSurface(unsafe.Pointer(instance), nil)
}

func (w *Window) Destroy() error {
	if w.win == nil {
		return nil
	}
	if !w.vulkan {
		w.win.MakeContextCurrent()
		w.blit.release()
	}
	delete(w.d.windows, w.win)
	w.win.Destroy()
	w.win = nil
	return nil
}
