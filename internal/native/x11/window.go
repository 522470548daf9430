package x11

import (
	"fmt"
	"image"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winhost/internal/native"
)

const (
	stateRemove = 0
	stateAdd    = 1

	iconicState = 3
)

const windowEventMask = xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskFocusChange

// Window is a top-level X window.
type Window struct {
	d     *Driver
	id    xproto.Window
	sink  native.EventSink
	popup bool

	mapped       bool
	destroyed    bool
	cursor       xproto.Cursor
	cursorHidden bool
	gc           xproto.Gcontext

	// last geometry reported to the sink
	size native.Size
	pos  native.Point
}

var _ native.Window = (*Window)(nil)

// CreateWindow creates an unmapped window. Popups bypass the window manager.
func (d *Driver) CreateWindow(opts native.WindowOptions, sink native.EventSink) (native.Window, error) {
	if d.closed.Load() {
		return nil, native.ErrClosed
	}

	conn := d.xu.Conn()
	screen := d.xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}

	r := opts.Frame
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}

	// Value list order follows the bit positions of the mask.
	mask := uint32(xproto.CwBackPixel | xproto.CwEventMask)
	values := []uint32{0, windowEventMask}
	if opts.Popup {
		mask = xproto.CwBackPixel | xproto.CwOverrideRedirect | xproto.CwEventMask
		values = []uint32{0, 1, windowEventMask}
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		d.root,
		int16(r.X), int16(r.Y),
		uint16(r.Width), uint16(r.Height),
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		mask,
		values,
	).Check()
	if err != nil {
		return nil, err
	}

	w := &Window{
		d:     d,
		id:    wid,
		sink:  sink,
		popup: opts.Popup,
		size:  r.Size(),
		pos:   native.Point{X: r.X, Y: r.Y},
	}

	if err := icccm.WmProtocolsSet(d.xu, wid, []string{"WM_DELETE_WINDOW"}); err != nil {
		d.logger.Debug("set WM_PROTOCOLS failed", "window", wid, "error", err)
	}
	_ = icccm.WmClassSet(d.xu, wid, &icccm.WmClass{Instance: "winhost", Class: "Winhost"})
	_ = ewmh.WmPidSet(d.xu, wid, uint(os.Getpid()))

	windowType := "_NET_WM_WINDOW_TYPE_NORMAL"
	if opts.Popup {
		windowType = "_NET_WM_WINDOW_TYPE_POPUP_MENU"
	}
	_ = ewmh.WmWindowTypeSet(d.xu, wid, []string{windowType})

	if owner, ok := opts.Owner.(*Window); ok && owner != nil {
		_ = icccm.WmTransientForSet(d.xu, wid, owner.id)
	}

	if opts.Title != "" {
		_ = w.SetTitle(opts.Title)
	}

	d.register(w)
	d.logger.Debug("created window", "window", wid, "popup", opts.Popup, "frame", r)
	return w, nil
}

func (w *Window) alive() error {
	if w.destroyed {
		return native.ErrClosed
	}
	return nil
}

func (w *Window) SetTitle(title string) error {
	if err := w.alive(); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(w.d.xu, w.id, title); err != nil {
		return err
	}
	return icccm.WmNameSet(w.d.xu, w.id, title)
}

// SetIcon publishes the image as _NET_WM_ICON.
func (w *Window) SetIcon(icon image.Image) error {
	if err := w.alive(); err != nil {
		return err
	}
	if icon == nil {
		return nil
	}
	return ewmh.WmIconSet(w.d.xu, w.id, []ewmh.WmIcon{iconData(icon)})
}

func iconData(img image.Image) ewmh.WmIcon {
	b := img.Bounds()
	data := make([]uint, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			data = append(data, uint(a>>8)<<24|uint(r>>8)<<16|uint(g>>8)<<8|uint(bl>>8))
		}
	}
	return ewmh.WmIcon{Width: uint(b.Dx()), Height: uint(b.Dy()), Data: data}
}

// ClientRect returns the window's drawable area in root coordinates.
func (w *Window) ClientRect() (native.Rect, error) {
	if err := w.alive(); err != nil {
		return native.Rect{}, err
	}
	conn := w.d.xu.Conn()
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(w.id)).Reply()
	if err != nil {
		return native.Rect{}, err
	}
	pos, err := xproto.TranslateCoordinates(conn, w.id, w.d.root, 0, 0).Reply()
	if err != nil {
		return native.Rect{}, err
	}
	return native.Rect{
		X:      int(pos.DstX),
		Y:      int(pos.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// Frame returns the client rectangle grown by the window manager's frame
// extents, when it publishes them.
func (w *Window) Frame() (native.Rect, error) {
	client, err := w.ClientRect()
	if err != nil {
		return native.Rect{}, err
	}
	left, right, top, bottom := w.frameExtents()
	return native.Rect{
		X:      client.X - left,
		Y:      client.Y - top,
		Width:  client.Width + left + right,
		Height: client.Height + top + bottom,
	}, nil
}

func (w *Window) frameExtents() (left, right, top, bottom int) {
	if w.popup {
		return 0, 0, 0, 0
	}
	extents, err := ewmh.FrameExtentsGet(w.d.xu, w.id)
	if err != nil {
		return 0, 0, 0, 0
	}
	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

func (w *Window) SetFrame(r native.Rect) error {
	if err := w.alive(); err != nil {
		return err
	}
	left, right, top, bottom := w.frameExtents()
	width := max(r.Width-left-right, 1)
	height := max(r.Height-top-bottom, 1)

	if !w.popup && w.mapped {
		if err := ewmh.MoveresizeWindow(w.d.xu, w.id, r.X, r.Y, width, height); err == nil {
			return nil
		}
	}
	xwindow.New(w.d.xu, w.id).MoveResize(r.X+left, r.Y+top, width, height)
	return nil
}

func (w *Window) SetClientRect(r native.Rect) error {
	if err := w.alive(); err != nil {
		return err
	}
	xwindow.New(w.d.xu, w.id).MoveResize(r.X, r.Y, max(r.Width, 1), max(r.Height, 1))
	return nil
}

// Show maps the window in the requested state. Before the first map the
// state is written as a property; afterwards it is requested from the
// window manager.
func (w *Window) Show(mode native.ShowMode) error {
	if err := w.alive(); err != nil {
		return err
	}
	conn := w.d.xu.Conn()

	if mode == native.ShowMinimized {
		if !w.mapped {
			xproto.MapWindow(conn, w.id)
			w.mapped = true
		}
		return w.iconify()
	}

	if !w.mapped {
		if !w.popup {
			var states []string
			switch mode {
			case native.ShowMaximized:
				states = []string{"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ"}
			case native.ShowFullscreen:
				states = []string{"_NET_WM_STATE_FULLSCREEN"}
			}
			if err := ewmh.WmStateSet(w.d.xu, w.id, states); err != nil {
				w.d.logger.Debug("set initial window state failed", "window", w.id, "error", err)
			}
		}
		xproto.MapWindow(conn, w.id)
		w.mapped = true
		return nil
	}

	xproto.MapWindow(conn, w.id)
	if w.popup {
		return nil
	}

	switch mode {
	case native.ShowNormal:
		_ = ewmh.WmStateReq(w.d.xu, w.id, stateRemove, "_NET_WM_STATE_FULLSCREEN")
		_ = ewmh.WmStateReq(w.d.xu, w.id, stateRemove, "_NET_WM_STATE_MAXIMIZED_HORZ")
		return ewmh.WmStateReq(w.d.xu, w.id, stateRemove, "_NET_WM_STATE_MAXIMIZED_VERT")
	case native.ShowMaximized:
		_ = ewmh.WmStateReq(w.d.xu, w.id, stateRemove, "_NET_WM_STATE_FULLSCREEN")
		_ = ewmh.WmStateReq(w.d.xu, w.id, stateAdd, "_NET_WM_STATE_MAXIMIZED_HORZ")
		return ewmh.WmStateReq(w.d.xu, w.id, stateAdd, "_NET_WM_STATE_MAXIMIZED_VERT")
	case native.ShowFullscreen:
		return ewmh.WmStateReq(w.d.xu, w.id, stateAdd, "_NET_WM_STATE_FULLSCREEN")
	}
	return nil
}

// iconify asks the window manager to minimize via WM_CHANGE_STATE.
func (w *Window) iconify() error {
	atom, err := xprop.Atm(w.d.xu, "WM_CHANGE_STATE")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w.id,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		w.d.xu.Conn(),
		false,
		w.d.root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

func (w *Window) Hide() error {
	if err := w.alive(); err != nil {
		return err
	}
	if w.mapped {
		xproto.UnmapWindow(w.d.xu.Conn(), w.id)
		w.mapped = false
	}
	return nil
}

func (w *Window) Activate() error {
	if err := w.alive(); err != nil {
		return err
	}
	if w.popup {
		return xproto.SetInputFocusChecked(w.d.xu.Conn(), xproto.InputFocusParent, w.id, xproto.TimeCurrentTime).Check()
	}
	return ewmh.ActiveWindowReq(w.d.xu, w.id)
}

func (w *Window) SetCursor(c native.Cursor) error {
	if err := w.alive(); err != nil {
		return err
	}
	id, err := w.d.cursors.get(c)
	if err != nil {
		return err
	}
	w.cursor = id
	if w.cursorHidden {
		return nil
	}
	return w.applyCursor(id)
}

func (w *Window) SetCursorVisible(visible bool) error {
	if err := w.alive(); err != nil {
		return err
	}
	w.cursorHidden = !visible
	if visible {
		return w.applyCursor(w.cursor)
	}
	blank, err := w.d.cursors.hidden()
	if err != nil {
		return err
	}
	return w.applyCursor(blank)
}

func (w *Window) applyCursor(id xproto.Cursor) error {
	return xproto.ChangeWindowAttributesChecked(w.d.xu.Conn(), w.id, xproto.CwCursor, []uint32{uint32(id)}).Check()
}

// WarpPointer moves the pointer to client coordinates.
func (w *Window) WarpPointer(x, y int) error {
	if err := w.alive(); err != nil {
		return err
	}
	return xproto.WarpPointerChecked(w.d.xu.Conn(), 0, w.id, 0, 0, 0, 0, int16(x), int16(y)).Check()
}

// GrabKeyboard takes or releases an active keyboard grab.
func (w *Window) GrabKeyboard(grab bool) error {
	if err := w.alive(); err != nil {
		return err
	}
	conn := w.d.xu.Conn()
	if !grab {
		return xproto.UngrabKeyboardChecked(conn, xproto.TimeCurrentTime).Check()
	}

	reply, err := xproto.GrabKeyboard(
		conn,
		false,
		w.id,
		xproto.TimeCurrentTime,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
	).Reply()
	if err != nil {
		return fmt.Errorf("grab keyboard: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("grab keyboard: status %d", reply.Status)
	}
	return nil
}

// GrabPointer confines the pointer to the window while grabbed.
func (w *Window) GrabPointer(grab bool) error {
	if err := w.alive(); err != nil {
		return err
	}
	conn := w.d.xu.Conn()
	if !grab {
		return xproto.UngrabPointerChecked(conn, xproto.TimeCurrentTime).Check()
	}

	reply, err := xproto.GrabPointer(
		conn,
		true,
		w.id,
		xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
		w.id,
		xproto.CursorNone,
		xproto.TimeCurrentTime,
	).Reply()
	if err != nil {
		return fmt.Errorf("grab pointer: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("grab pointer: status %d", reply.Status)
	}
	return nil
}

// Invalidate clears the window with exposures on, which queues an Expose.
func (w *Window) Invalidate() error {
	if err := w.alive(); err != nil {
		return err
	}
	return xproto.ClearAreaChecked(w.d.xu.Conn(), true, w.id, 0, 0, 0, 0).Check()
}

func (w *Window) SetBorderColor(rgb uint32) error {
	if err := w.alive(); err != nil {
		return err
	}
	return xproto.ChangeWindowAttributesChecked(w.d.xu.Conn(), w.id, xproto.CwBorderPixel, []uint32{rgb & 0xffffff}).Check()
}

// Caption colours belong to the window manager's decorations.
func (w *Window) SetCaptionColor(uint32) error { return native.ErrUnsupported }
func (w *Window) SetCaptionTextColor(uint32) error { return native.ErrUnsupported }

func (w *Window) Handle() native.Handle {
	return native.Handle{Window: uintptr(w.id), View: uintptr(w.id)}
}

// The X11 driver has no Vulkan loader; Vulkan windows need the glfw driver.
func (w *Window) VulkanInstanceExtensions() []string { return nil }

func (w *Window) CreateVulkanSurface(uintptr) (uintptr, error) {
	return 0, fmt.Errorf("x11 driver: %w", native.ErrVulkanUnsupported)
}

func (w *Window) Destroy() error {
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	w.d.unregister(w.id)

	conn := w.d.xu.Conn()
	if w.gc != 0 {
		xproto.FreeGC(conn, w.gc)
		w.gc = 0
	}
	xproto.DestroyWindow(conn, w.id)
	w.d.logger.Debug("destroyed window", "window", w.id)
	return nil
}
