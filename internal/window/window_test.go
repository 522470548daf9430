package window

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/1broseidon/winhost/internal/input"
	"github.com/1broseidon/winhost/internal/native"
	"github.com/1broseidon/winhost/internal/native/fake"
)

// recordingHost logs every callback as a short string.
type recordingHost struct {
	calls []string
}

func (h *recordingHost) add(format string, args ...any) {
	h.calls = append(h.calls, fmt.Sprintf(format, args...))
}

func (h *recordingHost) OnWindowPaint() { h.add("paint") }
func (h *recordingHost) OnWindowGeometryChanged() { h.add("geometry") }
func (h *recordingHost) OnWindowMouseDown(k input.InputKey, x, y int) {
	h.add("down %v %d,%d", k, x, y)
}
func (h *recordingHost) OnWindowMouseUp(k input.InputKey, x, y int) {
	h.add("up %v %d,%d", k, x, y)
}
func (h *recordingHost) OnWindowMouseDoubleclick(k input.InputKey, x, y int) {
	h.add("dblclick %v %d,%d", k, x, y)
}
func (h *recordingHost) OnWindowMouseMove(x, y int) { h.add("move %d,%d", x, y) }
func (h *recordingHost) OnWindowMouseWheel(k input.InputKey, x, y int) {
	h.add("wheel %v", k)
}
func (h *recordingHost) OnWindowRawMouseMove(dx, dy int) { h.add("raw %d,%d", dx, dy) }
func (h *recordingHost) OnWindowKeyDown(k input.InputKey) { h.add("keydown %v", k) }
func (h *recordingHost) OnWindowKeyUp(k input.InputKey) { h.add("keyup %v", k) }
func (h *recordingHost) OnWindowKeyChar(text string) { h.add("char %q", text) }
func (h *recordingHost) OnWindowRawKey(c input.RawKeycode, down bool) {
	h.add("rawkey %v %v", c, down)
}
func (h *recordingHost) OnWindowClose() { h.add("close") }
func (h *recordingHost) OnWindowActivated() { h.add("activated") }
func (h *recordingHost) OnWindowDeactivated() { h.add("deactivated") }

func (h *recordingHost) take() []string {
	calls := h.calls
	h.calls = nil
	return calls
}

func newTestWindow(t *testing.T, opts Options) (*Window, *recordingHost, *fake.Driver, *fake.Window) {
	t.Helper()
	driver := fake.New()
	host := &recordingHost{}
	w, err := New(driver, host, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	fw := driver.Windows()[0]
	return w, host, driver, fw
}

func deliver(t *testing.T, d *fake.Driver, fw *fake.Window, events ...native.Event) {
	t.Helper()
	for _, ev := range events {
		d.Post(fw, ev)
	}
	if err := d.Dispatch(); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
}

func expectCalls(t *testing.T, host *recordingHost, want ...string) {
	t.Helper()
	got := host.take()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("host calls:\n got %q\nwant %q", got, want)
	}
}

func TestNew_DefaultFrame(t *testing.T) {
	w, _, _, fw := newTestWindow(t, Options{})
	if got := w.GetWindowFrame(); got != DefaultFrame {
		t.Fatalf("frame = %+v, want %+v", got, DefaultFrame)
	}
	if fw.Opts.Popup {
		t.Fatalf("expected normal window")
	}
}

func TestNew_PopupWithOwner(t *testing.T) {
	driver := fake.New()
	owner, err := New(driver, NopHost{}, Options{})
	if err != nil {
		t.Fatalf("owner: %v", err)
	}
	popup, err := New(driver, NopHost{}, Options{Popup: true, Owner: owner})
	if err != nil {
		t.Fatalf("popup: %v", err)
	}
	fw := driver.Windows()[1]
	if !fw.Opts.Popup || fw.Opts.Owner != driver.Windows()[0] {
		t.Fatalf("popup options not passed through: %+v", fw.Opts)
	}
	if !popup.IsPopup() {
		t.Fatalf("expected IsPopup")
	}
}

func TestNew_CreateFailure(t *testing.T) {
	driver := fake.New()
	driver.CreateErr = errors.New("no display")
	if _, err := New(driver, NopHost{}, Options{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLockedMouseMove_RawDeltaBeforeMove(t *testing.T) {
	w, host, d, fw := newTestWindow(t, Options{})

	deliver(t, d, fw, native.Event{Kind: native.EventMouseMove, X: 10, Y: 10})
	expectCalls(t, host, "move 10,10")

	w.LockCursor()
	if !w.IsCursorLocked() {
		t.Fatalf("expected cursor locked")
	}
	if fw.PointerGrab || fw.CursorHidden {
		t.Fatalf("lock must not grab or hide the pointer")
	}
	deliver(t, d, fw, native.Event{Kind: native.EventMouseMove, X: 15, Y: 14})
	expectCalls(t, host, "raw 5,4", "move 15,14")

	// Zero delta suppresses the raw call.
	deliver(t, d, fw, native.Event{Kind: native.EventMouseMove, X: 15, Y: 14})
	expectCalls(t, host, "move 15,14")

	w.UnlockCursor()
	if w.IsCursorLocked() {
		t.Fatalf("expected cursor unlocked")
	}
	if len(fw.Warps) != 0 {
		t.Fatalf("unlock must not warp the pointer, got %v", fw.Warps)
	}
	deliver(t, d, fw, native.Event{Kind: native.EventMouseMove, X: 20, Y: 20})
	expectCalls(t, host, "move 20,20")
}

func TestUnlockedMouseMove_NoRawDelta(t *testing.T) {
	_, host, d, fw := newTestWindow(t, Options{})
	deliver(t, d, fw,
		native.Event{Kind: native.EventMouseMove, X: 10, Y: 10},
		native.Event{Kind: native.EventMouseMove, X: 15, Y: 14},
	)
	expectCalls(t, host, "move 10,10", "move 15,14")
}

func TestButtons_DoubleClickReplacesDown(t *testing.T) {
	_, host, d, fw := newTestWindow(t, Options{})
	deliver(t, d, fw,
		native.Event{Kind: native.EventButtonDown, Button: input.ButtonLeft, X: 4, Y: 5, Clicks: 1},
		native.Event{Kind: native.EventButtonUp, Button: input.ButtonLeft, X: 4, Y: 5},
		native.Event{Kind: native.EventButtonDown, Button: input.ButtonLeft, X: 4, Y: 5, Clicks: 2},
		native.Event{Kind: native.EventButtonUp, Button: input.ButtonLeft, X: 4, Y: 5},
	)
	expectCalls(t, host,
		"down LeftMouse 4,5",
		"up LeftMouse 4,5",
		"dblclick LeftMouse 4,5",
		"up LeftMouse 4,5",
	)
}

func TestButtons_SynthesizedClickCount(t *testing.T) {
	_, host, d, fw := newTestWindow(t, Options{
		DoubleClick: input.ClickCounter{Interval: 300 * time.Millisecond, Distance: 4},
	})
	at := time.Unix(100, 0)
	deliver(t, d, fw,
		native.Event{Kind: native.EventButtonDown, Button: input.ButtonRight, X: 1, Y: 1, Time: at},
		native.Event{Kind: native.EventButtonUp, Button: input.ButtonRight, X: 1, Y: 1, Time: at},
		native.Event{Kind: native.EventButtonDown, Button: input.ButtonRight, X: 2, Y: 1, Time: at.Add(100 * time.Millisecond)},
	)
	expectCalls(t, host, "down RightMouse 1,1", "up RightMouse 1,1", "dblclick RightMouse 2,1")
}

func TestButtons_ReleaseResolvesIdentity(t *testing.T) {
	w, host, d, fw := newTestWindow(t, Options{})
	deliver(t, d, fw,
		native.Event{Kind: native.EventButtonDown, Button: input.ButtonLeft, Clicks: 1},
		native.Event{Kind: native.EventButtonDown, Button: input.ButtonMiddle, Clicks: 1},
		native.Event{Kind: native.EventButtonUp, Button: input.ButtonLeft},
	)
	expectCalls(t, host, "down LeftMouse 0,0", "down MiddleMouse 0,0", "up LeftMouse 0,0")
	if w.GetKeyState(input.InputKeyLeftMouse) {
		t.Fatalf("left should be released")
	}
	if !w.GetKeyState(input.InputKeyMiddleMouse) {
		t.Fatalf("middle should still be held")
	}
}

func TestButtons_UnmatchedReleaseIsDropped(t *testing.T) {
	_, host, d, fw := newTestWindow(t, Options{})
	deliver(t, d, fw,
		native.Event{Kind: native.EventButtonUp, Button: input.ButtonRight, X: 3, Y: 3},
		native.Event{Kind: native.EventButtonDown, Button: input.ButtonLeft, X: 3, Y: 3, Clicks: 1},
		native.Event{Kind: native.EventButtonUp, Button: input.ButtonLeft, X: 3, Y: 3},
		native.Event{Kind: native.EventButtonUp, Button: input.ButtonLeft, X: 3, Y: 3},
	)
	expectCalls(t, host, "down LeftMouse 3,3", "up LeftMouse 3,3")
}

func TestWheel(t *testing.T) {
	tests := []struct {
		delta float64
		want  []string
	}{
		{1, []string{"wheel MouseWheelUp"}},
		{0.25, []string{"wheel MouseWheelUp"}},
		{-3, []string{"wheel MouseWheelDown"}},
		{0, nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.delta), func(t *testing.T) {
			_, host, d, fw := newTestWindow(t, Options{})
			deliver(t, d, fw, native.Event{Kind: native.EventWheel, DeltaY: tt.delta})
			expectCalls(t, host, tt.want...)
		})
	}
}

func TestKeys_RawSemanticAndText(t *testing.T) {
	w, host, d, fw := newTestWindow(t, Options{})
	deliver(t, d, fw, native.Event{Kind: native.EventKeyDown, Code: 'a', Text: "a"})
	expectCalls(t, host, `rawkey KeyA true`, `keydown A`, `char "a"`)
	if !w.GetKeyState(input.InputKeyA) {
		t.Fatalf("A should be held")
	}

	deliver(t, d, fw, native.Event{Kind: native.EventKeyUp, Code: 'a', Text: "a"})
	expectCalls(t, host, `rawkey KeyA false`, `keyup A`)
	if w.GetKeyState(input.InputKeyA) {
		t.Fatalf("A should be released")
	}
}

func TestKeys_UnknownCodeStillDeliversText(t *testing.T) {
	_, host, d, fw := newTestWindow(t, Options{})
	deliver(t, d, fw, native.Event{Kind: native.EventKeyDown, Code: 0xe9, Text: "é"})
	expectCalls(t, host, `char "é"`)
}

func TestKeys_CharOnlyEvent(t *testing.T) {
	_, host, d, fw := newTestWindow(t, Options{})
	deliver(t, d, fw,
		native.Event{Kind: native.EventChar, Text: "日本"},
		native.Event{Kind: native.EventChar, Text: ""},
	)
	expectCalls(t, host, `char "日本"`)
}

func TestKeys_ModifierEdges(t *testing.T) {
	w, host, d, fw := newTestWindow(t, Options{})

	// Native state reported before the event, as X11 does.
	deliver(t, d, fw, native.Event{Kind: native.EventKeyDown, Code: input.KeysymShiftL})
	expectCalls(t, host, "rawkey LeftShift true", "keydown Shift", "keydown LShift")
	if !w.GetKeyState(input.InputKeyShift) {
		t.Fatalf("shift should be held")
	}

	deliver(t, d, fw, native.Event{Kind: native.EventKeyDown, Code: 'B', Text: "B", Mods: input.ModShift})
	expectCalls(t, host, "rawkey KeyB true", "keydown B", `char "B"`)

	deliver(t, d, fw, native.Event{Kind: native.EventKeyUp, Code: input.KeysymShiftL, Mods: input.ModShift})
	expectCalls(t, host, "rawkey LeftShift false", "keyup Shift", "keyup LShift")
}

func TestKeys_BothShiftsHeld(t *testing.T) {
	w, host, d, fw := newTestWindow(t, Options{})
	deliver(t, d, fw,
		native.Event{Kind: native.EventKeyDown, Code: input.KeysymShiftL},
		native.Event{Kind: native.EventKeyDown, Code: input.KeysymShiftR, Mods: input.ModShift},
	)
	host.take()

	deliver(t, d, fw,
		native.Event{Kind: native.EventKeyUp, Code: input.KeysymShiftL, Mods: input.ModShift},
		native.Event{Kind: native.EventKeyDown, Code: 'A', Text: "A", Mods: input.ModShift},
	)
	expectCalls(t, host,
		"rawkey LeftShift false", "keyup LShift",
		"rawkey KeyA true", "keydown A", `char "A"`,
	)
	if !w.GetKeyState(input.InputKeyShift) {
		t.Fatalf("shift should still be held")
	}

	deliver(t, d, fw, native.Event{Kind: native.EventKeyUp, Code: input.KeysymShiftR, Mods: input.ModShift})
	expectCalls(t, host, "rawkey RightShift false", "keyup Shift", "keyup RShift")
}

func TestFocus_DeactivationReleasesModifiers(t *testing.T) {
	w, host, d, fw := newTestWindow(t, Options{})
	deliver(t, d, fw,
		native.Event{Kind: native.EventFocusIn},
		native.Event{Kind: native.EventKeyDown, Code: input.KeysymControlL},
		native.Event{Kind: native.EventButtonDown, Button: input.ButtonLeft, Clicks: 1, Mods: input.ModControl},
	)
	host.take()

	deliver(t, d, fw, native.Event{Kind: native.EventFocusOut})
	expectCalls(t, host, "keyup Control", "deactivated")
	if w.GetKeyState(input.InputKeyLeftMouse) || w.GetKeyState(input.InputKeyLControl) {
		t.Fatalf("input state should be cleared on deactivation")
	}
}

func TestClose_RequestDoesNotDestroy(t *testing.T) {
	w, host, d, fw := newTestWindow(t, Options{})
	deliver(t, d, fw, native.Event{Kind: native.EventClose})
	expectCalls(t, host, "close")
	if w.Closed() || fw.Destroyed() {
		t.Fatalf("window destroyed itself on close request")
	}

	var destroyed int
	w.onDestroy = func(*Window) { destroyed++ }
	w.Close()
	w.Close()
	if !fw.Destroyed() || destroyed != 1 {
		t.Fatalf("Close should destroy exactly once (destroyed=%d)", destroyed)
	}
	expectCalls(t, host)
}

func TestClosedWindow_OperationsAreNoOps(t *testing.T) {
	w, _, _, _ := newTestWindow(t, Options{})
	w.Close()

	w.SetTitle("x")
	w.Show()
	w.Hide()
	w.Update()
	w.LockCursor()
	w.ReleaseMouseCapture()
	w.PresentBitmap(0, 0, 1, 1, 4, make([]byte, 4))
	if h := w.GetNativeHandle(); h != (native.Handle{}) {
		t.Fatalf("expected zero handle, got %+v", h)
	}
	if exts := w.GetVulkanInstanceExtensions(); exts == nil || len(exts) != 0 {
		t.Fatalf("expected empty extension list, got %v", exts)
	}
	if _, err := w.CreateVulkanSurface(1); !errors.Is(err, native.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDetachedHost_NotCalled(t *testing.T) {
	w, host, d, fw := newTestWindow(t, Options{})
	w.DetachHost()
	deliver(t, d, fw,
		native.Event{Kind: native.EventPaint},
		native.Event{Kind: native.EventKeyDown, Code: 'x', Text: "x"},
		native.Event{Kind: native.EventButtonDown, Button: input.ButtonLeft},
		native.Event{Kind: native.EventWheel, DeltaY: 1},
		native.Event{Kind: native.EventFocusOut},
	)
	expectCalls(t, host)
}

func TestClipboard(t *testing.T) {
	w, _, _, _ := newTestWindow(t, Options{})
	if got := w.GetClipboardText(); got != "" {
		t.Fatalf("expected empty clipboard, got %q", got)
	}
	w.SetClipboardText("hello")
	if got := w.GetClipboardText(); got != "hello" {
		t.Fatalf("clipboard = %q, want hello", got)
	}
}

func TestClipboard_ReadFailureIsEmpty(t *testing.T) {
	driver := fake.New()
	w, err := New(driver, NopHost{}, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.SetClipboardText("hello")
	driver.ClipboardErr = errors.New("selection owner gone")
	if got := w.GetClipboardText(); got != "" {
		t.Fatalf("expected empty text on read failure, got %q", got)
	}
}

func TestGeometry(t *testing.T) {
	w, host, d, fw := newTestWindow(t, Options{
		Frame:    native.Rect{X: 10, Y: 20, Width: 101, Height: 51},
		DPIScale: 1.5,
	})
	if got := w.GetClientSize(); got != (native.Size{Width: 101, Height: 51}) {
		t.Fatalf("client size = %v", got)
	}
	if w.GetPixelWidth() != 151 || w.GetPixelHeight() != 76 {
		t.Fatalf("pixel size = %dx%d, want 151x76", w.GetPixelWidth(), w.GetPixelHeight())
	}

	fw.Move(native.Rect{X: 10, Y: 20, Width: 300, Height: 200})
	deliver(t, d, fw, native.Event{Kind: native.EventResize, Width: 300, Height: 200})
	expectCalls(t, host, "geometry")
	if got := w.GetClientSize(); got != (native.Size{Width: 300, Height: 200}) {
		t.Fatalf("client size after resize = %v", got)
	}

	fw.Move(native.Rect{X: 50, Y: 60, Width: 300, Height: 200})
	deliver(t, d, fw, native.Event{Kind: native.EventMove, X: 50, Y: 60})
	expectCalls(t, host)
	if got := w.GetWindowFrame(); got.X != 50 || got.Y != 60 {
		t.Fatalf("frame after move = %+v", got)
	}

	p := w.MapFromGlobal(native.Point{X: 55, Y: 70})
	if p != (native.Point{X: 5, Y: 10}) {
		t.Fatalf("MapFromGlobal = %+v", p)
	}
	if g := w.MapToGlobal(p); g != (native.Point{X: 55, Y: 70}) {
		t.Fatalf("MapToGlobal = %+v", g)
	}
}

func TestDpiScaleDefaultsToOne(t *testing.T) {
	w, _, _, _ := newTestWindow(t, Options{})
	if w.GetDpiScale() != 1 {
		t.Fatalf("dpi scale = %v", w.GetDpiScale())
	}
}

func TestShowModes(t *testing.T) {
	w, _, _, fw := newTestWindow(t, Options{})
	w.ShowFullscreen()
	if !w.IsFullscreen() || fw.Mode != native.ShowFullscreen {
		t.Fatalf("expected fullscreen")
	}
	w.Hide()
	w.Show()
	if fw.Mode != native.ShowFullscreen || !fw.Visible {
		t.Fatalf("Show should restore fullscreen, got %v", fw.Mode)
	}
	w.ShowMaximized()
	if w.IsFullscreen() || fw.Mode != native.ShowMaximized {
		t.Fatalf("expected maximized")
	}
	w.ShowMinimized()
	if fw.Mode != native.ShowMinimized {
		t.Fatalf("expected minimized")
	}
	w.ShowNormal()
	if fw.Mode != native.ShowNormal {
		t.Fatalf("expected normal")
	}
}

func TestCosmeticFailuresAreAbsorbed(t *testing.T) {
	w, _, _, fw := newTestWindow(t, Options{})
	fw.FailCosmetics = true
	w.SetTitle("ignored")
	w.SetBorderColor(0xff0000)
	w.SetCaptionColor(0x00ff00)
	w.SetCaptionTextColor(0x0000ff)
	w.SetCursor(native.CursorHand)
	if fw.Title == "ignored" || fw.BorderColor != 0 {
		t.Fatalf("failed operations should leave state unchanged")
	}
}

func TestCaptureAndKeyboardLock(t *testing.T) {
	w, _, _, fw := newTestWindow(t, Options{})
	w.ReleaseMouseCapture()
	if fw.PointerGrab {
		t.Fatalf("release without capture should be a no-op")
	}
	w.CaptureMouse()
	if !fw.PointerGrab {
		t.Fatalf("expected pointer grab")
	}
	w.ReleaseMouseCapture()
	if fw.PointerGrab {
		t.Fatalf("expected pointer released")
	}

	w.LockKeyboard()
	if !fw.KeyboardGrab {
		t.Fatalf("expected keyboard grab")
	}
	w.UnlockKeyboard()
	if fw.KeyboardGrab {
		t.Fatalf("expected keyboard released")
	}
}

func TestVulkan(t *testing.T) {
	driver := fake.New()
	driver.VulkanReady = true
	w, err := New(driver, NopHost{}, Options{RenderAPI: native.RenderVulkan})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if exts := w.GetVulkanInstanceExtensions(); len(exts) != 2 {
		t.Fatalf("extensions = %v", exts)
	}
	surface, err := w.CreateVulkanSurface(0x1000)
	if err != nil || surface == 0 {
		t.Fatalf("surface = %#x, err = %v", surface, err)
	}

	soft, err := New(driver, NopHost{}, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := soft.CreateVulkanSurface(0x1000); !errors.Is(err, native.ErrVulkanUnsupported) {
		t.Fatalf("expected ErrVulkanUnsupported, got %v", err)
	}
}

func TestPresentAndUpdate(t *testing.T) {
	w, _, _, fw := newTestWindow(t, Options{})
	w.PresentBitmap(0, 0, 2, 2, 8, make([]byte, 16))
	w.Update()
	if fw.Presented != 1 || fw.Invalidations != 1 {
		t.Fatalf("presented=%d invalidations=%d", fw.Presented, fw.Invalidations)
	}
}
