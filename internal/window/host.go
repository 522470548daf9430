// Package window implements the window entity that turns native events
// into Host callbacks.
package window

import "github.com/1broseidon/winhost/internal/input"

// Host receives translated window events. Every method is called on the
// pump goroutine.
type Host interface {
	OnWindowPaint()
	OnWindowGeometryChanged()

	OnWindowMouseDown(key input.InputKey, x, y int)
	OnWindowMouseUp(key input.InputKey, x, y int)
	OnWindowMouseDoubleclick(key input.InputKey, x, y int)
	OnWindowMouseMove(x, y int)
	// OnWindowMouseWheel reports InputKeyMouseWheelUp or InputKeyMouseWheelDown.
	OnWindowMouseWheel(key input.InputKey, x, y int)
	OnWindowRawMouseMove(dx, dy int)

	OnWindowKeyDown(key input.InputKey)
	OnWindowKeyUp(key input.InputKey)
	OnWindowKeyChar(text string)
	OnWindowRawKey(code input.RawKeycode, down bool)

	OnWindowClose()
	OnWindowActivated()
	OnWindowDeactivated()
}

// NopHost implements Host with no-op methods. Embed it to handle only
// the events you care about.
type NopHost struct{}

var _ Host = NopHost{}

func (NopHost) OnWindowPaint() {}
func (NopHost) OnWindowGeometryChanged() {}
func (NopHost) OnWindowMouseDown(input.InputKey, int, int) {}
func (NopHost) OnWindowMouseUp(input.InputKey, int, int) {}
func (NopHost) OnWindowMouseDoubleclick(input.InputKey, int, int) {}
func (NopHost) OnWindowMouseMove(int, int) {}
func (NopHost) OnWindowMouseWheel(input.InputKey, int, int) {}
func (NopHost) OnWindowRawMouseMove(int, int) {}
func (NopHost) OnWindowKeyDown(input.InputKey) {}
func (NopHost) OnWindowKeyUp(input.InputKey) {}
func (NopHost) OnWindowKeyChar(string) {}
func (NopHost) OnWindowRawKey(input.RawKeycode, bool) {}
func (NopHost) OnWindowClose() {}
func (NopHost) OnWindowActivated() {}
func (NopHost) OnWindowDeactivated() {}
