package window

import (
	"github.com/1broseidon/winhost/internal/input"
	"github.com/1broseidon/winhost/internal/native"
)

// handleEvent is the native event sink. It runs on the pump goroutine.
func (w *Window) handleEvent(ev native.Event) {
	if w.native == nil {
		return
	}

	switch ev.Kind {
	case native.EventPaint:
		if h := w.host; h != nil {
			h.OnWindowPaint()
		}

	case native.EventResize:
		w.geomMu.Lock()
		w.client.Width = ev.Width
		w.client.Height = ev.Height
		w.geomMu.Unlock()
		w.refreshGeometry()
		if h := w.host; h != nil {
			h.OnWindowGeometryChanged()
		}

	case native.EventMove:
		w.geomMu.Lock()
		dx, dy := ev.X-w.frame.X, ev.Y-w.frame.Y
		w.frame.X, w.frame.Y = ev.X, ev.Y
		w.client.X += dx
		w.client.Y += dy
		w.geomMu.Unlock()

	case native.EventButtonDown:
		w.syncModifiers(ev.Mods)
		w.buttonDown(ev)

	case native.EventButtonUp:
		w.syncModifiers(ev.Mods)
		w.setMouse(ev.X, ev.Y)
		// Releases of buttons pressed outside this window are dropped.
		if !w.buttons.Release(ev.Button) {
			return
		}
		if key := ev.Button.InputKey(); key != input.InputKeyNone {
			if h := w.host; h != nil {
				h.OnWindowMouseUp(key, ev.X, ev.Y)
			}
		}

	case native.EventMouseMove:
		w.mouseMove(ev.X, ev.Y)

	case native.EventWheel:
		w.syncModifiers(ev.Mods)
		var key input.InputKey
		switch {
		case ev.DeltaY > 0:
			key = input.InputKeyMouseWheelUp
		case ev.DeltaY < 0:
			key = input.InputKeyMouseWheelDown
		default:
			return
		}
		if h := w.host; h != nil {
			h.OnWindowMouseWheel(key, ev.X, ev.Y)
		}

	case native.EventKeyDown, native.EventKeyUp:
		w.key(ev)

	case native.EventChar:
		if ev.Text == "" {
			return
		}
		if h := w.host; h != nil {
			h.OnWindowKeyChar(ev.Text)
		}

	case native.EventClose:
		if h := w.host; h != nil {
			h.OnWindowClose()
		}

	case native.EventFocusIn:
		if h := w.host; h != nil {
			h.OnWindowActivated()
		}

	case native.EventFocusOut:
		w.emitModifiers(w.resetInputState())
		if h := w.host; h != nil {
			h.OnWindowDeactivated()
		}
	}
}

func (w *Window) buttonDown(ev native.Event) {
	key := ev.Button.InputKey()
	if key == input.InputKeyNone {
		return
	}
	clicks := ev.Clicks
	if clicks <= 0 {
		clicks = w.clicks.Press(ev.Button, ev.X, ev.Y, ev.Time)
	}
	w.buttons.Press(ev.Button)
	w.setMouse(ev.X, ev.Y)

	h := w.host
	if h == nil {
		return
	}
	if clicks >= 2 {
		h.OnWindowMouseDoubleclick(key, ev.X, ev.Y)
		return
	}
	h.OnWindowMouseDown(key, ev.X, ev.Y)
}

func (w *Window) mouseMove(x, y int) {
	prev, had := w.lastMouse, w.haveMouse
	w.setMouse(x, y)

	h := w.host
	if h == nil {
		return
	}
	if w.cursorLocked && had {
		if dx, dy := x-prev.X, y-prev.Y; dx != 0 || dy != 0 {
			h.OnWindowRawMouseMove(dx, dy)
		}
	}
	h.OnWindowMouseMove(x, y)
}

func (w *Window) setMouse(x, y int) {
	w.lastMouse = native.Point{X: x, Y: y}
	w.haveMouse = true
}

// key forwards a key press or release as raw key, modifier edges, semantic
// key and finally any decoded text.
func (w *Window) key(ev native.Event) {
	down := ev.Kind == native.EventKeyDown
	key := input.MapToInputKey(ev.Code)
	raw := input.MapToRawKeycode(ev.Code)

	if key != input.InputKeyNone {
		if down {
			w.keys[key] = true
		} else {
			delete(w.keys, key)
		}
	}

	if h := w.host; h != nil && raw != input.RawKeycodeNone {
		h.OnWindowRawKey(raw, down)
	}

	w.emitModifiers(w.mods.Check(ev.Mods, key, down))

	h := w.host
	if h == nil {
		return
	}
	if key != input.InputKeyNone {
		if down {
			h.OnWindowKeyDown(key)
		} else {
			h.OnWindowKeyUp(key)
		}
	}
	if down && ev.Text != "" {
		h.OnWindowKeyChar(ev.Text)
	}
}

func (w *Window) syncModifiers(mods input.Modifier) {
	w.emitModifiers(w.mods.Sync(mods))
}

func (w *Window) emitModifiers(events []input.ModifierEvent) {
	h := w.host
	if h == nil {
		return
	}
	for _, e := range events {
		if e.Down {
			h.OnWindowKeyDown(e.Key)
		} else {
			h.OnWindowKeyUp(e.Key)
		}
	}
}
