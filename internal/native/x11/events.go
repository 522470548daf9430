package x11

import (
	"time"
	"unicode"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/1broseidon/winhost/internal/input"
	"github.com/1broseidon/winhost/internal/native"
)

// handle translates one X event and hands it to its window's sink.
func (d *Driver) handle(ev xgb.Event) {
	now := time.Now()

	switch e := ev.(type) {
	case xproto.ExposeEvent:
		if e.Count != 0 {
			return
		}
		d.emit(e.Window, native.Event{Kind: native.EventPaint, Time: now})

	case xproto.ConfigureNotifyEvent:
		w := d.lookup(e.Window)
		if w == nil {
			return
		}
		w.configured(int(e.Width), int(e.Height), now)

	case xproto.ButtonPressEvent:
		d.button(e, true, now)

	case xproto.ButtonReleaseEvent:
		d.button(xproto.ButtonPressEvent(e), false, now)

	case xproto.MotionNotifyEvent:
		d.emit(e.Event, native.Event{
			Kind: native.EventMouseMove,
			X:    int(e.EventX),
			Y:    int(e.EventY),
			Mods: modifiersFromState(e.State),
			Time: now,
		})

	case xproto.KeyPressEvent:
		d.key(e, true, now)

	case xproto.KeyReleaseEvent:
		d.key(xproto.KeyPressEvent(e), false, now)

	case xproto.ClientMessageEvent:
		if e.Type != d.wmProtocols || e.Format != 32 {
			return
		}
		if xproto.Atom(e.Data.Data32[0]) == d.wmDeleteWindow {
			d.emit(e.Window, native.Event{Kind: native.EventClose, Time: now})
		}

	case xproto.FocusInEvent:
		if ignoreFocus(e.Mode, e.Detail) {
			return
		}
		d.emit(e.Event, native.Event{Kind: native.EventFocusIn, Time: now})

	case xproto.FocusOutEvent:
		if ignoreFocus(e.Mode, e.Detail) {
			return
		}
		d.emit(e.Event, native.Event{Kind: native.EventFocusOut, Time: now})
	}
}

func (d *Driver) emit(id xproto.Window, ev native.Event) {
	w := d.lookup(id)
	if w == nil || w.sink == nil {
		return
	}
	w.sink(ev)
}

// configured reports size and position changes. ConfigureNotify coordinates
// are parent relative once a window manager reparents us, so the frame
// origin is queried instead.
func (w *Window) configured(width, height int, now time.Time) {
	if size := (native.Size{Width: width, Height: height}); size != w.size {
		w.size = size
		w.sink(native.Event{Kind: native.EventResize, Width: width, Height: height, Time: now})
	}

	frame, err := w.Frame()
	if err != nil {
		return
	}
	if pos := (native.Point{X: frame.X, Y: frame.Y}); pos != w.pos {
		w.pos = pos
		w.sink(native.Event{Kind: native.EventMove, X: frame.X, Y: frame.Y, Time: now})
	}
}

func (d *Driver) button(e xproto.ButtonPressEvent, down bool, now time.Time) {
	ev := native.Event{
		X:    int(e.EventX),
		Y:    int(e.EventY),
		Mods: modifiersFromState(e.State),
		Time: now,
	}

	switch e.Detail {
	case 4, 5:
		if !down {
			return
		}
		ev.Kind = native.EventWheel
		ev.DeltaY = 1
		if e.Detail == 5 {
			ev.DeltaY = -1
		}
		d.emit(e.Event, ev)
		return
	}

	ev.Button = buttonFromDetail(e.Detail)
	if ev.Button == input.ButtonNone {
		return
	}
	ev.Kind = native.EventButtonUp
	if down {
		ev.Kind = native.EventButtonDown
	}
	d.emit(e.Event, ev)
}

func buttonFromDetail(detail xproto.Button) input.MouseButton {
	switch detail {
	case 1:
		return input.ButtonLeft
	case 2:
		return input.ButtonMiddle
	case 3:
		return input.ButtonRight
	case 8:
		return input.ButtonX1
	case 9:
		return input.ButtonX2
	default:
		return input.ButtonNone
	}
}

func (d *Driver) key(e xproto.KeyPressEvent, down bool, now time.Time) {
	kind := native.EventKeyUp
	if down {
		kind = native.EventKeyDown
	}
	ev := native.Event{
		Kind: kind,
		Code: input.NativeCode(keybind.KeysymGet(d.xu, e.Detail, 0)),
		Mods: modifiersFromState(e.State),
		Time: now,
	}
	if down {
		ev.Text = keyText(d.xu, e.Detail, e.State)
	}
	d.emit(e.Event, ev)
}

// keyText returns the text a key press produces, or "" for keys that
// produce none or are chorded with a command modifier.
func keyText(xu *xgbutil.XUtil, code xproto.Keycode, state uint16) string {
	if state&(xproto.ModMaskControl|xproto.ModMask1|xproto.ModMask4) != 0 {
		return ""
	}
	shift := state&xproto.ModMaskShift != 0

	var column byte
	if shift {
		column = 1
	}
	sym := keybind.KeysymGet(xu, code, column)
	if sym == 0 {
		sym = keybind.KeysymGet(xu, code, 0)
	}

	r := keysymRune(sym)
	if r == 0 {
		return ""
	}
	if state&xproto.ModMaskLock != 0 {
		if shift {
			r = unicode.ToLower(r)
		} else {
			r = unicode.ToUpper(r)
		}
	}
	return string(r)
}

// keysymRune maps Latin-1 and Unicode keysyms to their rune.
func keysymRune(sym xproto.Keysym) rune {
	switch {
	case sym >= 0x20 && sym <= 0x7e, sym >= 0xa0 && sym <= 0xff:
		return rune(sym)
	case sym >= 0x01000100 && sym <= 0x0110ffff:
		return rune(sym - 0x01000000)
	}
	return 0
}

func modifiersFromState(state uint16) input.Modifier {
	var mods input.Modifier
	if state&xproto.ModMaskShift != 0 {
		mods |= input.ModShift
	}
	if state&xproto.ModMaskControl != 0 {
		mods |= input.ModControl
	}
	if state&xproto.ModMask1 != 0 {
		mods |= input.ModAlt
	}
	if state&xproto.ModMask4 != 0 {
		mods |= input.ModSuper
	}
	return mods
}

// ignoreFocus drops focus changes caused by grabs and pointer-only focus.
func ignoreFocus(mode, detail byte) bool {
	if mode == xproto.NotifyModeGrab || mode == xproto.NotifyModeUngrab {
		return true
	}
	return detail == xproto.NotifyDetailPointer
}
