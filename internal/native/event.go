package native

import (
	"fmt"
	"time"

	"github.com/1broseidon/winhost/internal/input"
)

// EventKind identifies a raw native occurrence.
type EventKind int

const (
	EventPaint EventKind = iota + 1
	EventResize
	EventMove
	EventButtonDown
	EventButtonUp
	EventMouseMove
	EventWheel
	EventKeyDown
	EventKeyUp
	EventChar
	EventClose
	EventFocusIn
	EventFocusOut
)

var eventKindNames = map[EventKind]string{
	EventPaint:      "paint",
	EventResize:     "resize",
	EventMove:       "move",
	EventButtonDown: "button-down",
	EventButtonUp:   "button-up",
	EventMouseMove:  "mouse-move",
	EventWheel:      "wheel",
	EventKeyDown:    "key-down",
	EventKeyUp:      "key-up",
	EventChar:       "char",
	EventClose:      "close",
	EventFocusIn:    "focus-in",
	EventFocusOut:   "focus-out",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is a raw occurrence reported by a driver for one window. Which
// fields are meaningful depends on Kind:
//
//   - Resize: Width, Height (client size)
//   - Move: X, Y (frame origin)
//   - ButtonDown/ButtonUp: Button, X, Y, Clicks (0 when the driver does not count)
//   - MouseMove: X, Y (client coordinates)
//   - Wheel: DeltaY (positive scrolls up), X, Y
//   - KeyDown/KeyUp: Code, Text
//   - Char: Text
//
// Mods carries the modifier mask as the native layer reported it.
type Event struct {
	Kind   EventKind
	X, Y   int
	Width  int
	Height int
	Button input.MouseButton
	Clicks int
	DeltaY float64
	Code   input.NativeCode
	Text   string
	Mods   input.Modifier
	Time   time.Time
}

// EventSink receives a window's events on the pump goroutine.
type EventSink func(Event)
