package input

import "time"

// MouseButton identifies a physical mouse button.
type MouseButton uint8

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonX1
	ButtonX2
)

// InputKey returns the key a button is reported as.
func (b MouseButton) InputKey() InputKey {
	switch b {
	case ButtonLeft:
		return InputKeyLeftMouse
	case ButtonMiddle:
		return InputKeyMiddleMouse
	case ButtonRight:
		return InputKeyRightMouse
	case ButtonX1:
		return InputKeyXButton1
	case ButtonX2:
		return InputKeyXButton2
	default:
		return InputKeyNone
	}
}

// ButtonForKey is the inverse of MouseButton.InputKey.
func ButtonForKey(key InputKey) MouseButton {
	switch key {
	case InputKeyLeftMouse:
		return ButtonLeft
	case InputKeyMiddleMouse:
		return ButtonMiddle
	case InputKeyRightMouse:
		return ButtonRight
	case InputKeyXButton1:
		return ButtonX1
	case InputKeyXButton2:
		return ButtonX2
	default:
		return ButtonNone
	}
}

func (b MouseButton) String() string {
	return b.InputKey().String()
}

// ButtonSet tracks which buttons are held. Buttons are recorded from their
// own press and release events rather than inferred from a native mask, so
// releasing one of several held buttons resolves to the right button.
type ButtonSet uint8

func (s *ButtonSet) Press(b MouseButton) {
	if b != ButtonNone {
		*s |= 1 << b
	}
}

// Release clears b and reports whether it was held.
func (s *ButtonSet) Release(b MouseButton) bool {
	if b == ButtonNone || !s.Has(b) {
		return false
	}
	*s &^= 1 << b
	return true
}

func (s ButtonSet) Has(b MouseButton) bool {
	return b != ButtonNone && s&(1<<b) != 0
}

// Default double-click thresholds.
const (
	DefaultDoubleClickInterval = 500 * time.Millisecond
	DefaultDoubleClickDistance = 4
)

// ClickCounter synthesizes click counts for native layers that do not
// report one. A press counts as a repeat when it uses the same button,
// lands within Distance pixels of the previous press and arrives within
// Interval of it. The count restarts after a double click so a third
// press is a plain press again.
type ClickCounter struct {
	Interval time.Duration
	Distance int

	button MouseButton
	at     time.Time
	x, y   int
	count  int
}

// Press records a press and returns its click count (1 or 2).
func (c *ClickCounter) Press(b MouseButton, x, y int, at time.Time) int {
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultDoubleClickInterval
	}
	distance := c.Distance
	if distance <= 0 {
		distance = DefaultDoubleClickDistance
	}

	repeat := c.count > 0 &&
		b == c.button &&
		at.Sub(c.at) <= interval &&
		abs(x-c.x) <= distance &&
		abs(y-c.y) <= distance

	if repeat {
		c.count++
	} else {
		c.count = 1
	}
	c.button, c.at, c.x, c.y = b, at, x, y

	count := c.count
	if count >= 2 {
		c.count = 0
	}
	return count
}

// Reset forgets the previous press.
func (c *ClickCounter) Reset() {
	c.count = 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
