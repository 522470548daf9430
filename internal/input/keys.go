package input

import "fmt"

// InputKey is the semantic key identity delivered to window hosts.
type InputKey int

const (
	InputKeyNone InputKey = iota

	// Mouse buttons and wheel directions share the key space so hosts can
	// route them through the same key-state queries.
	InputKeyLeftMouse
	InputKeyRightMouse
	InputKeyMiddleMouse
	InputKeyXButton1
	InputKeyXButton2
	InputKeyMouseWheelUp
	InputKeyMouseWheelDown

	InputKeyBackspace
	InputKeyTab
	InputKeyReturn
	InputKeyEscape
	InputKeySpace
	InputKeyPageUp
	InputKeyPageDown
	InputKeyEnd
	InputKeyHome
	InputKeyLeft
	InputKeyUp
	InputKeyRight
	InputKeyDown
	InputKeyInsert
	InputKeyDelete
	InputKeyNumpadEnter

	// Generic modifiers, emitted by modifier edge detection.
	InputKeyShift
	InputKeyControl
	InputKeyAlt

	// Sided modifiers, emitted for the physical key itself.
	InputKeyLShift
	InputKeyRShift
	InputKeyLControl
	InputKeyRControl
	InputKeyLAlt
	InputKeyRAlt

	InputKey0
	InputKey1
	InputKey2
	InputKey3
	InputKey4
	InputKey5
	InputKey6
	InputKey7
	InputKey8
	InputKey9

	InputKeyA
	InputKeyB
	InputKeyC
	InputKeyD
	InputKeyE
	InputKeyF
	InputKeyG
	InputKeyH
	InputKeyI
	InputKeyJ
	InputKeyK
	InputKeyL
	InputKeyM
	InputKeyN
	InputKeyO
	InputKeyP
	InputKeyQ
	InputKeyR
	InputKeyS
	InputKeyT
	InputKeyU
	InputKeyV
	InputKeyW
	InputKeyX
	InputKeyY
	InputKeyZ

	InputKeyF1
	InputKeyF2
	InputKeyF3
	InputKeyF4
	InputKeyF5
	InputKeyF6
	InputKeyF7
	InputKeyF8
	InputKeyF9
	InputKeyF10
	InputKeyF11
	InputKeyF12
)

var inputKeyNames = map[InputKey]string{
	InputKeyNone:           "None",
	InputKeyLeftMouse:      "LeftMouse",
	InputKeyRightMouse:     "RightMouse",
	InputKeyMiddleMouse:    "MiddleMouse",
	InputKeyXButton1:       "XButton1",
	InputKeyXButton2:       "XButton2",
	InputKeyMouseWheelUp:   "MouseWheelUp",
	InputKeyMouseWheelDown: "MouseWheelDown",
	InputKeyBackspace:      "Backspace",
	InputKeyTab:            "Tab",
	InputKeyReturn:         "Return",
	InputKeyEscape:         "Escape",
	InputKeySpace:          "Space",
	InputKeyPageUp:         "PageUp",
	InputKeyPageDown:       "PageDown",
	InputKeyEnd:            "End",
	InputKeyHome:           "Home",
	InputKeyLeft:           "Left",
	InputKeyUp:             "Up",
	InputKeyRight:          "Right",
	InputKeyDown:           "Down",
	InputKeyInsert:         "Insert",
	InputKeyDelete:         "Delete",
	InputKeyNumpadEnter:    "NumpadEnter",
	InputKeyShift:          "Shift",
	InputKeyControl:        "Control",
	InputKeyAlt:            "Alt",
	InputKeyLShift:         "LShift",
	InputKeyRShift:         "RShift",
	InputKeyLControl:       "LControl",
	InputKeyRControl:       "RControl",
	InputKeyLAlt:           "LAlt",
	InputKeyRAlt:           "RAlt",
}

func (k InputKey) String() string {
	switch {
	case k >= InputKey0 && k <= InputKey9:
		return string(rune('0' + int(k-InputKey0)))
	case k >= InputKeyA && k <= InputKeyZ:
		return string(rune('A' + int(k-InputKeyA)))
	case k >= InputKeyF1 && k <= InputKeyF12:
		return fmt.Sprintf("F%d", int(k-InputKeyF1)+1)
	}
	if name, ok := inputKeyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("InputKey(%d)", int(k))
}

// IsMouse reports whether the key names a mouse button or wheel direction.
func (k InputKey) IsMouse() bool {
	return k >= InputKeyLeftMouse && k <= InputKeyMouseWheelDown
}

// RawKeycode is a layout-independent, scan-code-like key identity.
type RawKeycode int

const (
	RawKeycodeNone RawKeycode = iota

	RawKeycodeEscape
	RawKeycodeReturn
	RawKeycodeSpace
	RawKeycodeBackspace
	RawKeycodeTab
	RawKeycodeLeft
	RawKeycodeUp
	RawKeycodeRight
	RawKeycodeDown
	RawKeycodeInsert
	RawKeycodeDelete
	RawKeycodeHome
	RawKeycodeEnd
	RawKeycodePageUp
	RawKeycodePageDown
	RawKeycodeKeypadEnter

	RawKeycodeLeftShift
	RawKeycodeRightShift
	RawKeycodeLeftControl
	RawKeycodeRightControl
	RawKeycodeLeftAlt
	RawKeycodeRightAlt

	RawKeycodeF1
	RawKeycodeF2
	RawKeycodeF3
	RawKeycodeF4
	RawKeycodeF5
	RawKeycodeF6
	RawKeycodeF7
	RawKeycodeF8
	RawKeycodeF9
	RawKeycodeF10
	RawKeycodeF11
	RawKeycodeF12

	RawKeycode0
	RawKeycode1
	RawKeycode2
	RawKeycode3
	RawKeycode4
	RawKeycode5
	RawKeycode6
	RawKeycode7
	RawKeycode8
	RawKeycode9

	RawKeycodeA
	RawKeycodeB
	RawKeycodeC
	RawKeycodeD
	RawKeycodeE
	RawKeycodeF
	RawKeycodeG
	RawKeycodeH
	RawKeycodeI
	RawKeycodeJ
	RawKeycodeK
	RawKeycodeL
	RawKeycodeM
	RawKeycodeN
	RawKeycodeO
	RawKeycodeP
	RawKeycodeQ
	RawKeycodeR
	RawKeycodeS
	RawKeycodeT
	RawKeycodeU
	RawKeycodeV
	RawKeycodeW
	RawKeycodeX
	RawKeycodeY
	RawKeycodeZ
)

var rawKeycodeNames = map[RawKeycode]string{
	RawKeycodeNone:         "None",
	RawKeycodeEscape:       "Escape",
	RawKeycodeReturn:       "Return",
	RawKeycodeSpace:        "Space",
	RawKeycodeBackspace:    "Backspace",
	RawKeycodeTab:          "Tab",
	RawKeycodeLeft:         "Left",
	RawKeycodeUp:           "Up",
	RawKeycodeRight:        "Right",
	RawKeycodeDown:         "Down",
	RawKeycodeInsert:       "Insert",
	RawKeycodeDelete:       "Delete",
	RawKeycodeHome:         "Home",
	RawKeycodeEnd:          "End",
	RawKeycodePageUp:       "PageUp",
	RawKeycodePageDown:     "PageDown",
	RawKeycodeKeypadEnter:  "KeypadEnter",
	RawKeycodeLeftShift:    "LeftShift",
	RawKeycodeRightShift:   "RightShift",
	RawKeycodeLeftControl:  "LeftControl",
	RawKeycodeRightControl: "RightControl",
	RawKeycodeLeftAlt:      "LeftAlt",
	RawKeycodeRightAlt:     "RightAlt",
}

func (c RawKeycode) String() string {
	switch {
	case c >= RawKeycode0 && c <= RawKeycode9:
		return "Digit" + string(rune('0'+int(c-RawKeycode0)))
	case c >= RawKeycodeA && c <= RawKeycodeZ:
		return "Key" + string(rune('A'+int(c-RawKeycodeA)))
	case c >= RawKeycodeF1 && c <= RawKeycodeF12:
		return fmt.Sprintf("F%d", int(c-RawKeycodeF1)+1)
	}
	if name, ok := rawKeycodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("RawKeycode(%d)", int(c))
}
