package input

// NativeCode is a key code in the native key space shared by all drivers.
// The space is X11 keysyms: letters and digits are their ASCII values and
// named keys live in the 0xff00 block. Drivers with a different native
// layout translate into this space before handing events to a window.
type NativeCode uint32

// Keysyms for the named keys the translator understands.
const (
	KeysymSpace       NativeCode = 0x0020
	KeysymBackspace   NativeCode = 0xff08
	KeysymTab         NativeCode = 0xff09
	KeysymReturn      NativeCode = 0xff0d
	KeysymEscape      NativeCode = 0xff1b
	KeysymHome        NativeCode = 0xff50
	KeysymLeft        NativeCode = 0xff51
	KeysymUp          NativeCode = 0xff52
	KeysymRight       NativeCode = 0xff53
	KeysymDown        NativeCode = 0xff54
	KeysymPageUp      NativeCode = 0xff55
	KeysymPageDown    NativeCode = 0xff56
	KeysymEnd         NativeCode = 0xff57
	KeysymInsert      NativeCode = 0xff63
	KeysymKPEnter     NativeCode = 0xff8d
	KeysymF1          NativeCode = 0xffbe
	KeysymF2          NativeCode = 0xffbf
	KeysymF3          NativeCode = 0xffc0
	KeysymF4          NativeCode = 0xffc1
	KeysymF5          NativeCode = 0xffc2
	KeysymF6          NativeCode = 0xffc3
	KeysymF7          NativeCode = 0xffc4
	KeysymF8          NativeCode = 0xffc5
	KeysymF9          NativeCode = 0xffc6
	KeysymF10         NativeCode = 0xffc7
	KeysymF11         NativeCode = 0xffc8
	KeysymF12         NativeCode = 0xffc9
	KeysymShiftL      NativeCode = 0xffe1
	KeysymShiftR      NativeCode = 0xffe2
	KeysymControlL    NativeCode = 0xffe3
	KeysymControlR    NativeCode = 0xffe4
	KeysymAltL        NativeCode = 0xffe9
	KeysymAltR        NativeCode = 0xffea
	KeysymDelete      NativeCode = 0xffff
	KeysymISOLeftTab  NativeCode = 0xfe20
	KeysymISOLevel3Sh NativeCode = 0xfe03
)

var namedInputKeys = map[NativeCode]InputKey{
	KeysymEscape:      InputKeyEscape,
	KeysymReturn:      InputKeyReturn,
	KeysymKPEnter:     InputKeyNumpadEnter,
	KeysymSpace:       InputKeySpace,
	KeysymBackspace:   InputKeyBackspace,
	KeysymTab:         InputKeyTab,
	KeysymISOLeftTab:  InputKeyTab,
	KeysymLeft:        InputKeyLeft,
	KeysymUp:          InputKeyUp,
	KeysymRight:       InputKeyRight,
	KeysymDown:        InputKeyDown,
	KeysymInsert:      InputKeyInsert,
	KeysymDelete:      InputKeyDelete,
	KeysymHome:        InputKeyHome,
	KeysymEnd:         InputKeyEnd,
	KeysymPageUp:      InputKeyPageUp,
	KeysymPageDown:    InputKeyPageDown,
	KeysymShiftL:      InputKeyLShift,
	KeysymShiftR:      InputKeyRShift,
	KeysymControlL:    InputKeyLControl,
	KeysymControlR:    InputKeyRControl,
	KeysymAltL:        InputKeyLAlt,
	KeysymAltR:        InputKeyRAlt,
	KeysymISOLevel3Sh: InputKeyRAlt,
	KeysymF1:          InputKeyF1,
	KeysymF2:          InputKeyF2,
	KeysymF3:          InputKeyF3,
	KeysymF4:          InputKeyF4,
	KeysymF5:          InputKeyF5,
	KeysymF6:          InputKeyF6,
	KeysymF7:          InputKeyF7,
	KeysymF8:          InputKeyF8,
	KeysymF9:          InputKeyF9,
	KeysymF10:         InputKeyF10,
	KeysymF11:         InputKeyF11,
	KeysymF12:         InputKeyF12,
}

var namedRawKeycodes = map[NativeCode]RawKeycode{
	KeysymEscape:      RawKeycodeEscape,
	KeysymReturn:      RawKeycodeReturn,
	KeysymKPEnter:     RawKeycodeKeypadEnter,
	KeysymSpace:       RawKeycodeSpace,
	KeysymBackspace:   RawKeycodeBackspace,
	KeysymTab:         RawKeycodeTab,
	KeysymISOLeftTab:  RawKeycodeTab,
	KeysymLeft:        RawKeycodeLeft,
	KeysymUp:          RawKeycodeUp,
	KeysymRight:       RawKeycodeRight,
	KeysymDown:        RawKeycodeDown,
	KeysymInsert:      RawKeycodeInsert,
	KeysymDelete:      RawKeycodeDelete,
	KeysymHome:        RawKeycodeHome,
	KeysymEnd:         RawKeycodeEnd,
	KeysymPageUp:      RawKeycodePageUp,
	KeysymPageDown:    RawKeycodePageDown,
	KeysymShiftL:      RawKeycodeLeftShift,
	KeysymShiftR:      RawKeycodeRightShift,
	KeysymControlL:    RawKeycodeLeftControl,
	KeysymControlR:    RawKeycodeRightControl,
	KeysymAltL:        RawKeycodeLeftAlt,
	KeysymAltR:        RawKeycodeRightAlt,
	KeysymISOLevel3Sh: RawKeycodeRightAlt,
	KeysymF1:          RawKeycodeF1,
	KeysymF2:          RawKeycodeF2,
	KeysymF3:          RawKeycodeF3,
	KeysymF4:          RawKeycodeF4,
	KeysymF5:          RawKeycodeF5,
	KeysymF6:          RawKeycodeF6,
	KeysymF7:          RawKeycodeF7,
	KeysymF8:          RawKeycodeF8,
	KeysymF9:          RawKeycodeF9,
	KeysymF10:         RawKeycodeF10,
	KeysymF11:         RawKeycodeF11,
	KeysymF12:         RawKeycodeF12,
}

// MapToInputKey translates a native code into its semantic key. Unknown
// codes map to InputKeyNone.
func MapToInputKey(code NativeCode) InputKey {
	switch {
	case code >= 'A' && code <= 'Z':
		return InputKeyA + InputKey(code-'A')
	case code >= 'a' && code <= 'z':
		return InputKeyA + InputKey(code-'a')
	case code >= '0' && code <= '9':
		return InputKey0 + InputKey(code-'0')
	}
	if key, ok := namedInputKeys[code]; ok {
		return key
	}
	return InputKeyNone
}

// MapToRawKeycode translates a native code into its raw keycode. Unknown
// codes map to RawKeycodeNone.
func MapToRawKeycode(code NativeCode) RawKeycode {
	switch {
	case code >= 'A' && code <= 'Z':
		return RawKeycodeA + RawKeycode(code-'A')
	case code >= 'a' && code <= 'z':
		return RawKeycodeA + RawKeycode(code-'a')
	case code >= '0' && code <= '9':
		return RawKeycode0 + RawKeycode(code-'0')
	}
	if raw, ok := namedRawKeycodes[code]; ok {
		return raw
	}
	return RawKeycodeNone
}
