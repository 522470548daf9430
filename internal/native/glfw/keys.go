package glfw

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/1broseidon/winhost/internal/input"
)

var namedKeysyms = map[glfw.Key]input.NativeCode{
	glfw.KeySpace:        input.KeysymSpace,
	glfw.KeyEscape:       input.KeysymEscape,
	glfw.KeyEnter:        input.KeysymReturn,
	glfw.KeyKPEnter:      input.KeysymKPEnter,
	glfw.KeyTab:          input.KeysymTab,
	glfw.KeyBackspace:    input.KeysymBackspace,
	glfw.KeyInsert:       input.KeysymInsert,
	glfw.KeyDelete:       input.KeysymDelete,
	glfw.KeyRight:        input.KeysymRight,
	glfw.KeyLeft:         input.KeysymLeft,
	glfw.KeyDown:         input.KeysymDown,
	glfw.KeyUp:           input.KeysymUp,
	glfw.KeyPageUp:       input.KeysymPageUp,
	glfw.KeyPageDown:     input.KeysymPageDown,
	glfw.KeyHome:         input.KeysymHome,
	glfw.KeyEnd:          input.KeysymEnd,
	glfw.KeyLeftShift:    input.KeysymShiftL,
	glfw.KeyRightShift:   input.KeysymShiftR,
	glfw.KeyLeftControl:  input.KeysymControlL,
	glfw.KeyRightControl: input.KeysymControlR,
	glfw.KeyLeftAlt:      input.KeysymAltL,
	glfw.KeyRightAlt:     input.KeysymAltR,
}

// keysymFromGLFW moves a GLFW key into the shared keysym space, or returns
// 0 for keys the translator has no name for.
func keysymFromGLFW(key glfw.Key) input.NativeCode {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return input.NativeCode('a' + (key - glfw.KeyA))
	case key >= glfw.Key0 && key <= glfw.Key9:
		return input.NativeCode('0' + (key - glfw.Key0))
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return input.KeysymF1 + input.NativeCode(key-glfw.KeyF1)
	}
	return namedKeysyms[key]
}

func modifiersFromGLFW(mods glfw.ModifierKey) input.Modifier {
	var out input.Modifier
	if mods&glfw.ModShift != 0 {
		out |= input.ModShift
	}
	if mods&glfw.ModControl != 0 {
		out |= input.ModControl
	}
	if mods&glfw.ModAlt != 0 {
		out |= input.ModAlt
	}
	if mods&glfw.ModSuper != 0 {
		out |= input.ModSuper
	}
	return out
}

func buttonFromGLFW(b glfw.MouseButton) input.MouseButton {
	switch b {
	case glfw.MouseButtonLeft:
		return input.ButtonLeft
	case glfw.MouseButtonRight:
		return input.ButtonRight
	case glfw.MouseButtonMiddle:
		return input.ButtonMiddle
	case glfw.MouseButton4:
		return input.ButtonX1
	case glfw.MouseButton5:
		return input.ButtonX2
	default:
		return input.ButtonNone
	}
}
