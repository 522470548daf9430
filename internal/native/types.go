package native

import "fmt"

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// Size is a width/height pair.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Point is a position in screen or client coordinates.
type Point struct {
	X int
	Y int
}

// ShowMode selects how a window is presented when shown.
type ShowMode int

const (
	ShowNormal ShowMode = iota
	ShowMaximized
	ShowMinimized
	ShowFullscreen
)

func (m ShowMode) String() string {
	switch m {
	case ShowNormal:
		return "normal"
	case ShowMaximized:
		return "maximized"
	case ShowMinimized:
		return "minimized"
	case ShowFullscreen:
		return "fullscreen"
	default:
		return fmt.Sprintf("ShowMode(%d)", int(m))
	}
}

// Cursor is a standard pointer shape.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorIBeam
	CursorWait
	CursorCross
	CursorHand
	CursorSizeAll
	CursorSizeWE
	CursorSizeNS
	CursorSizeNWSE
	CursorSizeNESW
	CursorNo
)

var cursorNames = [...]string{
	CursorArrow:    "arrow",
	CursorIBeam:    "ibeam",
	CursorWait:     "wait",
	CursorCross:    "cross",
	CursorHand:     "hand",
	CursorSizeAll:  "size-all",
	CursorSizeWE:   "size-we",
	CursorSizeNS:   "size-ns",
	CursorSizeNWSE: "size-nwse",
	CursorSizeNESW: "size-nesw",
	CursorNo:       "no",
}

func (c Cursor) String() string {
	if c >= 0 && int(c) < len(cursorNames) {
		return cursorNames[c]
	}
	return fmt.Sprintf("Cursor(%d)", int(c))
}

// RenderAPI selects how the window's contents will be presented.
type RenderAPI int

const (
	// RenderSoftware presents CPU-rendered bitmaps.
	RenderSoftware RenderAPI = iota
	RenderOpenGL
	RenderVulkan
)

func (a RenderAPI) String() string {
	switch a {
	case RenderSoftware:
		return "software"
	case RenderOpenGL:
		return "opengl"
	case RenderVulkan:
		return "vulkan"
	default:
		return fmt.Sprintf("RenderAPI(%d)", int(a))
	}
}

// ParseRenderAPI maps a config or CLI name to a RenderAPI.
func ParseRenderAPI(name string) (RenderAPI, error) {
	switch name {
	case "", "software":
		return RenderSoftware, nil
	case "opengl", "gl":
		return RenderOpenGL, nil
	case "vulkan":
		return RenderVulkan, nil
	}
	return 0, fmt.Errorf("unknown render api %q", name)
}

// Handle is the native window/view pair exposed to renderers. On X11 both
// fields carry the window id; GLFW reports its window pointer and the
// underlying platform window.
type Handle struct {
	Window uintptr
	View   uintptr
}
