// Package native defines the contract between window entities and the
// windowing system that backs them.
package native

import (
	"errors"
	"image"
	"time"
)

var (
	// ErrVulkanUnsupported is returned when a driver or window cannot
	// produce a Vulkan surface.
	ErrVulkanUnsupported = errors.New("vulkan surface not supported")
	// ErrUnsupported marks a best-effort operation the driver cannot perform.
	ErrUnsupported = errors.New("operation not supported by driver")
	// ErrClosed is returned by operations on a destroyed window or a
	// closed driver.
	ErrClosed = errors.New("native resource closed")
)

// WindowOptions configure a new native window.
type WindowOptions struct {
	Title     string
	Frame     Rect
	Popup     bool
	Owner     Window
	RenderAPI RenderAPI
}

// Driver is a connection to a windowing system.
type Driver interface {
	Name() string
	CreateWindow(opts WindowOptions, sink EventSink) (Window, error)

	// Dispatch delivers every queued native event to its window's sink
	// without blocking.
	Dispatch() error
	// Wake interrupts a blocked WaitMessage. Safe from any goroutine.
	Wake()

	ScreenSize() (Size, error)
	DPIScale() float64

	ClipboardText() (string, error)
	SetClipboardText(text string) error

	Close() error
}

// Waiter is implemented by drivers that can block until a native event
// arrives. WaitMessage returns when an event is queued, Wake is called or
// timeout elapses; a negative timeout waits indefinitely.
type Waiter interface {
	WaitMessage(timeout time.Duration) error
}

// Window is one native top-level window and its drawable view.
type Window interface {
	SetTitle(title string) error
	SetIcon(icon image.Image) error

	// Frame is the outer rectangle including decorations.
	Frame() (Rect, error)
	// ClientRect is the drawable area in screen coordinates.
	ClientRect() (Rect, error)
	SetFrame(r Rect) error
	SetClientRect(r Rect) error

	Show(mode ShowMode) error
	Hide() error
	Activate() error

	SetCursor(c Cursor) error
	SetCursorVisible(visible bool) error
	WarpPointer(x, y int) error
	GrabKeyboard(grab bool) error
	GrabPointer(grab bool) error

	// Invalidate requests a paint event.
	Invalidate() error
	// PresentBitmap copies BGRA8 pixels with the given row stride to the
	// client area at (x, y).
	PresentBitmap(x, y, width, height, stride int, pixels []byte) error

	SetBorderColor(rgb uint32) error
	SetCaptionColor(rgb uint32) error
	SetCaptionTextColor(rgb uint32) error

	Handle() Handle
	VulkanInstanceExtensions() []string
	CreateVulkanSurface(instance uintptr) (uintptr, error)

	Destroy() error
}
