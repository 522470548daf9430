package glfw

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
)

// blitter uploads bitmaps into a texture and blits them to the default
// framebuffer through a read framebuffer.
type blitter struct {
	tex           uint32
	fbo           uint32
	width, height int32
}

func (b *blitter) ensure(width, height int32) {
	if b.tex == 0 {
		gl.GenTextures(1, &b.tex)
		gl.BindTexture(gl.TEXTURE_2D, b.tex)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.GenFramebuffers(1, &b.fbo)
	}
	gl.BindTexture(gl.TEXTURE_2D, b.tex)
	if width != b.width || height != b.height {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.BGRA, gl.UNSIGNED_BYTE, nil)
		b.width, b.height = width, height
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, b.fbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, b.tex, 0)
}

func (b *blitter) release() {
	if b.fbo != 0 {
		gl.DeleteFramebuffers(1, &b.fbo)
	}
	if b.tex != 0 {
		gl.DeleteTextures(1, &b.tex)
	}
	*b = blitter{}
}

// PresentBitmap draws BGRA pixels at (x, y) in client coordinates and swaps.
func (w *Window) PresentBitmap(x, y, width, height, stride int, pixels []byte) error {
	if err := w.alive(); err != nil {
		return err
	}
	if w.vulkan {
		return fmt.Errorf("present bitmap on a vulkan window: unsupported")
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	if stride < width*4 || len(pixels) < stride*(height-1)+width*4 {
		return fmt.Errorf("present bitmap: %d bytes too short for %dx%d stride %d", len(pixels), width, height, stride)
	}

	w.win.MakeContextCurrent()
	w.blit.ensure(int32(width), int32(height))

	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(stride/4))
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(width), int32(height), gl.BGRA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	// GL's origin is bottom-left; flip rows while blitting.
	_, fbHeight := w.win.GetFramebufferSize()
	dstTop := int32(fbHeight - y)
	dstBottom := int32(fbHeight - y - height)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(
		0, 0, int32(width), int32(height),
		int32(x), dstTop, int32(x+width), dstBottom,
		gl.COLOR_BUFFER_BIT, gl.NEAREST,
	)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	w.win.SwapBuffers()
	return nil
}
