package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// PresentBitmap uploads BGRA pixels with PutImage, split into bands that
// fit the server's maximum request length.
func (w *Window) PresentBitmap(x, y, width, height, stride int, pixels []byte) error {
	if err := w.alive(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return nil
	}
	if stride < width*4 || len(pixels) < stride*(height-1)+width*4 {
		return fmt.Errorf("present bitmap: %d bytes too short for %dx%d stride %d", len(pixels), width, height, stride)
	}

	conn := w.d.xu.Conn()
	if w.gc == 0 {
		gc, err := xproto.NewGcontextId(conn)
		if err != nil {
			return err
		}
		err = xproto.CreateGCChecked(conn, gc, xproto.Drawable(w.id), xproto.GcGraphicsExposures, []uint32{0}).Check()
		if err != nil {
			return fmt.Errorf("create gc: %w", err)
		}
		w.gc = gc
	}

	rows := bandRows(int(xproto.Setup(conn).MaximumRequestLength), width)
	depth := w.d.xu.Screen().RootDepth
	row := width * 4

	for top := 0; top < height; top += rows {
		n := min(rows, height-top)
		band := make([]byte, n*row)
		for i := 0; i < n; i++ {
			src := pixels[(top+i)*stride:]
			copy(band[i*row:(i+1)*row], src[:row])
		}
		xproto.PutImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(w.id), w.gc,
			uint16(width), uint16(n), int16(x), int16(y+top), 0, depth, band)
	}
	return nil
}

// bandRows returns how many rows of a width-pixel image fit in one
// PutImage request. maxRequest is in 4-byte units.
func bandRows(maxRequest, width int) int {
	const header = 24
	avail := maxRequest*4 - header
	rows := avail / (width * 4)
	return max(rows, 1)
}
