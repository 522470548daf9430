package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/1broseidon/winhost/internal/native"
)

// Glyph indices in the core "cursor" font.
var cursorGlyphs = map[native.Cursor]uint16{
	native.CursorArrow:    68,  // left_ptr
	native.CursorIBeam:    152, // xterm
	native.CursorWait:     150, // watch
	native.CursorCross:    34,  // crosshair
	native.CursorHand:     60,  // hand2
	native.CursorSizeAll:  52,  // fleur
	native.CursorSizeWE:   108, // sb_h_double_arrow
	native.CursorSizeNS:   116, // sb_v_double_arrow
	native.CursorSizeNWSE: 14,  // bottom_right_corner
	native.CursorSizeNESW: 12,  // bottom_left_corner
	native.CursorNo:       0,   // X_cursor
}

type cursorCache struct {
	d *Driver

	mu     sync.Mutex
	font   xproto.Font
	loaded *lru.Cache[native.Cursor, xproto.Cursor]
	blank  xproto.Cursor
}

// cursorCacheSize is below the number of shapes so rarely used glyph
// cursors are freed. The server keeps an evicted cursor alive while a
// window still uses it.
const cursorCacheSize = 6

func newCursorCache(d *Driver) *cursorCache {
	return newCursorCacheWith(d, func(id xproto.Cursor) {
		xproto.FreeCursor(d.xu.Conn(), id)
	})
}

func newCursorCacheWith(d *Driver, free func(xproto.Cursor)) *cursorCache {
	c := &cursorCache{d: d}
	c.loaded, _ = lru.NewWithEvict(cursorCacheSize, func(_ native.Cursor, id xproto.Cursor) {
		free(id)
	})
	return c
}

// get returns the glyph cursor for c, creating it on first use.
func (c *cursorCache) get(cursor native.Cursor) (xproto.Cursor, error) {
	glyph, ok := cursorGlyphs[cursor]
	if !ok {
		glyph = cursorGlyphs[native.CursorArrow]
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.loaded.Get(cursor); ok {
		return id, nil
	}

	conn := c.d.xu.Conn()
	if c.font == 0 {
		fid, err := xproto.NewFontId(conn)
		if err != nil {
			return 0, err
		}
		const name = "cursor"
		if err := xproto.OpenFontChecked(conn, fid, uint16(len(name)), name).Check(); err != nil {
			return 0, fmt.Errorf("open cursor font: %w", err)
		}
		c.font = fid
	}

	cid, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateGlyphCursorChecked(conn, cid, c.font, c.font,
		glyph, glyph+1,
		0, 0, 0,
		0xffff, 0xffff, 0xffff).Check()
	if err != nil {
		return 0, fmt.Errorf("create cursor %s: %w", cursor, err)
	}
	c.loaded.Add(cursor, cid)
	return cid, nil
}

// hidden returns a fully transparent cursor.
func (c *cursorCache) hidden() (xproto.Cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blank != 0 {
		return c.blank, nil
	}

	conn := c.d.xu.Conn()
	pid, err := xproto.NewPixmapId(conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreatePixmapChecked(conn, 1, pid, xproto.Drawable(c.d.root), 1, 1).Check(); err != nil {
		return 0, fmt.Errorf("create cursor pixmap: %w", err)
	}
	defer xproto.FreePixmap(conn, pid)

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		return 0, err
	}
	xproto.CreateGC(conn, gc, xproto.Drawable(pid), xproto.GcForeground, []uint32{0})
	xproto.PolyFillRectangle(conn, xproto.Drawable(pid), gc, []xproto.Rectangle{{Width: 1, Height: 1}})
	xproto.FreeGC(conn, gc)

	cid, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}
	if err := xproto.CreateCursorChecked(conn, cid, pid, pid, 0, 0, 0, 0, 0, 0, 0, 0).Check(); err != nil {
		return 0, fmt.Errorf("create blank cursor: %w", err)
	}
	c.blank = cid
	return cid, nil
}

func (c *cursorCache) free() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loaded.Purge()
	conn := c.d.xu.Conn()
	if c.blank != 0 {
		xproto.FreeCursor(conn, c.blank)
	}
	if c.font != 0 {
		xproto.CloseFont(conn, c.font)
	}
	c.blank, c.font = 0, 0
}
