package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/winhost/internal/native"
)

type monitor struct {
	name    string
	rect    native.Rect
	primary bool
}

// monitors lists active CRTCs through XRandR.
func (d *Driver) monitors() ([]monitor, error) {
	conn := d.xu.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(conn, d.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, d.root).Reply(); err == nil {
		primary = reply.Output
	}

	var out []monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		m := monitor{
			name: fmt.Sprintf("Monitor%d", i),
			rect: native.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		}
		for _, o := range info.Outputs {
			if o == primary && primary != 0 {
				m.primary = true
			}
		}
		if oi, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			m.name = string(oi.Name)
		}
		out = append(out, m)
	}
	return out, nil
}

// ScreenSize returns the primary monitor size in physical pixels, falling
// back to the monitor at the origin and then to the whole root window.
func (d *Driver) ScreenSize() (native.Size, error) {
	if mons, err := d.monitors(); err == nil && len(mons) > 0 {
		return pickMonitor(mons).rect.Size(), nil
	} else if err != nil {
		d.logger.Debug("randr unavailable, using root screen", "error", err)
	}

	screen := d.xu.Screen()
	size := native.Size{Width: int(screen.WidthInPixels), Height: int(screen.HeightInPixels)}
	if size.Width == 0 || size.Height == 0 {
		return native.Size{}, fmt.Errorf("X screen reports zero size")
	}
	return size, nil
}

func pickMonitor(mons []monitor) monitor {
	for _, m := range mons {
		if m.primary {
			return m
		}
	}
	for _, m := range mons {
		if m.rect.Contains(0, 0) {
			return m
		}
	}
	return mons[0]
}

// DPIScale derives the scale factor from the root screen's physical size,
// rounded to the nearest quarter.
func (d *Driver) DPIScale() float64 {
	screen := d.xu.Screen()
	return dpiScale(int(screen.WidthInPixels), int(screen.WidthInMillimeters))
}

func dpiScale(px, mm int) float64 {
	if px <= 0 || mm <= 0 {
		return 1
	}
	dpi := float64(px) * 25.4 / float64(mm)
	scale := math.Round(dpi/96*4) / 4
	if scale < 1 {
		return 1
	}
	return scale
}
