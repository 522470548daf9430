package x11

import (
	"testing"

	"github.com/1broseidon/winhost/internal/native"
)

func TestDPIScale(t *testing.T) {
	tests := []struct {
		px, mm int
		want   float64
	}{
		{1920, 508, 1},    // 96 dpi
		{3840, 508, 2},    // 192 dpi
		{2560, 602, 1.25}, // ~108 dpi rounds up
		{1920, 0, 1},
		{800, 1000, 1},
	}
	for _, tt := range tests {
		if got := dpiScale(tt.px, tt.mm); got != tt.want {
			t.Fatalf("dpiScale(%d, %d) = %v, want %v", tt.px, tt.mm, got, tt.want)
		}
	}
}

func TestPickMonitor(t *testing.T) {
	left := monitor{name: "DP-1", rect: native.Rect{X: -1920, Width: 1920, Height: 1080}}
	origin := monitor{name: "HDMI-1", rect: native.Rect{Width: 2560, Height: 1440}}
	primary := monitor{name: "eDP-1", rect: native.Rect{X: 2560, Width: 1920, Height: 1200}, primary: true}

	if got := pickMonitor([]monitor{left, origin, primary}); got.name != "eDP-1" {
		t.Fatalf("pickMonitor = %s, want primary eDP-1", got.name)
	}
	if got := pickMonitor([]monitor{left, origin}); got.name != "HDMI-1" {
		t.Fatalf("pickMonitor = %s, want origin HDMI-1", got.name)
	}
	if got := pickMonitor([]monitor{left}); got.name != "DP-1" {
		t.Fatalf("pickMonitor = %s, want DP-1", got.name)
	}
}
