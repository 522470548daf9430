package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/winhost/internal/input"
)

func TestParseKeyCode(t *testing.T) {
	tests := []struct {
		in      string
		want    input.NativeCode
		wantErr bool
	}{
		{"97", 0x61, false},
		{"0xff0d", input.KeysymReturn, false},
		{" 0x20 ", input.KeysymSpace, false},
		{"enter", 0, true},
		{"0x1ffffffff", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseKeyCode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseKeyCode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("parseKeyCode(%q) = %#x, want %#x", tt.in, got, tt.want)
			}
		})
	}
}

func TestKnownKeyCodesAllTranslate(t *testing.T) {
	codes := knownKeyCodes()
	if len(codes) == 0 {
		t.Fatal("expected known key codes")
	}
	seen := map[input.NativeCode]bool{}
	for _, c := range codes {
		if input.MapToInputKey(c) == input.InputKeyNone {
			t.Fatalf("code %#x listed but untranslatable", c)
		}
		seen[c] = true
	}
	for _, c := range []input.NativeCode{input.KeysymEscape, input.KeysymF1, 'a', 'Z', '0'} {
		if !seen[c] {
			t.Fatalf("code %#x missing from known codes", c)
		}
	}
}

func TestPrintKeyTable(t *testing.T) {
	var buf bytes.Buffer
	printKeyTable(&buf, []input.NativeCode{'a', input.KeysymShiftL, 0x12345})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %q", buf.String())
	}
	if !strings.Contains(lines[1], "A") || !strings.Contains(lines[1], "KeyA") {
		t.Fatalf("row for 'a' = %q", lines[1])
	}
	if !strings.Contains(lines[2], "LShift") || !strings.Contains(lines[2], "LeftShift") {
		t.Fatalf("row for Shift_L = %q", lines[2])
	}
	if !strings.Contains(lines[3], "None") {
		t.Fatalf("row for unknown code = %q", lines[3])
	}
}

func TestNewLoggerWritesJSONWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("shown", "driver", "x11")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "shown" || rec["driver"] != "x11" {
		t.Fatalf("record = %v", rec)
	}
}

func TestLoadConfigFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("driver: glfw\nui_scale: 1.5\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Driver != "glfw" || cfg.UIScale != 1.5 {
		t.Fatalf("cfg driver=%q ui_scale=%v", cfg.Driver, cfg.UIScale)
	}
}

func TestProfileMode(t *testing.T) {
	for _, mode := range []string{"cpu", "mem", "block", "trace"} {
		opt, err := profileMode(mode)
		if err != nil || opt == nil {
			t.Fatalf("profileMode(%q) = %v, %v", mode, opt, err)
		}
	}
	if opt, err := profileMode(""); err != nil || opt != nil {
		t.Fatalf("profileMode(\"\") should disable profiling, got %v, %v", opt, err)
	}
	if _, err := profileMode("heap"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestCheckDuration(t *testing.T) {
	tests := []struct {
		d       time.Duration
		wantErr bool
	}{
		{0, false},
		{time.Millisecond, false},
		{2 * time.Second, false},
		{500 * time.Microsecond, true},
		{time.Nanosecond, true},
		{-time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			err := checkDuration(tt.d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkDuration(%v) error = %v, wantErr %v", tt.d, err, tt.wantErr)
			}
		})
	}
}
