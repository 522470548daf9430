package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported native drivers.
const (
	DriverX11  = "x11"
	DriverGLFW = "glfw"
)

// Rect is a window frame in screen coordinates.
type Rect struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Size is a width/height pair.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DoubleClick holds the thresholds used when the native layer does not
// count clicks itself.
type DoubleClick struct {
	IntervalMs int `yaml:"interval_ms"`
	Distance   int `yaml:"distance"`
}

func (d DoubleClick) Interval() time.Duration {
	return time.Duration(d.IntervalMs) * time.Millisecond
}

// Config is the effective configuration.
type Config struct {
	Driver     string `yaml:"driver"`
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`
	// UIScale overrides the driver's DPI scale when > 0.
	UIScale  float64 `yaml:"ui_scale,omitempty"`
	LogLevel string  `yaml:"log_level"`

	IdleQuantumMs int `yaml:"idle_quantum_ms"`
	MaxWaitMs     int `yaml:"max_wait_ms"`

	Window         Rect        `yaml:"window"`
	DoubleClick    DoubleClick `yaml:"double_click"`
	ScreenFallback Size        `yaml:"screen_fallback"`
}

func DefaultConfig() *Config {
	return &Config{
		Driver:        DriverX11,
		LogLevel:      "info",
		IdleQuantumMs: 10,
		MaxWaitMs:     1000,
		Window: Rect{
			X:      100,
			Y:      100,
			Width:  800,
			Height: 600,
		},
		DoubleClick: DoubleClick{
			IntervalMs: 500,
			Distance:   4,
		},
		ScreenFallback: Size{
			Width:  1920,
			Height: 1080,
		},
	}
}

func (c *Config) IdleQuantum() time.Duration {
	return time.Duration(c.IdleQuantumMs) * time.Millisecond
}

func (c *Config) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitMs) * time.Millisecond
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverX11, DriverGLFW:
	default:
		return &ValidationError{Path: "driver", Err: fmt.Errorf("driver must be one of: %s, %s", DriverX11, DriverGLFW)}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.UIScale < 0 {
		return &ValidationError{Path: "ui_scale", Err: fmt.Errorf("ui_scale must be >= 0")}
	}
	if c.IdleQuantumMs <= 0 {
		return &ValidationError{Path: "idle_quantum_ms", Err: fmt.Errorf("idle_quantum_ms must be > 0")}
	}
	if c.MaxWaitMs < 0 {
		return &ValidationError{Path: "max_wait_ms", Err: fmt.Errorf("max_wait_ms must be >= 0")}
	}
	if c.Window.Width <= 0 {
		return &ValidationError{Path: "window.width", Err: fmt.Errorf("window.width must be > 0")}
	}
	if c.Window.Height <= 0 {
		return &ValidationError{Path: "window.height", Err: fmt.Errorf("window.height must be > 0")}
	}
	if c.DoubleClick.IntervalMs <= 0 {
		return &ValidationError{Path: "double_click.interval_ms", Err: fmt.Errorf("interval_ms must be > 0")}
	}
	if c.DoubleClick.Distance < 0 {
		return &ValidationError{Path: "double_click.distance", Err: fmt.Errorf("distance must be >= 0")}
	}
	if c.ScreenFallback.Width <= 0 || c.ScreenFallback.Height <= 0 {
		return &ValidationError{Path: "screen_fallback", Err: fmt.Errorf("screen_fallback width and height must be > 0")}
	}
	if strings.ContainsAny(c.Display, " \t\n") {
		return &ValidationError{Path: "display", Err: fmt.Errorf("display must not contain whitespace")}
	}
	return nil
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
