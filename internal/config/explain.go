package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at a YAML path and where it came from.
//
// Supported paths:
//
//	driver
//	display
//	xauthority
//	ui_scale
//	log_level
//	idle_quantum_ms
//	max_wait_ms
//	window, window.x, window.y, window.width, window.height
//	double_click, double_click.interval_ms, double_click.distance
//	screen_fallback, screen_fallback.width, screen_fallback.height
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

// Paths lists every leaf path Explain understands.
func Paths() []string {
	return []string{
		"driver",
		"display",
		"xauthority",
		"ui_scale",
		"log_level",
		"idle_quantum_ms",
		"max_wait_ms",
		"window.x",
		"window.y",
		"window.width",
		"window.height",
		"double_click.interval_ms",
		"double_click.distance",
		"screen_fallback.width",
		"screen_fallback.height",
	}
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := ""
	if len(parts) == 2 {
		leaf = parts[1]
	} else if len(parts) > 2 {
		return nil, fmt.Errorf("unknown path %q", path)
	}

	switch parts[0] {
	case "driver":
		return scalar(path, leaf, cfg.Driver)
	case "display":
		return scalar(path, leaf, cfg.Display)
	case "xauthority":
		return scalar(path, leaf, cfg.XAuthority)
	case "ui_scale":
		return scalar(path, leaf, cfg.UIScale)
	case "log_level":
		return scalar(path, leaf, cfg.LogLevel)
	case "idle_quantum_ms":
		return scalar(path, leaf, cfg.IdleQuantumMs)
	case "max_wait_ms":
		return scalar(path, leaf, cfg.MaxWaitMs)
	case "window":
		switch leaf {
		case "":
			return cfg.Window, nil
		case "x":
			return cfg.Window.X, nil
		case "y":
			return cfg.Window.Y, nil
		case "width":
			return cfg.Window.Width, nil
		case "height":
			return cfg.Window.Height, nil
		}
	case "double_click":
		switch leaf {
		case "":
			return cfg.DoubleClick, nil
		case "interval_ms":
			return cfg.DoubleClick.IntervalMs, nil
		case "distance":
			return cfg.DoubleClick.Distance, nil
		}
	case "screen_fallback":
		switch leaf {
		case "":
			return cfg.ScreenFallback, nil
		case "width":
			return cfg.ScreenFallback.Width, nil
		case "height":
			return cfg.ScreenFallback.Height, nil
		}
	}
	return nil, fmt.Errorf("unknown path %q", path)
}

func scalar(path, leaf string, v any) (any, error) {
	if leaf != "" {
		return nil, fmt.Errorf("unknown path %q", path)
	}
	return v, nil
}
