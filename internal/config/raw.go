package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawRect struct {
	X      *int `yaml:"x"`
	Y      *int `yaml:"y"`
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawSize struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawDoubleClick struct {
	IntervalMs *int `yaml:"interval_ms"`
	Distance   *int `yaml:"distance"`
}

// RawConfig mirrors one YAML file. Unset keys stay nil so files can be
// layered with merge.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Driver     *string  `yaml:"driver"`
	Display    *string  `yaml:"display"`
	XAuthority *string  `yaml:"xauthority"`
	UIScale    *float64 `yaml:"ui_scale"`
	LogLevel   *string  `yaml:"log_level"`

	IdleQuantumMs *int `yaml:"idle_quantum_ms"`
	MaxWaitMs     *int `yaml:"max_wait_ms"`

	Window         *RawRect        `yaml:"window"`
	DoubleClick    *RawDoubleClick `yaml:"double_click"`
	ScreenFallback *RawSize        `yaml:"screen_fallback"`
}

// merge overlays the set fields of other onto r.
func (r RawConfig) merge(other RawConfig) RawConfig {
	out := r
	out.Include = nil

	if other.Driver != nil {
		out.Driver = other.Driver
	}
	if other.Display != nil {
		out.Display = other.Display
	}
	if other.XAuthority != nil {
		out.XAuthority = other.XAuthority
	}
	if other.UIScale != nil {
		out.UIScale = other.UIScale
	}
	if other.LogLevel != nil {
		out.LogLevel = other.LogLevel
	}
	if other.IdleQuantumMs != nil {
		out.IdleQuantumMs = other.IdleQuantumMs
	}
	if other.MaxWaitMs != nil {
		out.MaxWaitMs = other.MaxWaitMs
	}
	if other.Window != nil {
		out.Window = mergeRect(out.Window, other.Window)
	}
	if other.DoubleClick != nil {
		dc := RawDoubleClick{}
		if out.DoubleClick != nil {
			dc = *out.DoubleClick
		}
		if other.DoubleClick.IntervalMs != nil {
			dc.IntervalMs = other.DoubleClick.IntervalMs
		}
		if other.DoubleClick.Distance != nil {
			dc.Distance = other.DoubleClick.Distance
		}
		out.DoubleClick = &dc
	}
	if other.ScreenFallback != nil {
		s := RawSize{}
		if out.ScreenFallback != nil {
			s = *out.ScreenFallback
		}
		if other.ScreenFallback.Width != nil {
			s.Width = other.ScreenFallback.Width
		}
		if other.ScreenFallback.Height != nil {
			s.Height = other.ScreenFallback.Height
		}
		out.ScreenFallback = &s
	}
	return out
}

func mergeRect(base *RawRect, over *RawRect) *RawRect {
	r := RawRect{}
	if base != nil {
		r = *base
	}
	if over.X != nil {
		r.X = over.X
	}
	if over.Y != nil {
		r.Y = over.Y
	}
	if over.Width != nil {
		r.Width = over.Width
	}
	if over.Height != nil {
		r.Height = over.Height
	}
	return &r
}
