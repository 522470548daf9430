package config

import "fmt"

// ValidationError reports an invalid value at a YAML path, with the file
// position that set it when known.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Driver != nil {
		cfg.Driver = *raw.Driver
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.UIScale != nil {
		cfg.UIScale = *raw.UIScale
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.IdleQuantumMs != nil {
		cfg.IdleQuantumMs = *raw.IdleQuantumMs
	}
	if raw.MaxWaitMs != nil {
		cfg.MaxWaitMs = *raw.MaxWaitMs
	}
	if w := raw.Window; w != nil {
		if w.X != nil {
			cfg.Window.X = *w.X
		}
		if w.Y != nil {
			cfg.Window.Y = *w.Y
		}
		if w.Width != nil {
			cfg.Window.Width = *w.Width
		}
		if w.Height != nil {
			cfg.Window.Height = *w.Height
		}
	}
	if dc := raw.DoubleClick; dc != nil {
		if dc.IntervalMs != nil {
			cfg.DoubleClick.IntervalMs = *dc.IntervalMs
		}
		if dc.Distance != nil {
			cfg.DoubleClick.Distance = *dc.Distance
		}
	}
	if sf := raw.ScreenFallback; sf != nil {
		if sf.Width != nil {
			cfg.ScreenFallback.Width = *sf.Width
		}
		if sf.Height != nil {
			cfg.ScreenFallback.Height = *sf.Height
		}
	}
	return cfg
}
