package backend

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/winhost/internal/config"
	"github.com/1broseidon/winhost/internal/native"
	"github.com/1broseidon/winhost/internal/native/glfw"
	"github.com/1broseidon/winhost/internal/native/x11"
)

// Opener opens a native driver from config.
type Opener func(cfg *config.Config, logger *slog.Logger) (native.Driver, error)

var openers = map[string]Opener{
	config.DriverX11: func(cfg *config.Config, logger *slog.Logger) (native.Driver, error) {
		return x11.Open(x11.Options{
			Display:    cfg.Display,
			XAuthority: cfg.XAuthority,
			Logger:     logger.With("driver", config.DriverX11),
		})
	},
	config.DriverGLFW: func(cfg *config.Config, logger *slog.Logger) (native.Driver, error) {
		return glfw.Open(glfw.Options{
			Logger: logger.With("driver", config.DriverGLFW),
		})
	},
}

func openDriver(cfg *config.Config, logger *slog.Logger) (native.Driver, error) {
	open, ok := openers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	driver, err := open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s driver: %w", cfg.Driver, err)
	}
	return driver, nil
}
