package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/term"

	"github.com/1broseidon/winhost/internal/backend"
	"github.com/1broseidon/winhost/internal/config"
)

// GLFW needs every window call on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runRun(os.Args[2:]))
	case "screen":
		os.Exit(runScreen(os.Args[2:]))
	case "keys":
		os.Exit(runKeys(os.Args[2:]))
	case "clipboard":
		os.Exit(runClipboard(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winhost <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open a demo window and log its events")
	fmt.Fprintln(w, "  screen              Print the primary screen size")
	fmt.Fprintln(w, "  keys [code...]      Show how native key codes translate")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  clipboard get       Print clipboard text")
	fmt.Fprintln(w, "  clipboard set TEXT  Replace clipboard text")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winhost <command> --help' for command-specific options.")
}

// newLogger writes text to a terminal and JSON everywhere else.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// loadConfig reads path, or the default location when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// driverFlags are shared by every command that opens a backend.
type driverFlags struct {
	configPath *string
	driver     *string
	display    *string
}

func addDriverFlags(fs *flag.FlagSet) driverFlags {
	return driverFlags{
		configPath: fs.String("config", "", "Config file path (default: ~/.config/winhost/config.yaml)"),
		driver:     fs.String("driver", "", "Native driver: x11 or glfw (default: from config)"),
		display:    fs.String("display", "", "X display, e.g. :0 (default: $DISPLAY or config)"),
	}
}

// openBackend loads config, applies flag overrides and opens the driver.
func (f driverFlags) openBackend() (*backend.Backend, *config.Config, error) {
	cfg, err := loadConfig(*f.configPath)
	if err != nil {
		return nil, nil, err
	}
	if *f.driver != "" {
		cfg.Driver = *f.driver
	}
	if *f.display != "" {
		cfg.Display = *f.display
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := newLogger(os.Stderr, cfg.SlogLevel())
	b, err := backend.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	backend.SetDefault(b)
	return b, cfg, nil
}
