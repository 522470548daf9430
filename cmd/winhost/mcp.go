package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/winhost/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winhost mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winhost mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

// runMCPServe keeps the pump on the main goroutine and serves MCP from a
// second one; tools reach the driver through Backend.Invoke.
func runMCPServe(args []string) int {
	fs := flag.NewFlagSet("mcp serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	df := addDriverFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	b, cfg, err := df.openBackend()
	if err != nil {
		log.Fatalf("Failed to open window backend: %v", err)
	}
	defer b.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server := mcp.NewServer(b, newLogger(os.Stderr, cfg.SlogLevel()).With("component", "mcp"))
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Run(ctx)
		cancel()
	}()

	loopErr := b.RunLoop(ctx)
	cancel()
	srvErr := <-serveErr

	if loopErr != nil && !errors.Is(loopErr, context.Canceled) {
		log.Printf("run loop stopped: %v", loopErr)
		return 1
	}
	if srvErr != nil && !errors.Is(srvErr, context.Canceled) {
		log.Printf("MCP server error: %v", srvErr)
		return 1
	}
	return 0
}
