// Package mcp exposes window-host diagnostics as MCP tools over stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winhost/internal/native"
)

const (
	ServerName    = "winhost"
	ServerVersion = "0.1.0"
)

// Display is the part of the backend the tools need. Invoke runs a function
// on the pump goroutine; driver calls go through it.
type Display interface {
	Driver() native.Driver
	UIScale() float64
	GetScreenSize() native.Size
	ClipboardText() string
	SetClipboardText(text string)
	Invoke(ctx context.Context, fn func()) error
}

// Server is the MCP server for winhost diagnostics.
type Server struct {
	mcpServer *mcpsdk.Server
	display   Display
	logger    *slog.Logger
}

// NewServer creates a server backed by display.
func NewServer(display Display, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		display: display,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run serves MCP on stdio, blocking until the client disconnects or ctx
// ends.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "translate_key",
		Description: "Translate a native key code (X11 keysym) into the semantic input key and the layout-independent raw keycode the window host delivers. Unknown codes translate to None.",
	}, s.handleTranslateKey)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "screen_size",
		Description: "Report the primary screen size in logical units together with the UI scale and the active native driver.",
	}, s.handleScreenSize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clipboard_get",
		Description: "Read the plain-text clipboard. An empty or non-text clipboard returns an empty string.",
	}, s.handleClipboardGet)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "clipboard_set",
		Description: "Replace the clipboard contents with plain text.",
	}, s.handleClipboardSet)
}
