package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winhost/internal/input"
)

func (s *Server) handleTranslateKey(_ context.Context, _ *mcpsdk.CallToolRequest, args TranslateKeyInput) (*mcpsdk.CallToolResult, TranslateKeyOutput, error) {
	code := input.NativeCode(args.Code)
	key := input.MapToInputKey(code)
	out := TranslateKeyOutput{
		Code:       args.Code,
		InputKey:   key.String(),
		RawKeycode: input.MapToRawKeycode(code).String(),
		Modifier:   input.ModifierForKey(key) != 0,
	}
	s.logger.Debug("translate_key", "code", args.Code, "input_key", out.InputKey)
	return nil, out, nil
}

func (s *Server) handleScreenSize(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ScreenSizeInput) (*mcpsdk.CallToolResult, ScreenSizeOutput, error) {
	var out ScreenSizeOutput
	err := s.display.Invoke(ctx, func() {
		size := s.display.GetScreenSize()
		out = ScreenSizeOutput{
			Driver:  s.display.Driver().Name(),
			Width:   size.Width,
			Height:  size.Height,
			UIScale: s.display.UIScale(),
		}
	})
	if err != nil {
		return nil, ScreenSizeOutput{}, fmt.Errorf("screen_size: %w", err)
	}
	return nil, out, nil
}

func (s *Server) handleClipboardGet(ctx context.Context, _ *mcpsdk.CallToolRequest, _ ClipboardGetInput) (*mcpsdk.CallToolResult, ClipboardGetOutput, error) {
	var text string
	if err := s.display.Invoke(ctx, func() { text = s.display.ClipboardText() }); err != nil {
		return nil, ClipboardGetOutput{}, fmt.Errorf("clipboard_get: %w", err)
	}
	return nil, ClipboardGetOutput{Text: text, Empty: text == ""}, nil
}

func (s *Server) handleClipboardSet(ctx context.Context, _ *mcpsdk.CallToolRequest, args ClipboardSetInput) (*mcpsdk.CallToolResult, ClipboardSetOutput, error) {
	if err := s.display.Invoke(ctx, func() { s.display.SetClipboardText(args.Text) }); err != nil {
		return nil, ClipboardSetOutput{}, fmt.Errorf("clipboard_set: %w", err)
	}
	s.logger.Debug("clipboard_set", "bytes", len(args.Text))
	return nil, ClipboardSetOutput{Bytes: len(args.Text)}, nil
}
