package mcp

// TranslateKeyInput is the input for the translate_key tool.
type TranslateKeyInput struct {
	Code uint32 `json:"code" jsonschema:"required,Native key code (X11 keysym, e.g. 97 for a or 65293 for Return)"`
}

// TranslateKeyOutput is the output for the translate_key tool.
type TranslateKeyOutput struct {
	Code       uint32 `json:"code"`
	InputKey   string `json:"input_key"`
	RawKeycode string `json:"raw_keycode"`
	Modifier   bool   `json:"modifier"`
}

// ScreenSizeInput is the input for the screen_size tool.
type ScreenSizeInput struct{}

// ScreenSizeOutput is the output for the screen_size tool.
type ScreenSizeOutput struct {
	Driver  string  `json:"driver"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	UIScale float64 `json:"ui_scale"`
}

// ClipboardGetInput is the input for the clipboard_get tool.
type ClipboardGetInput struct{}

// ClipboardGetOutput is the output for the clipboard_get tool.
type ClipboardGetOutput struct {
	Text  string `json:"text"`
	Empty bool   `json:"empty"`
}

// ClipboardSetInput is the input for the clipboard_set tool.
type ClipboardSetInput struct {
	Text string `json:"text" jsonschema:"required,Plain text to place on the clipboard"`
}

// ClipboardSetOutput is the output for the clipboard_set tool.
type ClipboardSetOutput struct {
	Bytes int `json:"bytes"`
}
