package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/1broseidon/winhost/internal/input"
)

func runScreen(args []string) int {
	fs := flag.NewFlagSet("screen", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	df := addDriverFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	b, _, err := df.openBackend()
	if err != nil {
		log.Fatalf("Failed to open window backend: %v", err)
	}
	defer b.Close()

	size := b.GetScreenSize()
	fmt.Printf("%s (scale %.2f, driver %s)\n", size, b.UIScale(), b.Driver().Name())
	return 0
}

func runKeys(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: winhost keys [code...]")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Codes are X11 keysyms in decimal or 0x hex. Without codes every")
		fmt.Fprintln(os.Stdout, "translatable keysym is listed.")
		return 0
	}

	var codes []input.NativeCode
	for _, arg := range args {
		code, err := parseKeyCode(arg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		codes = knownKeyCodes()
	}
	printKeyTable(os.Stdout, codes)
	return 0
}

func parseKeyCode(s string) (input.NativeCode, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid key code %q: %w", s, err)
	}
	return input.NativeCode(v), nil
}

// knownKeyCodes lists the keysyms in the printable and function-key blocks
// that translate to a key.
func knownKeyCodes() []input.NativeCode {
	var out []input.NativeCode
	add := func(lo, hi input.NativeCode) {
		for c := lo; c <= hi; c++ {
			if input.MapToInputKey(c) != input.InputKeyNone {
				out = append(out, c)
			}
		}
	}
	add(0x20, 0x7e)
	add(0xfe00, 0xffff)
	return out
}

func printKeyTable(w io.Writer, codes []input.NativeCode) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tINPUT KEY\tRAW KEYCODE")
	for _, c := range codes {
		fmt.Fprintf(tw, "%#06x\t%s\t%s\n", uint32(c), input.MapToInputKey(c), input.MapToRawKeycode(c))
	}
	tw.Flush()
}

func runClipboard(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  winhost clipboard get [--driver NAME]")
		fmt.Fprintln(os.Stderr, "  winhost clipboard set [--driver NAME] TEXT")
		return 2
	}

	fs := flag.NewFlagSet("clipboard "+args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	df := addDriverFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	switch args[0] {
	case "get":
		b, _, err := df.openBackend()
		if err != nil {
			log.Fatalf("Failed to open window backend: %v", err)
		}
		defer b.Close()
		fmt.Print(b.ClipboardText())
		return 0

	case "set":
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "clipboard set requires TEXT")
			return 2
		}
		b, _, err := df.openBackend()
		if err != nil {
			log.Fatalf("Failed to open window backend: %v", err)
		}
		defer b.Close()
		b.SetClipboardText(strings.Join(fs.Args(), " "))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown clipboard command: %s\n", args[0])
		return 2
	}
}
