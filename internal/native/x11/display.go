package x11

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// displayProbe finds the X server to talk to. Every system access goes
// through a field so tests can run without a session.
type displayProbe struct {
	getenv    func(string) string
	command   func(name string, args ...string) (string, error)
	readFile  func(string) ([]byte, error)
	readDir   func(string) ([]os.DirEntry, error)
	stat      func(string) (os.FileInfo, error)
	uid       int
	socketDir string
}

func systemProbe() displayProbe {
	return displayProbe{
		getenv: os.Getenv,
		command: func(name string, args ...string) (string, error) {
			out, err := exec.Command(name, args...).Output()
			return string(out), err
		},
		readFile:  os.ReadFile,
		readDir:   os.ReadDir,
		stat:      os.Stat,
		uid:       os.Getuid(),
		socketDir: "/tmp/.X11-unix",
	}
}

var errNoDisplay = errors.New(`no X display found; set display in config (e.g. display: ":1") or export DISPLAY`)

// resolve picks the display and authority file to connect with. The
// process environment wins, then the configured values, then the logind
// session of the current user, then the highest-numbered X socket. A
// missing authority falls back to ~/.Xauthority when it exists.
func (p displayProbe) resolve(display, xauthority string) (string, string, error) {
	display = firstNonEmpty(p.getenv("DISPLAY"), display)
	xauthority = firstNonEmpty(p.getenv("XAUTHORITY"), xauthority)

	if display == "" || xauthority == "" {
		sessDisplay, sessXAuth := p.sessionEnv()
		display = firstNonEmpty(display, sessDisplay)
		xauthority = firstNonEmpty(xauthority, sessXAuth)
	}
	if display == "" {
		display = p.lastSocket()
	}
	if display == "" {
		return "", "", errNoDisplay
	}

	if xauthority == "" {
		home := strings.TrimSpace(p.getenv("HOME"))
		if home == "" {
			home, _ = os.UserHomeDir()
		}
		if home != "" {
			candidate := filepath.Join(home, ".Xauthority")
			if _, err := p.stat(candidate); err == nil {
				xauthority = candidate
			}
		}
	}
	return display, xauthority, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// sessionEnv asks logind for the user's graphical session and reads DISPLAY
// and XAUTHORITY from the session leader's environment.
func (p displayProbe) sessionEnv() (display, xauthority string) {
	out, err := p.command("loginctl", "list-sessions", "--no-legend")
	if err != nil {
		return "", ""
	}
	for _, id := range sessionsForUID(out, strconv.Itoa(p.uid)) {
		display = p.sessionProp(id, "Display")
		if display == "" || strings.EqualFold(display, "n/a") {
			continue
		}
		leader := p.sessionProp(id, "Leader")
		if leader == "" || leader == "0" {
			return display, ""
		}
		env := p.procEnv(leader)
		return firstNonEmpty(env["DISPLAY"], display), strings.TrimSpace(env["XAUTHORITY"])
	}
	return "", ""
}

func (p displayProbe) sessionProp(id, prop string) string {
	out, err := p.command("loginctl", "show-session", id, "-p", prop, "--value")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// procEnv returns the environment of pid, or nil when unreadable.
func (p displayProbe) procEnv(pid string) map[string]string {
	data, err := p.readFile(filepath.Join("/proc", pid, "environ"))
	if err != nil {
		return nil
	}
	env := map[string]string{}
	for _, kv := range strings.Split(string(data), "\x00") {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

// sessionsForUID extracts session ids owned by uid from
// "loginctl list-sessions --no-legend" output.
func sessionsForUID(listing, uid string) []string {
	var ids []string
	for _, line := range strings.Split(listing, "\n") {
		if f := strings.Fields(line); len(f) >= 2 && f[1] == uid {
			ids = append(ids, f[0])
		}
	}
	return ids
}

// lastSocket returns ":N" for the highest-numbered XN socket, or "".
func (p displayProbe) lastSocket() string {
	entries, err := p.readDir(p.socketDir)
	if err != nil {
		return ""
	}
	var nums []int
	for _, e := range entries {
		num, ok := strings.CutPrefix(e.Name(), "X")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(num); err == nil {
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return ""
	}
	return fmt.Sprintf(":%d", slices.Max(nums))
}
