package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// FileName is the overlay file, relative to the XDG config home.
const FileName = "sway-deskcfg/config.yaml"

// File is the optional user overlay. Unset fields keep the built-in values.
type File struct {
	Mod          string   `yaml:"mod"`
	Terminal     string   `yaml:"terminal"`
	Groups       []string `yaml:"groups"`
	Wallpaper    string   `yaml:"wallpaper"`
	UserInterval string   `yaml:"user_interval"`

	FollowMouseFocus        *bool   `yaml:"follow_mouse_focus"`
	BringFrontClick         *bool   `yaml:"bring_front_click"`
	FloatsKeptAbove         *bool   `yaml:"floats_kept_above"`
	CursorWarp              *bool   `yaml:"cursor_warp"`
	AutoFullscreen          *bool   `yaml:"auto_fullscreen"`
	FocusOnWindowActivation *string `yaml:"focus_on_window_activation"`
	AutoMinimize            *bool   `yaml:"auto_minimize"`
}

// DefaultPath is where the overlay is looked up, whether it exists or not.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, FileName)
}

// ReadFile parses an overlay. A missing file is an empty overlay.
func ReadFile(path string) (*File, error) {
	f := &File{}
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
	}

	return f, nil
}

// Options converts the overlay into build options.
func (f *File) Options() (Options, error) {
	opts := Options{
		Mod:        Modifier(f.Mod),
		Terminal:   f.Terminal,
		GroupNames: f.Groups,
		Wallpaper:  f.Wallpaper,
	}
	if f.UserInterval != "" {
		d, err := time.ParseDuration(f.UserInterval)
		if err != nil {
			return Options{}, fmt.Errorf("%w: user_interval: %w", ErrInvalidConfig, err)
		}
		opts.UserInterval = d
	}

	s := DefaultSettings()
	setBool(&s.FollowMouseFocus, f.FollowMouseFocus)
	setBool(&s.BringFrontClick, f.BringFrontClick)
	setBool(&s.FloatsKeptAbove, f.FloatsKeptAbove)
	setBool(&s.CursorWarp, f.CursorWarp)
	setBool(&s.AutoFullscreen, f.AutoFullscreen)
	setBool(&s.AutoMinimize, f.AutoMinimize)
	if f.FocusOnWindowActivation != nil {
		s.FocusOnWindowActivation = *f.FocusOnWindowActivation
	}
	opts.Settings = &s

	return opts, nil
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Hook runs after every successful load.
type Hook func(cfg *Config)

// Loader reads the overlay, builds a snapshot and runs the loaded hooks.
type Loader struct {
	Path string
	// LookPath resolves terminal candidates, exec.LookPath by default.
	LookPath func(file string) (string, error)
	Getenv   func(key string) string

	mu    sync.Mutex
	hooks []Hook
}

// OnLoaded registers a lifecycle hook.
func (l *Loader) OnLoaded(fn Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks = append(l.hooks, fn)
}

// Load builds a fresh snapshot. On error no hook runs, so callers can keep
// their previous snapshot.
func (l *Loader) Load() (*Config, error) {
	f, err := ReadFile(l.Path)
	if err != nil {
		return nil, err
	}
	opts, err := f.Options()
	if err != nil {
		return nil, err
	}
	if opts.Terminal == "" {
		opts.Terminal = GuessTerminal(l.getenv(), l.lookPath())
	}

	cfg, err := Build(opts)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	hooks := append([]Hook(nil), l.hooks...)
	l.mu.Unlock()
	for _, h := range hooks {
		h(cfg)
	}

	return cfg, nil
}

func (l *Loader) lookPath() func(string) (string, error) {
	if l.LookPath != nil {
		return l.LookPath
	}

	return exec.LookPath
}

func (l *Loader) getenv() func(string) string {
	if l.Getenv != nil {
		return l.Getenv
	}

	return os.Getenv
}

var terminals = []string{
	"foot", "roxterm", "sakura", "hyper", "alacritty", "terminator", "termite",
	"gnome-terminal", "konsole", "xfce4-terminal", "lxterminal",
	"mate-terminal", "kitty", "yakuake", "tilix", "guake", "urxvt",
	"rxvt-unicode", "xterm", "st",
}

// GuessTerminal returns $TERMINAL or the first known terminal found on PATH.
// An empty string means nothing was found.
func GuessTerminal(getenv func(string) string, lookPath func(string) (string, error)) string {
	if t := getenv("TERMINAL"); t != "" {
		if _, err := lookPath(t); err == nil {
			return t
		}
	}
	for _, t := range terminals {
		if _, err := lookPath(t); err == nil {
			return t
		}
	}

	return ""
}
