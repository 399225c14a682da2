package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func noTerminals(string) (string, error) {
	return "", errors.New("not found")
}

func TestLoader_MissingFile(t *testing.T) {
	l := &Loader{
		Path:     filepath.Join(t.TempDir(), "config.yaml"),
		LookPath: noTerminals,
		Getenv:   func(string) string { return "" },
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mod != ModSuper {
		t.Errorf("expected mod4, got %s", cfg.Mod)
	}
	if len(cfg.Groups) != 4 {
		t.Errorf("expected 4 groups, got %d", len(cfg.Groups))
	}
	if cfg.WMName != "LG3D" {
		t.Errorf("unexpected wmname %q", cfg.WMName)
	}
}

func TestLoader_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
mod: mod1
terminal: kitty
groups: [web, code]
user_interval: 1m
cursor_warp: true
focus_on_window_activation: focus
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	l := &Loader{Path: path, LookPath: noTerminals}
	cfg, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mod != ModAlt || cfg.Terminal != "kitty" {
		t.Errorf("unexpected mod %s / terminal %s", cfg.Mod, cfg.Terminal)
	}
	if got := cfg.GroupNames(); len(got) != 2 || got[0] != "web" {
		t.Errorf("unexpected groups %v", got)
	}
	if !cfg.CursorWarp || cfg.FocusOnWindowActivation != "focus" {
		t.Errorf("settings not applied: %+v", cfg.Settings)
	}
	if !cfg.FollowMouseFocus {
		t.Error("unset settings must keep their defaults")
	}
	if cfg.Bar().Widgets[1].Interval != time.Minute {
		t.Errorf("unexpected interval %s", cfg.Bar().Widgets[1].Interval)
	}
	if _, ok := cfg.Keymap().Lookup([]Modifier{ModAlt}, "web"); !ok {
		t.Error("expected a group binding for web")
	}
}

func TestLoader_BadFileKeepsHooksQuiet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("user_interval: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	calls := 0
	l := &Loader{Path: path, LookPath: noTerminals}
	l.OnLoaded(func(*Config) { calls++ })

	if _, err := l.Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected an invalid config error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("hooks ran %d times on a failed load", calls)
	}

	if err := os.WriteFile(path, []byte("user_interval: 5s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Load(); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected 1 hook call, got %d", calls)
	}
}

func TestGuessTerminal(t *testing.T) {
	have := map[string]bool{"alacritty": true, "xterm": true}
	lookPath := func(f string) (string, error) {
		if have[f] {
			return "/usr/bin/" + f, nil
		}
		return "", errors.New("not found")
	}

	got := GuessTerminal(func(string) string { return "" }, lookPath)
	if got != "alacritty" {
		t.Errorf("expected alacritty, got %q", got)
	}

	got = GuessTerminal(func(string) string { return "xterm" }, lookPath)
	if got != "xterm" {
		t.Errorf("expected $TERMINAL to win, got %q", got)
	}

	got = GuessTerminal(func(string) string { return "" }, noTerminals)
	if got != "" {
		t.Errorf("expected no terminal, got %q", got)
	}
}

func TestColorHex(t *testing.T) {
	tests := []struct {
		in   Color
		want string
	}{
		{"#000000.0", "#00000000"},
		{"#ffffff.5", "#ffffff80"},
		{"#3900f5", "#3900f5"},
		{"#00000000", "#00000000"},
	}
	for _, tt := range tests {
		if got := tt.in.Hex(); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.in, tt.want, got)
		}
	}
	if got := Color("#000000.0").RGB(); got != "#000000" {
		t.Errorf("unexpected rgb %s", got)
	}
}

func TestLayoutCycle(t *testing.T) {
	layouts := DefaultLayouts(Theme{BorderWidth: 1})
	var c LayoutCycle

	l, i := c.Current(layouts)
	if i != 0 || l.Kind != LayoutMonadTall {
		t.Errorf("unexpected start %s at %d", l.Kind, i)
	}
	for n := 1; n <= len(layouts); n++ {
		_, i = c.Next(layouts)
	}
	if i != 0 {
		t.Errorf("expected the cursor to wrap to 0, got %d", i)
	}
	l, i = c.Prev(layouts)
	if i != 3 || l.Kind != LayoutMonadThreeCol {
		t.Errorf("unexpected prev %s at %d", l.Kind, i)
	}
	if _, i := c.Next(nil); i != -1 {
		t.Errorf("expected -1 for no layouts, got %d", i)
	}
}

func TestLayout_SingleWindow(t *testing.T) {
	theme := Theme{BorderWidth: 1}
	mt := MonadTall(theme, 5, 0, 0)
	if mt.EffectiveMargin(1) != 0 || mt.EffectiveBorder(1) != 0 {
		t.Error("single window must use the single margin and border")
	}
	if mt.EffectiveMargin(2) != 5 || mt.EffectiveBorder(2) != 1 {
		t.Error("several windows must use the regular margin and border")
	}
	cols := Columns(theme, 5, 0)
	if cols.EffectiveMargin(1) != 0 || cols.EffectiveBorder(1) != 1 {
		t.Error("columns only override the margin on a single window")
	}
}
