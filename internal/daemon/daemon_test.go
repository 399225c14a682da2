package daemon

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pancsta/sway-deskcfg/internal/config"
	"github.com/pancsta/sway-deskcfg/internal/types"
)

type fakeSway struct {
	mu      sync.Mutex
	cmds    []string
	outputs []types.Node
	focused string
	failOn  string
}

func (f *fakeSway) Command(cmd string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cmds = append(f.cmds, cmd)
	if f.failOn != "" && strings.HasPrefix(cmd, f.failOn) {
		return errors.New("rejected")
	}

	return nil
}

func (f *fakeSway) Tree() ([]types.Node, error) { return f.outputs, nil }

func (f *fakeSway) FocusedWorkspace() (string, string, error) {
	return f.focused, "DP-1", nil
}

func (f *fakeSway) Events(context.Context) (<-chan WindowEvent, <-chan error, error) {
	return make(chan WindowEvent), make(chan error), nil
}

func (f *fakeSway) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.cmds)
}

func (f *fakeSway) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cmds = nil
}

func newFakeSway() *fakeSway {
	return &fakeSway{
		focused: "1",
		outputs: []types.Node{
			{Name: "__i3", Nodes: []types.Node{{Name: scratchpad}}},
			{Name: "DP-1", Nodes: []types.Node{
				{ID: 10, Name: "1", Layout: "splith", Nodes: []types.Node{
					{ID: 11, Layout: "none"},
				}},
				{ID: 20, Name: "2", Layout: "splith", Nodes: []types.Node{
					{ID: 21, Layout: "none"},
					{ID: 22, Layout: "none"},
				}},
			}},
		},
	}
}

func newTestDaemon(t *testing.T) (*Daemon, *fakeSway) {
	t.Helper()
	fs := newFakeSway()
	d := &Daemon{
		Loader: &config.Loader{
			Path:     filepath.Join(t.TempDir(), "config.yaml"),
			LookPath: func(string) (string, error) { return "", errors.New("none") },
			Getenv:   func(string) string { return "" },
		},
		Log:  zap.NewNop().Sugar(),
		Sway: fs,
	}
	d.Loader.OnLoaded(d.onLoaded)
	if _, err := d.Loader.Load(); err != nil {
		t.Fatal(err)
	}

	return d, fs
}

func TestLoad_AppliesCommands(t *testing.T) {
	_, fs := newTestDaemon(t)
	cmds := fs.sent()

	if !slices.Contains(cmds, "bindsym Mod4+Tab exec sway-deskcfg action \"next_layout\"") {
		t.Error("expected the next_layout binding")
	}
	if !slices.Contains(cmds, `for_window [class="^maketag$"] floating enable`) {
		t.Error("expected the maketag rule")
	}
}

func TestReload_KeepsPreviousOnError(t *testing.T) {
	d, fs := newTestDaemon(t)
	prev := d.Config()

	if err := os.WriteFile(d.Loader.Path, []byte("user_interval: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs.reset()
	if err := d.Reload(); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected an invalid config error, got %v", err)
	}
	if d.Config() != prev {
		t.Error("a failed reload must keep the previous snapshot")
	}
	if len(fs.sent()) != 0 {
		t.Error("a failed reload must not touch sway")
	}

	if err := os.WriteFile(d.Loader.Path, []byte("groups: [a, b]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := d.Reload(); err != nil {
		t.Fatal(err)
	}
	if d.Config() == prev {
		t.Error("expected a new snapshot")
	}
	cmds := fs.sent()
	if !slices.Contains(cmds, "unbindsym Mod4+3") {
		t.Error("expected dropped group bindings to be unbound")
	}
	if slices.Contains(cmds, "unbindsym Mod4+Return") {
		t.Error("kept bindings must not be unbound")
	}
}

func TestApply_ContinuesAfterRejects(t *testing.T) {
	d, fs := newTestDaemon(t)
	fs.reset()
	fs.failOn = "for_window"

	err := d.apply(nil, d.Config())
	if err == nil {
		t.Fatal("expected the rejected commands to be reported")
	}
	if !slices.Contains(fs.sent(), "bindsym Mod4+w kill") {
		t.Error("bindings after a rejected command must still be applied")
	}
}

func TestHandleEvent_Floats(t *testing.T) {
	d, fs := newTestDaemon(t)

	tests := []struct {
		win  config.Window
		want bool
	}{
		{config.Window{ID: 5, Class: "ssh-askpass"}, true},
		{config.Window{ID: 6, AppID: "maketag"}, true},
		{config.Window{ID: 7, Title: "pinentry"}, true},
		{config.Window{ID: 8, AppID: "foot", Title: "~"}, false},
		{config.Window{ID: 9, Instance: "confirmreset", Class: "Gitk"}, true},
		{config.Window{ID: 10, Instance: "ssh-askpass", Class: "Ssh-askpass"}, true},
	}
	for _, tt := range tests {
		fs.reset()
		d.HandleEvent(WindowEvent{Change: "new", Window: tt.win})
		got := slices.ContainsFunc(fs.sent(), func(cmd string) bool {
			return strings.HasSuffix(cmd, "floating enable")
		})
		if got != tt.want {
			t.Errorf("#%d: expected float %t, got %t", tt.win.ID, tt.want, got)
		}
	}

	// focus events don't float
	fs.reset()
	d.HandleEvent(WindowEvent{Change: "focus", Window: config.Window{ID: 5, Class: "ssh-askpass"}})
	if len(fs.sent()) != 0 {
		t.Errorf("unexpected commands %v", fs.sent())
	}
}

func TestListen_StopsOnEventErrors(t *testing.T) {
	d, _ := newTestDaemon(t)
	events := make(chan WindowEvent)
	evErrs := make(chan error)
	done := make(chan error, 1)
	go func() {
		done <- d.listen(context.Background(), events, evErrs, nil)
	}()

	boom := errors.New("broken pipe")
	for i := 0; i < maxEventErrors-1; i++ {
		evErrs <- boom
	}
	// an event in between resets the count
	events <- WindowEvent{Change: "focus", Window: config.Window{ID: 1}}
	for i := 0; i < maxEventErrors-1; i++ {
		evErrs <- boom
	}
	select {
	case err := <-done:
		t.Fatalf("returned early: %v", err)
	default:
	}

	evErrs <- boom
	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Errorf("expected %v, got %v", boom, err)
		}
	case <-time.After(time.Second):
		t.Fatal("listen didn't return")
	}
}

func TestNextLayout_PerWorkspace(t *testing.T) {
	d, fs := newTestDaemon(t)
	fs.reset()

	l, err := d.NextLayout()
	if err != nil {
		t.Fatal(err)
	}
	if l.Kind != config.LayoutMax {
		t.Errorf("expected max, got %s", l.Kind)
	}
	if got := fs.sent(); got[0] != "layout tabbed" {
		t.Errorf("unexpected commands %v", got)
	}

	fs.focused = "2"
	cur, err := d.CurrentLayout()
	if err != nil {
		t.Fatal(err)
	}
	if cur.Kind != config.LayoutMonadTall {
		t.Errorf("workspaces must keep their own cursor, got %s", cur.Kind)
	}

	fs.focused = "1"
	for i := 0; i < 3; i++ {
		if _, err := d.NextLayout(); err != nil {
			t.Fatal(err)
		}
	}
	cur, _ = d.CurrentLayout()
	if cur.Kind != config.LayoutMonadTall {
		t.Errorf("expected the cycle to wrap, got %s", cur.Kind)
	}
}

func TestDo(t *testing.T) {
	d, fs := newTestDaemon(t)

	fs.reset()
	if _, err := d.Do(config.ToScreen("2")); err != nil {
		t.Fatal(err)
	}
	if got := fs.sent(); len(got) != 1 || got[0] != "workspace number 2" {
		t.Errorf("unexpected commands %v", got)
	}

	fs.reset()
	if _, err := d.Do(config.Lazy(config.ActSpawnCmd)); err != nil {
		t.Fatal(err)
	}
	if got := fs.sent(); got[0] != "exec sway-deskcfg prompt" {
		t.Errorf("unexpected commands %v", got)
	}

	// a single window has nothing to normalize
	fs.reset()
	if _, err := d.Do(config.Lazy(config.ActNormalize)); err != nil {
		t.Fatal(err)
	}
	if got := fs.sent(); len(got) != 0 {
		t.Errorf("unexpected commands %v", got)
	}

	fs.focused = "2"
	if _, err := d.Do(config.Lazy(config.ActNormalize)); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"[con_id=21] resize set width 50 ppt",
		"[con_id=22] resize set width 50 ppt",
	}
	if got := fs.sent(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	_, err := d.Do(config.Action{Kind: "nope"})
	if !errors.Is(err, config.ErrUnknownAction) {
		t.Errorf("expected an unknown action error, got %v", err)
	}
	_, err = d.Do(config.UsrCmd("nope"))
	if !errors.Is(err, config.ErrUnknownAction) {
		t.Errorf("expected an unknown action error, got %v", err)
	}
}

func TestFocusedWorkspace(t *testing.T) {
	d, fs := newTestDaemon(t)

	spaces, err := d.Workspaces()
	if err != nil {
		t.Fatal(err)
	}
	if len(spaces) != 2 {
		t.Fatalf("expected the scratchpad to be skipped, got %v", spaces)
	}
	if !spaces[0].Focused || spaces[1].Windows != 2 {
		t.Errorf("unexpected workspaces %+v", spaces)
	}

	fs.focused = "9"
	if _, err := d.FocusedWorkspace(); !errors.Is(err, ErrNoFocused) {
		t.Errorf("expected ErrNoFocused, got %v", err)
	}
}

func TestShouldOpen(t *testing.T) {
	d, _ := newTestDaemon(t)
	if !d.ShouldOpen(os.Getpid()) {
		t.Fatal("expected the first caller to open")
	}
	if d.ShouldOpen(os.Getpid()) {
		t.Error("expected a live holder to block")
	}
}

func TestRPC(t *testing.T) {
	d, fs := newTestDaemon(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go d.serve(ctx, l)

	c := &Client{Addr: l.Addr().String()}
	name, err := c.CurrentLayout()
	if err != nil {
		t.Fatal(err)
	}
	if name != "monadtall" {
		t.Errorf("unexpected layout %s", name)
	}

	spaces, err := c.Workspaces()
	if err != nil || len(spaces) != 2 {
		t.Errorf("unexpected workspaces %v %v", spaces, err)
	}

	fs.reset()
	name, err = c.Action(config.Lazy(config.ActNextLayout))
	if err != nil {
		t.Fatal(err)
	}
	if name != "max" {
		t.Errorf("unexpected layout %s", name)
	}

	// server errors keep the client usable
	if _, err := c.Action(config.Action{Kind: "nope"}); err == nil {
		t.Error("expected an error")
	}
	var keys string
	if err := c.Call("Daemon.RemoteKeys", RPCArgs{}, &keys); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(keys, "Launch terminal") {
		t.Errorf("unexpected keys %q", keys)
	}
}

func TestParseFlags(t *testing.T) {
	got := parseFlags("23 -a --b=4 foo=2")
	want := map[string]string{"23": "", "-a": "", "--b": "4", "foo": "2"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %q, got %q", k, v, got[k])
		}
	}
	if len(parseFlags("")) != 0 {
		t.Error("expected no flags")
	}
}
