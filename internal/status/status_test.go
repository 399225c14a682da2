package status

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pancsta/sway-deskcfg/internal/config"
	"github.com/pancsta/sway-deskcfg/internal/types"
)

type fakeRunner struct {
	mu   sync.Mutex
	out  map[string]string
	fail bool
	ran  []string
}

func (f *fakeRunner) Run(_ context.Context, cmd string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ran = append(f.ran, cmd)
	if f.fail {
		return "", errors.New("exit status 1")
	}

	return f.out[cmd], nil
}

func (f *fakeRunner) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.ran)
}

type fakeDaemon struct {
	mu      sync.Mutex
	spaces  []types.Workspace
	actions []config.Action
	called  chan config.Action
}

func (f *fakeDaemon) CurrentLayout() (string, error) { return "max", nil }

func (f *fakeDaemon) Workspaces() ([]types.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.spaces), nil
}

func (f *fakeDaemon) Action(a config.Action) (string, error) {
	f.mu.Lock()
	f.actions = append(f.actions, a)
	f.mu.Unlock()
	if f.called != nil {
		f.called <- a
	}

	return "", nil
}

func testWidget(t *testing.T, w config.Widget, deps Deps) Widget {
	t.Helper()
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}
	wid, err := newWidget("w1", w, config.WidgetDefaults{}, []string{"1", "2", "3", "4"}, deps)
	if err != nil {
		t.Fatal(err)
	}

	return wid
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Build(config.Options{})
	if err != nil {
		t.Fatal(err)
	}

	return cfg
}

func TestPollText(t *testing.T) {
	colors := config.DefaultPalette()
	w := config.DefaultWidgets(colors, time.Minute)[1]

	tests := []struct {
		name string
		out  string
		fail bool
		want string
	}{
		{"user", "alice\n", false, config.IconHeart + "  ALICE"},
		{"first line", "  bob \nsecond\n", false, config.IconHeart + "  BOB"},
		{"empty", "", false, config.IconHeart + "  "},
		{"failure", "", true, config.IconHeart + "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{out: map[string]string{config.UserCmd: tt.out}, fail: tt.fail}
			wid := testWidget(t, w, Deps{Runner: r})
			wid.(Poller).Poll(context.Background())

			blocks := wid.Blocks()
			if len(blocks) != 1 {
				t.Fatalf("expected 1 block, got %d", len(blocks))
			}
			if blocks[0].FullText != tt.want {
				t.Errorf("expected %q, got %q", tt.want, blocks[0].FullText)
			}
			if b := blocks[0].BorderBottom; b == nil || *b != 2 || *blocks[0].BorderTop != 0 {
				t.Error("expected a 2px underline")
			}
			if blocks[0].Border != colors[4].First().Hex() {
				t.Errorf("unexpected border color %s", blocks[0].Border)
			}
		})
	}
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		out   string
		level int
		muted bool
		err   bool
	}{
		{"  Front Left: Playback 65536 [100%] [on]\n  Front Right: Playback 0 [0%] [off]", 100, false, false},
		{"  Mono: Playback 32768 [50%] [off]", 50, true, false},
		{"  Mono: Playback 32768 [50%] [-20.00dB]", 50, false, false},
		{"Simple mixer control 'Master',0", 0, false, true},
	}
	for _, tt := range tests {
		level, muted, err := parseVolume(tt.out)
		if (err != nil) != tt.err {
			t.Errorf("%q: unexpected error %v", tt.out, err)
			continue
		}
		if level != tt.level || muted != tt.muted {
			t.Errorf("%q: expected %d %t, got %d %t", tt.out, tt.level, tt.muted, level, muted)
		}
	}
}

func TestVolume(t *testing.T) {
	r := &fakeRunner{out: map[string]string{
		config.VolumeGetCmd: "  Front Left: Playback 65536 [35%] [off]",
	}}
	wid := testWidget(t, config.Widget{Kind: config.WidgetVolume, Fmt: "V {}"}, Deps{Runner: r})
	ctx := context.Background()

	wid.(Poller).Poll(ctx)
	if got := wid.Blocks()[0].FullText; got != "V M" {
		t.Errorf("expected muted, got %q", got)
	}

	r.out[config.VolumeGetCmd] = "  Front Left: Playback 65536 [35%] [on]"
	wid.(Clicker).Click(ctx, ClickEvent{Button: ButtonLeft})
	if got := wid.Blocks()[0].FullText; got != "V 35%" {
		t.Errorf("expected 35%%, got %q", got)
	}

	wid.(Clicker).Click(ctx, ClickEvent{Button: ButtonScrollUp})
	wid.(Clicker).Click(ctx, ClickEvent{Button: ButtonScrollDown})
	wid.(Clicker).Click(ctx, ClickEvent{Button: ButtonRight})
	want := []string{
		config.VolumeGetCmd,
		config.VolumeMuteCmd, config.VolumeGetCmd,
		config.VolumeUpCmd, config.VolumeGetCmd,
		config.VolumeDownCmd, config.VolumeGetCmd,
	}
	if got := r.calls(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestQuickExit(t *testing.T) {
	r := &fakeRunner{}
	w := config.Widget{
		Kind:            config.WidgetQuickExit,
		DefaultText:     "off",
		CountdownFormat: "<{}>",
		CountdownStart:  3,
	}
	wid := testWidget(t, w, Deps{Runner: r})
	ctx := context.Background()
	poll := wid.(Poller).Poll
	click := func() { wid.(Clicker).Click(ctx, ClickEvent{Button: ButtonLeft}) }

	poll(ctx)
	if got := wid.Blocks()[0].FullText; got != "off" {
		t.Errorf("expected the default text, got %q", got)
	}

	// cancel
	click()
	poll(ctx)
	if got := wid.Blocks()[0].FullText; got != "<2>" {
		t.Errorf("expected the countdown, got %q", got)
	}
	click()
	for i := 0; i < 5; i++ {
		poll(ctx)
	}
	if len(r.calls()) != 0 || wid.Blocks()[0].FullText != "off" {
		t.Fatalf("expected a cancelled countdown, ran %v", r.calls())
	}

	// exit
	click()
	for i := 0; i < 3; i++ {
		poll(ctx)
	}
	if got := r.calls(); !slices.Equal(got, []string{exitCmd}) {
		t.Errorf("expected an exit, got %v", got)
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		vals []float64
		want string
	}{
		{nil, "▁▁▁"},
		{[]float64{100}, "▁▁█"},
		{[]float64{0, 50, 100, 150}, "▅██"},
	}
	for _, tt := range tests {
		if got := sparkline(tt.vals, 3); got != tt.want {
			t.Errorf("%v: expected %q, got %q", tt.vals, tt.want, got)
		}
	}
}

func TestWidgetBox(t *testing.T) {
	cpu := func(context.Context) (float64, error) { return 100, nil }
	w := config.Widget{
		Kind:       config.WidgetBox,
		Widgets:    []config.Widget{{Kind: config.WidgetCPUGraph}, {Kind: config.WidgetMemoryGraph}},
		TextClosed: "<",
		TextOpen:   ">",
	}
	wid := testWidget(t, w, Deps{CPU: cpu, Mem: cpu})
	ctx := context.Background()

	wid.(Poller).Poll(ctx)
	if blocks := wid.Blocks(); len(blocks) != 1 || blocks[0].FullText != "<" {
		t.Fatalf("expected a closed box, got %v", blocks)
	}

	// only the toggle opens
	wid.(Clicker).Click(ctx, ClickEvent{Button: ButtonLeft})
	if len(wid.Blocks()) != 1 {
		t.Fatal("expected a closed box")
	}
	wid.(Clicker).Click(ctx, ClickEvent{Button: ButtonLeft, Instance: "toggle"})
	blocks := wid.Blocks()
	if len(blocks) != 3 || blocks[2].FullText != ">" {
		t.Fatalf("expected 2 graphs and the toggle, got %v", blocks)
	}
	if !strings.HasSuffix(blocks[0].FullText, "█") {
		t.Errorf("expected a full sample, got %q", blocks[0].FullText)
	}
}

func TestGroupBox(t *testing.T) {
	d := &fakeDaemon{spaces: []types.Workspace{
		{Name: "1", Windows: 2},
		{Name: "2", Focused: true},
	}}
	cfg := testConfig(t)
	w := config.DefaultWidgets(cfg.Colors, time.Minute)[10]
	wid := testWidget(t, w, Deps{Daemon: d})
	ctx := context.Background()

	wid.(Poller).Poll(ctx)
	blocks := wid.Blocks()
	if len(blocks) != 4 {
		t.Fatalf("expected a block per group, got %d", len(blocks))
	}
	if blocks[0].Color != w.GroupBox.Active.First().Hex() ||
		blocks[2].Color != w.GroupBox.Inactive.First().Hex() {
		t.Error("expected groups with windows to be active")
	}
	if blocks[1].Border == "" || *blocks[1].BorderTop != 3 {
		t.Error("expected the focused group to be boxed")
	}
	if blocks[0].Border != "" {
		t.Error("expected only the focused group to be boxed")
	}

	wid.(Clicker).Click(ctx, ClickEvent{Name: "w1", Instance: "3", Button: ButtonLeft})
	wid.(Clicker).Click(ctx, ClickEvent{Name: "w1", Instance: "9", Button: ButtonLeft})
	if len(d.actions) != 1 || d.actions[0] != config.ToScreen("3") {
		t.Errorf("unexpected actions %v", d.actions)
	}
}

func TestClock(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 7, 14, 16, 12, 3, 0, time.UTC) }
	wid := testWidget(t, config.Widget{Kind: config.WidgetClock, Format: "%H:%M:%S %d/%m/%Y"},
		Deps{Now: now})
	if got := wid.Blocks()[0].FullText; got != "16:12:03 14/07/2024" {
		t.Errorf("unexpected time %q", got)
	}
}

func TestNew_UnknownWidget(t *testing.T) {
	_, err := newWidget("w0", config.Widget{Kind: "systray"}, config.WidgetDefaults{}, nil,
		Deps{Log: zap.NewNop().Sugar()})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected an invalid config error, got %v", err)
	}
}

func TestFrame_Spacers(t *testing.T) {
	bar, err := New(testConfig(t), Deps{Runner: &fakeRunner{}, Daemon: &fakeDaemon{}})
	if err != nil {
		t.Fatal(err)
	}
	blocks := bar.Frame()

	if blocks[0].FullText != " " || blocks[0].MinWidth != 10 {
		t.Errorf("expected a leading spacer block, got %+v", blocks[0])
	}
	if blocks[1].Name != "w1" || *blocks[1].SeparatorBlockWidth != 10 {
		t.Errorf("expected the two spacers after the user widget to merge, got %+v", blocks[1])
	}
	last := blocks[len(blocks)-1]
	if last.Name != "w16" || *last.SeparatorBlockWidth != 20 {
		t.Errorf("expected padding plus the trailing spacer, got %+v", last)
	}
	for _, b := range blocks {
		if b.FullText == "" && b.Name != "w8" && b.Name != "w9" {
			t.Errorf("unexpected empty block %+v", b)
		}
	}
}

func TestBar_Run(t *testing.T) {
	r := &fakeRunner{out: map[string]string{config.UserCmd: "alice\n"}}
	d := &fakeDaemon{called: make(chan config.Action, 1)}
	bar, err := New(testConfig(t), Deps{Runner: r, Daemon: d})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	outR, outW := io.Pipe()
	clickR, clickW := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- bar.Run(ctx, outW, clickR)
	}()

	lines := bufio.NewReader(outR)
	var head Header
	line, _ := lines.ReadString('\n')
	if err := json.Unmarshal([]byte(line), &head); err != nil || !head.ClickEvents || head.Version != 1 {
		t.Fatalf("unexpected header %q", line)
	}
	if line, _ := lines.ReadString('\n'); line != "[\n" {
		t.Fatalf("expected the array to open, got %q", line)
	}

	// frames until the poller reported
	deadline := time.Now().Add(5 * time.Second)
	for first := true; ; first = false {
		line, err := lines.ReadString('\n')
		if err != nil {
			t.Fatal(err)
		}
		if !first && !strings.HasPrefix(line, ",") {
			t.Fatalf("expected a comma before frame %q", line)
		}
		var blocks []Block
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, ",")), &blocks); err != nil {
			t.Fatal(err)
		}
		if blocks[1].FullText == config.IconHeart+"  ALICE" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("user widget never polled")
		}
	}

	// keep draining frames
	go func() { _, _ = io.Copy(io.Discard, outR) }()

	if _, err := clickW.Write([]byte("[\n{\"name\":\"w4\",\"button\":1}\n")); err != nil {
		t.Fatal(err)
	}
	select {
	case a := <-d.called:
		if a != config.Lazy(config.ActSpawnCmd) {
			t.Errorf("unexpected action %v", a)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("prompt click not routed")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("unexpected error %s", err)
	}
}
