package status

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/pancsta/sway-deskcfg/internal/config"
	"github.com/pancsta/sway-deskcfg/internal/types"
)

// Widget renders to zero or more blocks. Blocks is called from the render
// loop and must not block.
type Widget interface {
	Blocks() []Block
}

// Poller refreshes its state on its own goroutine. A zero Interval polls once.
type Poller interface {
	Interval() time.Duration
	Poll(ctx context.Context)
}

// Clicker handles click events addressed to its blocks.
type Clicker interface {
	Click(ctx context.Context, ev ClickEvent)
}

// Daemon is the part of the daemon RPC client the bar needs.
type Daemon interface {
	CurrentLayout() (string, error)
	Workspaces() ([]types.Workspace, error)
	Action(a config.Action) (string, error)
}

// Format puts payload into a "{}" template. An empty template shows the bare
// payload.
func Format(tpl, payload string) string {
	if tpl == "" {
		return payload
	}

	return strings.ReplaceAll(tpl, "{}", payload)
}

// base carries the styling shared by all the widgets.
type base struct {
	name     string
	cfg      config.Widget
	defaults config.WidgetDefaults
}

func (b base) block(text string) Block {
	blk := Block{
		FullText:            text,
		Name:                b.name,
		Separator:           lo.ToPtr(false),
		SeparatorBlockWidth: lo.ToPtr(b.cfg.PaddingOr(b.defaults.Padding)),
	}
	if c := b.cfg.Foreground.First(); c != "" {
		blk.Color = c.Hex()
	}
	if c := b.defaults.Background.First(); c != "" {
		blk.Background = c.Hex()
	}

	// swaybar draws a single border per block, the last decoration wins
	for _, d := range b.cfg.Decorations {
		blk.Border = d.Colour.First().Hex()
		blk.BorderTop = lo.ToPtr(d.BorderWidth[0])
		blk.BorderRight = lo.ToPtr(d.BorderWidth[1])
		blk.BorderBottom = lo.ToPtr(d.BorderWidth[2])
		blk.BorderLeft = lo.ToPtr(d.BorderWidth[3])
	}

	return blk
}

// SPACER

// spacer has no blocks of its own, the bar turns it into padding.
type spacer struct {
	length int
}

func (s *spacer) Blocks() []Block { return nil }

// POLL TEXT

type pollText struct {
	base
	runner Runner
	log    *zap.SugaredLogger

	mu      sync.Mutex
	payload string
}

func (w *pollText) Interval() time.Duration { return w.cfg.Interval }

func (w *pollText) Poll(ctx context.Context) {
	out, err := w.runner.Run(ctx, w.cfg.Cmd)
	if err != nil {
		w.log.Warnf("poll %s: %s", w.name, err)
		out = ""
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.payload = payload(out)
}

func (w *pollText) Blocks() []Block {
	w.mu.Lock()
	defer w.mu.Unlock()

	return []Block{w.block(Format(w.cfg.Fmt, w.payload))}
}

// payload is the trimmed and uppercased first line of out.
func payload(out string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")

	return strings.ToUpper(strings.TrimSpace(line))
}

// PROMPT

// prompt shows its label and opens the run prompt when clicked.
type prompt struct {
	base
	daemon Daemon
	log    *zap.SugaredLogger
}

func (w *prompt) Blocks() []Block {
	return []Block{w.block(w.cfg.Prompt)}
}

func (w *prompt) Click(_ context.Context, ev ClickEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	if _, err := w.daemon.Action(config.Lazy(config.ActSpawnCmd)); err != nil {
		w.log.Errorf("spawncmd: %s", err)
	}
}

// CLOCK

type clock struct {
	base
	format *strftime.Strftime
	now    func() time.Time
}

func newClock(b base, now func() time.Time) (*clock, error) {
	f, err := strftime.New(b.cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("clock format %q: %w", b.cfg.Format, err)
	}

	return &clock{base: b, format: f, now: now}, nil
}

func (w *clock) Blocks() []Block {
	return []Block{w.block(w.format.FormatString(w.now()))}
}

// CURRENT LAYOUT

// layoutIcons are the symbols of the layout icon widget.
var layoutIcons = map[string]string{
	string(config.LayoutMonadTall):     "[]=",
	string(config.LayoutMax):           "[M]",
	string(config.LayoutColumns):       "|||",
	string(config.LayoutMonadThreeCol): "|[]|",
}

type currentLayout struct {
	base
	daemon Daemon
	log    *zap.SugaredLogger
	icon   bool

	mu   sync.Mutex
	name string
}

func (w *currentLayout) Interval() time.Duration { return time.Second }

func (w *currentLayout) Poll(context.Context) {
	name, err := w.daemon.CurrentLayout()
	if err != nil {
		w.log.Debugf("current layout: %s", err)
		name = ""
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.name = name
}

func (w *currentLayout) Blocks() []Block {
	w.mu.Lock()
	defer w.mu.Unlock()

	text := w.name
	if w.icon {
		text = layoutIcons[w.name]
	}

	return []Block{w.block(text)}
}

// next layout on click, like the host's layout widget
func (w *currentLayout) Click(_ context.Context, ev ClickEvent) {
	if ev.Button != ButtonLeft {
		return
	}
	name, err := w.daemon.Action(config.Lazy(config.ActNextLayout))
	if err != nil {
		w.log.Errorf("next layout: %s", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.name = name
}

// GROUP BOX

type groupBox struct {
	base
	groups []string
	daemon Daemon
	log    *zap.SugaredLogger

	mu     sync.Mutex
	spaces []types.Workspace
}

func (w *groupBox) Interval() time.Duration { return time.Second }

func (w *groupBox) Poll(context.Context) {
	spaces, err := w.daemon.Workspaces()
	if err != nil {
		w.log.Debugf("workspaces: %s", err)
		spaces = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.spaces = spaces
}

func (w *groupBox) Blocks() []Block {
	w.mu.Lock()
	defer w.mu.Unlock()

	style := w.cfg.GroupBox
	if style == nil {
		style = &config.GroupBoxStyle{}
	}
	pad := strings.Repeat(" ", max(1, style.PaddingX/2))

	blocks := make([]Block, 0, len(w.groups))
	for _, name := range w.groups {
		space, _ := lo.Find(w.spaces, func(s types.Workspace) bool {
			return s.Name == name
		})

		blk := w.block(pad + name + pad)
		blk.Instance = name
		blk.SeparatorBlockWidth = lo.ToPtr(style.MarginX)
		if c := style.Inactive.First(); c != "" {
			blk.Color = c.Hex()
		}
		if space.Windows > 0 {
			if c := style.Active.First(); c != "" {
				blk.Color = c.Hex()
			}
		}

		if space.Focused {
			switch style.HighlightMethod {
			case "block":
				blk.Background = style.ThisCurrentScreenBorder.First().Hex()
			case "text":
				blk.Color = style.ThisCurrentScreenBorder.First().Hex()
			case "line":
				blk.Border = style.HighlightColor.First().Hex()
				blk.BorderTop, blk.BorderRight, blk.BorderLeft = lo.ToPtr(0), lo.ToPtr(0), lo.ToPtr(0)
				blk.BorderBottom = lo.ToPtr(style.BorderWidth)
			default:
				blk.Border = style.ThisCurrentScreenBorder.First().Hex()
				blk.BorderTop = lo.ToPtr(style.BorderWidth)
				blk.BorderRight = lo.ToPtr(style.BorderWidth)
				blk.BorderBottom = lo.ToPtr(style.BorderWidth)
				blk.BorderLeft = lo.ToPtr(style.BorderWidth)
			}
		}

		blocks = append(blocks, blk)
	}

	return blocks
}

func (w *groupBox) Click(_ context.Context, ev ClickEvent) {
	if ev.Button != ButtonLeft || !lo.Contains(w.groups, ev.Instance) {
		return
	}
	if _, err := w.daemon.Action(config.ToScreen(ev.Instance)); err != nil {
		w.log.Errorf("switch to %s: %s", ev.Instance, err)
		return
	}

	// reflect the switch before the next poll
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.spaces {
		w.spaces[i].Focused = w.spaces[i].Name == ev.Instance
	}
}
