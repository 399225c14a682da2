package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/pancsta/sway-deskcfg/internal/config"
)

var ErrNoBar = errors.New("no bar configured")

const renderInterval = time.Second

// Deps are the outside world of the bar. Zero values get real
// implementations, except Daemon.
type Deps struct {
	Runner Runner
	Daemon Daemon
	Log    *zap.SugaredLogger
	Now    func() time.Time
	CPU    Sampler
	Mem    Sampler
}

// Bar produces the swaybar status stream for the configured top bar.
type Bar struct {
	widgets []Widget
	log     *zap.SugaredLogger
	dirty   chan struct{}
}

func New(cfg *config.Config, deps Deps) (*Bar, error) {
	bar := cfg.Bar()
	if bar == nil {
		return nil, ErrNoBar
	}
	if deps.Daemon == nil {
		return nil, errors.New("status: nil daemon")
	}
	if deps.Runner == nil {
		deps.Runner = Shell{}
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.CPU == nil {
		deps.CPU = CPUSampler
	}
	if deps.Mem == nil {
		deps.Mem = MemSampler
	}

	groups := lo.Map(cfg.Groups, func(g config.Group, _ int) string {
		return g.Name
	})
	b := &Bar{
		log:   deps.Log,
		dirty: make(chan struct{}, 1),
	}
	for i, w := range bar.Widgets {
		wid, err := newWidget(blockName(i), w, cfg.WidgetDefaults, groups, deps)
		if err != nil {
			return nil, fmt.Errorf("widget %d: %w", i, err)
		}
		b.widgets = append(b.widgets, wid)
	}

	return b, nil
}

func newWidget(name string, w config.Widget, defaults config.WidgetDefaults, groups []string, deps Deps) (Widget, error) {
	b := base{name: name, cfg: w, defaults: defaults}
	log := deps.Log.With("widget", name)

	switch w.Kind {
	case config.WidgetSpacer:
		return &spacer{length: w.Length}, nil
	case config.WidgetPollText:
		return &pollText{base: b, runner: deps.Runner, log: log}, nil
	case config.WidgetPrompt:
		return &prompt{base: b, daemon: deps.Daemon, log: log}, nil
	case config.WidgetClock:
		return newClock(b, deps.Now)
	case config.WidgetCurrentLayout, config.WidgetCurrentLayoutIcon:
		return &currentLayout{
			base:   b,
			daemon: deps.Daemon,
			log:    log,
			icon:   w.Kind == config.WidgetCurrentLayoutIcon,
		}, nil
	case config.WidgetGroupBox:
		return &groupBox{base: b, groups: groups, daemon: deps.Daemon, log: log}, nil
	case config.WidgetVolume:
		return &volume{base: b, runner: deps.Runner, log: log}, nil
	case config.WidgetCPUGraph:
		return &graph{base: b, sample: deps.CPU, log: log}, nil
	case config.WidgetMemoryGraph:
		return &graph{base: b, sample: deps.Mem, log: log}, nil
	case config.WidgetBox:
		box := &widgetBox{base: b}
		for _, c := range w.Widgets {
			child, err := newWidget(name, c, defaults, groups, deps)
			if err != nil {
				return nil, err
			}
			box.children = append(box.children, child)
		}
		return box, nil
	case config.WidgetQuickExit:
		return &quickExit{base: b, runner: deps.Runner, log: log}, nil
	}

	return nil, fmt.Errorf("%w: widget kind %q", config.ErrInvalidConfig, w.Kind)
}

func blockName(i int) string {
	return "w" + strconv.Itoa(i)
}

// Frame renders all the widgets. Fixed spacers widen the gap after the
// previous block, a leading one becomes an empty block.
func (b *Bar) Frame() []Block {
	var blocks []Block
	for _, w := range b.widgets {
		s, ok := w.(*spacer)
		if !ok {
			blocks = append(blocks, w.Blocks()...)
			continue
		}
		if s.length == 0 {
			continue
		}

		if len(blocks) == 0 {
			blocks = append(blocks, Block{
				FullText:            " ",
				MinWidth:            s.length,
				Separator:           lo.ToPtr(false),
				SeparatorBlockWidth: lo.ToPtr(0),
			})
			continue
		}
		last := &blocks[len(blocks)-1]
		width := 0
		if last.SeparatorBlockWidth != nil {
			width = *last.SeparatorBlockWidth
		}
		last.SeparatorBlockWidth = lo.ToPtr(width + s.length)
	}

	return blocks
}

// Run writes the status stream to w and handles the click events read from
// clicks, until ctx is done or w fails.
func (b *Bar) Run(ctx context.Context, w io.Writer, clicks io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := writeHeader(w); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, wid := range b.widgets {
		if p, ok := wid.(Poller); ok {
			go b.pollLoop(ctx, p)
		}
	}

	events := make(chan ClickEvent)
	go func() {
		if err := readClicks(ctx, clicks, events); err != nil {
			b.log.Error(err)
		}
	}()
	go b.clickLoop(ctx, events)

	if err := writeFrame(w, b.Frame(), true); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-b.dirty:
		}

		if err := writeFrame(w, b.Frame(), false); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
}

func (b *Bar) pollLoop(ctx context.Context, p Poller) {
	for {
		p.Poll(ctx)
		b.markDirty()

		if p.Interval() <= 0 {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.Interval()):
		}
	}
}

func (b *Bar) clickLoop(ctx context.Context, events <-chan ClickEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			b.Click(ctx, ev)
		}
	}
}

// Click routes ev to the widget owning the clicked block.
func (b *Bar) Click(ctx context.Context, ev ClickEvent) {
	i, err := strconv.Atoi(strings.TrimPrefix(ev.Name, "w"))
	if err != nil || i < 0 || i >= len(b.widgets) {
		b.log.Debugf("click on unknown block %q", ev.Name)
		return
	}
	if c, ok := b.widgets[i].(Clicker); ok {
		c.Click(ctx, ev)
		b.markDirty()
	}
}

func (b *Bar) markDirty() {
	select {
	case b.dirty <- struct{}{}:
	default:
	}
}
