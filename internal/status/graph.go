package status

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

const (
	graphSamples  = 10
	graphInterval = time.Second
)

var sparks = []rune("▁▂▃▄▅▆▇█")

// Sampler returns a usage percentage between 0 and 100.
type Sampler func(ctx context.Context) (float64, error)

func CPUSampler(ctx context.Context) (float64, error) {
	// 0 compares against the previous call
	p, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(p) == 0 {
		return 0, err
	}

	return p[0], nil
}

func MemSampler(ctx context.Context) (float64, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}

	return v.UsedPercent, nil
}

// sparkline renders the last width values, oldest first, padded on the left.
func sparkline(vals []float64, width int) string {
	if len(vals) > width {
		vals = vals[len(vals)-width:]
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(string(sparks[0]), width-len(vals)))
	for _, v := range vals {
		v = min(max(v, 0), 100)
		b.WriteRune(sparks[int(v/100*float64(len(sparks)-1)+0.5)])
	}

	return b.String()
}

type graph struct {
	base
	sample Sampler
	log    *zap.SugaredLogger

	mu   sync.Mutex
	hist []float64
}

func (w *graph) Interval() time.Duration { return graphInterval }

func (w *graph) Poll(ctx context.Context) {
	v, err := w.sample(ctx)
	if err != nil {
		w.log.Debugf("sample %s: %s", w.cfg.Kind, err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.hist = append(w.hist, v)
	if len(w.hist) > graphSamples {
		w.hist = w.hist[len(w.hist)-graphSamples:]
	}
}

func (w *graph) Blocks() []Block {
	w.mu.Lock()
	defer w.mu.Unlock()

	return []Block{w.block(sparkline(w.hist, graphSamples))}
}

// WIDGET BOX

// widgetBox hides its children behind a toggle. Children keep sampling
// while closed.
type widgetBox struct {
	base
	children []Widget

	mu   sync.Mutex
	open bool
}

func (w *widgetBox) Interval() time.Duration { return graphInterval }

func (w *widgetBox) Poll(ctx context.Context) {
	for _, c := range w.children {
		if p, ok := c.(Poller); ok {
			p.Poll(ctx)
		}
	}
}

func (w *widgetBox) Blocks() []Block {
	w.mu.Lock()
	open := w.open
	w.mu.Unlock()

	if !open {
		return []Block{w.toggle(w.cfg.TextClosed)}
	}

	var children []Block
	for _, c := range w.children {
		children = append(children, c.Blocks()...)
	}
	if w.cfg.CloseButtonLocation == "left" {
		return append([]Block{w.toggle(w.cfg.TextOpen)}, children...)
	}

	return append(children, w.toggle(w.cfg.TextOpen))
}

func (w *widgetBox) toggle(text string) Block {
	blk := w.block(text)
	blk.Instance = "toggle"

	return blk
}

func (w *widgetBox) Click(_ context.Context, ev ClickEvent) {
	if ev.Button != ButtonLeft || ev.Instance != "toggle" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = !w.open
}
