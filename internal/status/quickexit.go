package status

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const exitCmd = "swaymsg exit"

// quickExit asks for a second chance. The first click starts a countdown,
// another click cancels it and reaching zero ends the session.
type quickExit struct {
	base
	runner Runner
	log    *zap.SugaredLogger

	mu       sync.Mutex
	counting bool
	left     int
}

func (w *quickExit) Interval() time.Duration { return time.Second }

func (w *quickExit) Poll(ctx context.Context) {
	w.mu.Lock()
	if !w.counting {
		w.mu.Unlock()
		return
	}
	w.left--
	exit := w.left <= 0
	if exit {
		w.counting = false
	}
	w.mu.Unlock()

	if !exit {
		return
	}
	w.log.Info("quick exit")
	if _, err := w.runner.Run(ctx, exitCmd); err != nil {
		w.log.Errorf("exit: %s", err)
	}
}

func (w *quickExit) Blocks() []Block {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.counting {
		return []Block{w.block(w.cfg.DefaultText)}
	}

	return []Block{w.block(Format(w.cfg.CountdownFormat, strconv.Itoa(w.left)))}
}

func (w *quickExit) Click(_ context.Context, ev ClickEvent) {
	if ev.Button != ButtonLeft {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.counting = !w.counting
	w.left = w.cfg.CountdownStart
	if w.left <= 0 {
		w.left = 5
	}
}
