package status

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pancsta/sway-deskcfg/internal/config"
)

var (
	errNoVolume = errors.New("no volume in amixer output")
	volumeRe    = regexp.MustCompile(`\[(\d+)%\](?:.*\[(on|off)\])?`)
)

// parseVolume reads the first channel of "amixer sget" output.
func parseVolume(out string) (level int, muted bool, err error) {
	m := volumeRe.FindStringSubmatch(out)
	if m == nil {
		return 0, false, errNoVolume
	}
	level, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, false, err
	}

	return level, m[2] == "off", nil
}

type volume struct {
	base
	runner Runner
	log    *zap.SugaredLogger

	mu   sync.Mutex
	text string
}

func (w *volume) Interval() time.Duration { return time.Second }

func (w *volume) Poll(ctx context.Context) {
	text := ""
	out, err := w.runner.Run(ctx, config.VolumeGetCmd)
	if err == nil {
		var (
			level int
			muted bool
		)
		level, muted, err = parseVolume(out)
		text = strconv.Itoa(level) + "%"
		if muted {
			text = "M"
		}
	}
	if err != nil {
		w.log.Debugf("volume: %s", err)
		text = ""
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.text = text
}

func (w *volume) Blocks() []Block {
	w.mu.Lock()
	defer w.mu.Unlock()

	return []Block{w.block(Format(w.cfg.Fmt, w.text))}
}

func (w *volume) Click(ctx context.Context, ev ClickEvent) {
	var cmd string
	switch ev.Button {
	case ButtonLeft:
		cmd = config.VolumeMuteCmd
	case ButtonScrollUp:
		cmd = config.VolumeUpCmd
	case ButtonScrollDown:
		cmd = config.VolumeDownCmd
	default:
		return
	}

	if _, err := w.runner.Run(ctx, cmd); err != nil {
		w.log.Errorf("volume: %s", err)
	}
	w.Poll(ctx)
}
