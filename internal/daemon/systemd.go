package daemon

import (
	"context"
	"fmt"
	"time"

	sd "github.com/coreos/go-systemd/v22/daemon"
)

// systemdNotifyLoop reports readiness and keeps the watchdog fed. It returns
// nil right away when not supervised.
func systemdNotifyLoop(ctx context.Context) error {
	supported, err := sd.SdNotify(false, sd.SdNotifyReady)
	if err != nil {
		return fmt.Errorf("notify systemd: %w", err)
	}
	if !supported {
		return nil
	}
	_, _ = sd.SdNotify(false, "STATUS=Applying the desktop config to sway")

	t, err := sd.SdWatchdogEnabled(false)
	if err != nil {
		return fmt.Errorf("check watchdog: %w", err)
	}
	if t == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			_, _ = sd.SdNotify(false, sd.SdNotifyStopping)
			return nil

		case <-time.After(t / 2):
			_, err := sd.SdNotify(false, sd.SdNotifyWatchdog)
			if err != nil {
				return fmt.Errorf("notify watchdog: %w", err)
			}
		}
	}
}
