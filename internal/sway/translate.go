// Package sway turns a config snapshot into sway commands.
package sway

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/pancsta/sway-deskcfg/internal/config"
)

// Bin is the executable sway calls back for actions it can't express.
const Bin = "sway-deskcfg"

const resizeStep = "10px"

var modNames = map[config.Modifier]string{
	config.ModSuper:   "Mod4",
	config.ModAlt:     "Mod1",
	config.ModShift:   "Shift",
	config.ModControl: "Ctrl",
}

// Modifier maps a modifier to sway's spelling. Unknown names pass through.
func Modifier(m config.Modifier) string {
	if name, ok := modNames[m]; ok {
		return name
	}

	return string(m)
}

// Combo renders "Mod4+Shift+h", modifiers in declaration order.
func Combo(mods []config.Modifier, key string) string {
	parts := lo.Map(lo.Uniq(mods), func(m config.Modifier, _ int) string {
		return Modifier(m)
	})

	return strings.Join(append(parts, key), "+")
}

// IsDaemonAction reports whether the action needs the daemon, because sway
// has no native command for it or because it depends on daemon state.
func IsDaemonAction(a config.Action) bool {
	switch a.Kind {
	case config.ActNextLayout, config.ActNormalize, config.ActReloadConfig,
		config.ActSpawnCmd, config.ActUserCmd:
		return true
	}

	return false
}

// DaemonExec is the exec line handing an action to the daemon.
func DaemonExec(bin string, a config.Action) string {
	arg := string(a.Kind)
	if a.Arg != "" {
		arg += ":" + a.Arg
	}

	return fmt.Sprintf("exec %s action %s", bin, strconv.Quote(arg))
}

// Command translates an action into a sway command. ok is false for actions
// sway performs on its own, like floating drags.
func Command(bin string, a config.Action) (cmd string, ok bool) {
	if IsDaemonAction(a) {
		return DaemonExec(bin, a), true
	}

	switch a.Kind {
	case config.ActLayoutLeft:
		return "focus left", true
	case config.ActLayoutRight:
		return "focus right", true
	case config.ActLayoutDown:
		return "focus down", true
	case config.ActLayoutUp:
		return "focus up", true
	case config.ActLayoutNext:
		return "focus next", true

	case config.ActShuffleLeft:
		return "move left", true
	case config.ActShuffleRight:
		return "move right", true
	case config.ActShuffleDown:
		return "move down", true
	case config.ActShuffleUp:
		return "move up", true

	case config.ActGrowLeft, config.ActGrowRight:
		return "resize grow width " + resizeStep, true
	case config.ActGrowDown, config.ActGrowUp:
		return "resize grow height " + resizeStep, true
	case config.ActToggleSplit:
		return "split toggle", true

	case config.ActSpawn:
		return "exec " + a.Arg, true
	case config.ActKill:
		return "kill", true
	case config.ActToggleFullscreen:
		return "fullscreen toggle", true
	case config.ActToggleFloating:
		return "floating toggle", true
	case config.ActShutdown:
		return "exit", true
	case config.ActBringToFront:
		return "focus", true

	case config.ActGroupToScreen:
		return Workspace(a.Arg), true
	case config.ActWindowToGroup:
		cmd := "move container to " + Workspace(a.Arg)
		if a.SwitchGroup {
			cmd += "; " + Workspace(a.Arg)
		}
		return cmd, true

	case config.ActVolumeUp:
		return "exec " + config.VolumeUpCmd, true
	case config.ActVolumeDown:
		return "exec " + config.VolumeDownCmd, true
	case config.ActVolumeToggleMute:
		return "exec " + config.VolumeMuteCmd, true
	}

	return "", false
}

// Workspace addresses a group. Numeric names use "number" so sway matches
// "1" as well as "1:web".
func Workspace(name string) string {
	if _, err := strconv.Atoi(name); err == nil {
		return "workspace number " + name
	}

	return "workspace " + strconv.Quote(name)
}

// Criteria builds sway criteria equivalent to a rule's exact match. Rules
// with only a predicate function have no static form.
func Criteria(m config.Match) []string {
	var base []string
	if m.Title != "" {
		base = append(base, criterion("title", m.Title))
	}
	if m.WMType != "" {
		// a keyword, not a regex
		base = append(base, "window_type="+m.WMType)
	}
	if m.Role != "" {
		base = append(base, criterion("window_role", m.Role))
	}
	if m.Func != nil {
		return nil
	}
	if m.WMClass == "" {
		if len(base) == 0 {
			return nil
		}
		return []string{"[" + strings.Join(base, " ") + "]"}
	}

	// X11 windows match on either WM_CLASS part, Wayland ones on app_id
	var ret []string
	for _, key := range []string{"class", "instance", "app_id"} {
		parts := append([]string{criterion(key, m.WMClass)}, base...)
		ret = append(ret, "["+strings.Join(parts, " ")+"]")
	}

	return ret
}

func criterion(key, val string) string {
	return fmt.Sprintf(`%s="^%s$"`, key, regexp.QuoteMeta(val))
}
