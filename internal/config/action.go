package config

import (
	"fmt"
	"strings"
)

// ActionKind names one of the finite set of commands a binding can trigger.
// Values follow the host's lazy-command paths ("layout.left",
// "window.kill", ...).
type ActionKind string

const (
	ActLayoutLeft       ActionKind = "layout.left"
	ActLayoutRight      ActionKind = "layout.right"
	ActLayoutDown       ActionKind = "layout.down"
	ActLayoutUp         ActionKind = "layout.up"
	ActLayoutNext       ActionKind = "layout.next"
	ActShuffleLeft      ActionKind = "layout.shuffle_left"
	ActShuffleRight     ActionKind = "layout.shuffle_right"
	ActShuffleDown      ActionKind = "layout.shuffle_down"
	ActShuffleUp        ActionKind = "layout.shuffle_up"
	ActGrowLeft         ActionKind = "layout.grow_left"
	ActGrowRight        ActionKind = "layout.grow_right"
	ActGrowDown         ActionKind = "layout.grow_down"
	ActGrowUp           ActionKind = "layout.grow_up"
	ActNormalize        ActionKind = "layout.normalize"
	ActToggleSplit      ActionKind = "layout.toggle_split"
	ActSpawn            ActionKind = "spawn"
	ActSpawnCmd         ActionKind = "spawncmd"
	ActNextLayout       ActionKind = "next_layout"
	ActKill             ActionKind = "window.kill"
	ActToggleFullscreen ActionKind = "window.toggle_fullscreen"
	ActToggleFloating   ActionKind = "window.toggle_floating"
	ActReloadConfig     ActionKind = "reload_config"
	ActShutdown         ActionKind = "shutdown"
	ActGroupToScreen    ActionKind = "group.toscreen"
	ActWindowToGroup    ActionKind = "window.togroup"
	ActSetPositionFloat ActionKind = "window.set_position_floating"
	ActGetPosition      ActionKind = "window.get_position"
	ActSetSizeFloat     ActionKind = "window.set_size_floating"
	ActGetSize          ActionKind = "window.get_size"
	ActBringToFront     ActionKind = "window.bring_to_front"
	ActVolumeToggleMute ActionKind = "volume.toggle_mute"
	ActVolumeUp         ActionKind = "volume.up"
	ActVolumeDown       ActionKind = "volume.down"
	ActUserCmd          ActionKind = "usr_cmd"
)

var knownActions = map[ActionKind]struct{}{
	ActLayoutLeft: {}, ActLayoutRight: {}, ActLayoutDown: {}, ActLayoutUp: {},
	ActLayoutNext: {}, ActShuffleLeft: {}, ActShuffleRight: {},
	ActShuffleDown: {}, ActShuffleUp: {}, ActGrowLeft: {}, ActGrowRight: {},
	ActGrowDown: {}, ActGrowUp: {}, ActNormalize: {}, ActToggleSplit: {},
	ActSpawn: {}, ActSpawnCmd: {}, ActNextLayout: {}, ActKill: {},
	ActToggleFullscreen: {}, ActToggleFloating: {}, ActReloadConfig: {},
	ActShutdown: {}, ActGroupToScreen: {}, ActWindowToGroup: {},
	ActSetPositionFloat: {}, ActGetPosition: {}, ActSetSizeFloat: {},
	ActGetSize: {}, ActBringToFront: {}, ActVolumeToggleMute: {},
	ActVolumeUp: {}, ActVolumeDown: {}, ActUserCmd: {},
}

// Action is a deferred command descriptor. Building one has no side effects,
// the host interprets it when the binding fires.
type Action struct {
	Kind ActionKind `yaml:"kind" json:"kind"`
	// Arg is the command line for spawn, the group name for group actions
	// and the command name for usr_cmd.
	Arg         string `yaml:"arg,omitempty" json:"arg,omitempty"`
	SwitchGroup bool   `yaml:"switch_group,omitempty" json:"switch_group,omitempty"`
}

// Lazy returns an argument-less action.
func Lazy(kind ActionKind) Action {
	return Action{Kind: kind}
}

func Spawn(cmd string) Action {
	return Action{Kind: ActSpawn, Arg: cmd}
}

// ToScreen switches the active screen to the named group.
func ToScreen(group string) Action {
	return Action{Kind: ActGroupToScreen, Arg: group}
}

// ToGroup moves the focused window to the named group.
func ToGroup(group string, switchGroup bool) Action {
	return Action{Kind: ActWindowToGroup, Arg: group, SwitchGroup: switchGroup}
}

func UsrCmd(name string) Action {
	return Action{Kind: ActUserCmd, Arg: name}
}

// Known reports whether the kind is part of the supported set.
func (a Action) Known() bool {
	_, ok := knownActions[a.Kind]
	return ok
}

func (a Action) String() string {
	var b strings.Builder
	b.WriteString(string(a.Kind))
	b.WriteString("(")
	if a.Arg != "" {
		b.WriteString(fmt.Sprintf("%q", a.Arg))
	}
	if a.Kind == ActWindowToGroup {
		b.WriteString(fmt.Sprintf(", switch_group=%t", a.SwitchGroup))
	}
	b.WriteString(")")

	return b.String()
}

// ParseAction parses the "kind" or "kind:arg" form used on the command line.
func ParseAction(s string) (Action, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(s), ":")
	a := Action{Kind: ActionKind(kind), Arg: arg}
	if !a.Known() {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}

	return a, nil
}
