package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Modifier is a keyboard modifier name as the host spells it.
type Modifier string

const (
	ModSuper   Modifier = "mod4"
	ModAlt     Modifier = "mod1"
	ModShift   Modifier = "shift"
	ModControl Modifier = "control"
)

// KeyBinding binds a modifier set and a keysym to an action.
type KeyBinding struct {
	Modifiers []Modifier `yaml:"modifiers" json:"modifiers"`
	Key       string     `yaml:"key" json:"key"`
	Action    Action     `yaml:"action" json:"action"`
	Desc      string     `yaml:"desc,omitempty" json:"desc,omitempty"`
}

// Key mirrors the host constructor: Key([mod, "shift"], "h", action, desc).
func Key(mods []Modifier, key string, action Action, desc string) KeyBinding {
	return KeyBinding{
		Modifiers: mods,
		Key:       key,
		Action:    action,
		Desc:      desc,
	}
}

// Combo returns the canonical "mod+mod+key" form. Modifiers are a set, so
// they are de-duplicated and sorted.
func (k KeyBinding) Combo() string {
	mods := lo.Uniq(lo.Map(k.Modifiers, func(m Modifier, _ int) string {
		return string(m)
	}))
	slices.Sort(mods)

	return strings.Join(append(mods, k.Key), "+")
}

func (k KeyBinding) String() string {
	return fmt.Sprintf("%-28s %-40s %s", k.Combo(), k.Action, k.Desc)
}

// Group is a named virtual workspace.
type Group struct {
	Name string `yaml:"name" json:"name"`
}

// Groups creates one group per name, in order.
func Groups(names ...string) []Group {
	return lo.Map(names, func(name string, _ int) Group {
		return Group{Name: name}
	})
}

// GroupBindings derives two bindings per group: mod+name shows the group on
// the active screen, mod+shift+name sends the focused window there without
// following it. Order follows the groups; groups sharing a name produce
// bindings that shadow each other once resolved into a Keymap.
func GroupBindings(groups []Group, mod Modifier) []KeyBinding {
	keys := make([]KeyBinding, 0, len(groups)*2)
	for _, g := range groups {
		keys = append(keys,
			Key([]Modifier{mod}, g.Name, ToScreen(g.Name),
				fmt.Sprintf("Switch to group %s", g.Name)),
			Key([]Modifier{mod, ModShift}, g.Name, ToGroup(g.Name, false),
				fmt.Sprintf("Switch to & move focused window to group %s", g.Name)),
		)
	}

	return keys
}

// Keymap is the resolved lookup table, keyed by Combo.
type Keymap map[string]KeyBinding

// NewKeymap resolves a binding list. A later binding for the same combo
// silently replaces an earlier one.
func NewKeymap(keys []KeyBinding) Keymap {
	km := make(Keymap, len(keys))
	for _, k := range keys {
		km[k.Combo()] = k
	}

	return km
}

// Lookup finds the binding for a modifier set and key.
func (km Keymap) Lookup(mods []Modifier, key string) (KeyBinding, bool) {
	k, ok := km[Key(mods, key, Action{}, "").Combo()]
	return k, ok
}

// Duplicates lists the combos bound more than once, in first-seen order. It
// only reports, shadowing itself is left in place.
func Duplicates(keys []KeyBinding) []string {
	seen := make(map[string]int, len(keys))
	var dups []string
	for _, k := range keys {
		c := k.Combo()
		seen[c]++
		if seen[c] == 2 {
			dups = append(dups, c)
		}
	}

	return dups
}
