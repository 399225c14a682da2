package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrUnknownAction = errors.New("unknown action")
)

// MouseKind distinguishes drags from clicks.
type MouseKind string

const (
	MouseDrag  MouseKind = "drag"
	MouseClick MouseKind = "click"
)

// MouseBinding binds a pointer button. Start is the action sampled when a
// drag begins.
type MouseBinding struct {
	Kind      MouseKind  `yaml:"kind" json:"kind"`
	Modifiers []Modifier `yaml:"modifiers" json:"modifiers"`
	Button    string     `yaml:"button" json:"button"`
	Action    Action     `yaml:"action" json:"action"`
	Start     *Action    `yaml:"start,omitempty" json:"start,omitempty"`
}

func Drag(mods []Modifier, button string, action, start Action) MouseBinding {
	return MouseBinding{
		Kind:      MouseDrag,
		Modifiers: mods,
		Button:    button,
		Action:    action,
		Start:     &start,
	}
}

func Click(mods []Modifier, button string, action Action) MouseBinding {
	return MouseBinding{
		Kind:      MouseClick,
		Modifiers: mods,
		Button:    button,
		Action:    action,
	}
}

// Settings are the scalar toggles the host reads by name.
type Settings struct {
	DGroupsKeyBinder        *string  `yaml:"dgroups_key_binder" json:"dgroups_key_binder"`
	DGroupsAppRules         []string `yaml:"dgroups_app_rules" json:"dgroups_app_rules"`
	FollowMouseFocus        bool     `yaml:"follow_mouse_focus" json:"follow_mouse_focus"`
	BringFrontClick         bool     `yaml:"bring_front_click" json:"bring_front_click"`
	FloatsKeptAbove         bool     `yaml:"floats_kept_above" json:"floats_kept_above"`
	CursorWarp              bool     `yaml:"cursor_warp" json:"cursor_warp"`
	AutoFullscreen          bool     `yaml:"auto_fullscreen" json:"auto_fullscreen"`
	FocusOnWindowActivation string   `yaml:"focus_on_window_activation" json:"focus_on_window_activation"`
	ReconfigureScreens      bool     `yaml:"reconfigure_screens" json:"reconfigure_screens"`
	AutoMinimize            bool     `yaml:"auto_minimize" json:"auto_minimize"`
	WLInputRules            *string  `yaml:"wl_input_rules" json:"wl_input_rules"`
	WMName                  string   `yaml:"wmname" json:"wmname"`
}

// Config is the complete snapshot handed to the host. It is rebuilt from
// scratch on every load and never mutated afterwards.
type Config struct {
	Mod               Modifier       `yaml:"mod" json:"mod"`
	Terminal          string         `yaml:"terminal" json:"terminal"`
	Keys              []KeyBinding   `yaml:"keys" json:"keys"`
	Groups            []Group        `yaml:"groups" json:"groups"`
	Colors            []ColorPair    `yaml:"colors" json:"colors"`
	LayoutTheme       Theme          `yaml:"layout_theme" json:"layout_theme"`
	Layouts           []Layout       `yaml:"layouts" json:"layouts"`
	WidgetDefaults    WidgetDefaults `yaml:"widget_defaults" json:"widget_defaults"`
	ExtensionDefaults WidgetDefaults `yaml:"extension_defaults" json:"extension_defaults"`
	Screens           []Screen       `yaml:"screens" json:"screens"`
	Mouse             []MouseBinding `yaml:"mouse" json:"mouse"`
	FloatingLayout    FloatingLayout `yaml:"floating_layout" json:"floating_layout"`
	Settings          `yaml:",inline" json:"settings"`
}

// Keymap resolves the key table.
func (c *Config) Keymap() Keymap {
	return NewKeymap(c.Keys)
}

// Bar returns the first screen's top bar, if any.
func (c *Config) Bar() *Bar {
	for _, s := range c.Screens {
		if s.Top != nil {
			return s.Top
		}
	}

	return nil
}

// Options are the inputs a snapshot is built from.
type Options struct {
	Mod          Modifier
	Terminal     string
	GroupNames   []string
	Wallpaper    string
	UserInterval time.Duration
	// Settings overrides the defaults when not nil.
	Settings *Settings
}

// Build assembles the snapshot. It is pure: the same options always produce
// the same tables.
func Build(opts Options) (*Config, error) {
	opts = withDefaults(opts)

	colors := DefaultPalette()
	theme := Theme{
		BorderWidth:  1,
		BorderFocus:  Pair("#3900f5"),
		BorderNormal: Pair("#0b12de"),
	}
	groups := Groups(opts.GroupNames...)

	keys := FixedKeys(opts.Mod, opts.Terminal)
	keys = append(keys, GroupBindings(groups, opts.Mod)...)

	defaults := WidgetDefaults{
		Font:       "FiraCode Nerd Font,NotoSans Nerd Font,Ubuntu Mono,sans",
		FontSize:   12,
		Padding:    0,
		Background: colors[1],
	}

	cfg := &Config{
		Mod:               opts.Mod,
		Terminal:          opts.Terminal,
		Keys:              keys,
		Groups:            groups,
		Colors:            colors,
		LayoutTheme:       theme,
		Layouts:           DefaultLayouts(theme),
		WidgetDefaults:    defaults,
		ExtensionDefaults: defaults,
		Screens: []Screen{{
			Wallpaper:     opts.Wallpaper,
			WallpaperMode: "stretch",
			Top: &Bar{
				Background:  "#00000000",
				BorderWidth: [4]int{0, 0, 0, 0},
				Opacity:     1,
				Size:        26,
				Widgets:     DefaultWidgets(colors, opts.UserInterval),
			},
		}},
		Mouse:          DefaultMouse(opts.Mod),
		FloatingLayout: FloatingLayout{FloatRules: append(DefaultFloatRules(), PersonalFloatRules()...)},
		Settings:       DefaultSettings(),
	}
	if opts.Settings != nil {
		cfg.Settings = *opts.Settings
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func withDefaults(opts Options) Options {
	if opts.Mod == "" {
		opts.Mod = ModSuper
	}
	if opts.Terminal == "" {
		opts.Terminal = "xterm"
	}
	if opts.GroupNames == nil {
		opts.GroupNames = []string{"1", "2", "3", "4"}
	}
	if opts.Wallpaper == "" {
		opts.Wallpaper = "~/.config/qtile/wallpapers/beach-gray.jpg"
	}
	if opts.UserInterval == 0 {
		opts.UserInterval = 300 * time.Second
	}

	return opts
}

// Validate fails fast on tables the host could not use.
func (c *Config) Validate() error {
	if c.Mod == "" {
		return fmt.Errorf("%w: empty modifier", ErrInvalidConfig)
	}
	if len(c.Layouts) == 0 {
		return fmt.Errorf("%w: no layouts", ErrInvalidConfig)
	}
	for _, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("%w: group without a name", ErrInvalidConfig)
		}
	}
	for _, k := range c.Keys {
		if k.Key == "" {
			return fmt.Errorf("%w: binding %q without a key", ErrInvalidConfig, k.Desc)
		}
		if !k.Action.Known() {
			return fmt.Errorf("%w: key %s: %w %q", ErrInvalidConfig, k.Combo(),
				ErrUnknownAction, k.Action.Kind)
		}
	}
	for _, m := range c.Mouse {
		if !m.Action.Known() {
			return fmt.Errorf("%w: mouse %s: %w %q", ErrInvalidConfig, m.Button,
				ErrUnknownAction, m.Action.Kind)
		}
	}
	if bar := c.Bar(); bar != nil {
		if err := validateWidgets(bar.Widgets); err != nil {
			return err
		}
	}

	return nil
}

func validateWidgets(widgets []Widget) error {
	for i, w := range widgets {
		switch w.Kind {
		case WidgetPollText:
			if w.Interval <= 0 {
				return fmt.Errorf("%w: widget %d: update_interval must be positive",
					ErrInvalidConfig, i)
			}
			if w.Cmd == "" {
				return fmt.Errorf("%w: widget %d: no command", ErrInvalidConfig, i)
			}
		case WidgetBox:
			if err := validateWidgets(w.Widgets); err != nil {
				return err
			}
		case "":
			return fmt.Errorf("%w: widget %d: no kind", ErrInvalidConfig, i)
		}
	}

	return nil
}

// GroupNames lists the group names in order.
func (c *Config) GroupNames() []string {
	return lo.Map(c.Groups, func(g Group, _ int) string {
		return g.Name
	})
}
