package sway

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/samber/lo"

	"github.com/pancsta/sway-deskcfg/internal/config"
)

// Font renders a comma separated font list for pango.
func Font(d config.WidgetDefaults) string {
	families := lo.Map(strings.Split(d.Font, ","), func(f string, _ int) string {
		return strings.TrimSpace(f)
	})

	return fmt.Sprintf("pango:%s %d", strings.Join(families, ", "), d.FontSize)
}

// KeyCommands binds every key in declaration order. sway keeps the last
// binding for a combo, same as the keymap.
func KeyCommands(bin string, keys []config.KeyBinding) []string {
	var ret []string
	for _, k := range keys {
		cmd, ok := Command(bin, k.Action)
		if !ok {
			continue
		}
		ret = append(ret, fmt.Sprintf("bindsym %s %s", Combo(k.Modifiers, k.Key), cmd))
	}

	return ret
}

// MouseCommands maps drags to floating_modifier and clicks to whole-window
// button bindings.
func MouseCommands(bin string, mouse []config.MouseBinding) []string {
	var ret []string
	dragMod := ""
	for _, m := range mouse {
		switch m.Kind {
		case config.MouseDrag:
			if dragMod == "" && len(m.Modifiers) > 0 {
				dragMod = Modifier(m.Modifiers[0])
			}
		case config.MouseClick:
			cmd, ok := Command(bin, m.Action)
			if !ok {
				continue
			}
			button := strings.ToLower(m.Button)
			ret = append(ret, fmt.Sprintf("bindsym --whole-window %s %s",
				Combo(m.Modifiers, button), cmd))
		}
	}
	if dragMod != "" {
		// left drags move, right drags resize
		ret = append([]string{fmt.Sprintf("floating_modifier %s normal", dragMod)}, ret...)
	}

	return ret
}

// FloatCommands adds for_window rules for every rule with a static form.
// Predicate rules are left to the daemon's classifier.
func FloatCommands(rules config.FloatRules) []string {
	var ret []string
	for _, m := range rules {
		for _, c := range Criteria(m) {
			ret = append(ret, fmt.Sprintf("for_window %s floating enable", c))
		}
	}

	return ret
}

// PromptCommands float the run prompt, which foot opens titled after bin.
func PromptCommands(bin string) []string {
	return []string{
		fmt.Sprintf("for_window [%s] floating enable, sticky enable", criterion("title", bin)),
	}
}

// SettingsCommands maps the host toggles sway understands.
func SettingsCommands(s config.Settings) []string {
	yesNo := map[bool]string{true: "yes", false: "no"}
	warping := "none"
	if s.CursorWarp {
		warping = "container"
	}
	activation := s.FocusOnWindowActivation
	if activation == "" {
		activation = "smart"
	}

	return []string{
		"focus_follows_mouse " + yesNo[s.FollowMouseFocus],
		"mouse_warping " + warping,
		"focus_on_window_activation " + activation,
	}
}

// ThemeCommands applies the first layout's decoration globally.
func ThemeCommands(cfg *config.Config) []string {
	t := cfg.LayoutTheme
	fg := cfg.Colors[2].First().RGB()
	focus := t.BorderFocus.First().RGB()
	normal := t.BorderNormal.First().RGB()
	first := cfg.Layouts[0]

	ret := []string{
		fmt.Sprintf("font %s", Font(cfg.WidgetDefaults)),
		fmt.Sprintf("default_border pixel %d", t.BorderWidth),
		fmt.Sprintf("default_floating_border pixel %d", t.BorderWidth),
		fmt.Sprintf("gaps inner %d", first.Margin),
		fmt.Sprintf("client.focused %s %s %s %s %s", focus, focus, fg, focus, focus),
		fmt.Sprintf("client.focused_inactive %s %s %s %s %s", normal, normal, fg, normal, normal),
		fmt.Sprintf("client.unfocused %s %s %s %s %s", normal, normal, fg, normal, normal),
	}
	if first.EffectiveBorder(1) == 0 {
		ret = append(ret, "smart_borders on")
	}
	if first.EffectiveMargin(1) == 0 {
		ret = append(ret, "smart_gaps on")
	}

	return ret
}

// OutputCommands sets wallpapers. sway has no per-screen index, so screens
// past the first fall back to the same "*" output.
func OutputCommands(screens []config.Screen) []string {
	var ret []string
	for _, s := range screens {
		if s.Wallpaper == "" {
			continue
		}
		mode := s.WallpaperMode
		if mode == "" {
			mode = "fill"
		}
		ret = append(ret, fmt.Sprintf("output * bg %s %s", s.Wallpaper, mode))
		break
	}

	return ret
}

// Commands is everything sway accepts at runtime over IPC, in apply order.
func Commands(bin string, cfg *config.Config) []string {
	var ret []string
	ret = append(ret, SettingsCommands(cfg.Settings)...)
	ret = append(ret, ThemeCommands(cfg)...)
	ret = append(ret, OutputCommands(cfg.Screens)...)
	ret = append(ret, MouseCommands(bin, cfg.Mouse)...)
	ret = append(ret, FloatCommands(cfg.FloatingLayout.FloatRules)...)
	ret = append(ret, PromptCommands(bin)...)
	ret = append(ret, KeyCommands(bin, cfg.Keys)...)

	return ret
}

// BarBlock renders the bar section, which sway only reads from the config
// file.
func BarBlock(bin string, cfg *config.Config) string {
	bar := cfg.Bar()
	if bar == nil {
		return ""
	}
	bg := cfg.WidgetDefaults.Background.First().Hex()
	fg := cfg.Colors[2].First().RGB()

	return fmt.Sprintf(dedent.Dedent(`
		bar {
		    position top
		    height %d
		    font %s
		    status_command %s status
		    workspace_buttons no
		    binding_mode_indicator no
		    colors {
		        background %s
		        statusline %s
		        separator %s
		    }
		}
	`), bar.Size, Font(cfg.WidgetDefaults), bin, bg, fg, bg)
}

// Render produces a config fragment for sway's "include".
func Render(bin string, cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("# generated by " + bin + ", do not edit\n\n")
	for _, cmd := range Commands(bin, cfg) {
		b.WriteString(cmd + "\n")
	}
	b.WriteString(BarBlock(bin, cfg))
	b.WriteString(fmt.Sprintf("\nexec %s daemon\n", bin))

	return b.String()
}

// layoutModes maps layouts onto sway's container layouts.
var layoutModes = map[config.LayoutKind]string{
	config.LayoutMonadTall:     "splith",
	config.LayoutMax:           "tabbed",
	config.LayoutColumns:       "splitv",
	config.LayoutMonadThreeCol: "splith",
}

// LayoutCommands applies a layout to the focused workspace holding n tiled
// windows.
func LayoutCommands(l config.Layout, n int) []string {
	mode, ok := layoutModes[l.Kind]
	if !ok {
		mode = "default"
	}

	return append([]string{"layout " + mode}, DecorationCommands(l, n)...)
}

// DecorationCommands sets the gaps and borders of the focused workspace
// without touching its container layout.
func DecorationCommands(l config.Layout, n int) []string {
	return []string{
		fmt.Sprintf("gaps inner current set %d", l.EffectiveMargin(n)),
		fmt.Sprintf(`[workspace="__focused__"] border pixel %d`, l.EffectiveBorder(n)),
	}
}
