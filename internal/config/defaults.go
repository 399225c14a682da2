package config

import "time"

// Volume commands shared by the media keys and the volume widget.
const (
	VolumeGetCmd  = "amixer -D pulse sget Master"
	VolumeDownCmd = "amixer -D pulse sset Master 5%-"
	VolumeUpCmd   = "amixer -D pulse sset Master 5%+"
	VolumeMuteCmd = "amixer -D pulse sset Master 1+ toggle"
)

// FixedKeys is the static part of the key table.
func FixedKeys(mod Modifier, terminal string) []KeyBinding {
	m := []Modifier{mod}
	ms := []Modifier{mod, ModShift}
	mc := []Modifier{mod, ModControl}
	none := []Modifier{}

	return []KeyBinding{
		// focus
		Key(m, "h", Lazy(ActLayoutLeft), "Move focus to left"),
		Key(m, "l", Lazy(ActLayoutRight), "Move focus to right"),
		Key(m, "j", Lazy(ActLayoutDown), "Move focus down"),
		Key(m, "k", Lazy(ActLayoutUp), "Move focus up"),
		Key(m, "space", Lazy(ActLayoutNext), "Move window focus to other window"),

		// move
		Key(ms, "h", Lazy(ActShuffleLeft), "Move window to the left"),
		Key(ms, "l", Lazy(ActShuffleRight), "Move window to the right"),
		Key(ms, "j", Lazy(ActShuffleDown), "Move window down"),
		Key(ms, "k", Lazy(ActShuffleUp), "Move window up"),

		// resize
		Key(mc, "h", Lazy(ActGrowLeft), "Grow window to the left"),
		Key(mc, "l", Lazy(ActGrowRight), "Grow window to the right"),
		Key(mc, "j", Lazy(ActGrowDown), "Grow window down"),
		Key(mc, "k", Lazy(ActGrowUp), "Grow window up"),
		Key(m, "n", Lazy(ActNormalize), "Reset all window sizes"),

		Key(ms, "Return", Lazy(ActToggleSplit),
			"Toggle between split and unsplit sides of stack"),
		Key(m, "Return", Spawn(terminal), "Launch terminal"),
		Key(m, "Tab", Lazy(ActNextLayout), "Toggle between layouts"),
		Key(m, "w", Lazy(ActKill), "Kill focused window"),
		Key(m, "f", Lazy(ActToggleFullscreen), "Toggle fullscreen on the focused window"),
		Key(m, "t", Lazy(ActToggleFloating), "Toggle floating on the focused window"),
		Key(mc, "r", Lazy(ActReloadConfig), "Reload the config"),
		Key(mc, "q", Lazy(ActShutdown), "Shutdown the window manager"),
		Key(m, "r", Lazy(ActSpawnCmd), "Spawn a command using a prompt widget"),

		// media
		Key(none, "XF86AudioLowerVolume", Spawn(VolumeDownCmd),
			"Lower Volume by 5%"),
		Key(none, "XF86AudioRaiseVolume", Spawn(VolumeUpCmd),
			"Raise Volume by 5%"),
		Key(none, "XF86AudioMute", Spawn(VolumeMuteCmd),
			"Mute/Unmute Volume"),
		Key(none, "XF86AudioPlay", Spawn("playerctl play-pause"), "Play/Pause player"),
		Key(none, "XF86AudioNext", Spawn("playerctl next"), "Skip to next"),
		Key(none, "XF86AudioPrev", Spawn("playerctl previous"), "Skip to previous"),
	}
}

func DefaultLayouts(t Theme) []Layout {
	return []Layout{
		MonadTall(t, 5, 0, 0),
		Max(0, 0),
		Columns(t, 5, 0),
		MonadThreeCol(t, 3, 0, 0),
	}
}

// UserCmd prints the login name for the user widget.
const UserCmd = "printf $(whoami)"

// DefaultWidgets is the top bar, left to right.
func DefaultWidgets(colors []ColorPair, userInterval time.Duration) []Widget {
	zero := 0
	five := 5
	ten := 10
	underline := []Decoration{BottomBorder(colors[4], 2)}

	return []Widget{
		Spacer(10),
		{
			Kind:        WidgetPollText,
			Interval:    userInterval,
			Cmd:         UserCmd,
			Foreground:  colors[4],
			Fmt:         IconHeart + "  {}",
			Decorations: underline,
		},
		Spacer(5),
		Spacer(5),
		{Kind: WidgetPrompt, Foreground: colors[2], Prompt: "Run: "},
		Stretch(),
		{Kind: WidgetClock, Format: "%H:%M:%S %d/%m/%Y"},
		Stretch(),
		{Kind: WidgetCurrentLayoutIcon, Foreground: colors[2], Padding: &zero, Scale: 0.7},
		{Kind: WidgetCurrentLayout, Foreground: colors[2], Padding: &five},
		{
			Kind:     WidgetGroupBox,
			FontSize: 11,
			GroupBox: &GroupBoxStyle{
				MarginY:                  3,
				MarginX:                  4,
				PaddingY:                 2,
				PaddingX:                 3,
				BorderWidth:              3,
				Active:                   colors[2],
				Inactive:                 colors[4],
				Rounded:                  false,
				HighlightColor:           colors[4],
				HighlightMethod:          "box",
				ThisCurrentScreenBorder:  colors[5],
				ThisScreenBorder:         colors[6],
				OtherCurrentScreenBorder: colors[5],
				OtherScreenBorder:        colors[6],
			},
		},
		Spacer(10),
		{
			Kind:        WidgetVolume,
			Foreground:  colors[2],
			Fmt:         IconVolumeUp + "  {}",
			Decorations: underline,
		},
		Spacer(10),
		{
			Kind: WidgetBox,
			Widgets: []Widget{
				{Kind: WidgetCPUGraph},
				{Kind: WidgetMemoryGraph},
			},
			TextClosed:          IconArrowCircleLeft,
			TextOpen:            IconArrowCircleRight,
			Padding:             &five,
			CloseButtonLocation: "right",
		},
		Spacer(5),
		{
			Kind:            WidgetQuickExit,
			DefaultText:     IconPowerOff,
			CountdownFormat: IconChevronLeft + "{}" + IconChevronRight,
			CountdownStart:  5,
			Padding:         &ten,
		},
		Spacer(10),
	}
}

// DefaultMouse drags floating windows with mod+left/right button and raises
// them with mod+middle click.
func DefaultMouse(mod Modifier) []MouseBinding {
	m := []Modifier{mod}

	return []MouseBinding{
		Drag(m, "Button1", Lazy(ActSetPositionFloat), Lazy(ActGetPosition)),
		Drag(m, "Button3", Lazy(ActSetSizeFloat), Lazy(ActGetSize)),
		Click(m, "Button2", Lazy(ActBringToFront)),
	}
}

// PersonalFloatRules float gitk dialogs, ssh-askpass and pinentry.
func PersonalFloatRules() FloatRules {
	return FloatRules{
		{WMClass: "confirmreset"},
		{WMClass: "makebranch"},
		{WMClass: "maketag"},
		{WMClass: "ssh-askpass"},
		{Title: "branchdialog"},
		{Title: "pinentry"},
	}
}

func DefaultSettings() Settings {
	return Settings{
		DGroupsKeyBinder:        nil,
		DGroupsAppRules:         []string{},
		FollowMouseFocus:        true,
		BringFrontClick:         false,
		FloatsKeptAbove:         true,
		CursorWarp:              false,
		AutoFullscreen:          true,
		FocusOnWindowActivation: "smart",
		ReconfigureScreens:      true,
		AutoMinimize:            true,
		WLInputRules:            nil,
		// Java toolkits only behave with a whitelisted non-reparenting WM name.
		WMName: "LG3D",
	}
}
