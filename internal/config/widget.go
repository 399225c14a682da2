package config

import "time"

// WidgetKind selects the bar element implementation.
type WidgetKind string

const (
	WidgetSpacer            WidgetKind = "spacer"
	WidgetPollText          WidgetKind = "genpolltext"
	WidgetPrompt            WidgetKind = "prompt"
	WidgetClock             WidgetKind = "clock"
	WidgetCurrentLayoutIcon WidgetKind = "currentlayouticon"
	WidgetCurrentLayout     WidgetKind = "currentlayout"
	WidgetGroupBox          WidgetKind = "groupbox"
	WidgetVolume            WidgetKind = "pulsevolume"
	WidgetBox               WidgetKind = "widgetbox"
	WidgetCPUGraph          WidgetKind = "cpugraph"
	WidgetMemoryGraph       WidgetKind = "memorygraph"
	WidgetQuickExit         WidgetKind = "quickexit"
)

// Decoration draws a border around a widget. BorderWidth is top, right,
// bottom, left.
type Decoration struct {
	Colour      ColorPair `yaml:"colour" json:"colour"`
	BorderWidth [4]int    `yaml:"border_width" json:"border_width"`
}

// BottomBorder is the underline decoration used throughout the bar.
func BottomBorder(c ColorPair, width int) Decoration {
	return Decoration{Colour: c, BorderWidth: [4]int{0, 0, width, 0}}
}

// GroupBoxStyle configures the group indicator.
type GroupBoxStyle struct {
	MarginY                  int       `yaml:"margin_y" json:"margin_y"`
	MarginX                  int       `yaml:"margin_x" json:"margin_x"`
	PaddingY                 int       `yaml:"padding_y" json:"padding_y"`
	PaddingX                 int       `yaml:"padding_x" json:"padding_x"`
	BorderWidth              int       `yaml:"borderwidth" json:"borderwidth"`
	Active                   ColorPair `yaml:"active" json:"active"`
	Inactive                 ColorPair `yaml:"inactive" json:"inactive"`
	Rounded                  bool      `yaml:"rounded" json:"rounded"`
	HighlightColor           ColorPair `yaml:"highlight_color" json:"highlight_color"`
	HighlightMethod          string    `yaml:"highlight_method" json:"highlight_method"`
	ThisCurrentScreenBorder  ColorPair `yaml:"this_current_screen_border" json:"this_current_screen_border"`
	ThisScreenBorder         ColorPair `yaml:"this_screen_border" json:"this_screen_border"`
	OtherCurrentScreenBorder ColorPair `yaml:"other_current_screen_border" json:"other_current_screen_border"`
	OtherScreenBorder        ColorPair `yaml:"other_screen_border" json:"other_screen_border"`
}

// Widget is a tagged bar element configuration. Which fields are read
// depends on Kind.
type Widget struct {
	Kind WidgetKind `yaml:"kind" json:"kind"`

	// spacer: 0 stretches
	Length int `yaml:"length,omitempty" json:"length,omitempty"`

	// genpolltext
	Interval time.Duration `yaml:"update_interval,omitempty" json:"update_interval,omitempty"`
	Cmd      string        `yaml:"cmd,omitempty" json:"cmd,omitempty"`

	// Fmt wraps the widget text, "{}" is replaced with the payload.
	Fmt    string `yaml:"fmt,omitempty" json:"fmt,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Prompt string `yaml:"prompt,omitempty" json:"prompt,omitempty"`

	Foreground  ColorPair    `yaml:"foreground,omitempty" json:"foreground,omitempty"`
	Padding     *int         `yaml:"padding,omitempty" json:"padding,omitempty"`
	FontSize    int          `yaml:"fontsize,omitempty" json:"fontsize,omitempty"`
	Scale       float64      `yaml:"scale,omitempty" json:"scale,omitempty"`
	Decorations []Decoration `yaml:"decorations,omitempty" json:"decorations,omitempty"`

	GroupBox *GroupBoxStyle `yaml:"groupbox,omitempty" json:"groupbox,omitempty"`

	// widgetbox
	Widgets             []Widget `yaml:"widgets,omitempty" json:"widgets,omitempty"`
	TextClosed          string   `yaml:"text_closed,omitempty" json:"text_closed,omitempty"`
	TextOpen            string   `yaml:"text_open,omitempty" json:"text_open,omitempty"`
	CloseButtonLocation string   `yaml:"close_button_location,omitempty" json:"close_button_location,omitempty"`

	// quickexit
	DefaultText     string `yaml:"default_text,omitempty" json:"default_text,omitempty"`
	CountdownFormat string `yaml:"countdown_format,omitempty" json:"countdown_format,omitempty"`
	CountdownStart  int    `yaml:"countdown_start,omitempty" json:"countdown_start,omitempty"`
}

// PaddingOr returns the widget padding or the bar-wide default.
func (w Widget) PaddingOr(def int) int {
	if w.Padding == nil {
		return def
	}

	return *w.Padding
}

func Spacer(length int) Widget {
	return Widget{Kind: WidgetSpacer, Length: length}
}

// Stretch is a spacer taking the remaining width.
func Stretch() Widget {
	return Widget{Kind: WidgetSpacer}
}

// WidgetDefaults apply to every widget that doesn't set its own value.
type WidgetDefaults struct {
	Font       string    `yaml:"font" json:"font"`
	FontSize   int       `yaml:"fontsize" json:"fontsize"`
	Padding    int       `yaml:"padding" json:"padding"`
	Background ColorPair `yaml:"background" json:"background"`
}

// Bar is a horizontal widget strip attached to a screen edge.
type Bar struct {
	Background  Color    `yaml:"background" json:"background"`
	BorderWidth [4]int   `yaml:"border_width" json:"border_width"`
	Opacity     float64  `yaml:"opacity" json:"opacity"`
	Size        int      `yaml:"size" json:"size"`
	Widgets     []Widget `yaml:"widgets" json:"widgets"`
}

// Screen is one physical output.
type Screen struct {
	Wallpaper     string `yaml:"wallpaper,omitempty" json:"wallpaper,omitempty"`
	WallpaperMode string `yaml:"wallpaper_mode,omitempty" json:"wallpaper_mode,omitempty"`
	Top           *Bar   `yaml:"top,omitempty" json:"top,omitempty"`
}
