package config

// LayoutKind names a tiling algorithm provided by the host.
type LayoutKind string

const (
	LayoutMonadTall     LayoutKind = "monadtall"
	LayoutMax           LayoutKind = "max"
	LayoutColumns       LayoutKind = "columns"
	LayoutMonadThreeCol LayoutKind = "monadthreecol"
)

// Theme is the border decoration shared by the tiling layouts.
type Theme struct {
	BorderWidth  int       `yaml:"border_width" json:"border_width"`
	BorderFocus  ColorPair `yaml:"border_focus" json:"border_focus"`
	BorderNormal ColorPair `yaml:"border_normal" json:"border_normal"`
}

// Layout is one configured entry of the layout list. Optional parameters are
// nil when the host default applies.
type Layout struct {
	Kind   LayoutKind `yaml:"kind" json:"kind"`
	Theme  `yaml:",inline" json:"theme"`
	Margin int        `yaml:"margin" json:"margin"`

	SingleBorderWidth *int `yaml:"single_border_width,omitempty" json:"single_border_width,omitempty"`
	SingleMargin      *int `yaml:"single_margin,omitempty" json:"single_margin,omitempty"`
	MarginOnSingle    *int `yaml:"margin_on_single,omitempty" json:"margin_on_single,omitempty"`
}

// Name is what the current-layout widget shows.
func (l Layout) Name() string {
	return string(l.Kind)
}

// EffectiveMargin is the gap applied when n windows are tiled.
func (l Layout) EffectiveMargin(n int) int {
	if n == 1 {
		if l.SingleMargin != nil {
			return *l.SingleMargin
		}
		if l.MarginOnSingle != nil {
			return *l.MarginOnSingle
		}
	}

	return l.Margin
}

// EffectiveBorder is the border width applied when n windows are tiled.
func (l Layout) EffectiveBorder(n int) int {
	if n == 1 && l.SingleBorderWidth != nil {
		return *l.SingleBorderWidth
	}

	return l.BorderWidth
}

func MonadTall(t Theme, margin, singleBorder, singleMargin int) Layout {
	return Layout{
		Kind:              LayoutMonadTall,
		Theme:             t,
		Margin:            margin,
		SingleBorderWidth: &singleBorder,
		SingleMargin:      &singleMargin,
	}
}

func MonadThreeCol(t Theme, margin, singleBorder, singleMargin int) Layout {
	l := MonadTall(t, margin, singleBorder, singleMargin)
	l.Kind = LayoutMonadThreeCol

	return l
}

func Max(borderWidth, margin int) Layout {
	return Layout{
		Kind:   LayoutMax,
		Theme:  Theme{BorderWidth: borderWidth},
		Margin: margin,
	}
}

func Columns(t Theme, margin, marginOnSingle int) Layout {
	return Layout{
		Kind:           LayoutColumns,
		Theme:          t,
		Margin:         margin,
		MarginOnSingle: &marginOnSingle,
	}
}

// LayoutCycle is a cursor into the layout list. The zero value points at
// the first layout.
type LayoutCycle struct {
	idx int
}

// Current returns the layout under the cursor, clamped to the list.
func (c *LayoutCycle) Current(layouts []Layout) (Layout, int) {
	if len(layouts) == 0 {
		return Layout{}, -1
	}
	if c.idx >= len(layouts) || c.idx < 0 {
		c.idx = 0
	}

	return layouts[c.idx], c.idx
}

// Next advances the cursor, wrapping around.
func (c *LayoutCycle) Next(layouts []Layout) (Layout, int) {
	if len(layouts) == 0 {
		return Layout{}, -1
	}
	c.idx = (c.idx + 1) % len(layouts)

	return c.Current(layouts)
}

// Prev moves the cursor back, wrapping around.
func (c *LayoutCycle) Prev(layouts []Layout) (Layout, int) {
	if len(layouts) == 0 {
		return Layout{}, -1
	}
	c.idx = (c.idx + len(layouts) - 1) % len(layouts)

	return c.Current(layouts)
}
