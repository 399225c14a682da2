package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is "#rrggbb", "#rrggbbaa" or "#rrggbb.a" where a is an opacity
// between 0 and 1.
type Color string

// Hex normalizes the color to "#rrggbb" or "#rrggbbaa".
func (c Color) Hex() string {
	s := string(c)
	base, alpha, ok := strings.Cut(s, ".")
	if !ok {
		return s
	}
	f, err := strconv.ParseFloat("0."+alpha, 64)
	if alpha == "0" || err != nil {
		f = 0
	}
	if alpha == "1" {
		f = 1
	}

	return fmt.Sprintf("%s%02x", base, int(f*255+0.5))
}

// RGB drops any alpha channel.
func (c Color) RGB() string {
	h := c.Hex()
	if len(h) > 7 {
		return h[:7]
	}

	return h
}

// ColorPair is a two-stop gradient. Hosts without gradients use the first
// stop.
type ColorPair [2]Color

func (p ColorPair) First() Color {
	return p[0]
}

// Pair repeats one color into both stops.
func Pair(c Color) ColorPair {
	return ColorPair{c, c}
}

// DefaultPalette is the indexed color scheme shared by layouts and widgets.
func DefaultPalette() []ColorPair {
	return []ColorPair{
		{"#000000.0", "#ffffff.0"},
		Pair("#000000"),
		Pair("#ffffff"),
		Pair("#c60cfa"),
		Pair("#740bde"),
		Pair("#3900f5"),
		Pair("#0b12de"),
		Pair("#0c54fa"),
	}
}

// Font Awesome glyphs used in the bar.
const (
	IconHeart            = "\uf004"
	IconVolumeUp         = "\uf028"
	IconArrowCircleLeft  = "\uf0a8"
	IconArrowCircleRight = "\uf0a9"
	IconPowerOff         = "\uf011"
	IconChevronLeft      = "\uf053"
	IconChevronRight     = "\uf054"
)
