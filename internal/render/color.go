package render

import (
	"image/color"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// DefaultColor is painted when a style leaves a color unset.
const DefaultColor = "#000000"

// Decoration colors.
const (
	ConstructionColor = "red"
	SelectionColor    = "#0096ff"
	HandleColor       = "#0096ff"
	ActiveHandleColor = "#ff6600"
)

// colorOr returns c, or DefaultColor when c is empty.
func colorOr(c string) string {
	if c == "" {
		return DefaultColor
	}
	return c
}

// ParseColor resolves a CSS-style hex color ("#rgb", "#rrggbb", with
// optional alpha) or an SVG/CSS color name. Unknown input reports false.
func ParseColor(s string) (color.NRGBA, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, false
	}
	if s[0] == '#' {
		if !isHex(s[1:]) {
			return color.NRGBA{}, false
		}
		switch len(s) - 1 {
		case 3, 4, 6, 8:
		default:
			return color.NRGBA{}, false
		}
		return toNRGBA(gg.Hex(s).Color()), true
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return toNRGBA(c), true
	}
	return color.NRGBA{}, false
}

// mustColor is ParseColor with black as the fallback.
func mustColor(s string) color.NRGBA {
	if c, ok := ParseColor(s); ok {
		return c
	}
	return color.NRGBA{A: 0xff}
}

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}
