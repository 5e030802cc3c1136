package vt

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a cell color. The sixteen ANSI colors are stored by name;
// 256-color and true-color values are stored as "#rrggbb".
type Color string

// Named colors produced by SGR 30-37/40-47 and 90-97/100-107.
const (
	DefaultColor Color = "default"

	Black   Color = "black"
	Red     Color = "red"
	Green   Color = "green"
	Yellow  Color = "yellow"
	Blue    Color = "blue"
	Magenta Color = "magenta"
	Cyan    Color = "cyan"
	White   Color = "white"

	BrightBlack   Color = "brightblack"
	BrightRed     Color = "brightred"
	BrightGreen   Color = "brightgreen"
	BrightYellow  Color = "brightyellow"
	BrightBlue    Color = "brightblue"
	BrightMagenta Color = "brightmagenta"
	BrightCyan    Color = "brightcyan"
	BrightWhite   Color = "brightwhite"
)

var ansiColors = [8]Color{Black, Red, Green, Yellow, Blue, Magenta, Cyan, White}

var brightColors = [8]Color{
	BrightBlack, BrightRed, BrightGreen, BrightYellow,
	BrightBlue, BrightMagenta, BrightCyan, BrightWhite,
}

// colorAliases maps alternate spellings onto the name the emulator stores.
var colorAliases = map[string]Color{
	"darkred":     Red,
	"darkgreen":   Green,
	"darkblue":    Blue,
	"brown":       Yellow,
	"darkyellow":  Yellow,
	"darkcyan":    Cyan,
	"darkmagenta": Magenta,
	"purple":      Magenta,
	"lightgray":   White,
	"lightgrey":   White,
	"gray":        BrightBlack,
	"grey":        BrightBlack,
	"darkgray":    BrightBlack,
	"darkgrey":    BrightBlack,
	"lightred":    BrightRed,
	"lightgreen":  BrightGreen,
	"lightyellow": BrightYellow,
	"lightblue":   BrightBlue,
	"lightcyan":   BrightCyan,
	"lightwhite":  BrightWhite,
}

// IndexedColor returns the color for a 256-color palette index.
// Indexes 0-15 map to the named colors; the rest are stored as hex.
func IndexedColor(n int) Color {
	switch {
	case n < 0 || n > 255:
		return DefaultColor
	case n < 8:
		return ansiColors[n]
	case n < 16:
		return brightColors[n-8]
	case n < 232:
		n -= 16
		levels := [6]uint8{0, 95, 135, 175, 215, 255}
		return RGBColor(levels[n/36], levels[(n/6)%6], levels[n%6])
	default:
		v := uint8(8 + (n-232)*10)
		return RGBColor(v, v, v)
	}
}

// RGBColor returns a true-color value.
func RGBColor(r, g, b uint8) Color {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	return Color(c.Hex())
}

// Canonical folds case and whitespace and resolves aliases, so "Dark Red"
// and "red" share a canonical form.
func Canonical(name string) Color {
	folded := strings.ToLower(strings.Join(strings.Fields(name), ""))
	if c, ok := colorAliases[folded]; ok {
		return c
	}
	if hex, ok := parseHex(folded); ok {
		return hex
	}
	return Color(folded)
}

// Matches reports whether a stored cell color satisfies an expected color
// name. Comparison is case and whitespace insensitive and honors aliases;
// hex expectations match 256-color and true-color cells by value.
func Matches(actual Color, expected string) bool {
	return Canonical(string(actual)) == Canonical(expected)
}

func parseHex(s string) (Color, bool) {
	if !strings.HasPrefix(s, "#") {
		if len(s) != 6 || strings.Trim(s, "0123456789abcdef") != "" {
			return "", false
		}
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", false
	}
	return Color(c.Hex()), true
}
