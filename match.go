package curtain

import (
	"fmt"
	"regexp"
	"strings"
)

// A Matcher reports whether a Screen satisfies a condition.
// The string return is a human-readable description for error messages.
type Matcher func(s *Screen) (ok bool, description string)

// Text matches if the screen contains the given substring anywhere.
func Text(s string) Matcher {
	return func(scr *Screen) (bool, string) {
		return scr.Contains(s), fmt.Sprintf("screen to contain %q", s)
	}
}

// Regexp matches if the screen content matches the regular expression.
// The pattern is compiled once; an invalid pattern causes a panic.
func Regexp(pattern string) Matcher {
	re := regexp.MustCompile(pattern)
	return func(scr *Screen) (bool, string) {
		return re.MatchString(scr.String()), fmt.Sprintf("screen to match regexp %q", pattern)
	}
}

// Line matches if the given row (0-indexed) equals s. Captured rows carry
// no trailing whitespace.
func Line(n int, s string) Matcher {
	return lineMatcher(n, fmt.Sprintf("line %d to equal %q", n, s), func(line string) bool {
		return line == s
	})
}

// LineContains matches if the given row (0-indexed) contains the substring.
func LineContains(n int, substr string) Matcher {
	return lineMatcher(n, fmt.Sprintf("line %d to contain %q", n, substr), func(line string) bool {
		return strings.Contains(line, substr)
	})
}

// LineRegexp matches if the given row (0-indexed) matches the regular
// expression. An invalid pattern causes a panic.
func LineRegexp(n int, pattern string) Matcher {
	re := regexp.MustCompile(pattern)
	return lineMatcher(n, fmt.Sprintf("line %d to match regexp %q", n, pattern), re.MatchString)
}

func lineMatcher(n int, desc string, match func(string) bool) Matcher {
	return func(scr *Screen) (bool, string) {
		if n < 0 || n >= len(scr.lines) {
			return false, desc + fmt.Sprintf(" (screen has %d lines)", len(scr.lines))
		}
		return match(scr.lines[n]), desc
	}
}

// Not inverts a matcher.
func Not(m Matcher) Matcher {
	return func(scr *Screen) (bool, string) {
		ok, desc := m(scr)
		return !ok, "NOT(" + desc + ")"
	}
}

// All matches when every provided matcher matches.
func All(matchers ...Matcher) Matcher {
	return func(scr *Screen) (bool, string) {
		descs := make([]string, 0, len(matchers))
		for _, m := range matchers {
			ok, desc := m(scr)
			descs = append(descs, desc)
			if !ok {
				return false, "all of: " + strings.Join(descs, ", ")
			}
		}
		return true, "all of: " + strings.Join(descs, ", ")
	}
}

// Any matches when at least one provided matcher matches.
func Any(matchers ...Matcher) Matcher {
	return func(scr *Screen) (bool, string) {
		descs := make([]string, 0, len(matchers))
		for _, m := range matchers {
			ok, desc := m(scr)
			descs = append(descs, desc)
			if ok {
				return true, "any of: " + strings.Join(descs, ", ")
			}
		}
		return false, "any of: " + strings.Join(descs, ", ")
	}
}

// Empty matches when the screen has no visible content.
func Empty() Matcher {
	return func(scr *Screen) (bool, string) {
		return strings.TrimSpace(scr.String()) == "", "screen to be empty"
	}
}

// Cursor matches if the cursor is at the given position. Row and col are
// 0-indexed.
func Cursor(row, col int) Matcher {
	return func(scr *Screen) (bool, string) {
		desc := fmt.Sprintf("cursor at row=%d, col=%d", row, col)
		if scr.cursor == (Position{Row: row, Col: col}) {
			return true, desc
		}
		return false, desc + fmt.Sprintf(" (actual: row=%d, col=%d)", scr.cursor.Row, scr.cursor.Col)
	}
}

// Size matches if the screen has the given width and height.
func Size(width, height int) Matcher {
	return func(scr *Screen) (bool, string) {
		desc := fmt.Sprintf("screen size %dx%d", width, height)
		if scr.width == width && scr.height == height {
			return true, desc
		}
		return false, desc + fmt.Sprintf(" (actual: %dx%d)", scr.width, scr.height)
	}
}
