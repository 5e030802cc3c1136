package curtain

import (
	"fmt"
	"regexp"
	"slices"
	"unicode"
	"unicode/utf8"
)

// CellMatch is a matched character position in the combined buffer:
// scrollback rows first, then the viewport.
type CellMatch struct {
	Row, Col int
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// FullLine makes a locator match whole rows, ignoring leading and trailing
// whitespace, instead of searching within rows.
func FullLine() LocatorOption {
	return func(l *Locator) {
		l.full = true
	}
}

// Locator is a query for text on a terminal's combined buffer. It holds no
// results: every access re-reads the current screen.
type Locator struct {
	term    *Terminal
	literal string
	re      *regexp.Regexp
	whole   *regexp.Regexp
	full    bool
}

func newLocator(term *Terminal, literal string, re *regexp.Regexp, opts []LocatorOption) *Locator {
	l := &Locator{term: term, literal: literal, re: re}
	for _, o := range opts {
		o(l)
	}
	if re != nil && l.full {
		l.whole = regexp.MustCompile(`\A(?:` + re.String() + `)\z`)
	}
	return l
}

// Cells returns every matched character position, in buffer order.
func (l *Locator) Cells() []CellMatch {
	return l.cellsIn(l.term.Buffer())
}

// IsVisible reports whether the locator matches anywhere in the combined
// buffer, scrollback included.
func (l *Locator) IsVisible() bool {
	return len(l.Cells()) > 0
}

// Text returns the literal for a text locator. For a regexp locator it
// returns the text matched in the first matching row, or "" when nothing
// matches.
func (l *Locator) Text() string {
	if l.re == nil {
		return l.literal
	}
	return l.textIn(l.term.Buffer())
}

func (l *Locator) String() string {
	kind, pattern := "text", l.literal
	if l.re != nil {
		kind, pattern = "regexp", l.re.String()
	}
	if l.full {
		return fmt.Sprintf("%s %q (full line)", kind, pattern)
	}
	return fmt.Sprintf("%s %q", kind, pattern)
}

// WaitVisible polls until the locator is visible, returning an
// *AssertionError on timeout.
func (l *Locator) WaitVisible(wopts ...WaitOption) error {
	return l.term.poll("wait-visible", l.String()+" to be visible", wopts, true, func() (bool, string) {
		return l.IsVisible(), ""
	})
}

// runeSpan is a matched run of characters within one row, as rune indexes.
type runeSpan struct {
	start, end int
}

// spansIn returns the matched runs of text. Zero-length matches are
// dropped.
func (l *Locator) spansIn(text []rune) []runeSpan {
	if l.full {
		start, end := trimSpaceRunes(text)
		trimmed := text[start:end]
		if len(trimmed) == 0 {
			return nil
		}
		if l.re != nil {
			if !l.whole.MatchString(string(trimmed)) {
				return nil
			}
		} else if string(trimmed) != l.literal {
			return nil
		}
		return []runeSpan{{start, end}}
	}

	if l.re == nil {
		pattern := []rune(l.literal)
		if len(pattern) == 0 {
			return nil
		}
		var spans []runeSpan
		for i := 0; i+len(pattern) <= len(text); i++ {
			if slices.Equal(text[i:i+len(pattern)], pattern) {
				spans = append(spans, runeSpan{i, i + len(pattern)})
			}
		}
		return spans
	}

	s := string(text)
	var spans []runeSpan
	for _, loc := range l.re.FindAllStringIndex(s, -1) {
		if loc[0] == loc[1] {
			continue
		}
		start := utf8.RuneCountInString(s[:loc[0]])
		spans = append(spans, runeSpan{start, start + utf8.RuneCountInString(s[loc[0]:loc[1]])})
	}
	return spans
}

func (l *Locator) cellsIn(buf []Row) []CellMatch {
	var out []CellMatch
	for y, row := range buf {
		runes, cols := row.Runes()
		for _, sp := range l.spansIn(runes) {
			for i := sp.start; i < sp.end; i++ {
				// Combining runes belong to the cell before them.
				if i > sp.start && cols[i] == cols[i-1] {
					continue
				}
				out = append(out, CellMatch{Row: y, Col: cols[i]})
			}
		}
	}
	return out
}

func (l *Locator) textIn(buf []Row) string {
	for _, row := range buf {
		runes, _ := row.Runes()
		if spans := l.spansIn(runes); len(spans) > 0 {
			return string(runes[spans[0].start:spans[0].end])
		}
	}
	return ""
}

func trimSpaceRunes(text []rune) (start, end int) {
	start, end = 0, len(text)
	for start < end && unicode.IsSpace(text[start]) {
		start++
	}
	for end > start && unicode.IsSpace(text[end-1]) {
		end--
	}
	return start, end
}
