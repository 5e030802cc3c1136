package curtain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestLocatorLiteralOverlapping(t *testing.T) {
	term := fedTerminal(10, 2, "aaaa")

	got := term.GetByText("aa").Cells()
	want := []CellMatch{
		{0, 0}, {0, 1},
		{0, 1}, {0, 2},
		{0, 2}, {0, 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Cells() mismatch (-want +got):\n%s", diff)
	}
}

func TestLocatorLiteralCountsPerRow(t *testing.T) {
	term := fedTerminal(20, 3, "ab ab\r\nxx\r\nab")

	cells := term.GetByText("ab").Cells()
	assert.Len(t, cells, 3*2)
	assert.Equal(t, CellMatch{Row: 2, Col: 1}, cells[len(cells)-1])
}

func TestLocatorFullLine(t *testing.T) {
	term := fedTerminal(30, 3, "  Hello, World!  \r\nHello, World! extra\r\nHello, World!")

	cells := term.GetByText("Hello, World!", FullLine()).Cells()
	assert.Len(t, cells, 2*13)
	assert.Equal(t, CellMatch{Row: 0, Col: 2}, cells[0])
	assert.Equal(t, CellMatch{Row: 0, Col: 14}, cells[12])
	assert.Equal(t, CellMatch{Row: 2, Col: 0}, cells[13])

	for _, c := range cells {
		assert.NotEqual(t, 1, c.Row, "row with extra text must not match")
	}
}

func TestLocatorSubstringMatchesInsideLongerRow(t *testing.T) {
	term := fedTerminal(30, 1, "Hello, World! extra")
	assert.True(t, term.GetByText("Hello, World!").IsVisible())
	assert.False(t, term.GetByText("Hello, World!", FullLine()).IsVisible())
}

func TestLocatorRegexp(t *testing.T) {
	term := fedTerminal(20, 2, "a12b345")

	loc := term.GetByRegexp(`\d+`)
	want := []CellMatch{{0, 1}, {0, 2}, {0, 4}, {0, 5}, {0, 6}}
	if diff := cmp.Diff(want, loc.Cells()); diff != "" {
		t.Errorf("Cells() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "12", loc.Text())
}

func TestLocatorRegexpFullLine(t *testing.T) {
	term := fedTerminal(20, 2, "  ab  \r\nabc")

	loc := term.GetByRegexp(`a|ab`, FullLine())
	assert.Equal(t, []CellMatch{{0, 2}, {0, 3}}, loc.Cells())
	assert.Equal(t, "ab", loc.Text())

	assert.False(t, term.GetByRegexp(`b`, FullLine()).IsVisible())
}

func TestLocatorZeroLengthMatchesExcluded(t *testing.T) {
	term := fedTerminal(10, 2, "abc")

	loc := term.GetByRegexp(`x*`)
	assert.Empty(t, loc.Cells())
	assert.False(t, loc.IsVisible())
	assert.Equal(t, "", loc.Text())

	assert.False(t, term.GetByText("").IsVisible())
	assert.False(t, term.GetByText("", FullLine()).IsVisible())
}

func TestLocatorTextLiteral(t *testing.T) {
	term := fedTerminal(10, 2)
	assert.Equal(t, "absent", term.GetByText("absent").Text())
}

func TestLocatorRegexpTextFirstMatchingRow(t *testing.T) {
	term := fedTerminal(20, 3, "none\r\nv1.2 and v3.4\r\nv5.6")
	assert.Equal(t, "v1.2", term.GetByRegexp(`v\d\.\d`).Text())
}

func TestLocatorSearchesScrollback(t *testing.T) {
	term := fedTerminal(10, 3, "l1\r\nl2\r\nl3\r\nl4\r\nl5")

	assert.Equal(t, []CellMatch{{0, 0}, {0, 1}}, term.GetByText("l1").Cells())
	assert.Equal(t, []CellMatch{{4, 0}, {4, 1}}, term.GetByText("l5").Cells())
}

func TestLocatorWideCharacters(t *testing.T) {
	term := fedTerminal(10, 1, "中x文")

	assert.Equal(t, []CellMatch{{0, 2}}, term.GetByText("x").Cells())
	assert.Equal(t, []CellMatch{{0, 0}, {0, 2}, {0, 3}}, term.GetByText("中x文").Cells())
}

func TestLocatorCombiningMarks(t *testing.T) {
	term := fedTerminal(20, 2, "cafe\u0301 ok")

	assert.Equal(t, "cafe\u0301 ok\n", term.Text())
	loc := term.GetByText("cafe\u0301")
	assert.True(t, loc.IsVisible())
	assert.Equal(t, []CellMatch{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, loc.Cells())
	assert.Equal(t, []CellMatch{{0, 3}}, term.GetByRegexp(`e\x{301}`).Cells())
	assert.True(t, term.GetByText("cafe\u0301 ok", FullLine()).IsVisible())
}

func TestLocatorReevaluates(t *testing.T) {
	term := fedTerminal(10, 2)
	loc := term.GetByText("later")
	assert.False(t, loc.IsVisible())

	feedTerminal(term, "later")
	assert.True(t, loc.IsVisible())

	feedTerminal(term, "\x1b[2J")
	assert.False(t, loc.IsVisible())
}

func TestLocatorString(t *testing.T) {
	term := fedTerminal(10, 1)
	assert.Equal(t, `text "hi"`, term.GetByText("hi").String())
	assert.Equal(t, `text "hi" (full line)`, term.GetByText("hi", FullLine()).String())
	assert.Equal(t, `regexp "h.+"`, term.GetByRegexp("h.+").String())
}

func TestLocatorWaitVisible(t *testing.T) {
	term := fedTerminal(10, 1, "ok")
	assert.NoError(t, term.GetByText("ok").WaitVisible())

	err := term.GetByText("nope").WaitVisible(WithinTimeout(20 * time.Millisecond))
	assert.ErrorIs(t, err, ErrAssertionTimeout)
}
