package vt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorMatches(t *testing.T) {
	tests := []struct {
		actual   Color
		expected string
		want     bool
	}{
		{Red, "red", true},
		{Red, "Red", true},
		{Red, " RED ", true},
		{Red, "darkred", true},
		{Red, "Dark Red", true},
		{"darkred", "red", true},
		{Green, "darkgreen", true},
		{Yellow, "brown", true},
		{White, "lightgray", true},
		{DefaultColor, "default", true},
		{BrightRed, "bright red", true},
		{BrightBlack, "gray", true},
		{"#ff0000", "#FF0000", true},
		{"#ff0000", "ff0000", true},
		{IndexedColor(196), "#f00", true},
		{Red, "green", false},
		{Blue, "red", false},
		{BrightRed, "red", false},
		{DefaultColor, "black", false},
		{"#ff0000", "red", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.actual)+"/"+tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.actual, tt.expected))
		})
	}
}

func TestIndexedColor(t *testing.T) {
	assert.Equal(t, Black, IndexedColor(0))
	assert.Equal(t, White, IndexedColor(7))
	assert.Equal(t, BrightBlack, IndexedColor(8))
	assert.Equal(t, BrightWhite, IndexedColor(15))
	assert.Equal(t, Color("#000000"), IndexedColor(16))
	assert.Equal(t, Color("#ffffff"), IndexedColor(231))
	assert.Equal(t, Color("#eeeeee"), IndexedColor(255))
	assert.Equal(t, DefaultColor, IndexedColor(256))
	assert.Equal(t, DefaultColor, IndexedColor(-1))
}
