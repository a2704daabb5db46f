package ansi

import "image/color"

// Color identifies a foreground color from the fixed 16-entry terminal
// palette. The zero value means "terminal default" (no explicit color).
type Color uint8

const (
	Default Color = iota
	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

// palette holds the RGB values for the 16 standard colors, tuned for a dark
// window background. Index 0 corresponds to Black (Color value 1).
var palette = [16]color.RGBA{
	{0x48, 0x4f, 0x58, 0xff}, // black
	{0xff, 0x7b, 0x72, 0xff}, // red
	{0x3f, 0xb9, 0x50, 0xff}, // green
	{0xd2, 0x99, 0x22, 0xff}, // yellow
	{0x58, 0xa6, 0xff, 0xff}, // blue
	{0xbc, 0x8c, 0xff, 0xff}, // magenta
	{0x39, 0xc5, 0xcf, 0xff}, // cyan
	{0xb1, 0xba, 0xc4, 0xff}, // white
	{0x6e, 0x76, 0x81, 0xff}, // bright black
	{0xff, 0xa1, 0x98, 0xff}, // bright red
	{0x56, 0xd3, 0x64, 0xff}, // bright green
	{0xe3, 0xb3, 0x41, 0xff}, // bright yellow
	{0x79, 0xc0, 0xff, 0xff}, // bright blue
	{0xd2, 0xa8, 0xff, 0xff}, // bright magenta
	{0x56, 0xd4, 0xdd, 0xff}, // bright cyan
	{0xf0, 0xf6, 0xfc, 0xff}, // bright white
}

// RGBA resolves the palette entry for c. The second return value is false
// when c is Default, i.e. the caller should substitute its own default.
func (c Color) RGBA() (color.RGBA, bool) {
	if c == Default || int(c) > len(palette) {
		return color.RGBA{}, false
	}
	return palette[c-1], true
}

// Style is the set of graphic attributes active for a run of text. The zero
// value is the empty style: default color, no flags.
type Style struct {
	Fg        Color
	Bold      bool
	Dim       bool
	Italic    bool
	Underline bool
}

// apply returns the style after one SGR code. Unrecognized codes leave the
// style unchanged.
func (s Style) apply(code int) Style {
	switch {
	case code == 0:
		return Style{}
	case code == 1:
		s.Bold = true
	case code == 2:
		s.Dim = true
	case code == 3:
		s.Italic = true
	case code == 4:
		s.Underline = true
	case code == 22:
		s.Bold, s.Dim = false, false
	case code == 23:
		s.Italic = false
	case code == 24:
		s.Underline = false
	case code == 39:
		s.Fg = Default
	case code >= 30 && code <= 37:
		s.Fg = Black + Color(code-30)
	case code >= 90 && code <= 97:
		s.Fg = BrightBlack + Color(code-90)
	}
	return s
}
