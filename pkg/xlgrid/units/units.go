// Package units provides column width heuristics.
package units

import (
	"math"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// DefaultFontSize is the font size assumed when a cell has no override.
const DefaultFontSize = 10

// PixelsPerUnit is the pixel advance per encoded unit used when estimating a
// width from cell content.
const PixelsPerUnit = 8

// DoubleWidthFactor scales a character count for CJK-heavy text.
const DoubleWidthFactor = 1.8

// Unit selects how widths supplied by callers are interpreted.
type Unit string

const (
	// Char interprets widths as character counts.
	Char Unit = "char"
	// Pixel interprets widths as raw pixels.
	Pixel Unit = "pixel"
)

// CharsToPixels converts a character count to pixels for a font size.
// Each glyph advances 8px, every started group of ten glyphs adds 5px of
// padding, and the result scales with the font size in 10pt steps.
func CharsToPixels(chars, fontSize float64) float64 {
	if chars <= 0 {
		return 0
	}
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	return math.Ceil(fontSize/10) * (chars*8 + math.Ceil(chars/10)*5)
}

// ToPixels converts a width in unit u to pixels.
func ToPixels(width float64, u Unit, fontSize float64) float64 {
	if width <= 0 {
		return 0
	}
	if u == Pixel {
		return width
	}
	return CharsToPixels(width, fontSize)
}

// DoubleWidth scales a character count for wide text. Pixel widths pass through.
func DoubleWidth(width float64, u Unit) float64 {
	if u == Pixel {
		return width
	}
	return width * DoubleWidthFactor
}

// EncodedLen returns the length of s in a double-byte encoding: ASCII counts
// one unit and CJK characters two. Runes GBK cannot encode fall back to their
// terminal display width.
func EncodedLen(s string) int {
	enc := simplifiedchinese.GBK.NewEncoder()
	n := 0
	for _, r := range s {
		if r < utf8.RuneSelf {
			n++
			continue
		}
		if b, err := enc.String(string(r)); err == nil {
			n += len(b)
			continue
		}
		if w := runewidth.RuneWidth(r); w > 0 {
			n += w
		} else {
			n++
		}
	}
	return n
}

// Estimate returns a pixel width for displaying s.
func Estimate(s string) float64 {
	return float64(EncodedLen(s) * PixelsPerUnit)
}

// PixelsToColumnWidth converts pixels to the character-based width unit used
// in the document's column definitions (7px max digit width, 5px padding).
func PixelsToColumnWidth(px float64) float64 {
	w := (px - 5) / 7
	if w < 0 {
		return 0
	}
	return math.Round(w*100) / 100
}

// ColumnWidthToPixels is the inverse of PixelsToColumnWidth.
func ColumnWidthToPixels(w float64) float64 {
	if w <= 0 {
		return 0
	}
	return math.Round(w*7 + 5)
}
