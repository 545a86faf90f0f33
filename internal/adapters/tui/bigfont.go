package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const glyphRows = 5

// glyph is a bitmap, one row per entry, most significant bit leftmost.
type glyph struct {
	cols int
	rows [glyphRows]uint8
}

// font is a 3x5 digit font; each lit cell renders two blocks wide.
var font = map[rune]glyph{
	'0': {3, [glyphRows]uint8{0b111, 0b101, 0b101, 0b101, 0b111}},
	'1': {3, [glyphRows]uint8{0b010, 0b110, 0b010, 0b010, 0b111}},
	'2': {3, [glyphRows]uint8{0b111, 0b001, 0b111, 0b100, 0b111}},
	'3': {3, [glyphRows]uint8{0b111, 0b001, 0b111, 0b001, 0b111}},
	'4': {3, [glyphRows]uint8{0b101, 0b101, 0b111, 0b001, 0b001}},
	'5': {3, [glyphRows]uint8{0b111, 0b100, 0b111, 0b001, 0b111}},
	'6': {3, [glyphRows]uint8{0b111, 0b100, 0b111, 0b101, 0b111}},
	'7': {3, [glyphRows]uint8{0b111, 0b001, 0b001, 0b001, 0b001}},
	'8': {3, [glyphRows]uint8{0b111, 0b101, 0b111, 0b101, 0b111}},
	'9': {3, [glyphRows]uint8{0b111, 0b101, 0b111, 0b001, 0b111}},
	':': {1, [glyphRows]uint8{0b0, 0b1, 0b0, 0b1, 0b0}},
}

const (
	cellOn  = "██"
	cellOff = "  "
)

func (g glyph) line(row int) string {
	var b strings.Builder
	for c := g.cols - 1; c >= 0; c-- {
		if g.rows[row]&(1<<c) != 0 {
			b.WriteString(cellOn)
		} else {
			b.WriteString(cellOff)
		}
	}
	return b.String()
}

// bigGlyphWidth returns the rendered width of timeStr in the big font.
func bigGlyphWidth(timeStr string) int {
	w := 0
	for _, ch := range timeStr {
		g, ok := font[ch]
		if !ok {
			continue
		}
		if w > 0 {
			w++
		}
		w += g.cols * len([]rune(cellOn))
	}
	return w
}

// renderBigTime renders a clock string like "14:32" or "1:05:00" in the big
// font. It falls back to a single styled line when the glyphs would not fit.
func renderBigTime(timeStr string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < 40 || bigGlyphWidth(timeStr) > width-4 {
		return style.Render(timeStr)
	}

	var lines [glyphRows]string
	for _, ch := range timeStr {
		g, ok := font[ch]
		if !ok {
			continue
		}
		for i := range lines {
			if lines[i] != "" {
				lines[i] += " "
			}
			lines[i] += g.line(i)
		}
	}

	styled := make([]string, glyphRows)
	for i, line := range lines {
		styled[i] = style.Render(line)
	}
	return strings.Join(styled, "\n")
}
