package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Seven-segment layout:
//
//	 a
//	f b
//	 g
//	e c
//	 d
const (
	segA uint8 = 1 << iota
	segB
	segC
	segD
	segE
	segF
	segG
)

var digitSegments = [10]uint8{
	segA | segB | segC | segD | segE | segF,
	segB | segC,
	segA | segB | segD | segE | segG,
	segA | segB | segC | segD | segG,
	segB | segC | segF | segG,
	segA | segC | segD | segF | segG,
	segA | segC | segD | segE | segF | segG,
	segA | segB | segC,
	segA | segB | segC | segD | segE | segF | segG,
	segA | segB | segC | segD | segF | segG,
}

const (
	glyphRows = 5
	block     = "█"
)

func cell(on bool, s string) string {
	if on {
		return s
	}
	return strings.Repeat(" ", len([]rune(s)))
}

// digitGlyph draws one digit four cells wide and five rows tall.
func digitGlyph(d int) [glyphRows]string {
	s := digitSegments[d]
	has := func(mask uint8) bool { return s&mask != 0 }
	row := func(left, mid, right bool) string {
		return cell(left, block) + cell(mid, block+block) + cell(right, block)
	}
	return [glyphRows]string{
		row(has(segA|segF), has(segA), has(segA|segB)),
		row(has(segF), false, has(segB)),
		row(has(segG) || has(segF) && has(segE), has(segG), has(segG) || has(segB) && has(segC)),
		row(has(segE), false, has(segC)),
		row(has(segD|segE), has(segD), has(segD|segC)),
	}
}

var colonGlyph = [glyphRows]string{" ", block, " ", block, " "}

// glyphFor returns the block glyph for a clock character.
func glyphFor(ch rune) ([glyphRows]string, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return digitGlyph(int(ch - '0')), true
	case ch == ':':
		return colonGlyph, true
	}
	return [glyphRows]string{}, false
}

// renderBigTime renders a clock string like "02:45" in five-row block digits.
// Narrow terminals get a single bold line instead.
func renderBigTime(timeStr string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < 40 {
		return style.Render(timeStr)
	}

	var rows [glyphRows][]string
	for _, ch := range timeStr {
		glyph, ok := glyphFor(ch)
		if !ok {
			continue
		}
		for i := range rows {
			rows[i] = append(rows[i], glyph[i])
		}
	}

	styled := make([]string, glyphRows)
	for i, row := range rows {
		styled[i] = style.Render(strings.Join(row, " "))
	}
	return strings.Join(styled, "\n")
}
