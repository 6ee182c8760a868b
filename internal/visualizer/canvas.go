package visualizer

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type tone uint8

const (
	toneNone tone = iota
	tonePrimary
	toneSecondary
	toneDim
)

type cell struct {
	r    rune
	tone tone
}

// canvas is a character grid. Cells are treated as twice as tall as they
// are wide, so x distances are halved when measuring round shapes.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &canvas{w: w, h: h, cells: make([]cell, w*h)}
}

func (c *canvas) center() (float64, float64) {
	return float64(c.w-1) / 2, float64(c.h-1) / 2
}

func (c *canvas) set(x, y int, r rune, t tone) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, tone: t}
}

func (c *canvas) at(x, y int) cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return cell{}
	}
	return c.cells[y*c.w+x]
}

func dist(x, y int, cx, cy float64) float64 {
	dx := (float64(x) - cx) / 2
	dy := float64(y) - cy
	return math.Hypot(dx, dy)
}

var shades = []rune{'█', '▓', '▒', '░'}

// disc fills a shaded circle, densest at the center.
func (c *canvas) disc(cx, cy, radius float64, t tone) {
	if radius <= 0 {
		return
	}
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			d := dist(x, y, cx, cy)
			if d > radius {
				continue
			}
			i := int(d / radius * float64(len(shades)))
			if i >= len(shades) {
				i = len(shades) - 1
			}
			c.set(x, y, shades[i], t)
		}
	}
}

// ring draws a circle outline of the given thickness without overwriting
// anything already drawn.
func (c *canvas) ring(cx, cy, radius, thickness float64, r rune, t tone) {
	if radius <= 0 {
		return
	}
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			if math.Abs(dist(x, y, cx, cy)-radius) > thickness/2 {
				continue
			}
			if c.at(x, y).r == 0 {
				c.set(x, y, r, t)
			}
		}
	}
}

// spoke draws a ray from the center outward between two radii.
func (c *canvas) spoke(cx, cy, angle, from, to float64, t tone) {
	r := spokeRune(angle)
	for d := from; d <= to; d += 0.5 {
		x := int(math.Round(cx + math.Cos(angle)*d*2))
		y := int(math.Round(cy + math.Sin(angle)*d))
		if c.at(x, y).r == 0 {
			c.set(x, y, r, t)
		}
	}
}

func spokeRune(angle float64) rune {
	a := math.Mod(angle, math.Pi)
	if a < 0 {
		a += math.Pi
	}
	switch {
	case a < math.Pi/8 || a >= 7*math.Pi/8:
		return '─'
	case a < 3*math.Pi/8:
		return '╲'
	case a < 5*math.Pi/8:
		return '│'
	default:
		return '╱'
	}
}

// Render returns the grid as lines of styled text.
func (c *canvas) Render(primary, secondary string) string {
	styles := map[tone]lipgloss.Style{
		tonePrimary:   lipgloss.NewStyle().Foreground(lipgloss.Color(primary)),
		toneSecondary: lipgloss.NewStyle().Foreground(lipgloss.Color(secondary)),
		toneDim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}

	var b strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		// Group runs of the same tone to keep escape sequences short.
		var run strings.Builder
		runTone := toneNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := styles[runTone]; ok {
				b.WriteString(st.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for x := 0; x < c.w; x++ {
			cl := c.at(x, y)
			r := cl.r
			if r == 0 {
				r = ' '
			}
			if cl.tone != runTone {
				flush()
				runTone = cl.tone
			}
			run.WriteRune(r)
		}
		flush()
	}
	return b.String()
}
