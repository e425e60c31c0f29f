package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cellKind int

const (
	cellBlank cellKind = iota
	cellTrack
	cellArc
	cellLabel
)

// Ring is the circular progress indicator. The arc grows clockwise from
// twelve o'clock; 0% is an empty track and 100% a closed circle.
type Ring struct {
	Radius int
	Arc    lipgloss.Style
	Track  lipgloss.Style
	Label  lipgloss.Style
}

func NewRing(radius int) Ring {
	return Ring{
		Radius: radius,
		Arc:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6366f1")),
		Track:  lipgloss.NewStyle().Foreground(lipgloss.Color("#e2e8f0")),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1f2937")),
	}
}

func (r Ring) Circumference() float64 {
	return 2 * math.Pi * float64(r.Radius)
}

// DashOffset is the length of the ring left unfilled at percent.
func (r Ring) DashOffset(percent float64) float64 {
	return r.Circumference() * (1 - clampPercent(percent)/100)
}

// cells lays the ring out on a (2R+1)x(2R+1) grid.
func (r Ring) cells(percent float64) [][]cellKind {
	percent = clampPercent(percent)
	size := 2*r.Radius + 1
	grid := make([][]cellKind, size)
	for y := range grid {
		grid[y] = make([]cellKind, size)
		for x := range grid[y] {
			dx := float64(x - r.Radius)
			dy := float64(y - r.Radius)
			if math.Abs(math.Hypot(dx, dy)-float64(r.Radius)) > 0.5 {
				continue
			}
			theta := math.Atan2(dx, -dy)
			if theta < 0 {
				theta += 2 * math.Pi
			}
			if theta/(2*math.Pi)*100 < percent {
				grid[y][x] = cellArc
			} else {
				grid[y][x] = cellTrack
			}
		}
	}
	return grid
}

// Render draws the ring with label centered inside it. Each grid cell is two
// characters wide to keep the circle round in a terminal.
func (r Ring) Render(percent float64, label string) string {
	grid := r.cells(percent)
	size := len(grid)
	width := size * 2
	mid := size / 2
	text := []rune(label)
	start := (width - len(text)) / 2

	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		runKind := cellBlank
		flush := func() {
			if len(run) > 0 {
				b.WriteString(r.style(runKind, string(run)))
				run = run[:0]
			}
		}
		for x := 0; x < width; x++ {
			kind := row[x/2]
			ch := glyph(kind)
			if y == mid && x >= start && x < start+len(text) {
				kind = cellLabel
				ch = text[x-start]
			}
			if kind != runKind {
				flush()
				runKind = kind
			}
			run = append(run, ch)
		}
		flush()
	}
	return b.String()
}

func (r Ring) style(kind cellKind, s string) string {
	switch kind {
	case cellArc:
		return r.Arc.Render(s)
	case cellTrack:
		return r.Track.Render(s)
	case cellLabel:
		return r.Label.Render(s)
	}
	return s
}

func glyph(kind cellKind) rune {
	switch kind {
	case cellArc:
		return '█'
	case cellTrack:
		return '░'
	}
	return ' '
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
