// Package render provides drawing surfaces for gauge frames.
package render

import "strings"

// Pattern limits which columns of a line are drawn: a dot at column x is
// drawn when x%Period < On. The zero value draws every dot.
type Pattern struct {
	Period int
	On     int
}

func (p Pattern) keep(x int) bool {
	if p.Period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%p.Period < p.On
}

// dotBits maps a dot position inside a cell to its braille bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Canvas is a grid of braille cells. Every cell holds 2x4 dots and the
// colour of the last dot set in it.
type Canvas struct {
	cols   int
	rows   int
	dots   []uint8
	colors []string
}

// NewCanvas returns an empty canvas of cols x rows cells.
func NewCanvas(cols, rows int) *Canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Canvas{
		cols:   cols,
		rows:   rows,
		dots:   make([]uint8, cols*rows),
		colors: make([]string, cols*rows),
	}
}

// Cols returns the width in cells.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the height in cells.
func (c *Canvas) Rows() int { return c.rows }

// Set turns on the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int, color string) {
	if x < 0 || y < 0 || x >= c.cols*2 || y >= c.rows*4 {
		return
	}
	i := (y/4)*c.cols + x/2
	c.dots[i] |= dotBits[x%2][y%4]
	c.colors[i] = color
}

// Line draws a straight line of dots between two points.
func (c *Canvas) Line(x0, y0, x1, y1 int, color string, pattern Pattern) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		if pattern.keep(x0) {
			c.Set(x0, y0, color)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Cell returns the glyph and colour of a cell.
func (c *Canvas) Cell(col, row int) (rune, string) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return ' ', ""
	}
	i := row*c.cols + col
	return rune(0x2800 + int(c.dots[i])), c.colors[i]
}

// Lines renders every row. paint colours a run of glyphs sharing a colour;
// nil leaves the text plain.
func (c *Canvas) Lines(paint func(text, color string) string) []string {
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		var (
			b   strings.Builder
			run strings.Builder
			cur string
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if paint != nil && cur != "" {
				b.WriteString(paint(run.String(), cur))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for col := 0; col < c.cols; col++ {
			r, color := c.Cell(col, row)
			if color != cur {
				flush()
				cur = color
			}
			run.WriteRune(r)
		}
		flush()
		lines[row] = b.String()
	}
	return lines
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
