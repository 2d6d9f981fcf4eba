package render

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/arcgauge/internal/gauge"
	"github.com/verte-zerg/arcgauge/internal/geom"
)

// ErrDetached is returned when rendering into a detached surface.
var ErrDetached = errors.New("surface detached")

var tooltipStyle = lipgloss.NewStyle().
	Background(lipgloss.Color("#616161")).
	Foreground(lipgloss.Color("#FFFFFF"))

// Terminal rasterises frames into braille cells. One cell is 2x4 surface
// units, so a terminal of cols x rows cells reports a (2*cols)x(4*rows)
// surface. Text is measured in whole cells regardless of font size.
type Terminal struct {
	cols     int
	rows     int
	plain    bool
	lines    []string
	detached bool
}

// NewTerminal returns a surface of cols x rows cells.
func NewTerminal(cols, rows int) *Terminal {
	t := &Terminal{}
	t.Resize(cols, rows)
	return t
}

// SetPlain disables colour output.
func (t *Terminal) SetPlain(plain bool) {
	t.plain = plain
}

// Resize changes the cell grid. Callers redraw the widget afterwards.
func (t *Terminal) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	t.cols, t.rows = cols, rows
}

// Cols returns the width in cells.
func (t *Terminal) Cols() int { return t.cols }

// Rows returns the height in cells.
func (t *Terminal) Rows() int { return t.rows }

// Size implements gauge.Surface.
func (t *Terminal) Size() (float64, float64) {
	return float64(t.cols * 2), float64(t.rows * 4)
}

// MeasureText implements gauge.Surface.
func (t *Terminal) MeasureText(text string, _ gauge.TextStyle) (float64, float64) {
	return float64(runewidth.StringWidth(text) * 2), 4
}

// CellCenter maps a cell to the surface coordinates of its centre.
func (t *Terminal) CellCenter(col, row int) (float64, float64) {
	return float64(col*2) + 1, float64(row*4) + 2
}

// Render implements gauge.Surface.
func (t *Terminal) Render(frame gauge.Frame) error {
	if t.detached {
		return ErrDetached
	}
	canvas := NewCanvas(t.cols, t.rows)
	type layer struct {
		arc  geom.Arc
		fill string
	}
	layers := []layer{{frame.Background.Arc, frame.Background.Fill}, {frame.Foreground.Arc, frame.Foreground.Fill}}
	for _, b := range frame.Bands {
		layers = append(layers, layer{b.Arc, b.Fill})
	}
	for y := 0; y < t.rows*4; y++ {
		for x := 0; x < t.cols*2; x++ {
			px := float64(x) + 0.5 - frame.CenterX
			py := float64(y) + 0.5 - frame.CenterY
			for i := len(layers) - 1; i >= 0; i-- {
				if layers[i].arc.Contains(px, py) {
					canvas.Set(x, y, layers[i].fill)
					break
				}
			}
		}
	}

	grid := newTextGrid(t.cols, t.rows)
	for _, l := range []gauge.Label{frame.MinLabel, frame.MaxLabel, frame.ValueLabel} {
		col := int((frame.CenterX + l.X) / 2)
		if l.Anchor == "middle" {
			col -= runewidth.StringWidth(l.Text) / 2
		}
		// Labels hanging below the grid are pulled onto the last row.
		row := min(t.rows-1, int((frame.CenterY+l.Y-1)/4))
		grid.put(col, row, l.Text, l.Fill, false)
	}
	for _, tip := range frame.Tooltips {
		if !tip.Visible {
			continue
		}
		lines := strings.Split(tip.Text, "\n")
		width := 0
		for _, line := range lines {
			width = max(width, runewidth.StringWidth(line))
		}
		col := 0
		if tip.Edge == "right" {
			col = t.cols - width - 2
		}
		row := max(0, int(tip.Top/4))
		for i, line := range lines {
			grid.put(col, row+i, " "+runewidth.FillRight(line, width)+" ", "", true)
		}
	}

	var paint func(text, color string) string
	if !t.plain {
		paint = func(text, color string) string {
			return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
		}
	}
	t.lines = grid.compose(canvas, paint)
	return nil
}

// Detach implements gauge.Surface.
func (t *Terminal) Detach() error {
	t.detached = true
	t.lines = nil
	return nil
}

// View returns the last rendered frame.
func (t *Terminal) View() string {
	return strings.Join(t.lines, "\n")
}

type textCell struct {
	r       rune
	color   string
	tooltip bool
	// skip marks the trailing half of a wide rune.
	skip bool
	set  bool
}

type textGrid struct {
	cols  int
	rows  int
	cells []textCell
}

func newTextGrid(cols, rows int) *textGrid {
	return &textGrid{cols: cols, rows: rows, cells: make([]textCell, cols*rows)}
}

func (g *textGrid) put(col, row int, text, color string, tooltip bool) {
	if row < 0 || row >= g.rows {
		return
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if col >= 0 && col+w <= g.cols {
			g.cells[row*g.cols+col] = textCell{r: r, color: color, tooltip: tooltip, set: true}
			for i := 1; i < w; i++ {
				g.cells[row*g.cols+col+i] = textCell{skip: true, set: true}
			}
		}
		col += w
	}
}

func (g *textGrid) compose(canvas *Canvas, paint func(text, color string) string) []string {
	lines := make([]string, g.rows)
	for row := 0; row < g.rows; row++ {
		var b strings.Builder
		for col := 0; col < g.cols; col++ {
			cell := g.cells[row*g.cols+col]
			switch {
			case cell.skip:
			case cell.set && cell.tooltip && paint != nil:
				b.WriteString(tooltipStyle.Render(string(cell.r)))
			case cell.set:
				if paint != nil && cell.color != "" {
					b.WriteString(paint(string(cell.r), cell.color))
				} else {
					b.WriteRune(cell.r)
				}
			default:
				r, color := canvas.Cell(col, row)
				if paint != nil && color != "" {
					b.WriteString(paint(string(r), color))
				} else {
					b.WriteRune(r)
				}
			}
		}
		lines[row] = b.String()
	}
	return lines
}
