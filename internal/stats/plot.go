// Package stats renders reports over recorded gauge samples.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/arcgauge/internal/geom"
	"github.com/verte-zerg/arcgauge/internal/render"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

type lineStyle struct {
	name    string
	pattern render.Pattern
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisSeparator       = " │ "
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid"},
	{name: "dashed", pattern: render.Pattern{Period: 6, On: 3}},
	{name: "dotted", pattern: render.Pattern{Period: 4, On: 1}},
	{name: "dashdot", pattern: render.Pattern{Period: 8, On: 3}},
}

// ANSI cyan, magenta, yellow, green, blue.
var colorPalette = []string{"6", "5", "3", "2", "4"}

// PlotSeries renders a multi-line braille plot for the provided series.
// All series share one value axis.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return PlotSeriesWithColor(w, title, series, width, height, shouldUseColor(w))
}

// PlotSeriesWithColor renders a plot, colouring series when useColor is set.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, useColor bool) error {
	series = filterSeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	scaled := make([]Series, 0, len(series))
	for _, s := range series {
		scaled = append(scaled, Series{Name: s.Name, Values: resampleSeries(s.Values, width)})
	}
	minVal, maxVal := seriesMinMax(scaled)
	if math.Abs(maxVal-minVal) < 1e-9 {
		minVal--
		maxVal++
	}

	canvas := render.NewCanvas(width, height)
	// Drawn back to front so the first series owns shared cells.
	for si := len(scaled) - 1; si >= 0; si-- {
		style := lineStyles[si%len(lineStyles)]
		color := colorPalette[si%len(colorPalette)]
		prevX, prevY := -1, -1
		for x, v := range scaled[si].Values {
			px, py := x*2, valueToRow(v, minVal, maxVal, height*4)
			if prevX >= 0 {
				canvas.Line(prevX, prevY, px, py, color, style.pattern)
			} else {
				canvas.Line(px, py, px, py, color, style.pattern)
			}
			prevX, prevY = px, py
		}
	}

	var paint func(text, color string) string
	if useColor {
		paint = func(text, color string) string {
			return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	labels := makeAxisLabels(height, minVal, maxVal)
	axisWidth := 0
	for _, l := range labels {
		axisWidth = max(axisWidth, runewidth.StringWidth(l))
	}
	for y, line := range canvas.Lines(paint) {
		if _, err := fmt.Fprintf(w, "%s%s%s\n", runewidth.FillLeft(labels[y], axisWidth), axisSeparator, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, renderLegend(scaled, paint)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisReserve(), minPlotWidth)
}

// axisReserve is the widest axis label PlotWidthFor plans for.
func axisReserve() int {
	return 8 + runewidth.StringWidth(axisSeparator)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func makeAxisLabels(height int, minVal, maxVal float64) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	label := func(v float64) string {
		return geom.FormatNumber(math.Round(v*100) / 100)
	}
	labels[0] = label(maxVal)
	if height > 2 {
		labels[height/2] = label(minVal + (maxVal-minVal)*(1-float64(height/2)/float64(height-1)))
	}
	if height > 1 {
		labels[height-1] = label(minVal)
	}
	return labels
}

func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := int(float64(i) * float64(len(values)) / float64(width))
			end := int(float64(i+1) * float64(len(values)) / float64(width))
			if end <= start {
				end = start + 1
			}
			if end > len(values) {
				end = len(values)
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if width == 1 || len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		out[i] = geom.Lerp(values[idx], values[idx+1], pos-float64(idx))
	}
	return out
}

func seriesMinMax(series []Series) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if math.IsInf(minVal, 1) {
		return 0, 0
	}
	return minVal, maxVal
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	return min(max(row, 0), height-1)
}

func renderLegend(series []Series, paint func(text, color string) string) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, lineStyles[i%len(lineStyles)].name)
		if paint != nil {
			label = paint(label, colorPalette[i%len(colorPalette)])
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}
