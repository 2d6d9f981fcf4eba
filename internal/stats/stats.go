package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/arcgauge/internal/gauge"
	"github.com/verte-zerg/arcgauge/internal/model"
)

const (
	sparkChars      = " .:-=+*#%@"
	sparklineWidth  = 24
	trendWindow     = 5
	sessionIDLength = 8
)

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = min(max(idx, 0), len(sparkChars)-1)
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Values returns the recorded values of samples, skipping colour-only
// updates.
func Values(samples []model.Sample) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.Value != nil {
			out = append(out, *s.Value)
		}
	}
	return out
}

// RenderSessions prints one row per recorded session.
func RenderSessions(w io.Writer, sessions []SessionReport) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	headers := []string{"Session", "Started", "Duration", "Samples", "Trend"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		trend := s.Values
		if len(trend) > sparklineWidth {
			trend = resampleSeries(trend, sparklineWidth)
		}
		rows = append(rows, []string{
			shortID(s.Summary.Session),
			s.Summary.StartedAt.Local().Format(time.DateTime),
			s.Summary.EndedAt.Sub(s.Summary.StartedAt).Round(time.Millisecond).String(),
			strconv.Itoa(s.Summary.Samples),
			Sparkline(trend),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSamples prints the samples of one session with offsets relative to
// its first sample.
func RenderSamples(w io.Writer, session string, samples []model.Sample, format gauge.Formatter) error {
	if len(samples) == 0 {
		_, err := fmt.Fprintln(w, "No samples found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Samples (%s)\n", shortID(session)); err != nil {
		return err
	}
	headers := []string{"#", "Offset", "Value", "Color"}
	rows := make([][]string, 0, len(samples))
	start := samples[0].At
	for i, s := range samples {
		value, color := "-", "-"
		if s.Value != nil {
			value = format.Format(*s.Value)
		}
		if s.Color != nil {
			color = *s.Color
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.At.Sub(start).Round(time.Millisecond).String(),
			value,
			color,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurve plots the values of samples with their moving average.
func RenderCurve(w io.Writer, samples []model.Sample, totalWidth, height int, useColor bool) error {
	values := Values(samples)
	if len(values) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Value", []Series{
		{Name: "Value", Values: values},
		{Name: fmt.Sprintf("Average (%d)", trendWindow), Values: MovingAverage(values, trendWindow)},
	}, width, height, useColor)
}

// RenderHistory prints the session table, the sample table and the value
// curve of the selected session.
func RenderHistory(w io.Writer, report Report, format gauge.Formatter, totalWidth int, useColor bool) error {
	if err := RenderSessions(w, report.Sessions); err != nil {
		return err
	}
	if report.Session == "" {
		return nil
	}
	if err := RenderSamples(w, report.Session, report.Samples, format); err != nil {
		return err
	}
	return RenderCurve(w, report.Samples, totalWidth, defaultPlotHeight, useColor)
}

func shortID(id string) string {
	if len(id) <= sessionIDLength {
		return id
	}
	return id[:sessionIDLength]
}
