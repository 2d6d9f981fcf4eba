package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/arcgauge/internal/gauge"
	"github.com/verte-zerg/arcgauge/internal/geom"
)

const (
	// Average glyph advance and line box relative to the font size.
	charWidth  = 0.6
	lineHeight = 1.15

	tooltipFontSize = 10
	tooltipPadding  = 8
)

// SVG keeps the last rendered frame as a standalone SVG document. Text is
// measured from an average glyph width since there is no font engine.
type SVG struct {
	width    float64
	height   float64
	doc      []byte
	detached bool
}

// NewSVG returns a surface of the given size.
func NewSVG(width, height float64) *SVG {
	return &SVG{width: width, height: height}
}

// Resize changes the surface size. Callers redraw the widget afterwards.
func (s *SVG) Resize(width, height float64) {
	s.width, s.height = width, height
}

// Size implements gauge.Surface.
func (s *SVG) Size() (float64, float64) {
	return s.width, s.height
}

// MeasureText implements gauge.Surface.
func (s *SVG) MeasureText(text string, style gauge.TextStyle) (float64, float64) {
	return float64(runewidth.StringWidth(text)) * style.FontSize * charWidth, style.FontSize * lineHeight
}

// Render implements gauge.Surface.
func (s *SVG) Render(frame gauge.Frame) error {
	if s.detached {
		return ErrDetached
	}
	var buf bytes.Buffer
	if err := WriteSVG(&buf, frame); err != nil {
		return err
	}
	s.doc = buf.Bytes()
	return nil
}

// Detach implements gauge.Surface.
func (s *SVG) Detach() error {
	s.detached = true
	s.doc = nil
	return nil
}

// Bytes returns the last rendered document.
func (s *SVG) Bytes() []byte {
	return s.doc
}

// String returns the last rendered document.
func (s *SVG) String() string {
	return string(s.doc)
}

type svgWriter struct {
	w   io.Writer
	err error
}

func (sw *svgWriter) printf(format string, args ...any) {
	if sw.err != nil {
		return
	}
	_, sw.err = fmt.Fprintf(sw.w, format, args...)
}

func num(v float64) string {
	return geom.FormatNumber(v)
}

// WriteSVG writes frame as an SVG document. Output is byte-identical for
// identical frames.
func WriteSVG(w io.Writer, frame gauge.Frame) error {
	sw := &svgWriter{w: w}
	sw.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" overflow="visible">
`, num(frame.Width), num(frame.Height), num(frame.Width), num(frame.Height))
	sw.printf(`<g transform="translate(%s,%s)">
`, num(frame.CenterX), num(frame.CenterY))
	sw.printf(`<path class="background" d="%s" fill="%s"/>
`, frame.Background.Path, frame.Background.Fill)
	sw.printf(`<path class="foreground" d="%s" fill="%s"/>
`, frame.Foreground.Path, frame.Foreground.Fill)
	for _, b := range frame.Bands {
		sw.printf(`<path class="band %s" data-state="%s" d="%s" fill="%s"><title>%s</title></path>
`, b.Side, b.State, b.Path, b.Fill, html.EscapeString(b.Name))
	}
	for _, l := range []struct {
		class string
		label gauge.Label
	}{{"min", frame.MinLabel}, {"max", frame.MaxLabel}, {"value", frame.ValueLabel}} {
		sw.printf(`<text class="%s" text-anchor="%s" transform="translate(%s,%s)" style="font-family:%s;font-size:%spx" fill="%s">%s</text>
`, l.class, l.label.Anchor, num(l.label.X), num(l.label.Y), html.EscapeString(l.label.Style.FontFamily),
			num(l.label.Style.FontSize), l.label.Fill, html.EscapeString(l.label.Text))
	}
	sw.printf("</g>\n")

	for _, tip := range frame.Tooltips {
		lines := strings.Split(tip.Text, "\n")
		longest := 0
		for _, line := range lines {
			longest = max(longest, runewidth.StringWidth(line))
		}
		boxW := float64(longest)*tooltipFontSize*charWidth + 2*tooltipPadding
		boxH := float64(len(lines))*tooltipFontSize*lineHeight + 2*tooltipPadding
		x := tip.Offset
		if tip.Edge == "right" {
			x = frame.Width - tip.Offset - boxW
		}
		visibility := "hidden"
		if tip.Visible {
			visibility = "visible"
		}
		sw.printf(`<g class="tooltip %s" visibility="%s" transform="translate(%s,%s)">
<rect width="%s" height="%s" fill="rgba(97,97,97,0.9)"/>
<text fill="#fff" style="font-family:Roboto,Helvetica,Arial,sans-serif;font-size:%dpx">`,
			tip.Side, visibility, num(x), num(tip.Top), num(boxW), num(boxH), tooltipFontSize)
		for i, line := range lines {
			sw.printf(`<tspan x="%d" y="%s">%s</tspan>`, tooltipPadding,
				num(tooltipPadding+float64(i+1)*tooltipFontSize*lineHeight), html.EscapeString(line))
		}
		sw.printf("</text>\n</g>\n")
	}
	sw.printf("</svg>\n")
	return sw.err
}
