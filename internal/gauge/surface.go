package gauge

import (
	"github.com/verte-zerg/arcgauge/internal/geom"
)

// TextStyle describes how a label is drawn.
type TextStyle struct {
	FontFamily string  `json:"fontFamily" msgpack:"fontFamily"`
	FontSize   float64 `json:"fontSize" msgpack:"fontSize"`
}

// Surface is the drawing target of a widget. Coordinates passed to the
// widget's pointer methods are in the same units as Size.
type Surface interface {
	// Size reports the drawable area.
	Size() (width, height float64)
	// MeasureText returns the bounding box of text drawn with style.
	MeasureText(text string, style TextStyle) (width, height float64)
	// Render draws a complete frame, replacing the previous one.
	Render(frame Frame) error
	// Detach releases the surface; Render is never called afterwards.
	Detach() error
}

// Shape is one filled annular sector.
type Shape struct {
	Arc  geom.Arc `json:"arc" msgpack:"arc"`
	Path string   `json:"path" msgpack:"path"`
	Fill string   `json:"fill" msgpack:"fill"`
}

// BandShape is a drawn threshold band.
type BandShape struct {
	Side  string   `json:"side" msgpack:"side"`
	Name  string   `json:"name" msgpack:"name"`
	Hover bool     `json:"hover" msgpack:"hover"`
	State string   `json:"state" msgpack:"state"`
	Arc   geom.Arc `json:"arc" msgpack:"arc"`
	Path  string   `json:"path" msgpack:"path"`
	Fill  string   `json:"fill" msgpack:"fill"`
}

// Label is a text node positioned relative to the gauge centre.
type Label struct {
	Text   string    `json:"text" msgpack:"text"`
	X      float64   `json:"x" msgpack:"x"`
	Y      float64   `json:"y" msgpack:"y"`
	Anchor string    `json:"anchor" msgpack:"anchor"`
	Style  TextStyle `json:"style" msgpack:"style"`
	Fill   string    `json:"fill" msgpack:"fill"`
}

// Tooltip is the description box of a hover band. Edge names the surface
// edge Offset is measured from; Top is measured from the top edge.
type Tooltip struct {
	Side    string  `json:"side" msgpack:"side"`
	Text    string  `json:"text" msgpack:"text"`
	Visible bool    `json:"visible" msgpack:"visible"`
	Edge    string  `json:"edge" msgpack:"edge"`
	Offset  float64 `json:"offset" msgpack:"offset"`
	Top     float64 `json:"top" msgpack:"top"`
}

// Frame is everything a surface needs to draw one gauge. Shapes and labels
// are relative to (CenterX, CenterY).
type Frame struct {
	Width      float64     `json:"width" msgpack:"width"`
	Height     float64     `json:"height" msgpack:"height"`
	CenterX    float64     `json:"centerX" msgpack:"centerX"`
	CenterY    float64     `json:"centerY" msgpack:"centerY"`
	Background Shape       `json:"background" msgpack:"background"`
	Foreground Shape       `json:"foreground" msgpack:"foreground"`
	Bands      []BandShape `json:"bands" msgpack:"bands"`
	MinLabel   Label       `json:"minLabel" msgpack:"minLabel"`
	MaxLabel   Label       `json:"maxLabel" msgpack:"maxLabel"`
	ValueLabel Label       `json:"valueLabel" msgpack:"valueLabel"`
	Tooltips   []Tooltip   `json:"tooltips" msgpack:"tooltips"`
	Animating  bool        `json:"animating" msgpack:"animating"`
}
