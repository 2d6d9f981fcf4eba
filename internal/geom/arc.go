package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/arcgauge/internal/model"
)

const (
	shapeEpsilon = 1e-12
	pathEpsilon  = 1e-6
	tau          = 2 * math.Pi
	halfPi       = math.Pi / 2
)

// Arc describes an annular sector centred on the origin. Angles are
// clockwise from 12 o'clock; the sector runs from StartAngle to EndAngle in
// either direction.
type Arc struct {
	InnerRadius float64 `json:"innerRadius" msgpack:"innerRadius"`
	OuterRadius float64 `json:"outerRadius" msgpack:"outerRadius"`
	StartAngle  float64 `json:"startAngle" msgpack:"startAngle"`
	EndAngle    float64 `json:"endAngle" msgpack:"endAngle"`
}

// Validate checks the radii.
func (a Arc) Validate() error {
	if !isFinite(a.InnerRadius) || !isFinite(a.OuterRadius) {
		return fmt.Errorf("%w: radii must be finite", model.ErrInvalidRadii)
	}
	if a.InnerRadius < 0 {
		return fmt.Errorf("%w: inner radius %v is negative", model.ErrInvalidRadii, a.InnerRadius)
	}
	if a.InnerRadius > a.OuterRadius {
		return fmt.Errorf("%w: inner radius %v exceeds outer radius %v", model.ErrInvalidRadii, a.InnerRadius, a.OuterRadius)
	}
	return nil
}

// Path renders the sector as an SVG path. Identical arcs always yield
// byte-identical output.
func (a Arc) Path() (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	r0, r1 := a.InnerRadius, a.OuterRadius
	a0 := a.StartAngle - halfPi
	a1 := a.EndAngle - halfPi
	da := math.Abs(a1 - a0)
	cw := a1 > a0

	var p pathBuilder
	switch {
	case !(r1 > shapeEpsilon):
		p.moveTo(0, 0)
	case da > tau-shapeEpsilon:
		p.moveTo(r1*math.Cos(a0), r1*math.Sin(a0))
		p.arc(r1, a0, a1, !cw)
		if r0 > shapeEpsilon {
			p.moveTo(r0*math.Cos(a1), r0*math.Sin(a1))
			p.arc(r0, a1, a0, cw)
		}
	default:
		x01, y01 := r1*math.Cos(a0), r1*math.Sin(a0)
		x10, y10 := r0*math.Cos(a1), r0*math.Sin(a1)
		p.moveTo(x01, y01)
		if da > shapeEpsilon {
			p.arc(r1, a0, a1, !cw)
		}
		if !(r0 > shapeEpsilon) || !(da > shapeEpsilon) {
			p.lineTo(x10, y10)
		} else {
			p.arc(r0, a1, a0, cw)
		}
	}
	p.closePath()
	return p.String(), nil
}

// Contains reports whether the point (x, y), in the arc's own coordinates
// with y pointing down, lies inside the sector.
func (a Arc) Contains(x, y float64) bool {
	r := math.Hypot(x, y)
	if r < a.InnerRadius || r > a.OuterRadius {
		return false
	}
	lo, hi := a.StartAngle, a.EndAngle
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo >= tau {
		return true
	}
	theta := math.Atan2(x, -y)
	for _, shift := range []float64{0, tau, -tau} {
		if t := theta + shift; t >= lo && t <= hi {
			return true
		}
	}
	return false
}

// Centroid returns the midpoint of the sector.
func (a Arc) Centroid() (float64, float64) {
	r := (a.InnerRadius + a.OuterRadius) / 2
	mid := (a.StartAngle+a.EndAngle)/2 - halfPi
	return math.Cos(mid) * r, math.Sin(mid) * r
}

type pathBuilder struct {
	b        strings.Builder
	x0, y0   float64
	x1, y1   float64
	hasPoint bool
}

func (p *pathBuilder) moveTo(x, y float64) {
	p.x0, p.y0, p.x1, p.y1 = x, y, x, y
	p.hasPoint = true
	p.b.WriteByte('M')
	p.writePoint(x, y)
}

func (p *pathBuilder) lineTo(x, y float64) {
	p.x1, p.y1 = x, y
	p.hasPoint = true
	p.b.WriteByte('L')
	p.writePoint(x, y)
}

func (p *pathBuilder) closePath() {
	if !p.hasPoint {
		return
	}
	p.x1, p.y1 = p.x0, p.y0
	p.b.WriteByte('Z')
}

// arc appends a circular arc centred on the origin, connecting from the
// current point with a line when needed.
func (p *pathBuilder) arc(r, a0, a1 float64, ccw bool) {
	dx, dy := r*math.Cos(a0), r*math.Sin(a0)
	sweep := 1
	da := a1 - a0
	if ccw {
		sweep = 0
		da = a0 - a1
	}
	if !p.hasPoint {
		p.b.WriteByte('M')
		p.writePoint(dx, dy)
	} else if math.Abs(p.x1-dx) > pathEpsilon || math.Abs(p.y1-dy) > pathEpsilon {
		p.lineTo(dx, dy)
	}
	if r == 0 {
		return
	}
	if da < 0 {
		da = math.Mod(da, tau) + tau
	}
	switch {
	case da > tau-pathEpsilon:
		p.writeArc(r, 1, sweep, -dx, -dy)
		p.writeArc(r, 1, sweep, dx, dy)
		p.x1, p.y1 = dx, dy
	case da > pathEpsilon:
		large := 0
		if da >= math.Pi {
			large = 1
		}
		x, y := r*math.Cos(a1), r*math.Sin(a1)
		p.writeArc(r, large, sweep, x, y)
		p.x1, p.y1 = x, y
	}
}

func (p *pathBuilder) writeArc(r float64, large, sweep int, x, y float64) {
	rs := FormatNumber(r)
	p.b.WriteByte('A')
	p.b.WriteString(rs)
	p.b.WriteByte(',')
	p.b.WriteString(rs)
	p.b.WriteString(",0,")
	p.b.WriteString(strconv.Itoa(large))
	p.b.WriteByte(',')
	p.b.WriteString(strconv.Itoa(sweep))
	p.b.WriteByte(',')
	p.writePoint(x, y)
}

func (p *pathBuilder) writePoint(x, y float64) {
	p.b.WriteString(FormatNumber(x))
	p.b.WriteByte(',')
	p.b.WriteString(FormatNumber(y))
}

func (p *pathBuilder) String() string {
	return p.b.String()
}

// FormatNumber prints v with the shortest round-trip digits, in fixed
// notation for 1e-6 <= |v| < 1e21 and exponent notation otherwise.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok || len(exp) < 2 {
		return s
	}
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + exp[:1] + digits
}
