// Package geom holds the value scale and annular sector geometry of a gauge.
package geom

import (
	"fmt"
	"math"

	"github.com/verte-zerg/arcgauge/internal/model"
)

// Angles of the gauge ends, measured clockwise from 12 o'clock.
const (
	BaseAngle = -math.Pi / 2
	TopAngle  = math.Pi / 2
)

// Scale maps a domain value onto [BaseAngle, TopAngle], clamping outside values.
type Scale struct {
	min float64
	max float64
}

// NewScale builds a scale for [min, max]. An empty or inverted range has no
// defined mapping and is rejected.
func NewScale(min, max float64) (Scale, error) {
	if !isFinite(min) || !isFinite(max) {
		return Scale{}, fmt.Errorf("%w: bounds must be finite (min=%v, max=%v)", model.ErrDegenerateRange, min, max)
	}
	if min >= max {
		return Scale{}, fmt.Errorf("%w: min %v must be below max %v", model.ErrDegenerateRange, min, max)
	}
	return Scale{min: min, max: max}, nil
}

// Min returns the lower domain bound.
func (s Scale) Min() float64 { return s.min }

// Max returns the upper domain bound.
func (s Scale) Max() float64 { return s.max }

// Angle maps v to its angle.
func (s Scale) Angle(v float64) float64 {
	t := (v - s.min) / (s.max - s.min)
	if !(t > 0) {
		return BaseAngle
	}
	if t >= 1 {
		return TopAngle
	}
	return Lerp(BaseAngle, TopAngle, t)
}

// Value maps an angle back into the domain.
func (s Scale) Value(angle float64) float64 {
	t := (angle - BaseAngle) / (TopAngle - BaseAngle)
	if !(t > 0) {
		return s.min
	}
	if t >= 1 {
		return s.max
	}
	return Lerp(s.min, s.max, t)
}

// Clamp limits v to the domain.
func (s Scale) Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < s.min:
		return s.min
	case v > s.max:
		return s.max
	default:
		return v
	}
}

// Lerp blends a and b; t=0 yields a and t=1 yields b exactly.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
