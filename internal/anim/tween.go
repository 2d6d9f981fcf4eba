// Package anim provides time-based interpolation of gauge properties.
//
// Every in-flight animation is a plain value (Tween, ColorTween, ValueTween)
// advanced by a pure step function, so callers own all mutable state and can
// drive animations from any scheduler, or from synthetic timestamps in tests.
package anim

import (
	"fmt"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/verte-zerg/arcgauge/internal/geom"
	"github.com/verte-zerg/arcgauge/internal/model"
)

// BandDuration is the fixed length of threshold band width transitions.
const BandDuration = 200 * time.Millisecond

// Easing maps linear time progress in [0,1] to animation progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// CubicInOut is the symmetric cubic easing, the default for value transitions.
func CubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// EasingByName resolves an easing from its config name. Empty means cubic-in-out.
func EasingByName(name string) (Easing, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", model.EasingCubicInOut:
		return CubicInOut, nil
	case model.EasingLinear:
		return Linear, nil
	default:
		return nil, fmt.Errorf("%w: unknown easing %q", model.ErrInvalidOption, name)
	}
}

// Tween interpolates a single number.
type Tween struct {
	Start    time.Time
	Duration time.Duration
	From     float64
	To       float64
	Ease     Easing
}

// NewTween starts a tween at now.
func NewTween(from, to float64, now time.Time, d time.Duration, ease Easing) Tween {
	return Tween{Start: now, Duration: d, From: from, To: to, Ease: ease}
}

// StepTween samples t at now. Once done it returns To exactly.
func StepTween(t Tween, now time.Time) (float64, bool) {
	p, done := progress(t.Start, t.Duration, t.Ease, now)
	if done {
		return t.To, true
	}
	return geom.Lerp(t.From, t.To, p), false
}

// ColorTween interpolates a colour component-wise in RGB.
type ColorTween struct {
	Start    time.Time
	Duration time.Duration
	From     colorful.Color
	To       colorful.Color
	Ease     Easing
}

// NewColorTween starts a colour tween at now.
func NewColorTween(from, to colorful.Color, now time.Time, d time.Duration, ease Easing) ColorTween {
	return ColorTween{Start: now, Duration: d, From: from, To: to, Ease: ease}
}

// StepColor samples c at now. Once done it returns To exactly.
func StepColor(c ColorTween, now time.Time) (colorful.Color, bool) {
	p, done := progress(c.Start, c.Duration, c.Ease, now)
	if done {
		return c.To, true
	}
	return c.From.BlendRgb(c.To, p), false
}

func progress(start time.Time, d time.Duration, ease Easing, now time.Time) (float64, bool) {
	elapsed := now.Sub(start)
	if d <= 0 || elapsed >= d {
		return 1, true
	}
	if elapsed <= 0 {
		return 0, false
	}
	t := float64(elapsed) / float64(d)
	if ease == nil {
		return t, false
	}
	return ease(t), false
}
