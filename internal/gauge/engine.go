package gauge

import (
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/verte-zerg/arcgauge/internal/anim"
	"github.com/verte-zerg/arcgauge/internal/threshold"
)

// fill names a static colour that fades independently of the value lane.
type fill int

const (
	fillBackground fill = iota
	fillMinLabel
	fillMaxLabel
	fillValueLabel
	fillCount
)

// engine owns every animation lane of one widget: the value lane (angle,
// colour and text), one band width lane per side and one lane per static
// fill. Lanes hold plain tween values; step samples them at a timestamp.
type engine struct {
	duration time.Duration
	ease     anim.Easing

	value *anim.ValueTween
	bands [2]*anim.Tween
	fills [fillCount]*anim.ColorTween

	cur       anim.ValueFrame
	bandOuter [2]float64
	fill      [fillCount]colorful.Color
}

func newEngine(duration time.Duration, ease anim.Easing, rest anim.ValueFrame, bandOuter float64, fills [fillCount]colorful.Color) *engine {
	return &engine{
		duration:  duration,
		ease:      ease,
		cur:       rest,
		bandOuter: [2]float64{bandOuter, bandOuter},
		fill:      fills,
	}
}

func (e *engine) animating() bool {
	if e.value != nil {
		return true
	}
	for _, b := range e.bands {
		if b != nil {
			return true
		}
	}
	for _, f := range e.fills {
		if f != nil {
			return true
		}
	}
	return false
}

// step samples every lane at now and commits the ones that finished.
// It reports whether any lane is still in flight.
func (e *engine) step(now time.Time) bool {
	if e.value != nil {
		frame, done := anim.StepValue(*e.value, now)
		e.cur = frame
		if done {
			e.value = nil
		}
	}
	for i, b := range e.bands {
		if b == nil {
			continue
		}
		r, done := anim.StepTween(*b, now)
		e.bandOuter[i] = r
		if done {
			e.bands[i] = nil
		}
	}
	for i, f := range e.fills {
		if f == nil {
			continue
		}
		c, done := anim.StepColor(*f, now)
		e.fill[i] = c
		if done {
			e.fills[i] = nil
		}
	}
	return e.animating()
}

// retarget replaces the value lane with a transition from the frame sampled
// at now to target. It reports whether an unfinished transition was dropped.
func (e *engine) retarget(target anim.ValueTarget, now time.Time) bool {
	e.step(now)
	superseded := e.value != nil
	if e.duration <= 0 {
		e.value = nil
		e.cur = anim.ValueFrame(target)
		return superseded
	}
	vt := anim.NewValueTween(e.cur, target, now, e.duration, e.ease)
	e.value = &vt
	return superseded
}

// valueTarget is where the value lane comes to rest.
func (e *engine) valueTarget() anim.ValueTarget {
	if e.value != nil {
		return e.value.Target()
	}
	return anim.ValueTarget(e.cur)
}

// AnimateBand implements hover.BandAnimator.
func (e *engine) AnimateBand(side threshold.Side, outerRadius float64, now time.Time) {
	e.step(now)
	tw := anim.NewTween(e.bandOuter[side], outerRadius, now, anim.BandDuration, anim.Linear)
	e.bands[side] = &tw
}

func (e *engine) animateFill(f fill, to colorful.Color, now time.Time) {
	e.step(now)
	if e.duration <= 0 {
		e.fills[f] = nil
		e.fill[f] = to
		return
	}
	tw := anim.NewColorTween(e.fill[f], to, now, e.duration, e.ease)
	e.fills[f] = &tw
}

// stop drops every lane, leaving the last sampled values in place.
func (e *engine) stop() {
	e.value = nil
	e.bands = [2]*anim.Tween{}
	e.fills = [fillCount]*anim.ColorTween{}
}
