package anim

import (
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ValueTween is the coupled angle/colour/text transition of one value update.
// The three parts share a time window but step independently.
type ValueTween struct {
	Angle Tween
	Text  Tween
	Color ColorTween
}

// ValueFrame is one sample of a ValueTween.
type ValueFrame struct {
	Angle float64
	Text  float64
	Color colorful.Color
}

// ValueTarget is the resting point a ValueTween moves to.
type ValueTarget struct {
	Angle float64
	Text  float64
	Color colorful.Color
}

// NewValueTween starts a transition from the given frame to target.
func NewValueTween(from ValueFrame, to ValueTarget, now time.Time, d time.Duration, ease Easing) ValueTween {
	return ValueTween{
		Angle: NewTween(from.Angle, to.Angle, now, d, ease),
		Text:  NewTween(from.Text, to.Text, now, d, ease),
		Color: NewColorTween(from.Color, to.Color, now, d, ease),
	}
}

// Target returns the values the tween commits on completion.
func (v ValueTween) Target() ValueTarget {
	return ValueTarget{Angle: v.Angle.To, Text: v.Text.To, Color: v.Color.To}
}

// StepValue samples all three parts at now; done is true once every part
// has committed its exact target.
func StepValue(v ValueTween, now time.Time) (ValueFrame, bool) {
	angle, angleDone := StepTween(v.Angle, now)
	text, textDone := StepTween(v.Text, now)
	color, colorDone := StepColor(v.Color, now)
	return ValueFrame{Angle: angle, Text: text, Color: color}, angleDone && textDone && colorDone
}
