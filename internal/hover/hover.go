// Package hover maps pointer positions to threshold band expansion.
package hover

import (
	"time"

	"github.com/verte-zerg/arcgauge/internal/threshold"
)

// State is the width state of one threshold band.
type State int

const (
	Collapsed State = iota
	Expanded
)

func (s State) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Half is the horizontal half of the gauge a pointer is in.
type Half int

const (
	HalfNone Half = iota
	HalfLeft
	HalfRight
)

// BandAnimator starts a band width transition toward outerRadius.
type BandAnimator interface {
	AnimateBand(side threshold.Side, outerRadius float64, now time.Time)
}

// Geometry holds the radii and midpoint the controller works with.
type Geometry struct {
	MidX            float64
	CollapsedRadius float64
	ExpandedRadius  float64
}

// Controller tracks the collapsed/expanded state of both sides. At most one
// side is expanded at a time and tooltip visibility follows expansion.
type Controller struct {
	geo      Geometry
	enabled  [2]bool
	state    [2]State
	animator BandAnimator
}

// New returns a controller with both sides collapsed. enabled is indexed by
// threshold.Side; a disabled side never changes state.
func New(geo Geometry, enabled [2]bool, animator BandAnimator) *Controller {
	return &Controller{geo: geo, enabled: enabled, animator: animator}
}

// Resolve returns the half x lies in. The exact midpoint resolves to HalfNone.
func (c *Controller) Resolve(x float64) Half {
	switch {
	case x < c.geo.MidX:
		return HalfLeft
	case x > c.geo.MidX:
		return HalfRight
	default:
		return HalfNone
	}
}

// Move expands the band on the pointer's half and collapses the other.
// A pointer exactly at the midpoint keeps the current states.
func (c *Controller) Move(x float64, now time.Time) {
	var expand threshold.Side
	switch c.Resolve(x) {
	case HalfLeft:
		expand = threshold.SideLow
	case HalfRight:
		expand = threshold.SideHigh
	default:
		return
	}
	for _, side := range threshold.Sides {
		want := Collapsed
		if side == expand {
			want = Expanded
		}
		c.set(side, want, now)
	}
}

// Leave collapses both bands.
func (c *Controller) Leave(now time.Time) {
	for _, side := range threshold.Sides {
		c.set(side, Collapsed, now)
	}
}

// Reset collapses both bands without animating.
func (c *Controller) Reset() {
	c.state = [2]State{}
}

// State returns the state of side.
func (c *Controller) State(side threshold.Side) State {
	return c.state[side]
}

// TooltipVisible reports whether the tooltip of side is shown.
func (c *Controller) TooltipVisible(side threshold.Side) bool {
	return c.enabled[side] && c.state[side] == Expanded
}

// Enabled reports whether side reacts to the pointer.
func (c *Controller) Enabled(side threshold.Side) bool {
	return c.enabled[side]
}

// Radius returns the band outer radius for state.
func (c *Controller) Radius(state State) float64 {
	if state == Expanded {
		return c.geo.ExpandedRadius
	}
	return c.geo.CollapsedRadius
}

func (c *Controller) set(side threshold.Side, want State, now time.Time) {
	if !c.enabled[side] || c.state[side] == want {
		return
	}
	c.state[side] = want
	if c.animator != nil {
		c.animator.AnimateBand(side, c.Radius(want), now)
	}
}
