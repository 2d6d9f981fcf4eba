// Package generator produces randomised gauge input for demos.
package generator

import (
	"math"
	"math/rand"
	"time"
)

// Generator produces random values and colours.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Value picks a value uniformly from [lo, hi].
func (g *Generator) Value(lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + g.rnd.Float64()*(hi-lo)
}

// Walk moves current by at most step in a random direction, staying inside
// [lo, hi].
func (g *Generator) Walk(current, lo, hi, step float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	next := current + (g.rnd.Float64()*2-1)*step
	return math.Min(hi, math.Max(lo, next))
}

// Color picks one entry of palette. An empty palette yields "".
func (g *Generator) Color(palette []string) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[g.rnd.Intn(len(palette))]
}
