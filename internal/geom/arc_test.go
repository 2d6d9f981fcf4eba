package geom

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/arcgauge/internal/model"
)

func TestFormatNumberShortestForm(t *testing.T) {
	cases := map[float64]string{
		0:                     "0",
		math.Copysign(0, -1):  "0",
		1.5:                   "1.5",
		-100:                  "-100",
		0.000001:              "0.000001",
		1e-7:                  "1e-7",
		6.123233995736766e-17: "6.123233995736766e-17",
		1e21:                  "1e+21",
		123456.789:            "123456.789",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "input %v", in)
	}
}

func TestArcPathQuarterSector(t *testing.T) {
	arc := Arc{InnerRadius: 0, OuterRadius: 10, StartAngle: math.Pi / 2, EndAngle: math.Pi}
	got, err := arc.Path()
	require.NoError(t, err)

	endX := FormatNumber(10 * math.Cos(math.Pi/2))
	want := "M10,0A10,10,0,0,1," + endX + ",10L0,0Z"
	assert.Equal(t, want, got)
}

func TestArcPathHalfAnnulusFlags(t *testing.T) {
	arc := Arc{InnerRadius: 94, OuterRadius: 100, StartAngle: BaseAngle, EndAngle: TopAngle}
	got, err := arc.Path()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "M-100,"), got)
	assert.Contains(t, got, "A100,100,0,1,1,100,")
	assert.Contains(t, got, "L94,")
	assert.Contains(t, got, "A94,94,0,1,0,-94,")
	assert.True(t, strings.HasSuffix(got, "Z"), got)
}

func TestArcPathReversedDirectionSweepsCounterClockwise(t *testing.T) {
	forward, err := Arc{InnerRadius: 5, OuterRadius: 10, StartAngle: 0, EndAngle: 1}.Path()
	require.NoError(t, err)
	backward, err := Arc{InnerRadius: 5, OuterRadius: 10, StartAngle: 1, EndAngle: 0}.Path()
	require.NoError(t, err)

	assert.Contains(t, forward, "A10,10,0,0,1,")
	assert.Contains(t, backward, "A10,10,0,0,0,")
}

func TestArcPathIsDeterministic(t *testing.T) {
	arc := Arc{InnerRadius: 40, OuterRadius: 46, StartAngle: BaseAngle, EndAngle: 0.3}
	first, err := arc.Path()
	require.NoError(t, err)
	second, err := arc.Path()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestArcPathCollapsedSector(t *testing.T) {
	got, err := Arc{InnerRadius: 4, OuterRadius: 10, StartAngle: BaseAngle, EndAngle: BaseAngle}.Path()
	require.NoError(t, err)
	assert.NotContains(t, got, "A")
	assert.Contains(t, got, "L")
}

func TestArcPathRejectsInvalidRadii(t *testing.T) {
	_, err := Arc{InnerRadius: 11, OuterRadius: 10}.Path()
	require.ErrorIs(t, err, model.ErrInvalidRadii)

	_, err = Arc{InnerRadius: -1, OuterRadius: 10}.Path()
	require.ErrorIs(t, err, model.ErrInvalidRadii)
}

func TestArcContains(t *testing.T) {
	arc := Arc{InnerRadius: 8, OuterRadius: 10, StartAngle: BaseAngle, EndAngle: 0}

	assert.True(t, arc.Contains(-9, 0), "left edge")
	assert.True(t, arc.Contains(0, -9), "top")
	assert.False(t, arc.Contains(9, 0), "right side is outside the sweep")
	assert.False(t, arc.Contains(0, 0), "centre is inside the hole")
	assert.False(t, arc.Contains(-11, 0), "beyond outer radius")
}

func TestArcCentroid(t *testing.T) {
	x, y := Arc{InnerRadius: 8, OuterRadius: 10, StartAngle: 0, EndAngle: 0}.Centroid()
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, -9, y, 1e-9)
}
