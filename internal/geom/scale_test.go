package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/arcgauge/internal/model"
)

func TestScaleClampsOutsideDomain(t *testing.T) {
	s, err := NewScale(0, 100)
	require.NoError(t, err)

	for _, v := range []float64{-1, -50, -1e9, math.Inf(-1)} {
		assert.Equal(t, BaseAngle, s.Angle(v), "value %v", v)
	}
	for _, v := range []float64{101, 1e9, math.Inf(1)} {
		assert.Equal(t, TopAngle, s.Angle(v), "value %v", v)
	}
	assert.Equal(t, BaseAngle, s.Angle(0))
	assert.Equal(t, TopAngle, s.Angle(100))
	assert.Equal(t, 0.0, s.Angle(50))
}

func TestScaleIsMonotonic(t *testing.T) {
	s, err := NewScale(-20, 40)
	require.NoError(t, err)

	prev := s.Angle(-20)
	for v := -20.0; v <= 40; v += 0.25 {
		got := s.Angle(v)
		require.GreaterOrEqual(t, got, prev, "value %v", v)
		prev = got
	}
}

func TestScaleRejectsDegenerateRange(t *testing.T) {
	_, err := NewScale(5, 5)
	require.ErrorIs(t, err, model.ErrDegenerateRange)
	require.ErrorIs(t, err, model.ErrConfiguration)

	_, err = NewScale(10, 1)
	require.ErrorIs(t, err, model.ErrDegenerateRange)

	_, err = NewScale(math.NaN(), 1)
	require.ErrorIs(t, err, model.ErrDegenerateRange)
}

func TestScaleValueInvertsAngle(t *testing.T) {
	s, err := NewScale(0, 200)
	require.NoError(t, err)

	for _, v := range []float64{0, 12.5, 100, 199, 200} {
		assert.InDelta(t, v, s.Value(s.Angle(v)), 1e-9)
	}
	assert.Equal(t, 0.0, s.Value(-10))
	assert.Equal(t, 200.0, s.Value(10))
}

func TestScaleClamp(t *testing.T) {
	s, err := NewScale(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Clamp(0))
	assert.Equal(t, 2.0, s.Clamp(3))
	assert.Equal(t, 1.5, s.Clamp(1.5))
	assert.Equal(t, 1.0, s.Clamp(math.NaN()))
}
