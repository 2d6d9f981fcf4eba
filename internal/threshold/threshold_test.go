package threshold

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/arcgauge/internal/geom"
	"github.com/verte-zerg/arcgauge/internal/model"
)

func testScale(t *testing.T) geom.Scale {
	t.Helper()
	s, err := geom.NewScale(0, 100)
	require.NoError(t, err)
	return s
}

func TestNormalizeSortsStably(t *testing.T) {
	in := []model.ThresholdSpec{
		{Name: "c", Value: 50, Type: "LOW"},
		{Name: "a", Value: 10, Type: "High"},
		{Name: "b", Value: 30, Type: "low"},
		{Name: "d", Value: 10, Type: "low"},
	}
	out, err := Normalize(in)
	require.NoError(t, err)

	names := []string{}
	for _, s := range out {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a", "d", "b", "c"}, names)
	assert.Equal(t, "high", out[0].Type)
	assert.Equal(t, "low", out[3].Type)
	assert.Equal(t, "LOW", in[0].Type, "input must not be modified")
}

func TestNormalizeRejectsMalformed(t *testing.T) {
	_, err := Normalize([]model.ThresholdSpec{{Name: "x", Value: 1, Type: "  "}})
	require.ErrorIs(t, err, model.ErrInvalidThreshold)

	_, err = Normalize([]model.ThresholdSpec{{Name: "x", Value: math.NaN(), Type: "low"}})
	require.ErrorIs(t, err, model.ErrInvalidThreshold)
}

func TestProcessBuildsBands(t *testing.T) {
	s := testScale(t)
	set, err := Process([]model.ThresholdSpec{
		{Name: "hi", Value: 80, Type: "high", Alarm: true},
		{Name: "lo", Value: 20, Type: "low", Alarm: true},
		{Name: "quiet", Value: 50, Type: "low", Alarm: false},
	}, s, Colors{Low: "#111111", High: "#222222"})
	require.NoError(t, err)

	require.True(t, set.Enabled())
	require.Len(t, set.Bands, 2)

	low := set.Bands[0]
	assert.Equal(t, SideLow, low.Side)
	assert.Equal(t, geom.BaseAngle, low.StartAngle)
	assert.Equal(t, s.Angle(20), low.EndAngle)
	assert.Equal(t, "#111111", low.Color)

	high := set.Bands[1]
	assert.Equal(t, SideHigh, high.Side)
	assert.Equal(t, s.Angle(80), high.StartAngle)
	assert.Equal(t, geom.TopAngle, high.EndAngle)
	assert.Equal(t, "#222222", high.Color)
}

func TestProcessWithoutAlarmsIsDisabled(t *testing.T) {
	set, err := Process([]model.ThresholdSpec{{Name: "x", Value: 5, Type: "low"}}, testScale(t), Colors{})
	require.NoError(t, err)
	assert.False(t, set.Enabled())
	assert.Empty(t, set.Bands)
	assert.Len(t, set.Thresholds, 1)
}

func TestProcessIgnoresUnknownTypes(t *testing.T) {
	set, err := Process([]model.ThresholdSpec{{Name: "x", Value: 5, Type: "mid", Alarm: true}}, testScale(t), Colors{})
	require.NoError(t, err)
	assert.True(t, set.Enabled())
	assert.Empty(t, set.Bands)
}

func TestProcessClampsOutOfRangeValues(t *testing.T) {
	set, err := Process([]model.ThresholdSpec{
		{Name: "x", Value: -40, Type: "low", Alarm: true},
		{Name: "y", Value: 400, Type: "high", Alarm: true},
	}, testScale(t), Colors{})
	require.NoError(t, err)
	require.Len(t, set.Bands, 2)
	assert.Equal(t, geom.BaseAngle, set.Bands[0].EndAngle)
	assert.Equal(t, geom.TopAngle, set.Bands[1].StartAngle)
}

func TestOnlyFirstBandPerSideHovers(t *testing.T) {
	set, err := Process([]model.ThresholdSpec{
		{Name: "lo2", Value: 25, Type: "low", Alarm: true},
		{Name: "lo1", Value: 10, Type: "low", Alarm: true},
	}, testScale(t), Colors{})
	require.NoError(t, err)
	require.Len(t, set.Bands, 2)

	band, ok := set.HoverBand(SideLow)
	require.True(t, ok)
	assert.Equal(t, "lo1", band.Spec.Name)
	assert.False(t, set.Bands[1].Hover)

	_, ok = set.HoverBand(SideHigh)
	assert.False(t, ok)
}

func TestTooltipText(t *testing.T) {
	b := Band{Spec: model.ThresholdSpec{Name: "Pressure", Value: 12.5, Type: "low"}}
	assert.Equal(t, "Name: Pressure\nValue: 12.5\nType: low", b.TooltipText())
}
