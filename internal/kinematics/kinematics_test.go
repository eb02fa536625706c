package kinematics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mason-data/reversal.report/internal/trackdata"
)

// rampTimes returns n elapsed-time samples spaced dt seconds apart.
func rampTimes(n int, dt float64) []float64 {
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * dt
	}
	return times
}

func TestStepSpeedsLengthAndSign(t *testing.T) {
	x := []float64{0, 1, 3, 6, 10, 15, 14, 12, 9, 5}
	y := []float64{0, 2, 1, 5, 2, 8, 3, 7, 1, 0}
	st := rampTimes(10, 0.5)

	speeds := StepSpeeds(x, y, st)
	require.Len(t, speeds, len(x)-1)
	for i, s := range speeds {
		assert.GreaterOrEqual(t, s, 0.0, "speed[%d]", i)
	}
}

func TestStepSpeedsValue(t *testing.T) {
	// One segment of length 5 over 0.5s: 5/0.5*10 = 100.
	speeds := StepSpeeds([]float64{0, 3}, []float64{0, 4}, []float64{1.0, 1.5})
	require.Len(t, speeds, 1)
	assert.InDelta(t, 100.0, speeds[0], 1e-9)
}

func TestStepSpeedsNonPositiveDeltaYieldsZero(t *testing.T) {
	speeds := StepSpeeds([]float64{0, 1, 2}, []float64{0, 0, 0}, []float64{0, 0, -1})
	require.Len(t, speeds, 2)
	assert.Zero(t, speeds[0])
	assert.Zero(t, speeds[1])
}

func TestStepSpeedsShortSampleTimeDefaultsToUnitDelta(t *testing.T) {
	// sample_time runs out after the first point; dt falls back to 1.
	speeds := StepSpeeds([]float64{0, 3}, []float64{0, 4}, []float64{0})
	require.Len(t, speeds, 1)
	assert.InDelta(t, 50.0, speeds[0], 1e-9)
}

func TestStepSpeedsUsesShorterPositionSeries(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{0, 1, 2}
	speeds := StepSpeeds(x, y, rampTimes(4, 1))
	assert.Len(t, speeds, 2)
}

func TestStepSpeedsTooShort(t *testing.T) {
	assert.Nil(t, StepSpeeds([]float64{1}, []float64{1}, []float64{0}))
	assert.Nil(t, StepSpeeds(nil, nil, nil))
}

func TestSpeedRange(t *testing.T) {
	lo, hi := SpeedRange([]float64{0, 4, 2, 0, 8})
	assert.Equal(t, 2.0, lo, "min of strictly-positive speeds")
	assert.Equal(t, 8.0, hi)

	lo, hi = SpeedRange([]float64{0, 0, 0})
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 0.0, hi)

	lo, hi = SpeedRange(nil)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi, "empty sequence defaults max to 1")
}

func TestNormalize(t *testing.T) {
	assert.InDelta(t, 0.5, Normalize(5, 0, 10), 1e-9)
	assert.Equal(t, 0.0, Normalize(-1, 0, 10))
	assert.Equal(t, 1.0, Normalize(20, 0, 10))

	// All speeds equal: epsilon keeps the result finite (and zero).
	n := Normalize(3, 3, 3)
	assert.False(t, math.IsNaN(n))
	assert.Zero(t, n)
}

func TestInReversal(t *testing.T) {
	revs := []trackdata.ReversalWindow{
		{StartIdx: 5, EndIdx: 10},
		{StartIdx: 20, EndIdx: 21},
	}

	assert.False(t, InReversal(4, revs))
	assert.True(t, InReversal(5, revs), "start index is inclusive")
	assert.True(t, InReversal(9, revs))
	assert.False(t, InReversal(10, revs), "end index is exclusive")
	assert.True(t, InReversal(20, revs))
	assert.False(t, InReversal(21, revs))
	assert.False(t, InReversal(0, nil))
}

func TestQualifyThresholdIsExact(t *testing.T) {
	// times[i] = i*0.1 except times[30] pulled back so the first window
	// spans 2.999s; the second spans exactly 3.0s.
	times := rampTimes(50, 0.1)
	times[30] = 2.999

	rec := &trackdata.TrackRecord{
		ElapsedTime: times,
		Reversals: []trackdata.ReversalWindow{
			{StartIdx: 0, EndIdx: 31},  // times[30]-times[0] = 2.999
			{StartIdx: 10, EndIdx: 41}, // times[40]-times[10] = 3.0
		},
	}

	qualified := Qualify(rec, 3.0)
	require.Len(t, qualified, 1)
	assert.Equal(t, 1, qualified[0].Index)
	assert.InDelta(t, 3.0, qualified[0].Duration, 1e-9)
	assert.InDelta(t, 1.0, qualified[0].Start, 1e-9)
	assert.InDelta(t, 4.0, qualified[0].End, 1e-9)
}

func TestQualifyRejectsDegenerateAndOutOfBounds(t *testing.T) {
	times := rampTimes(100, 1) // plenty of span
	rec := &trackdata.TrackRecord{
		ElapsedTime: times,
		Reversals: []trackdata.ReversalWindow{
			{StartIdx: 10, EndIdx: 10},  // degenerate
			{StartIdx: 20, EndIdx: 15},  // inverted
			{StartIdx: -1, EndIdx: 50},  // negative start
			{StartIdx: 10, EndIdx: 101}, // end beyond N
			{StartIdx: 100, EndIdx: 100},
		},
	}
	assert.Empty(t, Qualify(rec, 3.0))
}

func TestQualifyPreservesSourceOrder(t *testing.T) {
	// Windows arrive ordered by source key, not by start time; Qualify must
	// not re-sort them.
	times := rampTimes(100, 1)
	rec := &trackdata.TrackRecord{
		ElapsedTime: times,
		Reversals: []trackdata.ReversalWindow{
			{StartIdx: 50, EndIdx: 60},
			{StartIdx: 5, EndIdx: 15},
		},
	}

	qualified := Qualify(rec, 3.0)
	require.Len(t, qualified, 2)
	assert.Equal(t, 0, qualified[0].Index)
	assert.Equal(t, 50.0, qualified[0].Start)
	assert.Equal(t, 1, qualified[1].Index)
	assert.Equal(t, 5.0, qualified[1].Start)
}
