// Package kinematics derives per-segment speeds from position series and
// classifies reversal windows against the reporting threshold.
package kinematics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/mason-data/reversal.report/internal/trackdata"
)

// NormEpsilon keeps speed normalization finite when all speeds are equal.
const NormEpsilon = 1e-10

// StepSpeeds computes per-step speeds from position deltas. For M positions
// it returns M-1 values, index-aligned to the leading endpoint of each
// segment. The time delta falls back to 1 when sampleTime runs short, and a
// non-positive delta yields a zero speed.
func StepSpeeds(x, y, sampleTime []float64) []float64 {
	m := len(x)
	if len(y) < m {
		m = len(y)
	}
	if m < 2 {
		return nil
	}

	speeds := make([]float64, m-1)
	for i := 0; i < m-1; i++ {
		dx := x[i+1] - x[i]
		dy := y[i+1] - y[i]
		dt := 1.0
		if i+1 < len(sampleTime) {
			dt = sampleTime[i+1] - sampleTime[i]
		}
		if dt > 0 {
			speeds[i] = math.Hypot(dx, dy) / dt * 10
		}
	}
	return speeds
}

// SpeedRange returns the normalization range for a speed sequence: lo is the
// minimum of the strictly-positive speeds (0 when none exist) and hi is the
// maximum speed (1 when the sequence is empty).
func SpeedRange(speeds []float64) (lo, hi float64) {
	hi = 1
	if len(speeds) > 0 {
		hi = floats.Max(speeds)
	}
	found := false
	for _, s := range speeds {
		if s > 0 && (!found || s < lo) {
			lo = s
			found = true
		}
	}
	if !found {
		lo = 0
	}
	return lo, hi
}

// Normalize maps a speed into [0, 1] against the given range.
func Normalize(speed, lo, hi float64) float64 {
	n := (speed - lo) / (hi - lo + NormEpsilon)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// InReversal reports whether segment i falls inside any reversal window.
//
// Windows are defined over the time-series index space while trajectory
// segments are indexed over the position space; the same integer i is used
// for both without remapping, matching the upstream convention. When the two
// spaces differ in length this test is approximate — see
// TrackRecord.AlignedIndexSpaces.
func InReversal(i int, reversals []trackdata.ReversalWindow) bool {
	for _, rev := range reversals {
		if rev.StartIdx <= i && i < rev.EndIdx {
			return true
		}
	}
	return false
}

// QualifiedReversal is a reversal window that met the reporting threshold.
// Index is the window's position within TrackRecord.Reversals.
type QualifiedReversal struct {
	Index    int
	StartIdx int
	EndIdx   int
	Start    float64
	End      float64
	Duration float64
}

// Qualify filters a track's reversals down to those whose elapsed span meets
// minDuration seconds. Windows with out-of-bounds or degenerate indices are
// excluded. Relative order follows TrackRecord.Reversals.
func Qualify(rec *trackdata.TrackRecord, minDuration float64) []QualifiedReversal {
	times := rec.ElapsedTime
	var qualified []QualifiedReversal
	for i, rev := range rec.Reversals {
		if rev.StartIdx < 0 || rev.StartIdx >= len(times) {
			continue
		}
		if rev.EndIdx < 0 || rev.EndIdx > len(times) {
			continue
		}
		if rev.EndIdx <= rev.StartIdx {
			continue
		}
		start := times[rev.StartIdx]
		end := times[rev.EndIdx-1]
		duration := end - start
		if duration < minDuration {
			continue
		}
		qualified = append(qualified, QualifiedReversal{
			Index:    i,
			StartIdx: rev.StartIdx,
			EndIdx:   rev.EndIdx,
			Start:    start,
			End:      end,
			Duration: duration,
		})
	}
	return qualified
}
