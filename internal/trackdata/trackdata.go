// Package trackdata loads per-track analysis results from the upstream
// engine's sqlite containers into in-memory records.
package trackdata

// ReversalWindow is one detected reversal event. StartIdx and EndIdx are
// offsets into the time-series index space (ElapsedTime/SpeedSignal), not the
// position index space. Attrs carries the remaining scalar attributes of the
// source record opaquely.
type ReversalWindow struct {
	StartIdx int
	EndIdx   int
	Attrs    map[string]float64
}

// TrackRecord is one analyzed track, read-only after loading.
//
// ElapsedTime and SpeedSignal share index space (length N). X, Y and
// SampleTime share a second index space (length M) which may differ from N.
type TrackRecord struct {
	TrackID     int
	ElapsedTime []float64
	SpeedSignal []float64
	X           []float64
	Y           []float64
	SampleTime  []float64
	SourceLabel string
	LengthScale float64

	// Reversals preserves the source ordering (ascending key ordinal);
	// downstream artifacts are positionally indexed against it.
	Reversals []ReversalWindow
}

// Samples returns N, the length of the time-series index space.
func (r *TrackRecord) Samples() int { return len(r.ElapsedTime) }

// Positions returns M, the length of the position index space.
func (r *TrackRecord) Positions() int {
	if len(r.X) < len(r.Y) {
		return len(r.X)
	}
	return len(r.Y)
}

// AlignedIndexSpaces reports whether the time-series and position index
// spaces have equal length. Reversal windows are defined over the time-series
// space but are applied to position segments without remapping (upstream
// convention); callers can use this to detect when that coupling is lossy.
func (r *TrackRecord) AlignedIndexSpaces() bool {
	return r.Samples() == r.Positions()
}
