package figures

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/mason-data/reversal.report/internal/kinematics"
	"github.com/mason-data/reversal.report/internal/trackdata"
)

// testRecord builds a track with 60 time samples at 0.1s spacing and 50
// positions, with one long reversal (3.9s, qualifies) and one short one.
func testRecord() *trackdata.TrackRecord {
	const n, m = 60, 50
	rec := &trackdata.TrackRecord{
		TrackID:     3,
		SourceLabel: "test",
		LengthScale: 0.01,
	}
	for i := 0; i < n; i++ {
		rec.ElapsedTime = append(rec.ElapsedTime, float64(i)*0.1)
		sign := 1.0
		if i >= 10 && i < 50 {
			sign = -1
		}
		rec.SpeedSignal = append(rec.SpeedSignal, sign*float64(i%7))
	}
	for i := 0; i < m; i++ {
		rec.X = append(rec.X, float64(i)+float64(i%3))
		rec.Y = append(rec.Y, float64(i)-float64(i%5))
		rec.SampleTime = append(rec.SampleTime, float64(i)*0.12)
	}
	rec.Reversals = []trackdata.ReversalWindow{
		{StartIdx: 10, EndIdx: 50}, // 3.9s span
		{StartIdx: 52, EndIdx: 55}, // 0.3s span
	}
	return rec
}

func mustNotExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file at %s", path)
	}
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected figure at %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Errorf("figure at %s is empty", path)
	}
}

func TestTimeSeriesWithQualifiedReversals(t *testing.T) {
	rec := testRecord()
	qualified := kinematics.Qualify(rec, 3.0)
	if len(qualified) != 1 {
		t.Fatalf("fixture should qualify exactly 1 reversal, got %d", len(qualified))
	}

	path := filepath.Join(t.TempDir(), "dot_product.png")
	if err := TimeSeries(rec, qualified, 3.0, path); err != nil {
		t.Fatalf("TimeSeries failed: %v", err)
	}
	mustExist(t, path)
}

func TestTimeSeriesWithoutQualifiedReversals(t *testing.T) {
	rec := testRecord()
	path := filepath.Join(t.TempDir(), "dot_product.png")
	if err := TimeSeries(rec, nil, 3.0, path); err != nil {
		t.Fatalf("TimeSeries failed: %v", err)
	}
	mustExist(t, path)
}

func TestTimeSeriesEmptyRecord(t *testing.T) {
	rec := &trackdata.TrackRecord{TrackID: 9}
	path := filepath.Join(t.TempDir(), "dot_product.png")
	if err := TimeSeries(rec, nil, 3.0, path); err != nil {
		t.Fatalf("TimeSeries on empty record failed: %v", err)
	}
	mustExist(t, path)
}

func TestTrajectory(t *testing.T) {
	rec := testRecord()
	path := filepath.Join(t.TempDir(), "trajectory.png")
	if err := Trajectory(rec, path); err != nil {
		t.Fatalf("Trajectory failed: %v", err)
	}
	mustExist(t, path)
}

func TestTrajectoryEmptyRecord(t *testing.T) {
	rec := &trackdata.TrackRecord{TrackID: 9}
	path := filepath.Join(t.TempDir(), "trajectory.png")
	if err := Trajectory(rec, path); err != nil {
		t.Fatalf("Trajectory on empty record failed: %v", err)
	}
	mustExist(t, path)
}

func TestReversalCloseup(t *testing.T) {
	rec := testRecord()
	path := filepath.Join(t.TempDir(), "reversal1_dot_product.png")
	if err := ReversalCloseup(rec, 0, path); err != nil {
		t.Fatalf("ReversalCloseup failed: %v", err)
	}
	mustExist(t, path)
}

func TestReversalCloseupOutOfRangeIsNoop(t *testing.T) {
	rec := testRecord()
	path := filepath.Join(t.TempDir(), "reversal9_dot_product.png")

	if err := ReversalCloseup(rec, len(rec.Reversals), path); err != nil {
		t.Fatalf("out-of-range index must not error: %v", err)
	}
	mustNotExist(t, path)

	if err := ReversalCloseup(rec, -1, path); err != nil {
		t.Fatalf("negative index must not error: %v", err)
	}
	mustNotExist(t, path)
}

func TestReversalCloseupClampsWindow(t *testing.T) {
	rec := testRecord()
	rec.Reversals = append(rec.Reversals, trackdata.ReversalWindow{StartIdx: 55, EndIdx: 500})

	path := filepath.Join(t.TempDir(), "reversal3_dot_product.png")
	if err := ReversalCloseup(rec, 2, path); err != nil {
		t.Fatalf("ReversalCloseup with out-of-bounds window failed: %v", err)
	}
	mustExist(t, path)
}

func TestSpeedColorGradient(t *testing.T) {
	cases := []struct {
		norm float64
		want color.RGBA
	}{
		{0, color.RGBA{0, 0, 0, 255}},
		{1, color.RGBA{255, 255, 255, 255}},
		{-0.5, color.RGBA{0, 0, 0, 255}},
		{1.5, color.RGBA{255, 255, 255, 255}},
		// Midpoint of stops 2 and 3: red -> orange.
		{0.5, color.RGBA{255, 64, 0, 255}},
	}
	for _, c := range cases {
		if got := SpeedColor(c.norm); got != c.want {
			t.Errorf("SpeedColor(%v) = %v, want %v", c.norm, got, c.want)
		}
	}
}
