package figures

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mason-data/reversal.report/internal/trackdata"
)

var shadeColor = color.NRGBA{R: 255, G: 0, B: 0, A: 128}

// ReversalCloseup renders the speed-run signal around one reversal window,
// padded by 10% of the window's sample length on each side and clipped to the
// series bounds, with the reversal span shaded. An out-of-range reversal
// index is a silent no-op, not an error.
func ReversalCloseup(rec *trackdata.TrackRecord, reversalIdx int, path string) error {
	if reversalIdx < 0 || reversalIdx >= len(rec.Reversals) {
		return nil
	}

	n := rec.Samples()
	if len(rec.SpeedSignal) < n {
		n = len(rec.SpeedSignal)
	}
	if n == 0 {
		return nil
	}

	rev := rec.Reversals[reversalIdx]
	start := clamp(rev.StartIdx, 0, n)
	end := clamp(rev.EndIdx, 0, n)
	if end < start {
		end = start
	}

	padding := (end - start) / 10
	viewStart := clamp(start-padding, 0, n)
	viewEnd := clamp(end+padding, 0, n)
	if viewEnd <= viewStart {
		return nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Track %d - Reversal %d", rec.TrackID, reversalIdx+1)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "SpeedRun"
	p.Add(plotter.NewGrid())

	view := make(plotter.XYs, 0, viewEnd-viewStart)
	for i := viewStart; i < viewEnd; i++ {
		view = append(view, plotter.XY{X: rec.ElapsedTime[i], Y: rec.SpeedSignal[i]})
	}
	line, err := plotter.NewLine(view)
	if err != nil {
		return fmt.Errorf("close-up line: %w", err)
	}
	line.Color = signalColor
	line.Width = vg.Points(2)
	p.Add(line)

	zero, err := plotter.NewLine(plotter.XYs{
		{X: rec.ElapsedTime[viewStart], Y: 0},
		{X: rec.ElapsedTime[viewEnd-1], Y: 0},
	})
	if err != nil {
		return fmt.Errorf("zero line: %w", err)
	}
	zero.Color = color.Black
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(zero)

	if end > start {
		// Shade the reversal span down to the zero line.
		shade := make(plotter.XYs, 0, end-start+2)
		shade = append(shade, plotter.XY{X: rec.ElapsedTime[start], Y: 0})
		for i := start; i < end; i++ {
			shade = append(shade, plotter.XY{X: rec.ElapsedTime[i], Y: rec.SpeedSignal[i]})
		}
		shade = append(shade, plotter.XY{X: rec.ElapsedTime[end-1], Y: 0})

		poly, err := plotter.NewPolygon(shade)
		if err != nil {
			return fmt.Errorf("reversal shade: %w", err)
		}
		poly.Color = shadeColor
		poly.LineStyle.Color = color.Transparent
		p.Add(poly)
	}

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
