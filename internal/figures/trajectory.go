package figures

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mason-data/reversal.report/internal/kinematics"
	"github.com/mason-data/reversal.report/internal/trackdata"
)

var (
	trajectoryBackground = color.RGBA{R: 51, G: 51, B: 51, A: 255}
	trajectoryForeground = color.White
	trajectoryGrid       = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Trajectory renders the track's path, coloring each position segment by its
// normalized speed through the heat gradient. Segments inside any reversal
// window (qualified or not) render in the fixed reversal color; zero-speed
// segments are skipped.
func Trajectory(rec *trackdata.TrackRecord, path string) error {
	speeds := kinematics.StepSpeeds(rec.X, rec.Y, rec.SampleTime)
	lo, hi := kinematics.SpeedRange(speeds)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Track %d - Trajectory", rec.TrackID)
	p.X.Label.Text = "X (cm)"
	p.Y.Label.Text = "Y (cm)"
	darkTheme(p)

	m := rec.Positions()
	for i := 0; i < m-1; i++ {
		if i >= len(speeds) || speeds[i] <= 0 {
			continue
		}
		var segColor color.Color = SpeedColor(kinematics.Normalize(speeds[i], lo, hi))
		if kinematics.InReversal(i, rec.Reversals) {
			segColor = reversalColor
		}
		seg, err := plotter.NewLine(plotter.XYs{
			{X: rec.X[i], Y: rec.Y[i]},
			{X: rec.X[i+1], Y: rec.Y[i+1]},
		})
		if err != nil {
			return fmt.Errorf("trajectory segment %d: %w", i, err)
		}
		seg.Color = segColor
		seg.Width = vg.Points(2)
		p.Add(seg)
	}

	squareRanges(p, rec.X[:m], rec.Y[:m])
	return p.Save(9*vg.Inch, 9*vg.Inch, path)
}

// darkTheme applies the dark background and light axis styling used for
// trajectory figures.
func darkTheme(p *plot.Plot) {
	p.BackgroundColor = trajectoryBackground
	p.Title.TextStyle.Color = trajectoryForeground

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Color = trajectoryForeground
		ax.LineStyle.Color = trajectoryForeground
		ax.Tick.LineStyle.Color = trajectoryForeground
		ax.Tick.Label.Color = trajectoryForeground
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = trajectoryGrid
	grid.Horizontal.Color = trajectoryGrid
	p.Add(grid)
}

// squareRanges sets equal X/Y spans around the data so the trajectory keeps
// its aspect ratio on a square canvas.
func squareRanges(p *plot.Plot, xs, ys []float64) {
	if len(xs) == 0 || len(ys) == 0 {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
		return
	}
	xmin, xmax := minMax(xs)
	ymin, ymax := minMax(ys)

	span := xmax - xmin
	if ySpan := ymax - ymin; ySpan > span {
		span = ySpan
	}
	if span == 0 {
		span = 1
	}
	// 5% margin on the common span.
	half := span/2 + span*0.05

	xc := (xmin + xmax) / 2
	yc := (ymin + ymax) / 2
	p.X.Min, p.X.Max = xc-half, xc+half
	p.Y.Min, p.Y.Max = yc-half, yc+half
}

func minMax(vals []float64) (lo, hi float64) {
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
