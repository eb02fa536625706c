package figures

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mason-data/reversal.report/internal/kinematics"
	"github.com/mason-data/reversal.report/internal/trackdata"
	"github.com/mason-data/reversal.report/internal/units"
)

var (
	signalColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	eventColor  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// TimeSeries renders the speed-run signal over elapsed time, overlaying the
// qualified reversal sub-segments and, when any qualify, a table of their
// start/end/duration below the plot. minDuration is the qualification
// threshold used for the title and legend text.
func TimeSeries(rec *trackdata.TrackRecord, qualified []kinematics.QualifiedReversal, minDuration float64, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Track %d - Dot Product Over Time", rec.TrackID)
	if len(qualified) == 0 {
		p.Title.Text += fmt.Sprintf(" (no reversals >%gs)", minDuration)
	}
	p.X.Label.Text = "Time (seconds)"
	p.Y.Label.Text = "SpeedRun (dot product x speed)"
	p.Add(plotter.NewGrid())

	n := rec.Samples()
	if len(rec.SpeedSignal) < n {
		n = len(rec.SpeedSignal)
	}

	if n == 0 {
		// Keep the axes finite for an empty record.
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
	}

	if n > 0 {
		signal := make(plotter.XYs, n)
		for i := 0; i < n; i++ {
			signal[i] = plotter.XY{X: rec.ElapsedTime[i], Y: rec.SpeedSignal[i]}
		}
		line, err := plotter.NewLine(signal)
		if err != nil {
			return fmt.Errorf("signal line: %w", err)
		}
		line.Color = signalColor
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add("SpeedRun", line)

		zero, err := plotter.NewLine(plotter.XYs{
			{X: rec.ElapsedTime[0], Y: 0},
			{X: rec.ElapsedTime[n-1], Y: 0},
		})
		if err != nil {
			return fmt.Errorf("zero line: %w", err)
		}
		zero.Color = color.Black
		zero.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(zero)
		p.Legend.Add("Zero line", zero)
	}

	for k, q := range qualified {
		seg := make(plotter.XYs, 0, q.EndIdx-q.StartIdx)
		for i := q.StartIdx; i < q.EndIdx && i < n; i++ {
			seg = append(seg, plotter.XY{X: rec.ElapsedTime[i], Y: rec.SpeedSignal[i]})
		}
		if len(seg) == 0 {
			continue
		}
		evLine, err := plotter.NewLine(seg)
		if err != nil {
			return fmt.Errorf("reversal segment: %w", err)
		}
		evLine.Color = eventColor
		evLine.Width = vg.Points(1.2)
		p.Add(evLine)
		if k == 0 {
			p.Legend.Add(fmt.Sprintf("Reversals (>%gs)", minDuration), evLine)
		}
	}
	p.Legend.Top = true

	if len(qualified) == 0 {
		return p.Save(10*vg.Inch, 6*vg.Inch, path)
	}

	tbl, err := reversalTable(qualified)
	if err != nil {
		return err
	}
	return saveStacked(p, tbl, path)
}

// reversalTable builds a hidden-axes plot holding the qualified-reversal
// rows: label, start, end, and duration as MM:SS.
func reversalTable(qualified []kinematics.QualifiedReversal) (*plot.Plot, error) {
	headers := []string{"#", "Start", "End", "Duration"}
	rows := len(qualified)

	var xys plotter.XYs
	var labels []string
	addCell := func(col int, rowY float64, text string) {
		xys = append(xys, plotter.XY{X: float64(col) + 0.5, Y: rowY})
		labels = append(labels, text)
	}

	for col, h := range headers {
		addCell(col, float64(rows)+0.5, h)
	}
	for i, q := range qualified {
		rowY := float64(rows-1-i) + 0.5
		addCell(0, rowY, fmt.Sprintf("R%d", i+1))
		addCell(1, rowY, units.FormatClock(q.Start))
		addCell(2, rowY, units.FormatClock(q.End))
		addCell(3, rowY, units.FormatClock(q.Duration))
	}

	cells, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("reversal table: %w", err)
	}
	for i := range cells.TextStyle {
		cells.TextStyle[i].XAlign = draw.XCenter
		cells.TextStyle[i].YAlign = draw.YCenter
	}

	tbl := plot.New()
	tbl.HideAxes()
	tbl.X.Min, tbl.X.Max = 0, float64(len(headers))
	tbl.Y.Min, tbl.Y.Max = 0, float64(rows+1)
	tbl.Add(cells)
	return tbl, nil
}

// saveStacked writes a PNG with p over tbl, giving the table the lower
// quarter of the canvas.
func saveStacked(p, tbl *plot.Plot, path string) error {
	const (
		width   = 10 * vg.Inch
		height  = 8 * vg.Inch
		tableHt = 2 * vg.Inch
	)

	img := vgimg.New(width, height)
	dc := draw.New(img)
	p.Draw(draw.Crop(dc, 0, 0, tableHt, 0))
	tbl.Draw(draw.Crop(dc, 0, 0, 0, tableHt-height))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create figure file: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("write figure: %w", err)
	}
	return nil
}
