package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mason-data/reversal.report/internal/fsutil"
)

const (
	// SummaryFileName is the machine-readable run summary under the output root.
	SummaryFileName = "summary.json"

	// ChartFileName is the companion reversal-count chart.
	ChartFileName = "summary.html"
)

// WriteSummary persists the run summary as JSON under dir, overwriting any
// prior artifact at that path.
func WriteSummary(fs fsutil.FileSystem, dir string, s *RunSummary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	return fs.WriteFile(filepath.Join(dir, SummaryFileName), data, 0o644)
}

// WriteChart renders a bar chart of reversal counts per track as a
// standalone HTML page under dir. Tracks are shown in ascending order
// regardless of completion order.
func WriteChart(fs fsutil.FileSystem, dir string, s *RunSummary) error {
	tracks := append([]TrackOutcome(nil), s.Tracks...)
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].TrackID < tracks[j].TrackID })

	x := make([]string, 0, len(tracks))
	y := make([]opts.BarData, 0, len(tracks))
	for _, t := range tracks {
		x = append(x, fmt.Sprintf("track %d", t.TrackID))
		y = append(y, opts.BarData{Value: t.Reversals, Name: string(t.Status)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Reversal Summary", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Reversals per Track",
			Subtitle: fmt.Sprintf("run %s: %d/%d tracks, %d total reversals", s.RunID, s.SuccessCount(), len(s.Tracks), s.TotalReversals),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("reversals", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	w, err := fs.Create(filepath.Join(dir, ChartFileName))
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := bar.Render(w); err != nil {
		w.Close()
		return fmt.Errorf("render chart: %w", err)
	}
	return w.Close()
}
