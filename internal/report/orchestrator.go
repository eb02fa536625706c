package report

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/mason-data/reversal.report/internal/config"
	"github.com/mason-data/reversal.report/internal/figures"
	"github.com/mason-data/reversal.report/internal/fsutil"
	"github.com/mason-data/reversal.report/internal/kinematics"
	"github.com/mason-data/reversal.report/internal/monitoring"
	"github.com/mason-data/reversal.report/internal/trackdata"
)

var trackDirPattern = regexp.MustCompile(`^track(\d+)$`)

// Generator runs figure generation for a results tree. One unit of work per
// track: probe -> load -> classify -> render all figures. Units share no
// state; each owns its per-track output subtree.
type Generator struct {
	ResultsDir string
	OutputDir  string
	Config     *config.Config

	// FS abstracts directory probing and summary output. Figure PNGs are
	// written directly by the renderers.
	FS fsutil.FileSystem
}

// New returns a Generator over the OS filesystem.
func New(resultsDir, outputDir string, cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Generator{
		ResultsDir: resultsDir,
		OutputDir:  outputDir,
		Config:     cfg,
		FS:         fsutil.OSFileSystem{},
	}
}

// Run generates figures for the given track numbers, or for every discovered
// track when tracks is nil, and writes the run summary. Per-track faults are
// captured as outcomes and never abort the run; Run itself fails only when
// the output tree or the summary cannot be written.
func (g *Generator) Run(tracks []int) (*RunSummary, error) {
	if err := g.FS.MkdirAll(g.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	if tracks == nil {
		var err error
		tracks, err = g.DiscoverTracks()
		if err != nil {
			return nil, fmt.Errorf("discover tracks: %w", err)
		}
	}
	summary := &RunSummary{RunID: uuid.New().String()}
	if len(tracks) == 0 {
		monitoring.Logf("no tracks to process")
		return summary, nil
	}

	monitoring.Logf("generating figures for %d tracks", len(tracks))

	workers := g.Config.WorkerCount(len(tracks))
	jobs := make(chan int)
	results := make(chan TrackOutcome)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				results <- g.processTrack(id)
			}
		}()
	}
	go func() {
		for _, id := range tracks {
			jobs <- id
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for out := range results {
		summary.Tracks = append(summary.Tracks, out)
		summary.TotalReversals += out.Reversals
		monitoring.Logf("  track %d: %s (%d reversals)", out.TrackID, out.Status, out.Reversals)
	}

	monitoring.Logf("figure generation complete: %d/%d tracks, %d total reversals",
		summary.SuccessCount(), len(tracks), summary.TotalReversals)

	if err := WriteSummary(g.FS, g.OutputDir, summary); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	monitoring.Logf("summary written to %s", filepath.Join(g.OutputDir, SummaryFileName))

	if g.Config.ChartEnabled() {
		if err := WriteChart(g.FS, g.OutputDir, summary); err != nil {
			monitoring.Logf("summary chart: %v", err)
		}
	}
	return summary, nil
}

// DiscoverTracks lists track numbers by scanning the results directory for
// subdirectories named track<N>, ascending.
func (g *Generator) DiscoverTracks() ([]int, error) {
	names, err := g.FS.DirNames(g.ResultsDir)
	if err != nil {
		return nil, err
	}
	var tracks []int
	for _, name := range names {
		m := trackDirPattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		tracks = append(tracks, n)
	}
	sort.Ints(tracks)
	return tracks, nil
}

// processTrack is one fully isolated unit of work. A recovered panic yields
// an exception outcome so no unit can take down the run.
func (g *Generator) processTrack(id int) (out TrackOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = TrackOutcome{TrackID: id, Status: StatusException, Error: fmt.Sprint(r)}
		}
	}()

	trackDir := filepath.Join(g.ResultsDir, fmt.Sprintf("track%d", id))
	if !g.FS.Exists(trackDir) {
		return TrackOutcome{TrackID: id, Status: StatusNotFound}
	}

	rec, err := trackdata.Load(trackDir)
	if err != nil {
		return TrackOutcome{TrackID: id, Status: StatusError, Error: err.Error()}
	}

	outDir := filepath.Join(g.OutputDir, fmt.Sprintf("track%d", id))
	if err := g.FS.MkdirAll(outDir, 0o755); err != nil {
		return TrackOutcome{TrackID: id, Status: StatusError, Error: err.Error()}
	}

	minDuration := g.Config.MinReversalDuration()
	qualified := kinematics.Qualify(rec, minDuration)

	if err := figures.TimeSeries(rec, qualified, minDuration, filepath.Join(outDir, "dot_product.png")); err != nil {
		return TrackOutcome{TrackID: id, Status: StatusError, Error: err.Error()}
	}
	if err := figures.Trajectory(rec, filepath.Join(outDir, "trajectory.png")); err != nil {
		return TrackOutcome{TrackID: id, Status: StatusError, Error: err.Error()}
	}
	for i := range rec.Reversals {
		name := fmt.Sprintf("reversal%d_dot_product.png", i+1)
		if err := figures.ReversalCloseup(rec, i, filepath.Join(outDir, name)); err != nil {
			return TrackOutcome{TrackID: id, Status: StatusError, Error: err.Error()}
		}
	}

	return TrackOutcome{TrackID: id, Status: StatusSuccess, Reversals: len(rec.Reversals)}
}
