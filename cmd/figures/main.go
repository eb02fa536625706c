// Command figures generates diagnostic figures and a run summary for a
// directory of per-track analysis results.
//
// Usage:
//
//	figures -results results/ [-out figures/] [-tracks 1,2,7] [-config run.json]
package main

import (
	"flag"
	"log"
	"strconv"
	"strings"

	"github.com/mason-data/reversal.report/internal/config"
	"github.com/mason-data/reversal.report/internal/report"
)

var (
	resultsDir = flag.String("results", "", "directory containing per-track results (track<N>/track_data.db)")
	outputDir  = flag.String("out", "figures", "directory to write figures and the run summary")
	trackList  = flag.String("tracks", "", "comma-separated track numbers (default: auto-discover)")
	configPath = flag.String("config", "", "optional JSON config file")
)

func main() {
	flag.Parse()

	if *resultsDir == "" {
		log.Fatal("-results directory is required")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	tracks, err := parseTracks(*trackList)
	if err != nil {
		log.Fatalf("parse -tracks: %v", err)
	}

	gen := report.New(*resultsDir, *outputDir, cfg)
	if _, err := gen.Run(tracks); err != nil {
		log.Fatalf("figure generation failed: %v", err)
	}
}

// parseTracks parses a comma-separated track list. An empty value returns
// nil, which tells the generator to auto-discover.
func parseTracks(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	tracks := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, n)
	}
	return tracks, nil
}
