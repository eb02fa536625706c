package trackdata

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	_ "modernc.org/sqlite"
)

// DataFileName is the per-track container written by the upstream engine.
const DataFileName = "track_data.db"

var (
	// ErrNotFound reports a missing track directory or data container.
	ErrNotFound = errors.New("track data not found")

	// ErrMalformedData reports a container missing a required series or
	// holding unreadable data.
	ErrMalformedData = errors.New("malformed track data")
)

// Load reads one track's container from trackDir and returns its record.
// Access is read-only; the container is never mutated.
func Load(trackDir string) (*TrackRecord, error) {
	path := filepath.Join(trackDir, DataFileName)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: no %s in %s", ErrNotFound, DataFileName, trackDir)
	}

	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path)+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrMalformedData, path, err)
	}
	defer db.Close()

	rec := &TrackRecord{}
	if err := loadMetadata(db, rec); err != nil {
		return nil, err
	}
	if err := loadSeries(db, rec); err != nil {
		return nil, err
	}
	revs, err := loadReversals(db)
	if err != nil {
		return nil, err
	}
	rec.Reversals = revs
	return rec, nil
}

func loadMetadata(db *sql.DB, rec *TrackRecord) error {
	var (
		id    int64
		label any
		scale any
	)
	row := db.QueryRow(`SELECT track_id, eset_name, length_per_pixel FROM track LIMIT 1`)
	if err := row.Scan(&id, &label, &scale); err != nil {
		return fmt.Errorf("%w: track metadata: %v", ErrMalformedData, err)
	}
	rec.TrackID = int(id)
	rec.SourceLabel = decodeText(label, "unknown")
	rec.LengthScale = decodeScalar(scale, 0.01)
	return nil
}

func loadSeries(db *sql.DB, rec *TrackRecord) error {
	rows, err := db.Query(`SELECT elapsed_time, speed_signal FROM samples ORDER BY idx`)
	if err != nil {
		return fmt.Errorf("%w: samples series: %v", ErrMalformedData, err)
	}
	defer rows.Close()
	for rows.Next() {
		var t, v float64
		if err := rows.Scan(&t, &v); err != nil {
			return fmt.Errorf("%w: samples series: %v", ErrMalformedData, err)
		}
		rec.ElapsedTime = append(rec.ElapsedTime, t)
		rec.SpeedSignal = append(rec.SpeedSignal, v)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: samples series: %v", ErrMalformedData, err)
	}

	prows, err := db.Query(`SELECT x, y, sample_time FROM positions ORDER BY idx`)
	if err != nil {
		return fmt.Errorf("%w: positions series: %v", ErrMalformedData, err)
	}
	defer prows.Close()
	for prows.Next() {
		var x, y, t float64
		if err := prows.Scan(&x, &y, &t); err != nil {
			return fmt.Errorf("%w: positions series: %v", ErrMalformedData, err)
		}
		rec.X = append(rec.X, x)
		rec.Y = append(rec.Y, y)
		rec.SampleTime = append(rec.SampleTime, t)
	}
	if err := prows.Err(); err != nil {
		return fmt.Errorf("%w: positions series: %v", ErrMalformedData, err)
	}
	return nil
}

// loadReversals reads the reversal sub-records. An absent reversals table
// means the track has none; that is not an error. Records are ordered by the
// integer ordinal embedded in their key ("reversal_7" -> 7), never by time.
func loadReversals(db *sql.DB) ([]ReversalWindow, error) {
	var n int
	row := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='reversals'`)
	if err := row.Scan(&n); err != nil {
		return nil, fmt.Errorf("%w: reversals: %v", ErrMalformedData, err)
	}
	if n == 0 {
		return nil, nil
	}

	rows, err := db.Query(`SELECT key, start_idx, end_idx, attrs FROM reversals`)
	if err != nil {
		return nil, fmt.Errorf("%w: reversals: %v", ErrMalformedData, err)
	}
	defer rows.Close()

	type keyed struct {
		ordinal int
		window  ReversalWindow
	}
	var recs []keyed
	for rows.Next() {
		var (
			key        string
			start, end int64
			attrs      any
		)
		if err := rows.Scan(&key, &start, &end, &attrs); err != nil {
			return nil, fmt.Errorf("%w: reversals: %v", ErrMalformedData, err)
		}
		recs = append(recs, keyed{
			ordinal: keyOrdinal(key),
			window: ReversalWindow{
				StartIdx: int(start),
				EndIdx:   int(end),
				Attrs:    decodeAttrs(attrs),
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reversals: %v", ErrMalformedData, err)
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ordinal < recs[j].ordinal })
	windows := make([]ReversalWindow, len(recs))
	for i, r := range recs {
		windows[i] = r.window
	}
	return windows, nil
}

// keyOrdinal extracts the trailing integer from a reversal key.
// "reversal_12" -> 12. Keys with no trailing digits sort first.
func keyOrdinal(key string) int {
	end := len(key)
	start := end
	for start > 0 && key[start-1] >= '0' && key[start-1] <= '9' {
		start--
	}
	if start == end {
		return -1
	}
	n, err := strconv.Atoi(key[start:end])
	if err != nil {
		return -1
	}
	return n
}

// decodeText coerces a scanned metadata value to a string. Byte-encoded
// values are decoded to text; absent values fall back to def.
func decodeText(v any, def string) string {
	switch s := v.(type) {
	case nil:
		return def
	case string:
		if s == "" {
			return def
		}
		return s
	case []byte:
		if len(s) == 0 {
			return def
		}
		return string(s)
	default:
		return def
	}
}

// decodeScalar coerces a scanned metadata value to a float64. Values stored
// as JSON text are parsed, and single-element containers are unwrapped.
func decodeScalar(v any, def float64) float64 {
	switch x := v.(type) {
	case nil:
		return def
	case float64:
		return x
	case int64:
		return float64(x)
	case []byte:
		return decodeScalarText(string(x), def)
	case string:
		return decodeScalarText(x, def)
	default:
		return def
	}
}

func decodeScalarText(s string, def float64) float64 {
	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return def
	}
	if f, ok := coerceScalar(raw); ok {
		return f
	}
	return def
}

// decodeAttrs parses the opaque attribute bag of a reversal record. Each
// value may be a number or a single-element container of one; anything that
// cannot be coerced to a scalar is dropped.
func decodeAttrs(v any) map[string]float64 {
	var text string
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		text = x
	case []byte:
		text = string(x)
	default:
		return nil
	}
	if text == "" {
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil
	}
	attrs := make(map[string]float64, len(raw))
	for k, rv := range raw {
		if f, ok := coerceScalar(rv); ok {
			attrs[k] = f
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// coerceScalar unwraps single-element containers and casts the result to a
// plain float64.
func coerceScalar(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case []any:
		if len(x) == 1 {
			return coerceScalar(x[0])
		}
		return 0, false
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
