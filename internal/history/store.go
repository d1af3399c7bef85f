// Package history persists a run log of detection results in SQLite,
// so sessions can review what was scored, when, and with what outcome.
// The score pipeline itself never reads from here; history is strictly
// write-behind.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/manticlabs/mantic/internal/detect"
	"github.com/manticlabs/mantic/internal/validate"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Run is one persisted detection.
type Run struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at"`
	Domain    string  `json:"domain"`
	Detector  string  `json:"detector"`
	Mode      string  `json:"mode"`
	MScore    float64 `json:"m_score"`
	Spatial   float64 `json:"spatial_component"`
	FTime     float64 `json:"f_time"`
	Saturated bool    `json:"saturated"`
	// Detected is the mode-specific headline: friction detected, or
	// emergence window open.
	Detected bool `json:"detected"`
	// Clamps counts how many inputs governance adjusted on this run.
	Clamps int `json:"clamps"`
	// Result is the full detection response as JSON.
	Result json.RawMessage `json:"result,omitempty"`
}

// DomainCount pairs a domain with its run count.
type DomainCount struct {
	Domain string `json:"domain"`
	Runs   int    `json:"runs"`
}

// Stats aggregates the run log.
type Stats struct {
	TotalRuns     int           `json:"total_runs"`
	DetectedRuns  int           `json:"detected_runs"`
	SaturatedRuns int           `json:"saturated_runs"`
	MeanMScore    float64       `json:"mean_m_score"`
	ByDomain      []DomainCount `json:"by_domain"`
	FirstRunAt    string        `json:"first_run_at,omitempty"`
	LastRunAt     string        `json:"last_run_at,omitempty"`
}

// Config holds history store configuration.
type Config struct {
	DataDir string
	// MaxRecent caps how many runs Recent returns when the caller
	// asks for more (or doesn't say).
	MaxRecent int
}

// DefaultConfig returns the default history configuration.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:   filepath.Join(home, ".mantic"),
		MaxRecent: 50,
	}
}

// Store is the run log backed by SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New opens (or creates) the run log database under cfg.DataDir and
// runs migrations.
func New(cfg Config) (*Store, error) {
	if cfg.MaxRecent <= 0 {
		cfg.MaxRecent = DefaultConfig().MaxRecent
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cfg: cfg}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		domain     TEXT NOT NULL,
		detector   TEXT NOT NULL,
		mode       TEXT NOT NULL,
		m_score    REAL NOT NULL,
		spatial    REAL NOT NULL,
		f_time     REAL NOT NULL,
		saturated  INTEGER NOT NULL DEFAULT 0,
		detected   INTEGER NOT NULL DEFAULT 0,
		clamps     INTEGER NOT NULL DEFAULT 0,
		result     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_domain ON runs(domain);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("history: migrate: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records one detection result and returns the stored row.
func (s *Store) SaveRun(res *detect.Result) (Run, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return Run{}, fmt.Errorf("history: encode result: %w", err)
	}

	detected := false
	if res.Friction != nil {
		detected = res.Friction.Detected
	}
	if res.Emergence != nil {
		detected = res.Emergence.WindowOpen
	}

	run := Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Domain:    res.Domain,
		Detector:  res.Detector,
		Mode:      string(res.Mode),
		MScore:    res.MScore,
		Spatial:   res.SpatialComponent,
		FTime:     res.FTime,
		Saturated: res.Saturated,
		Detected:  detected,
		Clamps:    countClamps(&res.Overrides),
		Result:    payload,
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (id, created_at, domain, detector, mode, m_score, spatial, f_time, saturated, detected, clamps, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt, run.Domain, run.Detector, run.Mode,
		run.MScore, run.Spatial, run.FTime,
		boolToInt(run.Saturated), boolToInt(run.Detected), run.Clamps, string(run.Result))
	if err != nil {
		return Run{}, fmt.Errorf("history: insert run: %w", err)
	}
	return run, nil
}

// Recent returns the latest runs, newest first. A non-positive or
// oversized limit falls back to the configured maximum.
func (s *Store) Recent(limit int) ([]Run, error) {
	if limit <= 0 || limit > s.cfg.MaxRecent {
		limit = s.cfg.MaxRecent
	}

	rows, err := s.db.Query(`
		SELECT id, created_at, domain, detector, mode, m_score, spatial, f_time, saturated, detected, clamps, result
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var saturated, detected int
		var result string
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Domain, &r.Detector, &r.Mode,
			&r.MScore, &r.Spatial, &r.FTime, &saturated, &detected, &r.Clamps, &result); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.Saturated = saturated != 0
		r.Detected = detected != 0
		r.Result = json.RawMessage(result)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats aggregates the whole run log.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	var mean sql.NullFloat64
	var first, last sql.NullString

	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(detected), 0),
		       COALESCE(SUM(saturated), 0),
		       AVG(m_score),
		       MIN(created_at),
		       MAX(created_at)
		FROM runs`).Scan(&st.TotalRuns, &st.DetectedRuns, &st.SaturatedRuns, &mean, &first, &last)
	if err != nil {
		return Stats{}, fmt.Errorf("history: stats: %w", err)
	}
	if mean.Valid {
		st.MeanMScore = mean.Float64
	}
	if first.Valid {
		st.FirstRunAt = first.String
	}
	if last.Valid {
		st.LastRunAt = last.String
	}

	rows, err := s.db.Query(`SELECT domain, COUNT(*) FROM runs GROUP BY domain ORDER BY COUNT(*) DESC, domain`)
	if err != nil {
		return Stats{}, fmt.Errorf("history: stats by domain: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var dc DomainCount
		if err := rows.Scan(&dc.Domain, &dc.Runs); err != nil {
			return Stats{}, fmt.Errorf("history: scan domain count: %w", err)
		}
		st.ByDomain = append(st.ByDomain, dc)
	}
	return st, rows.Err()
}

// countClamps totals every governance adjustment in the audit block:
// clamped thresholds, temporal and interaction coefficients, the
// temporal scale, and floored or renormalized weights.
func countClamps(o *validate.Overrides) int {
	n := 0
	if o.ThresholdOverrides != nil {
		for _, adj := range o.ThresholdOverrides.Applied {
			if adj.WasClamped {
				n++
			}
		}
	}
	if o.TemporalConfig != nil {
		n += len(o.TemporalConfig.Clamped)
	}
	if o.Interaction != nil {
		n += len(o.Interaction.Clamped)
	}
	if o.FTime.Clamped {
		n++
	}
	if o.Weights != nil {
		n += len(o.Weights.NegativeClamped)
		if o.Weights.Renormalized {
			n++
		}
	}
	return n
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
