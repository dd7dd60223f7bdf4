// Package store persists uploaded presentations, their spatial map JSON,
// and exported slide images under a per-job directory, with a SQLite index
// for listing and lookup.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tsawler/slidemap/spatial"
)

// ErrNotFound is returned when a job, slide, or component does not exist.
var ErrNotFound = errors.New("not found")

// Job is one processed upload.
type Job struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	CreatedAt  time.Time `json:"created_at"`
	SlideCount int       `json:"slide_count"`
}

// Config configures a Store.
type Config struct {
	// Root is the directory holding all job directories and the index
	// database. Required.
	Root string `json:"root" yaml:"root"`

	// Logger for storage diagnostics.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() error {
	if c.Root == "" {
		return errors.New("store: root directory is required")
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}

// Store manages job directories and the index database.
type Store struct {
	root string
	db   *sql.DB
	log  *slog.Logger
}

// Open creates the root directory if needed and opens the job index.
func Open(cfg Config) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("creating store root: %w", err)
	}

	dsn := filepath.Join(cfg.Root, "jobs.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening job index: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	filename    TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	slide_count INTEGER NOT NULL DEFAULT 0
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating job index schema: %w", err)
	}

	return &Store{root: cfg.Root, db: db, log: cfg.Logger}, nil
}

// Close closes the job index.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateJob allocates a job directory for the named upload and records it
// in the index. The returned job's directory is ready for writes.
func (s *Store) CreateJob(filename string) (*Job, error) {
	now := time.Now().UTC()
	id := now.Format("20060102-150405") + "-" + uuid.NewString()[:8]

	job := &Job{ID: id, Filename: filepath.Base(filename), CreatedAt: now}
	if err := os.MkdirAll(s.ImagesDir(id), 0o755); err != nil {
		return nil, fmt.Errorf("creating job dir: %w", err)
	}

	_, err := s.db.Exec(
		`INSERT INTO jobs (id, filename, created_at, slide_count) VALUES (?, ?, ?, 0)`,
		job.ID, job.Filename, job.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("indexing job: %w", err)
	}
	return job, nil
}

// SetSlideCount records the processed slide count for a job.
func (s *Store) SetSlideCount(id string, n int) error {
	res, err := s.db.Exec(`UPDATE jobs SET slide_count = ? WHERE id = ?`, n, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Job looks up a single job by id.
func (s *Store) Job(id string) (*Job, error) {
	row := s.db.QueryRow(
		`SELECT id, filename, created_at, slide_count FROM jobs WHERE id = ?`, id)

	var j Job
	if err := row.Scan(&j.ID, &j.Filename, &j.CreatedAt, &j.SlideCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// ListJobs returns all jobs, newest first.
func (s *Store) ListJobs() ([]*Job, error) {
	rows, err := s.db.Query(
		`SELECT id, filename, created_at, slide_count FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Filename, &j.CreatedAt, &j.SlideCount); err != nil {
			return nil, err
		}
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

// JobDir returns the directory holding a job's files.
func (s *Store) JobDir(id string) string {
	return filepath.Join(s.root, id)
}

// ImagesDir returns the directory holding a job's exported slide images.
func (s *Store) ImagesDir(id string) string {
	return filepath.Join(s.root, id, "images")
}

// PPTXPath returns where a job's uploaded presentation lives.
func (s *Store) PPTXPath(job *Job) string {
	return filepath.Join(s.JobDir(job.ID), job.Filename)
}

func mappingPath(dir, filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return filepath.Join(dir, base+".spatial.json")
}

// SaveMapping writes a job's spatial map JSON next to the upload.
func (s *Store) SaveMapping(jobID string, m *spatial.Mapping) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding mapping: %w", err)
	}
	return os.WriteFile(mappingPath(s.JobDir(jobID), m.File), data, 0o644)
}

// LoadMapping reads a job's spatial map JSON back.
func (s *Store) LoadMapping(jobID string) (*spatial.Mapping, error) {
	matches, _ := filepath.Glob(filepath.Join(s.JobDir(jobID), "*.spatial.json"))
	if len(matches) == 0 {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, err
	}
	var m spatial.Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding mapping: %w", err)
	}
	return &m, nil
}

// ComponentUpdate carries edits to one component. Nil fields are left
// unchanged. Geometry is canvas-relative.
type ComponentUpdate struct {
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	W    *float64 `json:"w"`
	H    *float64 `json:"h"`
	Type *string  `json:"type"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// UpdateComponent applies an edit to one component and persists the
// mapping. Position is clamped to the canvas and size is clamped so the
// box stays inside it. The EMU box is recomputed from the relative one.
func (s *Store) UpdateComponent(jobID string, slide int, compID string, upd ComponentUpdate) (*spatial.Component, error) {
	m, err := s.LoadMapping(jobID)
	if err != nil {
		return nil, err
	}
	rec := m.Slide(slide)
	if rec == nil {
		return nil, ErrNotFound
	}
	comp := rec.Component(compID)
	if comp == nil {
		return nil, ErrNotFound
	}

	box := comp.BBoxRel
	if upd.X != nil {
		box[0] = clamp(*upd.X, 0, 1)
	}
	if upd.Y != nil {
		box[1] = clamp(*upd.Y, 0, 1)
	}
	if upd.W != nil {
		box[2] = *upd.W
	}
	if upd.H != nil {
		box[3] = *upd.H
	}
	box[2] = clamp(box[2], 0, 1-box[0])
	box[3] = clamp(box[3], 0, 1-box[1])
	comp.BBoxRel = box

	comp.BBoxEMU = spatial.EMUBox{
		int(box[0] * float64(rec.Canvas.W)),
		int(box[1] * float64(rec.Canvas.H)),
		int(box[2] * float64(rec.Canvas.W)),
		int(box[3] * float64(rec.Canvas.H)),
	}

	if upd.Type != nil && *upd.Type != "" {
		comp.Type = spatial.ComponentType(*upd.Type)
	}

	if err := s.SaveMapping(jobID, m); err != nil {
		return nil, err
	}
	return comp, nil
}

// DeleteComponent removes one component from a slide and persists the
// mapping. Remaining z values are left untouched so ids stay stable.
func (s *Store) DeleteComponent(jobID string, slide int, compID string) error {
	m, err := s.LoadMapping(jobID)
	if err != nil {
		return err
	}
	rec := m.Slide(slide)
	if rec == nil {
		return ErrNotFound
	}

	kept := rec.Components[:0]
	found := false
	for _, c := range rec.Components {
		if c.ID == compID {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return ErrNotFound
	}
	rec.Components = kept

	return s.SaveMapping(jobID, m)
}
