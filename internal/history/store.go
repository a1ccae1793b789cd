// Package history keeps a log of story analyses in SQLite.
//
// The analysis engine is stateless; this package sits outside it and
// records snapshots that callers explicitly attach to a story ID, so a
// writer can watch a story's completeness score move across revisions.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is a package-level var so tests can pin timestamps.
var timeNow = time.Now

// ErrNotFound is returned when a snapshot ID does not exist.
var ErrNotFound = errors.New("history: snapshot not found")

// ─── Types ───────────────────────────────────────────────────────────────────

// Snapshot is one recorded analysis of a story.
type Snapshot struct {
	ID              string          `json:"id"`
	StoryID         string          `json:"story_id"`
	Action          string          `json:"action"`
	SceneCount      int             `json:"scene_count"`
	OverallScore    *int            `json:"overall_score,omitempty"`
	TotalDuration   *int            `json:"total_duration,omitempty"`
	PeakCount       *int            `json:"peak_count,omitempty"`
	SuggestionCount *int            `json:"suggestion_count,omitempty"`
	Result          json.RawMessage `json:"result,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

// Stats holds aggregate history statistics.
type Stats struct {
	TotalAnalyses   int      `json:"total_analyses"`
	DistinctStories int      `json:"distinct_stories"`
	AverageScore    *float64 `json:"average_score,omitempty"`
	Stories         []string `json:"stories"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds history store configuration.
type Config struct {
	DataDir    string
	MaxResults int
}

// DefaultConfig returns the default configuration for the history store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:    filepath.Join(home, ".local", "share", "storybeat"),
		MaxResults: 20,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the analysis log backed by SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates the data directory if needed, opens SQLite with WAL mode
// and runs migrations.
func New(cfg Config) (*Store, error) {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultConfig().MaxResults
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
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
			_ = db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// MaxResults is the default list limit.
func (s *Store) MaxResults() int {
	return s.cfg.MaxResults
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS analyses (
			seq              INTEGER PRIMARY KEY AUTOINCREMENT,
			id               TEXT    NOT NULL UNIQUE,
			story_id         TEXT    NOT NULL,
			action           TEXT    NOT NULL,
			scene_count      INTEGER NOT NULL DEFAULT 0,
			overall_score    INTEGER,
			total_duration   INTEGER,
			peak_count       INTEGER,
			suggestion_count INTEGER,
			result           TEXT,
			created_at       TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_analyses_story   ON analyses(story_id, seq DESC);
		CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at DESC);
	`)
	return err
}

// ─── Writes ──────────────────────────────────────────────────────────────────

// Record stores a snapshot and returns its ID. An empty ID is replaced
// with a new UUID and an empty CreatedAt with the current time.
func (s *Store) Record(ctx context.Context, snap Snapshot) (string, error) {
	storyID := strings.TrimSpace(snap.StoryID)
	if storyID == "" {
		return "", errors.New("history: story id is required")
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt == "" {
		snap.CreatedAt = timeNow().UTC().Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, story_id, action, scene_count, overall_score,
		                       total_duration, peak_count, suggestion_count, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, storyID, snap.Action, snap.SceneCount,
		nullableInt(snap.OverallScore), nullableInt(snap.TotalDuration),
		nullableInt(snap.PeakCount), nullableInt(snap.SuggestionCount),
		nullableString(string(snap.Result)), snap.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("history: insert snapshot: %w", err)
	}
	return snap.ID, nil
}

// DeleteStory removes every snapshot of a story and reports how many
// were deleted.
func (s *Store) DeleteStory(ctx context.Context, storyID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE story_id = ?`, storyID)
	if err != nil {
		return 0, fmt.Errorf("history: delete story: %w", err)
	}
	return res.RowsAffected()
}

// ─── Reads ───────────────────────────────────────────────────────────────────

const snapshotColumns = `id, story_id, action, scene_count, overall_score,
	total_duration, peak_count, suggestion_count, result, created_at`

// Get returns one snapshot including its full result.
func (s *Store) Get(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM analyses WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("history: get snapshot: %w", err)
	}
	return snap, nil
}

// ListByStory returns a story's snapshots, newest first. Results are
// omitted from listed snapshots; use Get for the full payload.
func (s *Store) ListByStory(ctx context.Context, storyID string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = s.cfg.MaxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+snapshotColumns+` FROM analyses
		 WHERE story_id = ?
		 ORDER BY seq DESC
		 LIMIT ?`,
		storyID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("history: scan snapshot: %w", err)
		}
		snap.Result = nil
		out = append(out, *snap)
	}
	return out, rows.Err()
}

// CountStory returns how many snapshots a story has.
func (s *Store) CountStory(ctx context.Context, storyID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses WHERE story_id = ?`, storyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("history: count snapshots: %w", err)
	}
	return n, nil
}

// Stats returns aggregate counts across all stories.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT story_id), AVG(overall_score) FROM analyses`,
	).Scan(&st.TotalAnalyses, &st.DistinctStories, &avg)
	if err != nil {
		return nil, fmt.Errorf("history: stats: %w", err)
	}
	if avg.Valid {
		v := avg.Float64
		st.AverageScore = &v
	}

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT story_id FROM analyses ORDER BY story_id`)
	if err != nil {
		return nil, fmt.Errorf("history: list stories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	st.Stories = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		st.Stories = append(st.Stories, id)
	}
	return &st, rows.Err()
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*Snapshot, error) {
	var (
		snap                                Snapshot
		score, duration, peaks, suggestions sql.NullInt64
		result                              sql.NullString
	)
	if err := row.Scan(&snap.ID, &snap.StoryID, &snap.Action, &snap.SceneCount,
		&score, &duration, &peaks, &suggestions, &result, &snap.CreatedAt); err != nil {
		return nil, err
	}
	snap.OverallScore = intFromNull(score)
	snap.TotalDuration = intFromNull(duration)
	snap.PeakCount = intFromNull(peaks)
	snap.SuggestionCount = intFromNull(suggestions)
	if result.Valid {
		snap.Result = json.RawMessage(result.String)
	}
	return &snap, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
