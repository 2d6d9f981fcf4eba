// Package store handles SQLite persistence of recorded gauge updates.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/arcgauge/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNoSessions is returned when a session lookup finds nothing recorded.
var ErrNoSessions = errors.New("no recorded sessions")

// Store wraps SQLite access for recorded samples.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS samples (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			at_ns INTEGER NOT NULL,
			value REAL,
			color TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_samples_session_at ON samples(session_id, at_ns);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSample stores one update request.
func (s *Store) InsertSample(ctx context.Context, sample model.Sample) (int64, error) {
	if sample.Session == "" {
		return 0, fmt.Errorf("sample has no session")
	}
	var value sql.NullFloat64
	if sample.Value != nil {
		value = sql.NullFloat64{Float64: *sample.Value, Valid: true}
	}
	var color sql.NullString
	if sample.Color != nil {
		color = sql.NullString{String: *sample.Color, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO samples (session_id, at_ns, value, color) VALUES (?, ?, ?, ?)`,
		sample.Session, sample.At.UnixNano(), value, color)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSamples returns samples in recording order. cfg.Session limits the
// result to one session; cfg.Last keeps only the most recent entries.
func (s *Store) ListSamples(ctx context.Context, cfg model.HistoryConfig) ([]model.Sample, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Session != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, cfg.Session)
	}
	limit := ""
	if cfg.Last > 0 {
		limit = "LIMIT ?"
		args = append(args, cfg.Last)
	}
	query := fmt.Sprintf(`SELECT session_id, at_ns, value, color FROM (
		SELECT id, session_id, at_ns, value, color
		FROM samples
		WHERE %s
		ORDER BY at_ns DESC, id DESC
		%s
	) ORDER BY at_ns ASC, id ASC`, strings.Join(clauses, " AND "), limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Sample
	for rows.Next() {
		var (
			sample model.Sample
			atNs   int64
			value  sql.NullFloat64
			color  sql.NullString
		)
		if err := rows.Scan(&sample.Session, &atNs, &value, &color); err != nil {
			return nil, err
		}
		sample.At = time.Unix(0, atNs).UTC()
		if value.Valid {
			v := value.Float64
			sample.Value = &v
		}
		if color.Valid {
			c := color.String
			sample.Color = &c
		}
		result = append(result, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListSessions summarises every recorded session, oldest first.
func (s *Store) ListSessions(ctx context.Context) ([]model.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session_id, MIN(at_ns), MAX(at_ns), COUNT(*)
		FROM samples
		GROUP BY session_id
		ORDER BY MIN(at_ns) ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionSummary
	for rows.Next() {
		var (
			summary model.SessionSummary
			started int64
			ended   int64
		)
		if err := rows.Scan(&summary.Session, &started, &ended, &summary.Samples); err != nil {
			return nil, err
		}
		summary.StartedAt = time.Unix(0, started).UTC()
		summary.EndedAt = time.Unix(0, ended).UTC()
		sessions = append(sessions, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// LatestSession returns the id of the most recently started session.
func (s *Store) LatestSession(ctx context.Context) (string, error) {
	var session string
	err := s.db.QueryRowContext(ctx, `SELECT session_id FROM samples
		GROUP BY session_id
		ORDER BY MIN(at_ns) DESC
		LIMIT 1`).Scan(&session)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoSessions
	}
	if err != nil {
		return "", err
	}
	return session, nil
}
