// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a history of pipeline runs in SQLite so past
// reports can be listed and re-read without repeating any network call.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/usecase-engine/pkg/types"
)

// ErrNotFound is returned by Get when no run has the requested ID.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	subject        TEXT NOT NULL,
	status         TEXT NOT NULL,
	started_at     TEXT NOT NULL,
	completed_at   TEXT NOT NULL DEFAULT '',
	documents      INTEGER NOT NULL DEFAULT 0,
	generated      INTEGER NOT NULL DEFAULT 0,
	backend_errors TEXT NOT NULL DEFAULT '[]',
	report_path    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS use_cases (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position     INTEGER NOT NULL,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	data_sources TEXT NOT NULL DEFAULT '',
	impact       TEXT NOT NULL DEFAULT '',
	complexity   TEXT NOT NULL DEFAULT '',
	score        REAL
);

CREATE TABLE IF NOT EXISTS resources (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	use_case_id INTEGER NOT NULL REFERENCES use_cases(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	url         TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	notes       TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_use_cases_run_id ON use_cases(run_id);
CREATE INDEX IF NOT EXISTS idx_resources_use_case_id ON resources(use_case_id);
`

// Store is the SQLite run archive.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the archive at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type runRow struct {
	ID            int64  `db:"id"`
	Subject       string `db:"subject"`
	Status        string `db:"status"`
	StartedAt     string `db:"started_at"`
	CompletedAt   string `db:"completed_at"`
	Documents     int    `db:"documents"`
	Generated     int    `db:"generated"`
	BackendErrors string `db:"backend_errors"`
	ReportPath    string `db:"report_path"`
}

type useCaseRow struct {
	ID          int64           `db:"id"`
	RunID       int64           `db:"run_id"`
	Position    int             `db:"position"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	DataSources string          `db:"data_sources"`
	Impact      string          `db:"impact"`
	Complexity  string          `db:"complexity"`
	Score       sql.NullFloat64 `db:"score"`
}

type resourceRow struct {
	UseCaseID int64  `db:"use_case_id"`
	Position  int    `db:"position"`
	URL       string `db:"url"`
	Title     string `db:"title"`
	Notes     string `db:"notes"`
	Source    string `db:"source"`
}

// Record stores rec with its use cases and resources in one transaction and
// returns the new run ID.
func (s *Store) Record(ctx context.Context, rec types.RunRecord) (int64, error) {
	errs, err := json.Marshal(nonNil(rec.BackendErrors))
	if err != nil {
		return 0, fmt.Errorf("encoding backend errors: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.NamedExecContext(ctx, `INSERT INTO runs
		(subject, status, started_at, completed_at, documents, generated, backend_errors, report_path)
		VALUES (:subject, :status, :started_at, :completed_at, :documents, :generated, :backend_errors, :report_path)`,
		runRow{
			Subject:       rec.Subject,
			Status:        string(rec.Status),
			StartedAt:     formatTime(rec.StartedAt),
			CompletedAt:   formatTime(rec.CompletedAt),
			Documents:     rec.Documents,
			Generated:     rec.Generated,
			BackendErrors: string(errs),
			ReportPath:    rec.ReportPath,
		})
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, uc := range rec.UseCases {
		row := useCaseRow{
			RunID:       runID,
			Position:    i,
			Title:       uc.Title,
			Description: uc.Description,
			DataSources: uc.DataSources,
			Impact:      uc.Impact,
			Complexity:  uc.Complexity,
		}
		if uc.Score != nil {
			row.Score = sql.NullFloat64{Float64: *uc.Score, Valid: true}
		}
		res, err := tx.NamedExecContext(ctx, `INSERT INTO use_cases
			(run_id, position, title, description, data_sources, impact, complexity, score)
			VALUES (:run_id, :position, :title, :description, :data_sources, :impact, :complexity, :score)`, row)
		if err != nil {
			return 0, fmt.Errorf("inserting use case %q: %w", uc.Title, err)
		}
		ucID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading use case id: %w", err)
		}

		for j, r := range uc.Resources {
			if _, err := tx.NamedExecContext(ctx, `INSERT INTO resources
				(use_case_id, position, url, title, notes, source)
				VALUES (:use_case_id, :position, :url, :title, :notes, :source)`,
				resourceRow{UseCaseID: ucID, Position: j, URL: r.URL, Title: r.Title, Notes: r.Notes, Source: r.Source}); err != nil {
				return 0, fmt.Errorf("inserting resource %s: %w", r.URL, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// List returns the most recent runs first, without their use cases. A
// limit of zero or less returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]types.RunRecord, error) {
	query := `SELECT * FROM runs ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []runRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	out := make([]types.RunRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get returns one run with its ranked use cases and their resources.
func (s *Store) Get(ctx context.Context, id int64) (*types.RunRecord, error) {
	var row runRow
	if err := s.db.GetContext(ctx, &row, `SELECT * FROM runs WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("reading run %d: %w", id, err)
	}
	rec, err := row.record()
	if err != nil {
		return nil, err
	}

	var ucRows []useCaseRow
	if err := s.db.SelectContext(ctx, &ucRows,
		`SELECT * FROM use_cases WHERE run_id = ? ORDER BY position`, id); err != nil {
		return nil, fmt.Errorf("reading use cases: %w", err)
	}

	var resRows []resourceRow
	if err := s.db.SelectContext(ctx, &resRows, `
		SELECT r.use_case_id, r.position, r.url, r.title, r.notes, r.source
		FROM resources r JOIN use_cases u ON u.id = r.use_case_id
		WHERE u.run_id = ? ORDER BY r.use_case_id, r.position`, id); err != nil {
		return nil, fmt.Errorf("reading resources: %w", err)
	}
	byUseCase := make(map[int64][]types.ResourceLink)
	for _, r := range resRows {
		byUseCase[r.UseCaseID] = append(byUseCase[r.UseCaseID], types.ResourceLink{
			URL: r.URL, Title: r.Title, Notes: r.Notes, Source: r.Source,
		})
	}

	for _, u := range ucRows {
		uc := types.UseCase{
			Title:       u.Title,
			Description: u.Description,
			DataSources: u.DataSources,
			Impact:      u.Impact,
			Complexity:  u.Complexity,
			Resources:   byUseCase[u.ID],
		}
		if u.Score.Valid {
			v := u.Score.Float64
			uc.Score = &v
		}
		rec.UseCases = append(rec.UseCases, uc)
	}
	return &rec, nil
}

func (r runRow) record() (types.RunRecord, error) {
	rec := types.RunRecord{
		ID:         r.ID,
		Subject:    r.Subject,
		Status:     types.RunStatus(r.Status),
		Documents:  r.Documents,
		Generated:  r.Generated,
		ReportPath: r.ReportPath,
	}
	var err error
	if rec.StartedAt, err = parseTime(r.StartedAt); err != nil {
		return rec, fmt.Errorf("run %d started_at: %w", r.ID, err)
	}
	if rec.CompletedAt, err = parseTime(r.CompletedAt); err != nil {
		return rec, fmt.Errorf("run %d completed_at: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.BackendErrors), &rec.BackendErrors); err != nil {
		return rec, fmt.Errorf("run %d backend_errors: %w", r.ID, err)
	}
	if len(rec.BackendErrors) == 0 {
		rec.BackendErrors = nil
	}
	return rec, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
