package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"photonic-sparam/internal/errors"
)

// SQLiteStore persists runs in a sqlite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Storage("failed to open sqlite database", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Storage("failed to reach sqlite database", err)
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, errors.Storage("failed to initialize sqlite schema", err)
	}

	return &SQLiteStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			device TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			points INTEGER NOT NULL,
			ports INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at);
	`)
	return err
}

// Save implements Store
func (s *SQLiteStore) Save(ctx context.Context, run *StoredRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(run)
	if err != nil {
		return errors.Storage("failed to marshal run", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, device, name, points, ports, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			device = excluded.device,
			name = excluded.name,
			points = excluded.points,
			ports = excluded.ports,
			created_at = excluded.created_at,
			payload = excluded.payload
	`, run.ID, string(run.Device), run.Name, run.Points, run.Ports, run.CreatedAt.UnixNano(), payload)
	if err != nil {
		return errors.Storage("failed to save run", err)
	}
	return nil
}

// Get implements Store
func (s *SQLiteStore) Get(ctx context.Context, id string) (*StoredRun, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("run", id)
		}
		return nil, errors.Storage("failed to query run", err)
	}

	var run StoredRun
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, errors.Storage("failed to unmarshal run", err)
	}
	return &run, nil
}

// List implements Store
func (s *SQLiteStore) List(ctx context.Context, filter *ListFilter) ([]*StoredRun, error) {
	query := `SELECT payload FROM runs`
	var clauses []string
	var args []interface{}

	if filter != nil {
		if filter.Device != "" {
			clauses = append(clauses, "device = ?")
			args = append(args, string(filter.Device))
		}
		if !filter.Since.IsZero() {
			clauses = append(clauses, "created_at >= ?")
			args = append(args, filter.Since.UnixNano())
		}
		if !filter.Until.IsZero() {
			clauses = append(clauses, "created_at <= ?")
			args = append(args, filter.Until.UnixNano())
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	query += " ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?"
	limit := -1
	offset := 0
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		if filter.Offset > 0 {
			offset = filter.Offset
		}
	}
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Storage("failed to list runs", err)
	}
	defer rows.Close()

	var runs []*StoredRun
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Storage("failed to scan run", err)
		}
		var run StoredRun
		if err := json.Unmarshal(payload, &run); err != nil {
			return nil, errors.Storage("failed to unmarshal run", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("failed to iterate runs", err)
	}
	return runs, nil
}

// Delete implements Store
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return errors.Storage("failed to delete run", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Storage("failed to check delete result", err)
	}
	if affected == 0 {
		return errors.NotFound("run", id)
	}
	return nil
}

// Close implements Store
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
