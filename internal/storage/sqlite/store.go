// Package sqlite provides a SQLite-backed creature store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"creaturelab/internal/storage"
	"creaturelab/internal/storage/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Store persists creature state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite creature store at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutCreatures upserts records in one transaction: either every record is
// written or none is.
func (s *Store) PutCreatures(ctx context.Context, records ...storage.CreatureRecord) (err error) {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put creatures: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	for _, record := range records {
		if err := putCreature(ctx, tx, record, now); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put creatures: %w", err)
	}
	return nil
}

func putCreature(ctx context.Context, tx *sql.Tx, record storage.CreatureRecord, now time.Time) error {
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("creature id is required")
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("creature %s: name is required", id)
	}
	updatedAt := record.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = now
	}
	createdAt := record.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = updatedAt
	}

	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO creatures (
		   id, kind, name, born_on, health, resource, created_at, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   kind = excluded.kind,
		   name = excluded.name,
		   born_on = excluded.born_on,
		   health = excluded.health,
		   resource = excluded.resource,
		   updated_at = excluded.updated_at`,
		id,
		record.Kind,
		record.Name,
		record.BornOn,
		record.Health,
		record.Resource,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put creature %s: %w", id, err)
	}
	return nil
}

// GetCreature returns one creature record by ID.
func (s *Store) GetCreature(ctx context.Context, id string) (storage.CreatureRecord, error) {
	if err := s.ready(ctx); err != nil {
		return storage.CreatureRecord{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.CreatureRecord{}, fmt.Errorf("creature id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, kind, name, born_on, health, resource, created_at, updated_at
		   FROM creatures
		  WHERE id = ?`,
		id,
	)
	record, err := scanCreature(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CreatureRecord{}, storage.ErrNotFound
		}
		return storage.CreatureRecord{}, fmt.Errorf("get creature: %w", err)
	}
	return record, nil
}

// ListCreatures returns every creature record ordered by name, then ID.
func (s *Store) ListCreatures(ctx context.Context) ([]storage.CreatureRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, kind, name, born_on, health, resource, created_at, updated_at
		   FROM creatures
		  ORDER BY name ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list creatures: %w", err)
	}
	defer rows.Close()

	var records []storage.CreatureRecord
	for rows.Next() {
		record, err := scanCreature(rows)
		if err != nil {
			return nil, fmt.Errorf("list creatures: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list creatures: %w", err)
	}
	return records, nil
}

// DeleteCreature removes one creature record.
func (s *Store) DeleteCreature(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM creatures WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("delete creature: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete creature: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCreature(row scanner) (storage.CreatureRecord, error) {
	var record storage.CreatureRecord
	var createdAt, updatedAt int64
	if err := row.Scan(
		&record.ID,
		&record.Kind,
		&record.Name,
		&record.BornOn,
		&record.Health,
		&record.Resource,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.CreatureRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

var _ storage.CreatureStore = (*Store)(nil)
