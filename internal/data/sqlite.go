package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteBackend persists groups in a sqlite database file. The schema
// mirrors the group/record split: one row per group and one row per record,
// with columns and row payloads as JSON blobs.
type SQLiteBackend struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteBackend(path string) *SQLiteBackend {
	return &SQLiteBackend{path: path}
}

func (b *SQLiteBackend) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.path == "" {
		return errors.New("sqlite path is required")
	}
	if b.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", b.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	b.db = db
	return nil
}

func (b *SQLiteBackend) ListGroups(ctx context.Context) ([]string, error) {
	db, err := b.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM datagroup ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (b *SQLiteBackend) LoadGroup(ctx context.Context, id string) (*Group, bool, error) {
	db, err := b.getDB()
	if err != nil {
		return nil, false, err
	}

	var snapshot groupSnapshot
	err = db.QueryRowContext(ctx, `
		SELECT id, name, meta, created_at FROM datagroup WHERE id = ?
	`, id).Scan(&snapshot.ID, &snapshot.Name, &snapshot.Meta, &snapshot.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT name, columns, rows FROM datarecord WHERE group_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var records []recordSnapshot
	for rows.Next() {
		var stored recordSnapshot
		if err := rows.Scan(&stored.Name, &stored.Columns, &stored.Rows); err != nil {
			return nil, false, err
		}
		records = append(records, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	group, err := restoreFromSnapshots(snapshot, records)
	if err != nil {
		return nil, false, fmt.Errorf("restore group %s: %w", id, err)
	}
	return group, true, nil
}

func (b *SQLiteBackend) SaveGroup(ctx context.Context, group *Group) error {
	if group == nil {
		return errors.New("group is required")
	}
	db, err := b.getDB()
	if err != nil {
		return err
	}
	snapshot, records, err := snapshotGroup(group)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO datagroup (id, name, meta, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			meta = excluded.meta,
			created_at = excluded.created_at
	`, snapshot.ID, snapshot.Name, snapshot.Meta, snapshot.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM datarecord WHERE group_id = ?`, snapshot.ID); err != nil {
		return err
	}
	for position, stored := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO datarecord (group_id, name, position, columns, rows)
			VALUES (?, ?, ?, ?, ?)
		`, snapshot.ID, stored.Name, position, stored.Columns, stored.Rows)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (b *SQLiteBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

func (b *SQLiteBackend) getDB() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return nil, errors.New("backend is not initialized")
	}
	return b.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS datagroup (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			meta BLOB,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS datarecord (
			group_id TEXT NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			columns BLOB NOT NULL,
			rows BLOB NOT NULL,
			PRIMARY KEY (group_id, name),
			FOREIGN KEY (group_id) REFERENCES datagroup(id)
		);
	`)
	return err
}
