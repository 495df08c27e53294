package backend

import (
	"context"
	"database/sql"
	"fmt"

	"poptique_list/internal/listview"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the list in one table. Row order is insertion order, so
// deleting a row shifts the numbers of the rows after it like a sheet does.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path. ":memory:" works for tests.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// a :memory: database exists per connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	const schema = `CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product TEXT NOT NULL,
		platform TEXT NOT NULL DEFAULT '',
		picked INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}

	log.Debug().Str("path", path).Msg("Opened sqlite store")
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Rows(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT product, platform, picked FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		var picked int
		if err := rows.Scan(&p.Product, &p.Platform, &picked); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		p.Picked = picked != 0
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *SQLiteStore) Append(ctx context.Context, p Product) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO items(product, platform, picked) VALUES(?, ?, ?)`,
		p.Product, p.Platform, boolToInt(p.Picked))
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

func (s *SQLiteStore) idForRow(ctx context.Context, row int) (int64, error) {
	offset := row - listview.FirstDataRow
	if offset < 0 {
		return 0, ErrRowNotFound
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM items ORDER BY id LIMIT 1 OFFSET ?`, offset).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrRowNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve row %d: %w", row, err)
	}
	return id, nil
}

func (s *SQLiteStore) updateRow(ctx context.Context, row int, query string, arg any) error {
	id, err := s.idForRow(ctx, row)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, arg, id); err != nil {
		return fmt.Errorf("failed to update row %d: %w", row, err)
	}
	return nil
}

func (s *SQLiteStore) SetPicked(ctx context.Context, row int, picked bool) error {
	return s.updateRow(ctx, row, `UPDATE items SET picked = ? WHERE id = ?`, boolToInt(picked))
}

func (s *SQLiteStore) SetPlatform(ctx context.Context, row int, platform string) error {
	return s.updateRow(ctx, row, `UPDATE items SET platform = ? WHERE id = ?`, platform)
}

func (s *SQLiteStore) Delete(ctx context.Context, row int) error {
	id, err := s.idForRow(ctx, row)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete row %d: %w", row, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetPickedForPlatform(ctx context.Context, platform string, picked bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE items SET picked = ? WHERE platform = ? OR (? = ? AND platform = '')`,
		boolToInt(picked), platform, platform, listview.OtherPlatform)
	if err != nil {
		return fmt.Errorf("failed to update platform %q: %w", platform, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
