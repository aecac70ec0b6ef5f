// Package sqlite implements store.Store on SQLite through the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/haukened/zonekeeper/internal/dns/domain"
	"github.com/haukened/zonekeeper/internal/dns/repos/store"
)

//go:embed schema.sql
var schemaSQL string

type sqliteStore struct {
	conn *sql.DB
}

// New opens or creates a SQLite database at path and applies the schema.
func New(path string) (store.Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection serializes transactions, matching the single-writer
	// contract of store.Store.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &sqliteStore{conn: conn}, nil
}

func (s *sqliteStore) Close() error { return s.conn.Close() }

func (s *sqliteStore) View(fn func(store.Tx) error) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	return fn(&sqliteTx{tx: tx})
}

func (s *sqliteStore) Update(fn func(store.Tx) error) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	if err := fn(&sqliteTx{tx: tx, writable: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type sqliteTx struct {
	tx       *sql.Tx
	writable bool
}

func (t *sqliteTx) checkWritable() error {
	if !t.writable {
		return store.ErrReadOnly
	}
	return nil
}

func (t *sqliteTx) zoneExists(id string) (bool, error) {
	var n int
	err := t.tx.QueryRow("SELECT COUNT(1) FROM zones WHERE id = ?", id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up zone %s: %w", id, err)
	}
	return n > 0, nil
}

func (t *sqliteTx) GetZone(id string) (domain.Zone, error) {
	var z domain.Zone
	var data string
	err := t.tx.QueryRow("SELECT data FROM zones WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return z, domain.NewNotFound("zone", id)
	}
	if err != nil {
		return z, fmt.Errorf("failed to get zone %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), &z); err != nil {
		return z, fmt.Errorf("decode zone %s: %w", id, err)
	}
	return z, nil
}

func (t *sqliteTx) PutZone(z domain.Zone) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	data, err := json.Marshal(z)
	if err != nil {
		return fmt.Errorf("encode zone %s: %w", z.ID, err)
	}
	_, err = t.tx.Exec(`
		INSERT INTO zones (id, name, data) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			data = excluded.data
	`, z.ID, z.CanonicalName(), string(data))
	if err != nil {
		return fmt.Errorf("failed to put zone %s: %w", z.ID, err)
	}
	return nil
}

func (t *sqliteTx) DeleteZone(id string) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	// records go first so the delete does not depend on the foreign_keys pragma
	if _, err := t.tx.Exec("DELETE FROM records WHERE zone_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete records of zone %s: %w", id, err)
	}
	res, err := t.tx.Exec("DELETE FROM zones WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete zone %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFound("zone", id)
	}
	return nil
}

func (t *sqliteTx) Zones(match func(domain.Zone) bool) ([]domain.Zone, error) {
	rows, err := t.tx.Query("SELECT id, data FROM zones")
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	defer rows.Close()

	var out []domain.Zone
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		var z domain.Zone
		if err := json.Unmarshal([]byte(data), &z); err != nil {
			return nil, fmt.Errorf("decode zone %s: %w", id, err)
		}
		if match == nil || match(z) {
			out = append(out, z)
		}
	}
	return out, rows.Err()
}

// NamesVersion reads the counter kept by the zones triggers in schema.sql.
func (t *sqliteTx) NamesVersion() (uint64, error) {
	var v int64
	if err := t.tx.QueryRow("SELECT version FROM names_version WHERE id = 1").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to get names version: %w", err)
	}
	return uint64(v), nil
}

func (t *sqliteTx) GetRecord(id string) (domain.Record, error) {
	var r domain.Record
	var data string
	err := t.tx.QueryRow("SELECT data FROM records WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return r, domain.NewNotFound("record", id)
	}
	if err != nil {
		return r, fmt.Errorf("failed to get record %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return r, fmt.Errorf("decode record %s: %w", id, err)
	}
	return r, nil
}

func (t *sqliteTx) PutRecord(r domain.Record) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	ok, err := t.zoneExists(r.ZoneID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewNotFound("zone", r.ZoneID)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", r.ID, err)
	}
	_, err = t.tx.Exec(`
		INSERT INTO records (id, zone_id, data) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			zone_id = excluded.zone_id,
			data = excluded.data
	`, r.ID, r.ZoneID, string(data))
	if err != nil {
		return fmt.Errorf("failed to put record %s: %w", r.ID, err)
	}
	return nil
}

func (t *sqliteTx) DeleteRecord(id string) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	res, err := t.tx.Exec("DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFound("record", id)
	}
	return nil
}

func (t *sqliteTx) RecordsByZone(zoneID string) ([]domain.Record, error) {
	ok, err := t.zoneExists(zoneID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFound("zone", zoneID)
	}

	rows, err := t.tx.Query("SELECT id, data FROM records WHERE zone_id = ?", zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records of zone %s: %w", zoneID, err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		var r domain.Record
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", id, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ store.Store = (*sqliteStore)(nil)
var _ store.Tx = (*sqliteTx)(nil)
