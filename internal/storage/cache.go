/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	applog "svgpatch/internal/log"
	"svgpatch/internal/vector"
	"svgpatch/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// schemaVersion tracks the cache schema. Bump it together with a migration
// step in runMigrations.
const schemaVersion = 2

// Cache is a conversion cache backed by SQLite. It is safe for concurrent
// use; the pool holds a single connection.
type Cache struct {
	db   *sql.DB
	path string
	l    *slog.Logger
}

// Stats describes the cache contents.
type Stats struct {
	Path    string
	Schema  int
	Entries int64
	Shapes  int64
	Bytes   int64
	Hits    int64
}

// OpenCache opens or creates the cache database at path. When the file
// exists but is not a usable database it is copied to a timestamped backup
// next to it and a fresh cache is created.
func OpenCache(path string) (*Cache, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "cache_open").With(
		slog.String("path", path),
	)
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("cache path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create cache dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		if _, statErr := os.Stat(path); statErr != nil {
			l.Error("open cache failed", slog.Any("err", err))
			return nil, err
		}
		l.Warn("cache unusable, recreating", slog.Any("err", err))
		backupFile(path)
		removeDB(path)
		if db, err = openDB(path); err != nil {
			l.Error("recreate cache failed", slog.Any("err", err))
			return nil, err
		}
	}
	l.Debug("cache ready")
	return &Cache{db: db, path: path, l: applog.WithComponent("storage")}, nil
}

func openDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	var chk string
	if err := db.QueryRowContext(ctx, "PRAGMA quick_check;").Scan(&chk); err != nil || !strings.EqualFold(chk, "ok") {
		_ = db.Close()
		if err == nil {
			err = errors.New(chk)
		}
		return nil, fmt.Errorf("quick_check: %w", err)
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureCacheSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// keep the stored schema so migrations can run
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO meta(key, value) VALUES('encoding', ?)`, strconv.Itoa(vector.EncodingVersion))
	if err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	return nil
}

// ensureCacheSchema creates the entries table at the current schema. An
// older database already has the table and is brought forward by
// runMigrations.
func ensureCacheSchema(ctx context.Context, db *sql.DB) error {
	q := `CREATE TABLE IF NOT EXISTS entries (
		key         TEXT PRIMARY KEY,
		source      TEXT NOT NULL,
		shapes      INTEGER NOT NULL,
		payload     TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		hits        INTEGER NOT NULL DEFAULT 0
	);`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create entries: %w", err)
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for cur < schemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			// hit counter and a source index for Stats and purging by file
			stmts = []string{
				`ALTER TABLE entries ADD COLUMN hits INTEGER NOT NULL DEFAULT 0;`,
				`CREATE INDEX IF NOT EXISTS idx_entries_source ON entries(source);`,
			}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}

// backupFile copies the database into a timestamped file under backups/.
func backupFile(path string) {
	bdir := filepath.Join(filepath.Dir(path), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp))
	if data, err := os.ReadFile(path); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

func removeDB(path string) {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		_ = os.Remove(p)
	}
}

// Key derives the cache key for one conversion: the build that converts, the
// source bytes, the exclusion ids in any order and the arc subdivision count.
func Key(source []byte, exclude []string, arcSegments int) string {
	return keyFor(buildTag(), source, exclude, arcSegments)
}

// buildTag changes whenever a release or the shape encoding changes, so rows
// written by another build are never served.
func buildTag() string {
	return version.Version + "/" + strconv.Itoa(vector.EncodingVersion)
}

func keyFor(build string, source []byte, exclude []string, arcSegments int) string {
	ids := make([]string, 0, len(exclude))
	for _, id := range exclude {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	h := sha256.New()
	h.Write([]byte(build))
	h.Write([]byte{0})
	h.Write(source)
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(ids, "\x1f")))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(arcSegments)))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) Path() string { return c.path }

func (c *Cache) Close() error { return c.db.Close() }

// Get returns the cached shapes for key. A row whose payload fails schema
// validation or decoding is deleted and reported as a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]vector.Shape, bool, error) {
	var payload string
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM entries WHERE key=?`, key).Scan(&payload)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("read entry: %w", err)
	}

	shapes, err := decodePayload([]byte(payload))
	if err != nil {
		c.l.Warn("dropping invalid cache entry", slog.String("key", key), slog.Any("err", err))
		if _, delErr := c.db.ExecContext(ctx, `DELETE FROM entries WHERE key=?`, key); delErr != nil {
			return nil, false, fmt.Errorf("delete entry: %w", delErr)
		}
		return nil, false, nil
	}
	if _, err := c.db.ExecContext(ctx, `UPDATE entries SET hits = hits + 1 WHERE key=?`, key); err != nil {
		c.l.Warn("hit counter update failed", slog.Any("err", err))
	}
	return shapes, true, nil
}

// Put stores shapes under key, replacing any previous entry. source is the
// document path, kept for Stats and diagnostics.
func (c *Cache) Put(ctx context.Context, key, source string, shapes []vector.Shape) error {
	data, err := vector.MarshalShapes(shapes)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO entries(key, source, shapes, payload, created_at, hits) VALUES(?, ?, ?, ?, ?, 0)`,
		key, source, len(shapes), string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Path: c.path}
	if err := c.db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&st.Schema); err != nil {
		return st, fmt.Errorf("read schema version: %w", err)
	}
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(shapes), 0), COALESCE(SUM(LENGTH(payload)), 0), COALESCE(SUM(hits), 0) FROM entries`,
	).Scan(&st.Entries, &st.Shapes, &st.Bytes, &st.Hits)
	if err != nil {
		return st, fmt.Errorf("read stats: %w", err)
	}
	return st, nil
}

// Purge removes every entry and returns how many were deleted.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	n, _ := res.RowsAffected()
	if _, err := c.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE);`); err != nil {
		c.l.Warn("wal checkpoint failed", slog.Any("err", err))
	}
	return n, nil
}
