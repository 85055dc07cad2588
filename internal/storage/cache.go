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
	"strings"
	"time"

	applog "motionforge/internal/log"
	"motionforge/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// CacheDirName stores all per-project ephemeral data under the project root.
	CacheDirName  = ".mf"
	CacheFileName = "cache.sqlite"

	// cacheSchemaVersion tracks the local SQLite schema for the render cache.
	// Bump this on breaking schema changes and add a migration step.
	cacheSchemaVersion = 2
)

// CachePath returns the full path to the project's render cache database file.
func CachePath(projectRoot string) string {
	return filepath.Join(projectRoot, CacheDirName, CacheFileName)
}

// CacheKey derives the deterministic cache key for one render: emission is a
// pure function of the script text, so (script, scene, quality) identifies
// the output exactly.
func CacheKey(script, sceneID, quality string) string {
	h := sha256.New()
	h.Write([]byte(sceneID))
	h.Write([]byte{0})
	h.Write([]byte(quality))
	h.Write([]byte{0})
	h.Write([]byte(script))
	return hex.EncodeToString(h.Sum(nil))
}

// RenderCache is the per-project SQLite-backed render result cache.
type RenderCache struct {
	db *sql.DB
}

// OpenRenderCache ensures the per-project SQLite cache exists under
// .mf/cache.sqlite, opens the database, enables WAL mode, and ensures the
// meta/version tables exist.
func OpenRenderCache(projectRoot string) (*RenderCache, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "cache_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	if err := os.MkdirAll(filepath.Join(projectRoot, CacheDirName), 0o755); err != nil {
		l.Error("create .mf dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .mf dir: %w", err)
	}

	path := CachePath(projectRoot)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := ensureCacheMeta(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureCacheSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure cache schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runCacheMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("render cache ready", slog.String("path", path))
	return &RenderCache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *RenderCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// RenderResult is one cached render outcome.
type RenderResult struct {
	Key        string
	SceneID    string
	Quality    string
	OutputPath string
	CreatedAt  time.Time
}

// Lookup returns the cached render for a key, or ok=false on a miss.
func (c *RenderCache) Lookup(ctx context.Context, key string) (RenderResult, bool, error) {
	var r RenderResult
	var created string
	err := c.db.QueryRowContext(ctx,
		`SELECT key, scene_id, quality, output_path, created_at FROM renders WHERE key = ?`, key,
	).Scan(&r.Key, &r.SceneID, &r.Quality, &r.OutputPath, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return RenderResult{}, false, nil
	}
	if err != nil {
		return RenderResult{}, false, fmt.Errorf("cache lookup: %w", err)
	}
	if t, perr := time.Parse(time.RFC3339, created); perr == nil {
		r.CreatedAt = t
	}
	return r, true, nil
}

// Store records a render outcome under its key, replacing any previous entry.
func (c *RenderCache) Store(ctx context.Context, r RenderResult) error {
	if r.Key == "" {
		return errors.New("render result key is required")
	}
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO renders (key, scene_id, quality, output_path, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   scene_id = excluded.scene_id,
		   quality = excluded.quality,
		   output_path = excluded.output_path,
		   created_at = excluded.created_at`,
		r.Key, r.SceneID, r.Quality, r.OutputPath, created.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	return nil
}

// Invalidate removes every cached render for one scene, used after the scene
// changes in a way that does not flow through the key (asset edits).
func (c *RenderCache) Invalidate(ctx context.Context, sceneID string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM renders WHERE scene_id = ?`, sceneID); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func ensureCacheMeta(ctx context.Context, db *sql.DB) error {
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
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, cacheSchemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations.
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureCacheSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS renders (
			key         TEXT PRIMARY KEY,
			scene_id    TEXT NOT NULL,
			quality     TEXT NOT NULL,
			output_path TEXT NOT NULL,
			created_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create cache schema: %w", err)
		}
	}
	return nil
}

// runCacheMigrations applies incremental schema migrations up to
// cacheSchemaVersion.
func runCacheMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > cacheSchemaVersion {
		// Never downgrade.
		return nil
	}
	for cur < cacheSchemaVersion {
		next := cur + 1
		switch next {
		case 2:
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_renders_scene ON renders(scene_id);`,
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
		default:
			// Unknown future step; stop.
		}
		cur = next
	}
	return nil
}
