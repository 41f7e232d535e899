package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	version int
	name    string
	up      string
	down    string
}

// loadMigrations pairs NNNNNN_name.up.sql with NNNNNN_name.down.sql and
// returns them sorted by version.
func loadMigrations(fsys fs.FS, dir string) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	byVersion := make(map[int]*migration)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}

		base := strings.TrimSuffix(e.Name(), ".sql")
		direction := path.Ext(base)
		base = strings.TrimSuffix(base, direction)
		if direction != ".up" && direction != ".down" {
			return nil, fmt.Errorf("migration %s: want .up.sql or .down.sql", e.Name())
		}

		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: missing version prefix", e.Name())
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("migration %s: invalid version %q", e.Name(), prefix)
		}

		body, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}

		m, exists := byVersion[version]
		if !exists {
			m = &migration{version: version, name: name}
			byVersion[version] = m
		} else if m.name != name {
			return nil, fmt.Errorf("migration version %d used by %q and %q", version, m.name, name)
		}

		if direction == ".up" {
			m.up = string(body)
		} else {
			m.down = string(body)
		}
	}

	list := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.up == "" {
			return nil, fmt.Errorf("migration %06d_%s has no up file", m.version, m.name)
		}
		list = append(list, *m)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].version < list[j].version })

	return list, nil
}

const schemaMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version bigint PRIMARY KEY,
		applied_at timestamp(0) with time zone NOT NULL DEFAULT NOW()
	)
`

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	if _, err := db.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// pending returns the migrations not yet applied, oldest first.
func pending(all []migration, applied map[int]bool) []migration {
	var out []migration
	for _, m := range all {
		if !applied[m.version] {
			out = append(out, m)
		}
	}
	return out
}

// rollbackable returns up to steps applied migrations, newest first.
func rollbackable(all []migration, applied map[int]bool, steps int) []migration {
	var out []migration
	for i := len(all) - 1; i >= 0 && len(out) < steps; i-- {
		if applied[all[i].version] {
			out = append(out, all[i])
		}
	}
	return out
}

func migrateUp(ctx context.Context, db *sql.DB, all []migration) ([]migration, error) {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	todo := pending(all, applied)
	for _, m := range todo {
		err := inTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.up); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("apply %06d_%s: %w", m.version, m.name, err)
		}
	}
	return todo, nil
}

func migrateDown(ctx context.Context, db *sql.DB, all []migration, steps int) ([]migration, error) {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	todo := rollbackable(all, applied, steps)
	for _, m := range todo {
		if m.down == "" {
			return nil, fmt.Errorf("migration %06d_%s has no down file", m.version, m.name)
		}
		err := inTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.down); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, m.version)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("revert %06d_%s: %w", m.version, m.name, err)
		}
	}
	return todo, nil
}

func inTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // no-op once committed

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
