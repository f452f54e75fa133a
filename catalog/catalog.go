// Package catalog exports a binding plan into a SQLite database so the class
// hierarchy, upcast edges and method hashes can be inspected with SQL.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

var log = commonlog.GetLogger("gdext.catalog")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS classes (
  name         TEXT PRIMARY KEY,
  ord          INTEGER NOT NULL,
  go_name      TEXT NOT NULL,
  parent       TEXT NOT NULL DEFAULT '',
  api_type     TEXT NOT NULL DEFAULT '',
  memory       TEXT NOT NULL,
  refcounted   INTEGER NOT NULL,
  instantiable INTEGER NOT NULL,
  singleton    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS edges (
  derived  TEXT NOT NULL REFERENCES classes(name) ON DELETE CASCADE,
  base     TEXT NOT NULL REFERENCES classes(name) ON DELETE CASCADE,
  distance INTEGER NOT NULL,
  PRIMARY KEY (derived, base)
);
CREATE INDEX IF NOT EXISTS edges_base ON edges(base);
CREATE TABLE IF NOT EXISTS methods (
  class       TEXT NOT NULL REFERENCES classes(name) ON DELETE CASCADE,
  ord         INTEGER NOT NULL,
  name        TEXT NOT NULL,
  hash        INTEGER,
  is_virtual  INTEGER NOT NULL,
  is_static   INTEGER NOT NULL,
  is_vararg   INTEGER NOT NULL,
  is_const    INTEGER NOT NULL,
  return_type TEXT NOT NULL DEFAULT '',
  arg_count   INTEGER NOT NULL,
  PRIMARY KEY (class, name)
);
CREATE TABLE IF NOT EXISTS enums (
  owner       TEXT NOT NULL,
  name        TEXT NOT NULL,
  go_name     TEXT NOT NULL,
  is_bitfield INTEGER NOT NULL,
  PRIMARY KEY (owner, name)
);
CREATE TABLE IF NOT EXISTS enum_values (
  owner TEXT NOT NULL,
  enum  TEXT NOT NULL,
  ord   INTEGER NOT NULL,
  name  TEXT NOT NULL,
  value INTEGER NOT NULL,
  PRIMARY KEY (owner, enum, name),
  FOREIGN KEY (owner, enum) REFERENCES enums(owner, name) ON DELETE CASCADE
);
`

// Catalog is an open catalog database.
type Catalog struct {
	path string
	db   *sql.DB
}

// Open opens or creates the catalog at path and ensures its tables exist.
func Open(ctx context.Context, path string) (*Catalog, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("catalog path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("catalog path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog directory %q: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping catalog %q: %w", cleanPath, err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize catalog schema %q: %w", cleanPath, err)
	}
	log.Debugf("opened catalog %s", cleanPath)
	return &Catalog{path: cleanPath, db: db}, nil
}

// Path returns the database file.
func (c *Catalog) Path() string {
	return c.path
}

// Close closes the database. It is a no-op on a nil catalog.
func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
