package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Dialect selects placeholder style and DDL for the backing store.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Placeholder returns the squirrel placeholder format for the dialect.
func (d Dialect) Placeholder() sq.PlaceholderFormat {
	if d == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

const postgresBooksTable = `
CREATE TABLE IF NOT EXISTS books (
	id           BIGSERIAL PRIMARY KEY,
	title        TEXT    NOT NULL,
	author       TEXT    NOT NULL,
	year         INTEGER NOT NULL DEFAULT 0,
	genre        TEXT    NOT NULL DEFAULT '',
	language     TEXT    NOT NULL DEFAULT '',
	pages        INTEGER NOT NULL DEFAULT 0,
	description  TEXT,
	image        TEXT,
	is_available BOOLEAN NOT NULL DEFAULT TRUE
)`

const sqliteBooksTable = `
CREATE TABLE IF NOT EXISTS books (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT    NOT NULL,
	author       TEXT    NOT NULL,
	year         INTEGER NOT NULL DEFAULT 0,
	genre        TEXT    NOT NULL DEFAULT '',
	language     TEXT    NOT NULL DEFAULT '',
	pages        INTEGER NOT NULL DEFAULT 0,
	description  TEXT,
	image        TEXT,
	is_available BOOLEAN NOT NULL DEFAULT 1
)`

var bookIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_books_author ON books (author)`,
	`CREATE INDEX IF NOT EXISTS idx_books_year ON books (year)`,
	`CREATE INDEX IF NOT EXISTS idx_books_genre ON books (genre)`,
}

// EnsureSchema creates the books table and its indexes if missing.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	ddl := sqliteBooksTable
	if dialect == DialectPostgres {
		ddl = postgresBooksTable
	}

	stmts := append([]string{ddl}, bookIndexes...)
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
