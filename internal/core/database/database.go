package database

import (
	"context"
	"database/sql"
	"fmt"

	"shipdesk/internal/core/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DB wraps the connection pool together with its dialect.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Open connects to the configured database, verifies the connection and
// applies the schema.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	dialect, err := NewDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(dialect.Driver(), cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s db: %w", cfg.Driver, err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s db: %w", cfg.Driver, err)
	}

	db := &DB{DB: sqlDB, dialect: dialect}

	if dialect.Driver() == DriverSQLite {
		// SQLite allows a single writer; one connection also keeps the
		// transaction and the pragmas on the same handle.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		for _, pragma := range []string{
			"PRAGMA busy_timeout = 5000",
			"PRAGMA foreign_keys = ON",
		} {
			if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
				sqlDB.Close()
				return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
			}
		}
	}

	if err := db.Migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// Dialect returns the SQL dialect of the connection.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Conn returns the transaction carried by ctx, or the pool itself.
func (db *DB) Conn(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db.DB
}
