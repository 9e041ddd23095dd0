package database

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// sqliteTimeLayout is fixed-width so stored timestamps sort lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// Dialect hides the differences between Postgres and SQLite that the
// repositories care about: placeholders, DDL types and timestamp encoding.
type Dialect struct {
	driver string
}

// NewDialect returns the dialect for a driver name.
func NewDialect(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
		return Dialect{driver: driver}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Driver returns the database/sql driver name.
func (d Dialect) Driver() string {
	return d.driver
}

// Rebind rewrites '?' placeholders into the driver's native form.
// Queries are written once with '?' and rebound for Postgres as $1..$n.
func (d Dialect) Rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Time encodes a timestamp for use as a query argument.
func (d Dialect) Time(t time.Time) any {
	if d.driver == DriverSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// NullableTime encodes an optional timestamp; nil becomes SQL NULL.
func (d Dialect) NullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return d.Time(*t)
}

// ddl expands the type placeholders used in schema statements.
func (d Dialect) ddl(stmt string) string {
	var r *strings.Replacer
	if d.driver == DriverPostgres {
		r = strings.NewReplacer(
			"{pk}", "BIGSERIAL PRIMARY KEY",
			"{ts}", "TIMESTAMPTZ",
			"{float}", "DOUBLE PRECISION",
			"{json}", "JSONB",
		)
	} else {
		r = strings.NewReplacer(
			"{pk}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{ts}", "TEXT",
			"{float}", "REAL",
			"{json}", "TEXT",
		)
	}
	return r.Replace(stmt)
}
