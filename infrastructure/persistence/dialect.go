package persistence

import (
	"fmt"
	"strings"

	"ytcollector/domain/model"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// dialect holds the statement shapes that differ between the supported
// databases. Identifiers are always double-quoted so the camelCase column
// names survive PostgreSQL's case folding.
type dialect struct {
	name        string
	placeholder func(n int) string
	columnType  func(model.ColumnType) string
	upsert      func(table string, columns []string, key string) string
}

var sqliteDialect = dialect{
	name:        DriverSQLite,
	placeholder: sqlitePlaceholder,
	columnType: func(t model.ColumnType) string {
		if t == model.ColumnText {
			return "TEXT"
		}
		return "INTEGER"
	},
	upsert: func(table string, columns []string, _ string) string {
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
			quote(table), quoteAll(columns), placeholders(sqlitePlaceholder, len(columns), 1))
	},
}

var postgresDialect = dialect{
	name:        DriverPostgres,
	placeholder: postgresPlaceholder,
	columnType: func(t model.ColumnType) string {
		switch t {
		case model.ColumnInteger:
			return "BIGINT"
		case model.ColumnBool:
			return "BOOLEAN"
		}
		return "TEXT"
	},
	upsert: func(table string, columns []string, key string) string {
		sets := make([]string, 0, len(columns))
		for _, c := range columns {
			if c == key {
				continue
			}
			sets = append(sets, fmt.Sprintf("%s=EXCLUDED.%s", quote(c), quote(c)))
		}
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
			quote(table), quoteAll(columns), placeholders(postgresPlaceholder, len(columns), 1),
			quote(key), strings.Join(sets, ", "))
	},
}

func sqlitePlaceholder(int) string     { return "?" }
func postgresPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverSQLite, "":
		return sqliteDialect, nil
	case DriverPostgres:
		return postgresDialect, nil
	}
	return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func quoteAll(idents []string) string {
	quoted := make([]string, len(idents))
	for i, id := range idents {
		quoted[i] = quote(id)
	}
	return strings.Join(quoted, ", ")
}

// placeholders renders n parameters numbered from first.
func placeholders(placeholder func(int) string, n, first int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = placeholder(first + i)
	}
	return strings.Join(ps, ", ")
}
