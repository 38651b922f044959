package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ytcollector/domain/model"
	"ytcollector/infrastructure/logger"
)

const quotaTable = "quota"

// EnsureSchema creates the quota table and one table per record type if they
// do not exist yet. It is safe to call on every start.
func EnsureSchema(ctx context.Context, db *sql.DB, d dialect) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s TEXT PRIMARY KEY, %s %s NOT NULL)`,
		quote(quotaTable), quote("date"), quote("value"), d.columnType(model.ColumnInteger))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s table: %w", quotaTable, err)
	}

	for _, t := range model.Tables() {
		if _, err := db.ExecContext(ctx, createTableDDL(d, t)); err != nil {
			return fmt.Errorf("create %s table: %w", t.Name, err)
		}
	}

	indexes := []struct{ table, column string }{
		{model.TableComments, "videoId"},
		{model.TableComments, "parentId"},
		{model.TableThreads, "videoId"},
	}
	for _, ix := range indexes {
		name := fmt.Sprintf("idx_%s_%s", ix.table, strings.ToLower(ix.column))
		stmt := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (%s)`, quote(name), quote(ix.table), quote(ix.column))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.GetLogger().WithField("error", err).Warnf("failed creating %s", name)
		}
	}
	return nil
}

func createTableDDL(d dialect, t model.Table) string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		def := quote(c.Name) + " " + d.columnType(c.Type)
		if c.PrimaryKey {
			def += " PRIMARY KEY"
		}
		defs[i] = def
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(t.Name), strings.Join(defs, ", "))
}
