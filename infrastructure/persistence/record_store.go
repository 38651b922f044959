package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ytcollector/domain/model"
	"ytcollector/domain/repository"
)

const quotaDateLayout = "2006-01-02"

// RecordStore persists model records in a relational database.
type RecordStore struct {
	db      *sql.DB
	dialect dialect
}

// NewRecordStore wraps db, whose driver is DriverSQLite or DriverPostgres,
// and ensures the schema exists.
func NewRecordStore(ctx context.Context, db *sql.DB, driver string) (*RecordStore, error) {
	d, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db, d); err != nil {
		return nil, err
	}
	return &RecordStore{db: db, dialect: d}, nil
}

// OpenRecordStore opens the database named by driver and dsn and wraps it.
func OpenRecordStore(ctx context.Context, driver, dsn string) (*RecordStore, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite, "":
		db, err = NewSQLiteDB(dsn)
	case DriverPostgres:
		db, err = NewPostgreSQLDB(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	store, err := NewRecordStore(ctx, db, driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Open starts a session pinned to one connection.
func (s *RecordStore) Open(ctx context.Context) (repository.IRecordSession, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &recordSession{conn: conn, dialect: s.dialect}, nil
}

func (s *RecordStore) Close() error {
	return s.db.Close()
}

type recordSession struct {
	conn    *sql.Conn
	dialect dialect
}

func (s *recordSession) Close() error {
	return s.conn.Close()
}

func (s *recordSession) ph(n int) string {
	return s.dialect.placeholder(n)
}

func lookupTable(name string) (model.Table, error) {
	t, ok := model.LookupTable(name)
	if !ok {
		return model.Table{}, fmt.Errorf("unknown table %q", name)
	}
	return t, nil
}

func primaryKeyColumn(t model.Table) string {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c.Name
		}
	}
	return "id"
}

func (s *recordSession) Upsert(ctx context.Context, rec model.Record) error {
	t, err := lookupTable(rec.TableName())
	if err != nil {
		return err
	}
	values, err := rec.Serialize()
	if err != nil {
		return err
	}
	if len(values) != len(t.Columns) {
		return fmt.Errorf("%s record %s has %d values for %d columns", t.Name, rec.PrimaryKey(), len(values), len(t.Columns))
	}
	q := s.dialect.upsert(t.Name, t.ColumnNames(), primaryKeyColumn(t))
	if _, err := s.conn.ExecContext(ctx, q, values...); err != nil {
		return fmt.Errorf("upsert %s %s: %w", t.Name, rec.PrimaryKey(), err)
	}
	return nil
}

func (s *recordSession) Exists(ctx context.Context, table, id string) (bool, error) {
	t, err := lookupTable(table)
	if err != nil {
		return false, err
	}
	q := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = %s", quote(t.Name), quote(primaryKeyColumn(t)), s.ph(1))
	var one int
	if err := s.conn.QueryRowContext(ctx, q, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check %s %s: %w", t.Name, id, err)
	}
	return true, nil
}

func (s *recordSession) Get(ctx context.Context, table, id string) (model.Record, error) {
	t, err := lookupTable(table)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		quoteAll(t.ColumnNames()), quote(t.Name), quote(primaryKeyColumn(t)), s.ph(1))
	rows, err := s.conn.QueryContext(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", t.Name, id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	row, err := scanRow(rows, t)
	if err != nil {
		return nil, err
	}
	return decodeRow(t, row)
}

func (s *recordSession) ListAll(ctx context.Context, table string) ([]model.Record, error) {
	return s.List(ctx, table, repository.RecordFilter{})
}

func (s *recordSession) List(ctx context.Context, table string, filter repository.RecordFilter) ([]model.Record, error) {
	t, err := lookupTable(table)
	if err != nil {
		return nil, err
	}
	var out []model.Record
	err = s.ScanRows(ctx, table, filter, func(row []any) error {
		rec, err := decodeRow(t, row)
		if err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func (s *recordSession) ListCommentsByVideo(ctx context.Context, videoID string) ([]model.Comment, error) {
	recs, err := s.List(ctx, model.TableComments, repository.RecordFilter{VideoID: videoID})
	if err != nil {
		return nil, err
	}
	comments := make([]model.Comment, 0, len(recs))
	for _, rec := range recs {
		comments = append(comments, rec.(model.Comment))
	}
	return comments, nil
}

func (s *recordSession) Delete(ctx context.Context, table, id string) error {
	t, err := lookupTable(table)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", quote(t.Name), quote(primaryKeyColumn(t)), s.ph(1))
	if _, err := s.conn.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", t.Name, id, err)
	}
	return nil
}

func (s *recordSession) DeleteCommentsByVideo(ctx context.Context, videoID string) (int64, error) {
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", quote(model.TableComments), quote("videoId"), s.ph(1))
	res, err := s.conn.ExecContext(ctx, q, videoID)
	if err != nil {
		return 0, fmt.Errorf("delete comments of video %s: %w", videoID, err)
	}
	return res.RowsAffected()
}

// PurgeVideo deletes replies first: a reply listed by parent has no videoId
// and is only reachable through its top-level comment.
func (s *recordSession) PurgeVideo(ctx context.Context, videoID string) (err error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin purge of video %s: %w", videoID, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	comments, threads, videos := quote(model.TableComments), quote(model.TableThreads), quote(model.TableVideos)
	stmts := []string{
		fmt.Sprintf("DELETE FROM %s WHERE %s IN (SELECT %s FROM %s WHERE %s = %s)",
			comments, quote("parentId"), quote("id"), comments, quote("videoId"), s.ph(1)),
		fmt.Sprintf("DELETE FROM %s WHERE %s = %s", comments, quote("videoId"), s.ph(1)),
		fmt.Sprintf("DELETE FROM %s WHERE %s = %s", threads, quote("videoId"), s.ph(1)),
		fmt.Sprintf("DELETE FROM %s WHERE %s = %s", videos, quote("id"), s.ph(1)),
	}
	for _, q := range stmts {
		if _, err = tx.ExecContext(ctx, q, videoID); err != nil {
			return fmt.Errorf("purge video %s: %w", videoID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit purge of video %s: %w", videoID, err)
	}
	return nil
}

func (s *recordSession) GetQuota(ctx context.Context, date time.Time, def int64) (int64, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s", quote("value"), quote(quotaTable), quote("date"), s.ph(1))
	var value int64
	if err := s.conn.QueryRowContext(ctx, q, date.Format(quotaDateLayout)).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return def, nil
		}
		return 0, fmt.Errorf("get quota for %s: %w", date.Format(quotaDateLayout), err)
	}
	return value, nil
}

func (s *recordSession) SetQuota(ctx context.Context, date time.Time, value int64) error {
	q := s.dialect.upsert(quotaTable, []string{"date", "value"}, "date")
	if _, err := s.conn.ExecContext(ctx, q, date.Format(quotaDateLayout), value); err != nil {
		return fmt.Errorf("set quota for %s: %w", date.Format(quotaDateLayout), err)
	}
	return nil
}

// ScanRows ignores Offset when Limit is zero.
func (s *recordSession) ScanRows(ctx context.Context, table string, filter repository.RecordFilter, fn func(row []any) error) error {
	t, err := lookupTable(table)
	if err != nil {
		return err
	}

	var (
		sb   strings.Builder
		args []any
	)
	fmt.Fprintf(&sb, "SELECT %s FROM %s", quoteAll(t.ColumnNames()), quote(t.Name))
	if filter.VideoID != "" && t.HasColumn("videoId") {
		args = append(args, filter.VideoID)
		fmt.Fprintf(&sb, " WHERE %s = %s", quote("videoId"), s.ph(len(args)))
	}
	fmt.Fprintf(&sb, " ORDER BY %s", quote(primaryKeyColumn(t)))
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		fmt.Fprintf(&sb, " LIMIT %s OFFSET %s", s.ph(len(args)-1), s.ph(len(args)))
	}

	rows, err := s.conn.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return fmt.Errorf("scan %s: %w", t.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		row, err := scanRow(rows, t)
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}

// scanRow reads one row into string, int64, bool or nil values following the
// column types of t.
func scanRow(rows *sql.Rows, t model.Table) ([]any, error) {
	dest := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		switch c.Type {
		case model.ColumnInteger:
			dest[i] = new(sql.NullInt64)
		case model.ColumnBool:
			dest[i] = new(sql.NullBool)
		default:
			dest[i] = new(sql.NullString)
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan %s row: %w", t.Name, err)
	}

	row := make([]any, len(dest))
	for i, d := range dest {
		switch v := d.(type) {
		case *sql.NullInt64:
			if v.Valid {
				row[i] = v.Int64
			}
		case *sql.NullBool:
			if v.Valid {
				row[i] = v.Bool
			}
		case *sql.NullString:
			if v.Valid {
				row[i] = v.String
			}
		}
	}
	return row, nil
}

func decodeRow(t model.Table, row []any) (model.Record, error) {
	named := make(map[string]any, len(row))
	for i, c := range t.Columns {
		named[c.Name] = row[i]
	}
	rec, err := t.Decode(named)
	if err != nil {
		return nil, fmt.Errorf("decode %s row %v: %w", t.Name, named[primaryKeyColumn(t)], err)
	}
	return rec, nil
}
