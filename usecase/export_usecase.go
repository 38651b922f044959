package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ytcollector/domain/model"
	"ytcollector/domain/repository"
	"ytcollector/infrastructure/filecsv"
	"ytcollector/infrastructure/logger"
)

// IExportUseCase turns store tables into delimited text.
type IExportUseCase interface {
	WriteTable(ctx context.Context, w io.Writer, table string, filter repository.RecordFilter) (int, error)
	Export(ctx context.Context, dir string, filter repository.RecordFilter) (map[string]int, error)
}

// ExportUseCase implements IExportUseCase.
type ExportUseCase struct {
	store repository.IRecordStore
	style filecsv.Style
	comma rune
}

func NewExportUseCase(store repository.IRecordStore, style filecsv.Style, comma rune) *ExportUseCase {
	return &ExportUseCase{store: store, style: style, comma: comma}
}

// WriteTable writes a header of column names followed by one line per row of
// table and reports the number of data rows.
func (u *ExportUseCase) WriteTable(ctx context.Context, w io.Writer, table string, filter repository.RecordFilter) (int, error) {
	t, ok := model.LookupTable(table)
	if !ok {
		return 0, &model.InvalidInputError{Input: table, Reason: "unknown table"}
	}

	session, err := u.store.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	return u.writeTable(ctx, session, w, t, filter)
}

func (u *ExportUseCase) writeTable(ctx context.Context, session repository.IRecordSession, w io.Writer, t model.Table, filter repository.RecordFilter) (int, error) {
	out := filecsv.NewWriter(w, u.style, u.comma)
	if err := out.Write(t.ColumnNames()); err != nil {
		return 0, err
	}
	n := 0
	err := session.ScanRows(ctx, t.Name, filter, func(row []any) error {
		n++
		return out.WriteRow(row)
	})
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	return n, err
}

// Export writes <table>.csv into dir for every table and returns the row
// count per table. The video filter only narrows tables that carry a
// videoId column.
func (u *ExportUseCase) Export(ctx context.Context, dir string, filter repository.RecordFilter) (map[string]int, error) {
	session, err := u.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	counts := make(map[string]int, len(model.Tables()))
	for _, t := range model.Tables() {
		file, err := filecsv.NewFile(dir, t.Name+".csv")
		if err != nil {
			return counts, err
		}
		n, err := u.writeTable(ctx, session, file, t, filter)
		if cerr := file.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		if err != nil {
			return counts, fmt.Errorf("export %s: %w", t.Name, err)
		}
		counts[t.Name] = n
		logger.GetLogger().WithField("table", t.Name).WithField("rows", n).Info("Table exported")
	}
	return counts, nil
}
