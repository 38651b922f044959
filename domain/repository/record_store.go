package repository

import (
	"context"
	"time"

	"ytcollector/domain/model"
)

// IRecordStore opens sessions on the local relational store. The schema is
// ensured when the store is constructed, not per session.
type IRecordStore interface {
	Open(ctx context.Context) (IRecordSession, error)
	Close() error
}

// RecordFilter narrows a table read. The zero value matches every row.
type RecordFilter struct {
	// VideoID keeps rows whose videoId column equals it. Ignored for tables
	// without that column.
	VideoID string
	// Limit caps the number of rows; 0 means no cap.
	Limit  int
	Offset int
}

// IRecordSession is one logical session: all calls share a single
// connection. Sessions are not safe for concurrent use.
type IRecordSession interface {
	// Upsert inserts rec or replaces the row with the same primary key.
	Upsert(ctx context.Context, rec model.Record) error
	Exists(ctx context.Context, table, id string) (bool, error)
	// Get returns nil and no error when the row is absent.
	Get(ctx context.Context, table, id string) (model.Record, error)
	ListAll(ctx context.Context, table string) ([]model.Record, error)
	// List is ListAll with a filter, ordered by primary key.
	List(ctx context.Context, table string, filter RecordFilter) ([]model.Record, error)
	// ListCommentsByVideo returns the comments whose videoId is videoID.
	ListCommentsByVideo(ctx context.Context, videoID string) ([]model.Comment, error)
	Delete(ctx context.Context, table, id string) error
	// DeleteCommentsByVideo deletes the comments whose videoId is videoID and
	// reports how many rows went.
	DeleteCommentsByVideo(ctx context.Context, videoID string) (int64, error)
	// PurgeVideo atomically removes a video, its threads, its comments and
	// the replies to those comments.
	PurgeVideo(ctx context.Context, videoID string) error

	// GetQuota returns the remaining budget stored for date, or def when the
	// day has no row yet.
	GetQuota(ctx context.Context, date time.Time, def int64) (int64, error)
	// SetQuota overwrites the budget stored for date.
	SetQuota(ctx context.Context, date time.Time, value int64) error

	// ScanRows streams the flat rows of table in primary-key order. Each row
	// has one value per column: string, int64, bool or nil.
	ScanRows(ctx context.Context, table string, filter RecordFilter, fn func(row []any) error) error

	Close() error
}
