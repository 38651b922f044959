package model

import (
	"encoding/json"
	"fmt"
	"time"

	"ytcollector/domain/schema"
)

const (
	TableVideos   = "videos"
	TableComments = "comments"
	TableThreads  = "threads"
)

// ColumnType is the storage class of a column.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnInteger
	ColumnBool
)

// Column is one column of a record's flat projection.
type Column struct {
	Name       string
	Type       ColumnType
	PrimaryKey bool
}

// Record is anything the store can persist: it names its table, describes
// its flat columns and projects itself onto them.
type Record interface {
	TableName() string
	Scheme() []Column
	// Serialize returns one value per Scheme column, nil for NULL.
	Serialize() ([]any, error)
	PrimaryKey() string
}

// Table ties a table name to its columns and to the decoder that rebuilds a
// Record from a scanned row. Row values are string, int64, bool or nil.
type Table struct {
	Name    string
	Columns []Column
	Decode  func(row map[string]any) (Record, error)
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether name is a column of t.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

var tables = map[string]Table{
	TableVideos:   {Name: TableVideos, Columns: videoColumns, Decode: decodeVideoRow},
	TableComments: {Name: TableComments, Columns: commentColumns, Decode: decodeCommentRow},
	TableThreads:  {Name: TableThreads, Columns: threadColumns, Decode: decodeThreadRow},
}

// LookupTable returns the table registered under name.
func LookupTable(name string) (Table, bool) {
	t, ok := tables[name]
	return t, ok
}

// Tables returns every registered table in a stable order.
func Tables() []Table {
	return []Table{tables[TableVideos], tables[TableComments], tables[TableThreads]}
}

func text(name string) Column    { return Column{Name: name, Type: ColumnText} }
func integer(name string) Column { return Column{Name: name, Type: ColumnInteger} }
func boolean(name string) Column { return Column{Name: name, Type: ColumnBool} }

func primaryKey(name string) Column {
	return Column{Name: name, Type: ColumnText, PrimaryKey: true}
}

var videoColumns = []Column{
	primaryKey("id"),
	text("publishedAt"),
	text("channelId"),
	text("title"),
	text("description"),
	text("thumbnails"),
	text("channelTitle"),
	text("tags"),
	text("categoryId"),
	text("liveBroadcastContent"),
	text("defaultLanguage"),
	text("localized"),
	text("defaultAudioLanguage"),
}

var commentColumns = []Column{
	primaryKey("id"),
	text("channelId"),
	text("videoId"),
	text("textDisplay"),
	text("textOriginal"),
	text("parentId"),
	text("authorDisplayName"),
	text("authorProfileImageUrl"),
	text("authorChannelUrl"),
	text("authorChannelId"),
	boolean("canRate"),
	text("viewerRating"),
	integer("likeCount"),
	text("publishedAt"),
	text("updatedAt"),
}

var threadColumns = []Column{
	primaryKey("id"),
	text("channelId"),
	text("videoId"),
	text("topLevelCommentId"),
	boolean("canReply"),
	integer("totalReplyCount"),
	boolean("isPublic"),
}

const timeLayout = time.RFC3339Nano

func (Video) TableName() string   { return TableVideos }
func (Video) Scheme() []Column    { return videoColumns }
func (v Video) PrimaryKey() string { return v.ID }

func (v Video) Serialize() ([]any, error) {
	thumbnails, err := encodeJSON(v.Snippet.Thumbnails)
	if err != nil {
		return nil, fmt.Errorf("encode thumbnails of video %s: %w", v.ID, err)
	}
	localized, err := encodeJSON(v.Snippet.Localized)
	if err != nil {
		return nil, fmt.Errorf("encode localized of video %s: %w", v.ID, err)
	}
	var tags any
	if v.Snippet.Tags != nil {
		if tags, err = encodeJSON(v.Snippet.Tags); err != nil {
			return nil, fmt.Errorf("encode tags of video %s: %w", v.ID, err)
		}
	}
	s := v.Snippet
	return []any{
		v.ID,
		s.PublishedAt.Format(timeLayout),
		s.ChannelID,
		s.Title,
		s.Description,
		thumbnails,
		s.ChannelTitle,
		tags,
		s.CategoryID,
		s.LiveBroadcastContent,
		nullable(s.DefaultLanguage),
		localized,
		nullable(s.DefaultAudioLanguage),
	}, nil
}

func decodeVideoRow(row map[string]any) (Record, error) {
	thumbnails, err := decodeJSON(row["thumbnails"])
	if err != nil {
		return nil, fmt.Errorf("decode thumbnails: %w", err)
	}
	tags, err := decodeJSON(row["tags"])
	if err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	localized, err := decodeJSON(row["localized"])
	if err != nil {
		return nil, fmt.Errorf("decode localized: %w", err)
	}
	return schema.Decode[Video](VideoSchema, map[string]any{
		"kind": KindVideo,
		"id":   row["id"],
		"snippet": map[string]any{
			"publishedAt":          row["publishedAt"],
			"channelId":            row["channelId"],
			"title":                row["title"],
			"description":          row["description"],
			"thumbnails":           thumbnails,
			"channelTitle":         row["channelTitle"],
			"tags":                 tags,
			"categoryId":           row["categoryId"],
			"liveBroadcastContent": row["liveBroadcastContent"],
			"defaultLanguage":      row["defaultLanguage"],
			"localized":            localized,
			"defaultAudioLanguage": row["defaultAudioLanguage"],
		},
	}, schema.Strict)
}

func (Comment) TableName() string   { return TableComments }
func (Comment) Scheme() []Column    { return commentColumns }
func (c Comment) PrimaryKey() string { return c.ID }

// Serialize flattens the author channel reference to its channel ID.
func (c Comment) Serialize() ([]any, error) {
	s := c.Snippet
	var authorChannelID any
	if s.AuthorChannelID != nil {
		authorChannelID = s.AuthorChannelID.Value
	}
	return []any{
		c.ID,
		s.ChannelID,
		nullable(s.VideoID),
		s.TextDisplay,
		s.TextOriginal,
		nullable(s.ParentID),
		s.AuthorDisplayName,
		s.AuthorProfileImageURL,
		s.AuthorChannelURL,
		authorChannelID,
		s.CanRate,
		s.ViewerRating,
		s.LikeCount,
		s.PublishedAt.Format(timeLayout),
		s.UpdatedAt.Format(timeLayout),
	}, nil
}

func decodeCommentRow(row map[string]any) (Record, error) {
	var authorChannelID any
	if id, ok := row["authorChannelId"].(string); ok {
		authorChannelID = map[string]any{"value": id}
	}
	return schema.Decode[Comment](CommentSchema, map[string]any{
		"kind": KindComment,
		"id":   row["id"],
		"snippet": map[string]any{
			"channelId":             row["channelId"],
			"videoId":               row["videoId"],
			"textDisplay":           row["textDisplay"],
			"textOriginal":          row["textOriginal"],
			"parentId":              row["parentId"],
			"authorDisplayName":     row["authorDisplayName"],
			"authorProfileImageUrl": row["authorProfileImageUrl"],
			"authorChannelUrl":      row["authorChannelUrl"],
			"authorChannelId":       authorChannelID,
			"canRate":               row["canRate"],
			"viewerRating":          row["viewerRating"],
			"likeCount":             row["likeCount"],
			"publishedAt":           row["publishedAt"],
			"updatedAt":             row["updatedAt"],
		},
	}, schema.Strict)
}

func (CommentThread) TableName() string   { return TableThreads }
func (CommentThread) Scheme() []Column    { return threadColumns }
func (t CommentThread) PrimaryKey() string { return t.ID }

// Serialize keeps only a reference to the top-level comment, which is stored
// as its own row.
func (t CommentThread) Serialize() ([]any, error) {
	s := t.Snippet
	return []any{
		t.ID,
		s.ChannelID,
		s.VideoID,
		s.TopLevelComment.ID,
		s.CanReply,
		s.TotalReplyCount,
		s.IsPublic,
	}, nil
}

// ThreadRow is the stored projection of a CommentThread. The top-level comment
// is a reference; load it from the comments table when needed.
type ThreadRow struct {
	ID                string `json:"id"`
	ChannelID         string `json:"channelId"`
	VideoID           string `json:"videoId"`
	TopLevelCommentID string `json:"topLevelCommentId"`
	CanReply          bool   `json:"canReply"`
	TotalReplyCount   int64  `json:"totalReplyCount"`
	IsPublic          bool   `json:"isPublic"`
}

var ThreadRowSchema = &schema.Schema{
	Name: "ThreadRow",
	Fields: []schema.Field{
		{Name: "id", Type: schema.String},
		{Name: "channelId", Type: schema.String},
		{Name: "videoId", Type: schema.String},
		{Name: "topLevelCommentId", Type: schema.String},
		{Name: "canReply", Type: schema.Bool},
		{Name: "totalReplyCount", Type: schema.Count},
		{Name: "isPublic", Type: schema.Bool},
	},
	Build: func(v schema.Values) any {
		return ThreadRow{
			ID:                v.String("id"),
			ChannelID:         v.String("channelId"),
			VideoID:           v.String("videoId"),
			TopLevelCommentID: v.String("topLevelCommentId"),
			CanReply:          v.Bool("canReply"),
			TotalReplyCount:   v.Int("totalReplyCount"),
			IsPublic:          v.Bool("isPublic"),
		}
	},
}

func (ThreadRow) TableName() string   { return TableThreads }
func (ThreadRow) Scheme() []Column    { return threadColumns }
func (r ThreadRow) PrimaryKey() string { return r.ID }

func (r ThreadRow) Serialize() ([]any, error) {
	return []any{r.ID, r.ChannelID, r.VideoID, r.TopLevelCommentID, r.CanReply, r.TotalReplyCount, r.IsPublic}, nil
}

func decodeThreadRow(row map[string]any) (Record, error) {
	return schema.Decode[ThreadRow](ThreadRowSchema, row, schema.Strict)
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeJSON turns a stored JSON text column back into a loosely-typed value.
// NULL stays nil.
func decodeJSON(col any) (any, error) {
	s, ok := col.(string)
	if !ok || s == "" {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
