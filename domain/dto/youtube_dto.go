package dto

import (
	"fmt"

	"ytcollector/domain/model"
	"ytcollector/domain/schema"
)

// PageInfo is the paging summary of a list response.
type PageInfo struct {
	TotalResults   int64 `json:"totalResults"`
	ResultsPerPage int64 `json:"resultsPerPage"`
}

// ListResponse is one page of a YouTube list call. NextPageToken is nil on
// the last page.
type ListResponse[T any] struct {
	Kind          string    `json:"kind"`
	Etag          *string   `json:"etag,omitempty"`
	NextPageToken *string   `json:"nextPageToken,omitempty"`
	PageInfo      *PageInfo `json:"pageInfo,omitempty"`
	Items         []T       `json:"items"`
}

type (
	VideoListResponse         = ListResponse[model.Video]
	CommentThreadListResponse = ListResponse[model.CommentThread]
	CommentListResponse       = ListResponse[model.Comment]
)

var PageInfoSchema = &schema.Schema{
	Name: "PageInfo",
	Fields: []schema.Field{
		{Name: "totalResults", Type: schema.Optional(schema.Count)},
		{Name: "resultsPerPage", Type: schema.Optional(schema.Count)},
	},
	Build: func(v schema.Values) any {
		return PageInfo{TotalResults: v.Int("totalResults"), ResultsPerPage: v.Int("resultsPerPage")}
	},
}

var (
	VideoListResponseSchema         = listResponseSchema("VideoListResponse", model.VideoSchema)
	CommentThreadListResponseSchema = listResponseSchema("CommentThreadListResponse", model.CommentThreadSchema)
	CommentListResponseSchema       = listResponseSchema("CommentListResponse", model.CommentSchema)
)

func listResponseSchema(name string, item *schema.Schema) *schema.Schema {
	return &schema.Schema{
		Name: name,
		Fields: []schema.Field{
			{Name: "kind", Type: schema.String},
			{Name: "etag", Type: schema.Optional(schema.String)},
			{Name: "nextPageToken", Type: schema.Optional(schema.String)},
			{Name: "pageInfo", Type: schema.Optional(schema.Nested(PageInfoSchema))},
			{Name: "items", Type: schema.ListOf(schema.Nested(item))},
		},
		Build: func(v schema.Values) any {
			page := ListResponse[any]{
				Kind:          v.String("kind"),
				Etag:          v.OptString("etag"),
				NextPageToken: v.OptString("nextPageToken"),
				Items:         v.List("items"),
			}
			if info, ok := v.Record("pageInfo").(PageInfo); ok {
				page.PageInfo = &info
			}
			return page
		},
	}
}

// DecodeListResponse validates one raw page against s, one of the list
// response schemas above, and converts its items to T.
func DecodeListResponse[T any](s *schema.Schema, raw any, mode schema.Mode) (ListResponse[T], error) {
	page, err := schema.Decode[ListResponse[any]](s, raw, mode)
	if err != nil {
		return ListResponse[T]{}, err
	}
	items := make([]T, len(page.Items))
	for i, item := range page.Items {
		typed, ok := item.(T)
		if !ok {
			return ListResponse[T]{}, fmt.Errorf("%s item %d is %T", s.Name, i, item)
		}
		items[i] = typed
	}
	return ListResponse[T]{
		Kind:          page.Kind,
		Etag:          page.Etag,
		NextPageToken: page.NextPageToken,
		PageInfo:      page.PageInfo,
		Items:         items,
	}, nil
}

// HasNextPage reports whether another page follows. An empty token counts as
// the end.
func (r ListResponse[T]) HasNextPage() bool {
	return r.NextPageToken != nil && *r.NextPageToken != ""
}
