package dto

import (
	"testing"

	"ytcollector/domain/model"
	"ytcollector/domain/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comment(id string) map[string]any {
	return map[string]any{
		"kind": model.KindComment,
		"id":   id,
		"snippet": map[string]any{
			"channelId":             "UC1",
			"textDisplay":           "hi",
			"textOriginal":          "hi",
			"parentId":              "p1",
			"authorDisplayName":     "@a",
			"authorProfileImageUrl": "",
			"authorChannelUrl":      "",
			"canRate":               true,
			"viewerRating":          "none",
			"likeCount":             float64(2),
			"publishedAt":           "2024-01-01T00:00:00Z",
			"updatedAt":             "2024-01-01T00:00:00Z",
		},
	}
}

func TestDecodeListResponse(t *testing.T) {
	raw := map[string]any{
		"kind":          "youtube#commentListResponse",
		"etag":          "e",
		"nextPageToken": "NEXT",
		"pageInfo":      map[string]any{"totalResults": float64(2), "resultsPerPage": float64(100)},
		"items":         []any{comment("c1"), comment("c2")},
	}

	page, err := DecodeListResponse[model.Comment](CommentListResponseSchema, raw, schema.Lenient)
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, "c1", page.Items[0].ID)
	assert.Equal(t, "c2", page.Items[1].ID)
	assert.True(t, page.HasNextPage())
	assert.Equal(t, &PageInfo{TotalResults: 2, ResultsPerPage: 100}, page.PageInfo)
}

func TestDecodeListResponse_LastPage(t *testing.T) {
	for _, token := range []any{nil, ""} {
		raw := map[string]any{"kind": "k", "items": []any{}, "nextPageToken": token}
		page, err := DecodeListResponse[model.Comment](CommentListResponseSchema, raw, schema.Lenient)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.False(t, page.HasNextPage())
	}
}

func TestDecodeListResponse_ItemErrorPath(t *testing.T) {
	bad := comment("c2")
	delete(bad["snippet"].(map[string]any), "textDisplay")
	raw := map[string]any{"kind": "k", "items": []any{comment("c1"), bad}}

	_, err := DecodeListResponse[model.Comment](CommentListResponseSchema, raw, schema.Lenient)

	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items[1].snippet.textDisplay", verr.Path)
}

func TestDecodeListResponse_WrongItemType(t *testing.T) {
	raw := map[string]any{"kind": "k", "items": []any{comment("c1")}}
	_, err := DecodeListResponse[model.Video](CommentListResponseSchema, raw, schema.Lenient)
	assert.Error(t, err)
}
