package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"ytcollector/domain/model"
	"ytcollector/domain/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	resource string
	params   url.Values
}

// fakeTransport serves canned pages keyed by page token.
type fakeTransport struct {
	pages map[string]map[string]any
	err   error
	calls []call
}

func (f *fakeTransport) Get(_ context.Context, resource string, params url.Values) (map[string]any, error) {
	f.calls = append(f.calls, call{resource: resource, params: params})
	if f.err != nil {
		return nil, f.err
	}
	page, ok := f.pages[params.Get("pageToken")]
	if !ok {
		return nil, fmt.Errorf("unexpected page token %q", params.Get("pageToken"))
	}
	return page, nil
}

func rawComment(id string) map[string]any {
	return map[string]any{
		"kind": model.KindComment,
		"id":   id,
		"snippet": map[string]any{
			"channelId":             "UC1",
			"videoId":               "vid1",
			"textDisplay":           "text " + id,
			"textOriginal":          "text " + id,
			"authorDisplayName":     "@a",
			"authorProfileImageUrl": "",
			"authorChannelUrl":      "",
			"authorChannelId":       map[string]any{"value": "UCa"},
			"canRate":               true,
			"viewerRating":          "none",
			"likeCount":             float64(0),
			"publishedAt":           "2024-01-01T00:00:00Z",
			"updatedAt":             "2024-01-01T00:00:00Z",
		},
	}
}

func rawThread(id string) map[string]any {
	return map[string]any{
		"kind": model.KindCommentThread,
		"id":   id,
		"snippet": map[string]any{
			"channelId":       "UC1",
			"videoId":         "vid1",
			"topLevelComment": rawComment(id),
			"canReply":        true,
			"totalReplyCount": float64(0),
			"isPublic":        true,
		},
	}
}

// threadPages builds n pages of k threads each, chained by tokens p1..p(n-1).
func threadPages(n, k int) (map[string]map[string]any, []string) {
	pages := make(map[string]map[string]any, n)
	var ids []string
	for p := 0; p < n; p++ {
		token := ""
		if p > 0 {
			token = fmt.Sprintf("p%d", p)
		}
		items := make([]any, 0, k)
		for i := 0; i < k; i++ {
			id := fmt.Sprintf("t%d_%d", p, i)
			ids = append(ids, id)
			items = append(items, rawThread(id))
		}
		page := map[string]any{"kind": "youtube#commentThreadListResponse", "items": items}
		if p < n-1 {
			page["nextPageToken"] = fmt.Sprintf("p%d", p+1)
		}
		pages[token] = page
	}
	return pages, ids
}

func TestFetchCommentThreads_ExhaustsPagesInOrder(t *testing.T) {
	pages, want := threadPages(3, 4)
	transport := &fakeTransport{pages: pages}
	client := NewClient(transport, 0)
	quota := model.NewQuota(10)

	var got []string
	for thread, err := range client.FetchCommentThreads(context.Background(), quota, "vid1") {
		require.NoError(t, err)
		got = append(got, thread.ID)
	}

	assert.Equal(t, want, got)
	require.Len(t, transport.calls, 3)
	assert.Equal(t, int64(7), quota.Remaining())
	assert.Equal(t, int64(3), quota.Spent())

	first := transport.calls[0].params
	assert.Equal(t, "commentThreads", transport.calls[0].resource)
	assert.Equal(t, "snippet,replies", first.Get("part"))
	assert.Equal(t, "vid1", first.Get("videoId"))
	assert.Equal(t, "100", first.Get("maxResults"))
	assert.False(t, first.Has("pageToken"))
	assert.Equal(t, "p2", transport.calls[2].params.Get("pageToken"))
}

func TestFetchCommentThreads_EmptyTokenEndsPaging(t *testing.T) {
	transport := &fakeTransport{pages: map[string]map[string]any{
		"": {"kind": "k", "nextPageToken": "", "items": []any{rawThread("a")}},
	}}
	quota := model.NewQuota(1)

	var n int
	for _, err := range NewClient(transport, 20).FetchCommentThreads(context.Background(), quota, "vid1") {
		require.NoError(t, err)
		n++
	}

	assert.Equal(t, 1, n)
	assert.Len(t, transport.calls, 1)
	assert.Equal(t, "20", transport.calls[0].params.Get("maxResults"))
	assert.Equal(t, int64(0), quota.Remaining())
}

func TestFetchCommentThreads_StopsWhenConsumerBreaks(t *testing.T) {
	pages, _ := threadPages(3, 2)
	transport := &fakeTransport{pages: pages}

	for range NewClient(transport, 0).FetchCommentThreads(context.Background(), model.NewQuota(10), "vid1") {
		break
	}

	assert.Len(t, transport.calls, 1)
}

func TestFetchCommentThreads_RerangingRefetches(t *testing.T) {
	pages, _ := threadPages(2, 1)
	transport := &fakeTransport{pages: pages}
	seq := NewClient(transport, 0).FetchCommentThreads(context.Background(), model.NewQuota(10), "vid1")

	for range seq {
	}
	for range seq {
	}

	assert.Len(t, transport.calls, 4)
}

func TestFetchCommentThreads_TransportError(t *testing.T) {
	remote := &model.RemoteServiceError{Op: "commentThreads.list", Status: 403, Reason: "commentsDisabled"}
	transport := &fakeTransport{err: remote}
	quota := model.NewQuota(5)

	var errs []error
	for thread, err := range NewClient(transport, 0).FetchCommentThreads(context.Background(), quota, "vid1") {
		assert.Nil(t, thread)
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], remote)
	assert.True(t, model.IsVideoScoped(errs[0]))
	assert.Equal(t, int64(4), quota.Remaining())
}

func TestFetchCommentThreads_InvalidItem(t *testing.T) {
	bad := rawThread("bad")
	delete(bad["snippet"].(map[string]any), "videoId")
	transport := &fakeTransport{pages: map[string]map[string]any{
		"": {"kind": "k", "items": []any{rawThread("ok"), bad}},
	}}

	var got []string
	var lastErr error
	for thread, err := range NewClient(transport, 0).FetchCommentThreads(context.Background(), model.NewQuota(5), "vid1") {
		if err != nil {
			lastErr = err
			continue
		}
		got = append(got, thread.ID)
	}

	assert.Empty(t, got)
	var verr *schema.ValidationError
	require.ErrorAs(t, lastErr, &verr)
	assert.Equal(t, "items[1].snippet.videoId", verr.Path)
}

func TestFetchRepliesByParent(t *testing.T) {
	transport := &fakeTransport{pages: map[string]map[string]any{
		"":  {"kind": "k", "nextPageToken": "n", "items": []any{rawComment("r1")}},
		"n": {"kind": "k", "items": []any{rawComment("r2"), rawComment("r3")}},
	}}
	quota := model.NewQuota(100)

	var got []string
	for c, err := range NewClient(transport, 0).FetchRepliesByParent(context.Background(), quota, "top1") {
		require.NoError(t, err)
		got = append(got, c.ID)
	}

	assert.Equal(t, []string{"r1", "r2", "r3"}, got)
	assert.Equal(t, "comments", transport.calls[0].resource)
	assert.Equal(t, "top1", transport.calls[0].params.Get("parentId"))
	assert.Equal(t, "snippet", transport.calls[0].params.Get("part"))
	assert.Equal(t, int64(98), quota.Remaining())
}

func TestFetchThreadsByID(t *testing.T) {
	pages, _ := threadPages(1, 1)
	transport := &fakeTransport{pages: pages}

	for _, err := range NewClient(transport, 0).FetchThreadsByID(context.Background(), model.NewQuota(1), "t0_0") {
		require.NoError(t, err)
	}

	require.Len(t, transport.calls, 1)
	assert.Equal(t, "t0_0", transport.calls[0].params.Get("id"))
	assert.Equal(t, "snippet,replies", transport.calls[0].params.Get("part"))
}

func TestFetchVideo(t *testing.T) {
	video := map[string]any{
		"kind": model.KindVideo,
		"id":   "vid1",
		"snippet": map[string]any{
			"publishedAt":          "2024-01-01T00:00:00Z",
			"channelId":            "UC1",
			"title":                "title",
			"description":          "",
			"thumbnails":           map[string]any{},
			"channelTitle":         "chan",
			"categoryId":           "22",
			"liveBroadcastContent": "none",
			"localized":            map[string]any{"title": "title", "description": ""},
		},
	}
	transport := &fakeTransport{pages: map[string]map[string]any{
		"": {"kind": "youtube#videoListResponse", "items": []any{video}},
	}}
	quota := model.NewQuota(10)

	got, err := NewClient(transport, 0).FetchVideo(context.Background(), quota, "vid1")

	require.NoError(t, err)
	assert.Equal(t, "vid1", got.ID)
	assert.Nil(t, got.Snippet.Tags)
	assert.Equal(t, "vid1", transport.calls[0].params.Get("id"))
	assert.False(t, transport.calls[0].params.Has("maxResults"))
	assert.Equal(t, int64(9), quota.Remaining())
}

func TestFetchVideo_NotFound(t *testing.T) {
	transport := &fakeTransport{pages: map[string]map[string]any{
		"": {"kind": "youtube#videoListResponse", "items": []any{}},
	}}
	quota := model.NewQuota(10)

	_, err := NewClient(transport, 0).FetchVideo(context.Background(), quota, "gone")

	var nf *model.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "gone", nf.ID)
	assert.Equal(t, int64(9), quota.Remaining())
}

func TestNewYouTubeClient_RequiresCredentials(t *testing.T) {
	_, err := NewYouTubeClient(context.Background(), &Config{})
	assert.Error(t, err)
}
