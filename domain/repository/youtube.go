package repository

import (
	"context"
	"iter"

	"ytcollector/domain/model"
)

// IYouTube defines the read operations the collector needs from the YouTube
// Data API. Every outbound call spends one unit of q; the counter is only
// bookkeeping and never blocks a call.
//
// The sequences are lazy: each page is requested while ranging, and a second
// range over the same sequence issues the calls again. An error is yielded
// once, as the last element.
type IYouTube interface {
	// FetchVideo looks up a single video by ID. It fails with
	// *model.NotFoundError when the lookup returns no item.
	FetchVideo(ctx context.Context, q *model.Quota, videoID string) (*model.Video, error)

	// FetchCommentThreads lists the comment threads of a video, following the
	// page cursor until the last page.
	FetchCommentThreads(ctx context.Context, q *model.Quota, videoID string) iter.Seq2[*model.CommentThread, error]

	// FetchThreadsByID lists comment threads scoped by thread ID.
	FetchThreadsByID(ctx context.Context, q *model.Quota, threadID string) iter.Seq2[*model.CommentThread, error]

	// FetchRepliesByParent lists every reply to a top-level comment.
	FetchRepliesByParent(ctx context.Context, q *model.Quota, parentID string) iter.Seq2[*model.Comment, error]
}
