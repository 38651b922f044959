package model

import "time"

const (
	KindVideo         = "youtube#video"
	KindComment       = "youtube#comment"
	KindCommentThread = "youtube#commentThread"
)

// Resource carries the envelope fields every API resource has.
type Resource struct {
	Kind string  `json:"kind"`
	Etag *string `json:"etag,omitempty"`
}

// Thumbnail is one entry of a video's thumbnail set. Width and Height are
// zero when the API omits them.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int64  `json:"width,omitempty"`
	Height int64  `json:"height,omitempty"`
}

// Localized is a video's title and description in the viewer's language.
type Localized struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// VideoSnippet is the "snippet" part of a video resource.
type VideoSnippet struct {
	PublishedAt          time.Time            `json:"publishedAt"`
	ChannelID            string               `json:"channelId"`
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	Thumbnails           map[string]Thumbnail `json:"thumbnails"`
	ChannelTitle         string               `json:"channelTitle"`
	Tags                 []string             `json:"tags,omitempty"`
	CategoryID           string               `json:"categoryId"`
	LiveBroadcastContent string               `json:"liveBroadcastContent"`
	DefaultLanguage      *string              `json:"defaultLanguage,omitempty"`
	Localized            Localized            `json:"localized"`
	DefaultAudioLanguage *string              `json:"defaultAudioLanguage,omitempty"`
}

// Video is a video resource fetched with part=snippet.
type Video struct {
	Resource
	ID      string       `json:"id"`
	Snippet VideoSnippet `json:"snippet"`
}

// AuthorChannelRef is the {"value": channelId} object the API uses for a
// comment author's channel.
type AuthorChannelRef struct {
	Value string `json:"value"`
}

// CommentSnippet is the "snippet" part of a comment resource.
type CommentSnippet struct {
	ChannelID string `json:"channelId"`
	// VideoID is absent on comments fetched by parent.
	VideoID               *string           `json:"videoId,omitempty"`
	TextDisplay           string            `json:"textDisplay"`
	TextOriginal          string            `json:"textOriginal"`
	ParentID              *string           `json:"parentId,omitempty"`
	AuthorDisplayName     string            `json:"authorDisplayName"`
	AuthorProfileImageURL string            `json:"authorProfileImageUrl"`
	AuthorChannelURL      string            `json:"authorChannelUrl"`
	AuthorChannelID       *AuthorChannelRef `json:"authorChannelId,omitempty"`
	CanRate               bool              `json:"canRate"`
	ViewerRating          string            `json:"viewerRating"`
	LikeCount             int64             `json:"likeCount"`
	PublishedAt           time.Time         `json:"publishedAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

// Comment is a top-level comment or a reply.
type Comment struct {
	Resource
	ID      string         `json:"id"`
	Snippet CommentSnippet `json:"snippet"`
}

// IsReply reports whether c answers another comment.
func (c Comment) IsReply() bool {
	return c.Snippet.ParentID != nil && *c.Snippet.ParentID != ""
}

// CommentThreadSnippet is the "snippet" part of a comment thread.
type CommentThreadSnippet struct {
	ChannelID       string  `json:"channelId"`
	VideoID         string  `json:"videoId"`
	TopLevelComment Comment `json:"topLevelComment"`
	CanReply        bool    `json:"canReply"`
	TotalReplyCount int64   `json:"totalReplyCount"`
	IsPublic        bool    `json:"isPublic"`
}

// CommentThreadReplies holds the replies the thread-list call embeds inline.
// It may be a prefix of all replies; TotalReplyCount is authoritative.
type CommentThreadReplies struct {
	Comments []Comment `json:"comments"`
}

// CommentThread is a top-level comment plus, optionally, some of its replies.
type CommentThread struct {
	Resource
	ID      string                `json:"id"`
	Snippet CommentThreadSnippet  `json:"snippet"`
	Replies *CommentThreadReplies `json:"replies,omitempty"`
}

// InlineReplies returns the replies embedded in the thread, if any.
func (t CommentThread) InlineReplies() []Comment {
	if t.Replies == nil {
		return nil
	}
	return t.Replies.Comments
}

// HasMoreReplies reports whether replies exist beyond those embedded inline.
func (t CommentThread) HasMoreReplies() bool {
	return t.Snippet.TotalReplyCount > int64(len(t.InlineReplies()))
}
