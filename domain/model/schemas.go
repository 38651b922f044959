package model

import "ytcollector/domain/schema"

func resourceFields(fields ...schema.Field) []schema.Field {
	return append([]schema.Field{
		{Name: "kind", Type: schema.String},
		{Name: "etag", Type: schema.Optional(schema.String)},
	}, fields...)
}

func resource(v schema.Values) Resource {
	return Resource{Kind: v.String("kind"), Etag: v.OptString("etag")}
}

var ThumbnailSchema = &schema.Schema{
	Name: "Thumbnail",
	Fields: []schema.Field{
		{Name: "url", Type: schema.String},
		{Name: "width", Type: schema.Optional(schema.Count)},
		{Name: "height", Type: schema.Optional(schema.Count)},
	},
	Build: func(v schema.Values) any {
		return Thumbnail{URL: v.String("url"), Width: v.Int("width"), Height: v.Int("height")}
	},
}

var LocalizedSchema = &schema.Schema{
	Name: "Localized",
	Fields: []schema.Field{
		{Name: "title", Type: schema.String},
		{Name: "description", Type: schema.String},
	},
	Build: func(v schema.Values) any {
		return Localized{Title: v.String("title"), Description: v.String("description")}
	},
}

var VideoSnippetSchema = &schema.Schema{
	Name: "VideoSnippet",
	Fields: []schema.Field{
		{Name: "publishedAt", Type: schema.Timestamp},
		{Name: "channelId", Type: schema.String},
		{Name: "title", Type: schema.String},
		{Name: "description", Type: schema.String},
		{Name: "thumbnails", Type: schema.MapOf(schema.Nested(ThumbnailSchema))},
		{Name: "channelTitle", Type: schema.String},
		{Name: "tags", Type: schema.Optional(schema.ListOf(schema.String))},
		{Name: "categoryId", Type: schema.String},
		{Name: "liveBroadcastContent", Type: schema.String},
		{Name: "defaultLanguage", Type: schema.Optional(schema.String)},
		{Name: "localized", Type: schema.Nested(LocalizedSchema)},
		{Name: "defaultAudioLanguage", Type: schema.Optional(schema.String)},
	},
	Build: func(v schema.Values) any {
		thumbnails := make(map[string]Thumbnail, len(v.Map("thumbnails")))
		for size, t := range v.Map("thumbnails") {
			thumbnails[size] = t.(Thumbnail)
		}
		return VideoSnippet{
			PublishedAt:          v.Time("publishedAt"),
			ChannelID:            v.String("channelId"),
			Title:                v.String("title"),
			Description:          v.String("description"),
			Thumbnails:           thumbnails,
			ChannelTitle:         v.String("channelTitle"),
			Tags:                 v.Strings("tags"),
			CategoryID:           v.String("categoryId"),
			LiveBroadcastContent: v.String("liveBroadcastContent"),
			DefaultLanguage:      v.OptString("defaultLanguage"),
			Localized:            v.Record("localized").(Localized),
			DefaultAudioLanguage: v.OptString("defaultAudioLanguage"),
		}
	},
}

var VideoSchema = &schema.Schema{
	Name: "Video",
	Fields: resourceFields(
		schema.Field{Name: "id", Type: schema.String},
		schema.Field{Name: "snippet", Type: schema.Nested(VideoSnippetSchema)},
	),
	Build: func(v schema.Values) any {
		return Video{
			Resource: resource(v),
			ID:       v.String("id"),
			Snippet:  v.Record("snippet").(VideoSnippet),
		}
	},
}

var AuthorChannelRefSchema = &schema.Schema{
	Name:   "AuthorChannelRef",
	Fields: []schema.Field{{Name: "value", Type: schema.String}},
	Build: func(v schema.Values) any {
		return AuthorChannelRef{Value: v.String("value")}
	},
}

var CommentSnippetSchema = &schema.Schema{
	Name: "CommentSnippet",
	Fields: []schema.Field{
		{Name: "channelId", Type: schema.String},
		{Name: "videoId", Type: schema.Optional(schema.String)},
		{Name: "textDisplay", Type: schema.String},
		{Name: "textOriginal", Type: schema.String},
		{Name: "parentId", Type: schema.Optional(schema.String)},
		{Name: "authorDisplayName", Type: schema.String},
		{Name: "authorProfileImageUrl", Type: schema.String},
		{Name: "authorChannelUrl", Type: schema.String},
		{Name: "authorChannelId", Type: schema.Optional(schema.Nested(AuthorChannelRefSchema))},
		{Name: "canRate", Type: schema.Bool},
		{Name: "viewerRating", Type: schema.String},
		{Name: "likeCount", Type: schema.Count},
		{Name: "publishedAt", Type: schema.Timestamp},
		{Name: "updatedAt", Type: schema.Timestamp},
	},
	Build: func(v schema.Values) any {
		s := CommentSnippet{
			ChannelID:             v.String("channelId"),
			VideoID:               v.OptString("videoId"),
			TextDisplay:           v.String("textDisplay"),
			TextOriginal:          v.String("textOriginal"),
			ParentID:              v.OptString("parentId"),
			AuthorDisplayName:     v.String("authorDisplayName"),
			AuthorProfileImageURL: v.String("authorProfileImageUrl"),
			AuthorChannelURL:      v.String("authorChannelUrl"),
			CanRate:               v.Bool("canRate"),
			ViewerRating:          v.String("viewerRating"),
			LikeCount:             v.Int("likeCount"),
			PublishedAt:           v.Time("publishedAt"),
			UpdatedAt:             v.Time("updatedAt"),
		}
		if ref, ok := v.Record("authorChannelId").(AuthorChannelRef); ok {
			s.AuthorChannelID = &ref
		}
		return s
	},
}

var CommentSchema = &schema.Schema{
	Name: "Comment",
	Fields: resourceFields(
		schema.Field{Name: "id", Type: schema.String},
		schema.Field{Name: "snippet", Type: schema.Nested(CommentSnippetSchema)},
	),
	Build: func(v schema.Values) any {
		return Comment{
			Resource: resource(v),
			ID:       v.String("id"),
			Snippet:  v.Record("snippet").(CommentSnippet),
		}
	},
}

var CommentThreadSnippetSchema = &schema.Schema{
	Name: "CommentThreadSnippet",
	Fields: []schema.Field{
		{Name: "channelId", Type: schema.String},
		{Name: "videoId", Type: schema.String},
		{Name: "topLevelComment", Type: schema.Nested(CommentSchema)},
		{Name: "canReply", Type: schema.Bool},
		{Name: "totalReplyCount", Type: schema.Count},
		{Name: "isPublic", Type: schema.Bool},
	},
	Build: func(v schema.Values) any {
		return CommentThreadSnippet{
			ChannelID:       v.String("channelId"),
			VideoID:         v.String("videoId"),
			TopLevelComment: v.Record("topLevelComment").(Comment),
			CanReply:        v.Bool("canReply"),
			TotalReplyCount: v.Int("totalReplyCount"),
			IsPublic:        v.Bool("isPublic"),
		}
	},
}

var CommentThreadRepliesSchema = &schema.Schema{
	Name:   "CommentThreadReplies",
	Fields: []schema.Field{{Name: "comments", Type: schema.ListOf(schema.Nested(CommentSchema))}},
	Build: func(v schema.Values) any {
		return CommentThreadReplies{Comments: Comments(v.List("comments"))}
	},
}

var CommentThreadSchema = &schema.Schema{
	Name: "CommentThread",
	Fields: resourceFields(
		schema.Field{Name: "id", Type: schema.String},
		schema.Field{Name: "snippet", Type: schema.Nested(CommentThreadSnippetSchema)},
		schema.Field{Name: "replies", Type: schema.Optional(schema.Nested(CommentThreadRepliesSchema))},
	),
	Build: func(v schema.Values) any {
		t := CommentThread{
			Resource: resource(v),
			ID:       v.String("id"),
			Snippet:  v.Record("snippet").(CommentThreadSnippet),
		}
		if r, ok := v.Record("replies").(CommentThreadReplies); ok {
			t.Replies = &r
		}
		return t
	},
}

// Comments converts the elements of a validated ListOf(Nested(CommentSchema)).
func Comments(items []any) []Comment {
	out := make([]Comment, 0, len(items))
	for _, item := range items {
		out = append(out, item.(Comment))
	}
	return out
}
