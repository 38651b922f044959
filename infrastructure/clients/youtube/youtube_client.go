package youtube

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"ytcollector/domain/dto"
	"ytcollector/domain/model"
	"ytcollector/domain/schema"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
	ytapi "google.golang.org/api/youtube/v3"
)

// DefaultPageSize is the largest page the list endpoints accept.
const DefaultPageSize int64 = 100

// Config represents YouTube API configuration
type Config struct {
	APIKey       string `json:"api_key" mapstructure:"apiKey"`
	AccessToken  string `json:"access_token" mapstructure:"accessToken"`
	RefreshToken string `json:"refresh_token" mapstructure:"refreshToken"`
	ClientID     string `json:"client_id" mapstructure:"clientId"`
	ClientSecret string `json:"client_secret" mapstructure:"clientSecret"`
	BaseURL      string `json:"base_url" mapstructure:"baseURL"`
	PageSize     int64  `json:"page_size" mapstructure:"pageSize"`
}

// listParams are the query parameters of the list calls.
type listParams struct {
	Part       string `url:"part"`
	ID         string `url:"id,omitempty"`
	VideoID    string `url:"videoId,omitempty"`
	ParentID   string `url:"parentId,omitempty"`
	MaxResults int64  `url:"maxResults,omitempty"`
	PageToken  string `url:"pageToken,omitempty"`
}

// Client is the paginated fetch client over the read-only list endpoints.
type Client struct {
	transport Transport
	pageSize  int64
}

// NewClient wraps a transport. A non-positive pageSize means DefaultPageSize.
func NewClient(transport Transport, pageSize int64) *Client {
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}
	return &Client{transport: transport, pageSize: pageSize}
}

// NewYouTubeClient creates a client that talks to the real API. An API key
// is preferred; otherwise an OAuth2 token is used, refreshed through the
// Google endpoint when a refresh token and client credentials are present.
func NewYouTubeClient(ctx context.Context, config *Config) (*Client, error) {
	opts, err := credentialOptions(ctx, config)
	if err != nil {
		return nil, err
	}
	httpClient, _, err := htransport.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube HTTP client: %w", err)
	}
	return NewClient(NewRESTTransportWithClient(httpClient, config.BaseURL), config.PageSize), nil
}

func credentialOptions(ctx context.Context, config *Config) ([]option.ClientOption, error) {
	switch {
	case config.APIKey != "":
		return []option.ClientOption{option.WithAPIKey(config.APIKey)}, nil
	case config.RefreshToken != "" && config.ClientID != "":
		oauth2Config := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       []string{ytapi.YoutubeReadonlyScope},
			Endpoint:     google.Endpoint,
		}
		token := &oauth2.Token{
			AccessToken:  config.AccessToken,
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		return []option.ClientOption{option.WithTokenSource(oauth2Config.TokenSource(ctx, token))}, nil
	case config.AccessToken != "":
		token := &oauth2.Token{AccessToken: config.AccessToken, TokenType: "Bearer"}
		return []option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(token))}, nil
	}
	return nil, errors.New("youtube: no API key or access token configured")
}

// FetchVideo retrieves the snippet of one video.
func (c *Client) FetchVideo(ctx context.Context, q *model.Quota, videoID string) (*model.Video, error) {
	params, err := query.Values(listParams{Part: "snippet", ID: videoID})
	if err != nil {
		return nil, err
	}

	q.Spend(1)
	raw, err := c.transport.Get(ctx, "videos", params)
	if err != nil {
		return nil, fmt.Errorf("fetch video %s: %w", videoID, err)
	}
	page, err := dto.DecodeListResponse[model.Video](dto.VideoListResponseSchema, raw, schema.Lenient)
	if err != nil {
		return nil, fmt.Errorf("decode video %s: %w", videoID, err)
	}
	if len(page.Items) == 0 {
		return nil, &model.NotFoundError{Kind: "video", ID: videoID}
	}
	return &page.Items[0], nil
}

// FetchCommentThreads lists the threads of a video with their inline replies.
func (c *Client) FetchCommentThreads(ctx context.Context, q *model.Quota, videoID string) iter.Seq2[*model.CommentThread, error] {
	params := listParams{Part: "snippet,replies", VideoID: videoID}
	return paginate[model.CommentThread](ctx, c, q, "commentThreads", params, dto.CommentThreadListResponseSchema)
}

// FetchThreadsByID lists threads by thread ID, which for a top-level comment
// equals the comment ID, with the replies the API embeds.
func (c *Client) FetchThreadsByID(ctx context.Context, q *model.Quota, threadID string) iter.Seq2[*model.CommentThread, error] {
	params := listParams{Part: "snippet,replies", ID: threadID}
	return paginate[model.CommentThread](ctx, c, q, "commentThreads", params, dto.CommentThreadListResponseSchema)
}

// FetchRepliesByParent lists the replies to one top-level comment. Replies
// listed this way carry no videoId.
func (c *Client) FetchRepliesByParent(ctx context.Context, q *model.Quota, parentID string) iter.Seq2[*model.Comment, error] {
	params := listParams{Part: "snippet", ParentID: parentID}
	return paginate[model.Comment](ctx, c, q, "comments", params, dto.CommentListResponseSchema)
}

// paginate follows the page cursor of one list call. It spends one quota
// unit per page, yields items in the order received and stops after the page
// without a next token, on the first error, or when the consumer stops.
func paginate[T any](ctx context.Context, c *Client, q *model.Quota, resource string, params listParams, s *schema.Schema) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		call := params
		call.MaxResults = c.pageSize
		for {
			p, err := query.Values(call)
			if err != nil {
				yield(nil, err)
				return
			}

			q.Spend(1)
			raw, err := c.transport.Get(ctx, resource, p)
			if err != nil {
				yield(nil, fmt.Errorf("list %s: %w", resource, err))
				return
			}
			page, err := dto.DecodeListResponse[T](s, raw, schema.Lenient)
			if err != nil {
				yield(nil, fmt.Errorf("decode %s page: %w", resource, err))
				return
			}
			for i := range page.Items {
				if !yield(&page.Items[i], nil) {
					return
				}
			}
			if !page.HasNextPage() {
				return
			}
			call.PageToken = *page.NextPageToken
		}
	}
}
