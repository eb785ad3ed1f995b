package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// pageCap is the provider's documented per-page maximum for comment threads.
const pageCap = 100

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithLimiter sets the rate limiter that paces page requests.
func WithLimiter(l *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// Client is a YouTube Data API client authenticated with a static API key.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPClient
	limiter    *rate.Limiter
}

// NewClient creates a new YouTube API client with the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchVideoInfo retrieves metadata for a video. A video the provider does
// not know about yields (nil, nil), not an error.
func (c *Client) FetchVideoInfo(ctx context.Context, videoID string) (*VideoInfo, error) {
	q := url.Values{}
	q.Set("part", "snippet,statistics")
	q.Set("id", videoID)

	body, err := c.doRequest(ctx, "/videos", q)
	if err != nil {
		return nil, err
	}

	var response videosResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse videos response: %w", err)
	}

	if len(response.Items) == 0 {
		return nil, nil
	}

	item := response.Items[0]
	return &VideoInfo{
		VideoID:      videoID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ChannelTitle: item.Snippet.ChannelTitle,
		PublishedAt:  item.Snippet.PublishedAt,
		ViewCount:    numberOrZero(item.Statistics.ViewCount),
		LikeCount:    numberOrZero(item.Statistics.LikeCount),
		CommentCount: numberOrZero(item.Statistics.CommentCount),
	}, nil
}

// FetchComments retrieves up to maxResults top-level comments for a video,
// following the provider's continuation tokens page by page. Replies returned
// inline on a thread are attached to their top-level comment.
//
// A failed page request terminates pagination but does not discard what was
// already accumulated: the comments fetched so far are returned together with
// the error. maxResults counts top-level comments only.
func (c *Client) FetchComments(ctx context.Context, videoID string, maxResults int, order Order) ([]Comment, error) {
	var comments []Comment
	pageToken := ""

	for len(comments) < maxResults {
		pageSize := maxResults - len(comments)
		if pageSize > pageCap {
			pageSize = pageCap
		}

		q := url.Values{}
		q.Set("part", "snippet,replies")
		q.Set("videoId", videoID)
		q.Set("maxResults", strconv.Itoa(pageSize))
		q.Set("order", string(order))
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		body, err := c.doRequest(ctx, "/commentThreads", q)
		if err != nil {
			return comments, err
		}

		var response commentThreadsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return comments, fmt.Errorf("failed to parse comment threads response: %w", err)
		}

		for _, item := range response.Items {
			top := item.Snippet.TopLevelComment

			comment := Comment{
				CommentID:       top.ID,
				AuthorName:      top.Snippet.AuthorDisplayName,
				AuthorChannelID: top.Snippet.AuthorChannelID.Value,
				Text:            top.Snippet.TextDisplay,
				LikeCount:       top.Snippet.LikeCount,
				PublishedAt:     top.Snippet.PublishedAt,
				UpdatedAt:       top.Snippet.UpdatedAt,
				ReplyCount:      item.Snippet.TotalReplyCount,
				Replies:         make([]Reply, 0, len(item.Replies.Comments)),
			}

			for _, reply := range item.Replies.Comments {
				parentID := reply.Snippet.ParentID
				if parentID == "" {
					parentID = top.ID
				}
				comment.Replies = append(comment.Replies, Reply{
					CommentID:       reply.ID,
					AuthorName:      reply.Snippet.AuthorDisplayName,
					AuthorChannelID: reply.Snippet.AuthorChannelID.Value,
					Text:            reply.Snippet.TextDisplay,
					LikeCount:       reply.Snippet.LikeCount,
					PublishedAt:     reply.Snippet.PublishedAt,
					UpdatedAt:       reply.Snippet.UpdatedAt,
					ParentID:        parentID,
				})
			}

			comments = append(comments, comment)
		}

		if response.NextPageToken == "" {
			break
		}
		pageToken = response.NextPageToken
	}

	return comments, nil
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// QuotaError reports an HTTP 403 from the API: an invalid key, the YouTube
// Data API v3 not being enabled for the project, or exhausted quota.
type QuotaError struct {
	Message string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("YouTube API access denied: %s (check that the API key is valid, the YouTube Data API v3 is enabled, and quota remains)", e.Message)
}

func (c *Client) handleAPIError(statusCode int, body []byte) error {
	if statusCode == http.StatusForbidden {
		message := "access forbidden"
		var payload struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
			message = payload.Error.Message
		}
		return &QuotaError{Message: message}
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("YouTube API authentication failed - check the API key")
	case http.StatusNotFound:
		return fmt.Errorf("YouTube API endpoint not found (status 404)")
	case http.StatusTooManyRequests:
		return fmt.Errorf("YouTube API rate limit exceeded - please try again later")
	case http.StatusServiceUnavailable:
		return fmt.Errorf("YouTube API temporarily unavailable - please try again in a few minutes")
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("YouTube API server error - please try again later")
	default:
		return fmt.Errorf("YouTube API error (status %d)", statusCode)
	}
}

func numberOrZero(n string) json.Number {
	if n == "" {
		return json.Number("0")
	}
	return json.Number(n)
}

// API response types (private - implementation detail)

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type commentThreadsResponse struct {
	Items []struct {
		Snippet struct {
			TopLevelComment struct {
				ID      string         `json:"id"`
				Snippet commentSnippet `json:"snippet"`
			} `json:"topLevelComment"`
			TotalReplyCount int64 `json:"totalReplyCount"`
		} `json:"snippet"`
		Replies struct {
			Comments []struct {
				ID      string         `json:"id"`
				Snippet commentSnippet `json:"snippet"`
			} `json:"comments"`
		} `json:"replies"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

type commentSnippet struct {
	AuthorDisplayName string `json:"authorDisplayName"`
	AuthorChannelID   struct {
		Value string `json:"value"`
	} `json:"authorChannelId"`
	TextDisplay string `json:"textDisplay"`
	LikeCount   int64  `json:"likeCount"`
	PublishedAt string `json:"publishedAt"`
	UpdatedAt   string `json:"updatedAt"`
	ParentID    string `json:"parentId"`
}
