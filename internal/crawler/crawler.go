// Package crawler orchestrates a single comment-fetch run: extract the video
// ID, fetch metadata and comments, and persist one JSON document.
package crawler

import (
	"context"
	"fmt"
	"io"
	"time"

	"ytcomments/internal/display"
	"ytcomments/internal/youtube"
)

// Config holds the externalized settings for a fetch run.
type Config struct {
	APIKey      string
	VideoURL    string
	MaxComments int
	Order       youtube.Order
	OutputDir   string
}

// Validate reports the first configuration problem, if any.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("missing API key: set YTCOMMENTS_API_KEY or pass --api-key")
	}
	if c.VideoURL == "" {
		return fmt.Errorf("missing video URL")
	}
	if c.MaxComments <= 0 {
		return fmt.Errorf("max comments must be positive, got %d", c.MaxComments)
	}
	if c.Order != youtube.OrderTime && c.Order != youtube.OrderRelevance {
		return fmt.Errorf("invalid order %q: must be %q or %q", c.Order, youtube.OrderTime, youtube.OrderRelevance)
	}
	return nil
}

// API is the subset of the YouTube client the crawler uses.
type API interface {
	FetchVideoInfo(ctx context.Context, videoID string) (*youtube.VideoInfo, error)
	FetchComments(ctx context.Context, videoID string, maxResults int, order youtube.Order) ([]youtube.Comment, error)
}

// Crawler runs fetch-and-save for one video.
type Crawler struct {
	api       API
	cfg       Config
	formatter *display.Formatter
}

// New creates a Crawler for the given API client and configuration.
func New(api API, cfg Config) *Crawler {
	return &Crawler{
		api:       api,
		cfg:       cfg,
		formatter: display.NewFormatter(),
	}
}

// Run fetches the video's metadata and comments and saves them under the
// configured output directory. It returns the path of the written file, or
// an empty path when no comments were retrieved.
//
// Metadata absence and a pagination failure are both non-fatal: the run
// reports them on errW and keeps whatever comments were accumulated.
func (c *Crawler) Run(ctx context.Context, out, errW io.Writer) (string, error) {
	videoID, err := youtube.ExtractVideoID(c.cfg.VideoURL)
	if err != nil {
		return "", fmt.Errorf("cannot extract a video id from %q", c.cfg.VideoURL)
	}

	fmt.Fprintf(out, "Video ID: %s\n", videoID)

	info, err := c.api.FetchVideoInfo(ctx, videoID)
	if err != nil {
		fmt.Fprintf(errW, "failed to fetch video info: %v\n", err)
		info = nil
	}
	if info != nil {
		fmt.Fprint(out, c.formatter.FormatVideoInfo(info))
	} else {
		// Proceed with the bare id; the comment fetch does not need metadata.
		info = &youtube.VideoInfo{
			VideoID:      videoID,
			ViewCount:    "0",
			LikeCount:    "0",
			CommentCount: "0",
		}
	}

	fmt.Fprintf(out, "Fetching up to %d comments...\n", c.cfg.MaxComments)

	comments, err := c.api.FetchComments(ctx, videoID, c.cfg.MaxComments, c.cfg.Order)
	if err != nil {
		fmt.Fprintf(errW, "comment fetch stopped early: %v\n", err)
	}

	if len(comments) == 0 {
		fmt.Fprintln(out, "No comments retrieved.")
		return "", nil
	}

	output := &FetchOutput{
		VideoInfo:     *info,
		CommentsCount: len(comments),
		CrawledAt:     time.Now().Format(time.RFC3339),
		Comments:      comments,
	}

	path, err := Save(output, c.cfg.OutputDir)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(out, "Saved %d comments to %s\n", len(comments), path)
	return path, nil
}
