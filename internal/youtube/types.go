// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables ytcomments to:
// - Extract a video ID from the common YouTube URL shapes
// - Fetch video metadata (title, channel, statistics)
// - Fetch comment threads page by page, including inline replies
package youtube

import "encoding/json"

// VideoInfo is a snapshot of a video's metadata at fetch time.
//
// The statistics counts are json.Number because the provider reports them as
// strings while previously written output files may carry plain integers;
// both must load.
type VideoInfo struct {
	VideoID      string      `json:"video_id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	ChannelTitle string      `json:"channel_title"`
	PublishedAt  string      `json:"published_at"`
	ViewCount    json.Number `json:"view_count"`
	LikeCount    json.Number `json:"like_count"`
	CommentCount json.Number `json:"comment_count"`
}

// Comment is a top-level comment on a video, with any replies the provider
// returned inline on the same thread.
type Comment struct {
	CommentID       string  `json:"comment_id"`
	AuthorName      string  `json:"author_name"`
	AuthorChannelID string  `json:"author_channel_id"`
	Text            string  `json:"text"`
	LikeCount       int64   `json:"like_count"`
	PublishedAt     string  `json:"published_at"`
	UpdatedAt       string  `json:"updated_at"`
	ReplyCount      int64   `json:"reply_count"`
	Replies         []Reply `json:"replies"`
}

// Reply is a comment posted in response to a top-level comment. ParentID is
// the comment ID of the top-level comment it answers.
type Reply struct {
	CommentID       string `json:"comment_id"`
	AuthorName      string `json:"author_name"`
	AuthorChannelID string `json:"author_channel_id"`
	Text            string `json:"text"`
	LikeCount       int64  `json:"like_count"`
	PublishedAt     string `json:"published_at"`
	UpdatedAt       string `json:"updated_at"`
	ParentID        string `json:"parent_id"`
}

// Order selects the provider-side ordering of comment threads.
type Order string

const (
	OrderTime      Order = "time"
	OrderRelevance Order = "relevance"
)
