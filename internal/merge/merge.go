// Package merge combines per-video comment files into one flattened dataset
// for downstream analysis.
//
// Each input file is a crawler.FetchOutput document. The two-level
// comment/reply tree is flattened into one ordered sequence: every top-level
// comment is emitted first, immediately followed by its replies, each record
// tagged with its video and tree role (is_reply, parent_id).
package merge

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"ytcomments/internal/crawler"
	"ytcomments/internal/display"
)

// filePattern matches the filenames the crawler writes.
const filePattern = "youtube_comments_*.json"

// FlatComment is one record of the flattened sequence. ParentID is null for
// top-level comments and the parent's comment ID for replies.
type FlatComment struct {
	CommentID       string  `json:"comment_id"`
	VideoID         string  `json:"video_id"`
	VideoTitle      string  `json:"video_title"`
	AuthorName      string  `json:"author_name"`
	AuthorChannelID string  `json:"author_channel_id"`
	Text            string  `json:"text"`
	LikeCount       int64   `json:"like_count"`
	PublishedAt     string  `json:"published_at"`
	UpdatedAt       string  `json:"updated_at"`
	ReplyCount      int64   `json:"reply_count"`
	IsReply         bool    `json:"is_reply"`
	ParentID        *string `json:"parent_id"`
}

// VideoSummary carries a video's metadata plus crawl provenance.
type VideoSummary struct {
	VideoID              string      `json:"video_id"`
	Title                string      `json:"title"`
	ChannelTitle         string      `json:"channel_title"`
	PublishedAt          string      `json:"published_at"`
	ViewCount            json.Number `json:"view_count"`
	LikeCount            json.Number `json:"like_count"`
	CommentCount         json.Number `json:"comment_count"`
	CrawledCommentsCount int         `json:"crawled_comments_count"`
	CrawledAt            string      `json:"crawled_at"`
}

// MergedOutput is the combined document, rebuilt fully on every merge run.
// TotalComments always equals len(AllComments).
type MergedOutput struct {
	TotalVideos   int            `json:"total_videos"`
	TotalComments int            `json:"total_comments"`
	MergedAt      string         `json:"merged_at"`
	Videos        []VideoSummary `json:"videos"`
	AllComments   []FlatComment  `json:"all_comments"`
}

// Discover returns the comment files under dir in lexicographic order. With
// the crawler's timestamped filenames this approximates chronological order.
func Discover(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Merge flattens the given fetch output files into one MergedOutput. A file
// that cannot be read or parsed is reported on errW with a single line and
// skipped; results accumulated from prior files are preserved.
func Merge(paths []string, out, errW io.Writer) *MergedOutput {
	merged := &MergedOutput{
		MergedAt:    time.Now().Format(time.RFC3339),
		Videos:      []VideoSummary{},
		AllComments: []FlatComment{},
	}

	for i, path := range paths {
		fmt.Fprintf(out, "[%d/%d] processing: %s\n", i+1, len(paths), filepath.Base(path))

		output, err := loadFetchOutput(path)
		if err != nil {
			fmt.Fprintf(errW, "skipping %s: %v\n", filepath.Base(path), err)
			continue
		}

		merged.add(output)
	}

	merged.TotalVideos = len(merged.Videos)
	merged.TotalComments = len(merged.AllComments)
	return merged
}

// add folds one fetch output into the accumulator: the video summary first,
// then each top-level comment immediately followed by its replies.
func (m *MergedOutput) add(output *crawler.FetchOutput) {
	info := output.VideoInfo

	m.Videos = append(m.Videos, VideoSummary{
		VideoID:              info.VideoID,
		Title:                info.Title,
		ChannelTitle:         info.ChannelTitle,
		PublishedAt:          info.PublishedAt,
		ViewCount:            orZero(info.ViewCount),
		LikeCount:            orZero(info.LikeCount),
		CommentCount:         orZero(info.CommentCount),
		CrawledCommentsCount: output.CommentsCount,
		CrawledAt:            output.CrawledAt,
	})

	for _, comment := range output.Comments {
		m.AllComments = append(m.AllComments, FlatComment{
			CommentID:       comment.CommentID,
			VideoID:         info.VideoID,
			VideoTitle:      info.Title,
			AuthorName:      comment.AuthorName,
			AuthorChannelID: comment.AuthorChannelID,
			Text:            comment.Text,
			LikeCount:       comment.LikeCount,
			PublishedAt:     comment.PublishedAt,
			UpdatedAt:       comment.UpdatedAt,
			ReplyCount:      comment.ReplyCount,
			IsReply:         false,
			ParentID:        nil,
		})

		for _, reply := range comment.Replies {
			parentID := reply.ParentID
			m.AllComments = append(m.AllComments, FlatComment{
				CommentID:       reply.CommentID,
				VideoID:         info.VideoID,
				VideoTitle:      info.Title,
				AuthorName:      reply.AuthorName,
				AuthorChannelID: reply.AuthorChannelID,
				Text:            reply.Text,
				LikeCount:       reply.LikeCount,
				PublishedAt:     reply.PublishedAt,
				UpdatedAt:       reply.UpdatedAt,
				ReplyCount:      0,
				IsReply:         true,
				ParentID:        &parentID,
			})
		}
	}
}

// Summary computes the figures for the post-merge console report.
func (m *MergedOutput) Summary(files int) display.MergeSummary {
	s := display.MergeSummary{
		Files:         files,
		TotalVideos:   m.TotalVideos,
		TotalComments: m.TotalComments,
	}

	perVideo := make(map[string]int)
	for _, c := range m.AllComments {
		if c.IsReply {
			s.Replies++
		} else {
			s.TopLevel++
		}
		perVideo[c.VideoID]++
	}

	for _, v := range m.Videos {
		s.PerVideo = append(s.PerVideo, display.VideoCount{
			Title:    v.Title,
			Comments: perVideo[v.VideoID],
		})
	}

	return s
}

// Save writes the merged output as pretty-printed JSON, overwriting path.
func Save(m *MergedOutput, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal merged output: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// Load reads a merged output document back from disk.
func Load(path string) (*MergedOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var m MergedOutput
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &m, nil
}

func loadFetchOutput(path string) (*crawler.FetchOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var output crawler.FetchOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	return &output, nil
}

func orZero(n json.Number) json.Number {
	if n == "" {
		return json.Number("0")
	}
	return n
}
