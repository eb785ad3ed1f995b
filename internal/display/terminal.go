// Package display provides terminal output formatting for ytcomments.
package display

import (
	"fmt"
	"strings"

	"ytcomments/internal/youtube"
)

const separator = " • "

// Formatter formats fetch and merge reports for terminal display.
type Formatter struct{}

// NewFormatter creates a new terminal formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// FormatVideoInfo formats a video metadata header.
func (f *Formatter) FormatVideoInfo(info *youtube.VideoInfo) string {
	lines := []string{
		"Title: " + info.Title,
		"Channel: " + info.ChannelTitle,
		"Published: " + info.PublishedAt,
		fmt.Sprintf("%s views%s%s likes%s%s comments",
			info.ViewCount, separator, info.LikeCount, separator, info.CommentCount),
	}

	return strings.Join(lines, "\n") + "\n"
}

// VideoCount pairs a video title with its flat comment count.
type VideoCount struct {
	Title    string
	Comments int
}

// MergeSummary holds the figures reported after a merge run.
type MergeSummary struct {
	Files         int
	TotalVideos   int
	TotalComments int
	TopLevel      int
	Replies       int
	PerVideo      []VideoCount
}

// FormatMergeSummary formats the post-merge console report.
func (f *Formatter) FormatMergeSummary(s MergeSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Merged %d files%s%d videos%s%d comments\n",
		s.Files, separator, s.TotalVideos, separator, s.TotalComments)
	fmt.Fprintf(&b, "%d top-level%s%d replies\n", s.TopLevel, separator, s.Replies)

	for _, v := range s.PerVideo {
		fmt.Fprintf(&b, "  - %s (%d comments)\n", f.TruncateText(v.Title, 40), v.Comments)
	}

	return b.String()
}

// TruncateText truncates text to maxLen, adding "..." if truncated.
func (f *Formatter) TruncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return text[:maxLen-3] + "..."
}
