package crawler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ytcomments/internal/youtube"
)

// FetchOutput is the JSON document written once per fetch run. It is the
// file contract the merge step consumes; it is never rewritten.
type FetchOutput struct {
	VideoInfo     youtube.VideoInfo `json:"video_info"`
	CommentsCount int               `json:"comments_count"`
	CrawledAt     string            `json:"crawled_at"`
	Comments      []youtube.Comment `json:"comments"`
}

// Save writes the fetch output as pretty-printed JSON under dir, named
// youtube_comments_<video_id>_<YYYYMMDD_HHMMSS>.json, and returns the path.
func Save(output *FetchOutput, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("youtube_comments_%s_%s.json", output.VideoInfo.VideoID, timestamp)
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal fetch output: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}
