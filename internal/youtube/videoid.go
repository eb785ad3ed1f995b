package youtube

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrNoVideoID is returned when no video ID can be extracted from a URL.
// Callers should treat it as a configuration error, not a retryable fault.
var ErrNoVideoID = errors.New("no video id found in url")

var (
	shortLinkRe = regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`)
	watchRe     = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtube\.com/embed/)([a-zA-Z0-9_-]+)`)
)

// ExtractVideoID extracts the video ID from a YouTube URL. Supported shapes:
//
//   - https://youtu.be/JxPe3ZPjvIs
//   - https://www.youtube.com/watch?v=JxPe3ZPjvIs
//   - https://youtube.com/watch?v=JxPe3ZPjvIs&si=...
//   - https://www.youtube.com/embed/JxPe3ZPjvIs
//
// URLs that match none of these fall back to generic URL parsing before
// ErrNoVideoID is returned.
func ExtractVideoID(rawURL string) (string, error) {
	if m := shortLinkRe.FindStringSubmatch(rawURL); m != nil {
		return m[1], nil
	}

	if m := watchRe.FindStringSubmatch(rawURL); m != nil {
		return m[1], nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrNoVideoID
	}

	switch {
	case strings.Contains(parsed.Host, "youtu.be"):
		if id := strings.TrimPrefix(parsed.Path, "/"); id != "" {
			return id, nil
		}
	case strings.Contains(parsed.Host, "youtube.com"):
		if id := parsed.Query().Get("v"); id != "" {
			return id, nil
		}
	}

	return "", ErrNoVideoID
}
