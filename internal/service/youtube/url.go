package youtube

import (
	"regexp"
	"strings"
)

// videoURLPatterns are the URL shapes a video ID can be extracted from
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtu\.be/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID returns the 11 character video ID contained in a YouTube URL
func ExtractVideoID(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	for _, pattern := range videoURLPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// WatchURL returns the canonical watch page URL of a video
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
