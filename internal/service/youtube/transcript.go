package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/Taichi-iskw/yt-summary/internal/model"
)

// ListTranscripts lists the caption tracks of a video using yt-dlp
func (s *youTubeService) ListTranscripts(ctx context.Context, videoID string) ([]model.TranscriptVariant, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	args := []string{
		"--dump-json",
		"--skip-download",
		"--no-warnings",
		WatchURL(videoID),
	}

	output, err := s.cmdRunner.Run(ctx, s.ytDlpPath, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts for %s: %w", videoID, err)
	}

	var info ytDlpVideoInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("%w: yt-dlp output: %v", ErrMalformedTranscript, err)
	}

	variants := append(
		collectVariants(videoID, info.Subtitles, model.OriginManual),
		collectVariants(videoID, info.AutomaticCaptions, model.OriginGenerated)...,
	)
	if len(variants) == 0 {
		return nil, ErrNoTranscripts
	}
	return variants, nil
}

// collectVariants converts one yt-dlp caption map into variants sorted by language
func collectVariants(videoID string, tracks map[string][]ytDlpSubtitleFormat, origin model.TranscriptOrigin) []model.TranscriptVariant {
	seen := make(map[string]bool)
	var variants []model.TranscriptVariant

	for lang, formats := range tracks {
		format, ok := json3Format(formats)
		if !ok || isTranslated(format.URL) {
			continue
		}

		language := strings.TrimSuffix(lang, "-orig")
		if seen[language] {
			continue
		}
		seen[language] = true

		variants = append(variants, model.TranscriptVariant{
			VideoID:  videoID,
			Language: language,
			Name:     format.Name,
			Origin:   origin,
			URL:      format.URL,
		})
	}

	sort.Slice(variants, func(i, j int) bool {
		return variants[i].Language < variants[j].Language
	})
	return variants
}

func json3Format(formats []ytDlpSubtitleFormat) (ytDlpSubtitleFormat, bool) {
	for _, f := range formats {
		if f.Ext == "json3" && f.URL != "" {
			return f, true
		}
	}
	return ytDlpSubtitleFormat{}, false
}

// isTranslated reports whether a timed text URL asks YouTube for a machine translation
func isTranslated(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Query().Get("tlang") != ""
}
