package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Taichi-iskw/yt-summary/internal/model"
)

// DefaultMaxTimedTextBytes limits the size of a downloaded caption track
const DefaultMaxTimedTextBytes = 8 * 1024 * 1024

// json3Document is the json3 timed text format served by YouTube
type json3Document struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs    int64          `json:"tStartMs"`
	DurationMs int64          `json:"dDurationMs"`
	Segs       []json3Segment `json:"segs"`
}

type json3Segment struct {
	UTF8 string `json:"utf8"`
}

// FetchTranscript downloads and decodes the json3 timed text of a variant
func (s *youTubeService) FetchTranscript(ctx context.Context, variant model.TranscriptVariant) ([]model.TimedSegment, error) {
	if variant.URL == "" {
		return nil, fmt.Errorf("transcript variant %s/%s has no URL", variant.VideoID, variant.Language)
	}
	body, err := s.downloadTimedText(ctx, variant.URL)
	if err != nil {
		return nil, fmt.Errorf("timed text: %w", err)
	}

	return parseJSON3(body)
}

// parseJSON3 converts a json3 document into timed segments
func parseJSON3(data []byte) ([]model.TimedSegment, error) {
	var doc json3Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTranscript, err)
	}

	segments := make([]model.TimedSegment, 0, len(doc.Events))
	for _, event := range doc.Events {
		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}

		text := strings.Join(strings.Fields(sb.String()), " ")
		if text == "" {
			continue
		}

		segments = append(segments, model.TimedSegment{
			Text:     text,
			Start:    float64(event.StartMs) / 1000,
			Duration: float64(event.DurationMs) / 1000,
		})
	}
	return segments, nil
}
