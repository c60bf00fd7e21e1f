package summary

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/Taichi-iskw/yt-summary/internal/errors"
	"github.com/Taichi-iskw/yt-summary/internal/model"
	"github.com/Taichi-iskw/yt-summary/internal/service/summarizer"
)

// Bounds are the length bounds passed to the summarization model
type Bounds struct {
	Min int
	Max int
}

// SegmentSummarizer summarizes single chunks, skipping those too short to summarize reliably
type SegmentSummarizer struct {
	model         summarizer.Model
	skipThreshold int
}

// NewSegmentSummarizer creates a SegmentSummarizer.
// Chunks shorter than skipThreshold characters are skipped.
// Per-call deadlines belong to the model, which knows when a call actually starts.
func NewSegmentSummarizer(model summarizer.Model, skipThreshold int) *SegmentSummarizer {
	return &SegmentSummarizer{
		model:         model,
		skipThreshold: skipThreshold,
	}
}

// Summarize returns the summary of chunk, or skipped=true when the chunk is below the skip threshold
func (s *SegmentSummarizer) Summarize(ctx context.Context, chunk model.TextChunk, bounds Bounds) (string, bool, error) {
	if chunk.Len() < s.skipThreshold {
		return "", true, nil
	}

	summary, err := s.summarizeText(ctx, chunk.Content, bounds)
	if err != nil {
		return "", false, apperrors.Wrap(err, apperrors.CodeSummarization,
			fmt.Sprintf("failed to summarize chunk %d: %v", chunk.Index, err))
	}
	return summary, false, nil
}

func (s *SegmentSummarizer) summarizeText(ctx context.Context, text string, bounds Bounds) (string, error) {
	summary, err := s.model.Summarize(ctx, text, bounds.Min, bounds.Max)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}
