package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Taichi-iskw/yt-summary/internal/errors"
	"github.com/Taichi-iskw/yt-summary/internal/model"
)

func TestSegmentSummarizer_Summarize(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		modelErr    error
		wantSkipped bool
		wantCalls   int
		wantCode    string
	}{
		{name: "below threshold is skipped", content: strings.Repeat("a", 99), wantSkipped: true, wantCalls: 0},
		{name: "threshold length is summarized", content: strings.Repeat("a", 100), wantCalls: 1},
		{name: "threshold counts characters", content: strings.Repeat("é", 99), wantSkipped: true, wantCalls: 0},
		{name: "model failure", content: strings.Repeat("a", 300), modelErr: errors.New("CUDA out of memory"), wantCalls: 1, wantCode: apperrors.CodeSummarization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeModel{SummarizeFunc: func(ctx context.Context, text string, minLength, maxLength int) (string, error) {
				if tt.modelErr != nil {
					return "", tt.modelErr
				}
				return "  trimmed summary \n", nil
			}}
			segments := NewSegmentSummarizer(m, 100)

			got, skipped, err := segments.Summarize(context.Background(), model.TextChunk{Index: 3, Content: tt.content}, Bounds{Min: 40, Max: 150})

			assert.Len(t, m.recorded(), tt.wantCalls)
			assert.Equal(t, tt.wantSkipped, skipped)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, tt.wantCode))
				assert.ErrorIs(t, err, tt.modelErr)
				assert.Equal(t, "failed to summarize chunk 3: CUDA out of memory", apperrors.Message(err))
				return
			}
			require.NoError(t, err)
			if !tt.wantSkipped {
				assert.Equal(t, "trimmed summary", got)
				assert.Equal(t, modelCall{text: tt.content, minLength: 40, maxLength: 150}, m.recorded()[0])
			}
		})
	}
}

func TestSegmentSummarizer_ModelDeadline(t *testing.T) {
	m := &fakeModel{SummarizeFunc: func(ctx context.Context, text string, minLength, maxLength int) (string, error) {
		return "", context.DeadlineExceeded
	}}
	segments := NewSegmentSummarizer(m, 100)

	_, _, err := segments.Summarize(context.Background(), model.TextChunk{Content: strings.Repeat("a", 200)}, Bounds{Min: 40, Max: 150})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeSummarization))
}
