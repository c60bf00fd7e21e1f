package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/yt-summary/internal/model"
)

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"", FormatJSON, FormatMarkdown, FormatText} {
		formatter, err := NewFormatter(name)
		require.NoError(t, err)
		assert.NotNil(t, formatter)
	}

	_, err := NewFormatter("yaml")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestJSONFormatter(t *testing.T) {
	formatter := &JSONFormatter{}

	output, err := formatter.Format(&model.SummaryResult{Title: "T", KeyTakeaways: []string{}})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"T","short_summary":"","detailed_summary":"","key_takeaways":[],"full_text":""}`, output)

	output, err = formatter.Format(model.DetailedSummaryResult{DetailedSummary: "- a <b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"detailed_summary":"- a <b>"}`, output)
}

func TestMarkdownFormatter(t *testing.T) {
	formatter := &MarkdownFormatter{}

	output, err := formatter.Format(sampleResult)
	require.NoError(t, err)
	assert.Equal(t, "### Title: Video AbCdEfGhIjK\n\n"+
		"### Short Summary:\nGophers & friends.\n\n"+
		"### Detailed Summary:\n- one\n- two\n\n"+
		"### Key Takeaways:\n- one\n- two\n", output)

	// Narrowed results stay JSON
	output, err = formatter.Format(model.ShortSummaryResult{ShortSummary: "s"})
	require.NoError(t, err)
	assert.Equal(t, `{"short_summary":"s"}`, output)
}

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}

	output, err := formatter.Format(sampleResult)
	require.NoError(t, err)
	assert.Contains(t, output, "Title: Video AbCdEfGhIjK")
	assert.Contains(t, output, "Gophers & friends.")
	assert.Contains(t, output, "[1] one")
	assert.Contains(t, output, "[2] two")
	assert.Contains(t, output, "- one\n- two")

	output, err = formatter.Format(model.KeyPointsResult{KeyPoints: "- one"})
	require.NoError(t, err)
	assert.Equal(t, `{"key_points":"- one"}`, output)
}
