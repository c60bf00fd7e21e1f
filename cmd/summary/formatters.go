package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Taichi-iskw/yt-summary/internal/model"
)

// Output formats
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Formatter defines interface for output formatting
type Formatter interface {
	Format(result any) (string, error)
}

// NewFormatter returns the formatter for the given format name
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case FormatJSON, "":
		return &JSONFormatter{}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	case FormatText:
		return &TextFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, markdown, text)", format)
	}
}

// JSONFormatter formats output as a single line JSON document
type JSONFormatter struct{}

// Format formats any result document as JSON
func (f *JSONFormatter) Format(result any) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(result); err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// MarkdownFormatter renders a full summary as markdown sections.
// Narrowed results are rendered as JSON.
type MarkdownFormatter struct{}

// Format formats a summary as markdown
func (f *MarkdownFormatter) Format(result any) (string, error) {
	full, ok := result.(*model.SummaryResult)
	if !ok {
		return (&JSONFormatter{}).Format(result)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("### Title: %s\n\n", full.Title))
	output.WriteString("### Short Summary:\n")
	output.WriteString(full.ShortSummary)
	output.WriteString("\n\n### Detailed Summary:\n")
	output.WriteString(full.DetailedSummary)
	output.WriteString("\n\n### Key Takeaways:\n")
	for i, takeaway := range full.KeyTakeaways {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString("- " + takeaway)
	}
	output.WriteString("\n")

	return output.String(), nil
}

// TextFormatter formats a full summary as a plain text report.
// Narrowed results are rendered as JSON.
type TextFormatter struct{}

// Format formats a summary as plain text
func (f *TextFormatter) Format(result any) (string, error) {
	full, ok := result.(*model.SummaryResult)
	if !ok {
		return (&JSONFormatter{}).Format(result)
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Title: %s\n\n", full.Title))
	output.WriteString("Summary:\n")
	output.WriteString("========\n")
	output.WriteString(full.ShortSummary)
	output.WriteString("\n\n")

	if len(full.KeyTakeaways) > 0 {
		output.WriteString("Key Takeaways:\n")
		output.WriteString("==============\n")
		for i, takeaway := range full.KeyTakeaways {
			output.WriteString(fmt.Sprintf("[%d] %s\n", i+1, takeaway))
		}
		output.WriteString("\n")
	}

	output.WriteString("Details:\n")
	output.WriteString("========\n")
	output.WriteString(full.DetailedSummary)
	output.WriteString("\n")

	return output.String(), nil
}
