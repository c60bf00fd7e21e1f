package model

import "unicode/utf8"

// Request types accepted for narrowing a SummaryResult
const (
	RequestShortSummary    = "short summary"
	RequestDetailedSummary = "detailed summary"
	RequestKeyPoints       = "key points"
)

// TextChunk is a sentence-aligned span of transcript text
type TextChunk struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
}

// Len returns the chunk length in characters
func (c TextChunk) Len() int {
	return utf8.RuneCountInString(c.Content)
}

// ChunkSummary is the summary produced for one chunk
type ChunkSummary struct {
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"summary_text"`
}

// SummaryResult is the full structured summary of a video
type SummaryResult struct {
	Title           string   `json:"title"`
	ShortSummary    string   `json:"short_summary"`
	DetailedSummary string   `json:"detailed_summary"`
	KeyTakeaways    []string `json:"key_takeaways"`
	FullText        string   `json:"full_text"`
}

// ShortSummaryResult is the "short summary" view of a SummaryResult
type ShortSummaryResult struct {
	ShortSummary string `json:"short_summary"`
}

// DetailedSummaryResult is the "detailed summary" view of a SummaryResult
type DetailedSummaryResult struct {
	DetailedSummary string `json:"detailed_summary"`
}

// KeyPointsResult is the "key points" view of a SummaryResult
type KeyPointsResult struct {
	KeyPoints string `json:"key_points"`
}

// ErrorResult is the document printed when a request fails
type ErrorResult struct {
	Error string `json:"error"`
}
