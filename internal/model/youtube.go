package model

// TranscriptOrigin tells how a caption track was produced
type TranscriptOrigin string

const (
	OriginManual    TranscriptOrigin = "manual"    // uploaded by the channel
	OriginGenerated TranscriptOrigin = "generated" // YouTube automatic speech recognition
	OriginOther     TranscriptOrigin = "other"
)

// TranscriptVariant represents one selectable caption track of a video
type TranscriptVariant struct {
	VideoID  string           `json:"video_id"`
	Language string           `json:"language"`
	Name     string           `json:"name,omitempty"`
	Origin   TranscriptOrigin `json:"origin"`
	URL      string           `json:"-"` // json3 timed text location
}

// TimedSegment represents one caption line of a transcript
type TimedSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`    // Start time in seconds
	Duration float64 `json:"duration"` // Duration in seconds
}
