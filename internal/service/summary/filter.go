package summary

import "github.com/Taichi-iskw/yt-summary/internal/model"

// Filter narrows result to the view named by requestType.
// Unknown or empty request types return the full result unchanged.
func Filter(result *model.SummaryResult, requestType string) any {
	switch requestType {
	case model.RequestShortSummary:
		return model.ShortSummaryResult{ShortSummary: result.ShortSummary}
	case model.RequestDetailedSummary:
		return model.DetailedSummaryResult{DetailedSummary: result.DetailedSummary}
	case model.RequestKeyPoints:
		return model.KeyPointsResult{KeyPoints: result.DetailedSummary}
	default:
		return result
	}
}
