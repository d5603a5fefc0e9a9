package workflow

// Band classifies a confidence score for the result indicator.
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Classify maps a confidence score (0-100) to its band. Boundaries are
// exclusive on the upper side: 75 is medium, 50 is low.
func Classify(confidence float64) Band {
	switch {
	case confidence > 75:
		return BandHigh
	case confidence > 50:
		return BandMedium
	default:
		return BandLow
	}
}
