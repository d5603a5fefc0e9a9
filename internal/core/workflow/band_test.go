package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_bands(t *testing.T) {
	cases := []struct {
		confidence float64
		want       Band
	}{
		{80, BandHigh},
		{75, BandMedium},
		{60, BandMedium},
		{50, BandLow},
		{10, BandLow},
		{100, BandHigh},
		{75.01, BandHigh},
		{50.01, BandMedium},
		{0, BandLow},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.confidence), "confidence %v", tc.confidence)
	}
}
