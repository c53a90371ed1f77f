package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw    string
		want   ClassificationStatus
		wantOK bool
	}{
		{"hot", StatusHot, true},
		{"HOT", StatusHot, true},
		{"hot_premium", StatusHot, true},
		{"hot_standard", StatusHot, true},
		{"warm", StatusWarm, true},
		{"warm_nurture", StatusWarm, true},
		{"cold_long_term", StatusCold, true},
		{"invalid_spam", StatusInvalid, true},
		{"spam", StatusInvalid, true},
		{"  Warm  ", StatusWarm, true},
		{"", StatusInvalid, false},
		{"purple", StatusInvalid, false},
	}

	for _, tc := range cases {
		got, ok := NormalizeStatus(tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
		assert.Equal(t, tc.wantOK, ok, "raw=%q", tc.raw)
	}
}
