package courtscrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKoreanPrice(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"3억 5,000만원", 350_000_000},
		{"3억원", 300_000_000},
		{"5,000만원", 50_000_000},
		{"450,000천원", 450_000_000},
		{"350,000,000", 350_000_000},
		{"350,000,000원", 350_000_000},
		{"1억 2,345만원", 123_450_000},
		{"", 0},
		{"-", 0},
		{"미정", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKoreanPrice(tt.in))
		})
	}
}
