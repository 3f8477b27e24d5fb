package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"59.99", 59.99},
		{"59,99", 59.99},
		{"20.99 EUR", 20.99},
		{"€20.99", 20.99},
		{"129 kr", 129},
		{"ca 450:-", 450},
		{"free???", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, ExtractAmount(tt.raw), 1e-9, "raw=%q", tt.raw)
	}
}

func TestHasEURMarker(t *testing.T) {
	assert.True(t, HasEURMarker("20.99 EUR"))
	assert.True(t, HasEURMarker("20.99 eur"))
	assert.True(t, HasEURMarker("€20.99"))
	assert.False(t, HasEURMarker("129 kr"))
	assert.False(t, HasEURMarker("59.99"))
}

func TestCompute_LocalPrice(t *testing.T) {
	q := Compute("59.99", 11.5, "SEK")

	assert.False(t, q.Converted)
	assert.InDelta(t, 59.99, q.Nominal, 1e-9)
	assert.InDelta(t, 59.99, q.Local, 1e-9)
	// floor(59.99 * 0.80) = floor(47.992)
	assert.Equal(t, int64(47), q.Amount)
	assert.Equal(t, "59.99", q.Display)
}

func TestCompute_EURPriceIsConverted(t *testing.T) {
	q := Compute("59.99 EUR", 11.5, "SEK")

	assert.True(t, q.Converted)
	assert.InDelta(t, 11.5, q.Rate, 1e-9)
	// 59.99 * 11.5 = 689.885
	assert.InDelta(t, 689.885, q.Local, 1e-6)
	// floor(689.885 * 0.80) = floor(551.908)
	assert.Equal(t, int64(551), q.Amount)
	assert.Equal(t, "59.99 EUR (≈689 SEK)", q.Display)
}

func TestCompute_CommaDecimalSeparator(t *testing.T) {
	q := Compute("€20,99", 11.0, "SEK")

	assert.True(t, q.Converted)
	// 20.99 * 11 = 230.89; floor(230.89 * 0.80) = floor(184.712)
	assert.Equal(t, int64(184), q.Amount)
}

func TestCompute_NoNumericContent(t *testing.T) {
	q := Compute("gratis", 11.5, "SEK")

	assert.Zero(t, q.Nominal)
	assert.Zero(t, q.Amount)
}
