package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemaining(t *testing.T) {
	tests := []struct {
		name  string
		usage int
		want  int
	}{
		{"fresh user", 0, 1000},
		{"partial usage", 300, 700},
		{"exactly exhausted", 1000, 0},
		{"over allowance clamps to zero", 1200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Remaining(tt.usage))
		})
	}
}

func TestCanGenerate(t *testing.T) {
	assert.True(t, CanGenerate(0))
	assert.True(t, CanGenerate(950), "exactly one generation left")
	assert.False(t, CanGenerate(951), "less than one generation left")
	assert.False(t, CanGenerate(1000))
}

func TestSamePeriod(t *testing.T) {
	jan15 := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	jan31 := time.Date(2025, time.January, 31, 23, 59, 0, 0, time.UTC)
	feb1 := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	janNextYear := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)

	assert.True(t, SamePeriod(jan15, jan31))
	assert.False(t, SamePeriod(jan31, feb1))
	assert.False(t, SamePeriod(jan15, janNextYear), "same month in a different year is a new period")
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("a"))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 2, EstimateTokens("abcde"))
	assert.Equal(t, 3, EstimateTokens("hello world!"))
}

func TestCost(t *testing.T) {
	assert.Equal(t, 0.0, Cost(0, 0))
	assert.InDelta(t, 0.15e-6*1000+0.6e-6*500, Cost(1000, 500), 1e-12)
	assert.Greater(t, Cost(0, 100), Cost(100, 0), "output tokens cost more than input tokens")
}
