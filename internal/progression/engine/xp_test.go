package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeXP(t *testing.T) {
	tests := []struct {
		name          string
		input         XPInput
		expectedTotal int
		expected      XPBreakdown
	}{
		{
			name:          "easy question no streak",
			input:         XPInput{Difficulty: 1, CurrentStreak: 0, IsFirstToday: false, BaseXP: 10},
			expectedTotal: 10,
			expected:      XPBreakdown{Base: 10, DifficultyBonus: 0, StreakBonus: 0, DailyBonus: 0},
		},
		{
			name:          "hard question long streak first of day",
			input:         XPInput{Difficulty: 3, CurrentStreak: 10, IsFirstToday: true, BaseXP: 10},
			expectedTotal: 65,
			expected:      XPBreakdown{Base: 10, DifficultyBonus: 10, StreakBonus: 20, DailyBonus: 25},
		},
		{
			name:          "medium question rounds up",
			input:         XPInput{Difficulty: 2, CurrentStreak: 0, IsFirstToday: false, BaseXP: 15},
			expectedTotal: 23,
			expected:      XPBreakdown{Base: 15, DifficultyBonus: 8, StreakBonus: 0, DailyBonus: 0},
		},
		{
			name:          "short streak multiplier",
			input:         XPInput{Difficulty: 1, CurrentStreak: 3, IsFirstToday: false, BaseXP: 10},
			expectedTotal: 12,
			expected:      XPBreakdown{Base: 10, DifficultyBonus: 0, StreakBonus: 2, DailyBonus: 0},
		},
		{
			name:          "max streak multiplier",
			input:         XPInput{Difficulty: 1, CurrentStreak: 30, IsFirstToday: false, BaseXP: 10},
			expectedTotal: 25,
			expected:      XPBreakdown{Base: 10, DifficultyBonus: 0, StreakBonus: 15, DailyBonus: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeXP(tt.input)
			assert.Equal(t, tt.expectedTotal, result.Total)
			assert.Equal(t, tt.expected, result.Breakdown)
		})
	}
}

// The breakdown fields are display deltas; they must always reassemble into
// the total.
func TestBreakdownSumsToTotal(t *testing.T) {
	for difficulty := 1; difficulty <= 3; difficulty++ {
		for _, streak := range []int{0, 2, 3, 5, 9, 10, 24, 25, 100} {
			for _, first := range []bool{false, true} {
				result := ComputeXP(XPInput{
					Difficulty:    difficulty,
					CurrentStreak: streak,
					IsFirstToday:  first,
					BaseXP:        10,
				})
				sum := result.Breakdown.Base + result.Breakdown.DifficultyBonus +
					result.Breakdown.StreakBonus + result.Breakdown.DailyBonus
				assert.Equal(t, result.Total, sum)
			}
		}
	}
}

func TestStreakMultiplierSteps(t *testing.T) {
	tests := []struct {
		streak   int
		expected float64
	}{
		{0, 1.0},
		{2, 1.0},
		{3, 1.2},
		{4, 1.2},
		{5, 1.5},
		{9, 1.5},
		{10, 2.0},
		{24, 2.0},
		{25, 2.5},
		{100, 2.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StreakMultiplier(tt.streak), "streak %d", tt.streak)
	}
}
