package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerpath/backend/internal/progression/models"
)

func testCatalog() []models.Achievement {
	return []models.Achievement{
		{ID: 1, Slug: "week-warrior", Kind: models.ConditionStreak, Threshold: 7, XPReward: 50},
		{ID: 2, Slug: "grinder", Kind: models.ConditionXP, Threshold: 1000, XPReward: 25},
		{ID: 3, Slug: "century", Kind: models.ConditionQuestions, Threshold: 100, XPReward: 25},
		{ID: 4, Slug: "sharp", Kind: models.ConditionCorrect, Threshold: 50, XPReward: 25},
		{ID: 5, Slug: "high-roller", Kind: models.ConditionLevel, Threshold: 5, XPReward: 100},
		{ID: 6, Slug: "hand-reader", Kind: models.ConditionMastery, ModuleSlug: "hand-rankings", XPReward: 75},
		{ID: 7, Slug: "scholar", Kind: models.ConditionMastery, Threshold: 3, XPReward: 150},
	}
}

func TestEvaluateAchievements(t *testing.T) {
	tests := []struct {
		name     string
		ctx      UserContext
		unlocked map[uint]bool
		expected []string
	}{
		{
			name:     "fresh user unlocks nothing",
			ctx:      UserContext{Level: 1},
			expected: nil,
		},
		{
			name:     "streak uses longest not current",
			ctx:      UserContext{Level: 1, CurrentStreak: 2, LongestStreak: 7},
			expected: []string{"week-warrior"},
		},
		{
			name:     "xp and level together",
			ctx:      UserContext{Level: 5, TotalXP: 1200},
			expected: []string{"grinder", "high-roller"},
		},
		{
			name:     "question and correct counters",
			ctx:      UserContext{Level: 1, TotalQuestions: 100, TotalCorrect: 50},
			expected: []string{"century", "sharp"},
		},
		{
			name:     "module scoped mastery",
			ctx:      UserContext{Level: 1, MasteredModules: []string{"hand-rankings"}},
			expected: []string{"hand-reader"},
		},
		{
			name:     "count scoped mastery",
			ctx:      UserContext{Level: 1, MasteredModules: []string{"a", "b", "c"}},
			expected: []string{"scholar"},
		},
		{
			name:     "already unlocked are skipped",
			ctx:      UserContext{Level: 5, TotalXP: 1200, LongestStreak: 10},
			unlocked: map[uint]bool{1: true, 2: true},
			expected: []string{"high-roller"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newly, err := EvaluateAchievements(tt.ctx, testCatalog(), tt.unlocked)
			require.NoError(t, err)

			var slugs []string
			for _, a := range newly {
				slugs = append(slugs, a.Slug)
			}
			assert.Equal(t, tt.expected, slugs)
		})
	}
}

// Re-evaluating against the updated unlocked set must return nothing new.
func TestEvaluateAchievementsIdempotent(t *testing.T) {
	ctx := UserContext{Level: 5, TotalXP: 2000, LongestStreak: 7, TotalQuestions: 150, TotalCorrect: 90}

	first, err := EvaluateAchievements(ctx, testCatalog(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	unlocked := map[uint]bool{}
	for _, a := range first {
		unlocked[a.ID] = true
	}

	second, err := EvaluateAchievements(ctx, testCatalog(), unlocked)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestConditionMetUnknownKind(t *testing.T) {
	_, err := ConditionMet(UserContext{}, models.Achievement{Kind: "prestige", Threshold: 1})
	assert.Error(t, err)
}
