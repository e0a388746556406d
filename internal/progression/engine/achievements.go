package engine

import (
	"fmt"

	"github.com/pokerpath/backend/internal/progression/models"
)

// UserContext is the aggregate snapshot achievement conditions are
// evaluated against.
type UserContext struct {
	TotalXP         int
	Level           int
	CurrentStreak   int
	LongestStreak   int
	TotalQuestions  int
	TotalCorrect    int
	MasteredModules []string
}

func (c UserContext) hasMastered(slug string) bool {
	for _, m := range c.MasteredModules {
		if m == slug {
			return true
		}
	}
	return false
}

// ConditionMet evaluates one achievement's tagged condition. Unknown kinds
// are an error rather than silently false so catalog mistakes surface.
func ConditionMet(ctx UserContext, a models.Achievement) (bool, error) {
	switch a.Kind {
	case models.ConditionStreak:
		return ctx.LongestStreak >= a.Threshold, nil
	case models.ConditionXP:
		return ctx.TotalXP >= a.Threshold, nil
	case models.ConditionQuestions:
		return ctx.TotalQuestions >= a.Threshold, nil
	case models.ConditionCorrect:
		return ctx.TotalCorrect >= a.Threshold, nil
	case models.ConditionLevel:
		return ctx.Level >= a.Threshold, nil
	case models.ConditionMastery:
		if a.ModuleSlug != "" {
			return ctx.hasMastered(a.ModuleSlug), nil
		}
		return len(ctx.MasteredModules) >= a.Threshold, nil
	default:
		return false, fmt.Errorf("unknown achievement condition kind %q", a.Kind)
	}
}

// EvaluateAchievements returns the catalog entries newly satisfied by the
// context, skipping anything already unlocked. Order-independent: no
// condition depends on another unlock.
func EvaluateAchievements(ctx UserContext, catalog []models.Achievement, unlocked map[uint]bool) ([]models.Achievement, error) {
	var newly []models.Achievement
	for _, a := range catalog {
		if unlocked[a.ID] {
			continue
		}
		met, err := ConditionMet(ctx, a)
		if err != nil {
			return nil, err
		}
		if met {
			newly = append(newly, a)
		}
	}
	return newly, nil
}
