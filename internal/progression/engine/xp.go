package engine

import "math"

// DailyFirstAnswerBonus is the flat XP bonus for the first answer of a
// calendar day.
const DailyFirstAnswerBonus = 25

// XPInput carries everything the XP computation needs for one correct
// answer. Callers only invoke ComputeXP for correct answers; incorrect
// answers earn nothing.
type XPInput struct {
	Difficulty    int // 1-3
	CurrentStreak int
	IsFirstToday  bool
	BaseXP        int
}

// XPBreakdown reports the incremental delta each stage contributed.
// Base + DifficultyBonus + StreakBonus + DailyBonus always equals Total.
type XPBreakdown struct {
	Base            int `json:"base"`
	DifficultyBonus int `json:"difficulty_bonus"`
	StreakBonus     int `json:"streak_bonus"`
	DailyBonus      int `json:"daily_bonus"`
}

// XPResult is the computed award for one answer.
type XPResult struct {
	Total     int
	Breakdown XPBreakdown
}

func difficultyMultiplier(difficulty int) float64 {
	switch difficulty {
	case 2:
		return 1.5
	case 3:
		return 2.0
	default:
		return 1.0
	}
}

// StreakMultiplier returns the XP multiplier for a daily streak. Step
// function, not interpolated.
func StreakMultiplier(streak int) float64 {
	switch {
	case streak >= 25:
		return 2.5
	case streak >= 10:
		return 2.0
	case streak >= 5:
		return 1.5
	case streak >= 3:
		return 1.2
	default:
		return 1.0
	}
}

// ComputeXP applies the difficulty multiplier, then the streak multiplier,
// then the first-answer-of-the-day bonus, rounding after each multiplier.
func ComputeXP(in XPInput) XPResult {
	withDifficulty := int(math.Round(float64(in.BaseXP) * difficultyMultiplier(in.Difficulty)))
	withStreak := int(math.Round(float64(withDifficulty) * StreakMultiplier(in.CurrentStreak)))

	dailyBonus := 0
	if in.IsFirstToday {
		dailyBonus = DailyFirstAnswerBonus
	}

	return XPResult{
		Total: withStreak + dailyBonus,
		Breakdown: XPBreakdown{
			Base:            in.BaseXP,
			DifficultyBonus: withDifficulty - in.BaseXP,
			StreakBonus:     withStreak - withDifficulty,
			DailyBonus:      dailyBonus,
		},
	}
}
