package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pokerpath/backend/internal/common/database"
	apperrors "github.com/pokerpath/backend/internal/common/errors"
	contentmodels "github.com/pokerpath/backend/internal/content/models"
	"github.com/pokerpath/backend/internal/progression/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// In-memory sqlite is per-connection; keep the pool at one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type testServices struct {
	answers      *AnswerService
	sessions     *SessionService
	placement    *PlacementService
	stats        *StatsService
	achievements *AchievementService
}

func newTestServices(db *gorm.DB) *testServices {
	logger := zap.NewNop()
	achievements := NewAchievementService(db, logger)
	return &testServices{
		answers:      NewAnswerService(db, logger, achievements),
		sessions:     NewSessionService(db, logger, achievements),
		placement:    NewPlacementService(db, logger, achievements),
		stats:        NewStatsService(db),
		achievements: achievements,
	}
}

func createQuestion(t *testing.T, db *gorm.DB, moduleSlug string, difficulty, xpValue int) *contentmodels.Question {
	q := &contentmodels.Question{
		ModuleSlug:    moduleSlug,
		Prompt:        "What beats a straight?",
		CorrectAnswer: "flush",
		Difficulty:    difficulty,
		XPValue:       xpValue,
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

func createModule(t *testing.T, db *gorm.DB, slug string, position, xpRequired int) {
	m := &contentmodels.Module{
		Slug:       slug,
		Title:      slug,
		Position:   position,
		XPRequired: xpRequired,
	}
	require.NoError(t, db.Create(m).Error)
}

func TestSubmitAnswer_CorrectFirstOfDay(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	q := createQuestion(t, db, "hand-rankings", 1, 10)

	resp, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{
		QuestionID: q.ID,
		Answer:     "flush",
	})
	require.NoError(t, err)

	assert.True(t, resp.IsCorrect)
	assert.Equal(t, 10, resp.XPBreakdown.Base)
	assert.Equal(t, 25, resp.XPBreakdown.DailyBonus)
	assert.Equal(t, 35, resp.XPEarned)
	assert.Equal(t, 35, resp.TotalXP)
	assert.Equal(t, 1, resp.Level)
	assert.Equal(t, 1, resp.Streak.CurrentStreak)
	assert.True(t, resp.Streak.Maintained)

	stats, err := svc.stats.GetStats(1)
	require.NoError(t, err)
	assert.Equal(t, 35, stats.TotalXP)
	assert.Equal(t, 1, stats.TotalQuestions)
	assert.Equal(t, 1, stats.TotalCorrect)
}

func TestSubmitAnswer_CaseAndWhitespaceInsensitive(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	q := createQuestion(t, db, "hand-rankings", 1, 10)

	resp, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{
		QuestionID: q.ID,
		Answer:     "  FLUSH  ",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsCorrect)
}

func TestSubmitAnswer_Incorrect(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	q := createQuestion(t, db, "hand-rankings", 1, 10)

	resp, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{
		QuestionID: q.ID,
		Answer:     "straight flush",
	})
	require.NoError(t, err)

	assert.False(t, resp.IsCorrect)
	assert.Equal(t, "flush", resp.CorrectAnswer)
	assert.Equal(t, 0, resp.XPEarned)
	assert.Equal(t, 0, resp.TotalXP)
	// An incorrect answer still counts as activity.
	assert.Equal(t, 1, resp.Streak.CurrentStreak)

	stats, err := svc.stats.GetStats(1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalQuestions)
	assert.Equal(t, 0, stats.TotalCorrect)
}

func TestSubmitAnswer_QuestionNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)

	_, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{
		QuestionID: 999,
		Answer:     "flush",
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSubmitAnswer_SecondAnswerSameDay(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	q1 := createQuestion(t, db, "hand-rankings", 1, 10)
	q2 := &contentmodels.Question{
		ModuleSlug:    "hand-rankings",
		Prompt:        "Best starting hand?",
		CorrectAnswer: "pocket aces",
		Difficulty:    1,
		XPValue:       10,
	}
	require.NoError(t, db.Create(q2).Error)

	_, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{QuestionID: q1.ID, Answer: "flush"})
	require.NoError(t, err)

	resp, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{QuestionID: q2.ID, Answer: "pocket aces"})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.XPBreakdown.DailyBonus)
	assert.Equal(t, 10, resp.XPEarned)
	assert.Equal(t, 1, resp.Streak.CurrentStreak)
	assert.Equal(t, 45, resp.TotalXP)
}

func TestSubmitAnswer_IdempotentReplay(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	q := createQuestion(t, db, "hand-rankings", 1, 10)

	key := "b3f9c2e4-1a5d-4f6e-8b7c-9d0e1f2a3b4c"
	first, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{
		QuestionID:     q.ID,
		Answer:         "flush",
		IdempotencyKey: key,
	})
	require.NoError(t, err)

	second, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{
		QuestionID:     q.ID,
		Answer:         "flush",
		IdempotencyKey: key,
	})
	require.NoError(t, err)

	assert.Equal(t, first.XPEarned, second.XPEarned)
	assert.Equal(t, first.TotalXP, second.TotalXP)

	var count int64
	require.NoError(t, db.Model(&models.AnswerRecord{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stats, err := svc.stats.GetStats(1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalQuestions)
	assert.Equal(t, first.TotalXP, stats.TotalXP)
}

func TestSubmitAnswer_ReplayReturnsOriginalBreakdown(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	q := createQuestion(t, db, "hand-rankings", 2, 10)

	key := "7c1d8e2f-3a4b-4c5d-9e6f-0a1b2c3d4e5f"
	first, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{
		QuestionID:     q.ID,
		Answer:         "flush",
		IdempotencyKey: key,
	})
	require.NoError(t, err)

	second, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{
		QuestionID:     q.ID,
		Answer:         "flush",
		IdempotencyKey: key,
	})
	require.NoError(t, err)

	assert.Equal(t, first.XPBreakdown, second.XPBreakdown)
	sum := second.XPBreakdown.Base + second.XPBreakdown.DifficultyBonus +
		second.XPBreakdown.StreakBonus + second.XPBreakdown.DailyBonus
	assert.Equal(t, second.XPEarned, sum)
}

func TestSubmitAnswer_StreakAdvancesAcrossDays(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	q := createQuestion(t, db, "hand-rankings", 1, 10)

	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	svc.answers.now = func() time.Time { return base }

	_, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{QuestionID: q.ID, Answer: "flush"})
	require.NoError(t, err)

	svc.answers.now = func() time.Time { return base.AddDate(0, 0, 1) }
	resp, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{QuestionID: q.ID, Answer: "flush"})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Streak.CurrentStreak)
	assert.Equal(t, 2, resp.Streak.LongestStreak)
	// A new calendar day earns the daily bonus again.
	assert.Equal(t, 25, resp.XPBreakdown.DailyBonus)
}

func TestSubmitAnswer_UnlocksModulesByXP(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	createModule(t, db, "hand-rankings", 1, 0)
	createModule(t, db, "position-play", 2, 30)
	createModule(t, db, "tournament-icm", 3, 5000)
	q := createQuestion(t, db, "hand-rankings", 1, 10)

	_, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{QuestionID: q.ID, Answer: "flush"})
	require.NoError(t, err)

	modules, err := svc.stats.GetModules(1)
	require.NoError(t, err)
	require.Len(t, modules, 3)

	byStatus := make(map[string]models.ModuleStatus)
	for _, m := range modules {
		byStatus[m.Slug] = m.Status
	}
	assert.NotEqual(t, models.StatusLocked, byStatus["hand-rankings"])
	assert.Equal(t, models.StatusUnlocked, byStatus["position-play"])
	assert.Equal(t, models.StatusLocked, byStatus["tournament-icm"])
}

func TestSubmitAnswer_MasteryBonusGrantedOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	q := createQuestion(t, db, "hand-rankings", 1, 10)

	window := models.RecentWindow{}
	for i := 0; i < 9; i++ {
		window = window.Push(true)
	}
	require.NoError(t, db.Create(&models.ModuleProgress{
		UserID:         1,
		ModuleSlug:     "hand-rankings",
		TotalAnswers:   19,
		CorrectAnswers: 19,
		RecentAnswers:  window,
		MasteryScore:   100,
		Status:         models.StatusInProgress,
	}).Error)

	resp, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{QuestionID: q.ID, Answer: "flush"})
	require.NoError(t, err)

	assert.True(t, resp.MasteredNow)
	assert.Equal(t, models.StatusMastered, resp.ModuleStatus)
	// 10 base + 25 daily, plus the one-time mastery bonus.
	assert.Equal(t, 135, resp.TotalXP)

	resp, err = svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{QuestionID: q.ID, Answer: "flush"})
	require.NoError(t, err)

	assert.False(t, resp.MasteredNow)
	assert.Equal(t, models.StatusMastered, resp.ModuleStatus)
	assert.Equal(t, 145, resp.TotalXP)
}

func TestSubmitAnswer_ReturnsNewAchievements(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	q := createQuestion(t, db, "hand-rankings", 1, 10)
	require.NoError(t, db.Create(&models.Achievement{
		Slug:      "first-steps",
		Name:      "First Steps",
		Kind:      models.ConditionQuestions,
		Threshold: 1,
		XPReward:  10,
	}).Error)

	resp, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{QuestionID: q.ID, Answer: "flush"})
	require.NoError(t, err)

	require.Len(t, resp.NewAchievements, 1)
	assert.Equal(t, "first-steps", resp.NewAchievements[0].Slug)
	// Reward is reflected in the response totals.
	assert.Equal(t, 45, resp.TotalXP)
}

func TestSubmitAnswer_RewardXPUnlocksModules(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	createModule(t, db, "hand-rankings", 1, 0)
	createModule(t, db, "position-play", 2, 40)
	q := createQuestion(t, db, "hand-rankings", 1, 10)
	require.NoError(t, db.Create(&models.Achievement{
		Slug:      "first-steps",
		Name:      "First Steps",
		Kind:      models.ConditionQuestions,
		Threshold: 1,
		XPReward:  50,
	}).Error)

	// The answer alone grants 35 XP; crossing the 40 XP threshold takes
	// the achievement reward.
	resp, err := svc.answers.SubmitAnswer(1, models.SubmitAnswerRequest{QuestionID: q.ID, Answer: "flush"})
	require.NoError(t, err)
	assert.Equal(t, 85, resp.TotalXP)

	modules, err := svc.stats.GetModules(1)
	require.NoError(t, err)

	byStatus := make(map[string]models.ModuleStatus)
	for _, m := range modules {
		byStatus[m.Slug] = m.Status
	}
	assert.Equal(t, models.StatusUnlocked, byStatus["position-play"])
}

func TestEvaluate_RewardXPUnlocksModules(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	createModule(t, db, "pot-odds", 1, 50)
	require.NoError(t, db.Create(&models.UserStats{UserID: 1, TotalXP: 30, Level: 1}).Error)
	require.NoError(t, db.Create(&models.Achievement{
		Slug:      "high-roller",
		Name:      "High Roller",
		Kind:      models.ConditionXP,
		Threshold: 30,
		XPReward:  25,
	}).Error)

	_, stats, err := svc.achievements.Evaluate(1)
	require.NoError(t, err)
	assert.Equal(t, 55, stats.TotalXP)

	modules, err := svc.stats.GetModules(1)
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, models.StatusUnlocked, modules[0].Status)
}

func TestEvaluate_NoDoubleGrant(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	require.NoError(t, db.Create(&models.UserStats{UserID: 1, TotalXP: 50, Level: 1}).Error)
	require.NoError(t, db.Create(&models.Achievement{
		Slug:      "high-roller",
		Name:      "High Roller",
		Kind:      models.ConditionXP,
		Threshold: 50,
		XPReward:  25,
	}).Error)

	newly, stats, err := svc.achievements.Evaluate(1)
	require.NoError(t, err)
	require.Len(t, newly, 1)
	assert.Equal(t, 75, stats.TotalXP)

	newly, stats, err = svc.achievements.Evaluate(1)
	require.NoError(t, err)
	assert.Empty(t, newly)
	assert.Equal(t, 75, stats.TotalXP)
}

func TestEvaluate_NoStatsIsNoop(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)

	newly, stats, err := svc.achievements.Evaluate(42)
	require.NoError(t, err)
	assert.Empty(t, newly)
	assert.Nil(t, stats)
}

func TestCompleteSession_PassMarksCompleted(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	createModule(t, db, "pot-odds", 1, 0)

	resp, err := svc.sessions.CompleteSession(1, models.CompleteSessionRequest{
		ModuleSlug:     "pot-odds",
		TotalQuestions: 10,
		CorrectAnswers: 8,
	})
	require.NoError(t, err)

	assert.InDelta(t, 80.0, resp.Accuracy, 0.001)
	assert.Equal(t, models.StatusCompleted, resp.ModuleStatus)
}

func TestCompleteSession_FailKeepsEarnedStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	createModule(t, db, "pot-odds", 1, 0)
	require.NoError(t, db.Create(&models.ModuleProgress{
		UserID:     1,
		ModuleSlug: "pot-odds",
		Status:     models.StatusCompleted,
	}).Error)

	resp, err := svc.sessions.CompleteSession(1, models.CompleteSessionRequest{
		ModuleSlug:     "pot-odds",
		TotalQuestions: 10,
		CorrectAnswers: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, resp.ModuleStatus)
}

func TestCompleteSession_UnknownModule(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)

	_, err := svc.sessions.CompleteSession(1, models.CompleteSessionRequest{
		ModuleSlug:     "no-such-module",
		TotalQuestions: 10,
		CorrectAnswers: 5,
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSubmitPlacement_SetsAbsoluteXP(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	for i, slug := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		createModule(t, db, slug, i+1, 1000)
	}
	// Prior XP is overwritten, not added to.
	require.NoError(t, db.Create(&models.UserStats{UserID: 1, TotalXP: 999, Level: 3}).Error)

	resp, err := svc.placement.SubmitPlacement(1, models.PlacementRequest{Score: 5})
	require.NoError(t, err)

	assert.Equal(t, "Intermediate", resp.LevelLabel)
	assert.Equal(t, 375, resp.XPGranted)
	assert.Len(t, resp.ModulesUnlocked, 5)
	assert.Equal(t, 2, resp.Level)

	stats, err := svc.stats.GetStats(1)
	require.NoError(t, err)
	assert.Equal(t, 375, stats.TotalXP)
	assert.True(t, stats.PlacementCompleted)
}

func TestSubmitPlacement_SecondAttemptRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	createModule(t, db, "hand-rankings", 1, 0)

	_, err := svc.placement.SubmitPlacement(1, models.PlacementRequest{Score: 2})
	require.NoError(t, err)

	_, err = svc.placement.SubmitPlacement(1, models.PlacementRequest{Score: 9})
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.AsAppError(err).Status)
}

func TestResetPlacement(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	createModule(t, db, "hand-rankings", 1, 0)

	_, err := svc.placement.SubmitPlacement(1, models.PlacementRequest{Score: 3})
	require.NoError(t, err)

	require.NoError(t, svc.placement.ResetPlacement(1))

	stats, err := svc.stats.GetStats(1)
	require.NoError(t, err)
	assert.False(t, stats.PlacementCompleted)

	// The test can be retaken after a reset.
	_, err = svc.placement.SubmitPlacement(1, models.PlacementRequest{Score: 8})
	require.NoError(t, err)
}

func TestResetPlacement_NothingToReset(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)

	err := svc.placement.ResetPlacement(1)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetAchievements_AnnotatesUnlocks(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestServices(db)
	require.NoError(t, db.Create(&models.UserStats{UserID: 1, TotalXP: 100, Level: 1, TotalQuestions: 1, TotalCorrect: 1}).Error)
	require.NoError(t, db.Create(&models.Achievement{
		Slug: "first-steps", Name: "First Steps", Kind: models.ConditionQuestions, Threshold: 1,
	}).Error)
	require.NoError(t, db.Create(&models.Achievement{
		Slug: "century", Name: "Century", Kind: models.ConditionQuestions, Threshold: 100,
	}).Error)

	_, _, err := svc.achievements.Evaluate(1)
	require.NoError(t, err)

	list, err := svc.stats.GetAchievements(1)
	require.NoError(t, err)
	require.Len(t, list, 2)

	unlocked := make(map[string]bool)
	for _, a := range list {
		unlocked[a.Slug] = a.Unlocked
	}
	assert.True(t, unlocked["first-steps"])
	assert.False(t, unlocked["century"])
}
