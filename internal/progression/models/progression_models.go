package models

import (
	"time"
)

// ModuleStatus tracks where a user sits within a curriculum module.
type ModuleStatus string

const (
	StatusLocked     ModuleStatus = "locked"
	StatusUnlocked   ModuleStatus = "unlocked"
	StatusInProgress ModuleStatus = "in_progress"
	StatusCompleted  ModuleStatus = "completed"
	StatusMastered   ModuleStatus = "mastered"
)

// ConditionKind is the closed set of achievement condition types.
type ConditionKind string

const (
	ConditionStreak    ConditionKind = "streak"
	ConditionXP        ConditionKind = "xp"
	ConditionQuestions ConditionKind = "questions"
	ConditionCorrect   ConditionKind = "correct"
	ConditionMastery   ConditionKind = "mastery"
	ConditionLevel     ConditionKind = "level"
)

// UserStats aggregates a user's lifetime progress. Created lazily on first
// interaction. TotalXP, TotalQuestions and TotalCorrect never decrease.
type UserStats struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"unique;not null;index" json:"user_id"`
	TotalXP            int       `gorm:"default:0" json:"total_xp"`
	Level              int       `gorm:"default:1" json:"level"`
	TotalQuestions     int       `gorm:"default:0" json:"total_questions"`
	TotalCorrect       int       `gorm:"default:0" json:"total_correct"`
	PlacementCompleted bool      `gorm:"default:false" json:"placement_completed"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// StreakRecord tracks consecutive days of activity. Mutated at most once per
// calendar day; LongestStreak is the running maximum of CurrentStreak.
type StreakRecord struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"unique;not null;index" json:"user_id"`
	CurrentStreak    int       `gorm:"default:0" json:"current_streak"`
	LongestStreak    int       `gorm:"default:0" json:"longest_streak"`
	LastActivityDate time.Time `json:"last_activity_date"`
	StreakFreezes    int       `gorm:"default:0" json:"streak_freezes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ModuleProgress tracks a user's standing within one module.
type ModuleProgress struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"not null;uniqueIndex:idx_user_module" json:"user_id"`
	ModuleSlug     string       `gorm:"not null;uniqueIndex:idx_user_module" json:"module_slug"`
	CorrectAnswers int          `gorm:"default:0" json:"correct_answers"`
	TotalAnswers   int          `gorm:"default:0" json:"total_answers"`
	RecentAnswers  RecentWindow `gorm:"type:text" json:"recent_answers"`
	MasteryScore   float64      `gorm:"default:0" json:"mastery_score"` // 0-100
	Status         ModuleStatus `gorm:"default:locked" json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Achievement is an immutable catalog entry. The condition is a tagged
// union: Kind selects the predicate, Threshold is the numeric bound, and
// ModuleSlug optionally scopes mastery conditions to one module.
type Achievement struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Slug        string        `gorm:"unique;not null" json:"slug"`
	Name        string        `gorm:"not null" json:"name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Rarity      string        `json:"rarity"` // common, rare, epic, legendary
	XPReward    int           `json:"xp_reward"`
	Kind        ConditionKind `gorm:"not null" json:"kind"`
	Threshold   int           `json:"threshold"`
	ModuleSlug  string        `json:"module_slug,omitempty"`
}

// UnlockedAchievement is append-only: at most one row per user+achievement.
type UnlockedAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`

	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

// AnswerRecord is the per-answer history row; the unique idempotency key is
// how the boundary layer deduplicates retried submissions. The XP breakdown
// is persisted so a deduplicated replay can return the original split.
type AnswerRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	QuestionID     uint      `gorm:"not null" json:"question_id"`
	ModuleSlug     string    `json:"module_slug"`
	IdempotencyKey string    `gorm:"uniqueIndex" json:"idempotency_key,omitempty"`
	IsCorrect      bool      `json:"is_correct"`
	XPAwarded      int       `json:"xp_awarded"`
	XPBase         int       `json:"xp_base"`
	XPDifficulty   int       `json:"xp_difficulty"`
	XPStreak       int       `json:"xp_streak"`
	XPDaily        int       `json:"xp_daily"`
	IsPlacement    bool      `gorm:"default:false" json:"is_placement"`
	CreatedAt      time.Time `json:"created_at"`
}

// PlacementAttempt records the outcome of the one-time placement test.
type PlacementAttempt struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Score           int       `json:"score"`
	LevelLabel      string    `json:"level_label"`
	XPGranted       int       `json:"xp_granted"`
	ModulesUnlocked int       `json:"modules_unlocked"`
	CreatedAt       time.Time `json:"created_at"`
}

// SessionResult represents a completed practice session within a module.
type SessionResult struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	ModuleSlug     string    `json:"module_slug"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	Accuracy       float64   `json:"accuracy"` // percentage
	CreatedAt      time.Time `json:"created_at"`
}

// Request/Response Models

type SubmitAnswerRequest struct {
	QuestionID     uint   `json:"question_id" binding:"required"`
	Answer         string `json:"answer" binding:"required"`
	IdempotencyKey string `json:"idempotency_key" binding:"omitempty,uuid"`
}

type XPBreakdownDTO struct {
	Base            int `json:"base"`
	DifficultyBonus int `json:"difficulty_bonus"`
	StreakBonus     int `json:"streak_bonus"`
	DailyBonus      int `json:"daily_bonus"`
}

type StreakDTO struct {
	CurrentStreak   int  `json:"current_streak"`
	LongestStreak   int  `json:"longest_streak"`
	StreakFreezes   int  `json:"streak_freezes"`
	Maintained      bool `json:"maintained"`
	Lost            bool `json:"lost"`
	FreezeUsed      bool `json:"freeze_used"`
	NewFreezeEarned bool `json:"new_freeze_earned"`
}

type SubmitAnswerResponse struct {
	IsCorrect       bool           `json:"is_correct"`
	CorrectAnswer   string         `json:"correct_answer"`
	XPEarned        int            `json:"xp_earned"`
	XPBreakdown     XPBreakdownDTO `json:"xp_breakdown"`
	TotalXP         int            `json:"total_xp"`
	Level           int            `json:"level"`
	XPToNextLevel   int            `json:"xp_to_next_level"`
	LeveledUp       bool           `json:"leveled_up"`
	Streak          StreakDTO      `json:"streak"`
	MasteryScore    float64        `json:"mastery_score"`
	ModuleStatus    ModuleStatus   `json:"module_status"`
	MasteredNow     bool           `json:"mastered_now"`
	NewAchievements []Achievement  `json:"new_achievements"`
}

type CompleteSessionRequest struct {
	ModuleSlug     string `json:"module_slug" binding:"required"`
	TotalQuestions int    `json:"total_questions" binding:"required,gt=0"`
	CorrectAnswers int    `json:"correct_answers" binding:"gte=0"`
}

type CompleteSessionResponse struct {
	Accuracy     float64      `json:"accuracy"`
	ModuleStatus ModuleStatus `json:"module_status"`
}

type PlacementRequest struct {
	Score int `json:"score" binding:"gte=0,lte=10"`
}

type PlacementResponse struct {
	Score           int      `json:"score"`
	LevelLabel      string   `json:"level_label"`
	XPGranted       int      `json:"xp_granted"`
	ModulesUnlocked []string `json:"modules_unlocked"`
	Level           int      `json:"level"`
}

type UserStatsResponse struct {
	TotalXP            int       `json:"total_xp"`
	Level              int       `json:"level"`
	XPToNextLevel      int       `json:"xp_to_next_level"`
	TotalQuestions     int       `json:"total_questions"`
	TotalCorrect       int       `json:"total_correct"`
	Accuracy           float64   `json:"accuracy"`
	Streak             StreakDTO `json:"streak"`
	PlacementCompleted bool      `json:"placement_completed"`
}

type AchievementWithStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

type ModuleWithProgress struct {
	Slug         string       `json:"slug"`
	Title        string       `json:"title"`
	Position     int          `json:"position"`
	XPRequired   int          `json:"xp_required"`
	Status       ModuleStatus `json:"status"`
	MasteryScore float64      `json:"mastery_score"`
}
