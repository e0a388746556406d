package models

import "time"

// Module is one curriculum unit, ordered by Position. XPRequired is the
// total-XP threshold at which the module unlocks for a user.
type Module struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"unique;not null" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Position    int       `gorm:"not null;index" json:"position"`
	XPRequired  int       `gorm:"default:0" json:"xp_required"`
	CreatedAt   time.Time `json:"created_at"`
}

// Question is pre-baked content; the engine never evaluates poker itself.
type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ModuleSlug    string    `gorm:"not null;index" json:"module_slug"`
	Prompt        string    `gorm:"not null" json:"prompt"`
	CorrectAnswer string    `gorm:"not null" json:"-"`
	Difficulty    int       `gorm:"default:1" json:"difficulty"` // 1-3
	XPValue       int       `gorm:"default:10" json:"xp_value"`
	IsPlacement   bool      `gorm:"default:false" json:"is_placement"`
	CreatedAt     time.Time `json:"created_at"`
}
