package model

import "time"

// UserProgress is the gamification ledger: XP, streaks, completion counters.
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID           uint       `gorm:"uniqueIndex;not null" json:"userId"`
	CurrentLevel     int        `gorm:"default:1" json:"currentLevel"`
	TotalXP          int        `gorm:"default:0" json:"totalXp"`
	CurrentStreak    int        `gorm:"default:0" json:"currentStreak"`
	LongestStreak    int        `gorm:"default:0" json:"longestStreak"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"`
	LessonsCompleted int        `gorm:"default:0" json:"lessonsCompleted"`
	AccuracyRate     float64    `gorm:"default:0" json:"accuracyRate"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
