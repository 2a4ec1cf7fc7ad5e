package model

import "time"

type AchievementRequirement string

const (
	RequireStreak           AchievementRequirement = "streak"
	RequireLessonsCompleted AchievementRequirement = "lessons_completed"
	RequireXPEarned         AchievementRequirement = "xp_earned"
)

// swagger:model Achievement
type Achievement struct {
	BaseModel
	Name             string                 `gorm:"size:100;not null" json:"name"`
	Description      string                 `gorm:"size:255" json:"description"`
	Icon             string                 `gorm:"size:255" json:"icon,omitempty"`
	RequirementType  AchievementRequirement `gorm:"size:50;not null" json:"requirementType"`
	RequirementValue int                    `gorm:"not null" json:"requirementValue"`
	XPReward         int                    `gorm:"default:50" json:"xpReward"`
	IsActive         bool                   `gorm:"default:true" json:"isActive"`
}

func (Achievement) TableName() string {
	return "achievements"
}

type UserAchievement struct {
	BaseModel
	UserID        uint      `gorm:"index:idx_user_achievement,unique;not null" json:"userId"`
	AchievementID uint      `gorm:"index:idx_user_achievement,unique;not null" json:"achievementId"`
	EarnedAt      time.Time `json:"earnedAt"`

	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
