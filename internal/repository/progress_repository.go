package repository

import (
	"time"

	"cquest_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetOrCreate returns the user's progress row, creating a fresh one on first
// activity.
func (r *ProgressRepository) GetOrCreate(userID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.db.Where("user_id = ?", userID).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	progress = model.UserProgress{UserID: userID, CurrentLevel: 1}
	if err := r.db.Create(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Save(progress *model.UserProgress) error {
	return r.db.Save(progress).Error
}

func (r *ProgressRepository) SetCurrentLevel(userID uint, level int) error {
	return r.db.Model(&model.UserProgress{}).
		Where("user_id = ?", userID).
		Update("current_level", level).Error
}

func (r *ProgressRepository) TopByXP(limit int) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	err := r.db.Order("total_xp DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProgressRepository) ListAchievements() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.db.Where("is_active = ?", true).Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *ProgressRepository) ListUserAchievements(userID uint) ([]model.UserAchievement, error) {
	var earned []model.UserAchievement
	err := r.db.Preload("Achievement").Where("user_id = ?", userID).Find(&earned).Error
	if err != nil {
		return nil, err
	}
	return earned, nil
}

func (r *ProgressRepository) GrantAchievement(userID, achievementID uint, at time.Time) error {
	return r.db.Create(&model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      at,
	}).Error
}
