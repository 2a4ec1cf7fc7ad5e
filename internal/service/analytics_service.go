package service

import (
	"cquest_backend/internal/model"

	"gorm.io/gorm"
)

// AnalyticsService produces the admin console aggregates straight from SQL;
// none of these run on request hot paths.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

type PlatformStats struct {
	TotalUsers           int64   `json:"total_users"`
	ActiveSubscriptions  int64   `json:"active_subscriptions"`
	CompletedAssessments int64   `json:"completed_assessments"`
	AverageLevel         float64 `json:"average_level"`
	LessonsCompleted     int64   `json:"lessons_completed"`
	RevenueTotal         float64 `json:"revenue_total"`
}

func (s *AnalyticsService) PlatformStats() (*PlatformStats, error) {
	var stats PlatformStats

	if err := s.db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Subscription{}).
		Where("is_active = ? AND tier <> ?", true, model.TierFree).
		Count(&stats.ActiveSubscriptions).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.UserAssessment{}).
		Where("status = ?", "completed").
		Count(&stats.CompletedAssessments).Error; err != nil {
		return nil, err
	}
	if stats.CompletedAssessments > 0 {
		row := s.db.Model(&model.UserAssessment{}).
			Where("status = ?", "completed").
			Select("AVG(calculated_level)").Row()
		if err := row.Scan(&stats.AverageLevel); err != nil {
			return nil, err
		}
	}
	if err := s.db.Model(&model.UserLessonProgress{}).
		Where("is_completed = ?", true).
		Count(&stats.LessonsCompleted).Error; err != nil {
		return nil, err
	}
	row := s.db.Model(&model.Payment{}).
		Where("status = ?", model.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&stats.RevenueTotal); err != nil {
		return nil, err
	}

	return &stats, nil
}

type SkillDistributionEntry struct {
	SkillLevel model.SkillLabel `json:"skill_level"`
	Count      int64            `json:"count"`
}

// SkillDistribution counts users by the skill label of their latest profile.
func (s *AnalyticsService) SkillDistribution() ([]SkillDistributionEntry, error) {
	var entries []SkillDistributionEntry
	err := s.db.Model(&model.UserSkillProfile{}).
		Select("overall_skill_level AS skill_level, COUNT(*) AS count").
		Group("overall_skill_level").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

type TopicDifficultyEntry struct {
	TopicArea model.TopicArea `json:"topic_area"`
	Attempted int64           `json:"attempted"`
	Correct   int64           `json:"correct"`
	Accuracy  float64         `json:"accuracy"`
}

// TopicDifficulty aggregates bank-wide response accuracy per topic, the
// content team's signal for which topics need easier material.
func (s *AnalyticsService) TopicDifficulty() ([]TopicDifficultyEntry, error) {
	var entries []TopicDifficultyEntry
	err := s.db.Table("assessment_responses AS r").
		Select("q.topic_area AS topic_area, COUNT(*) AS attempted, SUM(r.is_correct) AS correct").
		Joins("JOIN assessment_questions q ON q.id = r.question_id").
		Group("q.topic_area").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].Attempted > 0 {
			entries[i].Accuracy = float64(entries[i].Correct) / float64(entries[i].Attempted)
		}
	}
	return entries, nil
}
