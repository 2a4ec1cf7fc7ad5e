package service

import (
	"errors"
	"math"

	"cquest_backend/internal/model"
	"cquest_backend/internal/scoring"
	"cquest_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Smoothing weight for new observations. One assessment moves the rolling
// state by 30%, so a single bad day cannot erase accumulated mastery.
const masteryAlpha = 0.3

// AdaptiveService maintains the rolling per-user skill profile. It consumes
// finished assessment results; it never participates in scoring them.
type AdaptiveService struct {
	store AssessmentStore
}

func NewAdaptiveService(store AssessmentStore) *AdaptiveService {
	return &AdaptiveService{store: store}
}

// ApplyResult folds a completed assessment into the user's profile with
// exponential smoothing. First observations are taken as-is.
func (s *AdaptiveService) ApplyResult(userID uint, res *model.AssessmentResult) error {
	profile, err := s.store.GetProfile(userID)
	fresh := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		fresh = true
		profile = &model.UserSkillProfile{
			UserID:           userID,
			AdaptiveLevel:    scoring.MinLevel,
			LearningVelocity: 1.0,
		}
	}

	mastery := profile.Mastery()
	for topic, tb := range res.TopicBreakdown {
		if prev, ok := mastery[topic]; ok {
			mastery[topic] = masteryAlpha*tb.Accuracy + (1-masteryAlpha)*prev
		} else {
			mastery[topic] = tb.Accuracy
		}
	}
	if err := profile.SetMastery(mastery); err != nil {
		return err
	}

	prevLevel := profile.AdaptiveLevel
	if fresh {
		profile.AdaptiveLevel = res.CalculatedLevel
	} else {
		smoothed := masteryAlpha*float64(res.CalculatedLevel) + (1-masteryAlpha)*float64(prevLevel)
		profile.AdaptiveLevel = clampLevel(int(math.Round(smoothed)))
		profile.LearningVelocity = masteryAlpha*float64(res.CalculatedLevel-prevLevel) + (1-masteryAlpha)*profile.LearningVelocity
	}

	overallAccuracy := 0.0
	if res.TotalQuestions > 0 {
		overallAccuracy = float64(res.CorrectAnswers) / float64(res.TotalQuestions)
	}
	profile.OverallSkillLevel = res.SkillLevel
	profile.PrefersChallenge = overallAccuracy >= 0.85
	profile.NeedsMorePractice = overallAccuracy < 0.5

	if err := s.store.SaveProfile(profile); err != nil {
		return err
	}

	logger.Log.Debug("skill profile updated",
		zap.Uint("user_id", userID),
		zap.Int("adaptive_level", profile.AdaptiveLevel),
		zap.String("overall", string(profile.OverallSkillLevel)),
	)
	return nil
}

// RecommendedLevel is the difficulty the lesson catalog should open at.
func (s *AdaptiveService) RecommendedLevel(userID uint) int {
	profile, err := s.store.GetProfile(userID)
	if err != nil {
		return scoring.MinLevel
	}
	return profile.AdaptiveLevel
}

// WeakTopics lists topics whose rolling mastery sits below the review
// threshold, in canonical curriculum order.
func (s *AdaptiveService) WeakTopics(userID uint) []model.TopicArea {
	profile, err := s.store.GetProfile(userID)
	if err != nil {
		return nil
	}

	var weak []model.TopicArea
	mastery := profile.Mastery()
	for _, topic := range model.TopicOrder {
		if acc, ok := mastery[topic]; ok && acc < 0.6 {
			weak = append(weak, topic)
		}
	}
	return weak
}

func clampLevel(level int) int {
	if level < scoring.MinLevel {
		return scoring.MinLevel
	}
	if level > scoring.MaxLevel {
		return scoring.MaxLevel
	}
	return level
}
