package service

import (
	"testing"

	"cquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWith(level int, label model.SkillLabel, breakdown map[model.TopicArea]model.TopicBreakdown, correct, total int) *model.AssessmentResult {
	return &model.AssessmentResult{
		TotalQuestions:  total,
		CorrectAnswers:  correct,
		CalculatedLevel: level,
		SkillLevel:      label,
		TopicBreakdown:  breakdown,
	}
}

func TestApplyResultFirstObservation(t *testing.T) {
	store := newFakeStore()
	svc := NewAdaptiveService(store)

	err := svc.ApplyResult(1, resultWith(5, model.Intermediate, map[model.TopicArea]model.TopicBreakdown{
		model.TopicLoops:    {Attempted: 2, Correct: 2, Accuracy: 1.0},
		model.TopicPointers: {Attempted: 2, Correct: 0, Accuracy: 0.0},
	}, 1, 4))
	require.NoError(t, err)

	profile, err := store.GetProfile(1)
	require.NoError(t, err)

	// First observation is taken as-is, no smoothing against defaults.
	assert.Equal(t, 5, profile.AdaptiveLevel)
	assert.Equal(t, model.Intermediate, profile.OverallSkillLevel)
	mastery := profile.Mastery()
	assert.Equal(t, 1.0, mastery[model.TopicLoops])
	assert.Equal(t, 0.0, mastery[model.TopicPointers])
	assert.True(t, profile.NeedsMorePractice)
	assert.False(t, profile.PrefersChallenge)
}

func TestApplyResultSmoothsTowardNewResult(t *testing.T) {
	store := newFakeStore()
	svc := NewAdaptiveService(store)

	first := resultWith(4, model.Intermediate, map[model.TopicArea]model.TopicBreakdown{
		model.TopicLoops: {Attempted: 2, Correct: 2, Accuracy: 1.0},
	}, 6, 10)
	require.NoError(t, svc.ApplyResult(1, first))

	second := resultWith(8, model.Expert, map[model.TopicArea]model.TopicBreakdown{
		model.TopicLoops: {Attempted: 2, Correct: 0, Accuracy: 0.0},
	}, 9, 10)
	require.NoError(t, svc.ApplyResult(1, second))

	profile, err := store.GetProfile(1)
	require.NoError(t, err)

	// 0.3*8 + 0.7*4 = 5.2, rounds to 5. One bad topic run drags mastery to
	// 0.7, not to zero.
	assert.Equal(t, 5, profile.AdaptiveLevel)
	assert.InDelta(t, 0.7, profile.Mastery()[model.TopicLoops], 1e-9)
	assert.Equal(t, model.Expert, profile.OverallSkillLevel)
	assert.True(t, profile.PrefersChallenge)
}

func TestWeakTopicsCanonicalOrder(t *testing.T) {
	store := newFakeStore()
	svc := NewAdaptiveService(store)

	err := svc.ApplyResult(1, resultWith(3, model.Intermediate, map[model.TopicArea]model.TopicBreakdown{
		model.TopicMemory:    {Attempted: 2, Correct: 0, Accuracy: 0.0},
		model.TopicBasics:    {Attempted: 2, Correct: 1, Accuracy: 0.5},
		model.TopicFunctions: {Attempted: 2, Correct: 2, Accuracy: 1.0},
	}, 3, 6))
	require.NoError(t, err)

	weak := svc.WeakTopics(1)
	assert.Equal(t, []model.TopicArea{model.TopicBasics, model.TopicMemory}, weak)
}

func TestRecommendedLevelDefaultsToFloor(t *testing.T) {
	svc := NewAdaptiveService(newFakeStore())
	assert.Equal(t, 1, svc.RecommendedLevel(99))
}
