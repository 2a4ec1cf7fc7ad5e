package scoring

import (
	"testing"

	"cquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestCalculateLevelEmptyBatch(t *testing.T) {
	level, label := CalculateLevel(nil)
	assert.Equal(t, 1, level)
	assert.Equal(t, model.CompleteBeginner, label)
}

func TestCalculateLevelPerfectSmallBatch(t *testing.T) {
	// Two questions, both correct: estimate (1+5)/2 = 3, accuracy 1.0 lands in
	// the mastery band (factor 1.1), round(3.3) = 3, label expert.
	scored := []ScoredAnswer{
		{Topic: model.TopicBasics, ExpectedLevel: 1, Correct: true, Confidence: 3},
		{Topic: model.TopicPointers, ExpectedLevel: 5, Correct: true, Confidence: 3},
	}

	level, label := CalculateLevel(scored)
	assert.Equal(t, 3, level)
	assert.Equal(t, model.Expert, label)
}

func TestCalculateLevelLowAccuracyHighDifficulty(t *testing.T) {
	// Five level-8 pointer questions, one correct: estimate 8 (only correct
	// answers count), accuracy 0.2 pulls down (factor 0.8), round(6.4) = 6.
	// Accuracy exactly 0.2 sits on the inclusive lower bound of the beginner
	// band.
	scored := []ScoredAnswer{
		{Topic: model.TopicPointers, ExpectedLevel: 8, Correct: true, Confidence: 3},
		{Topic: model.TopicPointers, ExpectedLevel: 8, Correct: false, Confidence: 3},
		{Topic: model.TopicPointers, ExpectedLevel: 8, Correct: false, Confidence: 3},
		{Topic: model.TopicPointers, ExpectedLevel: 8, Correct: false, Confidence: 3},
		{Topic: model.TopicPointers, ExpectedLevel: 8, Correct: false, Confidence: 3},
	}

	level, label := CalculateLevel(scored)
	assert.Equal(t, 6, level)
	assert.Equal(t, model.Beginner, label)
}

func TestCalculateLevelNoCorrectAnswers(t *testing.T) {
	scored := []ScoredAnswer{
		{Topic: model.TopicMemory, ExpectedLevel: 9, Correct: false, Confidence: 1},
		{Topic: model.TopicMemory, ExpectedLevel: 9, Correct: false, Confidence: 1},
	}

	level, label := CalculateLevel(scored)
	assert.Equal(t, 1, level)
	assert.Equal(t, model.CompleteBeginner, label)
}

func TestCalculateLevelClampedToMax(t *testing.T) {
	// All level-10 questions correct: estimate 10, factor 1.1 would give 11;
	// result must clamp to 10.
	var scored []ScoredAnswer
	for i := 0; i < 4; i++ {
		scored = append(scored, ScoredAnswer{Topic: model.TopicMemory, ExpectedLevel: 10, Correct: true, Confidence: 5})
	}

	level, label := CalculateLevel(scored)
	assert.Equal(t, 10, level)
	assert.Equal(t, model.Expert, label)
}

func TestCalculateLevelBoundsProperty(t *testing.T) {
	batches := [][]ScoredAnswer{
		nil,
		{{Topic: model.TopicBasics, ExpectedLevel: 1, Correct: false}},
		{{Topic: model.TopicBasics, ExpectedLevel: 1, Correct: true}},
		{
			{Topic: model.TopicLoops, ExpectedLevel: 4, Correct: true},
			{Topic: model.TopicArrays, ExpectedLevel: 6, Correct: false},
			{Topic: model.TopicStrings, ExpectedLevel: 7, Correct: true},
		},
	}

	for _, batch := range batches {
		level, _ := CalculateLevel(batch)
		assert.GreaterOrEqual(t, level, MinLevel)
		assert.LessOrEqual(t, level, MaxLevel)
	}
}

func TestAccuracyFactorBands(t *testing.T) {
	tests := []struct {
		accuracy float64
		factor   float64
	}{
		{1.0, 1.1},
		{0.85, 1.1},
		{0.849, 1.0},
		{0.5, 1.0},
		{0.499, 0.8},
		{0.0, 0.8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.factor, accuracyFactor(tt.accuracy), "accuracy %v", tt.accuracy)
	}
}

func TestSkillLabelBandsInclusiveLowerBounds(t *testing.T) {
	tests := []struct {
		accuracy float64
		label    model.SkillLabel
	}{
		{0.0, model.CompleteBeginner},
		{0.19, model.CompleteBeginner},
		{0.2, model.Beginner},
		{0.39, model.Beginner},
		{0.4, model.Intermediate},
		{0.64, model.Intermediate},
		{0.65, model.Advanced},
		{0.84, model.Advanced},
		{0.85, model.Expert},
		{1.0, model.Expert},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, SkillLabelFor(tt.accuracy), "accuracy %v", tt.accuracy)
	}
}
