package scoring

import (
	"encoding/json"
	"testing"

	"cquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreFixture() (map[uint]*model.AssessmentQuestion, []SubmittedAnswer) {
	questions := map[uint]*model.AssessmentQuestion{
		1: question(1, model.MultipleChoice, model.TopicBasics, 1, "printf"),
		2: question(2, model.FreeText, model.TopicLoops, 4, "for"),
		3: question(3, model.FreeText, model.TopicPointers, 8, "segmentation fault"),
	}
	sec := 20.0
	answers := []SubmittedAnswer{
		{QuestionID: 1, Raw: "printf", Confidence: 5, TimeTakenSeconds: &sec},
		{QuestionID: 2, Raw: "FOR ", Confidence: 4},
		{QuestionID: 3, Raw: "stack overflow", Confidence: 1},
	}
	return questions, answers
}

func TestScoreComposesPipeline(t *testing.T) {
	questions, answers := scoreFixture()

	res, scored := Score(questions, answers)
	require.Len(t, scored, 3)

	assert.Equal(t, 3, res.TotalQuestions)
	assert.Equal(t, 2, res.CorrectAnswers)
	assert.Equal(t, 66.7, res.AccuracyPercentage)
	require.NotNil(t, res.TimeTakenMinutes)
	assert.InDelta(t, 20.0/60, *res.TimeTakenMinutes, 1e-9)
	assert.Len(t, res.TopicBreakdown, 3)
	assert.NotEmpty(t, res.Recommendations)
}

func TestScoreDeterministic(t *testing.T) {
	questions, answers := scoreFixture()

	first, _ := Score(questions, answers)
	second, _ := Score(questions, answers)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestScoreEmptySubmission(t *testing.T) {
	questions, _ := scoreFixture()

	res, scored := Score(questions, nil)
	assert.Empty(t, scored)
	assert.Equal(t, 0, res.TotalQuestions)
	assert.Equal(t, 0.0, res.AccuracyPercentage)
	assert.Equal(t, 1, res.CalculatedLevel)
	assert.Equal(t, model.CompleteBeginner, res.SkillLevel)
	assert.Nil(t, res.TimeTakenMinutes)
	assert.Empty(t, res.TopicBreakdown)
}

func TestResultRoundTripThroughInterchangeJSON(t *testing.T) {
	questions, answers := scoreFixture()
	res, _ := Score(questions, answers)
	res.AssessmentID = 42

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var back model.AssessmentResult
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, *res, back)
}
