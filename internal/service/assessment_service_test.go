package service

import (
	"sync"
	"testing"

	"cquest_backend/internal/config"
	"cquest_backend/internal/model"
	"cquest_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultBank() *fakeBank {
	return bankOf(
		bankSpec{model.MultipleChoice, model.TopicBasics, 1, "Which function prints to the console?", "printf"},
		bankSpec{model.FreeText, model.TopicVariables, 2, "Keyword for a signed integer?", "int"},
		bankSpec{model.MultipleChoice, model.TopicLoops, 3, "Loop that runs at least once?", "do-while"},
		bankSpec{model.FreeText, model.TopicFunctions, 5, "A function calling itself is called?", "recursion"},
		bankSpec{model.MultipleChoice, model.TopicPointers, 7, "Dereferencing NULL is?", "undefined behavior"},
		bankSpec{model.FreeText, model.TopicMemory, 9, "Function that releases heap memory?", "free"},
	)
}

func newTestService(bank *fakeBank, store *fakeStore) *AssessmentService {
	cfg := config.AssessmentConfig{QuestionCount: 6, MinQuestions: 5}
	return NewAssessmentService(bank, store, cfg, NewAdaptiveService(store), nil)
}

func TestStartIssuesBatch(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(defaultBank(), store)

	started, err := svc.Start(7, "")
	require.NoError(t, err)

	assert.NotEmpty(t, started.SessionID)
	assert.Equal(t, "initial", started.AssessmentType)
	assert.Len(t, started.Questions, 6)

	session, err := store.GetSessionBySessionID(started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), session.UserID)
	assert.Equal(t, "in_progress", session.Status)
	assert.Len(t, session.IssuedQuestionIDs(), 6)
}

func TestStartFailsWhenBankTooSmall(t *testing.T) {
	bank := bankOf(
		bankSpec{model.MultipleChoice, model.TopicBasics, 1, "q1", "a"},
		bankSpec{model.MultipleChoice, model.TopicBasics, 1, "q2", "b"},
	)
	svc := newTestService(bank, newFakeStore())

	_, err := svc.Start(1, "")
	assert.ErrorIs(t, err, util.ErrNoQuestionsAvailable)
}

func TestSubmitScoresAndPersists(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(defaultBank(), store)

	started, err := svc.Start(1, "")
	require.NoError(t, err)

	answers := []AnswerSubmission{
		{QuestionID: 1, Answer: "printf", ConfidenceLevel: 4},
		{QuestionID: 2, Answer: "  INT ", ConfidenceLevel: 3},
		{QuestionID: 3, Answer: "while", ConfidenceLevel: 2},
		{QuestionID: 4, Answer: "recursion", ConfidenceLevel: 5},
		{QuestionID: 5, Answer: "undefined behavior", ConfidenceLevel: 3},
		{QuestionID: 6, Answer: "malloc", ConfidenceLevel: 1},
	}

	result, err := svc.Submit(1, started.SessionID, answers)
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalQuestions)
	assert.Equal(t, 4, result.CorrectAnswers)
	assert.InDelta(t, 66.7, result.AccuracyPercentage, 0.001)
	assert.NotEmpty(t, result.Recommendations)

	session, err := store.GetSessionBySessionID(started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "completed", session.Status)
	assert.NotNil(t, session.CompletedAt)
	assert.Len(t, store.responses[session.ID], 6)

	// The adaptive profile picks up the assessed level.
	profile, err := store.GetProfile(1)
	require.NoError(t, err)
	assert.Equal(t, result.CalculatedLevel, profile.AdaptiveLevel)
	assert.Equal(t, result.SkillLevel, profile.OverallSkillLevel)
}

func TestSubmitRejectsUnknownQuestion(t *testing.T) {
	svc := newTestService(defaultBank(), newFakeStore())

	started, err := svc.Start(1, "")
	require.NoError(t, err)

	_, err = svc.Submit(1, started.SessionID, []AnswerSubmission{
		{QuestionID: 999, Answer: "printf"},
	})
	assert.ErrorIs(t, err, util.ErrUnknownQuestionReference)
}

func TestSubmitRejectsDuplicateAnswer(t *testing.T) {
	svc := newTestService(defaultBank(), newFakeStore())

	started, err := svc.Start(1, "")
	require.NoError(t, err)

	_, err = svc.Submit(1, started.SessionID, []AnswerSubmission{
		{QuestionID: 1, Answer: "printf"},
		{QuestionID: 1, Answer: "puts"},
	})
	assert.ErrorIs(t, err, util.ErrDuplicateAnswer)
}

func TestSubmitTwiceFails(t *testing.T) {
	svc := newTestService(defaultBank(), newFakeStore())

	started, err := svc.Start(1, "")
	require.NoError(t, err)

	answers := []AnswerSubmission{{QuestionID: 1, Answer: "printf"}}
	_, err = svc.Submit(1, started.SessionID, answers)
	require.NoError(t, err)

	_, err = svc.Submit(1, started.SessionID, answers)
	assert.ErrorIs(t, err, util.ErrAlreadySubmitted)
}

func TestSubmitConcurrentOneWinner(t *testing.T) {
	svc := newTestService(defaultBank(), newFakeStore())

	started, err := svc.Start(1, "")
	require.NoError(t, err)

	answers := []AnswerSubmission{{QuestionID: 1, Answer: "printf"}}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Submit(1, started.SessionID, answers)
		}(i)
	}
	wg.Wait()

	winners, losers := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case assert.ErrorIs(t, err, util.ErrAlreadySubmitted):
			losers++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, losers)
}

func TestSubmitForeignSessionNotFound(t *testing.T) {
	svc := newTestService(defaultBank(), newFakeStore())

	started, err := svc.Start(1, "")
	require.NoError(t, err)

	_, err = svc.Submit(2, started.SessionID, []AnswerSubmission{{QuestionID: 1, Answer: "printf"}})
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)
}

func TestSubmitMissingSessionNotFound(t *testing.T) {
	svc := newTestService(defaultBank(), newFakeStore())

	_, err := svc.Submit(1, "no-such-session", nil)
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)
}

func TestSubmitEmptyAnswerBatch(t *testing.T) {
	// Submitting nothing is allowed: every issued question counts as
	// unanswered and the result lands at the floor.
	svc := newTestService(defaultBank(), newFakeStore())

	started, err := svc.Start(1, "")
	require.NoError(t, err)

	result, err := svc.Submit(1, started.SessionID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalQuestions)
	assert.Equal(t, 1, result.CalculatedLevel)
	assert.Equal(t, model.CompleteBeginner, result.SkillLevel)
}

func TestResultHidesInProgressSessions(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(defaultBank(), store)

	started, err := svc.Start(1, "")
	require.NoError(t, err)

	session, err := store.GetSessionBySessionID(started.SessionID)
	require.NoError(t, err)

	_, err = svc.Result(1, session.ID)
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)
}

func TestResultRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(defaultBank(), store)

	started, err := svc.Start(1, "")
	require.NoError(t, err)

	submitted, err := svc.Submit(1, started.SessionID, []AnswerSubmission{
		{QuestionID: 1, Answer: "printf"},
		{QuestionID: 3, Answer: "do-while"},
	})
	require.NoError(t, err)

	fetched, err := svc.Result(1, submitted.AssessmentID)
	require.NoError(t, err)
	assert.Equal(t, submitted.CalculatedLevel, fetched.CalculatedLevel)
	assert.Equal(t, submitted.SkillLevel, fetched.SkillLevel)
	assert.Equal(t, submitted.TopicBreakdown, fetched.TopicBreakdown)
	assert.Equal(t, submitted.Recommendations, fetched.Recommendations)
}

func TestProfileDefaultsWhenMissing(t *testing.T) {
	svc := newTestService(defaultBank(), newFakeStore())

	profile, err := svc.Profile(42)
	require.NoError(t, err)
	assert.Equal(t, uint(42), profile.UserID)
	assert.Equal(t, model.CompleteBeginner, profile.OverallSkillLevel)
	assert.Equal(t, 1, profile.AdaptiveLevel)
}
