package scoring

import (
	"testing"

	"cquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func question(id uint, qt model.QuestionType, topic model.TopicArea, level int, answer string) *model.AssessmentQuestion {
	q := &model.AssessmentQuestion{
		QuestionText:  "q",
		QuestionType:  qt,
		TopicArea:     topic,
		ExpectedLevel: level,
		CorrectAnswer: answer,
		IsActive:      true,
	}
	q.ID = id
	return q
}

func TestEvaluateMultipleChoice(t *testing.T) {
	q := question(1, model.MultipleChoice, model.TopicBasics, 1, "int x = 5;")

	tests := []struct {
		name    string
		raw     string
		correct bool
	}{
		{"exact match", "int x = 5;", true},
		{"surrounding whitespace trimmed", "  int x = 5;\n", true},
		{"case sensitive", "INT x = 5;", false},
		{"internal whitespace not collapsed", "int  x = 5;", false},
		{"empty answer incorrect", "", false},
		{"wrong option", "int x = 6;", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scored := Evaluate(q, SubmittedAnswer{QuestionID: 1, Raw: tt.raw, Confidence: 3})
			assert.Equal(t, tt.correct, scored.Correct)
			assert.Equal(t, model.TopicBasics, scored.Topic)
			assert.Equal(t, 1, scored.ExpectedLevel)
		})
	}
}

func TestEvaluateFreeText(t *testing.T) {
	q := question(2, model.FreeText, model.TopicPointers, 8, "dangling pointer")

	tests := []struct {
		name    string
		raw     string
		correct bool
	}{
		{"exact", "dangling pointer", true},
		{"case insensitive", "Dangling POINTER", true},
		{"whitespace collapsed", "  dangling \t pointer ", true},
		{"different words", "wild pointer", false},
		{"empty", "", false},
		{"extra words", "a dangling pointer", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scored := Evaluate(q, SubmittedAnswer{QuestionID: 2, Raw: tt.raw, Confidence: 4})
			assert.Equal(t, tt.correct, scored.Correct)
		})
	}
}

func TestEvaluateConfidenceDefaultsToMidpoint(t *testing.T) {
	q := question(3, model.FreeText, model.TopicLoops, 4, "while")

	scored := Evaluate(q, SubmittedAnswer{QuestionID: 3, Raw: "while"})
	assert.Equal(t, DefaultConfidence, scored.Confidence)

	scored = Evaluate(q, SubmittedAnswer{QuestionID: 3, Raw: "while", Confidence: 9})
	assert.Equal(t, DefaultConfidence, scored.Confidence)

	scored = Evaluate(q, SubmittedAnswer{QuestionID: 3, Raw: "while", Confidence: 5})
	assert.Equal(t, 5, scored.Confidence)
}

func TestEvaluateDoesNotMutateInputs(t *testing.T) {
	q := question(4, model.MultipleChoice, model.TopicArrays, 6, "a[0]")
	a := SubmittedAnswer{QuestionID: 4, Raw: "  a[0] ", Confidence: 2}

	_ = Evaluate(q, a)

	assert.Equal(t, "  a[0] ", a.Raw)
	assert.Equal(t, "a[0]", q.CorrectAnswer)
}
