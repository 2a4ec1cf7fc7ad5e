// Package scoring implements the assessment scoring core: answer evaluation,
// per-topic aggregation, level calculation and recommendation text. Every
// function is pure and operates on caller-supplied data only, so the package
// is safe to call from any number of concurrent requests without locking.
package scoring

import (
	"strings"

	"cquest_backend/internal/model"
)

// SubmittedAnswer is one answer of a submission batch. Confidence defaults to
// the midpoint of the 1..5 scale when the client omits it; TimeTakenSeconds is
// nil when no timing was reported.
type SubmittedAnswer struct {
	QuestionID       uint
	Raw              string
	Confidence       int
	TimeTakenSeconds *float64
}

// ScoredAnswer is a SubmittedAnswer joined with its correctness verdict and
// the question's topic and expected level. It exists only for the duration of
// a scoring pass.
type ScoredAnswer struct {
	QuestionID       uint
	Raw              string
	Topic            model.TopicArea
	ExpectedLevel    int
	Correct          bool
	Confidence       int
	TimeTakenSeconds *float64
}

const DefaultConfidence = 3

// Evaluate scores a single answer against its question. An empty raw answer is
// simply incorrect. The input is never mutated and the verdict is
// deterministic.
//
// Multiple-choice answers are compared case-sensitively after trimming the
// raw answer's surrounding whitespace: choice values are rendered verbatim
// from the option set, so trimming covers incidental whitespace without
// risking accidental partial matches. Free-text answers are compared
// case-insensitively with internal whitespace runs collapsed. No fuzzy
// matching, no partial credit.
func Evaluate(q *model.AssessmentQuestion, a SubmittedAnswer) ScoredAnswer {
	scored := ScoredAnswer{
		QuestionID:       a.QuestionID,
		Raw:              a.Raw,
		Topic:            q.TopicArea,
		ExpectedLevel:    q.ExpectedLevel,
		Confidence:       a.Confidence,
		TimeTakenSeconds: a.TimeTakenSeconds,
	}
	if scored.Confidence < 1 || scored.Confidence > 5 {
		scored.Confidence = DefaultConfidence
	}

	switch q.QuestionType {
	case model.MultipleChoice:
		scored.Correct = strings.TrimSpace(a.Raw) == q.CorrectAnswer
	default:
		scored.Correct = NormalizeFreeText(a.Raw) == NormalizeFreeText(q.CorrectAnswer)
	}
	return scored
}

// NormalizeFreeText lowercases, trims, and collapses internal whitespace runs
// to a single space. Shared with lesson quiz grading so both surfaces accept
// the same formatting slack.
func NormalizeFreeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
