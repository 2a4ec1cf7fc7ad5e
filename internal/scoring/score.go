package scoring

import (
	"math"

	"cquest_backend/internal/model"
)

// Score runs the full pipeline (evaluate, aggregate, calculate level,
// generate recommendations) over a submission batch and assembles the result
// (AssessmentID is left for the caller). Questions are looked up by answer
// question id; the caller has already validated that every id was issued.
//
// Repeated invocations over the same inputs produce identical results, which
// makes retry-by-recompute safe for the caller when persistence fails.
func Score(questions map[uint]*model.AssessmentQuestion, answers []SubmittedAnswer) (*model.AssessmentResult, []ScoredAnswer) {
	scored := make([]ScoredAnswer, 0, len(answers))
	for _, a := range answers {
		q := questions[a.QuestionID]
		if q == nil {
			continue
		}
		scored = append(scored, Evaluate(q, a))
	}

	breakdown := Aggregate(scored)
	level, label := CalculateLevel(scored)

	correct := 0
	totalTime := 0.0
	timed := false
	for _, s := range scored {
		if s.Correct {
			correct++
		}
		if s.TimeTakenSeconds != nil {
			totalTime += *s.TimeTakenSeconds
			timed = true
		}
	}

	accuracyPct := 0.0
	if len(scored) > 0 {
		accuracyPct = math.Round(float64(correct)/float64(len(scored))*1000) / 10
	}

	res := &model.AssessmentResult{
		TotalQuestions:     len(scored),
		CorrectAnswers:     correct,
		AccuracyPercentage: accuracyPct,
		CalculatedLevel:    level,
		SkillLevel:         label,
		TopicBreakdown:     breakdown,
		Recommendations:    Generate(breakdown, label, level),
	}
	if timed {
		minutes := totalTime / 60
		res.TimeTakenMinutes = &minutes
	}
	return res, scored
}
