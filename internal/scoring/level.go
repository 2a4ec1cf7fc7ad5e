package scoring

import (
	"math"

	"cquest_backend/internal/model"
)

const (
	MinLevel = 1
	MaxLevel = 10
)

// Accuracy bands for the estimate adjustment. Three bands, no interpolation:
// high accuracy rounds the estimate up toward mastery, low accuracy pulls it
// down.
const (
	masteryAccuracy  = 0.85
	passableAccuracy = 0.5

	masteryFactor  = 1.1
	neutralFactor  = 1.0
	struggleFactor = 0.8
)

// CalculateLevel derives the recommended starting level and skill label from a
// scored batch. It is a pure function of the batch: any prior skill profile is
// advisory for downstream smoothing only and never alters this output.
//
// The level estimate is the mean expected level of the correctly answered
// questions (level 1 when nothing was correct), scaled by the accuracy band
// factor, rounded, and clamped to [1,10]. The skill label depends on overall
// accuracy alone. An empty batch is a degenerate-but-valid input and yields
// level 1, complete_beginner.
func CalculateLevel(scored []ScoredAnswer) (int, model.SkillLabel) {
	if len(scored) == 0 {
		return MinLevel, model.CompleteBeginner
	}

	correct := 0
	levelSum := 0
	for _, s := range scored {
		if s.Correct {
			correct++
			levelSum += s.ExpectedLevel
		}
	}
	accuracy := float64(correct) / float64(len(scored))

	estimate := float64(MinLevel)
	if correct > 0 {
		estimate = float64(levelSum) / float64(correct)
	}

	level := int(math.Round(estimate * accuracyFactor(accuracy)))
	if level < MinLevel {
		level = MinLevel
	} else if level > MaxLevel {
		level = MaxLevel
	}

	return level, SkillLabelFor(accuracy)
}

func accuracyFactor(accuracy float64) float64 {
	switch {
	case accuracy >= masteryAccuracy:
		return masteryFactor
	case accuracy >= passableAccuracy:
		return neutralFactor
	default:
		return struggleFactor
	}
}

// SkillLabelFor maps overall accuracy to its categorical label. Band lower
// bounds are inclusive: exactly 0.4 is intermediate, exactly 0.2 is beginner.
func SkillLabelFor(accuracy float64) model.SkillLabel {
	switch {
	case accuracy < 0.2:
		return model.CompleteBeginner
	case accuracy < 0.4:
		return model.Beginner
	case accuracy < 0.65:
		return model.Intermediate
	case accuracy < 0.85:
		return model.Advanced
	default:
		return model.Expert
	}
}
