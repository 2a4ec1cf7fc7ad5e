package scoring

import (
	"fmt"
	"sort"

	"cquest_backend/internal/model"
)

// reviewThreshold marks a topic as needing review.
const reviewThreshold = 0.6

var headlines = map[model.SkillLabel]string{
	model.CompleteBeginner: "You're just getting started: begin with C fundamentals like variables, types and simple I/O.",
	model.Beginner:         "You know some basics: build a routine around control flow, operators and small practice programs.",
	model.Intermediate:     "Solid foundations: time to master functions, arrays and string handling.",
	model.Advanced:         "Strong C knowledge: dig into pointers, memory management and larger projects.",
	model.Expert:           "Expert-level results: explore systems programming, optimization and advanced C idioms.",
}

var topicAdvice = map[model.TopicArea]string{
	model.TopicBasics:    "fundamental concepts like program structure and I/O",
	model.TopicVariables: "variables and data types",
	model.TopicOperators: "operators and expressions",
	model.TopicLoops:     "loop-based problems and iteration",
	model.TopicFunctions: "function design and modular programming",
	model.TopicArrays:    "array manipulation and indexing",
	model.TopicStrings:   "string handling and buffer care",
	model.TopicPointers:  "pointer concepts and address arithmetic",
	model.TopicMemory:    "dynamic allocation and memory management",
}

// Generate builds the ordered recommendation list for a result: a headline for
// the skill label, one review line per weak topic ordered weakest first (ties
// broken by canonical topic order), or a single congratulatory line when no
// topic is weak, and a closing line naming the starting level. Template-based
// and deterministic; no I/O.
func Generate(breakdown map[model.TopicArea]model.TopicBreakdown, label model.SkillLabel, level int) []string {
	recs := []string{headlines[label]}

	weak := make([]model.TopicArea, 0, len(breakdown))
	for topic, entry := range breakdown {
		if entry.Accuracy < reviewThreshold {
			weak = append(weak, topic)
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		ai, aj := breakdown[weak[i]].Accuracy, breakdown[weak[j]].Accuracy
		if ai != aj {
			return ai < aj
		}
		return model.TopicRank(weak[i]) < model.TopicRank(weak[j])
	})

	for _, topic := range weak {
		advice := topicAdvice[topic]
		if advice == "" {
			advice = string(topic)
		}
		recs = append(recs, fmt.Sprintf("Review %s: your accuracy in %s was %.0f%%. Spend extra time on %s.",
			string(topic), string(topic), breakdown[topic].Accuracy*100, advice))
	}
	if len(weak) == 0 && len(breakdown) > 0 {
		recs = append(recs, "Great coverage: no topic fell below the review threshold. Keep challenging yourself.")
	}

	switch {
	case level <= 3:
		recs = append(recs, fmt.Sprintf("You're ready to start at Level %d. Take your time with the fundamentals.", level))
	case level <= 6:
		recs = append(recs, fmt.Sprintf("Great progress. Starting at Level %d will challenge you appropriately.", level))
	default:
		recs = append(recs, fmt.Sprintf("Excellent. You can skip ahead to Level %d and tackle advanced topics.", level))
	}

	return recs
}
