package scoring

import (
	"sort"

	"cquest_backend/internal/model"
)

// Aggregate groups scored answers by topic area. Topics absent from the batch
// never appear in the output; a topic is present iff it has at least one
// attempt, so accuracy is always correct/attempted with attempted >= 1.
func Aggregate(scored []ScoredAnswer) map[model.TopicArea]model.TopicBreakdown {
	type acc struct {
		attempted  int
		correct    int
		confidence int
		time       float64
		timed      int
	}
	accs := map[model.TopicArea]*acc{}
	for _, s := range scored {
		a := accs[s.Topic]
		if a == nil {
			a = &acc{}
			accs[s.Topic] = a
		}
		a.attempted++
		if s.Correct {
			a.correct++
		}
		a.confidence += s.Confidence
		if s.TimeTakenSeconds != nil {
			a.time += *s.TimeTakenSeconds
			a.timed++
		}
	}

	breakdown := make(map[model.TopicArea]model.TopicBreakdown, len(accs))
	for topic, a := range accs {
		entry := model.TopicBreakdown{
			Attempted:     a.attempted,
			Correct:       a.correct,
			Accuracy:      float64(a.correct) / float64(a.attempted),
			AvgConfidence: float64(a.confidence) / float64(a.attempted),
		}
		if a.timed > 0 {
			t := a.time
			entry.TotalTimeSeconds = &t
		}
		breakdown[topic] = entry
	}
	return breakdown
}

// SortedTopics returns the breakdown's topics in canonical topic order, so
// consumers iterate deterministically.
func SortedTopics(breakdown map[model.TopicArea]model.TopicBreakdown) []model.TopicArea {
	topics := make([]model.TopicArea, 0, len(breakdown))
	for t := range breakdown {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		ri, rj := model.TopicRank(topics[i]), model.TopicRank(topics[j])
		if ri != rj {
			return ri < rj
		}
		return topics[i] < topics[j]
	})
	return topics
}
