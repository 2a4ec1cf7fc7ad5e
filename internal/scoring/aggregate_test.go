package scoring

import (
	"testing"

	"cquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateGroupsByTopic(t *testing.T) {
	sec30 := 30.0
	sec45 := 45.0
	scored := []ScoredAnswer{
		{QuestionID: 1, Topic: model.TopicBasics, Correct: true, Confidence: 4, TimeTakenSeconds: &sec30},
		{QuestionID: 2, Topic: model.TopicBasics, Correct: false, Confidence: 2, TimeTakenSeconds: &sec45},
		{QuestionID: 3, Topic: model.TopicPointers, Correct: true, Confidence: 3},
	}

	breakdown := Aggregate(scored)
	require.Len(t, breakdown, 2)

	basics := breakdown[model.TopicBasics]
	assert.Equal(t, 2, basics.Attempted)
	assert.Equal(t, 1, basics.Correct)
	assert.Equal(t, 0.5, basics.Accuracy)
	assert.Equal(t, 3.0, basics.AvgConfidence)
	require.NotNil(t, basics.TotalTimeSeconds)
	assert.Equal(t, 75.0, *basics.TotalTimeSeconds)

	pointers := breakdown[model.TopicPointers]
	assert.Equal(t, 1, pointers.Attempted)
	assert.Equal(t, 1, pointers.Correct)
	assert.Equal(t, 1.0, pointers.Accuracy)
	assert.Nil(t, pointers.TotalTimeSeconds)
}

func TestAggregateOmitsAbsentTopics(t *testing.T) {
	scored := []ScoredAnswer{
		{QuestionID: 1, Topic: model.TopicLoops, Correct: true, Confidence: 3},
	}

	breakdown := Aggregate(scored)
	require.Len(t, breakdown, 1)
	_, present := breakdown[model.TopicMemory]
	assert.False(t, present)
}

func TestAggregateEmptyBatch(t *testing.T) {
	breakdown := Aggregate(nil)
	assert.Empty(t, breakdown)
}

func TestAggregateAccuracyBounds(t *testing.T) {
	scored := []ScoredAnswer{
		{QuestionID: 1, Topic: model.TopicStrings, Correct: false, Confidence: 1},
		{QuestionID: 2, Topic: model.TopicStrings, Correct: false, Confidence: 1},
		{QuestionID: 3, Topic: model.TopicArrays, Correct: true, Confidence: 5},
	}

	for topic, entry := range Aggregate(scored) {
		assert.GreaterOrEqual(t, entry.Accuracy, 0.0, topic)
		assert.LessOrEqual(t, entry.Accuracy, 1.0, topic)
		assert.Equal(t, float64(entry.Correct)/float64(entry.Attempted), entry.Accuracy, topic)
	}
}

func TestSortedTopicsCanonicalOrder(t *testing.T) {
	breakdown := map[model.TopicArea]model.TopicBreakdown{
		model.TopicMemory:    {Attempted: 1},
		model.TopicBasics:    {Attempted: 1},
		model.TopicFunctions: {Attempted: 1},
	}

	assert.Equal(t,
		[]model.TopicArea{model.TopicBasics, model.TopicFunctions, model.TopicMemory},
		SortedTopics(breakdown))
}
