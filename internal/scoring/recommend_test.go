package scoring

import (
	"strings"
	"testing"

	"cquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWeakTopicsCalledOutWeakestFirst(t *testing.T) {
	breakdown := map[model.TopicArea]model.TopicBreakdown{
		model.TopicBasics:   {Attempted: 5, Correct: 2, Accuracy: 0.4},
		model.TopicLoops:    {Attempted: 5, Correct: 1, Accuracy: 0.2},
		model.TopicPointers: {Attempted: 10, Correct: 9, Accuracy: 0.9},
	}

	recs := Generate(breakdown, model.Intermediate, 4)
	require.Len(t, recs, 4) // headline + two reviews + closing

	assert.Equal(t, headlines[model.Intermediate], recs[0])
	assert.Contains(t, recs[1], "loops")
	assert.Contains(t, recs[2], "basics")
	assert.Contains(t, recs[3], "Level 4")

	for _, r := range recs {
		assert.NotContains(t, r, "pointers", "strong topic must not get a review call-out")
	}
}

func TestGenerateTieBrokenByCanonicalOrder(t *testing.T) {
	breakdown := map[model.TopicArea]model.TopicBreakdown{
		model.TopicMemory:    {Attempted: 2, Correct: 1, Accuracy: 0.5},
		model.TopicVariables: {Attempted: 2, Correct: 1, Accuracy: 0.5},
	}

	recs := Generate(breakdown, model.Beginner, 2)
	require.Len(t, recs, 4)
	assert.Contains(t, recs[1], "variables")
	assert.Contains(t, recs[2], "memory")
}

func TestGenerateAllTopicsStrong(t *testing.T) {
	breakdown := map[model.TopicArea]model.TopicBreakdown{
		model.TopicBasics:   {Attempted: 3, Correct: 3, Accuracy: 1.0},
		model.TopicPointers: {Attempted: 3, Correct: 2, Accuracy: 0.667},
	}

	recs := Generate(breakdown, model.Expert, 8)
	require.Len(t, recs, 3)
	assert.Contains(t, recs[1], "no topic fell below")
	assert.Contains(t, recs[2], "Level 8")
}

func TestGenerateEmptyBreakdown(t *testing.T) {
	recs := Generate(nil, model.CompleteBeginner, 1)
	require.Len(t, recs, 2)
	assert.Equal(t, headlines[model.CompleteBeginner], recs[0])
	assert.Contains(t, recs[1], "Level 1")
}

func TestGenerateClosingLineBands(t *testing.T) {
	for level, phrase := range map[int]string{
		1:  "Take your time",
		3:  "Take your time",
		4:  "challenge you appropriately",
		6:  "challenge you appropriately",
		7:  "skip ahead",
		10: "skip ahead",
	} {
		recs := Generate(nil, model.Intermediate, level)
		last := recs[len(recs)-1]
		assert.True(t, strings.Contains(last, phrase), "level %d: %q", level, last)
	}
}
