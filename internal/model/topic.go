package model

// TopicArea is a fixed C-language subject tag used to group assessment
// questions and report mastery.
type TopicArea string

const (
	TopicBasics    TopicArea = "basics"
	TopicVariables TopicArea = "variables"
	TopicOperators TopicArea = "operators"
	TopicLoops     TopicArea = "loops"
	TopicFunctions TopicArea = "functions"
	TopicArrays    TopicArea = "arrays"
	TopicStrings   TopicArea = "strings"
	TopicPointers  TopicArea = "pointers"
	TopicMemory    TopicArea = "memory"
)

// TopicOrder is the canonical topic ordering. Every place where aggregation or
// recommendation output order matters iterates in this order, never in map
// iteration order, so results stay deterministic.
var TopicOrder = []TopicArea{
	TopicBasics,
	TopicVariables,
	TopicOperators,
	TopicLoops,
	TopicFunctions,
	TopicArrays,
	TopicStrings,
	TopicPointers,
	TopicMemory,
}

var topicRank = func() map[TopicArea]int {
	m := make(map[TopicArea]int, len(TopicOrder))
	for i, t := range TopicOrder {
		m[t] = i
	}
	return m
}()

// TopicRank returns the topic's position in the canonical order. Unknown
// topics sort after all known ones.
func TopicRank(t TopicArea) int {
	if r, ok := topicRank[t]; ok {
		return r
	}
	return len(TopicOrder)
}

func (t TopicArea) Valid() bool {
	_, ok := topicRank[t]
	return ok
}
