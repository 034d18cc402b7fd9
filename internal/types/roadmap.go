// Package types provides type definitions for structured data used throughout the roadmap agent.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Difficulty levels the model is asked to choose from. They are a hint in the
// response schema only; the value returned by the model is not checked.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Difficulties returns the difficulty labels in ascending order.
func Difficulties() []string {
	return []string{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// InterviewRound represents a single predicted interview round
type InterviewRound struct {
	Type   string   `json:"type"`   // e.g. "Coding", "HR", "System Design"
	Topics []string `json:"topics"` // ordered by emphasis
}

// PreparationRoadmap is the structured roadmap produced for a company/role/job description
type PreparationRoadmap struct {
	Company          string           `json:"company"`
	Role             string           `json:"role"`
	Rounds           []InterviewRound `json:"rounds"`
	Difficulty       string           `json:"difficulty"`
	RecommendedOrder []string         `json:"recommended_order"`
}

// TopicCount returns the total number of topics across all rounds.
func (r *PreparationRoadmap) TopicCount() int {
	count := 0
	for _, round := range r.Rounds {
		count += len(round.Topics)
	}
	return count
}
