package roadmap

import (
	"fmt"
	"strings"

	"github.com/jonathan/roadmap-agent/internal/llm"
	"github.com/jonathan/roadmap-agent/internal/types"
)

// SchemaName is the name the prompts use for the response schema
const SchemaName = "PreparationRoadmap"

// RoundSchema describes a single InterviewRound
func RoundSchema() *llm.Schema {
	return llm.ObjectSchema("Schema for a single interview round.", map[string]*llm.Schema{
		"type": llm.StringSchema(
			"Type of interview round, e.g., 'MCQ', 'Coding', 'HR', 'System Design', 'Managerial'."),
		"topics": llm.ArraySchema(
			"List of key topics covered in this specific round. Topics should be specific (e.g., 'Dynamic Programming', 'Load Balancing').",
			llm.StringSchema("")),
	}, "type", "topics")
}

// RoadmapSchema describes the PreparationRoadmap the model must return.
// Difficulty is constrained by description only.
func RoadmapSchema() *llm.Schema {
	return llm.ObjectSchema("The final structured roadmap output schema.", map[string]*llm.Schema{
		"company": llm.StringSchema("The name of the company derived from the input."),
		"role":    llm.StringSchema("The job role derived from the input."),
		"rounds": llm.ArraySchema(
			"List of all predicted interview rounds, including topics, inferred from the JD and company research.",
			RoundSchema()),
		"difficulty": llm.StringSchema(fmt.Sprintf(
			"Predicted difficulty level of the entire interview process: %s.", quoteList(types.Difficulties()))),
		"recommended_order": llm.ArraySchema(
			"Suggested order of preparation topics/domains, e.g., ['Data Structures and Algorithms', 'System Design Fundamentals', 'Behavioral Communication'].",
			llm.StringSchema("")),
	}, "company", "role", "rounds", "difficulty", "recommended_order")
}

// SchemaDocument renders RoadmapSchema as the JSON Schema committed under schemas/
func SchemaDocument() (string, error) {
	return RoadmapSchema().JSONSchemaDocument(SchemaName)
}

// quoteList renders values as 'a', 'b', or 'c'
func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	if len(quoted) < 2 {
		return strings.Join(quoted, "")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
