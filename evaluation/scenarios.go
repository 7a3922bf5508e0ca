package evaluation

import "github.com/hupe1980/dialogkit/entity"

// Turn is one scripted utterance and the classification it should
// produce.
type Turn struct {
	// Input is the user text fed to the classifier.
	Input string `json:"input"`

	// WantIntent is the intent the classifier must predict.
	WantIntent string `json:"wantIntent"`

	// MinConfidence is the confidence floor for the prediction to
	// count as correct.
	MinConfidence float64 `json:"minConfidence"`
}

// Scenario is a named conversation flow of scripted turns.
type Scenario struct {
	Name  string `json:"name"`
	Turns []Turn `json:"turns"`
}

// EntityCase is one extraction probe: a text and the entity types it
// should yield. An empty WantTypes documents text the extractor is
// expected to find nothing expected in.
type EntityCase struct {
	Text      string   `json:"text"`
	WantTypes []string `json:"wantTypes,omitempty"`
}

// DefaultScenarios returns the canned conversation flows the harness
// evaluates with when none are configured.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Name: "Greeting Flow",
			Turns: []Turn{
				{Input: "Hello!", WantIntent: "greeting", MinConfidence: 0.7},
				{Input: "How are you?", WantIntent: "small_talk", MinConfidence: 0.6},
				{Input: "Goodbye", WantIntent: "farewell", MinConfidence: 0.7},
			},
		},
		{
			Name: "Help Request",
			Turns: []Turn{
				{Input: "I need help with something", WantIntent: "help", MinConfidence: 0.7},
				{Input: "Can you assist me?", WantIntent: "request", MinConfidence: 0.6},
			},
		},
		{
			Name: "Question Flow",
			Turns: []Turn{
				{Input: "What is the weather like?", WantIntent: "question", MinConfidence: 0.7},
				{Input: "Where can I find more information?", WantIntent: "question", MinConfidence: 0.7},
			},
		},
		{
			Name: "Complaint Handling",
			Turns: []Turn{
				{Input: "I have a complaint about the service", WantIntent: "complaint", MinConfidence: 0.7},
				{Input: "This is not working properly", WantIntent: "complaint", MinConfidence: 0.6},
			},
		},
	}
}

// DefaultEntityCases returns the canned extraction probes. The last
// case pins down a known gap: the built-in phone pattern does not match
// internationally formatted numbers.
func DefaultEntityCases() []EntityCase {
	return []EntityCase{
		{Text: "My email is john@example.com", WantTypes: []string{entity.TypeEmail}},
		{Text: "Call me at 555-123-4567", WantTypes: []string{entity.TypePhone}},
		{Text: "Call me at +1 (555) 123-4567"},
	}
}
