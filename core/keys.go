package core

// Context keys the pipeline writes into the per-user conversation
// context after each turn. Classifiers and handlers read them back on
// later turns.
const (
	// KeyLastMessage holds the text of the user's previous utterance.
	KeyLastMessage = "last_message"

	// KeyLastIntent holds the previous turn's winning intent.
	KeyLastIntent = "last_intent"

	// KeyEntities holds the entities extracted from the previous
	// utterance as a []Entity.
	KeyEntities = "entities"
)
