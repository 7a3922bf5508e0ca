package intent

// Definition declares one intent for registration: a name, the
// keywords that score for it, and the regular expression patterns that
// score double.
type Definition struct {
	Name     string
	Keywords []string
	Patterns []string
}

// DefaultDefinitions returns the built-in intent catalog. The order is
// the tie-breaking order.
//
// The catalog is tuned so that each intent's canonical phrasings score
// at least one pattern plus one keyword, which normalizes to full
// confidence under the default policy.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name: "greeting",
			Keywords: []string{
				"hello", "hi", "hey", "good morning", "good afternoon",
				"good evening", "greetings", "welcome",
			},
			Patterns: []string{
				`^(?:hello|hi|hey)\b`,
				`\bgood (?:morning|afternoon|evening)\b`,
			},
		},
		{
			Name: "farewell",
			Keywords: []string{
				"bye", "goodbye", "see you", "farewell", "take care",
				"see you later",
			},
			Patterns: []string{
				`\b(?:bye|goodbye|farewell)\b`,
				`\bsee you\b`,
			},
		},
		{
			Name: "question",
			Keywords: []string{
				"what", "when", "where", "who", "which", "why",
				"how do", "how can", "how long",
			},
			Patterns: []string{
				`^(?:what|when|where|who|which|why)\b`,
				`\?$`,
			},
		},
		{
			Name: "request",
			Keywords: []string{
				"please", "can you", "could you", "would you",
				"i want", "i need", "give me",
			},
			Patterns: []string{
				`\b(?:can|could|would) you\b`,
				`\bi (?:want|need|would like)\b`,
			},
		},
		{
			Name: "help",
			Keywords: []string{
				"help", "support", "guide", "stuck", "assistance",
				"how to",
			},
			Patterns: []string{
				`\bhelp\b`,
				`\bneed (?:help|assistance|support)\b`,
			},
		},
		{
			Name: "complaint",
			Keywords: []string{
				"complaint", "problem", "issue", "not working", "broken",
				"terrible", "awful", "disappointed", "unacceptable",
			},
			Patterns: []string{
				`\b(?:complaint|problem|issue)s?\b`,
				`\bnot working\b`,
			},
		},
		{
			Name: "feedback",
			Keywords: []string{
				"feedback", "suggestion", "suggest", "improve",
				"great job", "well done", "love it", "excellent",
			},
			Patterns: []string{
				`\b(?:feedback|suggestions?)\b`,
				`\b(?:great|excellent|amazing) (?:job|work|service)\b`,
			},
		},
		{
			Name: "small_talk",
			Keywords: []string{
				"how are you", "what's up", "whats up", "joke",
				"weather", "chat", "bored",
			},
			Patterns: []string{
				`\bhow are you\b`,
				`\bwhat'?s up\b`,
				`\btell me a joke\b`,
			},
		},
	}
}
