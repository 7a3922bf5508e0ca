package handler

// ReplySet declares one intent's reply pool for registration.
type ReplySet struct {
	Intent  string
	Replies []string
}

// SuggestionSet declares one intent's follow-up suggestions.
type SuggestionSet struct {
	Intent      string
	Suggestions []string
}

// defaultReplies returns the built-in reply catalog. Every built-in
// classifier intent has a pool, plus the unknown fallback.
func defaultReplies() []ReplySet {
	return []ReplySet{
		{
			Intent: "greeting",
			Replies: []string{
				"Hello! How can I help you today?",
				"Hi there! What can I do for you?",
				"Hey! I'm here to assist you.",
				"Greetings! How may I assist you today?",
			},
		},
		{
			Intent: "farewell",
			Replies: []string{
				"Goodbye! Have a great day!",
				"Bye! Feel free to come back anytime.",
				"See you later! Take care!",
				"Farewell! It was nice talking to you.",
			},
		},
		{
			Intent: "question",
			Replies: []string{
				"That's a great question. Let me help you with that.",
				"I'd be happy to answer that for you.",
				"Let me look into that for you.",
				"I'll do my best to answer your question.",
			},
		},
		{
			Intent: "help",
			Replies: []string{
				"I'm here to help! What do you need assistance with?",
				"Of course! I'd be glad to help you.",
				"I can assist you with that. What specifically do you need help with?",
				"Let me help you with that. What can I do for you?",
			},
		},
		{
			Intent: "complaint",
			Replies: []string{
				"I'm sorry to hear you're experiencing issues. Let me help resolve this.",
				"I apologize for the inconvenience. I'll do my best to help.",
				"Thank you for bringing this to my attention. Let's work on fixing this.",
				"I understand your concern. Let me assist you with this problem.",
			},
		},
		{
			Intent: "request",
			Replies: []string{
				"I'll be happy to help with your request.",
				"Let me assist you with that.",
				"I can help you with that request.",
				"Sure, I'll help you with that.",
			},
		},
		{
			Intent: "feedback",
			Replies: []string{
				"Thank you for your feedback! We appreciate it.",
				"I appreciate you sharing your thoughts.",
				"Thanks for letting us know. Your feedback is valuable.",
				"Thank you! We value your feedback.",
			},
		},
		{
			Intent: "small_talk",
			Replies: []string{
				"I'm doing well, thank you for asking!",
				"That's interesting! Tell me more.",
				"I appreciate the conversation!",
				"That's nice to hear!",
			},
		},
		{
			Intent: "unknown",
			Replies: []string{
				"I'm not sure I understand. Could you rephrase that?",
				"I didn't quite get that. Can you provide more details?",
				"I'm sorry, I'm not sure how to respond to that. Can you clarify?",
				"Could you explain that differently? I want to make sure I understand.",
			},
		},
	}
}

// defaultSuggestions returns the built-in follow-up suggestions.
// Intents without an entry reply without suggestions.
func defaultSuggestions() []SuggestionSet {
	return []SuggestionSet{
		{
			Intent: "greeting",
			Suggestions: []string{
				"I can help you with questions",
				"Tell me what you need",
				"Ask me anything",
			},
		},
		{
			Intent: "question",
			Suggestions: []string{
				"Do you need more information?",
				"Would you like to know anything else?",
				"Any other questions?",
			},
		},
		{
			Intent: "help",
			Suggestions: []string{
				"What specifically do you need help with?",
				"I can guide you through the process",
				"Let me know if you need clarification",
			},
		},
		{
			Intent: "complaint",
			Suggestions: []string{
				"Would you like to speak with a supervisor?",
				"Can I help resolve this issue?",
				"Would you like to provide more details?",
			},
		},
	}
}
