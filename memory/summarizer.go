package memory

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// DefaultSummaryThreshold is the message count at which a conversation
// is considered worth summarizing.
const DefaultSummaryThreshold = 10

// SummarizerOptions configures a Summarizer.
type SummarizerOptions struct {
	// Threshold is the message count at which ShouldSummarize trips.
	Threshold int

	// Logger receives generated summaries at info level.
	Logger logging.Logger
}

// Summarizer compacts long conversations into a short lexical summary.
// It is deliberately model-free: counting messages and intents is
// deterministic and keeps prompt budgets bounded without an extra
// model call per turn.
type Summarizer struct {
	threshold int
	logger    logging.Logger
}

// NewSummarizer creates a Summarizer with DefaultSummaryThreshold.
func NewSummarizer(optFns ...func(o *SummarizerOptions)) *Summarizer {
	opts := SummarizerOptions{
		Threshold: DefaultSummaryThreshold,
		Logger:    logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Threshold <= 0 {
		opts.Threshold = DefaultSummaryThreshold
	}

	return &Summarizer{threshold: opts.Threshold, logger: opts.Logger}
}

// ShouldSummarize reports whether a conversation of messageCount
// messages has reached the summarization threshold.
func (s *Summarizer) ShouldSummarize(messageCount int) bool {
	return messageCount >= s.threshold
}

// Summarize produces a one-line description of the conversation:
// message counts plus the dominant intent when any message carries
// one. Ties go to the intent seen first.
func (s *Summarizer) Summarize(messages []core.Message) string {
	if len(messages) == 0 {
		return "No conversation to summarize."
	}

	userCount := 0
	counts := make(map[string]int)
	var order []string

	for _, msg := range messages {
		if msg.Role == core.RoleUser {
			userCount++
		}

		if msg.Intent == "" {
			continue
		}

		if _, seen := counts[msg.Intent]; !seen {
			order = append(order, msg.Intent)
		}
		counts[msg.Intent]++
	}

	parts := []string{
		fmt.Sprintf("Conversation with %d messages.", len(messages)),
		fmt.Sprintf("User sent %d messages.", userCount),
	}

	if len(order) > 0 {
		top := order[0]
		for _, intent := range order[1:] {
			if counts[intent] > counts[top] {
				top = intent
			}
		}
		parts = append(parts, fmt.Sprintf("Main topic: %s (%d times).", top, counts[top]))
	}

	summary := strings.Join(parts, " ")
	s.logger.Info("generated conversation summary", "summary", summary)

	return summary
}

// KeyPoints extracts the messages most worth keeping verbatim:
// complaints, requests and questions, truncated to 100 characters.
func (s *Summarizer) KeyPoints(messages []core.Message) []string {
	var points []string

	for _, msg := range messages {
		switch msg.Intent {
		case "complaint", "request", "question":
		default:
			continue
		}

		if msg.Content == "" {
			continue
		}

		content := msg.Content
		if runes := []rune(content); len(runes) > 100 {
			content = string(runes[:100])
		}

		points = append(points, fmt.Sprintf("%s: %s", capitalize(msg.Intent), content))
	}

	return points
}

// Compact keeps the max most recent messages and folds everything
// older into a single leading system message holding the summary.
// Histories at or under max, and non-positive max, come back
// unchanged.
func (s *Summarizer) Compact(messages []core.Message, max int) []core.Message {
	if max <= 0 || len(messages) <= max {
		return messages
	}

	older := messages[:len(messages)-max]
	recent := messages[len(messages)-max:]

	summary := core.Message{
		Role:      core.RoleSystem,
		Content:   fmt.Sprintf("[Summary of earlier conversation: %s]", s.Summarize(older)),
		Timestamp: older[0].Timestamp,
	}

	out := make([]core.Message, 0, len(recent)+1)
	out = append(out, summary)
	out = append(out, recent...)

	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}
