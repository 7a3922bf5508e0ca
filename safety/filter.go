package safety

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// FilteredPlaceholder replaces the text of messages that fail the
// safety check.
const FilteredPlaceholder = "[Content filtered]"

// Compile-time check that Filter satisfies core.SafetyFilter.
var _ core.SafetyFilter = (*Filter)(nil)

var defaultBlockedPatterns = []string{
	`\b(?:spam|scam)\b`,
	`\b(?:credit\s*card\s*number)\b`,
	`\b(?:ssn|social\s*security)\b`,
}

var defaultToxicKeywords = []string{"abuse", "threat", "violence", "hate"}

var defaultSensitiveKeywords = []string{"password", "credit card", "bank account", "pin code"}

// PII detection reuses the same shapes the entity extractor matches.
var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
)

// Options configures the filter.
type Options struct {
	// Defaults controls whether the built-in block and keyword lists
	// are registered.
	Defaults bool

	// Logger receives warnings for blocked content.
	Logger logging.Logger
}

// Filter is a core.SafetyFilter built from blocked regex patterns and
// keyword substring checks. Pattern and toxic-keyword hits mark text
// unsafe; PII and sensitive-information hits only flag it. Safe for
// concurrent use.
type Filter struct {
	mu        sync.RWMutex
	blocked   []*regexp.Regexp
	toxic     []string
	sensitive []string
	logger    logging.Logger
}

// New creates a Filter with the built-in lists.
func New(optFns ...func(o *Options)) *Filter {
	opts := Options{
		Defaults: true,
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	f := &Filter{logger: opts.Logger}

	if opts.Defaults {
		for _, pattern := range defaultBlockedPatterns {
			f.blocked = append(f.blocked, regexp.MustCompile("(?i)"+pattern))
		}
		f.toxic = append(f.toxic, defaultToxicKeywords...)
		f.sensitive = append(f.sensitive, defaultSensitiveKeywords...)
	}

	return f
}

// AddBlockedPattern registers an additional blocking pattern. Matching
// is case-insensitive. Returns an error if the pattern does not
// compile.
func (f *Filter) AddBlockedPattern(pattern string) error {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("compile blocked pattern %q: %w", pattern, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.blocked = append(f.blocked, re)

	return nil
}

// AddToxicKeyword registers an additional toxic keyword. A message
// containing it anywhere, case-insensitively, is unsafe.
func (f *Filter) AddToxicKeyword(keyword string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.toxic = append(f.toxic, strings.ToLower(keyword))
}

// AddSensitiveKeyword registers an additional sensitive-information
// keyword. Hits flag the message without blocking it.
func (f *Filter) AddSensitiveKeyword(keyword string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sensitive = append(f.sensitive, strings.ToLower(keyword))
}

// IsSafe reports whether text passes the blocked-pattern and
// toxic-keyword checks.
func (f *Filter) IsSafe(text string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.isSafe(text)
}

func (f *Filter) isSafe(text string) bool {
	for _, pattern := range f.blocked {
		if pattern.MatchString(text) {
			f.logger.Warn("blocked pattern detected", "pattern", pattern.String())
			return false
		}
	}

	lowered := strings.ToLower(text)
	for _, keyword := range f.toxic {
		if strings.Contains(lowered, keyword) {
			f.logger.Warn("toxic keyword detected", "keyword", keyword)
			return false
		}
	}

	return true
}

// Check analyzes text and returns the full verdict. Flags are
// informational and can appear on safe text too.
func (f *Filter) Check(text string) core.Verdict {
	f.mu.RLock()
	defer f.mu.RUnlock()

	verdict := core.Verdict{
		Safe:     f.isSafe(text),
		Filtered: text,
	}

	if !verdict.Safe {
		verdict.Filtered = FilteredPlaceholder
	}

	if emailPattern.MatchString(text) || phonePattern.MatchString(text) {
		verdict.Flags = append(verdict.Flags, "possible_pii")
	}

	lowered := strings.ToLower(text)
	for _, keyword := range f.sensitive {
		if strings.Contains(lowered, keyword) {
			verdict.Flags = append(verdict.Flags, "sensitive_info")
			break
		}
	}

	return verdict
}
