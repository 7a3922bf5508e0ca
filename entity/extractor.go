package entity

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/hupe1980/dialogkit/core"
	"github.com/hupe1980/dialogkit/logging"
)

// Compile-time check that Extractor satisfies core.Extractor.
var _ core.Extractor = (*Extractor)(nil)

// CustomFunc is a user-supplied extraction function. Returned entities
// have their Type overwritten with the type the function is registered
// under; Start and End may be left nil when the function does not
// track positions.
type CustomFunc func(text string) []core.Entity

// Options configures the extractor.
type Options struct {
	// Defaults controls whether the built-in patterns are registered
	// at construction.
	Defaults bool

	// Logger receives extraction debug output.
	Logger logging.Logger
}

// Extractor finds typed entities in free text using registered
// patterns and custom extraction functions. It is safe for concurrent
// use.
type Extractor struct {
	mu          sync.RWMutex
	types       []string // pattern type registration order
	patterns    map[string][]*regexp.Regexp
	customTypes []string // custom extractor registration order
	custom      map[string]CustomFunc
	logger      logging.Logger
}

// New creates an Extractor with the built-in patterns registered.
func New(optFns ...func(o *Options)) *Extractor {
	opts := Options{
		Defaults: true,
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	x := &Extractor{
		patterns: make(map[string][]*regexp.Regexp),
		custom:   make(map[string]CustomFunc),
		logger:   opts.Logger,
	}

	if opts.Defaults {
		for _, p := range DefaultPatterns() {
			if err := x.AddPattern(p.Type, p.Pattern); err != nil {
				panic(fmt.Sprintf("entity: invalid default pattern %q: %v", p.Type, err))
			}
		}
	}

	return x
}

// AddPattern registers one more case-insensitive pattern under
// entityType. A type may hold any number of patterns. Invalid patterns
// fail here, never at extraction time.
func (x *Extractor) AddPattern(entityType, pattern string) error {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("entity %q: compile pattern %q: %w", entityType, pattern, err)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.patterns[entityType]; !ok {
		x.types = append(x.types, entityType)
	}
	x.patterns[entityType] = append(x.patterns[entityType], re)

	return nil
}

// AddCustomExtractor registers fn under entityType. At most one custom
// extractor exists per type; re-registration replaces the previous
// function but keeps the type's original position in the extraction
// order.
func (x *Extractor) AddCustomExtractor(entityType string, fn CustomFunc) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.custom[entityType]; !ok {
		x.customTypes = append(x.customTypes, entityType)
	}
	x.custom[entityType] = fn
}

// Extract returns all entities found in text, sorted ascending by
// start offset. Entities without offsets sort as offset zero; the sort
// is stable, so same-offset entities keep their extraction order
// (pattern types first, in registration order, then custom
// extractors). Overlapping matches from different patterns are all
// kept.
//
// The intent hint is accepted for intent-conditioned extraction but
// does not currently filter which extractors run.
func (x *Extractor) Extract(text, intent string) []core.Entity {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var entities []core.Entity

	for _, entityType := range x.types {
		for _, re := range x.patterns[entityType] {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				start, end := loc[0], loc[1]
				entities = append(entities, core.Entity{
					Type:  entityType,
					Value: text[start:end],
					Start: &start,
					End:   &end,
				})
			}
		}
	}

	for _, entityType := range x.customTypes {
		for _, ent := range x.custom[entityType](text) {
			ent.Type = entityType
			entities = append(entities, ent)
		}
	}

	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].StartOrZero() < entities[j].StartOrZero()
	})

	x.logger.Debug("extracted entities", "count", len(entities))

	return entities
}

// ExtractByType returns the values of all entities of entityType found
// in text, in extraction order.
func (x *Extractor) ExtractByType(text, entityType string) []string {
	var values []string
	for _, ent := range x.Extract(text, "") {
		if ent.Type == entityType {
			values = append(values, ent.Value)
		}
	}

	return values
}

// HasType reports whether text contains at least one entity of
// entityType.
func (x *Extractor) HasType(text, entityType string) bool {
	return len(x.ExtractByType(text, entityType)) > 0
}
