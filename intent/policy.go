package intent

// ScoringPolicy holds the weights the classifier applies while
// scoring. The zero value scores nothing; start from
// DefaultScoringPolicy and adjust.
type ScoringPolicy struct {
	// KeywordWeight is added for every registered keyword found in
	// the lowered text.
	KeywordWeight float64

	// PatternWeight is added once per registered pattern that matches
	// the text, regardless of how many times it occurs.
	PatternWeight float64

	// ContinuityBonus is added to the previous turn's intent, but
	// only when that intent already scored on this turn's evidence.
	ContinuityBonus float64

	// ConfidenceNorm divides the winning score to produce the
	// confidence, which is capped at 1.
	ConfidenceNorm float64
}

// DefaultScoringPolicy returns the standard weights: patterns count
// double a keyword, continuity nudges rather than decides, and three
// points of evidence mean full confidence.
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		KeywordWeight:   1.0,
		PatternWeight:   2.0,
		ContinuityBonus: 0.3,
		ConfidenceNorm:  3.0,
	}
}
