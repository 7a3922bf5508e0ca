package entity

// Built-in entity types.
const (
	TypeEmail  = "email"
	TypePhone  = "phone"
	TypeURL    = "url"
	TypeNumber = "number"
	TypeDate   = "date"
)

// Pattern pairs an entity type with one extraction regex.
type Pattern struct {
	Type    string
	Pattern string
}

// DefaultPatterns returns the built-in extraction patterns in
// registration order.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Type: TypeEmail, Pattern: `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`},
		{Type: TypePhone, Pattern: `\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`},
		{Type: TypeURL, Pattern: `https?://(?:www\.)?[-a-zA-Z0-9@:%._\+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b(?:[-a-zA-Z0-9()@:%_\+.~#?&/=]*)`},
		{Type: TypeNumber, Pattern: `\b\d+(?:\.\d+)?\b`},
		{Type: TypeDate, Pattern: `\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`},
	}
}
