package resolver

// Source tags which resolution pass produced a mapping.
type Source string

const (
	SourceRule       Source = "rule"
	SourceAI         Source = "ai"
	SourceFallback   Source = "fallback"
	SourceUnresolved Source = "unresolved"
)

// Mapping is the resolved value for a single form entry. Entries with
// SourceUnresolved must never reach a submission payload.
type Mapping struct {
	EntryID    int64   `json:"entry_id"`
	Label      string  `json:"label"`
	Value      string  `json:"value,omitempty"`
	Source     Source  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// Resolved reports whether the mapping carries a usable value.
func (m *Mapping) Resolved() bool {
	return m.Source != SourceUnresolved && m.Value != ""
}
