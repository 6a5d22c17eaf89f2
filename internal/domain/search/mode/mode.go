package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Keyword matches query terms against title, description, and tags.
	Keyword Mode = "keyword"
	// Semantic ranks by embedding cosine similarity.
	Semantic Mode = "semantic"
	// Hybrid fuses keyword and semantic rankings.
	Hybrid Mode = "hybrid"
	// Intelligent is hybrid search with AI query enhancement and suggestions.
	Intelligent Mode = "intelligent"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Keyword || m == Semantic || m == Hybrid || m == Intelligent
}
