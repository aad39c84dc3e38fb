package knowledge

import "context"

// Document is one summarized result from the knowledge source.
type Document struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// Retriever looks up summarized documents for a topic. Implementations cap
// results at a small number, skip ambiguous entries silently, and return an
// empty slice when nothing resolves.
type Retriever interface {
	Retrieve(ctx context.Context, topic string) ([]Document, error)
}
