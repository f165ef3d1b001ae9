package retriever

import (
	"context"

	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// Retriever defines a unified search interface across different backends.
type Retriever interface {
	Type() string
	Search(ctx context.Context, query string, topK int, filter map[string]interface{}) ([]schema.SearchResult, error)
}
