package vectordb

import (
	"context"
	"fmt"

	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// Provider is the vector store surface the retriever depends on. Both
// backends return candidates ordered by similarity, best first.
type Provider interface {
	SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error)
}

// NewProvider instantiates the configured backend.
func NewProvider(cfg *config.VectorDBConfig, dimensions int) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("vectordb config is required")
	}
	switch cfg.Provider {
	case "chroma":
		return NewChromaStore(cfg)
	case "milvus":
		return NewMilvusStore(cfg, dimensions)
	default:
		return nil, fmt.Errorf("unsupported vectordb provider: %s", cfg.Provider)
	}
}
