package retriever

import (
	"context"

	"github.com/HasinduNiran/Nephro-AI-sub000/embedding"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
	"github.com/HasinduNiran/Nephro-AI-sub000/vectordb"
)

// VectorRetriever implements Retriever using embedding+vector store backend.
type VectorRetriever struct {
	Embed embedding.Provider
	Store vectordb.Provider
	TopK  int
	// Threshold may be used by underlying vector search options.
	Threshold float64
}

func (r *VectorRetriever) Type() string { return "vector" }

func (r *VectorRetriever) Search(ctx context.Context, query string, topK int, filter map[string]interface{}) ([]schema.SearchResult, error) {
	if topK <= 0 {
		if r.TopK > 0 {
			topK = r.TopK
		} else {
			topK = 5
		}
	}
	v, err := r.Embed.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}
	opts := &schema.SearchOptions{TopK: topK, Threshold: r.Threshold, Filter: filter}
	return r.Store.SearchDocs(ctx, v, opts)
}

// IntentFilter maps a detected intent to a metadata constraint narrowing
// retrieval to matching content types. Unknown intents get no filter.
func IntentFilter(intent string) map[string]interface{} {
	types, ok := intentContentTypes[intent]
	if !ok {
		return nil
	}
	return map[string]interface{}{
		"content_type": map[string]interface{}{"$in": types},
	}
}

var intentContentTypes = map[string][]string{
	"ask_diet":       {"dietary", "recommendation"},
	"ask_symptoms":   {"symptom", "education"},
	"ask_medication": {"medication", "recommendation"},
	"ask_fluid":      {"dietary", "recommendation"},
	"ask_dialysis":   {"treatment", "education"},
	"ask_lab_values": {"lab", "education"},
}
