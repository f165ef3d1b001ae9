package schema

import "time"

// Target languages the engine can route a query to.
const (
	LangEnglish = "en"
	LangSinhala = "si"
)

// Translation methods recorded in the response payload.
const (
	MethodNone       = "none"
	MethodSinhalaNLU = "sinhala_nlu"
	MethodLLMAPI     = "llm_api"
)

// Document is one knowledge-base chunk as stored in the vector store.
type Document struct {
	ID        string                 `json:"id"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Vector    []float32              `json:"vector,omitempty"`
	CreatedAt time.Time              `json:"created_at,omitempty"`
}

// SearchResult pairs a document with a relevance score. Before reranking the
// score is vector similarity; after reranking it is a logistic probability.
type SearchResult struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
	// SourceQuery records which query variant first produced this candidate.
	SourceQuery string `json:"source_query,omitempty"`
}

// SearchOptions configures a single vector-store query.
type SearchOptions struct {
	TopK      int                    `json:"top_k"`
	Threshold float64                `json:"threshold,omitempty"`
	// Filter is a metadata constraint in the store's native where-clause form,
	// e.g. {"content_type": {"$in": ["dietary", "recommendation"]}}.
	Filter map[string]interface{} `json:"filter,omitempty"`
}

// ChatMessage is a single conversation turn.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Analysis is the output of the zero-shot NLU classifier for one query.
type Analysis struct {
	Intent          string              `json:"intent"`
	Confidence      float64             `json:"confidence"`
	TranslatedQuery string              `json:"translated_query,omitempty"`
	Entities        map[string][]string `json:"entities,omitempty"`
}

// Response is the full payload assembled for one ProcessQuery call. It is the
// unit stored in the response cache, so two identical requests against the
// same patient data version return byte-identical payloads.
type Response struct {
	Response          string                   `json:"response"`
	SourceDocuments   []string                 `json:"source_documents"`
	SourceMetadata    []map[string]interface{} `json:"source_metadata"`
	NLUAnalysis       *Analysis                `json:"nlu_analysis,omitempty"`
	TargetLang        string                   `json:"target_lang"`
	TranslationMethod string                   `json:"translation_method"`
	TranslationTime   float64                  `json:"translation_time"`
}
