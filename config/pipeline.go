package config

// PipelineConfig groups per-stage settings for the query pipeline. Zero values
// fall back to the defaults the original deployment shipped with, so an empty
// pipeline block is a working configuration.
type PipelineConfig struct {
	Bridge    BridgeConfig    `json:"bridge" yaml:"bridge"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Rerank    RerankConfig    `json:"rerank" yaml:"rerank"`
	Classify  ClassifyConfig  `json:"classify" yaml:"classify"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Session   SessionConfig   `json:"session" yaml:"session"`
}

// BridgeConfig controls the Sinhala-to-English translation bridge.
type BridgeConfig struct {
	// ConfidenceThreshold gates the fast local path; classifier confidence
	// strictly above it skips the LLM translation call. Default 0.6.
	ConfidenceThreshold float64 `json:"confidence_threshold,omitempty" yaml:"confidence_threshold,omitempty"`
	// MaxDictionaryHints caps dictionary terms folded into the fast-path
	// search query. Default 5.
	MaxDictionaryHints int `json:"max_dictionary_hints,omitempty" yaml:"max_dictionary_hints,omitempty"`
	// MaxEntityTerms caps NLU entity terms folded into the fast-path search
	// query. Default 3.
	MaxEntityTerms int `json:"max_entity_terms,omitempty" yaml:"max_entity_terms,omitempty"`
}

// RetrievalConfig controls query-variant search and the post-rerank gate.
type RetrievalConfig struct {
	// TopK per vector query. Default 5.
	TopK int `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	// MaxVariants caps generated query variations. Default 3.
	MaxVariants int `json:"max_variants,omitempty" yaml:"max_variants,omitempty"`
	// MaxResults caps candidates returned after reranking. Default 5.
	MaxResults int `json:"max_results,omitempty" yaml:"max_results,omitempty"`
	// MinRelevance is the absolute post-rerank probability gate. Candidates at
	// or below it are discarded even if that empties the list. Default 0.01.
	// Deliberately permissive; tune upward to favor precision over recall.
	MinRelevance float64 `json:"min_relevance,omitempty" yaml:"min_relevance,omitempty"`
}

// RerankConfig points at the external cross-encoder scoring service.
type RerankConfig struct {
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// ClassifyConfig points at the external zero-shot intent classifier.
type ClassifyConfig struct {
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// CacheConfig controls the in-memory response cache.
type CacheConfig struct {
	// MaxEntries bounds the cache; oldest entries are evicted past it.
	// Default 2000.
	MaxEntries int `json:"max_entries,omitempty" yaml:"max_entries,omitempty"`
}

// SessionConfig controls conversation-history storage.
type SessionConfig struct {
	// Store selects the backend: "inmemory" (default) or "redis".
	Store string `json:"store,omitempty" yaml:"store,omitempty"`
	// MaxTurns is the sliding-window cap per patient. Default 10.
	MaxTurns int `json:"max_turns,omitempty" yaml:"max_turns,omitempty"`
	// Redis connection settings, used when Store is "redis".
	Redis RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
	// TTLSeconds expires idle Redis histories. Default 24h.
	TTLSeconds int `json:"ttl_seconds,omitempty" yaml:"ttl_seconds,omitempty"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DB       int    `json:"db,omitempty" yaml:"db,omitempty"`
}

// Defaults for the tunables above; exported so tests can assert boundary
// behavior against the same constants the pipeline uses.
const (
	DefaultConfidenceThreshold = 0.6
	DefaultMaxDictionaryHints  = 5
	DefaultMaxEntityTerms      = 3
	DefaultTopK                = 5
	DefaultMaxVariants         = 3
	DefaultMaxResults          = 5
	DefaultMinRelevance        = 0.01
	DefaultCacheMaxEntries     = 2000
	DefaultMaxTurns            = 10
)

// ConfidenceThresholdOrDefault returns the configured fast-path gate or 0.6.
func (b BridgeConfig) ConfidenceThresholdOrDefault() float64 {
	if b.ConfidenceThreshold > 0 {
		return b.ConfidenceThreshold
	}
	return DefaultConfidenceThreshold
}

func (b BridgeConfig) MaxDictionaryHintsOrDefault() int {
	if b.MaxDictionaryHints > 0 {
		return b.MaxDictionaryHints
	}
	return DefaultMaxDictionaryHints
}

func (b BridgeConfig) MaxEntityTermsOrDefault() int {
	if b.MaxEntityTerms > 0 {
		return b.MaxEntityTerms
	}
	return DefaultMaxEntityTerms
}

func (r RetrievalConfig) TopKOrDefault() int {
	if r.TopK > 0 {
		return r.TopK
	}
	return DefaultTopK
}

func (r RetrievalConfig) MaxVariantsOrDefault() int {
	if r.MaxVariants > 0 {
		return r.MaxVariants
	}
	return DefaultMaxVariants
}

func (r RetrievalConfig) MaxResultsOrDefault() int {
	if r.MaxResults > 0 {
		return r.MaxResults
	}
	return DefaultMaxResults
}

func (r RetrievalConfig) MinRelevanceOrDefault() float64 {
	if r.MinRelevance > 0 {
		return r.MinRelevance
	}
	return DefaultMinRelevance
}

func (s SessionConfig) MaxTurnsOrDefault() int {
	if s.MaxTurns > 0 {
		return s.MaxTurns
	}
	return DefaultMaxTurns
}

func (c CacheConfig) MaxEntriesOrDefault() int {
	if c.MaxEntries > 0 {
		return c.MaxEntries
	}
	return DefaultCacheMaxEntries
}
