package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rag_cache_lookups_total",
		Help: "Response cache lookups by result (hit/miss)",
	}, []string{"result"})

	translationPath = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rag_translation_path_total",
		Help: "Bridge translation path taken (none/sinhala_nlu/llm_api)",
	}, []string{"method"})

	bridgeLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rag_bridge_latency_ms",
		Help:    "Latency of the translation bridge in milliseconds",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	retrievalLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rag_retrieval_latency_ms",
		Help:    "Latency of variant retrieval plus reranking in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1500, 3000, 6000},
	})

	rerankSurvivors = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "rag_rerank_survivors",
		Help:    "Candidates surviving the post-rerank relevance gate",
		Buckets: []float64{0, 1, 2, 3, 4, 5, 8, 12, 20},
	})

	styleFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rag_style_fallback_total",
		Help: "Style-translation failures that fell back to the English response",
	})

	detectedLanguage = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rag_detected_language_total",
		Help: "Detected target language per query",
	}, []string{"lang"})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(cacheLookups, translationPath, bridgeLatency,
			retrievalLatency, rerankSurvivors, styleFallbacks, detectedLanguage)
	})
}

// IncCacheLookup records a response-cache lookup outcome ("hit" or "miss").
func IncCacheLookup(result string) {
	ensureRegistered()
	cacheLookups.WithLabelValues(result).Inc()
}

// IncTranslationPath records which bridge path served a query.
func IncTranslationPath(method string) {
	ensureRegistered()
	translationPath.WithLabelValues(method).Inc()
}

// ObserveBridge records bridge duration.
func ObserveBridge(start time.Time) {
	ensureRegistered()
	bridgeLatency.Observe(float64(time.Since(start).Milliseconds()))
}

// ObserveRetrieval records retrieval+rerank duration.
func ObserveRetrieval(start time.Time) {
	ensureRegistered()
	retrievalLatency.Observe(float64(time.Since(start).Milliseconds()))
}

// ObserveRerankSurvivors records how many candidates passed the relevance gate.
func ObserveRerankSurvivors(n int) {
	ensureRegistered()
	rerankSurvivors.Observe(float64(n))
}

// IncStyleFallback counts a style-translation fallback to English.
func IncStyleFallback() {
	ensureRegistered()
	styleFallbacks.Inc()
}

// IncDetectedLanguage counts a detected target language.
func IncDetectedLanguage(lang string) {
	ensureRegistered()
	detectedLanguage.WithLabelValues(lang).Inc()
}
