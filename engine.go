package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/HasinduNiran/Nephro-AI-sub000/bridge"
	"github.com/HasinduNiran/Nephro-AI-sub000/cache"
	"github.com/HasinduNiran/Nephro-AI-sub000/common/httpx"
	"github.com/HasinduNiran/Nephro-AI-sub000/common/logger"
	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/embedding"
	"github.com/HasinduNiran/Nephro-AI-sub000/generate"
	"github.com/HasinduNiran/Nephro-AI-sub000/language"
	"github.com/HasinduNiran/Nephro-AI-sub000/llm"
	"github.com/HasinduNiran/Nephro-AI-sub000/metrics"
	"github.com/HasinduNiran/Nephro-AI-sub000/nlu"
	"github.com/HasinduNiran/Nephro-AI-sub000/patient"
	"github.com/HasinduNiran/Nephro-AI-sub000/post"
	"github.com/HasinduNiran/Nephro-AI-sub000/retriever"
	"github.com/HasinduNiran/Nephro-AI-sub000/rewrite"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
	"github.com/HasinduNiran/Nephro-AI-sub000/search"
	"github.com/HasinduNiran/Nephro-AI-sub000/vectordb"
)

// How many source documents ride along in the response payload.
const maxSourceDocs = 3

// DefaultPatientID scopes chats from callers that do not identify a patient.
const DefaultPatientID = "default_patient"

// Engine runs the full bilingual question-answering pipeline: language
// detection, response cache, translation bridge, contextualization,
// retrieval, generation and Sinhala style-back.
type Engine struct {
	cfg       *config.Config
	bridge    *bridge.Bridge
	rewriter  *rewrite.Rewriter
	search    *search.Engine
	generator *generate.Generator
	styler    *generate.Styler
	patients  patient.Store
	history   HistoryStore
	responses cache.ResponseCache
}

// NewEngine wires every pipeline stage from cfg.
func NewEngine(cfg *config.Config) (*Engine, error) {
	llmProvider, err := llm.NewOpenAIProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("create llm provider failed, err: %w", err)
	}
	embedProvider, err := embedding.NewOpenAIProvider(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("create embedding provider failed, err: %w", err)
	}
	store, err := vectordb.NewProvider(&cfg.VectorDB, cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("create vector store provider failed, err: %w", err)
	}

	httpClient := httpx.NewFromConfig(cfg.HTTP)

	var classifier nlu.Classifier
	if cfg.Pipeline.Classify.Endpoint != "" {
		classifier = &nlu.HTTPClassifier{
			Endpoint: cfg.Pipeline.Classify.Endpoint,
			Client:   httpClient,
		}
	}
	var reranker post.Reranker
	if cfg.Pipeline.Rerank.Endpoint != "" {
		reranker = &post.HTTPReranker{
			Endpoint: cfg.Pipeline.Rerank.Endpoint,
			APIKey:   cfg.Pipeline.Rerank.APIKey,
			Client:   httpClient,
		}
	}

	history, err := NewHistoryStore(cfg.Pipeline.Session)
	if err != nil {
		return nil, fmt.Errorf("create history store failed, err: %w", err)
	}

	return &Engine{
		cfg: cfg,
		bridge: &bridge.Bridge{
			Classifier: classifier,
			LLM:        llmProvider,
			Cfg:        cfg.Pipeline.Bridge,
		},
		rewriter: &rewrite.Rewriter{LLM: llmProvider},
		search: &search.Engine{
			Retriever: &retriever.VectorRetriever{
				Embed:     embedProvider,
				Store:     store,
				TopK:      cfg.Pipeline.Retrieval.TopKOrDefault(),
				Threshold: 0,
			},
			Reranker:   reranker,
			Classifier: classifier,
			Cfg:        cfg.Pipeline.Retrieval,
		},
		generator: &generate.Generator{
			LLM:         llmProvider,
			Temperature: cfg.LLM.Temperature,
		},
		styler:    &generate.Styler{LLM: llmProvider},
		patients:  patient.NewMemoryStore(),
		history:   history,
		responses: cache.NewLRU(cfg.Pipeline.Cache.MaxEntriesOrDefault(), time.Hour),
	}, nil
}

// ProcessQuery answers one patient message end to end.
func (e *Engine) ProcessQuery(ctx context.Context, patientID, query string) (*schema.Response, error) {
	if patientID == "" {
		patientID = DefaultPatientID
	}
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	reqID := uuid.New().String()

	targetLang := language.Detect(query)
	metrics.IncDetectedLanguage(targetLang)

	version := e.patients.DataVersion(patientID)
	key := cache.Key(patientID, version, targetLang, query)
	if cached, ok := e.responses.Get(key); ok {
		metrics.IncCacheLookup("hit")
		logger.Infof("[%s] cache hit for patient %s", reqID, patientID)
		return cached, nil
	}
	metrics.IncCacheLookup("miss")

	turns, err := e.history.Turns(ctx, patientID)
	if err != nil {
		logger.Warnf("[%s] history unavailable, continuing without it: %v", reqID, err)
		turns = nil
	}

	englishQuery := query
	method := schema.MethodNone
	var translationTime float64
	var analysis *schema.Analysis
	if targetLang == schema.LangSinhala {
		bridged := e.bridge.ToEnglish(ctx, query, turns)
		englishQuery = bridged.EnglishQuery
		method = bridged.Method
		translationTime = bridged.Duration.Seconds()
		analysis = bridged.Analysis
	}
	metrics.IncTranslationPath(method)

	standalone := e.rewriter.Contextualize(ctx, englishQuery, turns)
	logger.Debugf("[%s] lang=%s method=%s standalone=%q", reqID, targetLang, method, standalone)

	found, err := e.search.SearchWithAnalysis(ctx, standalone, analysis)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	if analysis == nil {
		analysis = found.Analysis
	}

	patientContext := e.patients.Context(patientID)
	// The rewrite exists only to make retrieval standalone; generation keeps
	// the bridged query and disambiguates through the history turns it is
	// given directly.
	answer := e.generator.Answer(ctx, englishQuery, found.Candidates, patientContext, turns)
	final := e.styler.ToTarget(ctx, answer, targetLang)

	resp := buildResponse(final, found.Candidates, analysis, targetLang, method, translationTime)

	if err := e.history.Append(ctx, patientID,
		schema.ChatMessage{Role: llm.RoleUser, Content: query},
		schema.ChatMessage{Role: llm.RoleAssistant, Content: final},
	); err != nil {
		logger.Warnf("[%s] could not persist history: %v", reqID, err)
	}
	e.responses.Set(key, patientID, resp, 0)
	return resp, nil
}

// UpdatePatient stores a new clinical profile. The version token changes with
// it, so stale cache entries can no longer be addressed; InvalidateCache also
// reclaims their memory right away.
func (e *Engine) UpdatePatient(profile patient.Profile) {
	e.patients.Update(profile)
	e.responses.Invalidate(profile.PatientID)
}

// InvalidateCache drops every cached response for patientID.
func (e *Engine) InvalidateCache(patientID string) {
	e.responses.Invalidate(patientID)
}

// ClearHistory forgets the patient's conversation window.
func (e *Engine) ClearHistory(ctx context.Context, patientID string) error {
	return e.history.Clear(ctx, patientID)
}

func buildResponse(text string, candidates []schema.SearchResult, analysis *schema.Analysis, targetLang, method string, translationTime float64) *schema.Response {
	if len(candidates) > maxSourceDocs {
		candidates = candidates[:maxSourceDocs]
	}
	docs := make([]string, 0, len(candidates))
	meta := make([]map[string]interface{}, 0, len(candidates))
	for _, c := range candidates {
		docs = append(docs, c.Document.Content)
		meta = append(meta, c.Document.Metadata)
	}
	return &schema.Response{
		Response:          text,
		SourceDocuments:   docs,
		SourceMetadata:    meta,
		NLUAnalysis:       analysis,
		TargetLang:        targetLang,
		TranslationMethod: method,
		TranslationTime:   translationTime,
	}
}
