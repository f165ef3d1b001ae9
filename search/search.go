package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/HasinduNiran/Nephro-AI-sub000/common/logger"
	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/metrics"
	"github.com/HasinduNiran/Nephro-AI-sub000/nlu"
	"github.com/HasinduNiran/Nephro-AI-sub000/post"
	"github.com/HasinduNiran/Nephro-AI-sub000/retriever"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// Engine fans a query out as several variants, merges candidates by document
// id and reranks the union with a cross-encoder. An empty store or a gate
// that removes every candidate is a valid outcome, not an error: generation
// proceeds without retrieved evidence.
type Engine struct {
	Retriever  retriever.Retriever
	Reranker   post.Reranker
	Classifier nlu.Classifier
	Cfg        config.RetrievalConfig
}

// Result carries the surviving candidates plus the NLU analysis that shaped
// the query variants.
type Result struct {
	Candidates []schema.SearchResult
	Analysis   *schema.Analysis
}

// Search runs the full retrieve-and-rerank stage for an English query.
func (e *Engine) Search(ctx context.Context, query string) (*Result, error) {
	return e.SearchWithAnalysis(ctx, query, nil)
}

// SearchWithAnalysis is Search with a classification already in hand, so a
// caller that classified the query upstream avoids a second classifier call.
func (e *Engine) SearchWithAnalysis(ctx context.Context, query string, analysis *schema.Analysis) (*Result, error) {
	start := time.Now()
	defer metrics.ObserveRetrieval(start)

	if analysis == nil {
		analysis = e.analyze(ctx, query)
	}
	variants := e.buildVariants(query, analysis)
	filter := retriever.IntentFilter(analysisIntent(analysis))

	merged := e.retrieveVariants(ctx, variants, filter)
	if len(merged) == 0 {
		return &Result{Candidates: nil, Analysis: analysis}, nil
	}

	ranked, reranked := e.rerank(ctx, query, merged)
	if reranked {
		// The gate only means anything for cross-encoder probabilities; raw
		// similarity scores pass through untouched when reranking is skipped.
		ranked = gate(ranked, e.Cfg.MinRelevanceOrDefault())
	}
	metrics.ObserveRerankSurvivors(len(ranked))

	maxResults := e.Cfg.MaxResultsOrDefault()
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return &Result{Candidates: ranked, Analysis: analysis}, nil
}

func (e *Engine) analyze(ctx context.Context, query string) *schema.Analysis {
	if e.Classifier == nil {
		return nil
	}
	analysis, err := e.Classifier.Classify(ctx, query)
	if err != nil {
		logger.Warnf("search: classifier unavailable, using base query only: %v", err)
		return nil
	}
	return analysis
}

// buildVariants produces up to MaxVariants query strings: the base query,
// an entity-augmented rewrite and an intent-templated rewrite, deduplicated
// case-insensitively.
func (e *Engine) buildVariants(query string, analysis *schema.Analysis) []string {
	variants := []string{query}
	if analysis != nil {
		if entityTerms := flattenEntities(analysis.Entities, 3); len(entityTerms) > 0 {
			variants = append(variants, query+" "+strings.Join(entityTerms, " "))
		}
		if analysis.Intent != "" {
			variants = append(variants, nlu.HumanizeIntent(analysis.Intent)+" "+query)
		}
	}

	maxVariants := e.Cfg.MaxVariantsOrDefault()
	seen := make(map[string]struct{}, len(variants))
	out := make([]string, 0, maxVariants)
	for _, v := range variants {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
		if len(out) == maxVariants {
			break
		}
	}
	return out
}

// retrieveVariants issues one vector query per variant and merges candidates
// by document id. First occurrence wins; the producing variant is recorded on
// the candidate for traceability.
func (e *Engine) retrieveVariants(ctx context.Context, variants []string, filter map[string]interface{}) []schema.SearchResult {
	topK := e.Cfg.TopKOrDefault()
	seen := make(map[string]struct{})
	var merged []schema.SearchResult
	for _, variant := range variants {
		res, err := e.Retriever.Search(ctx, variant, topK, filter)
		if err != nil {
			logger.Warnf("search: variant %q failed: %v", variant, err)
			continue
		}
		for _, candidate := range res {
			id := candidate.Document.ID
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			candidate.SourceQuery = variant
			merged = append(merged, candidate)
		}
	}
	return merged
}

func (e *Engine) rerank(ctx context.Context, query string, candidates []schema.SearchResult) ([]schema.SearchResult, bool) {
	if e.Reranker == nil {
		return candidates, false
	}
	documents := make([]string, len(candidates))
	for i, c := range candidates {
		documents[i] = c.Document.Content
	}
	logits, err := e.Reranker.Score(ctx, query, documents)
	if err != nil {
		logger.Warnf("search: rerank failed, keeping retrieval order: %v", err)
		return candidates, false
	}
	return post.ApplyScores(candidates, logits), true
}

// gate drops candidates at or below the absolute relevance floor. It may
// return an empty slice; downstream handles that as "no evidence".
func gate(ranked []schema.SearchResult, minRelevance float64) []schema.SearchResult {
	out := make([]schema.SearchResult, 0, len(ranked))
	for _, c := range ranked {
		if c.Score <= minRelevance {
			continue
		}
		out = append(out, c)
	}
	return out
}

func flattenEntities(entities map[string][]string, max int) []string {
	if len(entities) == 0 {
		return nil
	}
	// stable category order keeps variants deterministic
	categories := make([]string, 0, len(entities))
	for cat := range entities {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	seen := make(map[string]struct{})
	var terms []string
	for _, cat := range categories {
		for _, term := range entities[cat] {
			t := strings.TrimSpace(term)
			if t == "" {
				continue
			}
			key := strings.ToLower(t)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			terms = append(terms, t)
			if len(terms) == max {
				return terms
			}
		}
	}
	return terms
}

func analysisIntent(a *schema.Analysis) string {
	if a == nil {
		return ""
	}
	return a.Intent
}
