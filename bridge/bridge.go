package bridge

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/HasinduNiran/Nephro-AI-sub000/common/logger"
	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/llm"
	"github.com/HasinduNiran/Nephro-AI-sub000/metrics"
	"github.com/HasinduNiran/Nephro-AI-sub000/nlu"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// Bridge converts a Sinhala or Singlish query into an English search query.
// A confident local classification avoids the LLM round-trip entirely (fast
// path); ambiguous phrasing falls through to an LLM translation (smart path).
type Bridge struct {
	Classifier nlu.Classifier
	LLM        llm.Provider
	Cfg        config.BridgeConfig
}

// Result is the outcome of one bridge invocation.
type Result struct {
	EnglishQuery string
	Method       string // schema.MethodSinhalaNLU, schema.MethodLLMAPI or schema.MethodNone
	Duration     time.Duration
	Analysis     *schema.Analysis
}

// ToEnglish bridges a non-English query. It never fails: when both paths are
// unavailable the original query passes through with Method "none".
func (b *Bridge) ToEnglish(ctx context.Context, query string, history []schema.ChatMessage) *Result {
	start := time.Now()
	defer metrics.ObserveBridge(start)

	hints := nlu.DictionaryHints(query)

	var analysis *schema.Analysis
	if b.Classifier != nil {
		a, err := b.Classifier.Classify(ctx, query)
		if err != nil {
			logger.Warnf("bridge: classifier failed: %v", err)
		} else {
			analysis = a
		}
	}

	if analysis != nil && analysis.Confidence > b.Cfg.ConfidenceThresholdOrDefault() {
		english := b.fastPath(analysis, hints)
		logger.Infof("bridge: fast path (confidence=%.2f) -> %q", analysis.Confidence, english)
		return &Result{
			EnglishQuery: english,
			Method:       schema.MethodSinhalaNLU,
			Duration:     time.Since(start),
			Analysis:     analysis,
		}
	}

	english, err := b.smartPath(ctx, query, history)
	if err != nil {
		// Degrade to the untranslated query rather than failing the request.
		logger.Warnf("bridge: llm translation failed, passing query through: %v", err)
		return &Result{
			EnglishQuery: query,
			Method:       schema.MethodNone,
			Duration:     time.Since(start),
			Analysis:     analysis,
		}
	}
	logger.Infof("bridge: smart path -> %q", english)
	return &Result{
		EnglishQuery: english,
		Method:       schema.MethodLLMAPI,
		Duration:     time.Since(start),
		Analysis:     analysis,
	}
}

// fastPath assembles an English search query from the humanized intent, up to
// MaxDictionaryHints dictionary terms and up to MaxEntityTerms entity terms,
// deduplicating tokens while preserving first-seen order.
func (b *Bridge) fastPath(analysis *schema.Analysis, hints []string) string {
	parts := []string{nlu.HumanizeIntent(analysis.Intent)}

	maxHints := b.Cfg.MaxDictionaryHintsOrDefault()
	if len(hints) > maxHints {
		hints = hints[:maxHints]
	}
	parts = append(parts, hints...)

	entityTerms := collectEntityTerms(analysis.Entities, b.Cfg.MaxEntityTermsOrDefault())
	parts = append(parts, entityTerms...)

	seen := make(map[string]struct{})
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		for _, token := range strings.Fields(strings.ToLower(part)) {
			if _, dup := seen[token]; dup {
				continue
			}
			seen[token] = struct{}{}
			tokens = append(tokens, token)
		}
	}
	return strings.Join(tokens, " ")
}

const smartPathSystem = `You translate Sinhala and romanized-Sinhala patient messages into English search queries for a kidney-disease knowledge base.
Return ONLY the English translation, no explanations.
Preserve numbers and drug names exactly.
Mandatory term mappings:
%s`

// smartPath asks the LLM for a translation, pinning temperature to 0 and
// passing the last assistant turn as disambiguating context.
func (b *Bridge) smartPath(ctx context.Context, query string, history []schema.ChatMessage) (string, error) {
	if b.LLM == nil {
		return "", fmt.Errorf("no llm provider configured")
	}

	messages := []schema.ChatMessage{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(smartPathSystem, nlu.AmbiguousGlossary())},
	}
	if last := lastAssistantTurn(history); last != "" {
		messages = append(messages, schema.ChatMessage{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("Doctor previously asked: %q\nPatient now says: %s", last, query),
		})
	} else {
		messages = append(messages, schema.ChatMessage{Role: llm.RoleUser, Content: query})
	}

	out, err := b.LLM.ChatCompletion(ctx, messages, 0)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("empty translation")
	}
	return out, nil
}

func collectEntityTerms(entities map[string][]string, max int) []string {
	if len(entities) == 0 {
		return nil
	}
	categories := make([]string, 0, len(entities))
	for cat := range entities {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	var terms []string
	for _, cat := range categories {
		for _, t := range entities[cat] {
			if t = strings.TrimSpace(t); t == "" {
				continue
			}
			terms = append(terms, t)
			if len(terms) == max {
				return terms
			}
		}
	}
	return terms
}

func lastAssistantTurn(history []schema.ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == llm.RoleAssistant {
			return history[i].Content
		}
	}
	return ""
}
