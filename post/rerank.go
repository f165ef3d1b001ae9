package post

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"

	"github.com/HasinduNiran/Nephro-AI-sub000/common/httpx"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// Reranker scores candidates against the query, typically with an external
// cross-encoder service. Scores come back as raw logits; callers normalize
// them with Sigmoid so different model scales remain comparable.
type Reranker interface {
	Score(ctx context.Context, query string, documents []string) ([]float64, error)
}

// HTTPReranker posts a JSON payload to an external cross-encoder service.
// Request body:  {"query":"...","documents":["...",...]}
// Response body: {"scores":[1.3,-0.2,...]}  (raw logits, one per document)
type HTTPReranker struct {
	Endpoint string
	APIKey   string
	Client   *httpx.Client
}

type rerankReq struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

type rerankResp struct {
	Scores []float64 `json:"scores"`
}

func (h *HTTPReranker) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	if h.Endpoint == "" {
		return nil, fmt.Errorf("reranker endpoint not configured")
	}
	bs, _ := json.Marshal(rerankReq{Query: query, Documents: documents})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(bs))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.APIKey)
	}
	if h.Client == nil {
		h.Client = httpx.NewFromConfig(nil)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("reranker returned status %d", resp.StatusCode)
	}
	var rr rerankResp
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("decode reranker response: %w", err)
	}
	if len(rr.Scores) != len(documents) {
		return nil, fmt.Errorf("reranker returned %d scores for %d documents", len(rr.Scores), len(documents))
	}
	return rr.Scores, nil
}

func NewHTTPReranker(endpoint, apiKey string) *HTTPReranker {
	return &HTTPReranker{Endpoint: endpoint, APIKey: apiKey}
}

// Sigmoid maps a raw cross-encoder logit to a bounded (0,1) probability.
func Sigmoid(logit float64) float64 {
	return 1.0 / (1.0 + math.Exp(-logit))
}

// ApplyScores attaches sigmoid-normalized scores to candidates and sorts
// descending. Input slices must be the same length.
func ApplyScores(in []schema.SearchResult, logits []float64) []schema.SearchResult {
	out := make([]schema.SearchResult, len(in))
	copy(out, in)
	for i := range out {
		out[i].Score = Sigmoid(logits[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
