package vectordb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/HasinduNiran/Nephro-AI-sub000/common/httpx"
	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// ChromaStore queries a ChromaDB server over its HTTP API.
type ChromaStore struct {
	baseURL    string
	collection string
	client     *httpx.Client
}

func NewChromaStore(cfg *config.VectorDBConfig) (*ChromaStore, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("chroma host is required")
	}
	port := cfg.Port
	if port == 0 {
		port = 8000
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("chroma collection is required")
	}
	return &ChromaStore{
		baseURL:    fmt.Sprintf("http://%s:%d", cfg.Host, port),
		collection: cfg.Collection,
		client:     httpx.NewFromConfig(nil),
	}, nil
}

type chromaQueryReq struct {
	QueryEmbeddings [][]float32            `json:"query_embeddings"`
	NResults        int                    `json:"n_results"`
	Where           map[string]interface{} `json:"where,omitempty"`
	Include         []string               `json:"include"`
}

type chromaQueryResp struct {
	IDs       [][]string                 `json:"ids"`
	Documents [][]string                 `json:"documents"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Distances [][]float64                `json:"distances"`
}

func (s *ChromaStore) SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error) {
	topK := 10
	var filter map[string]interface{}
	if opts != nil {
		if opts.TopK > 0 {
			topK = opts.TopK
		}
		filter = opts.Filter
	}
	body := chromaQueryReq{
		QueryEmbeddings: [][]float32{vector},
		NResults:        topK,
		Where:           filter,
		Include:         []string{"documents", "metadatas", "distances"},
	}
	bs, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/api/v1/collections/%s/query", s.baseURL, s.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chroma query failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chroma query returned status %d", resp.StatusCode)
	}
	var out chromaQueryResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode chroma response: %w", err)
	}
	if len(out.IDs) == 0 {
		return nil, nil
	}

	ids := out.IDs[0]
	results := make([]schema.SearchResult, 0, len(ids))
	for i, id := range ids {
		doc := schema.Document{ID: id}
		if len(out.Documents) > 0 && i < len(out.Documents[0]) {
			doc.Content = out.Documents[0][i]
		}
		if len(out.Metadatas) > 0 && i < len(out.Metadatas[0]) {
			doc.Metadata = out.Metadatas[0][i]
		}
		score := 0.0
		if len(out.Distances) > 0 && i < len(out.Distances[0]) {
			// Chroma returns distances; flip to a similarity-flavored score so
			// ordering semantics match the milvus backend.
			score = 1.0 / (1.0 + out.Distances[0][i])
		}
		if opts != nil && opts.Threshold > 0 && score < opts.Threshold {
			continue
		}
		results = append(results, schema.SearchResult{Document: doc, Score: score})
	}
	return results, nil
}
