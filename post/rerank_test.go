package post

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

func TestHTTPReranker_Score(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string   `json:"query"`
			Documents []string `json:"documents"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		scores := make([]float64, len(req.Documents))
		for i := range scores {
			scores[i] = float64(i) - 1 // -1, 0, 1, ...
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"scores": scores})
	}))
	defer srv.Close()

	rr := NewHTTPReranker(srv.URL, "")
	scores, err := rr.Score(context.Background(), "q", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 0, 1}, scores)
}

func TestHTTPReranker_ScoreCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"scores": []float64{0.5}})
	}))
	defer srv.Close()

	rr := NewHTTPReranker(srv.URL, "")
	_, err := rr.Score(context.Background(), "q", []string{"a", "b"})
	assert.Error(t, err)
}

func TestSigmoid(t *testing.T) {
	assert.InDelta(t, 0.5, Sigmoid(0), 1e-9)
	assert.Greater(t, Sigmoid(4), 0.98)
	assert.Less(t, Sigmoid(-4), 0.02)
}

func TestApplyScores_SortsDescending(t *testing.T) {
	in := []schema.SearchResult{
		{Document: schema.Document{ID: "low"}},
		{Document: schema.Document{ID: "high"}},
	}
	out := ApplyScores(in, []float64{-2, 3})
	assert.Equal(t, "high", out[0].Document.ID)
	assert.Equal(t, "low", out[1].Document.ID)
	assert.Greater(t, out[0].Score, out[1].Score)
}
