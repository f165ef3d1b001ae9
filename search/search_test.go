package search

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HasinduNiran/Nephro-AI-sub000/common/logger"
	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	m.Run()
}

// fakeRetriever returns a canned result set per query string.
type fakeRetriever struct {
	results map[string][]schema.SearchResult
	calls   []string
}

func (f *fakeRetriever) Type() string { return "fake" }

func (f *fakeRetriever) Search(_ context.Context, query string, _ int, _ map[string]interface{}) ([]schema.SearchResult, error) {
	f.calls = append(f.calls, query)
	return f.results[query], nil
}

// fakeReranker returns fixed logits keyed by document id.
type fakeReranker struct {
	logits map[string]float64
}

func (f *fakeReranker) Score(_ context.Context, _ string, documents []string) ([]float64, error) {
	out := make([]float64, len(documents))
	for i, d := range documents {
		out[i] = f.logits[d]
	}
	return out, nil
}

type fakeClassifier struct {
	analysis *schema.Analysis
	err      error
}

func (f *fakeClassifier) Classify(context.Context, string) (*schema.Analysis, error) {
	return f.analysis, f.err
}

func doc(id string) schema.SearchResult {
	return schema.SearchResult{Document: schema.Document{ID: id, Content: id}}
}

func TestSearch_DedupAcrossVariants(t *testing.T) {
	ret := &fakeRetriever{results: map[string][]schema.SearchResult{
		"dialysis schedule":                        {doc("a"), doc("b")},
		"dialysis schedule machine":                {doc("b"), doc("c")},
		"ask dialysis dialysis schedule":           {doc("a"), doc("d")},
	}}
	e := &Engine{
		Retriever: ret,
		Classifier: &fakeClassifier{analysis: &schema.Analysis{
			Intent:   "ask_dialysis",
			Entities: map[string][]string{"equipment": {"machine"}},
		}},
	}
	res, err := e.Search(context.Background(), "dialysis schedule")
	require.NoError(t, err)

	ids := make(map[string]int)
	for _, c := range res.Candidates {
		ids[c.Document.ID]++
	}
	for id, n := range ids {
		assert.Equal(t, 1, n, "document %s appeared %d times", id, n)
	}
	assert.Len(t, res.Candidates, 4)
}

func TestSearch_FirstOccurrenceKeepsSourceQuery(t *testing.T) {
	ret := &fakeRetriever{results: map[string][]schema.SearchResult{
		"q":          {doc("shared")},
		"q extra":    {doc("shared"), doc("only-second")},
		"ask diet q": nil,
	}}
	e := &Engine{
		Retriever: ret,
		Classifier: &fakeClassifier{analysis: &schema.Analysis{
			Intent:   "ask_diet",
			Entities: map[string][]string{"food": {"extra"}},
		}},
	}
	res, err := e.Search(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 2)
	for _, c := range res.Candidates {
		if c.Document.ID == "shared" {
			assert.Equal(t, "q", c.SourceQuery)
		}
	}
}

func TestSearch_RelevanceGateMayEmptyList(t *testing.T) {
	ret := &fakeRetriever{results: map[string][]schema.SearchResult{
		"q": {doc("weak1"), doc("weak2")},
	}}
	e := &Engine{
		Retriever: ret,
		// logits of -10 give a sigmoid probability well under the 0.01 gate
		Reranker: &fakeReranker{logits: map[string]float64{"weak1": -10, "weak2": -10}},
	}
	res, err := e.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
}

func TestSearch_GateKeepsStrongCandidates(t *testing.T) {
	ret := &fakeRetriever{results: map[string][]schema.SearchResult{
		"q": {doc("weak"), doc("strong")},
	}}
	e := &Engine{
		Retriever: ret,
		Reranker:  &fakeReranker{logits: map[string]float64{"weak": -10, "strong": 2}},
	}
	res, err := e.Search(context.Background(), "q")
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "strong", res.Candidates[0].Document.ID)
	assert.Greater(t, res.Candidates[0].Score, 0.01)
}

func TestSearch_EmptyStoreIsNotAnError(t *testing.T) {
	e := &Engine{Retriever: &fakeRetriever{results: map[string][]schema.SearchResult{}}}
	res, err := e.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, res.Candidates)
}

func TestSearch_MaxResultsCap(t *testing.T) {
	many := make([]schema.SearchResult, 8)
	logits := map[string]float64{}
	for i := range many {
		id := fmt.Sprintf("d%d", i)
		many[i] = doc(id)
		logits[id] = float64(i)
	}
	e := &Engine{
		Retriever: &fakeRetriever{results: map[string][]schema.SearchResult{"q": many}},
		Reranker:  &fakeReranker{logits: logits},
	}
	res, err := e.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Len(t, res.Candidates, config.DefaultMaxResults)
	// highest logit first after sigmoid ordering
	assert.Equal(t, "d7", res.Candidates[0].Document.ID)
}

func TestSearch_VariantCapIsThree(t *testing.T) {
	ret := &fakeRetriever{results: map[string][]schema.SearchResult{}}
	e := &Engine{
		Retriever: ret,
		Classifier: &fakeClassifier{analysis: &schema.Analysis{
			Intent:   "ask_diet",
			Entities: map[string][]string{"food": {"rice", "salt", "fish", "meat"}},
		}},
	}
	_, err := e.Search(context.Background(), "what can I eat")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(ret.calls), config.DefaultMaxVariants)
}
