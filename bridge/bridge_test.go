package bridge

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HasinduNiran/Nephro-AI-sub000/common/logger"
	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/llm"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	m.Run()
}

type fakeClassifier struct {
	analysis *schema.Analysis
	err      error
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (*schema.Analysis, error) {
	return f.analysis, f.err
}

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) ChatCompletion(ctx context.Context, messages []schema.ChatMessage, temperature float64) (string, error) {
	f.calls++
	if temperature != 0 {
		return "", fmt.Errorf("translation must run at temperature 0, got %v", temperature)
	}
	return f.reply, f.err
}

func TestToEnglish_FastPathSkipsLLM(t *testing.T) {
	mock := &fakeLLM{reply: "should never be used"}
	b := &Bridge{
		Classifier: &fakeClassifier{analysis: &schema.Analysis{
			Intent:     "ask_symptoms",
			Confidence: 0.9,
			Entities:   map[string][]string{"body_part": {"legs"}},
		}},
		LLM: mock,
	}

	res := b.ToEnglish(context.Background(), "mata kakul idimila", nil)
	require.NotNil(t, res)
	assert.Equal(t, schema.MethodSinhalaNLU, res.Method)
	assert.Zero(t, mock.calls, "confident classification must not hit the LLM")
	assert.Contains(t, res.EnglishQuery, "ask symptoms")
	assert.Contains(t, res.EnglishQuery, "swelling")
	assert.Contains(t, res.EnglishQuery, "legs")
}

func TestToEnglish_LowConfidenceUsesLLM(t *testing.T) {
	mock := &fakeLLM{reply: "why is my leg swelling"}
	b := &Bridge{
		Classifier: &fakeClassifier{analysis: &schema.Analysis{Intent: "ask_symptoms", Confidence: 0.3}},
		LLM:        mock,
	}

	res := b.ToEnglish(context.Background(), "mata godak amaru", nil)
	assert.Equal(t, schema.MethodLLMAPI, res.Method)
	assert.Equal(t, 1, mock.calls)
	assert.Equal(t, "why is my leg swelling", res.EnglishQuery)
}

func TestToEnglish_BoundaryConfidenceUsesLLM(t *testing.T) {
	// The gate is strict: confidence equal to the threshold is not enough
	// for the local path.
	mock := &fakeLLM{reply: "kidney pain"}
	b := &Bridge{
		Classifier: &fakeClassifier{analysis: &schema.Analysis{
			Intent:     "ask_symptoms",
			Confidence: config.DefaultConfidenceThreshold,
		}},
		LLM: mock,
	}

	res := b.ToEnglish(context.Background(), "mata amaru", nil)
	assert.Equal(t, schema.MethodLLMAPI, res.Method)
	assert.Equal(t, 1, mock.calls)
}

func TestToEnglish_FastPathDedupsTokens(t *testing.T) {
	b := &Bridge{
		Classifier: &fakeClassifier{analysis: &schema.Analysis{
			Intent:     "ask_symptoms",
			Confidence: 0.95,
			Entities:   map[string][]string{"symptom": {"swelling"}},
		}},
	}

	// "idimila" maps to "swelling"; the entity repeats it.
	res := b.ToEnglish(context.Background(), "kakul idimila", nil)
	assert.Equal(t, 1, strings.Count(res.EnglishQuery, "swelling"))
}

func TestToEnglish_FastPathCapsHintsAndEntities(t *testing.T) {
	b := &Bridge{
		Classifier: &fakeClassifier{analysis: &schema.Analysis{
			Intent:     "ask_symptoms",
			Confidence: 0.9,
			Entities: map[string][]string{
				"a": {"e1", "e2"},
				"b": {"e3", "e4"},
			},
		}},
		Cfg: config.BridgeConfig{MaxEntityTerms: 3},
	}

	res := b.ToEnglish(context.Background(), "wakugadu idimila ridenawa mutra le kiri", nil)
	for _, want := range []string{"e1", "e2", "e3"} {
		assert.Contains(t, res.EnglishQuery, want)
	}
	assert.NotContains(t, res.EnglishQuery, "e4")
}

func TestToEnglish_LLMFailureFallsBackToOriginal(t *testing.T) {
	b := &Bridge{
		Classifier: &fakeClassifier{analysis: &schema.Analysis{Confidence: 0.1}},
		LLM:        &fakeLLM{err: fmt.Errorf("upstream down")},
	}

	res := b.ToEnglish(context.Background(), "mata godak amaru", nil)
	assert.Equal(t, schema.MethodNone, res.Method)
	assert.Equal(t, "mata godak amaru", res.EnglishQuery)
}

func TestToEnglish_UsesLastAssistantTurn(t *testing.T) {
	var gotUser string
	b := &Bridge{
		LLM: &recordingLLM{reply: "two times a day", record: &gotUser},
	}

	history := []schema.ChatMessage{
		{Role: llm.RoleUser, Content: "beheth gana"},
		{Role: llm.RoleAssistant, Content: "How often do you take losartan?"},
	}
	res := b.ToEnglish(context.Background(), "dawasata deparak", history)
	assert.Equal(t, schema.MethodLLMAPI, res.Method)
	assert.Contains(t, gotUser, "How often do you take losartan?")
	assert.Contains(t, gotUser, "dawasata deparak")
}

type recordingLLM struct {
	reply  string
	record *string
}

func (r *recordingLLM) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	return r.reply, nil
}

func (r *recordingLLM) ChatCompletion(ctx context.Context, messages []schema.ChatMessage, temperature float64) (string, error) {
	for _, m := range messages {
		if m.Role == llm.RoleUser {
			*r.record = m.Content
		}
	}
	return r.reply, nil
}
