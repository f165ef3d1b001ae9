package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
llm:
  model: gpt-4o-mini
  temperature: 0.3
embedding:
  model: text-embedding-3-small
vectordb:
  provider: chroma
  collection: ckd_knowledge
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "chroma", cfg.VectorDB.Provider)
	assert.Equal(t, DefaultTopK, cfg.Pipeline.Retrieval.TopKOrDefault())
}

func TestLoad_CollectsAllErrors(t *testing.T) {
	path := writeConfig(t, `
llm:
  temperature: 3.0
vectordb:
  provider: pinecone
pipeline:
  session:
    store: redis
`)
	_, err := Load(path)
	require.Error(t, err)
	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "llm.model")
	assert.Contains(t, fields, "llm.temperature")
	assert.Contains(t, fields, "vectordb.provider")
	assert.Contains(t, fields, "vectordb.collection")
	assert.Contains(t, fields, "pipeline.session.redis.addr")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
