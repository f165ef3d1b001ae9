package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("found %d configuration error(s):\n", len(errs)))
	for i, err := range errs {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Message))
	}
	return b.String()
}

// Validate validates the complete configuration
func (c *Config) Validate() error {
	var errs ValidationErrors

	errs = append(errs, c.validateLLM()...)
	errs = append(errs, c.validateEmbedding()...)
	errs = append(errs, c.validateVectorDB()...)
	errs = append(errs, c.validatePipeline()...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateLLM() ValidationErrors {
	var errs ValidationErrors
	if c.LLM.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "llm.model",
			Message: "llm model is required",
		})
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "llm.temperature",
			Message: fmt.Sprintf("llm temperature must be in [0, 2], got %v", c.LLM.Temperature),
		})
	}
	return errs
}

func (c *Config) validateEmbedding() ValidationErrors {
	var errs ValidationErrors
	if c.Embedding.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "embedding.model",
			Message: "embedding model is required",
		})
	}
	if c.Embedding.Dimensions < 0 {
		errs = append(errs, ValidationError{
			Field:   "embedding.dimensions",
			Message: "embedding dimensions must not be negative",
		})
	}
	return errs
}

func (c *Config) validateVectorDB() ValidationErrors {
	var errs ValidationErrors
	switch c.VectorDB.Provider {
	case "chroma", "milvus":
	case "":
		errs = append(errs, ValidationError{
			Field:   "vectordb.provider",
			Message: "vectordb provider is required",
		})
	default:
		errs = append(errs, ValidationError{
			Field:   "vectordb.provider",
			Message: fmt.Sprintf("unsupported vectordb provider %q (expected chroma or milvus)", c.VectorDB.Provider),
		})
	}
	if c.VectorDB.Collection == "" {
		errs = append(errs, ValidationError{
			Field:   "vectordb.collection",
			Message: "vectordb collection is required",
		})
	}
	return errs
}

func (c *Config) validatePipeline() ValidationErrors {
	var errs ValidationErrors
	p := c.Pipeline

	if p.Bridge.ConfidenceThreshold < 0 || p.Bridge.ConfidenceThreshold > 1 {
		errs = append(errs, ValidationError{
			Field:   "pipeline.bridge.confidence_threshold",
			Message: fmt.Sprintf("confidence threshold must be in [0, 1], got %v", p.Bridge.ConfidenceThreshold),
		})
	}
	if p.Retrieval.MinRelevance < 0 || p.Retrieval.MinRelevance > 1 {
		errs = append(errs, ValidationError{
			Field:   "pipeline.retrieval.min_relevance",
			Message: fmt.Sprintf("min relevance must be in [0, 1], got %v", p.Retrieval.MinRelevance),
		})
	}
	switch p.Session.Store {
	case "", "inmemory":
	case "redis":
		if p.Session.Redis.Addr == "" {
			errs = append(errs, ValidationError{
				Field:   "pipeline.session.redis.addr",
				Message: "redis addr is required when session store is redis",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "pipeline.session.store",
			Message: fmt.Sprintf("unsupported session store %q (expected inmemory or redis)", p.Session.Store),
		})
	}
	return errs
}
