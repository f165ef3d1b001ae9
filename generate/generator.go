package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/HasinduNiran/Nephro-AI-sub000/common/logger"
	"github.com/HasinduNiran/Nephro-AI-sub000/llm"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

const (
	maxHistoryTurns = 4
	maxContextDocs  = 3

	// Token budget for the stitched document context. Documents past the
	// budget are truncated, never dropped silently mid-sentence.
	contextTokenBudget = 3000

	encodingName = "cl100k_base"
)

const triageSystem = `You are a kidney-health assistant for chronic kidney disease patients in Sri Lanka.
Answer ONLY from the provided context documents and the patient's clinical summary.
If the context does not cover the question, say you don't have that information and advise consulting the clinic.
Never invent lab values, dosages or diagnoses.
If the message describes chest pain, severe breathlessness, no urine output, or confusion, tell the patient to seek emergency care immediately before anything else.
Keep answers short, plain and reassuring.`

// Generator produces the final answer from retrieved documents, patient
// context and recent conversation history.
type Generator struct {
	LLM         llm.Provider
	Temperature float64
}

// Answer builds the triage prompt and asks the LLM. A provider failure is
// reported inside the response text so the pipeline always has something to
// return to the patient.
func (g *Generator) Answer(ctx context.Context, query string, docs []schema.SearchResult, patientContext string, history []schema.ChatMessage) string {
	messages := []schema.ChatMessage{
		{Role: llm.RoleSystem, Content: g.systemPrompt(docs, patientContext)},
	}
	messages = append(messages, recentTurns(history, maxHistoryTurns)...)
	messages = append(messages, schema.ChatMessage{Role: llm.RoleUser, Content: query})

	out, err := g.LLM.ChatCompletion(ctx, messages, g.Temperature)
	if err != nil {
		logger.Errorf("generate: llm call failed: %v", err)
		return fmt.Sprintf("I'm sorry, I couldn't process your question right now (%v). Please try again in a moment.", err)
	}
	return strings.TrimSpace(out)
}

func (g *Generator) systemPrompt(docs []schema.SearchResult, patientContext string) string {
	var sb strings.Builder
	sb.WriteString(triageSystem)
	if patientContext != "" {
		sb.WriteString("\n\nPatient clinical summary:\n")
		sb.WriteString(patientContext)
	}
	sb.WriteString("\n\nContext documents:\n")
	sb.WriteString(stitchContext(docs))
	return sb.String()
}

// stitchContext joins up to maxContextDocs documents under a shared token
// budget, truncating the document that crosses it.
func stitchContext(docs []schema.SearchResult) string {
	if len(docs) > maxContextDocs {
		docs = docs[:maxContextDocs]
	}
	if len(docs) == 0 {
		return "(no relevant documents found)"
	}

	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		// Without an encoder, fall back to joining untrimmed. The LLM
		// request may still succeed for typical document sizes.
		logger.Warnf("generate: tiktoken encoding %s unavailable: %v", encodingName, err)
		parts := make([]string, 0, len(docs))
		for i, d := range docs {
			parts = append(parts, fmt.Sprintf("[%d] %s", i+1, d.Document.Content))
		}
		return strings.Join(parts, "\n\n")
	}

	remaining := contextTokenBudget
	var parts []string
	for i, d := range docs {
		if remaining <= 0 {
			break
		}
		content := d.Document.Content
		tokens := enc.Encode(content, nil, nil)
		if len(tokens) > remaining {
			content = enc.Decode(tokens[:remaining])
			remaining = 0
		} else {
			remaining -= len(tokens)
		}
		parts = append(parts, fmt.Sprintf("[%d] %s", i+1, content))
	}
	return strings.Join(parts, "\n\n")
}

// recentTurns returns the last n history entries with roles intact.
func recentTurns(history []schema.ChatMessage, n int) []schema.ChatMessage {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
