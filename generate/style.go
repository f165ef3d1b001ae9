package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/HasinduNiran/Nephro-AI-sub000/common/logger"
	"github.com/HasinduNiran/Nephro-AI-sub000/llm"
	"github.com/HasinduNiran/Nephro-AI-sub000/metrics"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

const styleBackSystem = `Rewrite the following medical answer in simple, polite spoken Sinhala for a kidney patient.
Keep all numbers, drug names and lab values in their original form.
Use these term translations where they apply:
kidney = වකුගඩු
dialysis = ඩයලිසිස්
blood pressure = රුධිර පීඩනය
creatinine = ක්‍රියටිනින්
potassium = පොටෑසියම්
swelling = ඉදිමීම
urine = මුත්‍රා
Return ONLY the Sinhala text.`

// Styler renders an English answer in the patient's language.
type Styler struct {
	LLM llm.Provider
}

// ToTarget converts an English response for targetLang. English targets and
// responses that already contain Sinhala script pass through untouched; a
// failed rewrite falls back to the English text so the patient still gets an
// answer.
func (s *Styler) ToTarget(ctx context.Context, response, targetLang string) string {
	if targetLang != schema.LangSinhala {
		return response
	}
	if HasSinhala(response) {
		return response
	}
	if s.LLM == nil {
		metrics.IncStyleFallback()
		return response
	}

	messages := []schema.ChatMessage{
		{Role: llm.RoleSystem, Content: styleBackSystem},
		{Role: llm.RoleUser, Content: response},
	}
	out, err := s.LLM.ChatCompletion(ctx, messages, 0)
	if err != nil {
		logger.Warnf("generate: sinhala rewrite failed, answering in English: %v", err)
		metrics.IncStyleFallback()
		return response
	}
	out = strings.TrimSpace(out)
	if out == "" || !HasSinhala(out) {
		logger.Warnf("generate: sinhala rewrite returned %s, answering in English", describeReply(out))
		metrics.IncStyleFallback()
		return response
	}
	return out
}

// HasSinhala reports whether text contains at least one Sinhala codepoint.
func HasSinhala(text string) bool {
	for _, r := range text {
		if r >= 0x0D80 && r <= 0x0DFF {
			return true
		}
	}
	return false
}

func describeReply(out string) string {
	if out == "" {
		return "an empty reply"
	}
	return fmt.Sprintf("non-Sinhala text (%d chars)", len(out))
}
