package language

import "strings"

// Detector classifies which language a response should be delivered in. It
// never fails: every input maps to "en" or "si".

// Sinhala Unicode block.
const (
	sinhalaBlockStart = 0x0D80
	sinhalaBlockEnd   = 0x0DFF
)

// englishKeywords are common English function and medical words. Matches are
// counted as whole words only.
var englishKeywords = []string{
	"the", "is", "are", "what", "how", "why", "when", "can", "should",
	"my", "i", "you", "have", "has", "do", "does", "about", "tell",
	"kidney", "kidneys", "diet", "food", "water", "pain", "blood",
	"pressure", "urine", "doctor", "medicine", "medicines", "symptoms",
	"swelling", "dialysis", "creatinine", "ckd", "disease", "eat",
}

// singlishKeywords are romanized-Sinhala colloquial and medical words seen in
// patient messages.
var singlishKeywords = []string{
	"mata", "mage", "oyata", "mama", "api", "thiyenawa", "thiyenwa",
	"wenawa", "ridenawa", "rideneva", "idimila", "idimenawa", "amaru",
	"amarui", "puluwan", "puluwanda", "kohomada", "monawada", "mokadda",
	"epa", "ona", "oni", "nathi", "neda", "bada", "kakul", "oluwa",
	"wakugadu", "mutra", "le", "una", "kama", "wathura", "behet",
	"beheth", "dawasata", "godak", "tikak", "hari",
}

// Detect returns the target language for a query: "si" when any Sinhala
// codepoint appears (absolute signal), otherwise by keyword score, defaulting
// to "en". Word matching pads both sides so "le" does not fire inside "table".
func Detect(query string) string {
	for _, r := range query {
		if r >= sinhalaBlockStart && r <= sinhalaBlockEnd {
			return "si"
		}
	}

	padded := " " + strings.ToLower(query) + " "
	englishScore := scoreKeywords(padded, englishKeywords)
	singlishScore := scoreKeywords(padded, singlishKeywords)

	if englishScore > 0 && englishScore >= singlishScore {
		return "en"
	}
	if singlishScore > 0 {
		return "si"
	}
	return "en"
}

func scoreKeywords(padded string, keywords []string) int {
	score := 0
	for _, kw := range keywords {
		score += strings.Count(padded, " "+kw+" ")
	}
	return score
}
