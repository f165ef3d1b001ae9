package nlu

import "strings"

// Static bilingual medical dictionary. Keys cover both romanized ("Singlish")
// and Sinhala-script spellings; values are the English search terms used to
// build fast-path queries and to pin ambiguous terms in LLM translation
// prompts.

var medicalDictionary = map[string]string{
	// anatomy / conditions
	"wakugadu":  "kidney",
	"වකුගඩු":    "kidney",
	"bada":      "stomach",
	"බඩ":        "stomach",
	"kakul":     "legs",
	"කකුල්":     "legs",
	"oluwa":     "head",
	"ඔළුව":      "head",
	"papuwa":    "chest",
	"පපුව":      "chest",
	"le":        "blood",
	"ලේ":        "blood",
	"mutra":     "urine",
	"මුත්‍රා":   "urine",
	"hussma":    "breathing",
	"හුස්ම":     "breathing",
	// symptoms
	"ridenawa":  "pain",
	"රිදෙනවා":   "pain",
	"kakkuma":   "pain",
	"කැක්කුම":   "pain",
	"idimila":   "swelling",
	"ඉදිමිලා":   "swelling",
	"idimenawa": "swelling",
	"una":       "fever",
	"උණ":        "fever",
	"wamanaya":  "vomiting",
	"වමනය":      "vomiting",
	"karakawilla": "dizziness",
	"කරකැවිල්ල": "dizziness",
	"mahansi":   "tired",
	"මහන්සි":    "tired",
	// care / lifestyle
	"behet":     "medicine",
	"beheth":    "medicine",
	"බෙහෙත්":    "medicine",
	"kama":      "food",
	"කෑම":       "food",
	"wathura":   "water",
	"වතුර":      "water",
	"lunu":      "salt",
	"ලුණු":      "salt",
	"dosthara":  "doctor",
	"දොස්තර":    "doctor",
}

// ambiguousTerms maps severity adjectives and symptom nouns whose literal
// translation misleads retrieval. Included verbatim in the smart-path
// translation prompt as a mandatory glossary.
var ambiguousTerms = map[string]string{
	"godak":   "a lot / severe",
	"tikak":   "slightly / mild",
	"hari":    "very (intensifier, not 'correct')",
	"amaru":   "difficulty / distress",
	"idimila": "swelling (oedema, not growth)",
	"kakkuma": "ache / pain",
}

// DictionaryHints returns English terms for every known dictionary word found
// in the query, in first-seen order, deduplicated.
func DictionaryHints(query string) []string {
	padded := " " + strings.ToLower(query) + " "
	seen := make(map[string]struct{})
	hints := make([]string, 0, 4)
	for _, field := range strings.Fields(padded) {
		word := strings.Trim(field, ".,!?;:\"'()")
		eng, ok := medicalDictionary[word]
		if !ok {
			continue
		}
		if _, dup := seen[eng]; dup {
			continue
		}
		seen[eng] = struct{}{}
		hints = append(hints, eng)
	}
	return hints
}

// AmbiguousGlossary renders the mandatory term mappings for translation
// prompts, one "term = meaning" pair per line.
func AmbiguousGlossary() string {
	// fixed order keeps prompts deterministic
	order := []string{"godak", "tikak", "hari", "amaru", "idimila", "kakkuma"}
	var b strings.Builder
	for _, term := range order {
		b.WriteString(term)
		b.WriteString(" = ")
		b.WriteString(ambiguousTerms[term])
		b.WriteString("\n")
	}
	return b.String()
}

// HumanizeIntent turns an intent label into plain search words:
// "ask_diet" -> "ask diet".
func HumanizeIntent(intent string) string {
	return strings.TrimSpace(strings.ReplaceAll(intent, "_", " "))
}
