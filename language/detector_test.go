package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_SinhalaScriptShortCircuits(t *testing.T) {
	cases := []string{
		"මට බඩ රිදෙනවා",
		"what should I eat? මට කියන්න",
		"le වල sugar",
	}
	for _, q := range cases {
		assert.Equal(t, "si", Detect(q), "query: %s", q)
	}
}

func TestDetect_EnglishKeywords(t *testing.T) {
	assert.Equal(t, "en", Detect("What is CKD and how does it affect my kidneys"))
	assert.Equal(t, "en", Detect("can I drink more water"))
}

func TestDetect_SinglishKeywords(t *testing.T) {
	assert.Equal(t, "si", Detect("Mata kakul idimila thiyenawa"))
	assert.Equal(t, "si", Detect("wakugadu amaru godak"))
}

func TestDetect_EnglishWinsTies(t *testing.T) {
	// one english word vs one singlish word: english >= singlish wins
	assert.Equal(t, "en", Detect("kidney wakugadu"))
}

func TestDetect_DefaultsToEnglish(t *testing.T) {
	assert.Equal(t, "en", Detect(""))
	assert.Equal(t, "en", Detect("xyzzy 12345"))
}

func TestDetect_NoPartialWordMatches(t *testing.T) {
	// "le" (blood) must not match inside "table", "mata" not inside "automatic"
	assert.Equal(t, "en", Detect("the table is automatic"))
}
