package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmptyInput(t *testing.T) {
	assert.Equal(t, CategoryGeneral, Classify("", "", "", ""))
}

func TestClassifyUnrelatedText(t *testing.T) {
	got := Classify("Request for seminar materials", "need projector slides printed", "", "")
	assert.Equal(t, CategoryGeneral, got)
}

func TestClassifyExactKeyword(t *testing.T) {
	got := Classify("Broken faucet in faculty restroom", "", "", "")
	assert.Equal(t, CategoryPlumber, got)
}

func TestClassifyDeterministic(t *testing.T) {
	first := Classify("Flickering lights in Room 204", "the fluorescent bulb keeps dying", "", "")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify("Flickering lights in Room 204", "the fluorescent bulb keeps dying", "", ""))
	}
	assert.Equal(t, CategoryElectrician, first)
}

func TestClassifyFuzzyMisspelling(t *testing.T) {
	// "electricc" is within edit distance 2 of "electric".
	got := Classify("electricc problem in the library", "", "", "")
	assert.Equal(t, CategoryElectrician, got)

	// "faucit" shares the "fauc" prefix bucket and is within edit
	// distance 2 of "faucet".
	got = Classify("", "", "faucit dripping all night", "")
	assert.Equal(t, CategoryPlumber, got)
}

func TestClassifyPrefixExtension(t *testing.T) {
	// "plumb" extends to "plumber"/"plumbing" by at most two characters.
	got := Classify("plumb work needed", "", "", "")
	assert.Equal(t, CategoryPlumber, got)
}

func TestClassifyScoresFieldsTogether(t *testing.T) {
	// Two plumbing keywords spread across fields beat one electrical keyword.
	got := Classify("replace outlet cover", "toilet keeps running", "", "clogged drain near canteen")
	assert.Equal(t, CategoryPlumber, got)
}

func TestClassifyTieBreakDeclarationOrder(t *testing.T) {
	// One keyword each for electrician and plumber: electrician is
	// declared first and must win the tie.
	got := Classify("wiring and faucet concerns", "", "", "")
	assert.Equal(t, CategoryElectrician, got)
}

func TestClassifyShortTokensIgnored(t *testing.T) {
	// "saw" and "oil" are three characters and must not score.
	got := Classify("saw oil gas", "", "", "")
	assert.Equal(t, CategoryGeneral, got)
}

func TestClassifyKeywordCountedOnce(t *testing.T) {
	// Repeating the same keyword should not inflate its category past a
	// category matched by two distinct keywords.
	got := Classify("faucet faucet faucet", "wiring and lighting issues", "", "")
	assert.Equal(t, CategoryElectrician, got)
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"electric", "electricc", 1},
		{"faucet", "fawcet", 1},
		{"drain", "drainage", 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, levenshtein(tc.a, tc.b), "levenshtein(%q, %q)", tc.a, tc.b)
	}
}

func TestFuzzyIndexCoversEveryKeyword(t *testing.T) {
	for _, cat := range categories {
		buckets := fuzzyIndex[cat.Name]
		seen := make(map[string]int)
		for _, kws := range buckets {
			for _, kw := range kws {
				seen[kw]++
			}
		}
		for _, kw := range cat.Keywords {
			assert.Equal(t, 1, seen[kw], "keyword %q in category %q", kw, cat.Name)
		}
	}
}
