// Package classifier assigns a service category to free-text job request
// fields using keyword dictionaries with fuzzy matching. It is a pure
// in-memory computation: callers run it before persisting a request.
package classifier

import (
	"strings"
	"unicode"
)

// minTokenLength filters out tokens too short to match meaningfully.
const minTokenLength = 4

// Classify maps the free-text fields of a job request to a category name.
// All four fields are optional; empty input yields CategoryGeneral. The
// function is total over string inputs and never panics.
func Classify(title, description, remarks, purpose string) string {
	tokens := tokenize(title + " " + description + " " + remarks + " " + purpose)

	scores := make([]int, len(categories))
	matched := make([]map[string]bool, len(categories))
	for i := range categories {
		matched[i] = make(map[string]bool)
	}

	for _, token := range tokens {
		for i, cat := range categories {
			if matchToken(token, cat, matched[i]) {
				scores[i]++
			}
		}
	}

	best := -1
	bestScore := 0
	for i, score := range scores {
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best < 0 {
		return CategoryGeneral
	}
	return categories[best].Name
}

// matchToken scores a single token against one category. Exact keyword
// hits win outright; otherwise candidates sharing the token's 4-char
// prefix are tried with a prefix-extension check and then a bounded
// edit-distance check. Each keyword counts at most once per request.
func matchToken(token string, cat category, matched map[string]bool) bool {
	for _, kw := range cat.Keywords {
		if kw == token && !matched[kw] {
			matched[kw] = true
			return true
		}
	}

	candidates := fuzzyIndex[cat.Name][token[:prefixLength]]
	for _, kw := range candidates {
		if matched[kw] {
			continue
		}
		if strings.HasPrefix(kw, token) && len(kw)-len(token) <= 2 {
			matched[kw] = true
			return true
		}
		diff := len(kw) - len(token)
		if diff < 0 {
			diff = -diff
		}
		if diff <= 2 && levenshtein(token, kw) <= 2 {
			matched[kw] = true
			return true
		}
	}
	return false
}

// tokenize lowercases the text, splits on runs of non-word characters
// and drops tokens shorter than minTokenLength.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// levenshtein computes the classic dynamic-programming edit distance
// (unit-cost insert, delete, substitute) over the full pair.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
