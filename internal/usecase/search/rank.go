package search

import (
	"strings"

	"github.com/kailas-cloud/nearby/internal/domain/projection"
)

// Text match scores.
const (
	ScoreExact     = 3.0
	ScorePhrase    = 2.0
	ScoreSubstring = 1.0
	ScoreOverlap   = 0.5
)

// scoreEntry scores the entry by its best matching term or shop name.
// Matched strings are returned in entry order: terms, then the shop name.
func scoreEntry(query string, e *projection.Entry) (float64, []string) {
	qTokens := splitQuery(query)

	var best float64
	var matched []string
	check := func(s string) {
		sc := scoreText(query, qTokens, s)
		if sc == 0 {
			return
		}
		matched = append(matched, s)
		if sc > best {
			best = sc
		}
	}
	for _, t := range e.Terms() {
		check(t)
	}
	check(e.ShopName())
	return best, matched
}

// scoreText compares a normalized (lowercase, single-spaced) query against text.
func scoreText(query string, qTokens []string, text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 || len(qTokens) == 0 {
		return 0
	}
	norm := strings.Join(words, " ")

	switch {
	case norm == query:
		return ScoreExact
	case containsPhrase(words, qTokens):
		return ScorePhrase
	case strings.Contains(norm, query):
		return ScoreSubstring
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	found := 0
	for _, q := range qTokens {
		if _, ok := set[q]; ok {
			found++
		}
	}
	return ScoreOverlap * float64(found) / float64(len(qTokens))
}

// containsPhrase reports whether phrase occurs in words as a run of whole words.
func containsPhrase(words, phrase []string) bool {
	for i := 0; i+len(phrase) <= len(words); i++ {
		ok := true
		for j, p := range phrase {
			if words[i+j] != p {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func splitQuery(q string) []string { return strings.Fields(q) }
