package analysis

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"resume-ats/internal/nlp"
)

// TokenSet is an unordered set of lemmas.
type TokenSet map[string]struct{}

// NewTokenSet builds a set from the given lemmas.
func NewTokenSet(items ...string) TokenSet {
	set := make(TokenSet, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// Len returns the number of lemmas.
func (s TokenSet) Len() int {
	return len(s)
}

// Has reports whether the lemma is present.
func (s TokenSet) Has(lemma string) bool {
	_, ok := s[lemma]
	return ok
}

// Intersect returns the lemmas present in both sets.
func (s TokenSet) Intersect(other TokenSet) TokenSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(TokenSet, len(small))
	for lemma := range small {
		if large.Has(lemma) {
			out[lemma] = struct{}{}
		}
	}
	return out
}

// Sorted returns the lemmas in ascending order.
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for lemma := range s {
		out = append(out, lemma)
	}
	sort.Strings(out)
	return out
}

// ExtractKeywords returns the content-bearing lemmas of text: nouns, proper nouns,
// adjectives and verbs that are not stop words.
func ExtractKeywords(model nlp.Model, text string) (TokenSet, error) {
	set := TokenSet{}
	if strings.TrimSpace(text) == "" {
		return set, nil
	}
	tokens, err := model.Analyze(strings.ToLower(text))
	if err != nil {
		return nil, fmt.Errorf("analyze text: %w", err)
	}
	for _, tok := range tokens {
		if tok.IsStop || !tok.POS.IsContent() {
			continue
		}
		lemma := strings.TrimSpace(tok.Lemma)
		if !hasWordRune(lemma) {
			continue
		}
		set[lemma] = struct{}{}
	}
	return set, nil
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
