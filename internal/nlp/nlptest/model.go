// Package nlptest provides a deterministic nlp.Model for tests.
package nlptest

import (
	"strings"
	"unicode"

	"resume-ats/internal/nlp"
)

// Model splits on non-alphanumerics, tags every word as a noun unless listed in
// Tags, and lemmatizes through Lemmas when present.
type Model struct {
	Tags   map[string]nlp.CoarsePOS
	Lemmas map[string]string
	Err    error
}

// Analyze implements nlp.Model.
func (m Model) Analyze(text string) ([]nlp.Token, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	tokens := make([]nlp.Token, 0, len(words))
	for _, w := range words {
		lower := strings.ToLower(w)
		pos := nlp.POSNoun
		if tag, ok := m.Tags[lower]; ok {
			pos = tag
		}
		lemma := lower
		if l, ok := m.Lemmas[lower]; ok {
			lemma = l
		}
		tokens = append(tokens, nlp.Token{
			Text:   w,
			Lemma:  lemma,
			POS:    pos,
			IsStop: nlp.IsStopWord(lower),
		})
	}
	return tokens, nil
}
