// Package nlp adapts third-party tokenizer, tagger and lemmatizer libraries to the
// small token model the analysis pipeline consumes.
package nlp

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// CoarsePOS is a reduced part-of-speech tag set.
type CoarsePOS string

const (
	POSNoun      CoarsePOS = "NOUN"
	POSPropNoun  CoarsePOS = "PROPN"
	POSAdjective CoarsePOS = "ADJ"
	POSVerb      CoarsePOS = "VERB"
	POSOther     CoarsePOS = "X"
)

// Token is one analyzed word.
type Token struct {
	Text   string
	Lemma  string
	POS    CoarsePOS
	IsStop bool
}

// Model turns text into tokens. Implementations must be safe for concurrent use.
type Model interface {
	Analyze(text string) ([]Token, error)
}

// ProseModel tags with prose and lemmatizes with golem's English dictionary.
// The tagger weights and the dictionary are loaded once in NewProseModel and only
// read afterwards, so a single instance can be shared by every request.
type ProseModel struct {
	tagger     *prose.Model
	lemmatizer *golem.Lemmatizer
}

// NewProseModel loads the tagger weights and the lemmatizer dictionary. It is slow;
// call it once at startup.
func NewProseModel() (*ProseModel, error) {
	seed, err := prose.NewDocument("",
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("load tagger: %w", err)
	}
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemmatizer: %w", err)
	}
	return &ProseModel{tagger: seed.Model, lemmatizer: lem}, nil
}

// Analyze tokenizes and tags text. Each call builds its own prose document around
// the shared tagger.
func (m *ProseModel) Analyze(text string) ([]Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text,
		prose.UsingModel(m.tagger),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("tag text: %w", err)
	}

	raw := doc.Tokens()
	tokens := make([]Token, 0, len(raw))
	for _, tok := range raw {
		lower := strings.ToLower(tok.Text)
		tokens = append(tokens, Token{
			Text:   tok.Text,
			Lemma:  m.lemma(lower),
			POS:    CoarseFromPenn(tok.Tag),
			IsStop: IsStopWord(lower),
		})
	}
	return tokens, nil
}

func (m *ProseModel) lemma(word string) string {
	if m == nil || m.lemmatizer == nil || word == "" {
		return word
	}
	if l := m.lemmatizer.Lemma(word); l != "" {
		return strings.ToLower(l)
	}
	return word
}

// CoarseFromPenn maps a Penn Treebank tag onto CoarsePOS.
func CoarseFromPenn(tag string) CoarsePOS {
	switch tag {
	case "NN", "NNS":
		return POSNoun
	case "NNP", "NNPS":
		return POSPropNoun
	case "JJ", "JJR", "JJS":
		return POSAdjective
	case "VB", "VBD", "VBG", "VBN", "VBP", "VBZ":
		return POSVerb
	default:
		return POSOther
	}
}

// IsContent reports whether the tag carries keyword meaning.
func (p CoarsePOS) IsContent() bool {
	switch p {
	case POSNoun, POSPropNoun, POSAdjective, POSVerb:
		return true
	default:
		return false
	}
}
