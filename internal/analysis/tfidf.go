package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"resume-ats/internal/nlp"
)

// Words of two or more letters, digits or underscores.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// TFIDFSimilarity scores how close resume is to jd on a 0-100 scale. Both texts form
// the whole corpus: raw term counts are weighted by the smoothed inverse document
// frequency ln((1+n)/(1+df))+1, L2-normalized, and compared by cosine.
func TFIDFSimilarity(resume, jd string) float64 {
	if strings.TrimSpace(jd) == "" {
		return 0
	}
	corpus := []map[string]float64{termCounts(jd), termCounts(resume)}

	df := make(map[string]int)
	for _, counts := range corpus {
		for term := range counts {
			df[term]++
		}
	}
	if len(df) == 0 {
		return 0
	}
	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	// Fixed order keeps float sums reproducible across calls.
	sort.Strings(vocab)

	n := float64(len(corpus))
	vectors := make([][]float64, len(corpus))
	for i, counts := range corpus {
		vec := make([]float64, len(vocab))
		var norm float64
		for j, term := range vocab {
			tf := counts[term]
			if tf == 0 {
				continue
			}
			w := tf * (math.Log((1+n)/(1+float64(df[term]))) + 1)
			vec[j] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] /= norm
			}
		}
		vectors[i] = vec
	}

	var dot float64
	for j := range vocab {
		dot += vectors[0][j] * vectors[1][j]
	}
	return clampScore(round2(dot * 100))
}

func termCounts(text string) map[string]float64 {
	counts := make(map[string]float64)
	for _, term := range termPattern.FindAllString(strings.ToLower(text), -1) {
		if nlp.IsStopWord(term) {
			continue
		}
		counts[term]++
	}
	return counts
}
