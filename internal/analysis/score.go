package analysis

import "math"

// Composite score weights. They sum to 1.
const (
	WeightKeyword    = 0.4
	WeightTFIDF      = 0.2
	WeightEducation  = 0.2
	WeightExperience = 0.2
)

// SectionPoints is awarded per scored section found in the text.
const SectionPoints = 5

// DefaultMissingKeywordLimit caps MissingKeywords in analysis results.
const DefaultMissingKeywordLimit = 25

// KeywordMatchScore is the share of jd lemmas that also occur in resume, 0-100.
func KeywordMatchScore(resume, jd TokenSet) float64 {
	if jd.Len() == 0 {
		return 0
	}
	matched := resume.Intersect(jd).Len()
	return clampScore(round2(float64(matched) / float64(jd.Len()) * 100))
}

// SectionBonus awards SectionPoints for each of Skills, Education, Projects and
// Experience present in text.
func SectionBonus(text string) int {
	return bonusFor(DetectSections(text))
}

// CompositeScore blends the sub-scores into the final ATS score.
func CompositeScore(keyword, tfidf float64, eduMatch, expMatch bool) float64 {
	score := WeightKeyword*keyword + WeightTFIDF*tfidf
	if eduMatch {
		score += WeightEducation * 100
	}
	if expMatch {
		score += WeightExperience * 100
	}
	return clampScore(round2(score))
}

// MissingKeywords lists jd lemmas absent from resume in ascending order, at most limit
// of them. A limit <= 0 returns all of them.
func MissingKeywords(resume, jd TokenSet, limit int) []string {
	out := []string{}
	for _, lemma := range jd.Sorted() {
		if resume.Has(lemma) {
			continue
		}
		out = append(out, lemma)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
