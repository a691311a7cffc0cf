package recommendations

import (
	"sort"
	"strings"
	"unicode"
)

// MaxRecommendations caps the list returned by Generate.
const MaxRecommendations = 7

var (
	severityWeight = map[string]int{"critical": 3, "warning": 2, "info": 1}
	impactWeight   = map[string]int{"high": 3, "medium": 2, "low": 1}
	categoryWeight = map[string]int{"ATS": 5, "SKILLS": 4, "EXPERIENCE": 3, "EDUCATION": 2, "STRUCTURE": 1}
)

type mapper func(Input) []Recommendation

var mappers = []mapper{
	fromUnreadableText,
	fromMissingSections,
	fromSkills,
	fromEducationAndExperience,
	fromMissingJDKeywords,
	fromLowMatch,
}

// Generate builds deterministic recommendations from an analysis. Mappers that
// emit the same ID are folded into one entry before ranking.
func Generate(input Input) []Recommendation {
	var candidates []Recommendation
	for _, m := range mappers {
		candidates = append(candidates, m(input)...)
	}

	out := dedupe(candidates)
	sortRecommendations(out)
	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// rank orders recommendations by severity, then impact, then category.
type rank [3]int

func rankOf(r Recommendation) rank {
	return rank{
		severityWeight[strings.ToLower(strings.TrimSpace(r.Severity))],
		impactWeight[strings.ToLower(strings.TrimSpace(r.Impact))],
		categoryWeight[strings.ToUpper(strings.TrimSpace(r.Category))],
	}
}

func (a rank) outranks(b rank) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

func sortRecommendations(items []Recommendation) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := rankOf(items[i]), rankOf(items[j])
		if ri != rj {
			return ri.outranks(rj)
		}
		return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
	})
}

// dedupe keeps the first position of every ID and merges later duplicates into it.
func dedupe(items []Recommendation) []Recommendation {
	index := make(map[string]int, len(items))
	out := make([]Recommendation, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		if i, ok := index[id]; ok {
			out[i] = merge(out[i], item)
			continue
		}
		index[id] = len(out)
		out = append(out, item)
	}
	return out
}

// merge keeps the wording of the stronger recommendation and appends the weaker
// one's action when it says something different.
func merge(a, b Recommendation) Recommendation {
	primary, secondary := a, b
	if rankOf(b).outranks(rankOf(a)) {
		primary, secondary = b, a
	}
	primary.ID = a.ID
	if act := strings.TrimSpace(secondary.Action); act != "" && !strings.Contains(primary.Action, act) {
		primary.Action = strings.TrimSpace(primary.Action + " " + act)
	}
	return primary
}

// slugify upper-cases s and joins its alphanumeric runs with underscores.
func slugify(s string) string {
	parts := strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(parts) == 0 {
		return "ITEM"
	}
	return strings.Join(parts, "_")
}

// uniqueSortedStrings trims, drops blanks and case-insensitive repeats, and sorts
// case-insensitively. The first spelling seen wins.
func uniqueSortedStrings(items []string) []string {
	byKey := make(map[string]string, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if _, dup := byKey[key]; item == "" || dup {
			continue
		}
		byKey[key] = item
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = byKey[k]
	}
	return out
}
