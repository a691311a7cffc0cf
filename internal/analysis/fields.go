package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"resume-ats/internal/nlp"
	"resume-ats/internal/shared/telemetry"
)

// SkillExtractor pulls skill items out of resume text.
type SkillExtractor interface {
	Extract(text string) []string
}

// EducationExtractor pulls degree mentions out of resume text.
type EducationExtractor interface {
	Extract(text string) []string
}

// ExperienceExtractor pulls "<title> (<date>)" entries out of resume text.
type ExperienceExtractor interface {
	Extract(text string) []string
}

// HeuristicSkills reads the list that follows each skill-bearing heading. A span ends
// at the next line that starts with an upper-case ASCII letter.
type HeuristicSkills struct{}

var (
	sectionEnd = regexp.MustCompile(`\n[A-Z]`)

	skillHeadings = func() []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(SkillSections))
		for _, s := range SkillSections {
			out = append(out, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(string(s))+`[ \t]*(?::|\n)`))
		}
		return out
	}()

	// Bare words that show up inside skill lists but are not skills.
	skillDenylist = map[string]struct{}{
		"education":    {},
		"experience":   {},
		"projects":     {},
		"skills":       {},
		"skill":        {},
		"soft skills":  {},
		"languages":    {},
		"database":     {},
		"databases":    {},
		"coursework":   {},
		"frameworks":   {},
		"technologies": {},
		"tools":        {},
		"others":       {},
		"etc":          {},
	}
)

func isSkillSeparator(r rune) bool {
	switch r {
	case ',', '\n', '\r', '•', '·', '▪', '●', '*', '|', '-', '–':
		return true
	}
	return false
}

// Extract implements SkillExtractor.
func (HeuristicSkills) Extract(text string) []string {
	seen := make(map[string]struct{})
	for _, heading := range skillHeadings {
		loc := heading.FindStringIndex(text)
		if loc == nil {
			continue
		}
		span := text[loc[1]:]
		if end := sectionEnd.FindStringIndex(span); end != nil {
			span = span[:end[0]]
		}
		for _, part := range strings.FieldsFunc(span, isSkillSeparator) {
			item := strings.TrimSpace(part)
			n := utf8.RuneCountInString(item)
			if n <= 2 || n >= 50 {
				continue
			}
			lower := strings.ToLower(item)
			if _, deny := skillDenylist[lower]; deny || nlp.IsStopWord(lower) {
				continue
			}
			seen[item] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// HeuristicEducation finds degree keywords anywhere in the text.
type HeuristicEducation struct{}

var (
	degreePattern = regexp.MustCompile(`(?i)\b(bachelor|master|mba|btech|b\.tech|mtech|m\.tech|bsc|b\.sc|msc|m\.sc|phd|ph\.d|doctorate|diploma|associate|bca|mca|bba|b\.e|m\.e)(?:'?s)?\b`)
	// BE and ME collide with ordinary words and headings such as "ABOUT ME", so they
	// only count in capitals and on the same line as an engineering discipline.
	shortDegreePattern = regexp.MustCompile(`\b(BE|ME)\.?[ \t]*(?:(?:in|-|,|\()[ \t]*)?(?i:computer|mechanical|civil|electrical|electronics|information|chemical|software|production|instrumentation)\b`)
)

// Extract implements EducationExtractor.
func (HeuristicEducation) Extract(text string) []string {
	seen := make(map[string]struct{})
	for _, re := range []*regexp.Regexp{degreePattern, shortDegreePattern} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			degree := strings.ToLower(m[1])
			if degree == "education" {
				continue
			}
			seen[degree] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// HeuristicExperience pairs role lines with a month-year date found on one of the
// following two lines.
type HeuristicExperience struct{}

var (
	rolePattern      = regexp.MustCompile(`(?i)\b(intern|developer|engineer|designer|analyst)\b`)
	monthYearPattern = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{4}\b`)
)

const experienceLookahead = 2

// Extract implements ExperienceExtractor.
func (HeuristicExperience) Extract(text string) []string {
	lines := strings.Split(text, "\n")
	out := []string{}
	for i, line := range lines {
		if !rolePattern.MatchString(line) {
			continue
		}
		for j := i + 1; j <= i+experienceLookahead && j < len(lines); j++ {
			if date := monthYearPattern.FindString(lines[j]); date != "" {
				out = append(out, fmt.Sprintf("%s (%s)", strings.TrimSpace(line), date))
				break
			}
		}
	}
	return out
}

// isolate runs one field extractor and turns a panic into an empty result so the
// remaining extractors still contribute.
func isolate(field string, fn func(string) []string, text string) (out []string) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("analysis.extractor_panic", map[string]any{
				"field": field,
				"panic": fmt.Sprint(r),
			})
			out = []string{}
		}
	}()
	out = fn(text)
	if out == nil {
		out = []string{}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
