package analysis

import (
	"regexp"
	"sync"
)

// Section is a named resume region located by heading text.
type Section string

const (
	SectionSkills                    Section = "Skills"
	SectionEducation                 Section = "Education"
	SectionExperience                Section = "Experience"
	SectionProjects                  Section = "Projects"
	SectionLanguages                 Section = "Languages"
	SectionFrameworksAndTechnologies Section = "Frameworks And Technologies"
	SectionCoursework                Section = "Coursework"
	SectionSoftSkill                 Section = "Soft Skill"
	SectionDatabase                  Section = "Database"
)

// ScoredSections earn the section bonus when present.
var ScoredSections = []Section{
	SectionSkills,
	SectionEducation,
	SectionProjects,
	SectionExperience,
}

// SkillSections hold list-like skill content.
var SkillSections = []Section{
	SectionSkills,
	SectionLanguages,
	SectionFrameworksAndTechnologies,
	SectionCoursework,
	SectionSoftSkill,
	SectionDatabase,
}

var sectionPatterns sync.Map // string -> *regexp.Regexp

// SectionExists reports whether name appears in text as a whole word, ignoring case.
func SectionExists(text, name string) bool {
	if name == "" {
		return false
	}
	return sectionPattern(name).MatchString(text)
}

func sectionPattern(name string) *regexp.Regexp {
	if re, ok := sectionPatterns.Load(name); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
	actual, _ := sectionPatterns.LoadOrStore(name, re)
	return actual.(*regexp.Regexp)
}

// DetectSections returns the presence flag of every scored section.
func DetectSections(text string) map[Section]bool {
	out := make(map[Section]bool, len(ScoredSections))
	for _, s := range ScoredSections {
		out[s] = SectionExists(text, string(s))
	}
	return out
}
