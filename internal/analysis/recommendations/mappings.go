package recommendations

import "strings"

// Below this keyword match share a resume is flagged as weakly tailored.
const lowMatchThreshold = 50.0

// Missing JD keywords quoted in the action text.
const maxQuotedKeywords = 10

// Both job-description mappers report under one ID so the engine folds them into a
// single entry.
const jobAlignmentID = "ATS_JOB_ALIGNMENT"

func fromUnreadableText(in Input) []Recommendation {
	if in.TextLength > 0 {
		return nil
	}
	return []Recommendation{
		{
			ID:       "ATS_NO_TEXT",
			Category: "ATS",
			Severity: "critical",
			Title:    "Upload a text-based PDF or DOCX",
			Why:      "No text could be read from the document, so an ATS would see an empty resume.",
			Action:   "Export the resume as a text-based PDF or DOCX instead of a scan or image.",
			Impact:   "high",
		},
	}
}

func fromMissingSections(in Input) []Recommendation {
	if in.TextLength == 0 {
		return nil
	}
	sections := uniqueSortedStrings(in.MissingSections)
	out := make([]Recommendation, 0, len(sections))
	for _, section := range sections {
		out = append(out, Recommendation{
			ID:       "STRUCTURE_MISSING_" + slugify(section),
			Category: "STRUCTURE",
			Severity: "warning",
			Title:    "Add a " + section + " section",
			Why:      "ATS parsers look for standard headings to map resume content.",
			Action:   "Add a heading named \"" + section + "\" and list the relevant details under it.",
			Impact:   "medium",
		})
	}
	return out
}

func fromSkills(in Input) []Recommendation {
	if in.TextLength == 0 || in.SkillCount > 0 {
		return nil
	}
	return []Recommendation{
		{
			ID:       "SKILLS_NOT_DETECTED",
			Category: "SKILLS",
			Severity: "warning",
			Title:    "List skills as a comma-separated block",
			Why:      "No skills were detected under a Skills, Languages or Frameworks heading.",
			Action:   "Add a \"Skills:\" heading followed by a comma-separated list of tools and technologies.",
			Impact:   "high",
		},
	}
}

func fromEducationAndExperience(in Input) []Recommendation {
	if in.TextLength == 0 {
		return nil
	}
	out := make([]Recommendation, 0, 2)
	if !in.EduMatch {
		out = append(out, Recommendation{
			ID:       "EDUCATION_DEGREE_NOT_DETECTED",
			Category: "EDUCATION",
			Severity: "info",
			Title:    "Spell out your degree",
			Why:      "No degree keyword was found, so education filters may skip the resume.",
			Action:   "Name the degree explicitly, for example \"Bachelor of Science in Computer Science\".",
			Impact:   "medium",
		})
	}
	if !in.ExpMatch {
		out = append(out, Recommendation{
			ID:       "EXPERIENCE_DATES_NOT_DETECTED",
			Category: "EXPERIENCE",
			Severity: "warning",
			Title:    "Date each role",
			Why:      "No role title with a month and year was found.",
			Action:   "Put the start date (for example \"Jun 2022\") on the line right after each job title.",
			Impact:   "high",
		})
	}
	return out
}

func fromMissingJDKeywords(in Input) []Recommendation {
	if !in.HasJobDescription {
		return nil
	}
	keywords := uniqueSortedStrings(in.MissingJDKeywords)
	if len(keywords) == 0 {
		return nil
	}
	if len(keywords) > maxQuotedKeywords {
		keywords = keywords[:maxQuotedKeywords]
	}
	action := "Add 5-10 missing keywords naturally into Skills + Experience bullets to mirror the job description." +
		" Focus on: " + strings.Join(keywords, ", ")
	return []Recommendation{
		{
			ID:       jobAlignmentID,
			Category: "ATS",
			Severity: "warning",
			Title:    "Add missing job keywords",
			Why:      "Improves ATS match and helps recruiters quickly spot relevant skills.",
			Action:   action,
			Impact:   "high",
		},
	}
}

func fromLowMatch(in Input) []Recommendation {
	if !in.HasJobDescription || in.TextLength == 0 || in.KeywordMatchScore >= lowMatchThreshold {
		return nil
	}
	return []Recommendation{
		{
			ID:       jobAlignmentID,
			Category: "ATS",
			Severity: "critical",
			Title:    "Tailor the resume to this job",
			Why:      "Less than half of the job description's keywords appear in the resume.",
			Action:   "Rewrite the summary and recent experience using the job description's wording.",
			Impact:   "high",
		},
	}
}
