package analysis

import (
	"sort"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"resume-ats/internal/shared/telemetry"
)

func TestHeuristicSkills(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "span ends at next capitalized line",
			text: "Skills: Go, Python, Docker\nKubernetes • Terraform\nEducation\nBachelor of Science",
			want: []string{"Docker", "Python"},
		},
		{
			name: "lowercase continuation lines stay in span",
			text: "Skills:\nreact, node.js\nsql | aws\nProjects\nChat app",
			want: []string{"aws", "node.js", "react", "sql"},
		},
		{
			name: "denylisted words dropped",
			text: "Languages: English, Database, Hindi",
			want: []string{"English", "Hindi"},
		},
		{
			name: "sections accumulate and dedupe",
			text: "Skills: Python, Docker\nFrameworks And Technologies: Docker, Gin",
			want: []string{"Docker", "Gin", "Python"},
		},
		{
			name: "heading needs colon or newline",
			text: "I have many skills and ideas",
			want: []string{},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HeuristicSkills{}.Extract(tc.text))
		})
	}
}

func TestHeuristicSkills_ItemsSortedUniqueBounded(t *testing.T) {
	text := "Skills: Go, SQL, SQL, Rust | C, a very long fragment that certainly exceeds the fifty character limit, Java\n" +
		"Database: PostgreSQL, Redis, SQL\n"
	got := HeuristicSkills{}.Extract(text)

	assert.True(t, sort.StringsAreSorted(got))
	seen := map[string]bool{}
	for _, item := range got {
		assert.False(t, seen[item], "duplicate %q", item)
		seen[item] = true
		n := utf8.RuneCountInString(item)
		assert.True(t, n > 2 && n < 50, "length of %q", item)
	}
	assert.Equal(t, []string{"Java", "PostgreSQL", "Redis", "Rust", "SQL"}, got)
}

func TestHeuristicEducation(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{name: "spelled out bachelor", text: "Education\nBachelor of Technology", want: []string{"bachelor"}},
		{name: "dotted forms", text: "M.Tech in CS, Ph.D. candidate, MBA", want: []string{"m.tech", "mba", "ph.d"}},
		{name: "possessive and plural", text: "Master's degree; Bachelors in Arts", want: []string{"bachelor", "master"}},
		{name: "capital BE counts", text: "BE in Mechanical Engineering", want: []string{"be"}},
		{name: "lowercase be and me ignored", text: "please contact me, happy to be there", want: []string{}},
		{name: "ME heading is not a degree", text: "ABOUT ME\nBachelor of Technology, Associate Engineer", want: []string{"associate", "bachelor"}},
		{name: "CONTACT ME ignored", text: "CONTACT ME\nPhone: 555-0100", want: []string{}},
		{name: "ME with discipline counts", text: "ME, Computer Science", want: []string{"me"}},
		{name: "education heading alone", text: "Education", want: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HeuristicEducation{}.Extract(tc.text))
		})
	}
}

func TestHeuristicExperience(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "date on next line",
			text: "Experience\nSoftware Engineer Intern\nJun 2022",
			want: []string{"Software Engineer Intern (Jun 2022)"},
		},
		{
			name: "date two lines down",
			text: "  Data Analyst  \nAcme Corp\nMarch 2021 - Present",
			want: []string{"Data Analyst (March 2021)"},
		},
		{
			name: "date too far away",
			text: "Developer\nAcme\nRemote\nJan 2020",
			want: []string{},
		},
		{
			name: "document order without dedupe",
			text: "Engineer\nJan 2020\nEngineer\nJan 2020",
			want: []string{"Engineer (Jan 2020)", "Engineer (Jan 2020)"},
		},
		{
			name: "role keyword must be a whole word",
			text: "Internship\nJul 2021",
			want: []string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HeuristicExperience{}.Extract(tc.text))
		})
	}
}

func TestIsolate_RecoversPanics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	telemetry.SetLogger(zap.New(core))
	t.Cleanup(func() { telemetry.SetLogger(nil) })

	got := isolate("experience", func(string) []string { panic("bad regex state") }, "text")

	assert.Equal(t, []string{}, got)
	entries := logs.FilterMessage("analysis.extractor_panic").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "experience", entries[0].ContextMap()["field"])
}

func TestIsolate_NilBecomesEmpty(t *testing.T) {
	got := isolate("skills", func(string) []string { return nil }, "text")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
