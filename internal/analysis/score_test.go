package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTFIDFSimilarity(t *testing.T) {
	cases := []struct {
		name   string
		resume string
		jd     string
		want   float64
	}{
		{name: "identical documents", resume: "Go developer building Kafka pipelines", jd: "Go developer building Kafka pipelines", want: 100},
		{name: "case and stop words ignored", resume: "the PYTHON engineer", jd: "python engineer", want: 100},
		{name: "disjoint vocabularies", resume: "python django", jd: "golang kafka", want: 0},
		{name: "shared term weighted by idf", resume: "python engineer", jd: "python developer", want: 33.61},
		{name: "empty job description", resume: "python engineer", jd: "   ", want: 0},
		{name: "stop words only", resume: "the and of", jd: "with from into", want: 0},
		{name: "empty resume", resume: "", jd: "python developer", want: 0},
		{name: "single letters are not terms", resume: "c r", jd: "c r", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TFIDFSimilarity(tc.resume, tc.jd))
		})
	}
}

func TestTFIDFSimilarity_DeterministicAndSymmetric(t *testing.T) {
	resume := "Senior backend engineer: Go, PostgreSQL, Kafka, Kubernetes, gRPC microservices"
	jd := "We need a backend engineer with Go and Kafka experience to build microservices on Kubernetes"

	first := TFIDFSimilarity(resume, jd)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, TFIDFSimilarity(resume, jd))
	}
	assert.Equal(t, first, TFIDFSimilarity(jd, resume))
	assert.Greater(t, first, 0.0)
	assert.Less(t, first, 100.0)
}

func TestKeywordMatchScore(t *testing.T) {
	resume := NewTokenSet("go", "kafka", "docker", "aws")

	assert.Equal(t, 0.0, KeywordMatchScore(resume, TokenSet{}))
	assert.Equal(t, 0.0, KeywordMatchScore(TokenSet{}, NewTokenSet("go")))
	assert.Equal(t, 100.0, KeywordMatchScore(resume, NewTokenSet("go", "kafka")))
	assert.Equal(t, 50.0, KeywordMatchScore(resume, NewTokenSet("go", "rust")))
	assert.Equal(t, 33.33, KeywordMatchScore(resume, NewTokenSet("go", "rust", "java")))
	assert.Equal(t, 66.67, KeywordMatchScore(resume, NewTokenSet("go", "aws", "java")))
}

func TestKeywordMatchScore_InRange(t *testing.T) {
	sets := []TokenSet{
		{},
		NewTokenSet("a"),
		NewTokenSet("a", "b"),
		NewTokenSet("b", "c", "d"),
		NewTokenSet("a", "b", "c", "d", "e"),
	}
	for _, r := range sets {
		for _, j := range sets {
			got := KeywordMatchScore(r, j)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		}
	}
}

func TestSectionBonus(t *testing.T) {
	assert.Equal(t, 20, SectionBonus("Skills\nEducation\nProjects\nExperience"))
	assert.Equal(t, 5, SectionBonus("my SKILLS are great"))
	assert.Equal(t, 0, SectionBonus("Skillset and Projectors"))
	assert.Equal(t, 0, SectionBonus(""))
}

func TestSectionExists(t *testing.T) {
	assert.True(t, SectionExists("Frameworks and technologies:", string(SectionFrameworksAndTechnologies)))
	assert.True(t, SectionExists("work experience", "Experience"))
	assert.False(t, SectionExists("experienced", "Experience"))
	assert.False(t, SectionExists("anything", ""))
}

func TestCompositeScore(t *testing.T) {
	assert.Equal(t, 100.0, CompositeScore(100, 100, true, true))
	assert.Equal(t, 0.0, CompositeScore(0, 0, false, false))
	assert.Equal(t, 48.0, CompositeScore(50, 40, true, false))
	assert.Equal(t, 40.0, CompositeScore(33.33, 33.33, false, true))
	assert.Equal(t, 100.0, CompositeScore(150, 150, true, true))
	assert.InDelta(t, 1.0, WeightKeyword+WeightTFIDF+WeightEducation+WeightExperience, 1e-9)
}

func TestMissingKeywords(t *testing.T) {
	resume := NewTokenSet("go", "docker")
	jd := NewTokenSet("go", "kafka", "aws", "docker", "terraform")

	assert.Equal(t, []string{"aws", "kafka", "terraform"}, MissingKeywords(resume, jd, 0))
	assert.Equal(t, []string{"aws", "kafka"}, MissingKeywords(resume, jd, 2))
	assert.Equal(t, []string{}, MissingKeywords(resume, TokenSet{}, 5))
}
