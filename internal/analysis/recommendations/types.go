package recommendations

// Recommendation represents a deterministic suggestion derived from analysis results.
type Recommendation struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Why      string `json:"why"`
	Action   string `json:"action"`
	Impact   string `json:"impact"`
	Order    int    `json:"order"`
}

// Input is the subset of an analysis the engine reads.
type Input struct {
	TextLength        int
	MissingSections   []string
	SkillCount        int
	EduMatch          bool
	ExpMatch          bool
	HasJobDescription bool
	KeywordMatchScore float64
	TFIDFScore        float64
	MissingJDKeywords []string
}
