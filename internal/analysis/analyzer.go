// Package analysis turns a resume document and an optional job description into an
// ATS assessment.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"resume-ats/internal/analysis/recommendations"
	"resume-ats/internal/extract"
	"resume-ats/internal/nlp"
	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/shared/tracing"
	"resume-ats/internal/shared/util"
)

// ErrDocumentExtraction wraps failures to read text out of a recognized document.
var ErrDocumentExtraction = errors.New("document extraction failed")

var errModel = errors.New("language model")

const (
	summaryRunes = 500
	tracerName   = "resume-ats/analysis"
)

// ExtractFunc converts document bytes into plain text.
type ExtractFunc func(ctx context.Context, data []byte, fileName string) (string, error)

// Result is the assessment of one resume.
type Result struct {
	Summary           string                           `json:"summary"`
	Text              string                           `json:"text,omitempty"`
	Length            int                              `json:"length"`
	Skills            []string                         `json:"skills"`
	Education         []string                         `json:"education"`
	Experience        []string                         `json:"experience"`
	Score             float64                          `json:"score"`
	TFIDFScore        float64                          `json:"tfidf_score"`
	KeywordMatchScore float64                          `json:"keyword_match_score"`
	SectionBonus      int                              `json:"section_bonus"`
	Sections          map[Section]bool                 `json:"sections"`
	EduMatch          bool                             `json:"edu_match"`
	ExpMatch          bool                             `json:"exp_match"`
	HasJobDescription bool                             `json:"has_job_description"`
	MissingKeywords   []string                         `json:"missing_keywords"`
	Recommendations   []recommendations.Recommendation `json:"recommendations"`
}

// Analyzer runs the analysis pipeline. It holds no per-call state and is safe for
// concurrent use when its model is.
type Analyzer struct {
	model        nlp.Model
	extract      ExtractFunc
	skills       SkillExtractor
	education    EducationExtractor
	experience   ExperienceExtractor
	missingLimit int
	tracer       trace.Tracer
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithExtractor replaces the document text extractor.
func WithExtractor(fn ExtractFunc) Option {
	return func(a *Analyzer) {
		if fn != nil {
			a.extract = fn
		}
	}
}

// WithSkillExtractor replaces the skill heuristic.
func WithSkillExtractor(e SkillExtractor) Option {
	return func(a *Analyzer) {
		if e != nil {
			a.skills = e
		}
	}
}

// WithEducationExtractor replaces the education heuristic.
func WithEducationExtractor(e EducationExtractor) Option {
	return func(a *Analyzer) {
		if e != nil {
			a.education = e
		}
	}
}

// WithExperienceExtractor replaces the experience heuristic.
func WithExperienceExtractor(e ExperienceExtractor) Option {
	return func(a *Analyzer) {
		if e != nil {
			a.experience = e
		}
	}
}

// WithMissingKeywordLimit caps Result.MissingKeywords. Zero or less means no cap.
func WithMissingKeywordLimit(limit int) Option {
	return func(a *Analyzer) {
		a.missingLimit = limit
	}
}

// WithTracerProvider sends pipeline spans to tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Analyzer) {
		if tp != nil {
			a.tracer = tp.Tracer(tracerName)
		}
	}
}

// New builds an Analyzer around a shared linguistic model.
func New(model nlp.Model, opts ...Option) *Analyzer {
	a := &Analyzer{
		model:        model,
		extract:      extract.ExtractText,
		skills:       HeuristicSkills{},
		education:    HeuristicEducation{},
		experience:   HeuristicExperience{},
		missingLimit: DefaultMissingKeywordLimit,
		tracer:       otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze extracts text from the document and scores it against jobDescription.
// Without a job description every score is 0 and HasJobDescription is false.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, fileName, jobDescription string) (Result, error) {
	start := time.Now()
	kind := extract.Kind(fileName)
	fields := map[string]any{
		"request_id":      RequestIDFromContext(ctx),
		"file_kind":       string(kind),
		"document_sha256": util.HashDocument(data),
		"document_bytes":  len(data),
	}
	ctx, span := a.tracer.Start(ctx, "analysis.Analyze", trace.WithAttributes(
		attribute.String("document.kind", string(kind)),
		attribute.Int("document.bytes", len(data)),
		attribute.Bool("analysis.has_job_description", strings.TrimSpace(jobDescription) != ""),
	))
	defer span.End()
	metrics.IncAnalysisStarted()
	metrics.IncDocumentKind(string(kind))
	logStatus("started", fields, nil)

	result, err := a.run(ctx, data, fileName, jobDescription)
	elapsed := time.Since(start)
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Milliseconds()))
	fields["duration_ms"] = elapsed.Milliseconds()
	if err != nil {
		reason := errorType(err)
		metrics.IncAnalysisFailed(string(reason))
		tracing.RecordError(span, err, reason)
		fields["reason"] = string(reason)
		logStatus("failed", fields, err)
		return Result{}, err
	}
	metrics.IncAnalysisCompleted()
	span.SetAttributes(attribute.Float64("analysis.score", result.Score))
	fields["score"] = result.Score
	fields["has_job_description"] = result.HasJobDescription
	logStatus("completed", fields, nil)
	return result, nil
}

func errorType(err error) tracing.ErrorType {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return tracing.ErrorTypeCanceled
	case errors.Is(err, ErrDocumentExtraction):
		return tracing.ErrorTypeExtraction
	case errors.Is(err, errModel):
		return tracing.ErrorTypeNLP
	default:
		return tracing.ErrorTypeInternal
	}
}

func (a *Analyzer) run(ctx context.Context, data []byte, fileName, jobDescription string) (Result, error) {
	stageStart := time.Now()
	text, err := a.extract(ctx, data, fileName)
	logStage(ctx, "extract", stageStart)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("%w: %w", ErrDocumentExtraction, err)
	}
	trace.SpanFromContext(ctx).AddEvent("text extracted", trace.WithAttributes(
		attribute.Int("text.runes", utf8.RuneCountInString(text)),
	))
	hasJD := strings.TrimSpace(jobDescription) != ""

	var (
		resumeKeywords = TokenSet{}
		jdKeywords     = TokenSet{}
		tfidf          float64
		skills         []string
		education      []string
		experience     []string
		sections       map[Section]bool
	)
	stageStart = time.Now()
	g, gctx := errgroup.WithContext(ctx)
	if hasJD {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			set, err := ExtractKeywords(a.model, text)
			if err != nil {
				return fmt.Errorf("%w: resume keywords: %w", errModel, err)
			}
			resumeKeywords = set
			return nil
		})
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			set, err := ExtractKeywords(a.model, jobDescription)
			if err != nil {
				return fmt.Errorf("%w: job description keywords: %w", errModel, err)
			}
			jdKeywords = set
			return nil
		})
		g.Go(func() error {
			tfidf = TFIDFSimilarity(text, jobDescription)
			return nil
		})
	}
	g.Go(func() error {
		skills = isolate("skills", a.skills.Extract, text)
		return nil
	})
	g.Go(func() error {
		education = isolate("education", a.education.Extract, text)
		return nil
	})
	g.Go(func() error {
		experience = isolate("experience", a.experience.Extract, text)
		return nil
	})
	g.Go(func() error {
		sections = DetectSections(text)
		return nil
	})
	err = g.Wait()
	logStage(ctx, "score", stageStart)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Summary:           summarize(text),
		Text:              text,
		Length:            utf8.RuneCountInString(text),
		Skills:            skills,
		Education:         education,
		Experience:        experience,
		SectionBonus:      bonusFor(sections),
		Sections:          sections,
		EduMatch:          len(education) > 0,
		ExpMatch:          len(experience) > 0,
		HasJobDescription: hasJD,
		MissingKeywords:   []string{},
	}
	if hasJD {
		res.TFIDFScore = tfidf
		res.KeywordMatchScore = KeywordMatchScore(resumeKeywords, jdKeywords)
		res.Score = CompositeScore(res.KeywordMatchScore, res.TFIDFScore, res.EduMatch, res.ExpMatch)
		res.MissingKeywords = MissingKeywords(resumeKeywords, jdKeywords, a.missingLimit)
	}
	res.Recommendations = recommendations.Generate(recommendations.Input{
		TextLength:        res.Length,
		MissingSections:   missingSections(sections),
		SkillCount:        len(skills),
		EduMatch:          res.EduMatch,
		ExpMatch:          res.ExpMatch,
		HasJobDescription: hasJD,
		KeywordMatchScore: res.KeywordMatchScore,
		TFIDFScore:        res.TFIDFScore,
		MissingJDKeywords: res.MissingKeywords,
	})
	return res, nil
}

func summarize(text string) string {
	if utf8.RuneCountInString(text) <= summaryRunes {
		return text
	}
	return string([]rune(text)[:summaryRunes]) + "..."
}

func bonusFor(sections map[Section]bool) int {
	bonus := 0
	for _, present := range sections {
		if present {
			bonus += SectionPoints
		}
	}
	return bonus
}

func missingSections(sections map[Section]bool) []string {
	out := make([]string, 0, len(ScoredSections))
	for _, s := range ScoredSections {
		if !sections[s] {
			out = append(out, string(s))
		}
	}
	return out
}

// logStage records how long one pipeline stage took.
func logStage(ctx context.Context, stage string, start time.Time) {
	telemetry.Debug("analysis.stage", map[string]any{
		"request_id":  RequestIDFromContext(ctx),
		"stage":       stage,
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

func logStatus(status string, fields map[string]any, err error) {
	payload := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		payload[k] = v
	}
	payload["status"] = status
	if err != nil {
		payload["error"] = err
		telemetry.Error("analysis.status", payload)
		return
	}
	telemetry.Info("analysis.status", payload)
}
