// Package analyze exposes the resume analysis pipeline over HTTP.
package analyze

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/analysis"
	"resume-ats/internal/jobs"
	"resume-ats/internal/shared/server/middleware"
	"resume-ats/internal/shared/server/respond"
	"resume-ats/internal/shared/util"
)

// DefaultMaxUploadBytes caps resume uploads when the handler is not configured.
const DefaultMaxUploadBytes = 10 << 20 // 10MB

// Analyzer runs the resume pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, data []byte, fileName, jobDescription string) (analysis.Result, error)
}

// JobDescriptions resolves saved job postings by ID.
type JobDescriptions interface {
	Description(ctx context.Context, id string) (string, error)
}

// Handler wires HTTP handlers to the analyzer.
type Handler struct {
	Analyzer           Analyzer
	Jobs               JobDescriptions
	MaxUploadBytes     int64
	IncludeTextDefault bool
}

// NewHandler constructs a Handler. postings may be nil, in which case job_id is rejected.
func NewHandler(a Analyzer, postings JobDescriptions, maxUploadBytes int64, includeTextDefault bool) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		Analyzer:           a,
		Jobs:               postings,
		MaxUploadBytes:     maxUploadBytes,
		IncludeTextDefault: includeTextDefault,
	}
}

// RegisterRoutes attaches the analyze route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	includeText := h.IncludeTextDefault
	if raw := c.Query("include_text"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "include_text must be a boolean", nil)
			return
		}
		includeText = v
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	fileName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	ctx := analysis.WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	jobDescription, ok := h.resolveJobDescription(ctx, c)
	if !ok {
		return
	}

	result, err := h.Analyzer.Analyze(ctx, data, fileName, jobDescription)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusServiceUnavailable, "canceled", "analysis was canceled", nil)
		case errors.Is(err, analysis.ErrDocumentExtraction):
			respond.Error(c, http.StatusUnprocessableEntity, "unreadable_document", "could not read text from the document", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze resume", nil)
		}
		return
	}
	if !includeText {
		result.Text = ""
	}
	respond.OK(c, result)
}

// resolveJobDescription returns the inline job description or the saved posting
// named by job_id. It writes the error response itself and reports false on failure.
func (h *Handler) resolveJobDescription(ctx context.Context, c *gin.Context) (string, bool) {
	inline := c.PostForm("job_description")
	jobID := strings.TrimSpace(c.PostForm("job_id"))
	if jobID == "" {
		return inline, true
	}
	if strings.TrimSpace(inline) != "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "send either job_description or job_id, not both", nil)
		return "", false
	}
	if h.Jobs == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "saved job postings are not enabled", nil)
		return "", false
	}
	desc, err := h.Jobs.Description(ctx, jobID)
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job posting not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load job posting", nil)
		}
		return "", false
	}
	return desc, true
}
