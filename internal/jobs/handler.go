package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the job postings service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches job posting routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/jobs", h.createJob)
	rg.GET("/jobs", h.listJobs)
	rg.GET("/jobs/:id", h.getJob)
}

func (h *Handler) createJob(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}

	posting, err := h.Svc.Create(c.Request.Context(), req)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid job posting", verr.Fields)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save job posting", nil)
		}
		return
	}
	respond.Created(c, c.FullPath()+"/"+posting.ID, posting)
}

func (h *Handler) getJob(c *gin.Context) {
	posting, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job posting not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load job posting", nil)
		}
		return
	}
	respond.OK(c, posting)
}

func (h *Handler) listJobs(c *gin.Context) {
	limit, err := queryInt(c, "limit", DefaultListLimit)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be an integer", nil)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "offset must be an integer", nil)
		return
	}

	items, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list job postings", nil)
		return
	}
	respond.OK(c, gin.H{"items": items, "limit": limit, "offset": offset})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
