package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/telemetry"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Service contains business logic for job postings.
type Service struct {
	Repo  Repo
	Now   func() time.Time
	NewID func() string
}

// NewService constructs a Service with UUID ids and UTC timestamps.
func NewService(repo Repo) *Service {
	return &Service{
		Repo:  repo,
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: func() string { return uuid.NewString() },
	}
}

// Create validates and stores a posting.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Posting, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return Posting{}, err
	}
	posting := Posting{
		ID:          s.NewID(),
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   s.Now(),
	}
	if err := s.Repo.Create(ctx, posting); err != nil {
		return Posting{}, fmt.Errorf("store job posting: %w", err)
	}
	metrics.IncJobPostingCreated()
	telemetry.Info("jobs.created", map[string]any{
		"job_id":             posting.ID,
		"description_length": len(posting.Description),
	})
	return posting, nil
}

// Get returns a posting. IDs that are not UUIDs are reported as not found.
func (s *Service) Get(ctx context.Context, id string) (Posting, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Posting{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// Description returns the stored job description text for id.
func (s *Service) Description(ctx context.Context, id string) (string, error) {
	posting, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return posting.Description, nil
}

// List returns postings newest first. The limit is clamped to [1, MaxListLimit].
func (s *Service) List(ctx context.Context, limit, offset int) ([]Posting, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.List(ctx, limit, offset)
}
