package jobs

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores postings in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Posting
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Posting)}
}

// Create stores the posting.
func (r *MemoryRepo) Create(ctx context.Context, posting Posting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[posting.ID] = posting
	return nil
}

// GetByID returns a posting by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Posting, error) {
	if err := ctx.Err(); err != nil {
		return Posting{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	posting, ok := r.byID[id]
	if !ok {
		return Posting{}, ErrNotFound
	}
	return posting, nil
}

// List returns postings newest first, with limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Posting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	all := make([]Posting, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, p)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []Posting{}, nil
	}
	end := offset + limit
	if limit == 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
