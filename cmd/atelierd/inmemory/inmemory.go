// Package inmemory backs atelierd with a process-local project table.
//
// It deliberately mimics the production portal where the client layer
// can observe it: server-assigned ids, canonical default status, and
// updated_at stamping.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/atelier-works/atelier/cmd/atelierd/handlers"
	"github.com/atelier-works/atelier/pkg/api/types/misc/rfctime"
	"github.com/atelier-works/atelier/pkg/api/types/projects"
)

type Repository struct {
	now func() time.Time

	mu     sync.Mutex
	nextID int64
	byID   map[int64]projects.Detail
	order  []int64
}

type Option func(*Repository) *Repository

// WithClock fixes the updated_at clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) *Repository {
		r.now = now
		return r
	}
}

func New(options ...Option) *Repository {
	r := &Repository{
		now:    time.Now,
		nextID: 1,
		byID:   map[int64]projects.Detail{},
	}
	for _, opt := range options {
		r = opt(r)
	}
	return r
}

func (r *Repository) ListByClient(ctx context.Context, clientID int64) ([]projects.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := []projects.Detail{}
	for _, id := range r.order {
		if p := r.byID[id]; p.ClientID == clientID {
			found = append(found, p)
		}
	}
	return found, nil
}

func (r *Repository) Create(ctx context.Context, spec projects.Spec) (projects.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := spec.Status
	if status == "" {
		status = projects.StatusOpen
	}

	created := projects.Detail{
		ID:          r.nextID,
		ClientID:    spec.ClientID,
		Title:       spec.Title,
		Description: spec.Description,
		Status:      status,
		UpdatedAt:   rfctime.Of(r.now().Truncate(time.Millisecond)),
	}
	r.nextID += 1
	r.byID[created.ID] = created
	r.order = append(r.order, created.ID)

	return created, nil
}

func (r *Repository) Update(ctx context.Context, projectID int64, spec projects.Spec) (projects.Detail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[projectID]
	if !ok {
		return projects.Detail{}, handlers.ErrProjectNotFound
	}

	if spec.Title != "" {
		p.Title = spec.Title
	}
	p.Description = spec.Description
	if spec.Status != "" {
		p.Status = spec.Status
	}
	p.UpdatedAt = rfctime.Of(r.now().Truncate(time.Millisecond))

	r.byID[projectID] = p
	return p, nil
}

func (r *Repository) Delete(ctx context.Context, projectID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[projectID]; !ok {
		return handlers.ErrProjectNotFound
	}
	delete(r.byID, projectID)

	order := make([]int64, 0, len(r.order))
	for _, id := range r.order {
		if id != projectID {
			order = append(order, id)
		}
	}
	r.order = order
	return nil
}
