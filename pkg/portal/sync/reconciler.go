package sync

import (
	"context"
	"log"

	"github.com/atelier-works/atelier/pkg/api/types/projects"
	"github.com/atelier-works/atelier/pkg/utils"
)

// Mutator is the write side of the portal the Reconciler needs.
//
// *rest.PortalClient implementations satisfy it.
type Mutator interface {
	CreateProject(ctx context.Context, spec projects.Spec) (projects.Patch, error)
	UpdateProject(ctx context.Context, projectID int64, spec projects.Spec) (projects.Patch, error)
	DeleteProject(ctx context.Context, projectID int64) error
}

// Reconciler runs create/update/delete against the portal and keeps the
// Store converged with it.
//
// Every mutation is two explicit transitions: an optimistic one that
// makes the composed record visible immediately, and an authoritative
// one (the triggered refetch) that replaces the collection wholesale.
// The optimistic state is disposable scaffolding. After the refetch the
// items are exactly what a fresh fetch at that instant would return, no
// matter how many optimistic writes happened in between.
type Reconciler struct {
	store  *Store
	client Mutator
	logger *log.Logger
}

type ReconcilerOption func(*Reconciler) *Reconciler

func WithReconcilerLogger(l *log.Logger) ReconcilerOption {
	return func(r *Reconciler) *Reconciler {
		r.logger = l
		return r
	}
}

func NewReconciler(store *Store, client Mutator, options ...ReconcilerOption) *Reconciler {
	r := &Reconciler{store: store, client: client}
	for _, opt := range options {
		r = opt(r)
	}
	return r
}

// Create submits spec, appends the composed record optimistically
// (its id is server-assigned, so it cannot collide), then refetches.
//
// The returned record is the server patch layered over the submitted
// fields, server side winning on conflicts.
func (r *Reconciler) Create(ctx context.Context, spec projects.Spec) (projects.Detail, error) {
	if scope, ok := r.store.Scope(); ok && spec.ClientID == 0 {
		spec.ClientID = scope
	}

	patch, err := r.client.CreateProject(ctx, spec)
	if err != nil {
		return projects.Detail{}, err
	}

	composed := projects.Compose(spec, patch)
	r.store.UpdateItems(func(items []projects.Detail) []projects.Detail {
		return append(items, composed)
	})

	if err := r.store.Refetch(ctx); err != nil {
		// surfaced on the store's snapshot; the optimistic record stays
		// visible until a later refetch succeeds
		r.logf("authoritative refetch after create failed: %s", err)
	}

	return composed, nil
}

// Update submits spec for an existing project. The composed record
// replaces the stored one in place (no append), then a refetch
// supersedes it with server truth.
func (r *Reconciler) Update(ctx context.Context, projectID int64, spec projects.Spec) (projects.Detail, error) {
	if scope, ok := r.store.Scope(); ok && spec.ClientID == 0 {
		spec.ClientID = scope
	}

	patch, err := r.client.UpdateProject(ctx, projectID, spec)
	if err != nil {
		return projects.Detail{}, err
	}

	composed := projects.Compose(spec, patch)
	if composed.ID == 0 {
		composed.ID = projectID
	}

	r.store.UpdateItems(func(items []projects.Detail) []projects.Detail {
		return utils.Map(items, func(item projects.Detail) projects.Detail {
			if item.ID == projectID {
				return composed
			}
			return item
		})
	})

	if err := r.store.Refetch(ctx); err != nil {
		r.logf("authoritative refetch after update failed: %s", err)
	}

	return composed, nil
}

// Delete removes the project on the backend first. On failure the local
// state is left untouched and the error goes back to the caller; a
// record must never silently disappear while the server still has it.
//
// On success the store converges by authoritative refetch when it is
// scoped; an unscoped store falls back to local filter-by-id removal.
func (r *Reconciler) Delete(ctx context.Context, projectID int64) error {
	if err := r.client.DeleteProject(ctx, projectID); err != nil {
		return err
	}

	if _, ok := r.store.Scope(); ok {
		if err := r.store.Refetch(ctx); err != nil {
			r.logf("authoritative refetch after delete failed: %s", err)
		}
		return nil
	}

	r.store.UpdateItems(func(items []projects.Detail) []projects.Detail {
		return utils.Filter(items, func(item projects.Detail) bool {
			return item.ID != projectID
		})
	})
	return nil
}

func (r *Reconciler) logf(format string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
