// Package dashboard wires the portal client layer together the way the
// role dashboards consume it: guard in front, identity supplying the
// scope, the collection store fetching by it, and the reconciler behind
// every mutating form.
package dashboard

import (
	"context"
	"errors"
	"log"

	"github.com/atelier-works/atelier/pkg/api/types/projects"
	"github.com/atelier-works/atelier/pkg/portal/identity"
	"github.com/atelier-works/atelier/pkg/portal/nav"
	"github.com/atelier-works/atelier/pkg/portal/rest"
	"github.com/atelier-works/atelier/pkg/portal/sync"
)

// ErrNotAuthenticated is returned by every data operation of a denied
// dashboard. The only thing to render then is the login prompt.
var ErrNotAuthenticated = errors.New("not authenticated: sign in to continue")

type Dashboard struct {
	store      *sync.Store
	reconciler *sync.Reconciler
	history    *nav.History
	logger     *log.Logger

	decision nav.Decision
	actorID  int64
}

type Option func(*Dashboard) *Dashboard

func WithLogger(l *log.Logger) Option {
	return func(d *Dashboard) *Dashboard {
		d.logger = l
		return d
	}
}

// WithLocation starts navigation at a deep link instead of the default
// view.
func WithLocation(location string) Option {
	return func(d *Dashboard) *Dashboard {
		d.history = nav.NewHistory(location)
		return d
	}
}

func New(client rest.PortalClient, options ...Option) *Dashboard {
	d := &Dashboard{
		history:  nav.NewHistory(""),
		decision: nav.Deny,
	}
	for _, opt := range options {
		d = opt(d)
	}

	d.store = sync.New(client, sync.WithLogger(d.logger))
	d.reconciler = sync.NewReconciler(
		d.store, client, sync.WithReconcilerLogger(d.logger),
	)
	return d
}

// Open resolves the persisted session payload and gates the dashboard.
//
// On Admit the resolved id becomes the collection scope and the first
// fetch starts. On Deny nothing is fetched. Not a single request leaves
// a denied dashboard.
func (d *Dashboard) Open(ctx context.Context, rawSessionPayload []byte) nav.Decision {
	actorID, ok := identity.Resolver{Logger: d.logger}.Resolve(rawSessionPayload)

	d.decision = nav.Guard(actorID, ok)
	if d.decision != nav.Admit {
		d.actorID = 0
		d.store.Reset()
		return d.decision
	}

	d.actorID = actorID
	d.store.SetScope(ctx, actorID)
	return d.decision
}

// Logout tears the session-scoped state down.
func (d *Dashboard) Logout() {
	d.decision = nav.Deny
	d.actorID = 0
	d.store.Reset()
}

func (d *Dashboard) Decision() nav.Decision {
	return d.decision
}

// ActorID returns the resolved scope id of an admitted dashboard.
func (d *Dashboard) ActorID() (int64, bool) {
	if d.decision != nav.Admit {
		return 0, false
	}
	return d.actorID, true
}

// Projects returns the current collection snapshot.
func (d *Dashboard) Projects() sync.Snapshot {
	return d.store.Snapshot()
}

// SubscribeProjects registers fn for collection changes; the returned
// function unsubscribes.
func (d *Dashboard) SubscribeProjects(fn func(sync.Snapshot)) func() {
	return d.store.Subscribe(fn)
}

// Refresh performs an authoritative refetch. This is also the manual
// retry path after a surfaced fetch error.
func (d *Dashboard) Refresh(ctx context.Context) error {
	if d.decision != nav.Admit {
		return ErrNotAuthenticated
	}
	return d.store.Refetch(ctx)
}

func (d *Dashboard) CreateProject(ctx context.Context, spec projects.Spec) (projects.Detail, error) {
	if d.decision != nav.Admit {
		return projects.Detail{}, ErrNotAuthenticated
	}
	return d.reconciler.Create(ctx, spec)
}

func (d *Dashboard) UpdateProject(ctx context.Context, projectID int64, spec projects.Spec) (projects.Detail, error) {
	if d.decision != nav.Admit {
		return projects.Detail{}, ErrNotAuthenticated
	}
	return d.reconciler.Update(ctx, projectID, spec)
}

func (d *Dashboard) DeleteProject(ctx context.Context, projectID int64) error {
	if d.decision != nav.Admit {
		return ErrNotAuthenticated
	}
	return d.reconciler.Delete(ctx, projectID)
}

// Navigate writes the canonical URL of view into the history; the
// active view is derived back from it, never stored on its own.
func (d *Dashboard) Navigate(view nav.ViewID, projectID ...int64) {
	d.history.Navigate(view, projectID...)
}

func (d *Dashboard) ActiveView() nav.ViewID {
	return d.history.ActiveView()
}

func (d *Dashboard) History() *nav.History {
	return d.history
}

// Close releases the store; pending fetches are cancelled silently.
func (d *Dashboard) Close() {
	d.store.Close()
}
