// Package sync keeps an actor-scoped project collection converged with
// the portal backend.
//
// The Store owns fetching, caching and cancellation; the Reconciler
// owns optimistic mutations and their reconciliation against
// authoritative refetches. View code reads snapshots and calls the
// documented entry points, nothing else.
package sync

import (
	"context"
	"errors"
	"log"
	gosync "sync"

	"github.com/atelier-works/atelier/pkg/api/types/projects"
)

var ErrNoScope = errors.New("collection store has no scope")

// Fetcher is the read side of the portal the Store needs.
//
// *rest.PortalClient implementations satisfy it.
type Fetcher interface {
	ListClientProjects(ctx context.Context, clientID int64) ([]projects.Detail, error)
	ListProjectsByClient(ctx context.Context, clientID int64) ([]projects.Detail, error)
}

// Snapshot is one consistent observation of the collection.
//
// Items is a copy; holding or mutating it never affects the Store.
type Snapshot struct {
	Items   []projects.Detail
	Loading bool
	Err     error
	Scope   int64
	Scoped  bool
}

// Store caches the project collection of one actor scope.
//
// Overlapping fetches are disambiguated by a generation counter: every
// scope change or refetch bumps the generation and cancels the fetch it
// supersedes. A superseded fetch's outcome, success or failure, is
// discarded entirely. It never touches items, error, or the loading
// flag. Only the fetch carrying the current generation may settle.
type Store struct {
	fetcher Fetcher
	logger  *log.Logger

	mu      gosync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	scope   int64
	scoped  bool
	items   []projects.Detail
	loading bool
	err     error
	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

type StoreOption func(*Store) *Store

func WithLogger(l *log.Logger) StoreOption {
	return func(s *Store) *Store {
		s.logger = l
		return s
	}
}

func New(fetcher Fetcher, options ...StoreOption) *Store {
	s := &Store{fetcher: fetcher}
	for _, opt := range options {
		s = opt(s)
	}
	return s
}

// SetScope points the collection at a new actor scope and starts
// fetching it. The in-flight fetch for the previous scope, if any, is
// cancelled first. Setting the scope it already has is a no-op.
func (s *Store) SetScope(ctx context.Context, scope int64) {
	s.mu.Lock()
	if s.scoped && s.scope == scope {
		s.mu.Unlock()
		return
	}

	s.supersedeLocked()
	s.scope = scope
	s.scoped = true
	s.items = nil
	s.err = nil
	s.loading = true
	gen := s.gen

	fctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	go s.runFetch(fctx, gen, scope)
}

// Reset tears the collection down, as on logout or unmount. Any
// in-flight fetch is cancelled.
func (s *Store) Reset() {
	s.mu.Lock()
	s.supersedeLocked()
	s.scope = 0
	s.scoped = false
	s.items = nil
	s.err = nil
	s.loading = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Refetch performs an authoritative fetch for the current scope and
// replaces the items wholesale, cancelling any fetch already in flight.
//
// It returns the fetch error, if both endpoints failed. Being
// superseded while in flight is not an error: the result is discarded
// and Refetch returns nil.
func (s *Store) Refetch(ctx context.Context) error {
	s.mu.Lock()
	if !s.scoped {
		s.mu.Unlock()
		return ErrNoScope
	}

	s.supersedeLocked()
	gen := s.gen
	scope := s.scope
	s.loading = true
	fctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)

	items, err := s.fetchBoth(fctx, scope)
	if fctx.Err() != nil {
		return nil
	}
	if s.settle(gen, items, err) {
		return err
	}
	return nil
}

// UpdateItems is the only sanctioned path for optimistic local writes.
//
// The updater receives a copy of the current items and returns the new
// collection; records it leaves alone are untouched values, so it
// cannot accidentally mutate its neighbours.
func (s *Store) UpdateItems(update func([]projects.Detail) []projects.Detail) {
	s.mu.Lock()
	s.items = update(cloneItems(s.items))
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Scope returns the current scope id, and whether there is one.
func (s *Store) Scope() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope, s.scoped
}

// Subscribe registers fn to be called with a snapshot after every state
// change. The returned function unsubscribes.
//
// Snapshots are delivered outside the store's lock. When state changes
// race on different goroutines, their snapshots can reach fn in either
// order, so fn is a change signal, not an ordered log; read Snapshot()
// for the current state.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub += 1
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for nth, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:nth], s.subs[nth+1:]...)
				return
			}
		}
	}
}

// Close cancels any in-flight fetch and drops all subscribers.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
	s.subs = nil
}

// supersedeLocked invalidates the current generation; the in-flight
// fetch holding it, if any, is cancelled and can no longer settle.
func (s *Store) supersedeLocked() {
	s.gen += 1
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Store) runFetch(ctx context.Context, gen uint64, scope int64) {
	items, err := s.fetchBoth(ctx, scope)
	if ctx.Err() != nil {
		// superseded or torn down; whatever happened, it is not news
		return
	}
	s.settle(gen, items, err)
}

// fetchBoth is the primary-then-fallback policy: the current endpoint
// first, the legacy one on any failure, the fallback's error when both
// are down. One logical fetch, however many requests it takes.
func (s *Store) fetchBoth(ctx context.Context, scope int64) ([]projects.Detail, error) {
	items, err := s.fetcher.ListClientProjects(ctx, scope)
	if err == nil || ctx.Err() != nil {
		return items, err
	}

	s.logf("primary projects endpoint failed for scope %d, trying fallback: %s", scope, err)
	return s.fetcher.ListProjectsByClient(ctx, scope)
}

// settle applies a fetch outcome, unless its generation is stale.
// Reports whether the outcome was applied.
func (s *Store) settle(gen uint64, items []projects.Detail, err error) bool {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return false
	}

	// this fetch is done with its context; release it
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.loading = false
	if err != nil {
		s.err = err
	} else {
		s.err = nil
		s.items = items
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:   cloneItems(s.items),
		Loading: s.loading,
		Err:     s.err,
		Scope:   s.scope,
		Scoped:  s.scoped,
	}
}

func (s *Store) notify(snap Snapshot) {
	s.mu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap)
	}
}

func (s *Store) logf(format string, args ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Printf(format, args...)
}

func cloneItems(items []projects.Detail) []projects.Detail {
	cp := make([]projects.Detail, len(items))
	copy(cp, items)
	return cp
}
