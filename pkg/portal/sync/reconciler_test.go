package sync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/atelier-works/atelier/pkg/api/types/projects"
	"github.com/atelier-works/atelier/pkg/portal/rest/mock"
	"github.com/atelier-works/atelier/pkg/portal/sync"
	"github.com/atelier-works/atelier/pkg/utils/cmp"
	"github.com/atelier-works/atelier/pkg/utils/pointer"
)

// scopedStore builds a settled store holding initial items for scope 7.
func scopedStore(t *testing.T, client *mock.PortalClient, initial []projects.Detail) *sync.Store {
	t.Helper()

	client.Impl.ListClientProjects = func(ctx context.Context, clientID int64) ([]projects.Detail, error) {
		return initial, nil
	}

	store := sync.New(client)
	t.Cleanup(store.Close)

	ch := make(chan sync.Snapshot, 16)
	defer store.Subscribe(func(s sync.Snapshot) { ch <- s })()

	store.SetScope(context.Background(), 7)
	settledSnapshot(t, ch)
	return store
}

func TestReconciler_Create(t *testing.T) {
	t.Run("it composes the server patch over the spec, server side winning", func(t *testing.T) {
		client := mock.New(t)
		serverItems := fixture(7, 1)
		store := scopedStore(t, client, serverItems)

		client.Impl.CreateProject = func(ctx context.Context, spec projects.Spec) (projects.Patch, error) {
			return projects.Patch{
				ID:     pointer.Ref[int64](42),
				Status: pointer.Ref(projects.StatusOpen),
			}, nil
		}

		testee := sync.NewReconciler(store, client)

		created, err := testee.Create(context.Background(), projects.Spec{
			Title: "brand site", Status: projects.StatusActive,
		})
		if err != nil {
			t.Fatalf("Create returns error unexpectedly: %s", err)
		}

		if created.ID != 42 {
			t.Errorf("created record does not carry the assigned id: %+v", created)
		}
		if created.Status != projects.StatusOpen {
			t.Errorf("server status should win: %+v", created)
		}
		if created.Title != "brand site" {
			t.Errorf("submitted fields should stand where the server is silent: %+v", created)
		}
		if created.ClientID != 7 {
			t.Errorf("spec should be scoped to the store: %+v", created)
		}

		if calls := client.Calls.CreateProject; len(calls) != 1 || calls[0].ClientID != 7 {
			t.Errorf("unexpected create calls: %+v", calls)
		}
	})

	t.Run("after create the collection converges to server truth without duplicates", func(t *testing.T) {
		client := mock.New(t)
		store := scopedStore(t, client, fixture(7, 1))

		// once created, the server includes the new record in every list
		serverTruth := append(fixture(7, 1), projects.Detail{
			ID: 42, ClientID: 7, Title: "brand site", Status: projects.StatusOpen,
		})
		client.Impl.CreateProject = func(ctx context.Context, spec projects.Spec) (projects.Patch, error) {
			client.Impl.ListClientProjects = func(ctx context.Context, clientID int64) ([]projects.Detail, error) {
				return serverTruth, nil
			}
			return projects.Patch{ID: pointer.Ref[int64](42)}, nil
		}

		testee := sync.NewReconciler(store, client)

		if _, err := testee.Create(
			context.Background(), projects.Spec{Title: "brand site"},
		); err != nil {
			t.Fatalf("Create returns error unexpectedly: %s", err)
		}

		snap := store.Snapshot()
		if !cmp.SliceEqWith(snap.Items, serverTruth, projects.Detail.Equal) {
			t.Errorf(
				"collection did not converge:\n===actual===\n%+v\n===expected===\n%+v",
				snap.Items, serverTruth,
			)
		}
	})

	t.Run("when the backend rejects the create, nothing changes locally", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		client := mock.New(t)
		store := scopedStore(t, client, fixture(7, 1))

		client.Impl.CreateProject = func(ctx context.Context, spec projects.Spec) (projects.Patch, error) {
			return projects.Patch{}, expectedErr
		}

		testee := sync.NewReconciler(store, client)

		if _, err := testee.Create(
			context.Background(), projects.Spec{Title: "brand site"},
		); !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %+v", err)
		}

		snap := store.Snapshot()
		if !cmp.SliceEqWith(snap.Items, fixture(7, 1), projects.Detail.Equal) {
			t.Errorf("failed create touched the collection: %+v", snap.Items)
		}
	})
}

func TestReconciler_Update(t *testing.T) {
	t.Run("it replaces the record in place, then converges", func(t *testing.T) {
		client := mock.New(t)
		store := scopedStore(t, client, fixture(7, 1, 2))

		client.Impl.UpdateProject = func(ctx context.Context, projectID int64, spec projects.Spec) (projects.Patch, error) {
			return projects.Patch{
				ID:    pointer.Ref(projectID),
				Title: pointer.Ref("renamed by server"),
			}, nil
		}

		testee := sync.NewReconciler(store, client)

		updated, err := testee.Update(context.Background(), 2, projects.Spec{
			Title: "renamed",
		})
		if err != nil {
			t.Fatalf("Update returns error unexpectedly: %s", err)
		}

		if updated.ID != 2 || updated.Title != "renamed by server" {
			t.Errorf("unexpected record: %+v", updated)
		}

		snap := store.Snapshot()
		if len(snap.Items) != 2 {
			t.Fatalf("update should not grow the collection: %+v", snap.Items)
		}
		if calls := client.Calls.UpdateProject; len(calls) != 1 || calls[0].ProjectID != 2 {
			t.Errorf("unexpected update calls: %+v", calls)
		}
	})

	t.Run("when the server answers without an id, the addressed id stands", func(t *testing.T) {
		client := mock.New(t)
		store := scopedStore(t, client, fixture(7, 1))

		client.Impl.UpdateProject = func(ctx context.Context, projectID int64, spec projects.Spec) (projects.Patch, error) {
			return projects.Patch{}, nil
		}

		testee := sync.NewReconciler(store, client)

		updated, err := testee.Update(context.Background(), 1, projects.Spec{Title: "renamed"})
		if err != nil {
			t.Fatalf("Update returns error unexpectedly: %s", err)
		}
		if updated.ID != 1 {
			t.Errorf("unexpected record: %+v", updated)
		}
	})

	t.Run("when the backend rejects the update, nothing changes locally", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		client := mock.New(t)
		store := scopedStore(t, client, fixture(7, 1))

		client.Impl.UpdateProject = func(ctx context.Context, projectID int64, spec projects.Spec) (projects.Patch, error) {
			return projects.Patch{}, expectedErr
		}

		testee := sync.NewReconciler(store, client)

		if _, err := testee.Update(
			context.Background(), 1, projects.Spec{Title: "renamed"},
		); !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %+v", err)
		}

		snap := store.Snapshot()
		if !cmp.SliceEqWith(snap.Items, fixture(7, 1), projects.Detail.Equal) {
			t.Errorf("failed update touched the collection: %+v", snap.Items)
		}
	})
}

func TestReconciler_Delete(t *testing.T) {
	t.Run("it deletes on the backend and converges by refetch", func(t *testing.T) {
		client := mock.New(t)
		store := scopedStore(t, client, fixture(7, 1, 2))

		client.Impl.DeleteProject = func(ctx context.Context, projectID int64) error {
			client.Impl.ListClientProjects = func(ctx context.Context, clientID int64) ([]projects.Detail, error) {
				return fixture(clientID, 1), nil
			}
			return nil
		}

		testee := sync.NewReconciler(store, client)

		if err := testee.Delete(context.Background(), 2); err != nil {
			t.Fatalf("Delete returns error unexpectedly: %s", err)
		}

		snap := store.Snapshot()
		if !cmp.SliceEqWith(snap.Items, fixture(7, 1), projects.Detail.Equal) {
			t.Errorf("collection did not converge: %+v", snap.Items)
		}
	})

	t.Run("when the backend refuses, the record stays visible", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		client := mock.New(t)
		store := scopedStore(t, client, fixture(7, 1, 2))

		client.Impl.DeleteProject = func(ctx context.Context, projectID int64) error {
			return expectedErr
		}

		testee := sync.NewReconciler(store, client)

		if err := testee.Delete(context.Background(), 2); !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %+v", err)
		}

		snap := store.Snapshot()
		if !cmp.SliceEqWith(snap.Items, fixture(7, 1, 2), projects.Detail.Equal) {
			t.Errorf("failed delete touched the collection: %+v", snap.Items)
		}
	})

	t.Run("an unscoped store converges by local removal", func(t *testing.T) {
		client := mock.New(t)
		store := sync.New(client)
		t.Cleanup(store.Close)

		store.UpdateItems(func(items []projects.Detail) []projects.Detail {
			return fixture(7, 1, 2)
		})

		client.Impl.DeleteProject = func(ctx context.Context, projectID int64) error {
			return nil
		}

		testee := sync.NewReconciler(store, client)

		if err := testee.Delete(context.Background(), 2); err != nil {
			t.Fatalf("Delete returns error unexpectedly: %s", err)
		}

		snap := store.Snapshot()
		if !cmp.SliceEqWith(snap.Items, fixture(7, 1), projects.Detail.Equal) {
			t.Errorf("record was not removed locally: %+v", snap.Items)
		}
	})
}
