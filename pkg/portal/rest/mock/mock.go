package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/atelier-works/atelier/pkg/api/types/projects"
)

type UpdateProjectArgs struct {
	ProjectID int64
	Spec      projects.Spec
}

// New returns a mock rest.PortalClient.
//
// Methods without an Impl assigned fail the test when called.
func New(t *testing.T) *PortalClient {
	return &PortalClient{t: t}
}

type PortalClient struct {
	t *testing.T

	// guards Calls; the collection store fetches from goroutines
	mu sync.Mutex

	Impl struct {
		ListClientProjects   func(ctx context.Context, clientID int64) ([]projects.Detail, error)
		ListProjectsByClient func(ctx context.Context, clientID int64) ([]projects.Detail, error)
		CreateProject        func(ctx context.Context, spec projects.Spec) (projects.Patch, error)
		UpdateProject        func(ctx context.Context, projectID int64, spec projects.Spec) (projects.Patch, error)
		DeleteProject        func(ctx context.Context, projectID int64) error
	}

	Calls struct {
		ListClientProjects   []int64
		ListProjectsByClient []int64
		CreateProject        []projects.Spec
		UpdateProject        []UpdateProjectArgs
		DeleteProject        []int64
	}
}

func (m *PortalClient) ListClientProjects(ctx context.Context, clientID int64) ([]projects.Detail, error) {
	m.t.Helper()
	if m.Impl.ListClientProjects == nil {
		m.t.Fatal("ListClientProjects should not be called")
	}
	m.mu.Lock()
	m.Calls.ListClientProjects = append(m.Calls.ListClientProjects, clientID)
	m.mu.Unlock()
	return m.Impl.ListClientProjects(ctx, clientID)
}

func (m *PortalClient) ListProjectsByClient(ctx context.Context, clientID int64) ([]projects.Detail, error) {
	m.t.Helper()
	if m.Impl.ListProjectsByClient == nil {
		m.t.Fatal("ListProjectsByClient should not be called")
	}
	m.mu.Lock()
	m.Calls.ListProjectsByClient = append(m.Calls.ListProjectsByClient, clientID)
	m.mu.Unlock()
	return m.Impl.ListProjectsByClient(ctx, clientID)
}

func (m *PortalClient) CreateProject(ctx context.Context, spec projects.Spec) (projects.Patch, error) {
	m.t.Helper()
	if m.Impl.CreateProject == nil {
		m.t.Fatal("CreateProject should not be called")
	}
	m.mu.Lock()
	m.Calls.CreateProject = append(m.Calls.CreateProject, spec)
	m.mu.Unlock()
	return m.Impl.CreateProject(ctx, spec)
}

func (m *PortalClient) UpdateProject(ctx context.Context, projectID int64, spec projects.Spec) (projects.Patch, error) {
	m.t.Helper()
	if m.Impl.UpdateProject == nil {
		m.t.Fatal("UpdateProject should not be called")
	}
	m.mu.Lock()
	m.Calls.UpdateProject = append(m.Calls.UpdateProject, UpdateProjectArgs{ProjectID: projectID, Spec: spec})
	m.mu.Unlock()
	return m.Impl.UpdateProject(ctx, projectID, spec)
}

func (m *PortalClient) DeleteProject(ctx context.Context, projectID int64) error {
	m.t.Helper()
	if m.Impl.DeleteProject == nil {
		m.t.Fatal("DeleteProject should not be called")
	}
	m.mu.Lock()
	m.Calls.DeleteProject = append(m.Calls.DeleteProject, projectID)
	m.mu.Unlock()
	return m.Impl.DeleteProject(ctx, projectID)
}
