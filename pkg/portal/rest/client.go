package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/atelier-works/atelier/pkg/api/types/projects"
	"github.com/atelier-works/atelier/pkg/portal/session"
	"github.com/atelier-works/atelier/pkg/utils"
)

// PortalClient is the HTTP surface of the Atelier portal, as seen from
// this client layer.
type PortalClient interface {
	// ListClientProjects fetches the projects scoped to a client actor,
	// from the portal's primary collection endpoint.
	//
	// Args
	//
	// - context.Context
	//
	// - int64: client id scoping the collection
	//
	// Returns
	//
	// - []projects.Detail: records in server order
	//
	// - error
	ListClientProjects(ctx context.Context, clientID int64) ([]projects.Detail, error)

	// ListProjectsByClient fetches the same collection from the legacy
	// fallback endpoint. Callers decide when to fall back; this client
	// never does it on its own.
	ListProjectsByClient(ctx context.Context, clientID int64) ([]projects.Detail, error)

	// CreateProject registers a new project.
	//
	// Returns
	//
	// - projects.Patch: fields the server fixed or assigned. May be the
	// full record or only a diff; absent fields mean the submitted
	// values stand.
	//
	// - error
	CreateProject(ctx context.Context, spec projects.Spec) (projects.Patch, error)

	// UpdateProject overwrites the project with the given id.
	//
	// Response semantics are the same as CreateProject.
	UpdateProject(ctx context.Context, projectID int64, spec projects.Spec) (projects.Patch, error)

	// DeleteProject deletes the project with the given id.
	DeleteProject(ctx context.Context, projectID int64) error
}

type client struct {
	httpclient *http.Client
	api        string
	token      string
}

// create new portal client for a session Record.
//
// # Args
//
// - *session.Record
//
// # Return
//
// - PortalClient: created client
//
// - error: If given record is invalid, session.ErrRecordInvalid is returned.
func NewClient(rec *session.Record) (PortalClient, error) {
	if err := rec.Verify(); err != nil {
		return nil, err
	}

	return &client{
		httpclient: new(http.Client),
		api:        strings.TrimSuffix(rec.Server, "/"),
		token:      rec.Token,
	}, nil
}

// build URL with path
func (c *client) apipath(path ...string) string {
	path = utils.Map(path, func(p string) string {
		return strings.TrimPrefix(strings.TrimSuffix(p, "/"), "/")
	})

	return strings.Join(append([]string{c.api}, path...), "/")
}
