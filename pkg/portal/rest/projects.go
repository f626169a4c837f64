package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/atelier-works/atelier/pkg/api/types/projects"
)

// Every request carries a fresh correlation id, so that a portal-side
// log line can be tied back to one client call.
const headerRequestID = "X-Atelier-Request-Id"

func (c *client) newRequest(
	ctx context.Context, method string, url string, body *bytes.Reader,
) (*http.Request, error) {
	var req *http.Request
	var err error
	if body == nil {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, body)
		if err == nil {
			req.Header.Add("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, err
	}

	req.Header.Add(headerRequestID, uuid.NewString())
	if c.token != "" {
		req.Header.Add("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *client) ListClientProjects(ctx context.Context, clientID int64) ([]projects.Detail, error) {
	return c.listProjects(
		ctx, c.apipath("clients", strconv.FormatInt(clientID, 10), "projects"),
	)
}

func (c *client) ListProjectsByClient(ctx context.Context, clientID int64) ([]projects.Detail, error) {
	return c.listProjects(
		ctx, c.apipath("projects", "client", strconv.FormatInt(clientID, 10)),
	)
}

func (c *client) listProjects(ctx context.Context, url string) ([]projects.Detail, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body json.RawMessage
	if err := unmarshalJsonResponse(
		resp, &body,
		MessageFor{
			Status4xx: fmt.Sprintf("listing projects is rejected by server (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return nil, err
	}

	return normalizeCollection(body), nil
}

func (c *client) CreateProject(ctx context.Context, spec projects.Spec) (projects.Patch, error) {
	reqBody, err := json.Marshal(spec)
	if err != nil {
		return projects.Patch{}, err
	}

	req, err := c.newRequest(
		ctx, http.MethodPost, c.apipath("projects"), bytes.NewReader(reqBody),
	)
	if err != nil {
		return projects.Patch{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return projects.Patch{}, err
	}
	defer resp.Body.Close()

	patch := projects.Patch{}
	if err := unmarshalJsonResponse(
		resp, &patch,
		MessageFor{
			Status4xx: fmt.Sprintf("creating project is rejected by server (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return projects.Patch{}, err
	}

	return patch, nil
}

func (c *client) UpdateProject(ctx context.Context, projectID int64, spec projects.Spec) (projects.Patch, error) {
	reqBody, err := json.Marshal(spec)
	if err != nil {
		return projects.Patch{}, err
	}

	req, err := c.newRequest(
		ctx, http.MethodPut,
		c.apipath("projects", strconv.FormatInt(projectID, 10)),
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return projects.Patch{}, err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return projects.Patch{}, err
	}
	defer resp.Body.Close()

	patch := projects.Patch{}
	if err := unmarshalJsonResponse(
		resp, &patch,
		MessageFor{
			Status4xx: fmt.Sprintf("updating project is rejected by server (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	); err != nil {
		return projects.Patch{}, err
	}

	return patch, nil
}

func (c *client) DeleteProject(ctx context.Context, projectID int64) error {
	req, err := c.newRequest(
		ctx, http.MethodDelete,
		c.apipath("projects", strconv.FormatInt(projectID, 10)),
		nil,
	)
	if err != nil {
		return err
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return unmarshalResponseDiscardingPayload(
		resp,
		MessageFor{
			Status4xx: fmt.Sprintf("deleting project is rejected by server (status code = %d)", resp.StatusCode),
			Status5xx: fmt.Sprintf("server error (status code = %d)", resp.StatusCode),
		},
	)
}
