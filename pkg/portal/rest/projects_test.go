package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atelier-works/atelier/pkg/api/types/projects"
	"github.com/atelier-works/atelier/pkg/portal/rest"
	"github.com/atelier-works/atelier/pkg/portal/session"
	"github.com/atelier-works/atelier/pkg/utils/cmp"
	"github.com/atelier-works/atelier/pkg/utils/try"
)

func newClient(t *testing.T, server *httptest.Server) rest.PortalClient {
	t.Helper()
	rec := &session.Record{
		Server:  server.URL,
		Payload: `{"id": 7}`,
		Token:   "fake-token",
	}
	return try.To(rest.NewClient(rec)).OrFatal(t)
}

func TestListClientProjects(t *testing.T) {
	type when struct {
		status int
		body   string
	}
	type then struct {
		items []projects.Detail
		isErr bool
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			var actualMethod, actualPath, actualAuth, actualReqID string
			server := httptest.NewServer(http.HandlerFunc(
				func(w http.ResponseWriter, r *http.Request) {
					actualMethod = r.Method
					actualPath = r.URL.Path
					actualAuth = r.Header.Get("Authorization")
					actualReqID = r.Header.Get("X-Atelier-Request-Id")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(when.status)
					w.Write([]byte(when.body))
				},
			))
			defer server.Close()

			testee := newClient(t, server)

			actual, err := testee.ListClientProjects(context.Background(), 7)
			if then.isErr {
				if err == nil {
					t.Fatal("ListClientProjects does not return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ListClientProjects returns error unexpectedly: %s", err)
			}

			if actualMethod != http.MethodGet {
				t.Errorf("unexpected method: %s", actualMethod)
			}
			if actualPath != "/clients/7/projects" {
				t.Errorf("unexpected path: %s", actualPath)
			}
			if actualAuth != "Bearer fake-token" {
				t.Errorf("unexpected authorization: %s", actualAuth)
			}
			if actualReqID == "" {
				t.Error("request id header is not set")
			}

			if !cmp.SliceEqWith(actual, then.items, projects.Detail.Equal) {
				t.Errorf(
					"unexpected items:\n===actual===\n%+v\n===expected===\n%+v",
					actual, then.items,
				)
			}
		}
	}

	items := []projects.Detail{
		{ID: 1, ClientID: 7, Title: "brand site", Status: projects.StatusActive},
		{ID: 2, ClientID: 7, Title: "mobile app", Status: projects.StatusOpen},
		{ID: 3, ClientID: 7, Title: "print campaign", Status: projects.StatusDone},
	}
	itemsJSON := string(try.To(json.Marshal(items)).OrFatal(t))

	t.Run("when the response is a bare array, it returns the records", theory(
		when{status: http.StatusOK, body: itemsJSON},
		then{items: items},
	))
	t.Run("when the response wraps the records as items, it unwraps them", theory(
		when{status: http.StatusOK, body: `{"items": ` + itemsJSON + `}`},
		then{items: items},
	))
	t.Run("when the response wraps the records as data, it unwraps them", theory(
		when{status: http.StatusOK, body: `{"data": ` + itemsJSON + `}`},
		then{items: items},
	))
	t.Run("when the response is an empty array, it returns an empty collection", theory(
		when{status: http.StatusOK, body: `[]`},
		then{items: []projects.Detail{}},
	))
	t.Run("when the response is an unrelated object, it returns an empty collection", theory(
		when{status: http.StatusOK, body: `{"total": 3}`},
		then{items: []projects.Detail{}},
	))
	t.Run("when the response is null, it returns an empty collection", theory(
		when{status: http.StatusOK, body: `null`},
		then{items: []projects.Detail{}},
	))
	t.Run("when the server answers 404, it returns an error", theory(
		when{status: http.StatusNotFound, body: `{"message": {"reason": "not found"}}`},
		then{isErr: true},
	))
	t.Run("when the server answers 500, it returns an error", theory(
		when{status: http.StatusInternalServerError, body: `boom`},
		then{isErr: true},
	))
}

func TestListProjectsByClient(t *testing.T) {
	t.Run("it queries the legacy endpoint", func(t *testing.T) {
		var actualPath string
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				actualPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"data": []}`))
			},
		))
		defer server.Close()

		testee := newClient(t, server)

		if _, err := testee.ListProjectsByClient(context.Background(), 9); err != nil {
			t.Fatalf("ListProjectsByClient returns error unexpectedly: %s", err)
		}
		if actualPath != "/projects/client/9" {
			t.Errorf("unexpected path: %s", actualPath)
		}
	})
}

func TestCreateProject(t *testing.T) {
	t.Run("it posts the spec and returns the server patch", func(t *testing.T) {
		var actualMethod, actualPath, actualContentType string
		var actualBody []byte
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				actualMethod = r.Method
				actualPath = r.URL.Path
				actualContentType = r.Header.Get("Content-Type")
				actualBody = try.To(io.ReadAll(r.Body)).OrFatal(t)

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id": 42, "status": "open"}`))
			},
		))
		defer server.Close()

		testee := newClient(t, server)

		spec := projects.Spec{
			ClientID: 7, Title: "brand site", Description: "marketing site rebuild",
		}
		patch, err := testee.CreateProject(context.Background(), spec)
		if err != nil {
			t.Fatalf("CreateProject returns error unexpectedly: %s", err)
		}

		if actualMethod != http.MethodPost || actualPath != "/projects" {
			t.Errorf("unexpected request: %s %s", actualMethod, actualPath)
		}
		if actualContentType != "application/json" {
			t.Errorf("unexpected content type: %s", actualContentType)
		}

		sent := projects.Spec{}
		if err := json.Unmarshal(actualBody, &sent); err != nil {
			t.Fatalf("request body is not a spec: %s", err)
		}
		if sent != spec {
			t.Errorf("unexpected request body: %+v", sent)
		}

		if patch.ID == nil || *patch.ID != 42 {
			t.Errorf("patch does not carry the assigned id: %+v", patch)
		}
		if patch.Status == nil || *patch.Status != projects.StatusOpen {
			t.Errorf("patch does not carry the canonical status: %+v", patch)
		}
		if patch.Title != nil {
			t.Errorf("patch carries a title the server never sent: %+v", patch)
		}
	})

	t.Run("when the server rejects the spec, it returns an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message": {"reason": "bad request", "advice": "title is required"}}`))
			},
		))
		defer server.Close()

		testee := newClient(t, server)

		if _, err := testee.CreateProject(
			context.Background(), projects.Spec{ClientID: 7},
		); err == nil {
			t.Fatal("CreateProject does not return error")
		}
	})
}

func TestUpdateProject(t *testing.T) {
	t.Run("it puts the spec at the project path", func(t *testing.T) {
		var actualMethod, actualPath string
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				actualMethod = r.Method
				actualPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"id": 42, "title": "brand site v2"}`))
			},
		))
		defer server.Close()

		testee := newClient(t, server)

		patch, err := testee.UpdateProject(
			context.Background(), 42,
			projects.Spec{ClientID: 7, Title: "brand site v2"},
		)
		if err != nil {
			t.Fatalf("UpdateProject returns error unexpectedly: %s", err)
		}

		if actualMethod != http.MethodPut || actualPath != "/projects/42" {
			t.Errorf("unexpected request: %s %s", actualMethod, actualPath)
		}
		if patch.Title == nil || *patch.Title != "brand site v2" {
			t.Errorf("unexpected patch: %+v", patch)
		}
	})
}

func TestDeleteProject(t *testing.T) {
	t.Run("it deletes the project and tolerates an empty response", func(t *testing.T) {
		var actualMethod, actualPath string
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				actualMethod = r.Method
				actualPath = r.URL.Path
				w.WriteHeader(http.StatusNoContent)
			},
		))
		defer server.Close()

		testee := newClient(t, server)

		if err := testee.DeleteProject(context.Background(), 42); err != nil {
			t.Fatalf("DeleteProject returns error unexpectedly: %s", err)
		}
		if actualMethod != http.MethodDelete || actualPath != "/projects/42" {
			t.Errorf("unexpected request: %s %s", actualMethod, actualPath)
		}
	})

	t.Run("when the server fails, it returns an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		))
		defer server.Close()

		testee := newClient(t, server)

		if err := testee.DeleteProject(context.Background(), 42); err == nil {
			t.Fatal("DeleteProject does not return error")
		}
	})
}

func TestNewClient(t *testing.T) {
	t.Run("it refuses a record without a server", func(t *testing.T) {
		if _, err := rest.NewClient(&session.Record{Payload: `{"id": 7}`}); err == nil {
			t.Fatal("NewClient does not return error")
		}
	})

	t.Run("it refuses a record without a payload", func(t *testing.T) {
		if _, err := rest.NewClient(&session.Record{Server: "http://api.atelier.invalid"}); err == nil {
			t.Fatal("NewClient does not return error")
		}
	})
}
