package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apierr "github.com/atelier-works/atelier/pkg/api/types/errors"
	"github.com/atelier-works/atelier/pkg/api/types/projects"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectRepository is the storage behind atelierd.
//
// atelierd exists for local development and tests, so the only shipped
// implementation is the in-memory one.
type ProjectRepository interface {
	ListByClient(ctx context.Context, clientID int64) ([]projects.Detail, error)
	Create(ctx context.Context, spec projects.Spec) (projects.Detail, error)
	Update(ctx context.Context, projectID int64, spec projects.Spec) (projects.Detail, error)
	Delete(ctx context.Context, projectID int64) error
}

// ListClientProjectsHandler serves the current list endpoint,
// GET /clients/:clientId/projects. It answers a bare array.
func ListClientProjectsHandler(repo ProjectRepository, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		clientID, err := paramInt64(c, paramKey)
		if err != nil {
			return apierr.BadRequest("client id should be an integer", err)
		}

		found, err := repo.ListByClient(ctx, clientID)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, found)
	}
}

// ListProjectsByClientHandler serves the legacy list endpoint,
// GET /projects/client/:clientId. Old portal frontends expect the
// {"data": [...]} wrapping, so it stays.
func ListProjectsByClientHandler(repo ProjectRepository, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		clientID, err := paramInt64(c, paramKey)
		if err != nil {
			return apierr.BadRequest("client id should be an integer", err)
		}

		found, err := repo.ListByClient(ctx, clientID)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, map[string][]projects.Detail{"data": found})
	}
}

// CreateProjectHandler serves POST /projects.
func CreateProjectHandler(repo ProjectRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		spec, err := decodeSpec(c)
		if err != nil {
			return err
		}
		if spec.ClientID <= 0 {
			return apierr.BadRequest("client_id is required", nil)
		}
		if spec.Title == "" {
			return apierr.BadRequest("title is required", nil)
		}

		created, err := repo.Create(ctx, *spec)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, created)
	}
}

// UpdateProjectHandler serves PUT /projects/:projectId.
func UpdateProjectHandler(repo ProjectRepository, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		projectID, err := paramInt64(c, paramKey)
		if err != nil {
			return apierr.BadRequest("project id should be an integer", err)
		}

		spec, err := decodeSpec(c)
		if err != nil {
			return err
		}

		updated, err := repo.Update(ctx, projectID, *spec)
		if err != nil {
			if errors.Is(err, ErrProjectNotFound) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, updated)
	}
}

// DeleteProjectHandler serves DELETE /projects/:projectId.
func DeleteProjectHandler(repo ProjectRepository, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		projectID, err := paramInt64(c, paramKey)
		if err != nil {
			return apierr.BadRequest("project id should be an integer", err)
		}

		if err := repo.Delete(ctx, projectID); err != nil {
			if errors.Is(err, ErrProjectNotFound) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func paramInt64(c echo.Context, paramKey string) (int64, error) {
	return strconv.ParseInt(c.Param(paramKey), 10, 64)
}

func decodeSpec(c echo.Context) (*projects.Spec, error) {
	spec := projects.Spec{}
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&spec); err != nil {
		return nil, apierr.NewErrorMessage(
			http.StatusBadRequest,
			"format error",
			apierr.WithAdvice(err.Error()),
			apierr.WithError(err),
		)
	}
	return &spec, nil
}
