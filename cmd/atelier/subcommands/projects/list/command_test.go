package list_test

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/atelier-works/atelier/cmd/atelier/subcommands/common"
	"github.com/atelier-works/atelier/cmd/atelier/subcommands/internal/commandline"
	"github.com/atelier-works/atelier/cmd/atelier/subcommands/logger"
	proj_list "github.com/atelier-works/atelier/cmd/atelier/subcommands/projects/list"
	apiproj "github.com/atelier-works/atelier/pkg/api/types/projects"
	krst "github.com/atelier-works/atelier/pkg/portal/rest"
	"github.com/atelier-works/atelier/pkg/portal/rest/mock"
	"github.com/atelier-works/atelier/pkg/utils/cmp"
)

func TestRunListProjects(t *testing.T) {
	items := []apiproj.Detail{
		{ID: 1, ClientID: 7, Title: "brand site", Status: apiproj.StatusActive},
		{ID: 2, ClientID: 7, Title: "mobile app", Status: apiproj.StatusOpen},
	}

	t.Run("when the primary endpoint answers, the fallback is not asked", func(t *testing.T) {
		client := mock.New(t)
		client.Impl.ListClientProjects = func(ctx context.Context, clientID int64) ([]apiproj.Detail, error) {
			return items, nil
		}

		actual, err := proj_list.RunListProjects(
			context.Background(), logger.Null(), client, 7,
		)
		if err != nil {
			t.Fatalf("RunListProjects returns error unexpectedly: %s", err)
		}
		if !cmp.SliceEqWith(actual, items, apiproj.Detail.Equal) {
			t.Errorf("unexpected items: %+v", actual)
		}
		if len(client.Calls.ListProjectsByClient) != 0 {
			t.Errorf("fallback should not be called: %v", client.Calls.ListProjectsByClient)
		}
	})

	t.Run("when the primary endpoint fails, the fallback answers", func(t *testing.T) {
		client := mock.New(t)
		client.Impl.ListClientProjects = func(ctx context.Context, clientID int64) ([]apiproj.Detail, error) {
			return nil, errors.New("fake error")
		}
		client.Impl.ListProjectsByClient = func(ctx context.Context, clientID int64) ([]apiproj.Detail, error) {
			return items, nil
		}

		actual, err := proj_list.RunListProjects(
			context.Background(), logger.Null(), client, 7,
		)
		if err != nil {
			t.Fatalf("RunListProjects returns error unexpectedly: %s", err)
		}
		if !cmp.SliceEqWith(actual, items, apiproj.Detail.Equal) {
			t.Errorf("unexpected items: %+v", actual)
		}
	})

	t.Run("when both endpoints fail, it returns both errors", func(t *testing.T) {
		primaryErr := errors.New("fake primary error")
		fallbackErr := errors.New("fake fallback error")
		client := mock.New(t)
		client.Impl.ListClientProjects = func(ctx context.Context, clientID int64) ([]apiproj.Detail, error) {
			return nil, primaryErr
		}
		client.Impl.ListProjectsByClient = func(ctx context.Context, clientID int64) ([]apiproj.Detail, error) {
			return nil, fallbackErr
		}

		_, err := proj_list.RunListProjects(
			context.Background(), logger.Null(), client, 7,
		)
		if !errors.Is(err, primaryErr) || !errors.Is(err, fallbackErr) {
			t.Errorf("unexpected error: %+v", err)
		}
	})
}

func TestTask(t *testing.T) {
	t.Run("it writes the list to stdout as json", func(t *testing.T) {
		items := []apiproj.Detail{
			{ID: 1, ClientID: 7, Title: "brand site", Status: apiproj.StatusActive},
		}
		client := mock.New(t)

		stdout := new(strings.Builder)
		cl := commandline.MockCommandline[proj_list.Flag]{
			Fullname_: "atelier projects list",
			Flags_:    proj_list.Flag{Interval: "10s"},
			Args_:     map[string][]string{},
			Stdout_:   stdout,
			Stderr_:   new(strings.Builder),
		}

		err := proj_list.Task(
			func(ctx context.Context, l *log.Logger, c krst.PortalClient, clientID int64) ([]apiproj.Detail, error) {
				return items, nil
			},
		)(
			context.Background(), logger.Null(), common.CommonFlags{},
			7, client, cl, nil,
		)
		if err != nil {
			t.Fatalf("Task returns error unexpectedly: %s", err)
		}

		actual := []apiproj.Detail{}
		if err := json.Unmarshal([]byte(stdout.String()), &actual); err != nil {
			t.Fatalf("stdout is not json: %s", err)
		}
		if !cmp.SliceEqWith(actual, items, apiproj.Detail.Equal) {
			t.Errorf("unexpected output: %s", stdout.String())
		}
	})
}
