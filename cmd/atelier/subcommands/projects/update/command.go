package update

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/youta-t/flarc"

	"github.com/atelier-works/atelier/cmd/atelier/subcommands/common"
	apiproj "github.com/atelier-works/atelier/pkg/api/types/projects"
	krst "github.com/atelier-works/atelier/pkg/portal/rest"
)

type Flag struct {
	Title       string `flag:"title" alias:"t" help:"New title of the Project."`
	Description string `flag:"description" alias:"d" help:"New description of the Project."`
	Status      string `flag:"status" metavar:"open|active|on-hold|done|archived" help:"New status of the Project."`
}

const ARG_PROJECT_ID = "PROJECT_ID"

type Command struct {
	task func(
		ctx context.Context,
		client krst.PortalClient,
		projectID int64,
		spec apiproj.Spec,
	) (apiproj.Detail, error)
}

func WithTask(
	task func(
		ctx context.Context,
		client krst.PortalClient,
		projectID int64,
		spec apiproj.Spec,
	) (apiproj.Detail, error),
) func(*Command) *Command {
	return func(cmd *Command) *Command {
		cmd.task = task
		return cmd
	}
}

func New(options ...func(*Command) *Command) (flarc.Command, error) {
	command := &Command{task: RunUpdateProject}
	for _, opt := range options {
		command = opt(command)
	}

	return flarc.NewCommand(
		"Update the Project with the specified Project Id.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_PROJECT_ID, Required: true,
				Help: "Id of the Project to be updated.",
			},
		},
		common.NewTask(Task(command.task)),
	)
}

func Task(
	task func(context.Context, krst.PortalClient, int64, apiproj.Spec) (apiproj.Detail, error),
) common.Task[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag common.CommonFlags,
		actorID int64,
		client krst.PortalClient,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		rawID := cl.Args()[ARG_PROJECT_ID][0]
		projectID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: PROJECT_ID should be an integer: %s", flarc.ErrUsage, rawID)
		}

		flags := cl.Flags()
		spec := apiproj.Spec{
			ClientID:    actorID,
			Title:       flags.Title,
			Description: flags.Description,
			Status:      flags.Status,
		}

		updated, err := task(ctx, client, projectID, spec)
		if err != nil {
			return err
		}
		logger.Printf("updated Project Id:%d", updated.ID)

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		return enc.Encode(updated)
	}
}

// RunUpdateProject submits spec for the Project and returns the updated
// record, the server answer layered over the submitted fields.
func RunUpdateProject(
	ctx context.Context,
	client krst.PortalClient,
	projectID int64,
	spec apiproj.Spec,
) (apiproj.Detail, error) {
	patch, err := client.UpdateProject(ctx, projectID, spec)
	if err != nil {
		return apiproj.Detail{}, err
	}

	updated := apiproj.Compose(spec, patch)
	if updated.ID == 0 {
		updated.ID = projectID
	}
	return updated, nil
}
