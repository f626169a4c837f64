package rm

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/youta-t/flarc"

	"github.com/atelier-works/atelier/cmd/atelier/subcommands/common"
	krst "github.com/atelier-works/atelier/pkg/portal/rest"
)

type Command struct {
	remove func(
		ctx context.Context,
		client krst.PortalClient,
		projectID int64,
	) error
}

func WithRemover(
	remove func(
		ctx context.Context,
		client krst.PortalClient,
		projectID int64,
	) error,
) func(*Command) *Command {
	return func(cmd *Command) *Command {
		cmd.remove = remove
		return cmd
	}
}

const ARG_PROJECT_ID = "PROJECT_ID"

func New(options ...func(*Command) *Command) (flarc.Command, error) {
	command := &Command{remove: RunDeleteProject}
	for _, opt := range options {
		command = opt(command)
	}

	return flarc.NewCommand(
		"Delete the Project with the specified Project Id.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_PROJECT_ID, Required: true,
				Help: "Id of the Project to be deleted.",
			},
		},
		common.NewTask(Task(command.remove)),
	)
}

func Task(
	remove func(context.Context, krst.PortalClient, int64) error,
) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag common.CommonFlags,
		actorID int64,
		client krst.PortalClient,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		rawID := cl.Args()[ARG_PROJECT_ID][0]
		projectID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: PROJECT_ID should be an integer: %s", flarc.ErrUsage, rawID)
		}

		if err := remove(ctx, client, projectID); err != nil {
			return err
		}
		logger.Printf("deleted Project Id:%d", projectID)
		return nil
	}
}

func RunDeleteProject(
	ctx context.Context,
	client krst.PortalClient,
	projectID int64,
) error {
	return client.DeleteProject(ctx, projectID)
}
