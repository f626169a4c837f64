package create

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/youta-t/flarc"

	"github.com/atelier-works/atelier/cmd/atelier/subcommands/common"
	apiproj "github.com/atelier-works/atelier/pkg/api/types/projects"
	krst "github.com/atelier-works/atelier/pkg/portal/rest"
)

type Flag struct {
	Title       string `flag:"title" alias:"t" help:"Title of the new Project."`
	Description string `flag:"description" alias:"d" help:"Description of the new Project."`
	Status      string `flag:"status" metavar:"open|active|on-hold|done|archived" help:"Initial status. The portal defaults to open."`
}

type Command struct {
	task func(
		ctx context.Context,
		client krst.PortalClient,
		spec apiproj.Spec,
	) (apiproj.Detail, error)
}

func WithTask(
	task func(
		ctx context.Context,
		client krst.PortalClient,
		spec apiproj.Spec,
	) (apiproj.Detail, error),
) func(*Command) *Command {
	return func(cmd *Command) *Command {
		cmd.task = task
		return cmd
	}
}

func New(options ...func(*Command) *Command) (flarc.Command, error) {
	command := &Command{task: RunCreateProject}
	for _, opt := range options {
		command = opt(command)
	}

	return flarc.NewCommand(
		"Create a new Project for the signed-in account.",
		Flag{},
		flarc.Args{},
		common.NewTask(Task(command.task)),
	)
}

func Task(
	task func(context.Context, krst.PortalClient, apiproj.Spec) (apiproj.Detail, error),
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
		flags := cl.Flags()
		if flags.Title == "" {
			return fmt.Errorf("%w: --title is required", flarc.ErrUsage)
		}

		spec := apiproj.Spec{
			ClientID:    actorID,
			Title:       flags.Title,
			Description: flags.Description,
			Status:      flags.Status,
		}

		created, err := task(ctx, client, spec)
		if err != nil {
			return err
		}
		logger.Printf("created Project Id:%d", created.ID)

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		return enc.Encode(created)
	}
}

// RunCreateProject submits spec and returns the created Project, the
// server answer layered over the submitted fields.
func RunCreateProject(
	ctx context.Context,
	client krst.PortalClient,
	spec apiproj.Spec,
) (apiproj.Detail, error) {
	patch, err := client.CreateProject(ctx, spec)
	if err != nil {
		return apiproj.Detail{}, err
	}
	return apiproj.Compose(spec, patch), nil
}
