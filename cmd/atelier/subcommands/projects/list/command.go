package list

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/youta-t/flarc"

	"github.com/atelier-works/atelier/cmd/atelier/subcommands/common"
	apiproj "github.com/atelier-works/atelier/pkg/api/types/projects"
	krst "github.com/atelier-works/atelier/pkg/portal/rest"
	"github.com/atelier-works/atelier/pkg/portal/session"
)

type Flag struct {
	Follow   bool   `flag:"follow" alias:"f" help:"Keep printing the list until interrupted or signed out."`
	Interval string `flag:"interval" metavar:"duration" help:"Polling interval for --follow, like 10s or 1m."`
}

type Command struct {
	task func(
		ctx context.Context,
		logger *log.Logger,
		client krst.PortalClient,
		clientID int64,
	) ([]apiproj.Detail, error)
}

func WithTask(
	task func(
		ctx context.Context,
		logger *log.Logger,
		client krst.PortalClient,
		clientID int64,
	) ([]apiproj.Detail, error),
) func(*Command) *Command {
	return func(cmd *Command) *Command {
		cmd.task = task
		return cmd
	}
}

func New(options ...func(*Command) *Command) (flarc.Command, error) {
	command := &Command{task: RunListProjects}
	for _, opt := range options {
		command = opt(command)
	}

	return flarc.NewCommand(
		"List the Projects of the signed-in account.",
		Flag{
			Interval: "10s",
		},
		flarc.Args{},
		common.NewTask(Task(command.task)),
		flarc.WithDescription(`
List the Projects of the account your session resolves to, as json.

With '--follow', the list is printed again every '--interval' until the
command is interrupted or the session store changes on disk (say, by
'atelier logout' in another terminal).
`),
	)
}

func Task(
	task func(context.Context, *log.Logger, krst.PortalClient, int64) ([]apiproj.Detail, error),
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

		listOnce := func(ctx context.Context) error {
			found, err := task(ctx, logger, client, actorID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cl.Stdout())
			enc.SetIndent("", "    ")
			return enc.Encode(found)
		}

		if !flags.Follow {
			return listOnce(ctx)
		}

		interval, err := time.ParseDuration(flags.Interval)
		if err != nil || interval <= 0 {
			return fmt.Errorf("%w: --interval should be a positive duration: %s", flarc.ErrUsage, flags.Interval)
		}

		wctx, stop, err := session.UntilInvalidatedContext(ctx, commonFlag.SessionStore)
		if err != nil {
			return fmt.Errorf("%w: failed to watch session store (%s)", err, commonFlag.SessionStore)
		}
		defer stop()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if err := listOnce(wctx); err != nil {
				if wctx.Err() != nil {
					break
				}
				return err
			}
			select {
			case <-wctx.Done():
				logger.Printf("session store has changed. stop following")
				return nil
			case <-ticker.C:
			}
		}
		logger.Printf("session store has changed. stop following")
		return nil
	}
}

// RunListProjects asks the current endpoint for the list and falls back
// to the legacy one when it fails.
func RunListProjects(
	ctx context.Context,
	logger *log.Logger,
	client krst.PortalClient,
	clientID int64,
) ([]apiproj.Detail, error) {
	found, err := client.ListClientProjects(ctx, clientID)
	if err == nil || ctx.Err() != nil {
		return found, err
	}

	logger.Printf("projects endpoint failed, trying the legacy one: %s", err)
	found, ferr := client.ListProjectsByClient(ctx, clientID)
	if ferr != nil {
		return nil, errors.Join(err, ferr)
	}
	return found, nil
}
