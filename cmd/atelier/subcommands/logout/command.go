package logout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/youta-t/flarc"

	"github.com/atelier-works/atelier/cmd/atelier/subcommands/common"
	"github.com/atelier-works/atelier/pkg/portal/session"
)

const ARG_ROLE = "ROLE"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Remove the session of a role from the session store.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_ROLE, Required: true,
				Help: "role whose session is removed. client|instructor|student",
			},
		},
		common.NewTaskWithCommonFlag(Task()),
	)
}

func Task() common.TaskWithCommonFlag[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag common.CommonFlags,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		role, err := session.ParseRole(cl.Args()[ARG_ROLE][0])
		if err != nil {
			return errors.Join(flarc.ErrUsage, err)
		}

		store, err := session.LoadStore(commonFlag.SessionStore)
		if err != nil {
			if errors.Is(err, session.ErrStoreNotFound) {
				logger.Printf("session store (%s) is not found. Nothing to do", commonFlag.SessionStore)
				return nil
			}
			return fmt.Errorf(
				"%w: failed to load session store (%s)", err, commonFlag.SessionStore,
			)
		}

		if _, ok := store[role]; !ok {
			logger.Printf("no session for role '%s'. Nothing to do", role)
			return nil
		}

		delete(store, role)
		if err := store.Save(commonFlag.SessionStore); err != nil {
			return fmt.Errorf(
				"%w: failed to save session store (%s)", err, commonFlag.SessionStore,
			)
		}

		logger.Printf("session for role '%s' is removed from %s", role, commonFlag.SessionStore)
		return nil
	}
}
