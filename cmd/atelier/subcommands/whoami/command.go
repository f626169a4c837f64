package whoami

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/youta-t/flarc"

	"github.com/atelier-works/atelier/cmd/atelier/subcommands/common"
	"github.com/atelier-works/atelier/pkg/portal/nav"
	"github.com/atelier-works/atelier/pkg/portal/session"
)

const ARG_ROLE = "ROLE"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show who the session of a role resolves to.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_ROLE, Required: false,
				Help: "role to inspect. client|instructor|student (default: --role)",
			},
		},
		common.NewTaskWithCommonFlag(Task()),
	)
}

// Identity is the shape written to stdout, as json.
type Identity struct {
	Role     session.Role `json:"role"`
	Server   string       `json:"server"`
	ActorID  *int64       `json:"actor_id"`
	SignedIn bool         `json:"signed_in"`
	Expired  bool         `json:"expired"`
}

func Task() common.TaskWithCommonFlag[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag common.CommonFlags,
		cl flarc.Commandline[struct{}],
		params []any,
	) error {
		roleName := commonFlag.Role
		if args := cl.Args()[ARG_ROLE]; 0 < len(args) {
			roleName = args[0]
		}
		role, err := session.ParseRole(roleName)
		if err != nil {
			return errors.Join(flarc.ErrUsage, err)
		}

		store, err := session.LoadStore(commonFlag.SessionStore)
		if err != nil {
			if errors.Is(err, session.ErrStoreNotFound) {
				return fmt.Errorf(
					"%w: session store (%s) is not found. Please try `atelier login` first",
					err, commonFlag.SessionStore,
				)
			}
			return fmt.Errorf(
				"%w: failed to load session store (%s)", err, commonFlag.SessionStore,
			)
		}

		rec, ok := store[role]
		if !ok {
			return fmt.Errorf("no session for role '%s' in the session store (%s)", role, commonFlag.SessionStore)
		}

		actorID, resolved := rec.Identity()
		ident := Identity{
			Role:     role,
			Server:   rec.Server,
			SignedIn: nav.Guard(actorID, resolved) == nav.Admit,
			Expired:  rec.TokenExpired(time.Now()),
		}
		if resolved {
			ident.ActorID = &actorID
		}

		enc := json.NewEncoder(cl.Stdout())
		enc.SetIndent("", "    ")
		if err := enc.Encode(ident); err != nil {
			return err
		}
		return nil
	}
}
