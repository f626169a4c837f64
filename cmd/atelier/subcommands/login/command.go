package login

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/youta-t/flarc"

	"github.com/atelier-works/atelier/cmd/atelier/subcommands/common"
	"github.com/atelier-works/atelier/pkg/portal/session"
)

type Flag struct {
	Server      string `flag:"server" alias:"s" help:"portal API root, like https://portal.example.com/api"`
	Payload     string `flag:"payload" help:"identity payload as raw JSON, exactly as the portal issued it"`
	PayloadFile string `flag:"payload-file" metavar:"path/to/payload.json" help:"file containing the identity payload. Exclusive with --payload."`
	Token       string `flag:"token" help:"access token for the session, if the portal issued one"`
}

const ARG_ROLE = "ROLE"

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Register a session for a role.",
		Flag{},
		flarc.Args{
			{
				Name: ARG_ROLE, Required: true,
				Help: "role the session belongs to. client|instructor|student",
			},
		},
		common.NewTaskWithCommonFlag(Task()),
		flarc.WithDescription(`
Register a portal session into your session store.

A session is the server to talk to, the identity payload the portal
handed out at sign-in, and (optionally) an access token. Sessions are
kept per role, so you can be signed in as a client and as an
instructor at the same time and switch with '--role'.

To register a client session:

    {{ .Command }} client --server https://portal.example.com/api --payload '{"id": 7}'

When the payload is large, keep it in a file:

    {{ .Command }} client --server https://portal.example.com/api --payload-file ./payload.json
`),
	)
}

func Task() common.TaskWithCommonFlag[Flag] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag common.CommonFlags,
		cl flarc.Commandline[Flag],
		params []any,
	) error {
		role, err := session.ParseRole(cl.Args()[ARG_ROLE][0])
		if err != nil {
			return errors.Join(flarc.ErrUsage, err)
		}

		flags := cl.Flags()

		payload := flags.Payload
		if flags.PayloadFile != "" {
			if payload != "" {
				return fmt.Errorf(
					"%w: --payload and --payload-file are exclusive", flarc.ErrUsage,
				)
			}
			content, err := os.ReadFile(flags.PayloadFile)
			if err != nil {
				return fmt.Errorf(
					"%w: failed to read payload file (%s)", err, flags.PayloadFile,
				)
			}
			payload = strings.TrimSpace(string(content))
		}

		rec := &session.Record{
			Server:  flags.Server,
			Payload: payload,
			Token:   flags.Token,
		}
		if err := rec.Verify(); err != nil {
			return errors.Join(flarc.ErrUsage, err)
		}

		if _, ok := rec.Identity(); !ok {
			logger.Printf(
				"warning: the payload does not resolve to an account id. You are registered, but data commands will refuse this session until the portal issues a numeric id",
			)
		}

		store, err := session.LoadStore(commonFlag.SessionStore)
		if errors.Is(err, session.ErrStoreNotFound) {
			store = session.Store{}
		} else if err != nil {
			return fmt.Errorf(
				"%w: failed to load session store (%s)", err, commonFlag.SessionStore,
			)
		}

		store[role] = rec
		if err := store.Save(commonFlag.SessionStore); err != nil {
			return fmt.Errorf(
				"%w: failed to save session store (%s)", err, commonFlag.SessionStore,
			)
		}

		logger.Printf("session for role '%s' is saved to %s", role, commonFlag.SessionStore)
		return nil
	}
}
