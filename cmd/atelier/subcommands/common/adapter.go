package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/youta-t/flarc"

	"github.com/atelier-works/atelier/pkg/portal/nav"
	"github.com/atelier-works/atelier/pkg/portal/rest"
	"github.com/atelier-works/atelier/pkg/portal/session"
)

type TaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTaskWithCommonFlag[T any](task TaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		return task(
			ctx,
			logger,
			commonFlag,
			cl,
			newpos,
		)
	}
}

type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	actorID int64,
	client rest.PortalClient,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTask wraps task with the session plumbing every data command
// shares: load the session store, pick the record of the role, resolve
// its account id and build a portal client from it.
//
// Commands whose session does not resolve to a signed-in account never
// get a client; they fail here, before any request is made.
func NewTask[T any](task Task[T]) flarc.Task[T] {

	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		logger *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		role, err := session.ParseRole(commonFlag.Role)
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
				"%w: failed to load session store (%s)",
				err, commonFlag.SessionStore,
			)
		}

		rec, ok := store[role]
		if !ok {
			return fmt.Errorf(
				"no session for role '%s' in the session store (%s). Please try `atelier login %s`",
				role, commonFlag.SessionStore, role,
			)
		}

		if rec.TokenExpired(time.Now()) {
			return fmt.Errorf(
				"session for role '%s' is expired. Please try `atelier login %s` again",
				role, role,
			)
		}

		actorID, resolved := rec.Identity()
		if nav.Guard(actorID, resolved) != nav.Admit {
			return fmt.Errorf(
				"session for role '%s' does not resolve to a signed-in account. Please try `atelier login %s` again",
				role, role,
			)
		}

		client, err := rest.NewClient(rec)
		if err != nil {
			return fmt.Errorf(
				"%w: failed to create portal client. Your session (role %s in %s) can be broken.\n\nRemove it with `atelier logout %s` and sign in again",
				err, role, commonFlag.SessionStore, role,
			)
		}
		return task(ctx, logger, commonFlag, actorID, client, cl, params)
	})
}
