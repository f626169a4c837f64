package session

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// UntilInvalidatedContext returns a context that is canceled when the
// session store file is modified (= written, created, removed, or renamed).
//
// Long-lived commands use this so that a logout (or re-login) performed
// elsewhere stops their work instead of letting them keep acting on a
// dead session.
//
// # Returns
//
// - context.Context: canceled on modification of storePath.
//
// - func(): cancel function.
//
// - error: error caused when it fails to start watching the file.
func UntilInvalidatedContext(ctx context.Context, storePath string) (context.Context, func(), error) {
	cctx, cancel := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return nil, nil, err
	}

	go func() {
		defer w.Close()

		for {
			select {
			case <-cctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				cancel(fmt.Errorf("session store %s is updated (%s)", event.Name, event.Op.String()))
			}
		}
	}()

	if err := w.Add(storePath); err != nil {
		cancel(err)
		return nil, nil, err
	}
	return cctx, func() { cancel(nil) }, nil
}
