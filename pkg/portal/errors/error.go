// Package errors carries the error shape atelier shows to its users.
//
// Most failures in this layer end up in front of a person at a
// terminal. A raw wrapped-error chain reads poorly there, so these
// errors keep a one-line summary apart from the longer story: hints and
// the cause chain appear only in the verbose rendering.
package errors

import (
	"fmt"
	"strings"
)

// UserError splits an error for the terminal: Error() is the one-line
// summary, possibly extended with server detail; Verbose() is the full
// story with hints and causes.
type UserError interface {
	error
	Verbose() string
}

type userError struct {
	summary string
	hint    string
	detail  func(summary string) (string, error)
	cause   error
}

type UserErrorOption func(*userError) *userError

func NewUserError(summary string, options ...UserErrorOption) UserError {
	err := &userError{summary: summary}
	for _, opt := range options {
		err = opt(err)
	}
	return err
}

// WithHint attaches a remark shown only in the verbose rendering, like
// which endpoint was being talked to.
func WithHint(hint string) UserErrorOption {
	return func(e *userError) *userError {
		e.hint = hint
		return e
	}
}

// WithDetail attaches a renderer that extends the summary, typically
// with the error body the portal answered.
func WithDetail(render func(summary string) (string, error)) UserErrorOption {
	return func(e *userError) *userError {
		e.detail = render
		return e
	}
}

func WithCause(err error) UserErrorOption {
	return func(e *userError) *userError {
		e.cause = err
		return e
	}
}

func (e *userError) Error() string {
	if e.detail == nil {
		return e.summary
	}
	message, err := e.detail(e.summary)
	if err != nil {
		return fmt.Sprintf(
			"%s\n(rendering the server detail failed: %s)",
			e.summary, err.Error(),
		)
	}
	return message
}

func (e *userError) Unwrap() error {
	return e.cause
}

func (e *userError) Verbose() string {
	lines := []string{e.Error()}
	if e.hint != "" {
		lines = append(lines, "hint: "+e.hint)
	}
	switch cause := e.cause.(type) {
	case nil:
		// nothing below
	case UserError:
		lines = append(lines, "caused by:", cause.Verbose())
	default:
		lines = append(lines, "caused by:", cause.Error())
	}
	return strings.Join(lines, "\n")
}
