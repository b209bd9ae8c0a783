package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors leaving Handler.Execute.
const (
	CodeMessageInvalid   = "COMMAND_MESSAGE_INVALID"
	CodeCancelled        = "COMMAND_CANCELLED"
	CodeDeadlineExceeded = "COMMAND_DEADLINE_EXCEEDED"
	CodeInterrupted      = "COMMAND_INTERRUPTED"
	CodeFailed           = "COMMAND_FAILED"
)

// categorise applies wrap once. Errors that already carry a go-errors category
// pass through so service-level codes survive the command boundary.
func categorise(err error, wrap func(error) error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return wrap(err)
}

func wrapValidationError(err error) error {
	return categorise(err, func(err error) error {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "command message rejected").
			WithTextCode(CodeMessageInvalid)
	})
}

func wrapContextError(err error) error {
	return categorise(err, func(err error) error {
		message, code := "command interrupted", CodeInterrupted
		switch {
		case errors.Is(err, context.Canceled):
			message, code = "command cancelled", CodeCancelled
		case errors.Is(err, context.DeadlineExceeded):
			message, code = "command timed out", CodeDeadlineExceeded
		}
		return goerrors.Wrap(err, goerrors.CategoryCommand, message).WithTextCode(code)
	})
}

func wrapExecuteError(err error) error {
	return categorise(err, func(err error) error {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
			WithTextCode(CodeFailed)
	})
}
