package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/auth"
	"github.com/mmynk/tripsplit/internal/models"
)

// connectError maps domain errors to Connect codes. Internal failures are
// logged and replaced with a generic message so driver details don't leak.
func connectError(op string, err error) *connect.Error {
	var code connect.Code
	switch {
	case errors.Is(err, models.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, auth.ErrWrongSecret):
		code = connect.CodePermissionDenied
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, auth.ErrWeakSecret):
		code = connect.CodeInvalidArgument
	case errors.Is(err, models.ErrConflict):
		code = connect.CodeAlreadyExists
	default:
		slog.Error(op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, errors.New(op+" failed"))
	}
	slog.Debug(op+" rejected", "code", code, "error", err)
	return connect.NewError(code, err)
}

func invalidArgument(msg string) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument, errors.New(msg))
}
