// Package errors defines the domain errors shared across services and maps
// them, together with repo/infra errors, onto gRPC status codes.
package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound: the user has no committed profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrSelfDecision: a user tried to like or pass themselves.
	ErrSelfDecision = errors.New("cannot decide on yourself")
	// ErrNotMatched: chat relay attempted without an active match.
	ErrNotMatched = errors.New("users are not matched")
	// ErrInvalidArgument wraps malformed input reaching a service boundary.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Map converts domain/repo/infra errors into gRPC-friendly status errors.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, ErrProfileNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return status.Error(codes.NotFound, "record not found")

	case errors.Is(err, ErrSelfDecision), errors.Is(err, ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, ErrNotMatched):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// InvalidArgument creates a gRPC InvalidArgument error.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}
