package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/approver/internal/model"
)

func handleError(err error) error {
	switch {
	case errors.Is(err, model.ErrEmptyCode):
		return status.Error(codes.InvalidArgument, "code is empty")
	case errors.Is(err, model.ErrUnrecognizedCode):
		return status.Error(codes.InvalidArgument, "code is not recognized")
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "account not found")
	case errors.Is(err, model.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, "invalid client token")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
