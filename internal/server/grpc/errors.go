package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrInvalidPassword, codes.InvalidArgument},
	{common.ErrExpiredVerificationToken, codes.InvalidArgument},
	{common.ErrDuplicateEmail, codes.AlreadyExists},
	{common.ErrInvalidCredentials, codes.Unauthenticated},
	{common.ErrInvalidRefreshToken, codes.Unauthenticated},
	{common.ErrExpiredRefreshToken, codes.Unauthenticated},
	{common.ErrInvalidVerificationToken, codes.NotFound},
	{common.ErrUserNotFound, codes.NotFound},
}

// toStatus converts a workflow error into a gRPC status. Domain errors keep
// their message; anything else becomes a bare Internal.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			s.logger.Warn(ctx, "request rejected", "method", method, "error", err.Error())
			return status.Error(e.code, e.err.Error())
		}
	}
	s.logger.Error(ctx, "request failed", "method", method, "error", err.Error())
	return status.Error(codes.Internal, "internal error")
}
