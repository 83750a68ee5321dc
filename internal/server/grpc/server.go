// Package grpc exposes the credential workflows over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// AuthService is the subset of services.AuthService the transport needs.
type AuthService interface {
	Register(ctx context.Context, cmd services.RegisterCommand) (*services.RegisterResult, error)
	VerifyEmail(ctx context.Context, cmd services.VerifyEmailCommand) (*services.VerifyEmailResult, error)
	Login(ctx context.Context, cmd services.LoginCommand) (*services.LoginResult, error)
	RenewAccessToken(ctx context.Context, cmd services.RenewCommand) (*services.RenewResult, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

// TokenParser validates access tokens presented to protected methods.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type GRPCServer struct {
	pb.UnimplementedAuthServiceServer
	address string
	auth    AuthService
	tokens  TokenParser
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as AuthService, tp TokenParser) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		tokens:  tp,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
	)
	pb.RegisterAuthServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
