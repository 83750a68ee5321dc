package grpc

import (
	"context"
	"strings"

	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func required(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {

	if !required(req.Email, req.Password) {
		return nil, status.Error(codes.InvalidArgument, "email and password are required")
	}

	result, err := s.auth.Register(ctx, services.RegisterCommand{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, s.toStatus(ctx, "Register", err)
	}

	return &pb.RegisterResponse{UserId: result.UserID, Email: result.Email}, nil
}

func (s *GRPCServer) VerifyEmail(ctx context.Context, req *pb.VerifyEmailRequest) (*pb.VerifyEmailResponse, error) {

	if !required(req.Token) {
		return nil, status.Error(codes.InvalidArgument, "token is required")
	}

	result, err := s.auth.VerifyEmail(ctx, services.VerifyEmailCommand{Token: req.Token})
	if err != nil {
		return nil, s.toStatus(ctx, "VerifyEmail", err)
	}

	return &pb.VerifyEmailResponse{UserId: result.UserID, Email: result.Email, Verified: result.Verified}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {

	if !required(req.Email, req.Password, req.DeviceId) {
		return nil, status.Error(codes.InvalidArgument, "email, password and device id are required")
	}

	result, err := s.auth.Login(ctx, services.LoginCommand{Email: req.Email, Password: req.Password, DeviceID: req.DeviceId})
	if err != nil {
		return nil, s.toStatus(ctx, "Login", err)
	}

	return &pb.LoginResponse{
		UserId:        result.UserID,
		Email:         result.Email,
		EmailVerified: result.EmailVerified,
		AccessToken:   result.AccessToken,
		RefreshToken:  result.RefreshToken,
	}, nil
}

func (s *GRPCServer) RenewAccessToken(ctx context.Context, req *pb.RenewAccessTokenRequest) (*pb.RenewAccessTokenResponse, error) {

	if !required(req.RefreshToken) {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}

	result, err := s.auth.RenewAccessToken(ctx, services.RenewCommand{RefreshToken: req.RefreshToken})
	if err != nil {
		return nil, s.toStatus(ctx, "RenewAccessToken", err)
	}

	return &pb.RenewAccessTokenResponse{AccessToken: result.AccessToken}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, req *pb.WhoAmIRequest) (*pb.WhoAmIResponse, error) {

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	user, err := s.auth.Profile(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "WhoAmI", err)
	}

	return &pb.WhoAmIResponse{UserId: user.ID, Name: user.Name, Email: user.Email, EmailVerified: user.EmailVerified}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {

	return &pb.PingResponse{Status: "OK"}, nil

}
