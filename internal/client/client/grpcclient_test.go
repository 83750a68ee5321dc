package client

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

/*************
 * Fake pb client
 *************/

type fakePB struct {
	// inputs captured
	lastRegisterReq *pb.RegisterRequest
	lastVerifyReq   *pb.VerifyEmailRequest
	lastLoginReq    *pb.LoginRequest
	lastRenewReq    *pb.RenewAccessTokenRequest

	// outputs preset
	registerResp *pb.RegisterResponse
	registerErr  error

	verifyErr error

	loginResp *pb.LoginResponse
	loginErr  error

	renewResp *pb.RenewAccessTokenResponse
	renewErr  error

	whoAmIResp *pb.WhoAmIResponse
	whoAmIErr  error

	pingResp *pb.PingResponse
	pingErr  error
}

func (f *fakePB) Register(ctx context.Context, in *pb.RegisterRequest, opts ...grpc.CallOption) (*pb.RegisterResponse, error) {
	f.lastRegisterReq = in
	return f.registerResp, f.registerErr
}
func (f *fakePB) VerifyEmail(ctx context.Context, in *pb.VerifyEmailRequest, opts ...grpc.CallOption) (*pb.VerifyEmailResponse, error) {
	f.lastVerifyReq = in
	return &pb.VerifyEmailResponse{Verified: f.verifyErr == nil}, f.verifyErr
}
func (f *fakePB) Login(ctx context.Context, in *pb.LoginRequest, opts ...grpc.CallOption) (*pb.LoginResponse, error) {
	f.lastLoginReq = in
	return f.loginResp, f.loginErr
}
func (f *fakePB) RenewAccessToken(ctx context.Context, in *pb.RenewAccessTokenRequest, opts ...grpc.CallOption) (*pb.RenewAccessTokenResponse, error) {
	f.lastRenewReq = in
	return f.renewResp, f.renewErr
}
func (f *fakePB) WhoAmI(ctx context.Context, in *pb.WhoAmIRequest, opts ...grpc.CallOption) (*pb.WhoAmIResponse, error) {
	return f.whoAmIResp, f.whoAmIErr
}
func (f *fakePB) Ping(ctx context.Context, in *pb.PingRequest, opts ...grpc.CallOption) (*pb.PingResponse, error) {
	return f.pingResp, f.pingErr
}

const whoAmI = pb.AuthService_WhoAmI_FullMethodName

/*************
 * accessTokenInterceptor tests
 *************/

func TestInterceptor_RenewsTokenOnExpiredAndRetries(t *testing.T) {
	f := &fakePB{
		renewResp: &pb.RenewAccessTokenResponse{AccessToken: "A2"},
	}
	c := &GRPCClient{
		client:       f,
		accessToken:  "A1",
		refreshToken: "R1",
	}

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AccessTokenHeaderName)
		require.Len(t, toks, 1)

		if callCount == 1 {
			require.Equal(t, "A1", toks[0])
			return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		require.Equal(t, "A2", toks[0])
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), whoAmI, nil, nil, nil, invoker)
	require.NoError(t, err)
	require.Equal(t, 2, callCount)
	require.Equal(t, "A2", c.accessToken)
	require.Equal(t, "R1", c.refreshToken, "refresh token is kept")
	require.Equal(t, "R1", f.lastRenewReq.RefreshToken)
}

func TestInterceptor_RetriesOnlyOnce(t *testing.T) {
	f := &fakePB{renewResp: &pb.RenewAccessTokenResponse{AccessToken: "A2"}}
	c := &GRPCClient{client: f, accessToken: "A1", refreshToken: "R1"}

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), whoAmI, nil, nil, nil, invoker)
	require.Error(t, err)
	require.Equal(t, 2, callCount)
}

func TestInterceptor_NoRenewIfNoRefreshToken(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{
		client:      f,
		accessToken: "A1",
	}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), whoAmI, nil, nil, nil, invoker)
	require.Error(t, err)
	require.Nil(t, f.lastRenewReq)
}

func TestInterceptor_RenewFailureIsReturned(t *testing.T) {
	renewErr := status.Error(codes.Unauthenticated, common.ErrExpiredRefreshToken.Error())
	f := &fakePB{renewErr: renewErr}
	c := &GRPCClient{client: f, accessToken: "A1", refreshToken: "R1"}

	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), whoAmI, nil, nil, nil, invoker)
	require.Equal(t, renewErr, err)
	require.Equal(t, "A1", c.accessToken)
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	c := &GRPCClient{accessToken: "X"}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Internal, "boom")
	}
	err := c.accessTokenInterceptor(context.Background(), whoAmI, nil, nil, nil, invoker)
	require.Error(t, err)
}

func TestInterceptor_UnauthenticatedButDifferentMessage_NoRenew(t *testing.T) {
	c := &GRPCClient{accessToken: "X", refreshToken: "R"}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, "invalid token")
	}
	err := c.accessTokenInterceptor(context.Background(), whoAmI, nil, nil, nil, invoker)
	require.Error(t, err)
}

func TestInterceptor_NoTokenNoHeader(t *testing.T) {
	c := &GRPCClient{}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AccessTokenHeaderName))
		return nil
	}
	require.NoError(t, c.accessTokenInterceptor(context.Background(), pb.AuthService_Ping_FullMethodName, nil, nil, nil, invoker))
}

/*************
 * mapError tests
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	require.ErrorIs(t, c.mapError(status.Error(codes.Unauthenticated, "x")), ErrUnauthorized)
	require.ErrorIs(t, c.mapError(status.Error(codes.PermissionDenied, "x")), ErrUnauthorized)
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.Unavailable, "x")))
	require.Equal(t, ErrUnavailable, c.mapError(status.Error(codes.DeadlineExceeded, "x")))
	require.ErrorIs(t, c.mapError(status.Error(codes.AlreadyExists, "x")), ErrAlreadyRegistered)
	require.ErrorIs(t, c.mapError(status.Error(codes.InvalidArgument, "x")), ErrRejected)
	require.ErrorContains(t, c.mapError(status.Error(codes.NotFound, "user not found")), "user not found")
	e := errors.New("plain")
	require.ErrorContains(t, c.mapError(e), "rpc error:")
	require.NoError(t, c.mapError(nil))
}

/*************
 * method tests
 *************/

func TestPing(t *testing.T) {
	c := &GRPCClient{client: &fakePB{pingResp: &pb.PingResponse{Status: "OK"}}}
	require.NoError(t, c.Ping(context.Background()))

	c = &GRPCClient{client: &fakePB{pingResp: &pb.PingResponse{Status: "DOWN"}}}
	require.Equal(t, ErrUnavailable, c.Ping(context.Background()))

	c = &GRPCClient{client: &fakePB{pingErr: status.Error(codes.Unavailable, "x")}}
	require.Equal(t, ErrUnavailable, c.Ping(context.Background()))
}

func TestRegister(t *testing.T) {
	f := &fakePB{registerResp: &pb.RegisterResponse{UserId: "u1", Email: "a@x.io"}}
	c := &GRPCClient{client: f}

	id, err := c.Register(context.Background(), "Ann", "a@x.io", "password123")
	require.NoError(t, err)
	require.Equal(t, "u1", id)
	require.Equal(t, "Ann", f.lastRegisterReq.Name)

	f.registerErr = status.Error(codes.AlreadyExists, common.ErrDuplicateEmail.Error())
	_, err = c.Register(context.Background(), "Ann", "a@x.io", "password123")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestVerifyEmail(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f}

	require.NoError(t, c.VerifyEmail(context.Background(), "tok"))
	require.Equal(t, "tok", f.lastVerifyReq.Token)

	f.verifyErr = status.Error(codes.NotFound, common.ErrInvalidVerificationToken.Error())
	require.ErrorIs(t, c.VerifyEmail(context.Background(), "tok"), ErrRejected)
}

func TestLogin_SetsTokens(t *testing.T) {
	f := &fakePB{loginResp: &pb.LoginResponse{UserId: "u1", Email: "a@x.io", AccessToken: "A", RefreshToken: "R"}}
	c := &GRPCClient{client: f}

	s, err := c.Login(context.Background(), "a@x.io", "password123", "laptop")
	require.NoError(t, err)
	require.Equal(t, "u1", s.UserID)
	require.Equal(t, "laptop", f.lastLoginReq.DeviceId)
	require.Equal(t, "A", c.accessToken)
	require.Equal(t, "R", c.refreshToken)

	c.Logout()
	require.Empty(t, c.accessToken)
	require.Empty(t, c.refreshToken)
}

func TestLogin_MapsError(t *testing.T) {
	c := &GRPCClient{client: &fakePB{loginErr: status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())}}

	_, err := c.Login(context.Background(), "a@x.io", "bad", "d")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Empty(t, c.accessToken)
}

func TestRenewAccessToken(t *testing.T) {
	f := &fakePB{renewResp: &pb.RenewAccessTokenResponse{AccessToken: "A2"}}
	c := &GRPCClient{client: f}

	require.ErrorIs(t, c.RenewAccessToken(context.Background()), ErrNotLoggedIn)

	c.setTokens("A1", "R1")
	require.NoError(t, c.RenewAccessToken(context.Background()))
	require.Equal(t, "A2", c.accessToken)
	require.Equal(t, "R1", f.lastRenewReq.RefreshToken)
}

func TestWhoAmI(t *testing.T) {
	f := &fakePB{whoAmIResp: &pb.WhoAmIResponse{UserId: "u1", Name: "Ann", Email: "a@x.io", EmailVerified: true}}
	c := &GRPCClient{client: f}

	_, err := c.WhoAmI(context.Background())
	require.ErrorIs(t, err, ErrNotLoggedIn)

	c.setTokens("A", "R")
	p, err := c.WhoAmI(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ann", p.Name)
	require.True(t, p.EmailVerified)
}

func TestNewGRPCClient_Close(t *testing.T) {
	c, err := NewGRPCClient("passthrough:///127.0.0.1:1")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	require.NoError(t, (&GRPCClient{}).Close())
}
