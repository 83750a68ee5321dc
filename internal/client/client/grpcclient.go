package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.AuthServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

func (s *GRPCClient) setAccessToken(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	accessToken, refreshToken := s.tokens()

	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)

	if err == nil || method == pb.AuthService_RenewAccessToken_FullMethodName {
		return err
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refreshToken == "" {
		return err
	}

	resp, rerr := s.client.RenewAccessToken(ctx, &pb.RenewAccessTokenRequest{RefreshToken: refreshToken})
	if rerr != nil {
		return rerr
	}

	s.setAccessToken(resp.AccessToken)

	// token renewed, retry once with the new one
	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended to the defaults (plaintext transport, token interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.initGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewAuthServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, name, email, password string) (string, error) {

	resp, err := s.client.Register(ctx, &pb.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}

	return resp.UserId, nil
}

func (s *GRPCClient) VerifyEmail(ctx context.Context, token string) error {

	_, err := s.client.VerifyEmail(ctx, &pb.VerifyEmailRequest{Token: token})
	if err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password, deviceID string) (*Session, error) {

	resp, err := s.client.Login(ctx, &pb.LoginRequest{Email: email, Password: password, DeviceId: deviceID})
	if err != nil {
		return nil, s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return &Session{UserID: resp.UserId, Email: resp.Email, EmailVerified: resp.EmailVerified}, nil
}

// RenewAccessToken explicitly exchanges the refresh token for a new access
// token.
func (s *GRPCClient) RenewAccessToken(ctx context.Context) error {

	_, refreshToken := s.tokens()
	if refreshToken == "" {
		return ErrNotLoggedIn
	}

	resp, err := s.client.RenewAccessToken(ctx, &pb.RenewAccessTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return s.mapError(err)
	}

	s.setAccessToken(resp.AccessToken)
	return nil
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (*Profile, error) {

	if access, _ := s.tokens(); access == "" {
		return nil, ErrNotLoggedIn
	}

	resp, err := s.client.WhoAmI(ctx, &pb.WhoAmIRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &Profile{UserID: resp.UserId, Name: resp.Name, Email: resp.Email, EmailVerified: resp.EmailVerified}, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

// Logout forgets the token pair held in memory.
func (s *GRPCClient) Logout() {
	s.setTokens("", "")
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, st.Message())
	case codes.InvalidArgument, codes.NotFound:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
