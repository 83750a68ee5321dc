// Package services contains server-side business logic. This file implements
// AuthService: registration with email verification, password login that
// mints per-device token pairs, and access-token renewal.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/notify"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultVerificationTTL is how long an email verification token stays valid.
const DefaultVerificationTTL = 24 * time.Hour

// verificationTokenBytes is the amount of randomness in a verification token.
const verificationTokenBytes = 32

var tracer = otel.Tracer("github.com/dmitrijs2005/gophauth/internal/server/services")

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenSigner mints and inspects signed tokens.
type TokenSigner interface {
	IssueAccess(userID, email string) (string, error)
	IssueRefresh(userID, deviceID string) (string, error)
	Verify(token string) bool
	ExtractUserID(token string) (string, error)
	ExtractDeviceID(token string) (string, error)
	RefreshTTL() time.Duration
}

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
}

type RegisterResult struct {
	UserID                   string
	Email                    string
	VerificationTokenCreated bool
}

type LoginCommand struct {
	Email    string
	Password string
	DeviceID string
}

type LoginResult struct {
	UserID        string
	Email         string
	EmailVerified bool
	AccessToken   string
	RefreshToken  string
}

type RenewCommand struct {
	RefreshToken string
}

type RenewResult struct {
	AccessToken string
}

type VerifyEmailCommand struct {
	Token string
}

type VerifyEmailResult struct {
	UserID   string
	Email    string
	Verified bool
}

// AuthService runs the credential workflows. It holds no locks; atomicity
// comes from the stores.
type AuthService struct {
	repomanager     repomanager.RepositoryManager
	policy          password.Policy
	hasher          PasswordHasher
	signer          TokenSigner
	sink            notify.Sink
	logger          logging.Logger
	verificationTTL time.Duration
	now             func() time.Time
	newID           func() string

	dummyOnce   sync.Once
	dummyDigest string
}

// Option customizes an AuthService.
type Option func(*AuthService)

// WithClock replaces time.Now for expiry computations.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

// WithIDGenerator replaces the user id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *AuthService) { s.newID = newID }
}

// WithVerificationTTL overrides DefaultVerificationTTL.
func WithVerificationTTL(ttl time.Duration) Option {
	return func(s *AuthService) {
		if ttl > 0 {
			s.verificationTTL = ttl
		}
	}
}

// NewAuthService wires the workflows. sink may be nil, in which case no
// notifications are emitted.
func NewAuthService(m repomanager.RepositoryManager, hasher PasswordHasher, signer TokenSigner,
	sink notify.Sink, logger logging.Logger, opts ...Option) *AuthService {
	s := &AuthService{
		repomanager:     m,
		hasher:          hasher,
		signer:          signer,
		sink:            sink,
		logger:          logger.With("module", "auth"),
		verificationTTL: DefaultVerificationTTL,
		now:             time.Now,
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an unverified account and a verification token in one
// unit of work, then emits UserRegistered. Notification failures are logged
// and do not fail the registration.
func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (res *RegisterResult, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Register")
	defer func() { endSpan(span, err) }()

	if err := s.policy.Validate(cmd.Password); err != nil {
		return nil, err
	}

	exists, err := s.repomanager.Users().ExistsByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return nil, common.ErrDuplicateEmail
	}

	digest, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidPassword) {
			return nil, err
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:           s.newID(),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: digest,
		CreatedAt:    now,
	}

	token, err := common.MakeRandHexString(verificationTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating verification token: %w", err)
	}
	vt := &models.VerificationToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.verificationTTL),
		CreatedAt: now,
	}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		if err := m.Users().Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrAlreadyExists) {
				return common.ErrDuplicateEmail
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		if err := m.VerificationTokens().Create(ctx, vt); err != nil {
			return fmt.Errorf("error creating verification token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	s.publish(ctx, notify.UserRegistered{
		UserID:            user.ID,
		Name:              user.Name,
		Email:             user.Email,
		VerificationToken: vt.Token,
		ExpiresAt:         vt.ExpiresAt,
	})

	return &RegisterResult{UserID: user.ID, Email: user.Email, VerificationTokenCreated: true}, nil
}

func (s *AuthService) publish(ctx context.Context, event notify.UserRegistered) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, event); err != nil {
		s.logger.Warn(ctx, "verification notification dropped", "user_id", event.UserID, "error", err)
	}
}

// Login checks the password and stores a fresh refresh token for the device,
// replacing any previous one. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, cmd LoginCommand) (res *LoginResult, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer func() { endSpan(span, err) }()

	user, err := s.repomanager.Users().FindByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// same bcrypt cost as a real check so timing does not leak existence
			s.hasher.Verify(cmd.Password, s.getDummyDigest())
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(cmd.Password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	access, err := s.signer.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}
	refresh, err := s.signer.IssueRefresh(user.ID, cmd.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("error issuing refresh token: %w", err)
	}

	expiresAt := s.now().Add(s.signer.RefreshTTL())
	if err := s.repomanager.RefreshTokens().Upsert(ctx, user.ID, cmd.DeviceID, refresh, expiresAt); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID, "device_id", cmd.DeviceID)

	return &LoginResult{
		UserID:        user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		AccessToken:   access,
		RefreshToken:  refresh,
	}, nil
}

// RenewAccessToken exchanges a refresh token for a new access token. The
// presented token must be exactly the one stored for its (user, device).
// The refresh token itself is not rotated.
func (s *AuthService) RenewAccessToken(ctx context.Context, cmd RenewCommand) (res *RenewResult, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.RenewAccessToken")
	defer func() { endSpan(span, err) }()

	if !s.signer.Verify(cmd.RefreshToken) {
		return nil, common.ErrInvalidRefreshToken
	}

	userID, err := s.signer.ExtractUserID(cmd.RefreshToken)
	if err != nil {
		return nil, common.ErrInvalidRefreshToken
	}
	deviceID, err := s.signer.ExtractDeviceID(cmd.RefreshToken)
	if err != nil {
		return nil, common.ErrInvalidRefreshToken
	}

	stored, err := s.repomanager.RefreshTokens().FindByUserAndDevice(ctx, userID, deviceID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored.Token), []byte(cmd.RefreshToken)) != 1 {
		return nil, common.ErrInvalidRefreshToken
	}
	if stored.IsExpired(s.now()) {
		return nil, common.ErrExpiredRefreshToken
	}

	user, err := s.repomanager.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	access, err := s.signer.IssueAccess(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing access token: %w", err)
	}

	return &RenewResult{AccessToken: access}, nil
}

// VerifyEmail consumes a verification token: the user is marked verified and
// all of their outstanding verification tokens are removed. Verifying an
// already verified user succeeds.
func (s *AuthService) VerifyEmail(ctx context.Context, cmd VerifyEmailCommand) (res *VerifyEmailResult, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.VerifyEmail")
	defer func() { endSpan(span, err) }()

	vt, err := s.repomanager.VerificationTokens().FindByToken(ctx, cmd.Token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidVerificationToken
		}
		return nil, fmt.Errorf("error searching verification token: %w", err)
	}

	if vt.IsExpired(s.now()) {
		return nil, common.ErrExpiredVerificationToken
	}

	user, err := s.repomanager.Users().FindByID(ctx, vt.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		if err := m.Users().SetEmailVerified(ctx, user.ID); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrUserNotFound
			}
			return fmt.Errorf("error updating user: %w", err)
		}
		if err := m.VerificationTokens().DeleteAllForUser(ctx, user.ID); err != nil {
			return fmt.Errorf("error deleting verification tokens: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "email verified", "user_id", user.ID)

	return &VerifyEmailResult{UserID: user.ID, Email: user.Email, Verified: true}, nil
}

// Profile returns the account behind an authenticated user id.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

func (s *AuthService) getDummyDigest() string {
	s.dummyOnce.Do(func() {
		d, err := s.hasher.Hash(uuid.NewString())
		if err == nil {
			s.dummyDigest = d
		}
	})
	return s.dummyDigest
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}
