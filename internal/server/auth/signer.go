// Package auth issues and verifies the signed tokens handed out by the
// credential workflows. All key material lives on a TokenSigner instance;
// nothing is stored in package state.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TypeAccess  TokenType = "access"
	TypeRefresh TokenType = "refresh"
)

// Claims is the JWT payload. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email    string    `json:"email,omitempty"`
	Type     TokenType `json:"type"`
	DeviceID string    `json:"deviceId,omitempty"`
}

// TokenSigner mints and checks HS256 tokens with one shared secret.
type TokenSigner struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Option customizes a TokenSigner.
type Option func(*TokenSigner)

// WithClock replaces the wall clock used for iat/exp and for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *TokenSigner) {
		s.now = now
	}
}

func NewTokenSigner(secret []byte, accessTTL, refreshTTL time.Duration, opts ...Option) *TokenSigner {
	s := &TokenSigner{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenSigner) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenSigner) RefreshTTL() time.Duration { return s.refreshTTL }

// IssueAccess returns an access token for userID carrying email.
func (s *TokenSigner) IssueAccess(userID, email string) (string, error) {
	return s.issue(Claims{Email: email, Type: TypeAccess}, userID, s.accessTTL)
}

// IssueRefresh returns a refresh token bound to userID and deviceID.
func (s *TokenSigner) IssueRefresh(userID, deviceID string) (string, error) {
	return s.issue(Claims{Type: TypeRefresh, DeviceID: deviceID}, userID, s.refreshTTL)
}

func (s *TokenSigner) issue(claims Claims, userID string, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		// tokens minted within the same second must still differ
		ID: uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates the token and returns its claims. An expired token yields
// common.ErrTokenExpired; any other failure yields common.ErrInvalidToken.
func (s *TokenSigner) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// Verify reports whether the token is well formed, correctly signed and not
// yet expired. A token whose expiry equals the current instant is expired.
func (s *TokenSigner) Verify(tokenString string) bool {
	_, err := s.Parse(tokenString)
	return err == nil
}

func (s *TokenSigner) extract(tokenString string) (*Claims, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedToken, err)
	}
	return claims, nil
}

func (s *TokenSigner) ExtractUserID(tokenString string) (string, error) {
	claims, err := s.extract(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *TokenSigner) ExtractEmail(tokenString string) (string, error) {
	claims, err := s.extract(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", fmt.Errorf("%w: no email claim", common.ErrMalformedToken)
	}
	return claims.Email, nil
}

// ExtractDeviceID returns the device a refresh token is bound to. Access
// tokens carry no device and are rejected.
func (s *TokenSigner) ExtractDeviceID(tokenString string) (string, error) {
	claims, err := s.extract(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Type != TypeRefresh || claims.DeviceID == "" {
		return "", fmt.Errorf("%w: no device claim", common.ErrMalformedToken)
	}
	return claims.DeviceID, nil
}

func (s *TokenSigner) ExtractExpiry(tokenString string) (time.Time, error) {
	claims, err := s.extract(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	return claims.ExpiresAt.Time, nil
}
