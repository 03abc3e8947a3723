package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a bearer token does not verify.
var ErrInvalidToken = errors.New("invalid or expired token")

const tokenTTL = 7 * 24 * time.Hour

// CodeExchanger resolves an OAuth authorization code to a user profile.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (*GithubProfile, error)
}

// Service provides authentication operations: OAuth login and bearer
// token issuance/verification.
type Service struct {
	users     UserRepository
	github    CodeExchanger
	jwtSecret []byte
}

// NewService creates a new auth Service.
func NewService(users UserRepository, github CodeExchanger, jwtSecret []byte) *Service {
	return &Service{
		users:     users,
		github:    github,
		jwtSecret: jwtSecret,
	}
}

// LoginWithGithub exchanges the authorization code, upserts the user by
// email and returns a signed session token.
func (s *Service) LoginWithGithub(ctx context.Context, code string) (string, error) {
	profile, err := s.github.ExchangeCode(ctx, code)
	if err != nil {
		return "", err
	}

	user := &User{
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.AvatarURL,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return "", fmt.Errorf("upserting user on login: %w", err)
	}

	slog.Info("user authenticated", "userId", user.ID, "email", user.Email)

	return s.IssueToken(user.ID)
}

// IssueToken signs a session token for the given user.
func (s *Service) IssueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// VerifyToken parses and validates a session token, returning the
// caller's Identity.
func (s *Service) VerifyToken(tokenString string) (*Identity, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: userID}, nil
}
