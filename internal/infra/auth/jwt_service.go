// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"identity/config"
	"identity/internal/domain/entity"
	"identity/internal/domain/service"
)

// jwtService is a concrete implementation of the SessionTokenService
// interface using the JWT standard. Verification is a pure function of the
// token, the clock and the signing secret: no storage round-trip, which means
// a token stays valid until expiry even if the account changes underneath it.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.SessionTokenService, error) {
	if cfg.Auth == nil || cfg.Auth.JWTSecret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret: []byte(cfg.Auth.JWTSecret),
		ttl:    cfg.Auth.SessionTokenTTL,
		now:    time.Now,
	}, nil
}

// Issue creates a signed session token carrying the account ID and role.
// The signature covers every claim, so tampering with any of them breaks it.
func (s *jwtService) Issue(accountID uuid.UUID, role entity.Role) (string, error) {
	now := s.now().UTC()

	claims := service.SessionClaims{
		AccountID: accountID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}

	return signed, nil
}

// Verify checks the signature and expiry of a token string and returns its claims.
func (s *jwtService) Verify(tokenString string) (*service.SessionClaims, error) {
	claims := &service.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse session token")
	}
	if !token.Valid {
		return nil, errors.New("session token is not valid")
	}

	if claims.AccountID == uuid.Nil {
		return nil, errors.New("session token carries no account id")
	}
	if !claims.Role.IsValid() {
		return nil, errors.New("session token carries an unknown role")
	}

	return claims, nil
}
