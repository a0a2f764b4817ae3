package service

import (
	"identity/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims defines the custom claims carried by a session token.
type SessionClaims struct {
	AccountID uuid.UUID   `json:"accountId"`
	Role      entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionTokenService defines the interface for issuing and verifying signed,
// expiring bearer tokens. Verification is stateless: it is a pure function of
// the token, the current time and the signing secret, and never consults the
// credential store. An account deleted after issuance therefore stays valid
// per-token until natural expiry.
type SessionTokenService interface {
	// Issue creates a new signed session token for the given account and role.
	Issue(accountID uuid.UUID, role entity.Role) (string, error)

	// Verify checks the signature, shape and expiry of a token string and
	// returns its claims. Any tampering with the payload or signature, a
	// malformed token, or an expired token yields an error.
	Verify(tokenString string) (*SessionClaims, error)
}
