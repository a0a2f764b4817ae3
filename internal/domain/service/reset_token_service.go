package service

import (
	"context"
	"time"

	"identity/internal/domain/entity"
)

// ResetToken is the result of generating a password reset token. The
// Plaintext value exists only to be delivered to the user once and must not
// be retained after that; only Hash is persisted.
type ResetToken struct {
	Plaintext string
	Hash      string
	ExpiresAt time.Time
}

// ResetTokenService defines the single-use, time-limited password reset
// token protocol. Tokens carry enough entropy that a fast deterministic
// digest (not the slow password hash) protects the stored value.
type ResetTokenService interface {
	// Generate draws a cryptographically random token and returns its
	// plaintext, digest and expiry instant.
	Generate() (*ResetToken, error)

	// Verify hashes the supplied plaintext and resolves the account holding
	// an unexpired matching token. Unknown and expired tokens are
	// indistinguishable: both report repository.ErrAccountNotFound.
	Verify(ctx context.Context, plaintext string) (*entity.Account, error)

	// Invalidate clears the reset-token fields on the account and persists
	// the change. Called after a successful reset and after a failed
	// delivery, so an undelivered token can never be redeemed later.
	Invalidate(ctx context.Context, account *entity.Account) error
}
