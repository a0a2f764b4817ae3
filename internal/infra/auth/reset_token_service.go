// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"

	"identity/config"
	"identity/internal/domain/entity"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
)

// resetTokenEntropyBytes is the amount of randomness behind each token.
// 20 bytes hex-encode to a 40-character link token.
const resetTokenEntropyBytes = 20

// resetTokenService implements the ResetTokenService interface.
// The plaintext token is never stored: only its SHA-256 digest lands on the
// account. The digest is deliberately a fast hash, not bcrypt — the token's
// entropy makes brute force infeasible, and verification happens per request.
type resetTokenService struct {
	accountRepo repository.AccountRepository
	ttl         time.Duration
	now         func() time.Time
}

// NewResetTokenService is the constructor for resetTokenService.
func NewResetTokenService(cfg *config.Config, accountRepo repository.AccountRepository) service.ResetTokenService {
	return &resetTokenService{
		accountRepo: accountRepo,
		ttl:         cfg.Auth.ResetTokenTTL,
		now:         time.Now,
	}
}

// Generate draws a fresh random token and returns its plaintext, digest and expiry.
func (s *resetTokenService) Generate() (*service.ResetToken, error) {
	raw := make([]byte, resetTokenEntropyBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, errors.Wrap(err, "failed to draw reset token entropy")
	}

	plaintext := hex.EncodeToString(raw)

	return &service.ResetToken{
		Plaintext: plaintext,
		Hash:      HashResetToken(plaintext),
		ExpiresAt: s.now().Add(s.ttl),
	}, nil
}

// Verify resolves the account holding an unexpired token matching the plaintext.
// Wrong token and expired token are indistinguishable by design: the
// repository lookup applies the expiry predicate, so both come back as
// repository.ErrAccountNotFound.
func (s *resetTokenService) Verify(ctx context.Context, plaintext string) (*entity.Account, error) {
	account, err := s.accountRepo.FindByResetTokenHash(ctx, HashResetToken(plaintext), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to look up reset token")
	}

	return account, nil
}

// Invalidate clears both reset-token fields and persists the account.
func (s *resetTokenService) Invalidate(ctx context.Context, account *entity.Account) error {
	account.ClearResetToken()

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return errors.Wrap(err, "failed to clear reset token")
	}

	return nil
}

// HashResetToken computes the deterministic digest stored in place of the
// plaintext token.
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))

	return hex.EncodeToString(sum[:])
}
