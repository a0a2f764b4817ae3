// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"

	"identity/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is a domain-specific error returned when an account is
// not found. "Not found" is a normal outcome for lookups, not a failure of
// the storage layer.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its (lowercased) email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByUsername retrieves a single account by its exact username.
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)

	// FindByResetTokenHash retrieves the account holding the given reset token
	// hash whose reset window is still open at the supplied instant. An expired
	// token is reported as ErrAccountNotFound, indistinguishable from an
	// unknown one.
	FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*entity.Account, error)

	// Create persists a new account. The storage layer's unique constraints on
	// username and email are the authority for uniqueness under concurrency.
	Create(ctx context.Context, account *entity.Account) error

	// Update persists mutations to an existing account (password change,
	// reset-token fields). Whole-record persistence, no partial-field semantics.
	Update(ctx context.Context, account *entity.Account) error
}
