// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity in the system, representing one registered identity.
type Account struct {
	ID           uuid.UUID // The unique identifier for the account, assigned at creation.
	Username     string    // Unique, case-sensitive display handle. Immutable after creation.
	Email        string    // Unique login identifier, always stored lowercase.
	PasswordHash string    // Stores the bcrypt-hashed password. Never the plaintext.
	Role         Role      // The account's role. Set once at creation.

	// ResetTokenHash and ResetTokenExpiresAt describe the outstanding password
	// reset token, if any. They are always both set or both nil.
	ResetTokenHash      *string
	ResetTokenExpiresAt *time.Time

	CreatedAt time.Time // Timestamp of when this account was created.
	UpdatedAt time.Time // Timestamp of the last modification to this account.
}

// HasPendingReset reports whether a reset token is currently outstanding.
func (a *Account) HasPendingReset() bool {
	return a.ResetTokenHash != nil && a.ResetTokenExpiresAt != nil
}

// SetResetToken records the hash and expiry of a freshly generated reset token.
func (a *Account) SetResetToken(tokenHash string, expiresAt time.Time) {
	a.ResetTokenHash = &tokenHash
	a.ResetTokenExpiresAt = &expiresAt
}

// ClearResetToken removes the outstanding reset token, keeping the paired
// fields in sync.
func (a *Account) ClearResetToken() {
	a.ResetTokenHash = nil
	a.ResetTokenExpiresAt = nil
}
