package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccount_ResetTokenLifecycle(t *testing.T) {
	account := &Account{}
	assert.False(t, account.HasPendingReset())

	expiresAt := time.Now().Add(10 * time.Minute)
	account.SetResetToken("digest", expiresAt)

	assert.True(t, account.HasPendingReset())
	assert.Equal(t, "digest", *account.ResetTokenHash)
	assert.Equal(t, expiresAt, *account.ResetTokenExpiresAt)

	account.ClearResetToken()

	// Both fields clear together
	assert.False(t, account.HasPendingReset())
	assert.Nil(t, account.ResetTokenHash)
	assert.Nil(t, account.ResetTokenExpiresAt)
}

func TestRole(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("superuser").IsValid())

	assert.Equal(t, "user", RoleUser.String())
	assert.Equal(t, RoleAdmin, RoleFromString("admin"))
	// Anything unrecognized falls back to the least-privileged role
	assert.Equal(t, RoleUser, RoleFromString("superuser"))
	assert.Equal(t, RoleUser, RoleFromString(""))
}
