// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"identity/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordInput defines the data required to request a password reset.
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput defines the data required to redeem a reset token.
type ResetPasswordInput struct {
	Token    string `json:"-"`
	Password string `json:"password" validate:"required,min=6"`
}

// --- Output DTOs ---

// AccountView is the externally visible projection of an account.
// It never carries the password hash or the reset-token fields.
type AccountView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

// NewAccountView builds the external projection from a domain account.
func NewAccountView(account *entity.Account) *AccountView {
	if account == nil {
		return nil
	}

	return &AccountView{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
		Role:     account.Role.String(),
	}
}

// AuthOutput returns the account projection and a freshly issued session token.
type AuthOutput struct {
	Account *AccountView `json:"user"`
	Token   string       `json:"token"`
}

// AuthUsecase defines the interface for the credential lifecycle operations.
// This is the contract that the delivery layer (e.g., API handlers) depends on.
type AuthUsecase interface {
	// Register creates a new account and issues a session token.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login verifies credentials and issues a session token. Unknown email
	// and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// GetProfile resolves the account behind a verified session token.
	GetProfile(ctx context.Context, accountID uuid.UUID) (*AccountView, error)

	// ForgotPassword starts the reset flow. It succeeds identically whether
	// or not the email maps to an account; only a genuine delivery failure
	// surfaces as an error.
	ForgotPassword(ctx context.Context, input *ForgotPasswordInput) error

	// ResetPassword redeems a reset token and replaces the password.
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error
}
