// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"identity/config"
	deliverycontext "identity/internal/delivery/context"
	"identity/internal/domain/entity"
	domainerrors "identity/internal/domain/errors"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
	"identity/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	sessionSvc   service.SessionTokenService
	resetSvc     service.ResetTokenService
	notifier     service.Notifier
	resetBaseURL string
	resetTTL     time.Duration
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	SessionSvc  service.SessionTokenService
	ResetSvc    service.ResetTokenService
	Notifier    service.Notifier
	Config      *config.Config
	Logger      *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	resetBaseURL := ""
	var resetTTL time.Duration
	if params.Config != nil && params.Config.Auth != nil {
		resetBaseURL = strings.TrimRight(params.Config.Auth.ResetBaseURL, "/")
		resetTTL = params.Config.Auth.ResetTokenTTL
	}

	return &authService{
		txManager:    params.TxManager,
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		sessionSvc:   params.SessionSvc,
		resetSvc:     params.ResetSvc,
		notifier:     params.Notifier,
		resetBaseURL: resetBaseURL,
		resetTTL:     resetTTL,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account with a hashed password and issues a session token.
// The lookups provide the distinct conflict messages; the unique constraints
// inside the transaction are the authority under concurrent registration.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	var created *entity.Account
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		accountRepo := repoFactory.AccountRepo()

		if _, err := accountRepo.FindByEmail(ctx, email); err == nil {
			return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
		} else if !errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(err, "failed to check email availability")
		}

		if _, err := accountRepo.FindByUsername(ctx, input.Username); err == nil {
			return domainerrors.ErrUsernameTaken.WrapMessage("username already registered")
		} else if !errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(err, "failed to check username availability")
		}

		account := &entity.Account{
			Username:     input.Username,
			Email:        email,
			PasswordHash: hashedPassword,
			Role:         entity.RoleUser,
		}

		if err := accountRepo.Create(ctx, account); err != nil {
			return errors.Wrap(err, "failed to create account")
		}

		created = account

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	token, err := srv.sessionSvc.Issue(created.ID, created.Role)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token after registration", slog.Any("accountID", created.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Info("Account registered", slog.Any("accountID", created.ID), slog.String("username", created.Username))

	return &usecase.AuthOutput{Account: usecase.NewAccountView(created), Token: token}, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password both come back as ErrInvalidCredentials: same value, same
// message, nothing for an enumeration probe to distinguish.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := normalizeEmail(input.Email)

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("unknown email")
		}

		return nil, errors.Wrap(err, "failed to look up account for login")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch during login", slog.Any("accountID", account.ID))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch")
	}

	token, err := srv.sessionSvc.Issue(account.ID, account.Role)
	if err != nil {
		srv.log(ctx).Error("Failed to issue session token during login", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue session token")
	}

	srv.log(ctx).Debug("Login successful", slog.Any("accountID", account.ID))

	return &usecase.AuthOutput{Account: usecase.NewAccountView(account), Token: token}, nil
}

// GetProfile resolves the account behind an already verified session token.
// The token may outlive the account, so "vanished" is a real outcome here.
func (srv *authService) GetProfile(ctx context.Context, accountID uuid.UUID) (*usecase.AccountView, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("account behind session token is gone")
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return usecase.NewAccountView(account), nil
}

// ForgotPassword starts the reset flow. For an unknown email it does nothing
// and reports success, so the response never reveals account existence. On
// delivery failure the just-minted token is invalidated before the error is
// returned, so no token is ever left valid-but-undelivered.
func (srv *authService) ForgotPassword(ctx context.Context, input *usecase.ForgotPasswordInput) error {
	email := normalizeEmail(input.Email)

	account, err := srv.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			srv.log(ctx).Debug("Password reset requested for unknown email")

			return nil
		}

		return errors.Wrap(err, "failed to look up account for password reset")
	}

	reset, err := srv.resetSvc.Generate()
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}

	account.SetResetToken(reset.Hash, reset.ExpiresAt)
	if err := srv.accountRepo.Update(ctx, account); err != nil {
		return errors.Wrap(err, "failed to store reset token")
	}

	msg := service.Message{
		To:      account.Email,
		Subject: "Password Reset Request",
		Body:    srv.resetMailBody(reset.Plaintext),
	}

	if err := srv.notifier.Send(ctx, msg); err != nil {
		srv.log(ctx).Error("Reset mail delivery failed", slog.Any("accountID", account.ID), slog.Any("error", err))

		// The token must be dead before the caller hears about the failure.
		if invErr := srv.resetSvc.Invalidate(ctx, account); invErr != nil {
			srv.log(ctx).Error("Failed to invalidate undelivered reset token", slog.Any("accountID", account.ID), slog.Any("error", invErr))

			return errors.Wrap(invErr, "failed to invalidate undelivered reset token")
		}

		return domainerrors.ErrDeliveryFailed.WrapMessage("reset mail delivery failed")
	}

	srv.log(ctx).Info("Reset mail queued", slog.Any("accountID", account.ID))

	return nil
}

// ResetPassword redeems a reset token: replaces the password hash and clears
// the token fields in one save, making the token single-use.
func (srv *authService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) error {
	account, err := srv.resetSvc.Verify(ctx, input.Token)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrResetTokenInvalid.WrapMessage("reset token unknown or expired")
		}

		return errors.Wrap(err, "failed to verify reset token")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	account.PasswordHash = hashedPassword
	account.ClearResetToken()

	if err := srv.accountRepo.Update(ctx, account); err != nil {
		return errors.Wrap(err, "failed to persist new password")
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("accountID", account.ID))

	return nil
}

// resetMailBody renders the reset mail. The link is the only place the
// plaintext token ever appears.
func (srv *authService) resetMailBody(plaintextToken string) string {
	resetURL := fmt.Sprintf("%s/%s", srv.resetBaseURL, plaintextToken)
	minutes := int(srv.resetTTL.Minutes())

	return fmt.Sprintf(`<h1>You have requested a password reset</h1>
<p>Please go to this link to reset your password:</p>
<a href=%q>%s</a>
<p>This link is valid for %d minutes.</p>
<p>If you did not request this, please ignore this email.</p>`, resetURL, resetURL, minutes)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
