package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"identity/config"
	"identity/internal/domain/entity"
	"identity/internal/domain/repository"
	"identity/internal/domain/service"
	"identity/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Repository mocks ---

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if acc, ok := args.Get(0).(*entity.Account); ok {
		return acc, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	args := m.Called(ctx, email)
	if acc, ok := args.Get(0).(*entity.Account); ok {
		return acc, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	args := m.Called(ctx, username)
	if acc, ok := args.Get(0).(*entity.Account); ok {
		return acc, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepository) FindByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*entity.Account, error) {
	args := m.Called(ctx, tokenHash, now)
	if acc, ok := args.Get(0).(*entity.Account); ok {
		return acc, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepository) Update(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}

// mockTransactionManager runs the transactional closure against a factory
// handing out the given repository, mimicking a committed transaction.
type mockTransactionManager struct {
	accountRepo repository.AccountRepository
}

func (m *mockTransactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(mockRepositoryFactory{accountRepo: m.accountRepo})
}

type mockRepositoryFactory struct {
	accountRepo repository.AccountRepository
}

func (f mockRepositoryFactory) AccountRepo() repository.AccountRepository {
	return f.accountRepo
}

// --- Service mocks ---

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

type mockSessionTokenService struct {
	mock.Mock
}

func (m *mockSessionTokenService) Issue(accountID uuid.UUID, role entity.Role) (string, error) {
	args := m.Called(accountID, role)

	return args.String(0), args.Error(1)
}

func (m *mockSessionTokenService) Verify(tokenString string) (*service.SessionClaims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*service.SessionClaims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

type mockResetTokenService struct {
	mock.Mock
}

func (m *mockResetTokenService) Generate() (*service.ResetToken, error) {
	args := m.Called()
	if token, ok := args.Get(0).(*service.ResetToken); ok {
		return token, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockResetTokenService) Verify(ctx context.Context, plaintext string) (*entity.Account, error) {
	args := m.Called(ctx, plaintext)
	if acc, ok := args.Get(0).(*entity.Account); ok {
		return acc, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockResetTokenService) Invalidate(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, msg service.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// --- Fixtures ---

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service     usecase.AuthUsecase
	accountRepo *mockAccountRepository
	hasher      *mockPasswordHasher
	sessionSvc  *mockSessionTokenService
	resetSvc    *mockResetTokenService
	notifier    *mockNotifier
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	accountRepo := &mockAccountRepository{}
	hasher := &mockPasswordHasher{}
	sessionSvc := &mockSessionTokenService{}
	resetSvc := &mockResetTokenService{}
	notifier := &mockNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.Auth = &config.AuthConfig{
		ResetBaseURL:  "https://app.example.com/reset-password",
		ResetTokenTTL: 10 * time.Minute,
	}

	svc := NewAuthService(AuthServiceParams{
		TxManager:   &mockTransactionManager{accountRepo: accountRepo},
		AccountRepo: accountRepo,
		Hasher:      hasher,
		SessionSvc:  sessionSvc,
		ResetSvc:    resetSvc,
		Notifier:    notifier,
		Config:      cfg,
		Logger:      logger,
	})

	t.Cleanup(func() {
		accountRepo.AssertExpectations(t)
		hasher.AssertExpectations(t)
		sessionSvc.AssertExpectations(t)
		resetSvc.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	return authServiceFixtures{
		service:     svc,
		accountRepo: accountRepo,
		hasher:      hasher,
		sessionSvc:  sessionSvc,
		resetSvc:    resetSvc,
		notifier:    notifier,
	}
}
