package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"identity/internal/delivery/http/middleware"
	"identity/internal/delivery/http/validator"
	"identity/internal/usecase"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthUsecase records calls and plays back canned results.
type stubAuthUsecase struct {
	registerOutput *usecase.AuthOutput
	registerErr    error
	loginOutput    *usecase.AuthOutput
	loginErr       error
	profile        *usecase.AccountView
	profileErr     error
	forgotErr      error
	resetErr       error

	lastResetInput  *usecase.ResetPasswordInput
	lastForgotInput *usecase.ForgotPasswordInput
}

func (s *stubAuthUsecase) Register(_ context.Context, _ *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	return s.registerOutput, s.registerErr
}

func (s *stubAuthUsecase) Login(_ context.Context, _ *usecase.LoginInput) (*usecase.AuthOutput, error) {
	return s.loginOutput, s.loginErr
}

func (s *stubAuthUsecase) GetProfile(_ context.Context, _ uuid.UUID) (*usecase.AccountView, error) {
	return s.profile, s.profileErr
}

func (s *stubAuthUsecase) ForgotPassword(_ context.Context, input *usecase.ForgotPasswordInput) error {
	s.lastForgotInput = input

	return s.forgotErr
}

func (s *stubAuthUsecase) ResetPassword(_ context.Context, input *usecase.ResetPasswordInput) error {
	s.lastResetInput = input

	return s.resetErr
}

func newTestHandler(uc usecase.AuthUsecase) (*echo.Echo, *AuthHandler) {
	e := echo.New()
	e.Validator = validator.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return e, NewAuthHandler(uc, logger)
}

func jsonRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestAuthHandler_Register(t *testing.T) {
	accountID := uuid.New()
	uc := &stubAuthUsecase{
		registerOutput: &usecase.AuthOutput{
			Account: &usecase.AccountView{
				ID:       accountID,
				Username: "alice",
				Email:    "alice@example.com",
				Role:     "user",
			},
			Token: "session-token",
		},
	}
	e, h := newTestHandler(uc)

	c, rec := jsonRequest(e, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"Password123"}`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered successfully", body["message"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "session-token", data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, accountID.String(), user["id"])
	// The projection never carries credential material
	_, hasPassword := user["password"]
	assert.False(t, hasPassword)
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	e, h := newTestHandler(&stubAuthUsecase{})

	// Username too short, email malformed, password too short
	c, _ := jsonRequest(e, http.MethodPost, "/auth/register",
		`{"username":"al","email":"not-an-email","password":"123"}`)

	err := h.Register(c)
	require.Error(t, err)

	var validationErrs validatorv10.ValidationErrors
	assert.True(t, errors.As(err, &validationErrs))
}

func TestAuthHandler_Register_MalformedJSON(t *testing.T) {
	e, h := newTestHandler(&stubAuthUsecase{})

	c, rec := jsonRequest(e, http.MethodPost, "/auth/register", `{"username":`)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	uc := &stubAuthUsecase{
		loginOutput: &usecase.AuthOutput{
			Account: &usecase.AccountView{ID: uuid.New(), Username: "alice", Email: "alice@example.com", Role: "user"},
			Token:   "session-token",
		},
	}
	e, h := newTestHandler(uc)

	c, rec := jsonRequest(e, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"Password123"}`)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Logged in successfully", body["message"])
}

func TestAuthHandler_Login_UsecaseErrorPropagates(t *testing.T) {
	ucErr := errors.New("invalid credentials")
	e, h := newTestHandler(&stubAuthUsecase{loginErr: ucErr})

	c, _ := jsonRequest(e, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)

	err := h.Login(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ucErr)
}

func TestAuthHandler_GetProfile(t *testing.T) {
	accountID := uuid.New()
	uc := &stubAuthUsecase{
		profile: &usecase.AccountView{ID: accountID, Username: "alice", Email: "alice@example.com", Role: "user"},
	}
	e, h := newTestHandler(uc)

	c, rec := jsonRequest(e, http.MethodGet, "/auth/profile", "")
	c.Set(middleware.ContextKeyAccountID, accountID)

	require.NoError(t, h.GetProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, accountID.String(), data["id"])
}

func TestAuthHandler_GetProfile_MissingIdentity(t *testing.T) {
	e, h := newTestHandler(&stubAuthUsecase{})

	c, rec := jsonRequest(e, http.MethodGet, "/auth/profile", "")

	require.NoError(t, h.GetProfile(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_ForgotPassword_GenericMessage(t *testing.T) {
	uc := &stubAuthUsecase{}
	e, h := newTestHandler(uc)

	c, rec := jsonRequest(e, http.MethodPost, "/auth/forgot-password",
		`{"email":"whoever@example.com"}`)

	require.NoError(t, h.ForgotPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t,
		"If an account with that email exists, a password reset link has been sent.",
		body["message"])
	require.NotNil(t, uc.lastForgotInput)
	assert.Equal(t, "whoever@example.com", uc.lastForgotInput.Email)
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	uc := &stubAuthUsecase{}
	e, h := newTestHandler(uc)

	c, rec := jsonRequest(e, http.MethodPut, "/auth/reset-password/sometoken",
		`{"password":"NewPassword123"}`)
	c.SetParamNames("token")
	c.SetParamValues("plaintext-token")

	require.NoError(t, h.ResetPassword(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t,
		"Password reset successful. You can now log in with your new password.",
		body["message"])

	// The token rides in the URL, not the body
	require.NotNil(t, uc.lastResetInput)
	assert.Equal(t, "plaintext-token", uc.lastResetInput.Token)
	assert.Equal(t, "NewPassword123", uc.lastResetInput.Password)
}

func TestAuthHandler_ResetPassword_WeakPassword(t *testing.T) {
	e, h := newTestHandler(&stubAuthUsecase{})

	c, _ := jsonRequest(e, http.MethodPut, "/auth/reset-password/sometoken",
		`{"password":"123"}`)
	c.SetParamNames("token")
	c.SetParamValues("plaintext-token")

	err := h.ResetPassword(c)
	require.Error(t, err)

	var validationErrs validatorv10.ValidationErrors
	assert.True(t, errors.As(err, &validationErrs))
}

func TestHealthCheck(t *testing.T) {
	e, _ := newTestHandler(&stubAuthUsecase{})

	c, rec := jsonRequest(e, http.MethodGet, "/health", "")

	require.NoError(t, HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
