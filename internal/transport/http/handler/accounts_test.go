package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elysian/account-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockAccountSvc struct{ mock.Mock }

func (m *mockAccountSvc) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountSvc) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountSvc) RequestVerificationCode(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAccountSvc) RedeemVerificationCode(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func (m *mockAccountSvc) RequestPasswordRecovery(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockAccountSvc) GoogleLogin(ctx context.Context, token string) (*domain.User, bool, error) {
	args := m.Called(ctx, token)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *mockAccountSvc) FacebookLogin(ctx context.Context, claim domain.FacebookClaim) (*domain.User, bool, error) {
	args := m.Called(ctx, claim)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

// --- helpers ---

func postJSON(t *testing.T, h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) MessageEnvelope {
	t.Helper()
	var env MessageEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env
}

// --- register ---

func TestRegister_Created(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Register", mock.Anything, mock.AnythingOfType("domain.RegisterRequest")).
		Return(&domain.User{UserID: "u1", Email: "a@b.com"}, nil)

	rec := postJSON(t, NewAccountHandler(svc).Register, map[string]string{
		"name": "Tal", "familyName": "Tubul", "email": "a@b.com", "password": "pw",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User created successfully", decodeEnvelope(t, rec).Message)
}

func TestRegister_DuplicateEmail_Returns400(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Register", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("user already exists: %w", domain.ErrConflict))

	rec := postJSON(t, NewAccountHandler(svc).Register, map[string]string{
		"name": "Tal", "familyName": "Tubul", "email": "a@b.com", "password": "pw",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error, "already exists")
}

func TestRegister_MissingFields_Returns400(t *testing.T) {
	svc := &mockAccountSvc{}

	rec := postJSON(t, NewAccountHandler(svc).Register, map[string]string{
		"email": "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Register")
}

// --- login ---

func TestLogin_OK(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Login", mock.Anything, "a@b.com", "pw").Return(&domain.User{Email: "a@b.com"}, nil)

	rec := postJSON(t, NewAccountHandler(svc).Login, map[string]string{
		"email": "a@b.com", "password": "pw",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful", decodeEnvelope(t, rec).Message)
}

func TestLogin_BadCredentials_Returns401(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("Login", mock.Anything, "a@b.com", "wrong").
		Return(nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized))

	rec := postJSON(t, NewAccountHandler(svc).Login, map[string]string{
		"email": "a@b.com", "password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// --- verification code ---

func TestSendVerificationCode_OK(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("RequestVerificationCode", mock.Anything, "new@b.com").Return(nil)

	rec := postJSON(t, NewAccountHandler(svc).SendVerificationCode, map[string]string{"email": "new@b.com"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Verification code sent to new@b.com", decodeEnvelope(t, rec).Message)
}

func TestSendVerificationCode_TransportFailure_Returns500(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("RequestVerificationCode", mock.Anything, "new@b.com").
		Return(fmt.Errorf("send verification email: smtp down: %w", domain.ErrTransport))

	rec := postJSON(t, NewAccountHandler(svc).SendVerificationCode, map[string]string{"email": "new@b.com"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error, "smtp down")
}

func TestVerifyCode_OK(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("RedeemVerificationCode", mock.Anything, "a@b.com", "042137").Return(nil)

	rec := postJSON(t, NewAccountHandler(svc).VerifyCode, map[string]string{
		"email": "a@b.com", "code": "042137",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Email verified successfully!", decodeEnvelope(t, rec).Message)
}

func TestVerifyCode_Invalid_Returns400(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("RedeemVerificationCode", mock.Anything, "a@b.com", "000000").
		Return(fmt.Errorf("invalid verification code: %w", domain.ErrBadRequest))

	rec := postJSON(t, NewAccountHandler(svc).VerifyCode, map[string]string{
		"email": "a@b.com", "code": "000000",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- forgot password ---

func TestForgotPassword_UnknownEmail_Returns400(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("RequestPasswordRecovery", mock.Anything, "x@x.com").
		Return(fmt.Errorf("user does not exist: %w", domain.ErrNotFound))

	rec := postJSON(t, NewAccountHandler(svc).ForgotPassword, map[string]string{"email": "x@x.com"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- federated ---

func TestGoogleLogin_NewUser_Returns201WithUser(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("GoogleLogin", mock.Anything, "tok").
		Return(&domain.User{UserID: "u1", Email: "g@b.com"}, true, nil)

	rec := postJSON(t, NewFederatedHandler(svc).GoogleLogin, map[string]string{"token": "tok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var env FederatedEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.NotNil(t, env.User)
	assert.Equal(t, "g@b.com", env.User.Email)
}

func TestGoogleLogin_ExistingUser_Returns200(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("GoogleLogin", mock.Anything, "tok").
		Return(&domain.User{UserID: "u1", Email: "g@b.com"}, false, nil)

	rec := postJSON(t, NewFederatedHandler(svc).GoogleLogin, map[string]string{"token": "tok"})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGoogleLogin_BadToken_Returns400(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("GoogleLogin", mock.Anything, "bad").
		Return(nil, false, fmt.Errorf("invalid google token: %w", domain.ErrUnauthorized))

	rec := postJSON(t, NewFederatedHandler(svc).GoogleLogin, map[string]string{"token": "bad"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGoogleLogin_MissingToken_Returns400(t *testing.T) {
	svc := &mockAccountSvc{}

	rec := postJSON(t, NewFederatedHandler(svc).GoogleLogin, map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GoogleLogin")
}

func TestFacebookLogin_NewUser_Returns201(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("FacebookLogin", mock.Anything, domain.FacebookClaim{
		Email: "f@b.com", Name: "Mark", AccessToken: "fb-tok",
	}).Return(&domain.User{UserID: "u1", Email: "f@b.com"}, true, nil)

	rec := postJSON(t, NewFederatedHandler(svc).FacebookLogin, map[string]string{
		"email": "f@b.com", "name": "Mark", "accessToken": "fb-tok",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestFacebookLogin_MissingEmail_Returns400(t *testing.T) {
	svc := &mockAccountSvc{}

	rec := postJSON(t, NewFederatedHandler(svc).FacebookLogin, map[string]string{"name": "Mark"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "FacebookLogin")
}

// --- payload hygiene ---

func TestFederatedEnvelope_NeverLeaksPassword(t *testing.T) {
	svc := &mockAccountSvc{}
	svc.On("GoogleLogin", mock.Anything, "tok").
		Return(&domain.User{UserID: "u1", Email: "g@b.com", Password: "hunter2", AccessToken: "secret"}, false, nil)

	rec := postJSON(t, NewFederatedHandler(svc).GoogleLogin, map[string]string{"token": "tok"})

	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.NotContains(t, rec.Body.String(), "secret")
}
