package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/dto"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/middleware"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository/memory"
)

const createAccountBody = `{
	"name": "Ana",
	"email": "ana@example.com",
	"password": "password123",
	"password_confirmation": "password123"
}`

func TestCreateAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	rec := f.post("/api/auth/create-account", createAccountBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgAccountCreated, rec.Body.String())

	user, err := f.store.Users().GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, user.Confirmed)
	assert.Equal(t, "Ana", user.Name)
	assert.NotEqual(t, "password123", user.PasswordHash)

	mail := f.mailer.lastConfirmation(t)
	assert.Equal(t, "ana@example.com", mail.Email)
	assert.Equal(t, "Ana", mail.Name)

	tok, err := f.store.Tokens().GetByToken(ctx, mail.Token, models.TokenConfirmAccount)
	require.NoError(t, err)
	assert.Equal(t, user.ID, tok.UserID)
	assert.Equal(t, f.now.Add(10*time.Minute), tok.ExpiresAt)
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	existing := f.seedUser(t, "ana@example.com", "password123", false)

	rec := f.post("/api/auth/create-account", `{
		"name": "Otra",
		"email": "ANA@example.com",
		"password": "password456",
		"password_confirmation": "password456"
	}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"`+msgUserExists+`"}`, rec.Body.String())

	user, err := f.store.Users().GetByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.Empty(t, f.mailer.confirmations)
}

func TestCreateAccount_Validation(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.post("/api/auth/create-account", `{"name":"","email":"x","password":"short","password_confirmation":"other"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body dto.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Errors, 4)
	assert.Empty(t, f.mailer.confirmations)
}

func TestCreateAccount_MailFailureDoesNotFailRequest(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.err = assert.AnError

	rec := f.post("/api/auth/create-account", createAccountBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, f.mailer.confirmations, 1)
}

func TestCreateAccount_StoreFailure(t *testing.T) {
	f := newAuthFixtureWithStore(t, brokenStore{memory.NewStore()})

	rec := f.post("/api/auth/create-account", createAccountBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Hubo un error"}`, rec.Body.String())
}

func TestConfirmAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "ana@example.com", "password123", false)
	tok := f.seedToken(t, user, "123456", models.TokenConfirmAccount)

	rec := f.post("/api/auth/confirm-account", `{"token":"123456"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgAccountConfirmed, rec.Body.String())

	got, err := f.store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)

	_, err = f.store.Tokens().GetByToken(ctx, tok.Token, models.TokenConfirmAccount)
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
}

func TestConfirmAccount_UnknownToken(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana@example.com", "password123", false)
	f.seedToken(t, user, "123456", models.TokenConfirmAccount)

	rec := f.post("/api/auth/confirm-account", `{"token":"654321"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"`+msgInvalidToken+`"}`, rec.Body.String())

	got, err := f.store.Users().GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, got.Confirmed)
}

func TestConfirmAccount_ResetTokenIsNotAccepted(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana@example.com", "password123", false)
	f.seedToken(t, user, "123456", models.TokenResetPassword)

	rec := f.post("/api/auth/confirm-account", `{"token":"123456"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmAccount_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "ana@example.com", "password123", false)
	f.seedToken(t, user, "123456", models.TokenConfirmAccount)

	f.now = f.now.Add(11 * time.Minute)
	rec := f.post("/api/auth/confirm-account", `{"token":"123456"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	got, err := f.store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.Confirmed)

	_, err = f.store.Tokens().GetByToken(ctx, "123456", models.TokenConfirmAccount)
	assert.ErrorIs(t, err, repository.ErrTokenNotFound, "expired token is removed")
}

func TestConfirmAccount_InvalidTokenFormat(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.post("/api/auth/confirm-account", `{"token":"12ab"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana@example.com", "password123", true)

	rec := f.post("/api/auth/login", `{"email":"ana@example.com","password":"password123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	claims, err := middleware.ValidateToken(rec.Body.String(), testJWT)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	rec := f.post("/api/auth/login", `{"email":"nadie@example.com","password":"password123"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"`+msgUserNotFound+`"}`, rec.Body.String())
}

func TestLogin_Unconfirmed(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := f.seedUser(t, "ana@example.com", "password123", false)
	old := f.seedToken(t, user, "111111", models.TokenConfirmAccount)

	rec := f.post("/api/auth/login", `{"email":"ana@example.com","password":"password123"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"`+msgAccountUnconfirmed+`"}`, rec.Body.String())

	mail := f.mailer.lastConfirmation(t)
	assert.Equal(t, "ana@example.com", mail.Email)

	tok, err := f.store.Tokens().GetByToken(ctx, mail.Token, models.TokenConfirmAccount)
	require.NoError(t, err)
	assert.Equal(t, user.ID, tok.UserID)

	// the new token supersedes the previous one
	if mail.Token != old.Token {
		_, err = f.store.Tokens().GetByToken(ctx, old.Token, models.TokenConfirmAccount)
		assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "ana@example.com", "password123", true)

	rec := f.post("/api/auth/login", `{"email":"ana@example.com","password":"wrong-password"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"`+msgWrongPassword+`"}`, rec.Body.String())
	assert.Empty(t, f.mailer.confirmations)
}

func TestRequestConfirmationCode(t *testing.T) {
	tests := []struct {
		name       string
		seed       bool
		confirmed  bool
		wantStatus int
		wantMail   bool
	}{
		{name: "unregistered", wantStatus: http.StatusConflict},
		{name: "already confirmed", seed: true, confirmed: true, wantStatus: http.StatusForbidden},
		{name: "unconfirmed", seed: true, wantStatus: http.StatusOK, wantMail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			if tt.seed {
				f.seedUser(t, "ana@example.com", "password123", tt.confirmed)
			}

			rec := f.post("/api/auth/request-code", `{"email":"ana@example.com"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantMail {
				assert.Equal(t, msgNewTokenSent, rec.Body.String())
				assert.Len(t, f.mailer.confirmations, 1)
			} else {
				assert.Empty(t, f.mailer.confirmations)
			}
		})
	}
}

func TestUser(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedUser(t, "ana@example.com", "password123", true)

	token, err := middleware.GenerateToken(user.ID, user.Email, testJWT)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"_id":"`+user.ID.String()+`","name":"Ana","email":"ana@example.com"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/user", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
