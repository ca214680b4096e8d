package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/config"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/middleware"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository/memory"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/utils"
)

var testJWT = config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour, Issuer: "uptask"}

type recordingMailer struct {
	mu            sync.Mutex
	confirmations []utils.EmailData
	resets        []utils.EmailData
	err           error
}

func (m *recordingMailer) SendConfirmationEmail(_ context.Context, data utils.EmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, data)
	return m.err
}

func (m *recordingMailer) SendPasswordResetToken(_ context.Context, data utils.EmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, data)
	return m.err
}

func (m *recordingMailer) lastConfirmation(t *testing.T) utils.EmailData {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.confirmations, "no confirmation email sent")
	return m.confirmations[len(m.confirmations)-1]
}

func (m *recordingMailer) lastReset(t *testing.T) utils.EmailData {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.resets, "no reset email sent")
	return m.resets[len(m.resets)-1]
}

type authFixture struct {
	store   repository.Store
	mailer  *recordingMailer
	handler *AuthHandler
	router  chi.Router
	now     time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	return newAuthFixtureWithStore(t, memory.NewStore())
}

func newAuthFixtureWithStore(t *testing.T, store repository.Store) *authFixture {
	t.Helper()

	f := &authFixture{
		store:  store,
		mailer: &recordingMailer{},
		now:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.handler = NewAuthHandler(store, f.mailer, testJWT, 10*time.Minute, zap.NewNop())
	f.handler.now = func() time.Time { return f.now }

	r := chi.NewRouter()
	r.Post("/api/auth/create-account", f.handler.CreateAccount)
	r.Post("/api/auth/confirm-account", f.handler.ConfirmAccount)
	r.Post("/api/auth/login", f.handler.Login)
	r.Post("/api/auth/request-code", f.handler.RequestConfirmationCode)
	r.Post("/api/auth/forgot-password", f.handler.ForgotPassword)
	r.Post("/api/auth/validate-token", f.handler.ValidateToken)
	r.Post("/api/auth/update-password/{token}", f.handler.UpdatePasswordWithToken)
	r.With(middleware.AuthMiddleware(testJWT)).Get("/api/auth/user", f.handler.User)
	f.router = r

	return f
}

func (f *authFixture) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *authFixture) seedUser(t *testing.T, email, password string, confirmed bool) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	u := models.NewUser(models.UserFields{Name: "Ana", Email: email, PasswordHash: hash, Confirmed: confirmed}, f.now)
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *authFixture) seedToken(t *testing.T, user *models.User, value string, purpose models.TokenPurpose) *models.Token {
	t.Helper()

	tok := models.NewToken(user.ID, value, purpose, 10*time.Minute, f.now)
	require.NoError(t, f.store.Tokens().Create(context.Background(), tok))
	return tok
}

var errStoreDown = errors.New("store unavailable")

// brokenUsers fails every user lookup
type brokenUsers struct {
	repository.UserRepository
}

func (brokenUsers) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, errStoreDown
}

type brokenStore struct {
	*memory.Store
}

func (s brokenStore) Users() repository.UserRepository {
	return brokenUsers{s.Store.Users()}
}
