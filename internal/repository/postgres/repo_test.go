package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
)

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewStore(mock, time.Second, zap.NewNop())
}

func TestUserRepository_Create(t *testing.T) {
	mock, store := newMockStore(t)
	ctx := context.Background()
	now := time.Now()

	u := models.NewUser(models.UserFields{Name: "Ana", Email: "Ana@Example.com", PasswordHash: "hash"}, now)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(u.ID, "ana@example.com", "hash", "Ana", false, now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Users().Create(ctx, u))
	assert.Equal(t, "ana@example.com", u.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	mock, store := newMockStore(t)

	u := models.NewUser(models.UserFields{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash"}, time.Now())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(u.ID, u.Email, u.PasswordHash, u.Name, false, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := store.Users().Create(context.Background(), u)
	assert.ErrorIs(t, err, repository.ErrUserAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock, store := newMockStore(t)
	id := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "email", "password_hash", "name", "confirmed", "created_at", "updated_at"}).
		AddRow(id, "ana@example.com", "hash", "Ana", true, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ana@example.com").
		WillReturnRows(rows)

	u, err := store.Users().GetByEmail(context.Background(), "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.True(t, u.Confirmed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nadie@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Users().GetByEmail(context.Background(), "nadie@example.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	mock, store := newMockStore(t)
	u := models.NewUser(models.UserFields{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash"}, time.Now())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs(u.ID, u.PasswordHash, u.Name, u.Confirmed, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, store.Users().Update(context.Background(), u), repository.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_Create_Duplicate(t *testing.T) {
	mock, store := newMockStore(t)
	tok := models.NewToken(uuid.New(), "123456", models.TokenConfirmAccount, time.Minute, time.Now())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tokens")).
		WithArgs(tok.ID, "123456", tok.UserID, "confirm_account", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	assert.ErrorIs(t, store.Tokens().Create(context.Background(), tok), repository.ErrTokenAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_GetByToken_NotFound(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tokens")).
		WithArgs("654321", "reset_password").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Tokens().GetByToken(context.Background(), "654321", models.TokenResetPassword)
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_DeleteByUser(t *testing.T) {
	mock, store := newMockStore(t)
	userID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE user_id = $1 AND purpose = $2")).
		WithArgs(userID, "confirm_account").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	require.NoError(t, store.Tokens().DeleteByUser(context.Background(), userID, models.TokenConfirmAccount))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_Delete_NotFound(t *testing.T) {
	mock, store := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tokens WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, store.Tokens().Delete(context.Background(), id), repository.ErrTokenNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Create(t *testing.T) {
	mock, store := newMockStore(t)
	now := time.Now()
	p := models.NewProject(models.ProjectFields{ProjectName: "Tienda", ClientName: "Acme", Description: "Online"}, now)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO projects")).
		WithArgs(p.ID, "Tienda", "Acme", "Online", now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Projects().Create(context.Background(), p))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_List_Error(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(`FROM projects\s+ORDER BY created_at, id`).
		WillReturnError(errors.New("connection reset"))

	_, err := store.Projects().List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_GetByID_NotFound(t *testing.T) {
	mock, store := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects")).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := store.Projects().GetByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Delete(t *testing.T) {
	mock, store := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, store.Projects().Delete(context.Background(), id))
	assert.ErrorIs(t, store.Projects().Delete(context.Background(), id), repository.ErrProjectNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Ping(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectPing()
	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
