package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/logger"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
)

type TokenRepository struct {
	db      DBTX
	timeout time.Duration
	tracer  trace.Tracer
	logger  *zap.Logger
}

func NewTokenRepository(db DBTX, timeout time.Duration, log *zap.Logger) *TokenRepository {
	return &TokenRepository{
		db:      db,
		timeout: timeout,
		tracer:  otel.Tracer("repository/postgres/tokens"),
		logger:  log,
	}
}

func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	ctx, span := r.tracer.Start(ctx, "TokenRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", token.UserID.String()),
		attribute.String("token.purpose", string(token.Purpose)),
	)

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO tokens (id, token, user_id, purpose, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err := r.db.Exec(ctx, query,
		token.ID, token.Token, token.UserID, string(token.Purpose), token.CreatedAt, token.ExpiresAt)
	if err != nil {
		span.RecordError(err)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrTokenAlreadyExists
		}

		logger.Error(ctx, r.logger, "Failed to create token", zap.Error(err))
		return fmt.Errorf("error creating token: %w", err)
	}

	return nil
}

func (r *TokenRepository) GetByToken(ctx context.Context, value string, purpose models.TokenPurpose) (*models.Token, error) {
	ctx, span := r.tracer.Start(ctx, "TokenRepository.GetByToken")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, token, user_id, purpose, created_at, expires_at
		FROM tokens
		WHERE token = $1 AND purpose = $2;
	`

	var (
		t       models.Token
		purpStr string
	)
	err := r.db.QueryRow(ctx, query, value, string(purpose)).
		Scan(&t.ID, &t.Token, &t.UserID, &purpStr, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTokenNotFound
		}

		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to find token", zap.Error(err))
		return nil, fmt.Errorf("error finding token: %w", err)
	}
	t.Purpose = models.TokenPurpose(purpStr)

	return &t, nil
}

func (r *TokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := r.tracer.Start(ctx, "TokenRepository.Delete")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM tokens WHERE id = $1;`, id)
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to delete token", zap.Error(err))
		return fmt.Errorf("error deleting token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrTokenNotFound
	}

	return nil
}

func (r *TokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID, purpose models.TokenPurpose) error {
	ctx, span := r.tracer.Start(ctx, "TokenRepository.DeleteByUser")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM tokens WHERE user_id = $1 AND purpose = $2;`, userID, string(purpose))
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to delete user tokens",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("error deleting user tokens: %w", err)
	}

	return nil
}
