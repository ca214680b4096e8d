package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

const uniqueViolation = "23505"

const userColumns = `id, email, password_hash, name, confirmed, created_at, updated_at`

type UserRepository struct {
	db      DBTX
	timeout time.Duration
	tracer  trace.Tracer
	logger  *zap.Logger
}

func NewUserRepository(db DBTX, timeout time.Duration, log *zap.Logger) *UserRepository {
	return &UserRepository{
		db:      db,
		timeout: timeout,
		tracer:  otel.Tracer("repository/postgres/users"),
		logger:  log,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	user.Email = strings.ToLower(user.Email)

	query := `
		INSERT INTO users (id, email, password_hash, name, confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Confirmed, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		span.RecordError(err)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrUserAlreadyExists
		}

		logger.Error(ctx, r.logger, "Failed to create user", zap.Error(err))
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.String("user.id", id.String()))

	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1;`, strings.ToLower(email))
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var u models.User
	err := r.db.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Confirmed, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}

		trace.SpanFromContext(ctx).RecordError(err)
		logger.Error(ctx, r.logger, "Failed to find user", zap.Error(err))
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE users
		SET password_hash = $2, name = $3, confirmed = $4, updated_at = $5
		WHERE id = $1;
	`

	tag, err := r.db.Exec(ctx, query, user.ID, user.PasswordHash, user.Name, user.Confirmed, user.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to update user", zap.String("user_id", user.ID.String()), zap.Error(err))
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}
