package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenAlreadyExists = errors.New("token already exists")
	ErrProjectNotFound    = errors.New("project not found")
)

// UserRepository persists user accounts. Emails are stored lower-cased.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// TokenRepository persists one-time email tokens.
// GetByToken returns expired tokens too; callers decide what expiry means.
type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	GetByToken(ctx context.Context, value string, purpose models.TokenPurpose) (*models.Token, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID, purpose models.TokenPurpose) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	List(ctx context.Context) ([]models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store groups the repositories of one storage backend
type Store interface {
	Users() UserRepository
	Tokens() TokenRepository
	Projects() ProjectRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
