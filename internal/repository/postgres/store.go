package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
)

// Store is the PostgreSQL-backed repository.Store
type Store struct {
	db       DB
	users    *UserRepository
	tokens   *TokenRepository
	projects *ProjectRepository
}

// NewStore binds every repository to db. Each query gets its own
// queryTimeout deadline when queryTimeout is positive.
func NewStore(db DB, queryTimeout time.Duration, log *zap.Logger) *Store {
	return &Store{
		db:       db,
		users:    NewUserRepository(db, queryTimeout, log),
		tokens:   NewTokenRepository(db, queryTimeout, log),
		projects: NewProjectRepository(db, queryTimeout, log),
	}
}

func (s *Store) Users() repository.UserRepository       { return s.users }
func (s *Store) Tokens() repository.TokenRepository     { return s.tokens }
func (s *Store) Projects() repository.ProjectRepository { return s.projects }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close(context.Context) error {
	s.db.Close()
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
