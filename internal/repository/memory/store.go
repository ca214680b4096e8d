// Package memory keeps every record in process memory. It backs local runs
// without a database and the handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
)

type Store struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]models.User
	tokens   map[uuid.UUID]models.Token
	projects map[uuid.UUID]models.Project
}

func NewStore() *Store {
	return &Store{
		users:    make(map[uuid.UUID]models.User),
		tokens:   make(map[uuid.UUID]models.Token),
		projects: make(map[uuid.UUID]models.Project),
	}
}

func (s *Store) Users() repository.UserRepository       { return userRepo{s} }
func (s *Store) Tokens() repository.TokenRepository     { return tokenRepo{s} }
func (s *Store) Projects() repository.ProjectRepository { return projectRepo{s} }

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r userRepo) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	r.s.users[user.ID] = *user
	return nil
}

type tokenRepo struct{ s *Store }

func (r tokenRepo) Create(_ context.Context, token *models.Token) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.tokens {
		if t.Token == token.Token {
			return repository.ErrTokenAlreadyExists
		}
	}
	r.s.tokens[token.ID] = *token
	return nil
}

func (r tokenRepo) GetByToken(_ context.Context, value string, purpose models.TokenPurpose) (*models.Token, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tokens {
		if t.Token == value && t.Purpose == purpose {
			return &t, nil
		}
	}
	return nil, repository.ErrTokenNotFound
}

func (r tokenRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tokens[id]; !ok {
		return repository.ErrTokenNotFound
	}
	delete(r.s.tokens, id)
	return nil
}

func (r tokenRepo) DeleteByUser(_ context.Context, userID uuid.UUID, purpose models.TokenPurpose) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, t := range r.s.tokens {
		if t.UserID == userID && t.Purpose == purpose {
			delete(r.s.tokens, id)
		}
	}
	return nil
}

type projectRepo struct{ s *Store }

func (r projectRepo) Create(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.projects[project.ID] = *project
	return nil
}

// List returns projects oldest first, ties broken by id
func (r projectRepo) List(context.Context) ([]models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	projects := make([]models.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		projects = append(projects, p)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		if !projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].CreatedAt.Before(projects[j].CreatedAt)
		}
		return projects[i].ID.String() < projects[j].ID.String()
	})
	return projects, nil
}

func (r projectRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	return &p, nil
}

func (r projectRepo) Update(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[project.ID]; !ok {
		return repository.ErrProjectNotFound
	}
	r.s.projects[project.ID] = *project
	return nil
}

func (r projectRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[id]; !ok {
		return repository.ErrProjectNotFound
	}
	delete(r.s.projects, id)
	return nil
}
