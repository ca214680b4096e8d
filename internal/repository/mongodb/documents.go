package mongodb

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
)

// Documents key on the uuid string so ids look the same on every backend.

type userDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Name         string    `bson:"name"`
	Confirmed    bool      `bson:"confirmed"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func newUserDocument(u *models.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Confirmed:    u.Confirmed,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDocument) model() (*models.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	return &models.User{
		ID:           id,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Name:         d.Name,
		Confirmed:    d.Confirmed,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

type tokenDocument struct {
	ID        string    `bson:"_id"`
	Token     string    `bson:"token"`
	UserID    string    `bson:"user_id"`
	Purpose   string    `bson:"purpose"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func newTokenDocument(t *models.Token) tokenDocument {
	return tokenDocument{
		ID:        t.ID.String(),
		Token:     t.Token,
		UserID:    t.UserID.String(),
		Purpose:   string(t.Purpose),
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
}

func (d tokenDocument) model() (*models.Token, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid token id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid token user id %q: %w", d.UserID, err)
	}
	return &models.Token{
		ID:        id,
		Token:     d.Token,
		UserID:    userID,
		Purpose:   models.TokenPurpose(d.Purpose),
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
	}, nil
}

type projectDocument struct {
	ID          string    `bson:"_id"`
	ProjectName string    `bson:"project_name"`
	ClientName  string    `bson:"client_name"`
	Description string    `bson:"description"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func newProjectDocument(p *models.Project) projectDocument {
	return projectDocument{
		ID:          p.ID.String(),
		ProjectName: p.ProjectName,
		ClientName:  p.ClientName,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d projectDocument) model() (*models.Project, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", d.ID, err)
	}
	return &models.Project{
		ID:          id,
		ProjectName: d.ProjectName,
		ClientName:  d.ClientName,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}
