package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a client project record
type Project struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProjectName string    `json:"project_name" db:"project_name"`
	ClientName  string    `json:"client_name" db:"client_name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectFields are the validated inputs of a project
type ProjectFields struct {
	ProjectName string
	ClientName  string
	Description string
}

// NewProject builds an unsaved project with a fresh id
func NewProject(f ProjectFields, now time.Time) *Project {
	return &Project{
		ID:          uuid.New(),
		ProjectName: f.ProjectName,
		ClientName:  f.ClientName,
		Description: f.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply overwrites the editable fields
func (p *Project) Apply(f ProjectFields, now time.Time) {
	p.ProjectName = f.ProjectName
	p.ClientName = f.ClientName
	p.Description = f.Description
	p.UpdatedAt = now
}
