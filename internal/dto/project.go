package dto

import (
	"time"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
)

// ProjectRequest is the payload for creating and updating a project
type ProjectRequest struct {
	ProjectName string `json:"projectName" validate:"required"`
	ClientName  string `json:"clientName" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Fields maps the request onto model fields
func (r ProjectRequest) Fields() models.ProjectFields {
	return models.ProjectFields{
		ProjectName: r.ProjectName,
		ClientName:  r.ClientName,
		Description: r.Description,
	}
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          string `json:"_id"`
	ProjectName string `json:"projectName"`
	ClientName  string `json:"clientName"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func NewProjectResponse(p models.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID.String(),
		ProjectName: p.ProjectName,
		ClientName:  p.ClientName,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}
