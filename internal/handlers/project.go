package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/dto"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/logger"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/utils"
)

// ProjectHandler handles project CRUD requests
type ProjectHandler struct {
	projects repository.ProjectRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewProjectHandler creates a new ProjectHandler instance
func NewProjectHandler(projects repository.ProjectRepository, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: log, now: time.Now}
}

// CreateProject stores a new project
// @Summary Create project
// @Tags projects
// @Accept json
// @Produce plain
// @Param request body dto.ProjectRequest true "Project data"
// @Success 200 {string} string "Proyecto creado correctamente"
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid request data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/projects [post]
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req dto.ProjectRequest
	if !utils.DecodeJSONRequest(w, r, &req) {
		return
	}

	project := models.NewProject(req.Fields(), h.now())
	if err := h.projects.Create(r.Context(), project); err != nil {
		h.internalError(w, r, "Failed to create project", err)
		return
	}

	utils.WriteTextResponse(w, http.StatusOK, msgProjectCreated)
}

// GetAllProjects lists every project
// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {array} dto.ProjectResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/projects [get]
func (h *ProjectHandler) GetAllProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to list projects", err)
		return
	}

	resp := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		resp = append(resp, dto.NewProjectResponse(p))
	}

	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// GetProjectByID returns one project
// @Summary Get project
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.NewProjectResponse(*project))
}

// UpdateProject replaces the editable fields of a project
// @Summary Update project
// @Tags projects
// @Accept json
// @Produce plain
// @Param id path string true "Project ID"
// @Param request body dto.ProjectRequest true "Project data"
// @Success 200 {string} string "Proyecto actualizado"
// @Failure 400 {object} dto.ValidationErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	var req dto.ProjectRequest
	if !utils.DecodeJSONRequest(w, r, &req) {
		return
	}

	project.Apply(req.Fields(), h.now())
	if err := h.projects.Update(r.Context(), project); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, msgProjectNotFound)
			return
		}
		h.internalError(w, r, "Failed to update project", err)
		return
	}

	utils.WriteTextResponse(w, http.StatusOK, msgProjectUpdated)
}

// DeleteProject removes a project
// @Summary Delete project
// @Tags projects
// @Produce plain
// @Param id path string true "Project ID"
// @Success 200 {string} string "Proyecto eliminado"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.projects.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, msgProjectNotFound)
			return
		}
		h.internalError(w, r, "Failed to delete project", err)
		return
	}

	utils.WriteTextResponse(w, http.StatusOK, msgProjectDeleted)
}

func (h *ProjectHandler) loadProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return nil, false
	}

	project, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, msgProjectNotFound)
			return nil, false
		}
		h.internalError(w, r, "Failed to load project", err)
		return nil, false
	}
	return project, true
}

func (h *ProjectHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	logger.Error(r.Context(), h.logger, msg, zap.String("path", r.URL.Path), zap.Error(err))
	utils.WriteErrorResponse(w, http.StatusInternalServerError, msgInternalError)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, msgInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
