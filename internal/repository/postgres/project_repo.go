package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/logger"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
)

type ProjectRepository struct {
	db      DBTX
	timeout time.Duration
	tracer  trace.Tracer
	logger  *zap.Logger
}

func NewProjectRepository(db DBTX, timeout time.Duration, log *zap.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:      db,
		timeout: timeout,
		tracer:  otel.Tracer("repository/postgres/projects"),
		logger:  log,
	}
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	ctx, span := r.tracer.Start(ctx, "ProjectRepository.Create")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO projects (id, project_name, client_name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	if _, err := r.db.Exec(ctx, query,
		p.ID, p.ProjectName, p.ClientName, p.Description, p.CreatedAt, p.UpdatedAt); err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to create project", zap.Error(err))
		return fmt.Errorf("error creating project: %w", err)
	}

	return nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	ctx, span := r.tracer.Start(ctx, "ProjectRepository.List")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, project_name, client_name, description, created_at, updated_at
		FROM projects
		ORDER BY created_at, id;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.ProjectName, &p.ClientName, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	span.SetAttributes(attribute.Int("projects.count", len(projects)))
	return projects, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	ctx, span := r.tracer.Start(ctx, "ProjectRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.String("project.id", id.String()))

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, project_name, client_name, description, created_at, updated_at
		FROM projects
		WHERE id = $1;
	`

	var p models.Project
	err := r.db.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.ProjectName, &p.ClientName, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrProjectNotFound
		}

		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to find project", zap.String("project_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("error finding project: %w", err)
	}

	return &p, nil
}

func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	ctx, span := r.tracer.Start(ctx, "ProjectRepository.Update")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE projects
		SET project_name = $2, client_name = $3, description = $4, updated_at = $5
		WHERE id = $1;
	`

	tag, err := r.db.Exec(ctx, query, p.ID, p.ProjectName, p.ClientName, p.Description, p.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to update project", zap.String("project_id", p.ID.String()), zap.Error(err))
		return fmt.Errorf("error updating project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrProjectNotFound
	}

	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := r.tracer.Start(ctx, "ProjectRepository.Delete")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to delete project", zap.String("project_id", id.String()), zap.Error(err))
		return fmt.Errorf("error deleting project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrProjectNotFound
	}

	return nil
}
