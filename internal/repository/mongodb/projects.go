package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/logger"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
)

type ProjectRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
	tracer  trace.Tracer
	logger  *zap.Logger
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	ctx, span := r.tracer.Start(ctx, "ProjectRepository.Create")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, newProjectDocument(p)); err != nil {
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

	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to list projects", zap.Error(err))
		return nil, fmt.Errorf("error listing projects: %w", err)
	}

	var docs []projectDocument
	if err := cursor.All(ctx, &docs); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error decoding projects: %w", err)
	}

	projects := make([]models.Project, 0, len(docs))
	for _, d := range docs {
		p, err := d.model()
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}

	span.SetAttributes(attribute.Int("projects.count", len(projects)))
	return projects, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	ctx, span := r.tracer.Start(ctx, "ProjectRepository.GetByID")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var doc projectDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrProjectNotFound
		}

		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to find project", zap.String("project_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("error finding project: %w", err)
	}

	return doc.model()
}

func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	ctx, span := r.tracer.Start(ctx, "ProjectRepository.Update")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"project_name": p.ProjectName,
		"client_name":  p.ClientName,
		"description":  p.Description,
		"updated_at":   p.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": p.ID.String()}, update)
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to update project", zap.String("project_id", p.ID.String()), zap.Error(err))
		return fmt.Errorf("error updating project: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrProjectNotFound
	}

	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := r.tracer.Start(ctx, "ProjectRepository.Delete")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to delete project", zap.String("project_id", id.String()), zap.Error(err))
		return fmt.Errorf("error deleting project: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrProjectNotFound
	}

	return nil
}
