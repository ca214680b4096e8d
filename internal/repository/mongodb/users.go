package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/logger"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
)

type UserRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
	tracer  trace.Tracer
	logger  *zap.Logger
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	user.Email = strings.ToLower(user.Email)

	if _, err := r.coll.InsertOne(ctx, newUserDocument(user)); err != nil {
		span.RecordError(err)
		if mongo.IsDuplicateKeyError(err) {
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

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}

		trace.SpanFromContext(ctx).RecordError(err)
		logger.Error(ctx, r.logger, "Failed to find user", zap.Error(err))
		return nil, fmt.Errorf("error finding user: %w", err)
	}

	return doc.model()
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Update")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"password_hash": user.PasswordHash,
		"name":          user.Name,
		"confirmed":     user.Confirmed,
		"updated_at":    user.UpdatedAt,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": user.ID.String()}, update)
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to update user", zap.String("user_id", user.ID.String()), zap.Error(err))
		return fmt.Errorf("error updating user: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}
