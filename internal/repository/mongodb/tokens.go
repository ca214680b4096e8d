package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/logger"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/models"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
)

type TokenRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
	tracer  trace.Tracer
	logger  *zap.Logger
}

func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	ctx, span := r.tracer.Start(ctx, "TokenRepository.Create")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	span.SetAttributes(attribute.String("token.purpose", string(token.Purpose)))

	if _, err := r.coll.InsertOne(ctx, newTokenDocument(token)); err != nil {
		span.RecordError(err)
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrTokenAlreadyExists
		}

		logger.Error(ctx, r.logger, "Failed to create token", zap.Error(err))
		return fmt.Errorf("error creating token: %w", err)
	}

	return nil
}

func (r *TokenRepository) GetByToken(ctx context.Context, value string, purpose models.TokenPurpose) (*models.Token, error) {
	ctx, span := r.tracer.Start(ctx, "TokenRepository.GetByToken")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var doc tokenDocument
	err := r.coll.FindOne(ctx, bson.M{"token": value, "purpose": string(purpose)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrTokenNotFound
		}

		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to find token", zap.Error(err))
		return nil, fmt.Errorf("error finding token: %w", err)
	}

	return doc.model()
}

func (r *TokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := r.tracer.Start(ctx, "TokenRepository.Delete")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to delete token", zap.Error(err))
		return fmt.Errorf("error deleting token: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrTokenNotFound
	}

	return nil
}

func (r *TokenRepository) DeleteByUser(ctx context.Context, userID uuid.UUID, purpose models.TokenPurpose) error {
	ctx, span := r.tracer.Start(ctx, "TokenRepository.DeleteByUser")
	defer span.End()

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID.String(), "purpose": string(purpose)})
	if err != nil {
		span.RecordError(err)
		logger.Error(ctx, r.logger, "Failed to delete user tokens",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("error deleting user tokens: %w", err)
	}

	return nil
}
