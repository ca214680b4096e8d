// Package mongodb implements repository.Store on MongoDB collections
// users, tokens and projects.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/config"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
)

const (
	usersCollection    = "users"
	tokensCollection   = "tokens"
	projectsCollection = "projects"
)

// Store is the MongoDB-backed repository.Store
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	tracer   trace.Tracer
	users    *UserRepository
	tokens   *TokenRepository
	projects *ProjectRepository
}

// Connect opens a client, pings the primary and returns a Store for cfg.Database.
// Every repository call is bounded by queryTimeout when it is positive.
func Connect(ctx context.Context, cfg config.MongoConfig, queryTimeout time.Duration, log *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	return NewStore(client, cfg.Database, queryTimeout, log), nil
}

func NewStore(client *mongo.Client, database string, queryTimeout time.Duration, log *zap.Logger) *Store {
	db := client.Database(database)
	tracer := otel.Tracer("repository/mongodb")

	return &Store{
		client:   client,
		db:       db,
		tracer:   tracer,
		users:    &UserRepository{coll: db.Collection(usersCollection), timeout: queryTimeout, tracer: tracer, logger: log},
		tokens:   &TokenRepository{coll: db.Collection(tokensCollection), timeout: queryTimeout, tracer: tracer, logger: log},
		projects: &ProjectRepository{coll: db.Collection(projectsCollection), timeout: queryTimeout, tracer: tracer, logger: log},
	}
}

// EnsureIndexes creates the unique and TTL indexes the repositories rely on.
// Creating an index that already exists is a no-op.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "Store.EnsureIndexes")
	defer span.End()

	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("create users.email index: %w", err)
	}

	_, err = s.db.Collection(tokensCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "purpose", Value: 1}},
		},
		{
			// documents are removed by the server once expires_at passes
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("create tokens indexes: %w", err)
	}

	return nil
}

func (s *Store) Users() repository.UserRepository       { return s.users }
func (s *Store) Tokens() repository.TokenRepository     { return s.tokens }
func (s *Store) Projects() repository.ProjectRepository { return s.projects }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
