package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/config"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository/memory"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository/mongodb"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/repository/postgres"
)

// openStore connects the backend named by STORAGE_DRIVER and prepares its schema
func openStore(ctx context.Context, cfg *config.Config, zl *zap.Logger) (repository.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPostgresDB(ctx, cfg.Database, cfg.GetDSN())
		if err != nil {
			return nil, err
		}
		if cfg.Database.RunMigrations {
			if err := postgres.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		zl.Info("Connected to PostgreSQL", zap.String("host", cfg.Database.Host))
		return postgres.NewStore(pool, cfg.Database.QueryTimeout, zl), nil

	case config.DriverMongo:
		store, err := mongodb.Connect(ctx, cfg.Mongo, cfg.Database.QueryTimeout, zl)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		zl.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))
		return store, nil

	case config.DriverMemory:
		zl.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewStore(), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
