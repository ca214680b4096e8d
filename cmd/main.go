// @title UpTask Backend API
// @version 1.0
// @description Account and project administration API

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	_ "github.com/Jesus0113/Administrador-de-Proyectos-Backend/docs" // This is required for swagger
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/config"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/handlers"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/logger"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/middleware"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/routes"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/telemetry"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.InitTracer(ctx, cfg.Telemetry, cfg.Log.Env)
	if err != nil {
		zl.Fatal("Failed to init tracer", zap.Error(err))
	}

	store, err := openStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to open store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	// --- HTTP Handlers ---

	mailer := utils.NewEmailService(cfg.Email, cfg.Token.TTL, zl)

	h := routes.Handlers{
		Auth:    handlers.NewAuthHandler(store, mailer, cfg.JWT, cfg.Token.TTL, zl),
		Project: handlers.NewProjectHandler(store.Projects(), zl),
		Health:  handlers.NewHealthHandler(store, cfg.Storage.Driver),
	}
	if cfg.IsGoogleOAuthConfigured() {
		h.Google = handlers.NewGoogleAuthHandler(store, cfg.GoogleOAuth, cfg.JWT, zl)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	h.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})

	router := routes.NewRouter(h, cfg.JWT, middleware.NewMetrics(reg), zl)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.CredentialsAllowed(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           otelhttp.NewHandler(c.Handler(router), "http.server"),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		zl.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Server shutdown error", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		zl.Error("Store close error", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		zl.Error("Tracer shutdown error", zap.Error(err))
	}

	zl.Info("Server stopped")
}
