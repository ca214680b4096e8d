package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/config"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/handlers"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/middleware"
)

// Handlers groups everything the router serves. Google is optional.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Project *handlers.ProjectHandler
	Health  *handlers.HealthHandler
	Google  *handlers.GoogleAuthHandler
	Metrics http.Handler
}

// NewRouter configures all application routes
func NewRouter(h Handlers, jwtCfg config.JWTConfig, metrics *middleware.Metrics, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(metrics.Handler)
	r.Use(chimw.Recoverer)

	// Health check routes
	r.Get("/healthz", h.Health.HealthCheck)
	r.Get("/livez", h.Health.LivenessCheck)
	r.Get("/readyz", h.Health.ReadinessCheck)

	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/create-account", h.Auth.CreateAccount)
		r.Post("/confirm-account", h.Auth.ConfirmAccount)
		r.Post("/login", h.Auth.Login)
		r.Post("/request-code", h.Auth.RequestConfirmationCode)
		r.Post("/forgot-password", h.Auth.ForgotPassword)
		r.Post("/validate-token", h.Auth.ValidateToken)
		r.Post("/update-password/{token}", h.Auth.UpdatePasswordWithToken)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtCfg))
			r.Get("/user", h.Auth.User)
		})

		if h.Google != nil {
			r.Get("/google/login", h.Google.GoogleLogin)
			r.Get("/google/callback", h.Google.GoogleCallback)
		}
	})

	r.Route("/api/projects", func(r chi.Router) {
		r.Post("/", h.Project.CreateProject)
		r.Get("/", h.Project.GetAllProjects)
		r.Get("/{id}", h.Project.GetProjectByID)
		r.Put("/{id}", h.Project.UpdateProject)
		r.Delete("/{id}", h.Project.DeleteProject)
	})

	r.Get("/", rootHandler)

	return r
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("UpTask backend is running."))
}
