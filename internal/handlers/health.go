package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/dto"
	"github.com/Jesus0113/Administrador-de-Proyectos-Backend/internal/utils"
)

const readinessTimeout = 3 * time.Second

// Pinger is satisfied by every repository.Store
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the probe endpoints
type HealthHandler struct {
	store  Pinger
	driver string
}

// NewHealthHandler reports readiness of store, labelled with its driver name
func NewHealthHandler(store Pinger, driver string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver}
}

// HealthCheck answers without touching storage
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "alive"})
}

// ReadinessCheck pings the configured store
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	details := map[string]string{"storage": h.driver}

	if err := h.store.Ping(ctx); err != nil {
		details["error"] = err.Error()
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Details: details})
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ready", Details: details})
}
