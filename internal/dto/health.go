package dto

// HealthResponse is returned by the probe endpoints. Details names the
// storage driver and, when the ping failed, its error.
type HealthResponse struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}
