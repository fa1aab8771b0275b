package health

import (
	"encoding/json"
	"net/http"

	"mercator-hq/tensorix/pkg/config"
)

// LivenessHandler serves Liveness.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeStatus(w, r, http.StatusOK, c.Liveness())
	}
}

// ReadinessHandler serves Readiness, with 503 unless every check passes.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		status := c.Readiness(r.Context())
		code := http.StatusOK
		if status.Status != StatusReady {
			code = http.StatusServiceUnavailable
		}
		writeStatus(w, r, code, status)
	}
}

// Mount registers both probes on mux at the paths of cfg.
func (c *Checker) Mount(mux *http.ServeMux, cfg config.HealthConfig) {
	mux.Handle(cfg.LivenessPath, c.LivenessHandler())
	mux.Handle(cfg.ReadinessPath, c.ReadinessHandler())
}

func writeStatus(w http.ResponseWriter, r *http.Request, code int, status Status) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(status)
	}
}
