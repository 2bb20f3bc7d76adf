package handlers

import (
	"context"
	"net/http"
	"os"
	"time"
)

const version = "0.1.0"

// Check represents the status of a health check.
type Check struct {
	Status  string `json:"status"`            // "pass" or "fail"
	Latency string `json:"latency,omitempty"` // e.g., "2ms"
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string           `json:"status"` // "healthy" or "degraded"
	Version   string           `json:"version"`
	Region    string           `json:"region,omitempty"`
	Instance  string           `json:"instance,omitempty"`
	Checks    map[string]Check `json:"checks"`
	Timestamp string           `json:"timestamp"`
}

// Health handles the health check endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]Check)
	allHealthy := true

	check := func(name string, ping func(context.Context) error) {
		start := time.Now()
		if err := ping(ctx); err != nil {
			checks[name] = Check{Status: "fail", Message: "connection failed"}
			allHealthy = false
			return
		}
		checks[name] = Check{Status: "pass", Latency: time.Since(start).String()}
	}

	check("sessions", h.sessions.Ping)

	if h.source != nil {
		check("dataset", h.source.Ping)
	} else {
		checks["dataset"] = Check{Status: "pass", Message: "built-in seed"}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	resp := HealthResponse{
		Status:    status,
		Version:   version,
		Region:    os.Getenv("FLY_REGION"),
		Instance:  os.Getenv("FLY_ALLOC_ID"),
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	h.JSON(w, statusCode, resp)
}

// RootResponse represents the API info response.
type RootResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Variants  []string `json:"variants"`
	Endpoints []string `json:"endpoints"`
}

// Root handles the API info endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, RootResponse{
		Name:     "inboxdesk",
		Version:  version,
		Variants: []string{"classic", "labeled"},
		Endpoints: []string{
			"POST /sessions",
			"GET /sessions/{id}",
			"DELETE /sessions/{id}",
			"PUT /sessions/{id}/profile",
			"PUT /sessions/{id}/label",
			"PUT /sessions/{id}/search",
			"POST /sessions/{id}/filter/toggle",
			"POST /sessions/{id}/sort/toggle",
			"PUT /sessions/{id}/selection",
			"PUT /sessions/{id}/subview",
			"POST /sessions/{id}/resolution",
			"PUT /sessions/{id}/compose",
			"POST /sessions/{id}/attachment",
			"DELETE /sessions/{id}/attachment",
			"POST /sessions/{id}/send",
			"POST /sessions/{id}/call",
		},
	})
}
