package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/collections-workflow/internal/collections_engine/audit"
	"github.com/collections-workflow/internal/domain/workflow"
)

const healthCheckTimeout = 2 * time.Second

// Dependency is an external connection the service reports on
type Dependency interface {
	Name() string
	Ping(ctx context.Context) error
}

// AuditStats exposes audit dispatcher counters
type AuditStats interface {
	Stats() audit.Stats
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Borrowers    int               `json:"borrowers"`
	Policy       string            `json:"transition_policy"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Audit        *audit.Stats      `json:"audit,omitempty"`
}

// StoreInfo is what the health check reports about the record store
type StoreInfo interface {
	Len() int
	Policy() workflow.TransitionPolicy
}

// HealthHandler reports liveness and the state of external dependencies
type HealthHandler struct {
	store StoreInfo
	deps  []Dependency
	audit AuditStats
	now   func() time.Time
}

// NewHealthHandler creates a health handler. auditStats may be nil.
func NewHealthHandler(store StoreInfo, auditStats AuditStats, deps ...Dependency) *HealthHandler {
	return &HealthHandler{store: store, deps: deps, audit: auditStats, now: time.Now}
}

// Check answers 200 when every dependency responds, 503 otherwise
func (h *HealthHandler) Check(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC(),
		Borrowers: h.store.Len(),
		Policy:    h.store.Policy().String(),
	}

	if len(h.deps) > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		resp.Dependencies = make(map[string]string, len(h.deps))
		for _, d := range h.deps {
			if err := d.Ping(ctx); err != nil {
				resp.Dependencies[d.Name()] = "unavailable: " + err.Error()
				resp.Status = "degraded"
				continue
			}
			resp.Dependencies[d.Name()] = "ok"
		}
	}

	if h.audit != nil {
		stats := h.audit.Stats()
		resp.Audit = &stats
	}

	if resp.Status != "ok" {
		RespondServiceUnavailable(c, resp)
		return
	}
	RespondOK(c, resp)
}
