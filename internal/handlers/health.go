package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/itsDrac/authgate/internal/model"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	cache   Pinger
	started time.Time
}

// NewHealthHandler reports on db and, when non-nil, on cache.
func NewHealthHandler(db Pinger, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, started: time.Now()}
}

func pingStatus(ctx context.Context, name string, p Pinger) string {
	if err := p.Ping(ctx); err != nil {
		zap.S().Warnw("[HEALTH] ping failed", "component", name, "error", err)
		return "disconnected"
	}
	return "connected"
}

// Health godoc
//
//	@Summary	Health check
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	model.APIResponse[model.HealthResponse]
//	@Router		/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := model.HealthResponse{
		Status:    "UP",
		Uptime:    time.Since(h.started).Seconds(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Database:  model.ComponentHealth{Status: pingStatus(ctx, "database", h.db)},
	}
	if h.cache != nil {
		resp.Cache = &model.ComponentHealth{Status: pingStatus(ctx, "cache", h.cache)}
	}

	RespondSuccessJSON(w, r, http.StatusOK, "API is running smoothly!", resp)
}

// NotFound answers unknown routes in the standard envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	RespondErrorJSON(w, r, http.StatusNotFound, ErrNotFound.Error(), "Not Found - "+r.URL.RequestURI(), nil)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	RespondErrorJSON(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllow.Error(), "Method Not Allowed", nil)
}
