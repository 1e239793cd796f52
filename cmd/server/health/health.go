// Package health provides health check endpoints.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starquake/quizbase/internal/httputil"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandleHealthz returns a handler that serves health check responses.
// It answers 503 when the database cannot be reached.
func HandleHealthz(logger *slog.Logger, database Pinger) http.Handler {
	type healthStatus struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks,omitempty"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		httpStatus := http.StatusOK
		health := healthStatus{
			Status: "ok",
			Checks: make(map[string]string),
		}

		if err := database.Ping(ctx); err != nil {
			health.Status = "degraded"
			health.Checks["database"] = fmt.Sprintf("unhealthy: %v", err)
			httpStatus = http.StatusServiceUnavailable
			logger.WarnContext(ctx, "health check failed", slog.Any("err", err))
		} else {
			health.Checks["database"] = "healthy"
		}

		logger.DebugContext(ctx, "health check performed", slog.String("status", health.Status))
		if err := httputil.EncodeJSON(w, httpStatus, health); err != nil {
			logger.ErrorContext(ctx, "error encoding health status", slog.Any("err", err))
		}
	})
}
