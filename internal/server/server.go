// Package server wires the HTTP routes and middleware of the application.
package server

import (
	"log/slog"
	"net/http"

	"github.com/starquake/quizbase/internal/config"
	"github.com/starquake/quizbase/internal/store"
)

// NewServer creates the application handler.
func NewServer(logger *slog.Logger, stores *store.Stores, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()
	addRoutes(mux, logger, stores)

	var handler http.Handler = mux
	handler = withCORS(cfg.CORSAllowedOrigins, handler)
	handler = withAccessLog(logger, handler)
	handler = withRequestID(handler)

	return handler
}
