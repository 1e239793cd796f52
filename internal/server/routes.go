package server

import (
	"log/slog"
	"net/http"

	"github.com/starquake/quizbase/cmd/server/health"
	"github.com/starquake/quizbase/internal/api"
	"github.com/starquake/quizbase/internal/store"
)

func addRoutes(
	mux *http.ServeMux,
	logger *slog.Logger,
	stores *store.Stores,
) {
	mux.Handle("GET /healthz", health.HandleHealthz(logger, stores.Quizzes))

	mux.Handle("GET /quiz", api.HandleQuizList(logger, stores.Quizzes))
	mux.Handle("POST /quiz", api.HandleQuizCreate(logger, stores.Quizzes))
	mux.Handle("GET /quiz/{id}", api.HandleQuizGet(logger, stores.Quizzes))
	mux.Handle("PUT /quiz/{id}", api.HandleQuizUpdate(logger, stores.Quizzes))
	mux.Handle("DELETE /quiz/{id}", api.HandleQuizDelete(logger, stores.Quizzes))

	mux.Handle("GET /question", api.HandleQuestionList(logger, stores.Questions))
	mux.Handle("POST /question", api.HandleQuestionCreate(logger, stores.Questions))
	mux.Handle("GET /question/{id}", api.HandleQuestionGet(logger, stores.Questions))
	mux.Handle("PUT /question/{id}", api.HandleQuestionUpdate(logger, stores.Questions))
	mux.Handle("DELETE /question/{id}", api.HandleQuestionDelete(logger, stores.Questions))
}
