package api

import (
	"log/slog"
	"net/http"

	"github.com/starquake/quizbase/internal/httputil"
	"github.com/starquake/quizbase/internal/quiz"
)

const validationFailedMessage = "Validation failed"

func writeValidationError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, problems map[string]string) {
	logger.InfoContext(r.Context(), "invalid request", slog.Any("err", quiz.NewValidationError(problems)))
	httputil.WriteMessage(w, r, logger, http.StatusBadRequest, httputil.Message{
		Message: validationFailedMessage,
		Errors:  problems,
	})
}
