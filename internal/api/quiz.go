package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starquake/quizbase/internal/httputil"
	"github.com/starquake/quizbase/internal/quiz"
)

func quizNotFound(w http.ResponseWriter, r *http.Request, logger *slog.Logger, id int64) {
	httputil.WriteMessage(w, r, logger, http.StatusNotFound, httputil.Message{
		Message: fmt.Sprintf("Quiz with ID %d does not exist", id),
	})
}

// decodeQuizPatch decodes and validates a quiz body. It writes a 400 response and returns false on failure.
func decodeQuizPatch(
	w http.ResponseWriter,
	r *http.Request,
	logger *slog.Logger,
	create bool,
) (quiz.QuizPatch, bool) {
	patch, err := httputil.DecodeJSON[quiz.QuizPatch](w, r)
	if err != nil {
		logger.InfoContext(r.Context(), "error decoding quiz patch", slog.Any("err", err))
		writeValidationError(w, r, logger, map[string]string{"body": "must be a JSON object"})

		return patch, false
	}

	var problems map[string]string
	if create {
		problems = patch.ValidForCreate(r.Context())
	} else {
		problems = patch.ValidForUpdate(r.Context())
	}
	if len(problems) > 0 {
		writeValidationError(w, r, logger, problems)

		return patch, false
	}

	return patch, true
}

// HandleQuizList returns all quizzes without their questions.
func HandleQuizList(logger *slog.Logger, quizStore quiz.QuizStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		quizzes, err := quizStore.ListQuizzes(r.Context())
		if err != nil {
			httputil.WriteInternalError(w, r, logger, "error retrieving quizzes from store", err)

			return
		}

		res := make([]quizResponse, 0, len(quizzes))
		for _, qz := range quizzes {
			res = append(res, newQuizResponse(qz))
		}

		if err = httputil.EncodeJSON(w, http.StatusOK, res); err != nil {
			logger.ErrorContext(r.Context(), "error encoding quizzes", slog.Any("err", err))
		}
	})
}

// HandleQuizCreate creates a quiz from {title, description, image_url}.
// Returns 400 if title or description is missing or a field is too long.
func HandleQuizCreate(logger *slog.Logger, quizStore quiz.QuizStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		patch, ok := decodeQuizPatch(w, r, logger, true)
		if !ok {
			return
		}

		qz := &quiz.Quiz{}
		patch.Apply(qz)

		if err := quizStore.CreateQuiz(r.Context(), qz); err != nil {
			httputil.WriteInternalError(w, r, logger, "error creating quiz", err)

			return
		}

		if err := httputil.EncodeJSON(w, http.StatusOK, newQuizWithQuestionsResponse(qz)); err != nil {
			logger.ErrorContext(r.Context(), "error encoding quiz", slog.Any("err", err))
		}
	})
}

// HandleQuizGet returns a quiz with its questions.
// Returns 404 if the quiz does not exist.
func HandleQuizGet(logger *slog.Logger, quizStore quiz.QuizStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httputil.ParseIDFromPath(w, r, logger, "id")
		if !ok {
			return
		}

		qz, err := quizStore.GetQuiz(r.Context(), id)
		if err != nil {
			if errors.Is(err, quiz.ErrQuizNotFound) {
				quizNotFound(w, r, logger, id)

				return
			}
			httputil.WriteInternalError(w, r, logger, "error retrieving quiz", err)

			return
		}

		if err = httputil.EncodeJSON(w, http.StatusOK, newQuizWithQuestionsResponse(qz)); err != nil {
			logger.ErrorContext(r.Context(), "error encoding quiz", slog.Any("err", err))
		}
	})
}

// HandleQuizUpdate changes the fields present in the body and returns the quiz with its questions.
// Returns 404 if the quiz does not exist.
func HandleQuizUpdate(logger *slog.Logger, quizStore quiz.QuizStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httputil.ParseIDFromPath(w, r, logger, "id")
		if !ok {
			return
		}

		patch, ok := decodeQuizPatch(w, r, logger, false)
		if !ok {
			return
		}

		qz, err := quizStore.UpdateQuiz(r.Context(), id, patch)
		if err != nil {
			if errors.Is(err, quiz.ErrQuizNotFound) {
				quizNotFound(w, r, logger, id)

				return
			}
			httputil.WriteInternalError(w, r, logger, "error updating quiz", err)

			return
		}

		if err = httputil.EncodeJSON(w, http.StatusOK, newQuizWithQuestionsResponse(qz)); err != nil {
			logger.ErrorContext(r.Context(), "error encoding quiz", slog.Any("err", err))
		}
	})
}

// HandleQuizDelete deletes a quiz. Its questions are not touched unless the store cascades.
// Returns 404 if the quiz does not exist.
func HandleQuizDelete(logger *slog.Logger, quizStore quiz.QuizStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httputil.ParseIDFromPath(w, r, logger, "id")
		if !ok {
			return
		}

		if err := quizStore.DeleteQuiz(r.Context(), id); err != nil {
			if errors.Is(err, quiz.ErrQuizNotFound) {
				quizNotFound(w, r, logger, id)

				return
			}
			httputil.WriteInternalError(w, r, logger, "error deleting quiz", err)

			return
		}

		logger.InfoContext(r.Context(), "quiz deleted", slog.Int64("quiz_id", id))
		httputil.WriteMessage(w, r, logger, http.StatusOK, httputil.Message{
			Message: fmt.Sprintf("Quiz with ID %d has been deleted", id),
		})
	})
}
