package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/starquake/quizbase/internal/httputil"
	"github.com/starquake/quizbase/internal/quiz"
)

func questionNotFound(w http.ResponseWriter, r *http.Request, logger *slog.Logger, id int64) {
	httputil.WriteMessage(w, r, logger, http.StatusNotFound, httputil.Message{
		Message: fmt.Sprintf("Question with ID %d does not exist", id),
	})
}

func decodeQuestionPatch(
	w http.ResponseWriter,
	r *http.Request,
	logger *slog.Logger,
	create bool,
) (quiz.QuestionPatch, bool) {
	patch, err := httputil.DecodeJSON[quiz.QuestionPatch](w, r)
	if err != nil {
		logger.InfoContext(r.Context(), "error decoding question patch", slog.Any("err", err))
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

// HandleQuestionList returns all questions, including orphaned ones.
func HandleQuestionList(logger *slog.Logger, questionStore quiz.QuestionStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		questions, err := questionStore.ListQuestions(r.Context())
		if err != nil {
			httputil.WriteInternalError(w, r, logger, "error retrieving questions from store", err)

			return
		}

		if err = httputil.EncodeJSON(w, http.StatusOK, newQuestionsResponse(questions)); err != nil {
			logger.ErrorContext(r.Context(), "error encoding questions", slog.Any("err", err))
		}
	})
}

// HandleQuestionCreate creates a question from {quizId, question, answer}.
// An unknown quizId is answered with a 200 message and nothing is created.
func HandleQuestionCreate(logger *slog.Logger, questionStore quiz.QuestionStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		patch, ok := decodeQuestionPatch(w, r, logger, true)
		if !ok {
			return
		}

		qs := &quiz.Question{QuizID: patch.QuizID.Value}
		patch.Apply(qs)

		if err := questionStore.CreateQuestion(r.Context(), qs); err != nil {
			if errors.Is(err, quiz.ErrQuizReference) {
				logger.InfoContext(r.Context(), "question references unknown quiz", slog.Int64("quiz_id", qs.QuizID))
				httputil.WriteMessage(w, r, logger, http.StatusOK, httputil.Message{
					Message: fmt.Sprintf("Unable to create question, quiz ID %d does not exist", qs.QuizID),
				})

				return
			}
			httputil.WriteInternalError(w, r, logger, "error creating question", err)

			return
		}

		if err := httputil.EncodeJSON(w, http.StatusOK, newQuestionResponse(qs)); err != nil {
			logger.ErrorContext(r.Context(), "error encoding question", slog.Any("err", err))
		}
	})
}

// HandleQuestionGet returns a question.
func HandleQuestionGet(logger *slog.Logger, questionStore quiz.QuestionStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httputil.ParseIDFromPath(w, r, logger, "id")
		if !ok {
			return
		}

		qs, err := questionStore.GetQuestion(r.Context(), id)
		if err != nil {
			if errors.Is(err, quiz.ErrQuestionNotFound) {
				questionNotFound(w, r, logger, id)

				return
			}
			httputil.WriteInternalError(w, r, logger, "error retrieving question", err)

			return
		}

		if err = httputil.EncodeJSON(w, http.StatusOK, newQuestionResponse(qs)); err != nil {
			logger.ErrorContext(r.Context(), "error encoding question", slog.Any("err", err))
		}
	})
}

// HandleQuestionUpdate changes the question and answer present in the body.
// A quizId in the body is ignored.
func HandleQuestionUpdate(logger *slog.Logger, questionStore quiz.QuestionStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httputil.ParseIDFromPath(w, r, logger, "id")
		if !ok {
			return
		}

		patch, ok := decodeQuestionPatch(w, r, logger, false)
		if !ok {
			return
		}

		qs, err := questionStore.UpdateQuestion(r.Context(), id, patch)
		if err != nil {
			if errors.Is(err, quiz.ErrQuestionNotFound) {
				questionNotFound(w, r, logger, id)

				return
			}
			httputil.WriteInternalError(w, r, logger, "error updating question", err)

			return
		}

		if err = httputil.EncodeJSON(w, http.StatusOK, newQuestionResponse(qs)); err != nil {
			logger.ErrorContext(r.Context(), "error encoding question", slog.Any("err", err))
		}
	})
}

// HandleQuestionDelete deletes a question.
func HandleQuestionDelete(logger *slog.Logger, questionStore quiz.QuestionStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httputil.ParseIDFromPath(w, r, logger, "id")
		if !ok {
			return
		}

		if err := questionStore.DeleteQuestion(r.Context(), id); err != nil {
			if errors.Is(err, quiz.ErrQuestionNotFound) {
				questionNotFound(w, r, logger, id)

				return
			}
			httputil.WriteInternalError(w, r, logger, "error deleting question", err)

			return
		}

		logger.InfoContext(r.Context(), "question deleted", slog.Int64("question_id", id))
		httputil.WriteMessage(w, r, logger, http.StatusOK, httputil.Message{
			Message: fmt.Sprintf("Question with ID %d has been deleted", id),
		})
	})
}
