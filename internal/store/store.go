// Package store provides the SQLite implementations of the quiz and question stores.
package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/starquake/quizbase/internal/quiz"
)

// Options configures the stores.
type Options struct {
	// CascadeQuizDelete removes a quiz's questions together with the quiz.
	// When false, deleting a quiz leaves its questions orphaned.
	CascadeQuizDelete bool
}

// Stores is a collection of stores for the application.
type Stores struct {
	Quizzes   *QuizStore
	Questions *QuestionStore
}

// New initializes a new Stores instance sharing the provided database connection pool.
func New(conn *sql.DB, logger *slog.Logger, opts Options) *Stores {
	return &Stores{
		Quizzes:   NewQuizStore(conn, logger, opts),
		Questions: NewQuestionStore(conn, logger),
	}
}

// closeRows closes rows and logs a failure.
func closeRows(ctx context.Context, logger *slog.Logger, rows *sql.Rows, name string) {
	if err := rows.Close(); err != nil {
		logger.ErrorContext(ctx, "error closing "+name, slog.Any("err", err))
	}
}

var (
	_ quiz.QuizStore     = (*QuizStore)(nil)
	_ quiz.QuestionStore = (*QuestionStore)(nil)
)
