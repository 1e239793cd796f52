package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/starquake/quizbase/internal/db"
	"github.com/starquake/quizbase/internal/quiz"
)

// QuestionStore manages questions in SQLite.
type QuestionStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewQuestionStore initializes a new QuestionStore with the provided database connection and returns it.
func NewQuestionStore(conn *sql.DB, logger *slog.Logger) *QuestionStore {
	return &QuestionStore{db: conn, logger: logger}
}

// ListQuestions returns all questions ordered by ID, including orphaned ones.
func (s *QuestionStore) ListQuestions(ctx context.Context) ([]*quiz.Question, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, quiz_id, question, answer FROM question ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer closeRows(ctx, s.logger, rows, "question rows")

	return scanQuestions(rows)
}

// CreateQuestion inserts qs and sets its ID. The quiz existence check and the insert are a single
// statement, so a quiz deleted concurrently cannot end up with a new question.
// Returns quiz.ErrQuizReference if qs.QuizID does not resolve.
func (s *QuestionStore) CreateQuestion(ctx context.Context, qs *quiz.Question) error {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO question (quiz_id, question, answer)
		 SELECT ?, ?, ? WHERE EXISTS (SELECT 1 FROM quiz WHERE id = ?)`,
		qs.QuizID, qs.Question, qs.Answer, qs.QuizID,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	n, err := db.RowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: quiz %d", quiz.ErrQuizReference, qs.QuizID)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	qs.ID = id

	s.logger.DebugContext(ctx, "question created", slog.Int64("question_id", id), slog.Int64("quiz_id", qs.QuizID))

	return nil
}

// GetQuestion returns a question by its ID.
// Returns quiz.ErrQuestionNotFound if the question does not exist.
func (s *QuestionStore) GetQuestion(ctx context.Context, id int64) (*quiz.Question, error) {
	return getQuestion(ctx, s.db, id)
}

// UpdateQuestion applies the present question and answer of patch in a single transaction.
// Returns quiz.ErrQuestionNotFound if the question does not exist.
func (s *QuestionStore) UpdateQuestion(
	ctx context.Context,
	id int64,
	patch quiz.QuestionPatch,
) (*quiz.Question, error) {
	var qs *quiz.Question
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if qs, err = getQuestion(ctx, tx, id); err != nil {
			return err
		}

		patch.Apply(qs)

		_, err = tx.ExecContext(
			ctx,
			`UPDATE question SET question = ?, answer = ? WHERE id = ?`,
			qs.Question, qs.Answer, qs.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update question %d: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return qs, nil
}

// DeleteQuestion deletes a question.
// Returns quiz.ErrQuestionNotFound if the question does not exist.
func (s *QuestionStore) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM question WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete question %d: %w", id, err)
	}

	n, err := db.RowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: question %d", quiz.ErrQuestionNotFound, id)
	}

	return nil
}

func getQuestion(ctx context.Context, q db.Querier, id int64) (*quiz.Question, error) {
	qs := &quiz.Question{}
	err := q.QueryRowContext(
		ctx,
		`SELECT id, quiz_id, question, answer FROM question WHERE id = ?`,
		id,
	).Scan(&qs.ID, &qs.QuizID, &qs.Question, &qs.Answer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: question %d", quiz.ErrQuestionNotFound, id)
		}

		return nil, fmt.Errorf("failed to get question %d: %w", id, err)
	}

	return qs, nil
}

// listQuestionsByQuizID returns the questions of a quiz ordered by ID.
func listQuestionsByQuizID(
	ctx context.Context,
	q db.Querier,
	logger *slog.Logger,
	quizID int64,
) ([]*quiz.Question, error) {
	rows, err := q.QueryContext(
		ctx,
		`SELECT id, quiz_id, question, answer FROM question WHERE quiz_id = ? ORDER BY id`,
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer closeRows(ctx, logger, rows, "question rows")

	return scanQuestions(rows)
}

func scanQuestions(rows *sql.Rows) ([]*quiz.Question, error) {
	questions := make([]*quiz.Question, 0)
	for rows.Next() {
		qs := &quiz.Question{}
		if err := rows.Scan(&qs.ID, &qs.QuizID, &qs.Question, &qs.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, qs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate question rows: %w", err)
	}

	return questions, nil
}
