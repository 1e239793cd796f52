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

// QuizStore manages quizzes in SQLite.
type QuizStore struct {
	db            *sql.DB
	logger        *slog.Logger
	cascadeDelete bool
}

// NewQuizStore initializes a new QuizStore with the provided database connection and returns it.
func NewQuizStore(conn *sql.DB, logger *slog.Logger, opts Options) *QuizStore {
	return &QuizStore{db: conn, logger: logger, cascadeDelete: opts.CascadeQuizDelete}
}

// Ping checks the connection to the database, ensuring it's reachable and responsive.
func (s *QuizStore) Ping(ctx context.Context) error {
	err := s.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// ListQuizzes returns all quizzes ordered by ID, without their questions.
func (s *QuizStore) ListQuizzes(ctx context.Context) ([]*quiz.Quiz, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, image_url FROM quiz ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer closeRows(ctx, s.logger, rows, "quiz rows")

	quizzes := make([]*quiz.Quiz, 0)
	for rows.Next() {
		qz := &quiz.Quiz{}
		if err = rows.Scan(&qz.ID, &qz.Title, &qz.Description, &qz.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan quiz row: %w", err)
		}
		quizzes = append(quizzes, qz)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quiz rows: %w", err)
	}

	return quizzes, nil
}

// CreateQuiz inserts qz and sets its ID. A new quiz never has questions, so Questions is set to an empty slice.
func (s *QuizStore) CreateQuiz(ctx context.Context, qz *quiz.Quiz) error {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO quiz (title, description, image_url) VALUES (?, ?, ?)`,
		qz.Title, qz.Description, qz.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	qz.ID = id
	qz.Questions = make([]*quiz.Question, 0)

	s.logger.DebugContext(ctx, "quiz created", slog.Int64("quiz_id", id))

	return nil
}

// GetQuiz returns a quiz with its questions.
// Returns quiz.ErrQuizNotFound if the quiz does not exist.
func (s *QuizStore) GetQuiz(ctx context.Context, id int64) (*quiz.Quiz, error) {
	qz, err := getQuiz(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	if qz.Questions, err = listQuestionsByQuizID(ctx, s.db, s.logger, id); err != nil {
		return nil, fmt.Errorf("failed to list questions for quiz %d: %w", id, err)
	}

	return qz, nil
}

// UpdateQuiz applies the present fields of patch in a single transaction and returns the quiz with its questions.
// Returns quiz.ErrQuizNotFound if the quiz does not exist.
func (s *QuizStore) UpdateQuiz(ctx context.Context, id int64, patch quiz.QuizPatch) (*quiz.Quiz, error) {
	var qz *quiz.Quiz
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if qz, err = getQuiz(ctx, tx, id); err != nil {
			return err
		}

		patch.Apply(qz)

		_, err = tx.ExecContext(
			ctx,
			`UPDATE quiz SET title = ?, description = ?, image_url = ? WHERE id = ?`,
			qz.Title, qz.Description, qz.ImageURL, qz.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update quiz %d: %w", id, err)
		}

		if qz.Questions, err = listQuestionsByQuizID(ctx, tx, s.logger, id); err != nil {
			return fmt.Errorf("failed to list questions for quiz %d: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return qz, nil
}

// DeleteQuiz deletes a quiz. Its questions are left in place unless the store was created with
// Options.CascadeQuizDelete, in which case they are deleted in the same transaction.
// Returns quiz.ErrQuizNotFound if the quiz does not exist.
func (s *QuizStore) DeleteQuiz(ctx context.Context, id int64) error {
	if !s.cascadeDelete {
		return deleteQuiz(ctx, s.db, id)
	}

	return db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := deleteQuiz(ctx, tx, id); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM question WHERE quiz_id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete questions of quiz %d: %w", id, err)
		}
		n, err := db.RowsAffected(res)
		if err != nil {
			return err
		}
		s.logger.DebugContext(ctx, "cascaded quiz delete", slog.Int64("quiz_id", id), slog.Int64("questions", n))

		return nil
	})
}

func getQuiz(ctx context.Context, q db.Querier, id int64) (*quiz.Quiz, error) {
	qz := &quiz.Quiz{}
	err := q.QueryRowContext(
		ctx,
		`SELECT id, title, description, image_url FROM quiz WHERE id = ?`,
		id,
	).Scan(&qz.ID, &qz.Title, &qz.Description, &qz.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: quiz %d", quiz.ErrQuizNotFound, id)
		}

		return nil, fmt.Errorf("failed to get quiz %d: %w", id, err)
	}

	return qz, nil
}

func deleteQuiz(ctx context.Context, q db.Querier, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM quiz WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz %d: %w", id, err)
	}

	n, err := db.RowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: quiz %d", quiz.ErrQuizNotFound, id)
	}

	return nil
}
