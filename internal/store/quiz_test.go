package store_test

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starquake/quizbase/internal/dbtest"
	"github.com/starquake/quizbase/internal/quiz"
	. "github.com/starquake/quizbase/internal/store"
)

func newTestStores(t *testing.T, opts Options) (*Stores, *sql.DB) {
	t.Helper()

	conn := dbtest.Open(t)

	return New(conn, slog.New(slog.DiscardHandler), opts), conn
}

func mustCreateQuiz(t *testing.T, s *QuizStore, title string) *quiz.Quiz {
	t.Helper()

	qz := &quiz.Quiz{Title: title, Description: title + " Description", ImageURL: "http://x/" + title + ".png"}
	if err := s.CreateQuiz(t.Context(), qz); err != nil {
		t.Fatalf("failed to create quiz: %v", err)
	}

	return qz
}

func mustCreateQuestion(t *testing.T, s *QuestionStore, quizID int64, text string) *quiz.Question {
	t.Helper()

	qs := &quiz.Question{QuizID: quizID, Question: text, Answer: text + " answer"}
	if err := s.CreateQuestion(t.Context(), qs); err != nil {
		t.Fatalf("failed to create question: %v", err)
	}

	return qs
}

func TestQuizStore_Ping(t *testing.T) {
	t.Parallel()

	t.Run("ping success", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{})

		if err := stores.Quizzes.Ping(t.Context()); err != nil {
			t.Errorf("unexpected error pinging database: %v", err)
		}
	})

	t.Run("ping failure", func(t *testing.T) {
		t.Parallel()

		stores, conn := newTestStores(t, Options{})

		// Close the database to trigger a ping error
		if err := conn.Close(); err != nil {
			t.Fatalf("failed to close database: %v", err)
		}

		err := stores.Quizzes.Ping(t.Context())
		if err == nil {
			t.Fatal("expected error pinging closed database, got nil")
		}
		if got, want := err.Error(), "failed to ping database"; !strings.Contains(got, want) {
			t.Errorf("err.Error() = %q, want it to contain %q", got, want)
		}
	})
}

func TestQuizStore_ListQuizzes(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{})

		quizzes, err := stores.Quizzes.ListQuizzes(t.Context())
		if err != nil {
			t.Fatalf("failed to list quizzes: %v", err)
		}
		if quizzes == nil || len(quizzes) != 0 {
			t.Errorf("quizzes = %v, want empty non-nil slice", quizzes)
		}
	})

	t.Run("shallow", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{})
		qz1 := mustCreateQuiz(t, stores.Quizzes, "Quiz 1")
		qz2 := mustCreateQuiz(t, stores.Quizzes, "Quiz 2")
		mustCreateQuestion(t, stores.Questions, qz1.ID, "Question 1")

		quizzes, err := stores.Quizzes.ListQuizzes(t.Context())
		if err != nil {
			t.Fatalf("failed to list quizzes: %v", err)
		}

		want := []*quiz.Quiz{
			{ID: qz1.ID, Title: qz1.Title, Description: qz1.Description, ImageURL: qz1.ImageURL},
			{ID: qz2.ID, Title: qz2.Title, Description: qz2.Description, ImageURL: qz2.ImageURL},
		}
		if diff := cmp.Diff(quizzes, want); diff != "" {
			t.Errorf("quizzes diff (-got +want):\n%s", diff)
		}
	})

	t.Run("context canceled", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{})

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := stores.Quizzes.ListQuizzes(ctx)
		if err == nil {
			t.Fatal("got nil, want error")
		}
		if got, want := err.Error(), "context canceled"; !strings.Contains(got, want) {
			t.Errorf("err.Error() = %q, should contain %q", got, want)
		}
	})
}

func TestQuizStore_CreateQuiz(t *testing.T) {
	t.Parallel()

	stores, _ := newTestStores(t, Options{})

	qz := mustCreateQuiz(t, stores.Quizzes, "Math")
	if qz.ID == 0 {
		t.Fatal("qz.ID = 0, want generated ID")
	}
	if qz.Questions == nil || len(qz.Questions) != 0 {
		t.Errorf("qz.Questions = %v, want empty non-nil slice", qz.Questions)
	}

	got, err := stores.Quizzes.GetQuiz(t.Context(), qz.ID)
	if err != nil {
		t.Fatalf("failed to get quiz: %v", err)
	}
	if diff := cmp.Diff(got, qz); diff != "" {
		t.Errorf("quiz diff (-got +want):\n%s", diff)
	}
}

func TestQuizStore_GetQuiz(t *testing.T) {
	t.Parallel()

	t.Run("with questions", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{})
		qz := mustCreateQuiz(t, stores.Quizzes, "Quiz 1")
		other := mustCreateQuiz(t, stores.Quizzes, "Quiz 2")
		qs1 := mustCreateQuestion(t, stores.Questions, qz.ID, "Question 1")
		mustCreateQuestion(t, stores.Questions, other.ID, "Question 2")
		qs3 := mustCreateQuestion(t, stores.Questions, qz.ID, "Question 3")

		got, err := stores.Quizzes.GetQuiz(t.Context(), qz.ID)
		if err != nil {
			t.Fatalf("failed to get quiz: %v", err)
		}

		want := &quiz.Quiz{
			ID:          qz.ID,
			Title:       qz.Title,
			Description: qz.Description,
			ImageURL:    qz.ImageURL,
			Questions:   []*quiz.Question{qs1, qs3},
		}
		if diff := cmp.Diff(got, want); diff != "" {
			t.Errorf("quiz diff (-got +want):\n%s", diff)
		}
	})

	t.Run("invalid quiz ID", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{})

		qz, err := stores.Quizzes.GetQuiz(t.Context(), 999)
		if got, want := err, quiz.ErrQuizNotFound; !errors.Is(got, want) {
			t.Errorf("err = %v, want %v", got, want)
		}
		if qz != nil {
			t.Errorf("quiz is not nil: %v", qz)
		}
	})

	t.Run("list questions error", func(t *testing.T) {
		t.Parallel()

		stores, conn := newTestStores(t, Options{})
		qz := mustCreateQuiz(t, stores.Quizzes, "Quiz 1")

		if _, err := conn.ExecContext(t.Context(), `ALTER TABLE question RENAME TO question_backup;`); err != nil {
			t.Fatalf("failed to rename table question: %v", err)
		}

		_, err := stores.Quizzes.GetQuiz(t.Context(), qz.ID)
		if err == nil {
			t.Fatal("got nil, want error")
		}
		if got, want := err.Error(), "failed to list questions"; !strings.Contains(got, want) {
			t.Errorf("err.Error() = %q, should contain %q", got, want)
		}
	})
}

func TestQuizStore_UpdateQuiz(t *testing.T) {
	t.Parallel()

	t.Run("partial update", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{})
		qz := mustCreateQuiz(t, stores.Quizzes, "Math")
		qs := mustCreateQuestion(t, stores.Questions, qz.ID, "2+2?")

		got, err := stores.Quizzes.UpdateQuiz(t.Context(), qz.ID, quiz.QuizPatch{Description: quiz.Some("new")})
		if err != nil {
			t.Fatalf("failed to update quiz: %v", err)
		}

		want := &quiz.Quiz{
			ID:          qz.ID,
			Title:       qz.Title,
			Description: "new",
			ImageURL:    qz.ImageURL,
			Questions:   []*quiz.Question{qs},
		}
		if diff := cmp.Diff(got, want); diff != "" {
			t.Errorf("updated quiz diff (-got +want):\n%s", diff)
		}

		reloaded, err := stores.Quizzes.GetQuiz(t.Context(), qz.ID)
		if err != nil {
			t.Fatalf("failed to get quiz: %v", err)
		}
		if diff := cmp.Diff(reloaded, want); diff != "" {
			t.Errorf("reloaded quiz diff (-got +want):\n%s", diff)
		}
	})

	t.Run("all fields", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{})
		qz := mustCreateQuiz(t, stores.Quizzes, "Math")

		got, err := stores.Quizzes.UpdateQuiz(t.Context(), qz.ID, quiz.QuizPatch{
			Title:       quiz.Some("Algebra"),
			Description: quiz.Some("Letters"),
			ImageURL:    quiz.Some(""),
		})
		if err != nil {
			t.Fatalf("failed to update quiz: %v", err)
		}

		want := &quiz.Quiz{ID: qz.ID, Title: "Algebra", Description: "Letters", Questions: []*quiz.Question{}}
		if diff := cmp.Diff(got, want); diff != "" {
			t.Errorf("updated quiz diff (-got +want):\n%s", diff)
		}
	})

	t.Run("invalid quiz ID", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{})

		_, err := stores.Quizzes.UpdateQuiz(t.Context(), 999, quiz.QuizPatch{Title: quiz.Some("x")})
		if got, want := err, quiz.ErrQuizNotFound; !errors.Is(got, want) {
			t.Errorf("err = %v, want %v", got, want)
		}
	})
}

func TestQuizStore_DeleteQuiz(t *testing.T) {
	t.Parallel()

	t.Run("orphans questions", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{})
		qz := mustCreateQuiz(t, stores.Quizzes, "Math")
		qs := mustCreateQuestion(t, stores.Questions, qz.ID, "2+2?")

		if err := stores.Quizzes.DeleteQuiz(t.Context(), qz.ID); err != nil {
			t.Fatalf("failed to delete quiz: %v", err)
		}

		if _, err := stores.Quizzes.GetQuiz(t.Context(), qz.ID); !errors.Is(err, quiz.ErrQuizNotFound) {
			t.Errorf("err = %v, want %v", err, quiz.ErrQuizNotFound)
		}

		orphan, err := stores.Questions.GetQuestion(t.Context(), qs.ID)
		if err != nil {
			t.Fatalf("orphaned question should remain: %v", err)
		}
		if diff := cmp.Diff(orphan, qs); diff != "" {
			t.Errorf("orphan diff (-got +want):\n%s", diff)
		}
	})

	t.Run("cascade", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{CascadeQuizDelete: true})
		qz := mustCreateQuiz(t, stores.Quizzes, "Math")
		other := mustCreateQuiz(t, stores.Quizzes, "History")
		qs := mustCreateQuestion(t, stores.Questions, qz.ID, "2+2?")
		kept := mustCreateQuestion(t, stores.Questions, other.ID, "1066?")

		if err := stores.Quizzes.DeleteQuiz(t.Context(), qz.ID); err != nil {
			t.Fatalf("failed to delete quiz: %v", err)
		}

		if _, err := stores.Questions.GetQuestion(t.Context(), qs.ID); !errors.Is(err, quiz.ErrQuestionNotFound) {
			t.Errorf("err = %v, want %v", err, quiz.ErrQuestionNotFound)
		}

		questions, err := stores.Questions.ListQuestions(t.Context())
		if err != nil {
			t.Fatalf("failed to list questions: %v", err)
		}
		if diff := cmp.Diff(questions, []*quiz.Question{kept}); diff != "" {
			t.Errorf("questions diff (-got +want):\n%s", diff)
		}
	})

	t.Run("invalid quiz ID", func(t *testing.T) {
		t.Parallel()

		for _, cascade := range []bool{false, true} {
			stores, _ := newTestStores(t, Options{CascadeQuizDelete: cascade})

			err := stores.Quizzes.DeleteQuiz(t.Context(), 999)
			if got, want := err, quiz.ErrQuizNotFound; !errors.Is(got, want) {
				t.Errorf("cascade=%v: err = %v, want %v", cascade, got, want)
			}
		}
	})

	t.Run("ids are not reused", func(t *testing.T) {
		t.Parallel()

		stores, _ := newTestStores(t, Options{})
		mustCreateQuiz(t, stores.Quizzes, "Quiz 1")
		last := mustCreateQuiz(t, stores.Quizzes, "Quiz 2")

		if err := stores.Quizzes.DeleteQuiz(t.Context(), last.ID); err != nil {
			t.Fatalf("failed to delete quiz: %v", err)
		}

		next := mustCreateQuiz(t, stores.Quizzes, "Quiz 3")
		if next.ID <= last.ID {
			t.Errorf("next.ID = %d, want greater than deleted ID %d", next.ID, last.ID)
		}
	})
}
