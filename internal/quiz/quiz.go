// Package quiz contains the quiz and question domain types, the patch types used for partial
// updates, and the store interfaces implemented by the storage layer.
package quiz

import (
	"context"
	"errors"
)

const (
	// MaxTitleLength is the maximum length of a quiz title, in characters.
	MaxTitleLength = 128
	// MaxDescriptionLength is the maximum length of a quiz description, in characters.
	MaxDescriptionLength = 256
	// MaxImageURLLength is the maximum length of a quiz image URL, in characters.
	MaxImageURLLength = 512
	// MaxQuestionLength is the maximum length of a question text, in characters.
	MaxQuestionLength = 256
	// MaxAnswerLength is the maximum length of an answer text, in characters.
	MaxAnswerLength = 256
)

var (
	// ErrQuizNotFound is returned when a quiz ID does not resolve.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound is returned when a question ID does not resolve.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuizReference is returned when a question is created for a quiz that does not exist.
	ErrQuizReference = errors.New("referenced quiz does not exist")
)

// Quiz represents a quiz.
// Questions is only populated by operations that embed them.
type Quiz struct {
	ID          int64
	Title       string
	Description string
	ImageURL    string
	Questions   []*Question
}

// Question represents a question belonging to a quiz.
// QuizID may point to a quiz that has since been deleted.
type Question struct {
	ID       int64
	QuizID   int64
	Question string
	Answer   string
}

// QuizPatch is the body of a quiz create or update request.
type QuizPatch struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	ImageURL    Optional[string] `json:"image_url"`
}

type quizCreateFields struct {
	Title       *string `json:"title"       validate:"required,max=128"`
	Description *string `json:"description" validate:"required,max=256"`
	ImageURL    *string `json:"image_url"   validate:"omitempty,max=512"`
}

type quizUpdateFields struct {
	Title       *string `json:"title"       validate:"omitempty,max=128"`
	Description *string `json:"description" validate:"omitempty,max=256"`
	ImageURL    *string `json:"image_url"   validate:"omitempty,max=512"`
}

// ValidForCreate checks that title and description are present and that no field is too long.
func (p QuizPatch) ValidForCreate(_ context.Context) map[string]string {
	return validateFields(quizCreateFields{
		Title:       p.Title.Ptr(),
		Description: p.Description.Ptr(),
		ImageURL:    p.ImageURL.Ptr(),
	})
}

// ValidForUpdate checks that no present field is too long.
func (p QuizPatch) ValidForUpdate(_ context.Context) map[string]string {
	return validateFields(quizUpdateFields{
		Title:       p.Title.Ptr(),
		Description: p.Description.Ptr(),
		ImageURL:    p.ImageURL.Ptr(),
	})
}

// Apply copies the present fields onto qz.
func (p QuizPatch) Apply(qz *Quiz) {
	qz.Title = p.Title.Get(qz.Title)
	qz.Description = p.Description.Get(qz.Description)
	qz.ImageURL = p.ImageURL.Get(qz.ImageURL)
}

// QuestionPatch is the body of a question create or update request.
// QuizID is only honored on create.
type QuestionPatch struct {
	QuizID   Optional[int64]  `json:"quizId"`
	Question Optional[string] `json:"question"`
	Answer   Optional[string] `json:"answer"`
}

type questionCreateFields struct {
	QuizID   *int64  `json:"quizId"   validate:"required"`
	Question *string `json:"question" validate:"required,max=256"`
	Answer   *string `json:"answer"   validate:"required,max=256"`
}

type questionUpdateFields struct {
	Question *string `json:"question" validate:"omitempty,max=256"`
	Answer   *string `json:"answer"   validate:"omitempty,max=256"`
}

// ValidForCreate checks that quizId, question and answer are present and not too long.
func (p QuestionPatch) ValidForCreate(_ context.Context) map[string]string {
	return validateFields(questionCreateFields{
		QuizID:   p.QuizID.Ptr(),
		Question: p.Question.Ptr(),
		Answer:   p.Answer.Ptr(),
	})
}

// ValidForUpdate checks that no present field is too long.
func (p QuestionPatch) ValidForUpdate(_ context.Context) map[string]string {
	return validateFields(questionUpdateFields{
		Question: p.Question.Ptr(),
		Answer:   p.Answer.Ptr(),
	})
}

// Apply copies the present question and answer onto qs. QuizID is never changed.
func (p QuestionPatch) Apply(qs *Question) {
	qs.Question = p.Question.Get(qs.Question)
	qs.Answer = p.Answer.Get(qs.Answer)
}

// QuizStore stores quizzes.
type QuizStore interface {
	// Ping checks that the underlying storage is reachable.
	Ping(ctx context.Context) error
	// ListQuizzes returns all quizzes without their questions.
	ListQuizzes(ctx context.Context) ([]*Quiz, error)
	// CreateQuiz creates qz and sets its ID.
	CreateQuiz(ctx context.Context, qz *Quiz) error
	// GetQuiz returns a quiz with its questions.
	GetQuiz(ctx context.Context, id int64) (*Quiz, error)
	// UpdateQuiz applies the present fields of patch and returns the quiz with its questions.
	UpdateQuiz(ctx context.Context, id int64, patch QuizPatch) (*Quiz, error)
	// DeleteQuiz deletes a quiz.
	DeleteQuiz(ctx context.Context, id int64) error
}

// QuestionStore stores questions.
type QuestionStore interface {
	ListQuestions(ctx context.Context) ([]*Question, error)
	// CreateQuestion creates qs and sets its ID. Returns ErrQuizReference if qs.QuizID does not resolve.
	CreateQuestion(ctx context.Context, qs *Question) error
	GetQuestion(ctx context.Context, id int64) (*Question, error)
	UpdateQuestion(ctx context.Context, id int64, patch QuestionPatch) (*Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
}
