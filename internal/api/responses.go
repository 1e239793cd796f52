// Package api provides the HTTP handlers of the quiz and question resources.
package api

import (
	"github.com/starquake/quizbase/internal/quiz"
)

type questionResponse struct {
	ID       int64  `json:"id"`
	QuizID   int64  `json:"quizId"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type quizResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type quizWithQuestionsResponse struct {
	quizResponse

	Questions []questionResponse `json:"questions"`
}

func newQuestionResponse(qs *quiz.Question) questionResponse {
	return questionResponse{
		ID:       qs.ID,
		QuizID:   qs.QuizID,
		Question: qs.Question,
		Answer:   qs.Answer,
	}
}

func newQuestionsResponse(questions []*quiz.Question) []questionResponse {
	res := make([]questionResponse, 0, len(questions))
	for _, qs := range questions {
		res = append(res, newQuestionResponse(qs))
	}

	return res
}

func newQuizResponse(qz *quiz.Quiz) quizResponse {
	return quizResponse{
		ID:          qz.ID,
		Title:       qz.Title,
		Description: qz.Description,
		ImageURL:    qz.ImageURL,
	}
}

// newQuizWithQuestionsResponse always renders questions as an array, never null.
func newQuizWithQuestionsResponse(qz *quiz.Quiz) quizWithQuestionsResponse {
	return quizWithQuestionsResponse{
		quizResponse: newQuizResponse(qz),
		Questions:    newQuestionsResponse(qz.Questions),
	}
}
