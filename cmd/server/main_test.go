package main_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starquake/quizbase/cmd/server/app"
	"github.com/starquake/quizbase/internal/testutil"
)

type question struct {
	ID       int64  `json:"id"`
	QuizID   int64  `json:"quizId"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type quizWithQuestions struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Questions   []question `json:"questions"`
}

type message struct {
	Message string            `json:"Message"`
	Errors  map[string]string `json:"Errors"`
}

func call[T any](t *testing.T, method, url, body string, wantStatus int) T {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("error calling %s %s: %v", method, url, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			t.Errorf("failed to close response body: %v", closeErr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("error reading response body: %v", err)
	}
	if got, want := resp.StatusCode, wantStatus; got != want {
		t.Fatalf("%s %s: got status %d, want %d, body %q", method, url, got, want, raw)
	}

	var v T
	if err = json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("error decoding %q: %v", raw, err)
	}

	return v
}

func TestRun_QuizLifecycle(t *testing.T) {
	t.Parallel()

	baseURL := testutil.StartServer(t, map[string]string{"LOG_LEVEL": "debug"})

	created := call[quizWithQuestions](t, http.MethodPost, baseURL+"/quiz",
		`{"title":"Math","description":"Basic math","image_url":"http://x/y.png"}`, http.StatusOK)
	want := quizWithQuestions{
		ID:          1,
		Title:       "Math",
		Description: "Basic math",
		ImageURL:    "http://x/y.png",
		Questions:   []question{},
	}
	if diff := cmp.Diff(created, want); diff != "" {
		t.Fatalf("created quiz diff (-got +want):\n%s", diff)
	}

	qs := call[question](t, http.MethodPost, baseURL+"/question",
		`{"quizId":1,"question":"2+2?","answer":"4"}`, http.StatusOK)
	wantQuestion := question{ID: 1, QuizID: 1, Question: "2+2?", Answer: "4"}
	if diff := cmp.Diff(qs, wantQuestion); diff != "" {
		t.Fatalf("created question diff (-got +want):\n%s", diff)
	}

	got := call[quizWithQuestions](t, http.MethodGet, baseURL+"/quiz/1", "", http.StatusOK)
	want.Questions = []question{wantQuestion}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("quiz diff (-got +want):\n%s", diff)
	}

	updated := call[quizWithQuestions](t, http.MethodPut, baseURL+"/quiz/1", `{"title":"Arithmetic"}`, http.StatusOK)
	want.Title = "Arithmetic"
	if diff := cmp.Diff(updated, want); diff != "" {
		t.Errorf("updated quiz diff (-got +want):\n%s", diff)
	}

	msg := call[message](t, http.MethodPost, baseURL+"/question",
		`{"quizId":9999,"question":"q","answer":"a"}`, http.StatusOK)
	if got, want := msg.Message, "Unable to create question, quiz ID 9999 does not exist"; got != want {
		t.Errorf("got message %q, want %q", got, want)
	}
	if got, want := len(call[[]question](t, http.MethodGet, baseURL+"/question", "", http.StatusOK)), 1; got != want {
		t.Errorf("got %d questions, want %d", got, want)
	}

	msg = call[message](t, http.MethodDelete, baseURL+"/quiz/1", "", http.StatusOK)
	if got, want := msg.Message, "Quiz with ID 1 has been deleted"; got != want {
		t.Errorf("got message %q, want %q", got, want)
	}

	msg = call[message](t, http.MethodGet, baseURL+"/quiz/1", "", http.StatusNotFound)
	if got, want := msg.Message, "Quiz with ID 1 does not exist"; got != want {
		t.Errorf("got message %q, want %q", got, want)
	}

	orphan := call[question](t, http.MethodGet, baseURL+"/question/1", "", http.StatusOK)
	if diff := cmp.Diff(orphan, wantQuestion); diff != "" {
		t.Errorf("orphaned question diff (-got +want):\n%s", diff)
	}

	recreated := call[quizWithQuestions](t, http.MethodPost, baseURL+"/quiz",
		`{"title":"Math","description":"Again"}`, http.StatusOK)
	if got, want := recreated.ID, int64(2); got != want {
		t.Errorf("got quiz id %d, want %d", got, want)
	}
	if got, want := len(recreated.Questions), 0; got != want {
		t.Errorf("got %d questions on new quiz, want %d", got, want)
	}
}

func TestRun_CascadeDelete(t *testing.T) {
	t.Parallel()

	baseURL := testutil.StartServer(t, map[string]string{"QUIZ_DELETE_CASCADE": "true"})

	call[quizWithQuestions](t, http.MethodPost, baseURL+"/quiz", `{"title":"Math","description":"d"}`, http.StatusOK)
	call[question](t, http.MethodPost, baseURL+"/question", `{"quizId":1,"question":"q","answer":"a"}`,
		http.StatusOK)

	call[message](t, http.MethodDelete, baseURL+"/quiz/1", "", http.StatusOK)

	msg := call[message](t, http.MethodGet, baseURL+"/question/1", "", http.StatusNotFound)
	if got, want := msg.Message, "Question with ID 1 does not exist"; got != want {
		t.Errorf("got message %q, want %q", got, want)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Parallel()

	getenv := func(key string) string {
		return map[string]string{"LOG_LEVEL": "loud"}[key]
	}

	err := app.Run(t.Context(), getenv, io.Discard, nil)
	if err == nil {
		t.Fatal("expected error running with invalid config")
	}
	if got, want := err.Error(), "error parsing config"; !strings.HasPrefix(got, want) {
		t.Errorf("got error %q, want prefix %q", got, want)
	}
}

func TestRun_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	getenv := func(key string) string {
		return map[string]string{"DB_DRIVER": "postgres", "PORT": "0"}[key]
	}

	err := app.Run(t.Context(), getenv, io.Discard, nil)
	if err == nil {
		t.Fatal("expected error running with an unsupported driver")
	}
	if got, want := err.Error(), "error opening database connection"; !strings.HasPrefix(got, want) {
		t.Errorf("got error %q, want prefix %q", got, want)
	}
}
