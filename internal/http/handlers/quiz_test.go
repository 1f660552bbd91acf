package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hedex-labs/hedex-backend/internal/domain"
	"github.com/hedex-labs/hedex-backend/internal/platform/apierr"
)

type fakeQuizEngine struct {
	quiz        *domain.Quiz
	generateErr error
	feedback    string
}

func (f *fakeQuizEngine) Generate(_ context.Context, _, _ string) (*domain.Quiz, error) {
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return f.quiz, nil
}

func (f *fakeQuizEngine) Score(quiz *domain.Quiz, attempt domain.QuizAttempt) float64 {
	if quiz == nil || len(quiz.Questions) == 0 {
		return 0
	}
	correct := 0
	for i, q := range quiz.Questions {
		if attempt[i] == q.CorrectOption {
			correct++
		}
	}
	return 100 * float64(correct) / float64(len(quiz.Questions))
}

func (f *fakeQuizEngine) Feedback(_ context.Context, _ float64, _ string) string {
	return f.feedback
}

func newQuizRouter(engine *fakeQuizEngine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewQuizHandler(nopLogger(), engine)
	r.POST("/api/generate-quiz", h.Generate)
	r.POST("/api/score-quiz", h.Score)
	return r
}

func TestGenerateQuizSuccess(t *testing.T) {
	quiz := &domain.Quiz{Questions: []domain.Question{
		{Prompt: "Q1?", Options: []string{"A", "B", "C", "D"}, CorrectOption: "A"},
	}}
	r := newQuizRouter(&fakeQuizEngine{quiz: quiz})

	w := postJSON(r, "/api/generate-quiz", `{"content":"the water cycle","language":"vi"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got domain.Quiz
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Questions) != 1 || got.Questions[0].CorrectOption != "A" {
		t.Fatalf("unexpected quiz %+v", got)
	}
}

func TestGenerateQuizMissingContent(t *testing.T) {
	r := newQuizRouter(&fakeQuizEngine{})

	w := postJSON(r, "/api/generate-quiz", `{"language":"vi"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Details["content"] != "missing" {
		t.Fatalf("expected content=missing detail, got %+v", env.Details)
	}
}

func TestGenerateQuizMalformedPayloadIs500(t *testing.T) {
	engine := &fakeQuizEngine{generateErr: apierr.MalformedQuiz(errors.New("bad structure"))}
	r := newQuizRouter(engine)

	w := postJSON(r, "/api/generate-quiz", `{"content":"the water cycle"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Error.Code != apierr.CodeMalformedQuiz {
		t.Fatalf("expected malformed_quiz_data code, got %+v", env)
	}
}

func TestScoreQuiz(t *testing.T) {
	r := newQuizRouter(&fakeQuizEngine{feedback: "keep going"})

	body := `{
		"questions": [
			{"question":"Q1?","options":["A","B","C","D"],"correctAnswer":"A"},
			{"question":"Q2?","options":["A","B","C","D"],"correctAnswer":"B"}
		],
		"answers": {"0":"A","1":"C"},
		"language": "en"
	}`
	w := postJSON(r, "/api/score-quiz", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Score != 50.0 {
		t.Fatalf("1 of 2 correct should score 50.0, got %v", got.Score)
	}
	if got.Feedback != "keep going" {
		t.Fatalf("unexpected feedback %q", got.Feedback)
	}
}

func TestScoreQuizMissingQuestions(t *testing.T) {
	r := newQuizRouter(&fakeQuizEngine{})

	w := postJSON(r, "/api/score-quiz", `{"answers":{"0":"A"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
