package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hedex-labs/hedex-backend/internal/domain"
	"github.com/hedex-labs/hedex-backend/internal/http/response"
	"github.com/hedex-labs/hedex-backend/internal/platform/apierr"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
	"github.com/hedex-labs/hedex-backend/internal/services"
)

type QuizHandler struct {
	log  *logger.Logger
	quiz services.QuizEngine
}

func NewQuizHandler(log *logger.Logger, quiz services.QuizEngine) *QuizHandler {
	return &QuizHandler{
		log:  log.With("handler", "Quiz"),
		quiz: quiz,
	}
}

// Generate handles POST /api/generate-quiz.
func (h *QuizHandler) Generate(c *gin.Context) {
	var body struct {
		Content  string `json:"content"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apierr.Validation(map[string]string{"body": "invalid JSON"}))
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		response.Error(c, apierr.Validation(map[string]string{"content": "missing"}))
		return
	}

	quiz, err := h.quiz.Generate(c.Request.Context(), body.Content, body.Language)
	if err != nil {
		h.log.Error("quiz generation failed", "error", err.Error())
		response.Error(c, err)
		return
	}
	response.OK(c, quiz)
}

// Score handles POST /api/score-quiz: grades an attempt and returns the
// percentage together with band feedback.
func (h *QuizHandler) Score(c *gin.Context) {
	var body struct {
		Questions []domain.Question  `json:"questions"`
		Answers   domain.QuizAttempt `json:"answers"`
		Language  string             `json:"language"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apierr.Validation(map[string]string{"body": "invalid JSON"}))
		return
	}
	if len(body.Questions) == 0 {
		response.Error(c, apierr.Validation(map[string]string{"questions": "missing"}))
		return
	}

	quiz := &domain.Quiz{Questions: body.Questions}
	score := h.quiz.Score(quiz, body.Answers)
	feedback := h.quiz.Feedback(c.Request.Context(), score, body.Language)

	response.OK(c, gin.H{"score": score, "feedback": feedback})
}
