package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hedex-labs/hedex-backend/internal/http/response"
	"github.com/hedex-labs/hedex-backend/internal/platform/apierr"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
	"github.com/hedex-labs/hedex-backend/internal/services"
)

type FeedbackHandler struct {
	log  *logger.Logger
	quiz services.QuizEngine
}

func NewFeedbackHandler(log *logger.Logger, quiz services.QuizEngine) *FeedbackHandler {
	return &FeedbackHandler{
		log:  log.With("handler", "Feedback"),
		quiz: quiz,
	}
}

// Generate handles POST /api/generate-feedback.
func (h *FeedbackHandler) Generate(c *gin.Context) {
	var body struct {
		Score    *float64 `json:"score"`
		Language string   `json:"language"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apierr.Validation(map[string]string{"body": "invalid JSON"}))
		return
	}

	details := map[string]string{}
	if body.Score == nil {
		details["score"] = "missing"
	}
	if strings.TrimSpace(body.Language) == "" {
		details["language"] = "missing"
	}
	if len(details) > 0 {
		response.Error(c, apierr.Validation(details))
		return
	}

	feedback := h.quiz.Feedback(c.Request.Context(), *body.Score, body.Language)
	response.OK(c, gin.H{"feedback": feedback})
}
