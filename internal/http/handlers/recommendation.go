package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/hedex-labs/hedex-backend/internal/http/response"
	"github.com/hedex-labs/hedex-backend/internal/platform/apierr"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
	"github.com/hedex-labs/hedex-backend/internal/services"
)

type RecommendationHandler struct {
	log         *logger.Logger
	recommender services.Recommender
}

func NewRecommendationHandler(log *logger.Logger, recommender services.Recommender) *RecommendationHandler {
	return &RecommendationHandler{
		log:         log.With("handler", "Recommendation"),
		recommender: recommender,
	}
}

// Recommend handles POST /api/recommend.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var body struct {
		Profile json.RawMessage `json:"profile"`
		Content string          `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apierr.Validation(map[string]string{"body": "invalid JSON"}))
		return
	}

	profile, err := parseProfile(string(body.Profile))
	if err != nil {
		response.Error(c, err)
		return
	}

	recommendation, err := h.recommender.Recommend(c.Request.Context(), profile, body.Content)
	if err != nil {
		h.log.Error("recommendation failed", "error", err.Error())
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"recommendations": recommendation})
}
