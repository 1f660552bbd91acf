package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/hedex-labs/hedex-backend/internal/http"
	httpH "github.com/hedex-labs/hedex-backend/internal/http/handlers"
	"github.com/hedex-labs/hedex-backend/internal/observability"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

type Handlers struct {
	Localize       *httpH.LocalizeHandler
	Quiz           *httpH.QuizHandler
	Feedback       *httpH.FeedbackHandler
	Recommendation *httpH.RecommendationHandler
}

func wireHandlers(log *logger.Logger, svc Services) Handlers {
	return Handlers{
		Localize:       httpH.NewLocalizeHandler(log, svc.Localizer),
		Quiz:           httpH.NewQuizHandler(log, svc.Quiz),
		Feedback:       httpH.NewFeedbackHandler(log, svc.Quiz),
		Recommendation: httpH.NewRecommendationHandler(log, svc.Recommender),
	}
}

func wireRouter(log *logger.Logger, cfg Config, h Handlers) *gin.Engine {
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:                   log,
		LocalizeHandler:       h.Localize,
		QuizHandler:           h.Quiz,
		FeedbackHandler:       h.Feedback,
		RecommendationHandler: h.Recommendation,
		AllowedOrigins:        cfg.AllowedOrigins,
		TracingEnabled:        observability.Enabled(),
		ServiceName:           cfg.ServiceName,
	})
}
