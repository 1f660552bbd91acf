package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/hedex-labs/hedex-backend/internal/http/handlers"
	httpMW "github.com/hedex-labs/hedex-backend/internal/http/middleware"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	LocalizeHandler       *httpH.LocalizeHandler
	QuizHandler           *httpH.QuizHandler
	FeedbackHandler       *httpH.FeedbackHandler
	RecommendationHandler *httpH.RecommendationHandler

	AllowedOrigins []string
	TracingEnabled bool
	ServiceName    string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestID())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLog(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}

	// Health
	r.GET("/healthcheck", httpH.Healthcheck)

	api := r.Group("/api")
	{
		if cfg.LocalizeHandler != nil {
			api.POST("/translate", cfg.LocalizeHandler.Localize)
		}

		if cfg.QuizHandler != nil {
			api.POST("/generate-quiz", cfg.QuizHandler.Generate)
			api.POST("/score-quiz", cfg.QuizHandler.Score)
		}

		if cfg.FeedbackHandler != nil {
			api.POST("/generate-feedback", cfg.FeedbackHandler.Generate)
		}

		if cfg.RecommendationHandler != nil {
			api.POST("/recommend", cfg.RecommendationHandler.Recommend)
		}
	}

	return r
}
