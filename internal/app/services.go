package app

import (
	"github.com/hedex-labs/hedex-backend/internal/cache"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
	"github.com/hedex-labs/hedex-backend/internal/services"
)

type Services struct {
	Extractor   services.Extractor
	Localizer   services.Localizer
	Quiz        services.QuizEngine
	Recommender services.Recommender
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, store cache.Store) Services {
	extractor := services.NewExtractor(log, clients.Document, clients.Vision)
	return Services{
		Extractor:   extractor,
		Localizer:   services.NewLocalizer(log, clients.Translator, clients.OpenAI, extractor, store, cfg.LangPolicy, cfg.TranslationTTL),
		Quiz:        services.NewQuizEngine(log, clients.OpenAI, store, cfg.QuizTTL, cfg.FeedbackTTL),
		Recommender: services.NewRecommender(log, clients.OpenAI, store, cfg.FeedbackTTL),
	}
}
