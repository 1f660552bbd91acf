package app

import (
	"time"

	"github.com/hedex-labs/hedex-backend/internal/platform/envutil"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
	"github.com/hedex-labs/hedex-backend/internal/services"
)

// defaultSupportedLanguages is the Southeast Asia set the localization
// step handles natively.
var defaultSupportedLanguages = []string{
	"en", "id", "ms", "th", "vi", "fil", "km", "lo", "my", "zh", "ta", "hi",
}

type Config struct {
	Port        string
	ServiceName string
	Environment string

	AllowedOrigins []string

	LangPolicy services.LangPolicy

	TranslationTTL     time.Duration
	QuizTTL            time.Duration
	FeedbackTTL        time.Duration
	CacheSweepInterval time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	supported := envutil.List("SUPPORTED_LANGUAGES", defaultSupportedLanguages)
	supportedSet := make(map[string]bool, len(supported))
	for _, lang := range supported {
		supportedSet[lang] = true
	}

	cfg := Config{
		Port:           envutil.Str("PORT", "8080"),
		ServiceName:    envutil.Str("SERVICE_NAME", "hedex-backend"),
		Environment:    envutil.Str("ENVIRONMENT", "development"),
		AllowedOrigins: envutil.List("ALLOWED_ORIGINS", nil),
		LangPolicy: services.LangPolicy{
			Supported:       supportedSet,
			Pivot:           envutil.Str("PIVOT_LANGUAGE", "en"),
			Fallback:        envutil.Str("FALLBACK_LANGUAGE", "en"),
			StrictPreferred: envutil.Bool("STRICT_PREFERRED_LANGUAGE", false),
		},
		TranslationTTL:     envutil.Seconds("TRANSLATION_CACHE_TTL_SECONDS", time.Hour),
		QuizTTL:            envutil.Seconds("QUIZ_CACHE_TTL_SECONDS", 30*time.Minute),
		FeedbackTTL:        envutil.Seconds("FEEDBACK_CACHE_TTL_SECONDS", 10*time.Minute),
		CacheSweepInterval: envutil.Seconds("CACHE_SWEEP_INTERVAL_SECONDS", time.Minute),
	}

	log.Info("config loaded",
		"port", cfg.Port,
		"supported_languages", supported,
		"pivot", cfg.LangPolicy.Pivot,
		"strict_preferred", cfg.LangPolicy.StrictPreferred,
	)
	return cfg
}
