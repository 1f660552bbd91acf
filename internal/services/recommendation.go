package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hedex-labs/hedex-backend/internal/cache"
	"github.com/hedex-labs/hedex-backend/internal/clients/openai"
	"github.com/hedex-labs/hedex-backend/internal/domain"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

const fallbackRecommendation = "Try studying in short, focused sessions and connect new ideas " +
	"to examples from your own daily life. Revisit the material after a day to reinforce it."

// Recommender suggests a learning strategy tailored to the student's
// profile. It is best-effort: failures degrade to generic advice.
type Recommender interface {
	Recommend(ctx context.Context, profile domain.UserProfile, content string) (string, error)
}

type recommendationService struct {
	log       *logger.Logger
	generator openai.Client
	store     cache.Store
	ttl       time.Duration
}

func NewRecommender(log *logger.Logger, generator openai.Client, store cache.Store, ttl time.Duration) Recommender {
	return &recommendationService{
		log:       log.With("service", "Recommender"),
		generator: generator,
		store:     store,
		ttl:       ttl,
	}
}

func (s *recommendationService) Recommend(ctx context.Context, profile domain.UserProfile, content string) (string, error) {
	age := "unknown"
	if profile.Age > 0 {
		age = strconv.Itoa(profile.Age)
	}

	key := cache.Fingerprint(cache.OpRecommend,
		profile.PreferredLanguage, profile.Country, age, profile.LearningStyle, content)
	if v, ok, err := s.store.Get(ctx, key); err == nil && ok {
		return v, nil
	}

	system := "You are a study coach for students in Southeast Asia. Suggest one concrete, " +
		"culturally relevant learning strategy in 2-3 sentences. Respond in the language " +
		"with ISO code " + domain.NormalizeLang(profile.PreferredLanguage) + "."

	var b strings.Builder
	fmt.Fprintf(&b, "Student profile: country=%s, age=%s, learning style=%s.",
		orUnknown(profile.Country), age, orUnknown(profile.LearningStyle))
	if strings.TrimSpace(content) != "" {
		fmt.Fprintf(&b, "\n\nThey are currently studying:\n%s", content)
	}

	out, err := s.generator.GenerateText(ctx, system, b.String())
	if err != nil {
		s.log.Warn("recommendation generation failed, using fallback", "error", err.Error())
		return fallbackRecommendation, nil
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return fallbackRecommendation, nil
	}

	if sErr := s.store.Set(ctx, key, out, s.ttl); sErr != nil {
		s.log.Warn("cache set failed", "key", key, "error", sErr.Error())
	}
	return out, nil
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
