package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hedex-labs/hedex-backend/internal/cache"
	"github.com/hedex-labs/hedex-backend/internal/clients/azureai"
	"github.com/hedex-labs/hedex-backend/internal/clients/openai"
	"github.com/hedex-labs/hedex-backend/internal/domain"
	"github.com/hedex-labs/hedex-backend/internal/platform/apierr"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

// LangPolicy drives the routing decision: which languages the
// localization step handles natively, where unsupported content pivots
// to, and what detection falls back to when the detector is unavailable.
type LangPolicy struct {
	Supported map[string]bool
	Pivot     string
	Fallback  string

	// StrictPreferred rejects requests whose preferred language is
	// outside the supported set instead of pivoting.
	StrictPreferred bool
}

func (p LangPolicy) IsSupported(lang string) bool {
	return p.Supported[domain.NormalizeLang(lang)]
}

// Localizer runs the full pipeline: extract → detect → route/translate →
// culturally localize → align to the preferred language.
type Localizer interface {
	Localize(ctx context.Context, item *domain.ContentItem, profile domain.UserProfile) (*domain.LocalizedResult, error)
}

type localizationService struct {
	log        *logger.Logger
	translator azureai.Translator
	generator  openai.Client
	extractor  Extractor
	store      cache.Store

	policy LangPolicy
	ttl    time.Duration
}

func NewLocalizer(
	log *logger.Logger,
	translator azureai.Translator,
	generator openai.Client,
	extractor Extractor,
	store cache.Store,
	policy LangPolicy,
	ttl time.Duration,
) Localizer {
	return &localizationService{
		log:        log.With("service", "Localizer"),
		translator: translator,
		generator:  generator,
		extractor:  extractor,
		store:      store,
		policy:     policy,
		ttl:        ttl,
	}
}

func (s *localizationService) Localize(ctx context.Context, item *domain.ContentItem, profile domain.UserProfile) (*domain.LocalizedResult, error) {
	preferred := domain.NormalizeLang(profile.PreferredLanguage)
	if preferred == "" {
		return nil, apierr.Validation(map[string]string{"preferredLanguage": "missing"})
	}
	if s.policy.StrictPreferred && !s.policy.IsSupported(preferred) {
		return nil, apierr.Validation(map[string]string{"preferredLanguage": "unsupported language"})
	}

	if err := s.extractor.Extract(ctx, item); err != nil {
		return nil, err
	}

	detected := s.detectLanguage(ctx, item.Text)
	item.DetectedLanguage = detected
	item.CurrentLanguage = detected

	// Routing: a supported source stays put; otherwise translate once,
	// preferring the caller's language over the pivot. Never both.
	working := detected
	switch {
	case s.policy.IsSupported(detected):
		// Case A: no pre-translation.
	case s.policy.IsSupported(preferred):
		// Case B
		translated, err := s.translate(ctx, item.Text, detected, preferred)
		if err != nil {
			return nil, err
		}
		item.Text = translated
		working = preferred
	default:
		// Case C
		translated, err := s.translate(ctx, item.Text, detected, s.policy.Pivot)
		if err != nil {
			return nil, err
		}
		item.Text = translated
		working = s.policy.Pivot
	}
	item.CurrentLanguage = working

	localized, err := s.localizeCultural(ctx, item.Text, working)
	if err != nil {
		return nil, err
	}
	item.Text = localized

	if working != preferred {
		aligned, err := s.translate(ctx, localized, working, preferred)
		if err != nil {
			return nil, err
		}
		item.Text = aligned
		item.CurrentLanguage = preferred
	}

	return &domain.LocalizedResult{
		LocalizedContent: item.Text,
		DetectedLanguage: detected,
		WorkingLanguage:  working,
	}, nil
}

// detectLanguage is best-effort: a failing detector degrades to the
// configured fallback language instead of aborting the pipeline.
func (s *localizationService) detectLanguage(ctx context.Context, text string) string {
	key := cache.Fingerprint(cache.OpDetect, text)
	if v, ok, err := s.store.Get(ctx, key); err == nil && ok {
		return v
	}

	lang, err := s.translator.Detect(ctx, text)
	if err != nil {
		s.log.Warn("language detection failed, using fallback", "fallback", s.policy.Fallback, "error", err.Error())
		return s.policy.Fallback
	}

	lang = domain.NormalizeLang(lang)
	s.cachePut(ctx, key, lang)
	return lang
}

func (s *localizationService) translate(ctx context.Context, text, from, to string) (string, error) {
	if domain.NormalizeLang(from) == domain.NormalizeLang(to) {
		return text, nil
	}

	key := cache.Fingerprint(cache.OpTranslate, text, from, to)
	if v, ok, err := s.store.Get(ctx, key); err == nil && ok {
		return v, nil
	}

	out, err := s.translator.Translate(ctx, text, from, to)
	if err != nil {
		return "", apierr.FromCapability(err)
	}

	s.cachePut(ctx, key, out)
	return out, nil
}

func (s *localizationService) localizeCultural(ctx context.Context, text, lang string) (string, error) {
	key := cache.Fingerprint(cache.OpLocalize, text, lang)
	if v, ok, err := s.store.Get(ctx, key); err == nil && ok {
		return v, nil
	}

	system := "You adapt educational content so it feels natural to local students. " +
		"Replace culture-specific names, places, foods, currencies, and examples with " +
		"equivalents familiar to the target culture. Keep the educational meaning, " +
		"difficulty, and language of the text unchanged. Return only the adapted text."
	user := fmt.Sprintf("Target culture: %s.\n\nContent:\n%s", cultureName(lang), text)

	out, err := s.generator.GenerateText(ctx, system, user)
	if err != nil {
		return "", apierr.FromCapability(err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", apierr.Upstream(fmt.Errorf("empty localization output"))
	}

	s.cachePut(ctx, key, out)
	return out, nil
}

func (s *localizationService) cachePut(ctx context.Context, key, value string) {
	if err := s.store.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("cache set failed", "key", key, "error", err.Error())
	}
}

var cultureNames = map[string]string{
	"en":  "American",
	"id":  "Indonesian",
	"ms":  "Malaysian",
	"th":  "Thai",
	"vi":  "Vietnamese",
	"fil": "Filipino",
	"km":  "Cambodian",
	"lo":  "Lao",
	"my":  "Burmese",
	"zh":  "Chinese",
	"ta":  "Tamil",
	"hi":  "Indian",
}

func cultureName(lang string) string {
	if name, ok := cultureNames[domain.NormalizeLang(lang)]; ok {
		return name
	}
	return lang
}
