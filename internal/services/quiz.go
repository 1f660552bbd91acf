package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hedex-labs/hedex-backend/internal/cache"
	"github.com/hedex-labs/hedex-backend/internal/clients/openai"
	"github.com/hedex-labs/hedex-backend/internal/domain"
	"github.com/hedex-labs/hedex-backend/internal/platform/apierr"
	"github.com/hedex-labs/hedex-backend/internal/platform/httpx"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

// QuizEngine generates comprehension quizzes from localized content,
// scores attempts, and produces per-score feedback.
type QuizEngine interface {
	Generate(ctx context.Context, content, language string) (*domain.Quiz, error)
	Score(quiz *domain.Quiz, attempt domain.QuizAttempt) float64
	Feedback(ctx context.Context, score float64, language string) string
}

type quizService struct {
	log       *logger.Logger
	generator openai.Client
	store     cache.Store

	quizTTL     time.Duration
	feedbackTTL time.Duration
}

func NewQuizEngine(log *logger.Logger, generator openai.Client, store cache.Store, quizTTL, feedbackTTL time.Duration) QuizEngine {
	return &quizService{
		log:         log.With("service", "QuizEngine"),
		generator:   generator,
		store:       store,
		quizTTL:     quizTTL,
		feedbackTTL: feedbackTTL,
	}
}

func (s *quizService) Generate(ctx context.Context, content, language string) (*domain.Quiz, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierr.Validation(map[string]string{"content": "missing"})
	}
	language = domain.NormalizeLang(language)
	if language == "" {
		language = "en"
	}

	key := cache.Fingerprint(cache.OpQuiz, content, language)
	if v, ok, err := s.store.Get(ctx, key); err == nil && ok {
		var quiz domain.Quiz
		if uErr := json.Unmarshal([]byte(v), &quiz); uErr == nil {
			return &quiz, nil
		}
		// A corrupt entry is treated as a miss; it will age out.
	}

	system := fmt.Sprintf(
		"You create multiple-choice comprehension quizzes. Respond with JSON only, no prose, "+
			"no markdown fences: {\"questions\":[{\"question\":string,\"options\":[4 distinct strings],"+
			"\"correctAnswer\":string}]}. Produce exactly %d questions. correctAnswer must equal "+
			"exactly one of the options. Write everything in the language with ISO code %q.",
		domain.GeneratedQuizQuestions, language,
	)
	user := "Create a quiz testing comprehension of this content:\n\n" + content

	raw, err := s.generatePayload(ctx, system, user)
	if err != nil {
		return nil, err
	}

	quiz, err := parseQuiz(raw)
	if err != nil {
		s.log.Error("quiz payload failed validation", "error", err.Error())
		return nil, apierr.MalformedQuiz(err)
	}

	if encoded, mErr := json.Marshal(quiz); mErr == nil {
		if sErr := s.store.Set(ctx, key, string(encoded), s.quizTTL); sErr != nil {
			s.log.Warn("cache set failed", "key", key, "error", sErr.Error())
		}
	}
	return quiz, nil
}

// generatePayload prefers the schema-enforced path. Models that reject
// json_schema requests (a 400 from the API) fall back to plain text,
// which is why the defensive parse keeps its fence stripping.
func (s *quizService) generatePayload(ctx context.Context, system, user string) (string, error) {
	obj, err := s.generator.GenerateJSON(ctx, system, user, "comprehension_quiz", quizSchema())
	if err == nil {
		encoded, mErr := json.Marshal(obj)
		if mErr != nil {
			return "", apierr.MalformedQuiz(mErr)
		}
		return string(encoded), nil
	}

	var sc httpx.HTTPStatusCoder
	if !errors.As(err, &sc) || sc.HTTPStatusCode() != http.StatusBadRequest {
		return "", apierr.FromCapability(err)
	}
	s.log.Warn("structured quiz generation rejected, using text path", "error", err.Error())

	raw, tErr := s.generator.GenerateText(ctx, system, user)
	if tErr != nil {
		return "", apierr.FromCapability(tErr)
	}
	return raw, nil
}

func quizSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": domain.QuizOptionsPerQuestion,
							"maxItems": domain.QuizOptionsPerQuestion,
						},
						"correctAnswer": map[string]any{"type": "string"},
					},
					"required":             []string{"question", "options", "correctAnswer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"questions"},
		"additionalProperties": false,
	}
}

// parseQuiz is deliberately forgiving about transport framing (stray
// code fences, a bare questions array) and strict about structure.
func parseQuiz(raw string) (*domain.Quiz, error) {
	payload := stripCodeFences(raw)
	if payload == "" {
		return nil, fmt.Errorf("empty quiz payload")
	}

	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(payload), &quiz); err != nil {
		var questions []domain.Question
		if aErr := json.Unmarshal([]byte(payload), &questions); aErr != nil {
			return nil, fmt.Errorf("quiz payload is not valid JSON: %w", err)
		}
		quiz.Questions = questions
	}

	if err := quiz.Validate(); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Score grades an attempt against the full question sequence; unanswered
// questions count as incorrect. An empty quiz scores zero.
func (s *quizService) Score(quiz *domain.Quiz, attempt domain.QuizAttempt) float64 {
	if quiz == nil || len(quiz.Questions) == 0 {
		return 0
	}

	correct := 0
	for i, q := range quiz.Questions {
		if answer, ok := attempt[i]; ok && answer == q.CorrectOption {
			correct++
		}
	}
	return 100 * float64(correct) / float64(len(quiz.Questions))
}

const (
	BandExcellent        = "excellent"
	BandGood             = "good"
	BandNeedsImprovement = "needs_improvement"
)

func scoreBand(score float64) string {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	default:
		return BandNeedsImprovement
	}
}

var fallbackFeedback = map[string]string{
	BandExcellent:        "Excellent work! You have a strong understanding of this material.",
	BandGood:             "Good job! Review the questions you missed to strengthen your understanding.",
	BandNeedsImprovement: "Keep practicing! Go through the material again and try the quiz once more.",
}

// Feedback never fails: a generator error degrades to a static
// band-appropriate message.
func (s *quizService) Feedback(ctx context.Context, score float64, language string) string {
	band := scoreBand(score)
	language = domain.NormalizeLang(language)
	if language == "" {
		language = "en"
	}

	// Keyed by the exact score, not the band: the prompt quotes the
	// number, so band-level reuse would echo someone else's score.
	key := cache.Fingerprint(cache.OpFeedback, strconv.FormatFloat(score, 'f', -1, 64), language)
	if v, ok, err := s.store.Get(ctx, key); err == nil && ok {
		return v
	}

	system := "You write short, encouraging feedback for students after a quiz. " +
		"Two sentences at most. Respond in the language with ISO code " + language + "."
	user := fmt.Sprintf("The student scored %.0f%% (performance level: %s). Write their feedback.", score, band)

	out, err := s.generator.GenerateText(ctx, system, user)
	if err != nil {
		s.log.Warn("feedback generation failed, using fallback", "band", band, "error", err.Error())
		return fallbackFeedback[band]
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return fallbackFeedback[band]
	}

	if sErr := s.store.Set(ctx, key, out, s.feedbackTTL); sErr != nil {
		s.log.Warn("cache set failed", "key", key, "error", sErr.Error())
	}
	return out
}
