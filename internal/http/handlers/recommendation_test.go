package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hedex-labs/hedex-backend/internal/domain"
)

type fakeRecommender struct {
	out     string
	profile domain.UserProfile
}

func (f *fakeRecommender) Recommend(_ context.Context, profile domain.UserProfile, _ string) (string, error) {
	f.profile = profile
	return f.out, nil
}

func newRecommendRouter(rec *fakeRecommender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/recommend", NewRecommendationHandler(nopLogger(), rec).Recommend)
	return r
}

func TestRecommendSuccess(t *testing.T) {
	rec := &fakeRecommender{out: "study with flashcards"}
	r := newRecommendRouter(rec)

	w := postJSON(r, "/api/recommend", `{"profile":{"preferredLanguage":"vi","country":"VN","age":15,"learningStyle":"visual"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got struct {
		Recommendations string `json:"recommendations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Recommendations != "study with flashcards" {
		t.Fatalf("unexpected recommendations %q", got.Recommendations)
	}
	if rec.profile.Country != "VN" || rec.profile.Age != 15 {
		t.Fatalf("profile not forwarded: %+v", rec.profile)
	}
}

func TestRecommendMissingProfile(t *testing.T) {
	r := newRecommendRouter(&fakeRecommender{})

	w := postJSON(r, "/api/recommend", `{"content":"algebra"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Details["profile"] != "missing" {
		t.Fatalf("expected profile=missing detail, got %+v", env.Details)
	}
}
