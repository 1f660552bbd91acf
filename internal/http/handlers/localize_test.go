package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hedex-labs/hedex-backend/internal/domain"
	"github.com/hedex-labs/hedex-backend/internal/platform/apierr"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

func nopLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fakeLocalizer struct {
	res   *domain.LocalizedResult
	err   error
	calls int
}

func (f *fakeLocalizer) Localize(_ context.Context, _ *domain.ContentItem, _ domain.UserProfile) (*domain.LocalizedResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func newLocalizeRouter(loc *fakeLocalizer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/translate", NewLocalizeHandler(nopLogger(), loc).Localize)
	return r
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
	Details map[string]string `json:"details"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v; body=%s", err, w.Body.String())
	}
	return env
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLocalizeSuccess(t *testing.T) {
	loc := &fakeLocalizer{res: &domain.LocalizedResult{
		LocalizedContent: "xin chào",
		DetectedLanguage: "km",
		WorkingLanguage:  "vi",
	}}
	r := newLocalizeRouter(loc)

	w := postJSON(r, "/api/translate", `{"content":"សួស្តី","profile":{"preferredLanguage":"vi"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res domain.LocalizedResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.LocalizedContent != "xin chào" || res.WorkingLanguage != "vi" {
		t.Fatalf("unexpected result %+v", res)
	}
	if loc.calls != 1 {
		t.Fatalf("localizer called %d times", loc.calls)
	}
}

func TestLocalizeMissingProfile(t *testing.T) {
	r := newLocalizeRouter(&fakeLocalizer{})

	w := postJSON(r, "/api/translate", `{"content":"hello"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Error.Code != apierr.CodeValidation || env.Details["profile"] != "missing" {
		t.Fatalf("expected profile=missing detail, got %+v", env)
	}
}

func TestLocalizeInvalidProfileJSON(t *testing.T) {
	r := newLocalizeRouter(&fakeLocalizer{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("content", "hello")
	mw.WriteField("profile", "{not json")
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/translate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Details["profile"] != "invalid JSON" {
		t.Fatalf("broken and absent profiles must be distinguishable, got %+v", env.Details)
	}
}

func TestLocalizeMissingContent(t *testing.T) {
	r := newLocalizeRouter(&fakeLocalizer{})

	w := postJSON(r, "/api/translate", `{"profile":{"preferredLanguage":"vi"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Details["content"] != "missing" {
		t.Fatalf("expected content=missing detail, got %+v", env.Details)
	}
}

func TestLocalizeMissingPreferredLanguage(t *testing.T) {
	r := newLocalizeRouter(&fakeLocalizer{})

	w := postJSON(r, "/api/translate", `{"content":"hello","profile":{"country":"KH"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Details["preferredLanguage"] != "missing" {
		t.Fatalf("expected preferredLanguage=missing detail, got %+v", env.Details)
	}
}

func TestLocalizeUnsupportedFileType(t *testing.T) {
	loc := &fakeLocalizer{}
	r := newLocalizeRouter(loc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("profile", `{"preferredLanguage":"vi"}`)
	fw, _ := mw.CreateFormFile("file", "notes.docx")
	fw.Write([]byte{'P', 'K', 0x03, 0x04, 0x00})
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/translate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Details["file"] != "Unsupported file type" {
		t.Fatalf("expected unsupported file detail, got %+v", env.Details)
	}
	if loc.calls != 0 {
		t.Fatal("pipeline must not run for rejected uploads")
	}
}

func TestLocalizePDFUpload(t *testing.T) {
	loc := &fakeLocalizer{res: &domain.LocalizedResult{LocalizedContent: "ok", DetectedLanguage: "en", WorkingLanguage: "en"}}
	r := newLocalizeRouter(loc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("profile", `{"preferredLanguage":"en"}`)
	fw, _ := mw.CreateFormFile("file", "lesson.pdf")
	fw.Write([]byte("%PDF-1.7 fake"))
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/translate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if loc.calls != 1 {
		t.Fatalf("localizer called %d times", loc.calls)
	}
}

func TestLocalizePipelineTimeoutSurfaces504(t *testing.T) {
	loc := &fakeLocalizer{err: apierr.Timeout(context.DeadlineExceeded)}
	r := newLocalizeRouter(loc)

	w := postJSON(r, "/api/translate", `{"content":"hello","profile":{"preferredLanguage":"vi"}}`)
	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Error.Code != apierr.CodeTimeout {
		t.Fatalf("expected timeout code, got %+v", env)
	}
}
