package handlers

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hedex-labs/hedex-backend/internal/domain"
	"github.com/hedex-labs/hedex-backend/internal/http/response"
	"github.com/hedex-labs/hedex-backend/internal/platform/apierr"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
	"github.com/hedex-labs/hedex-backend/internal/services"
)

type LocalizeHandler struct {
	log       *logger.Logger
	localizer services.Localizer
}

func NewLocalizeHandler(log *logger.Logger, localizer services.Localizer) *LocalizeHandler {
	return &LocalizeHandler{
		log:       log.With("handler", "Localize"),
		localizer: localizer,
	}
}

// Localize handles POST /api/translate. It accepts either a JSON body
// ({content, profile}) or a multipart form (file + profile + optional
// content override).
func (h *LocalizeHandler) Localize(c *gin.Context) {
	item, profile, err := h.parseRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.localizer.Localize(c.Request.Context(), item, profile)
	if err != nil {
		h.log.Error("localization failed", "kind", string(item.Kind), "error", err.Error())
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

func (h *LocalizeHandler) parseRequest(c *gin.Context) (*domain.ContentItem, domain.UserProfile, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return h.parseMultipart(c)
	}
	return h.parseJSON(c)
}

func (h *LocalizeHandler) parseJSON(c *gin.Context) (*domain.ContentItem, domain.UserProfile, error) {
	var body struct {
		Content string          `json:"content"`
		Profile json.RawMessage `json:"profile"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, domain.UserProfile{}, apierr.Validation(map[string]string{"body": "invalid JSON"})
	}

	profile, err := parseProfile(string(body.Profile))
	if err != nil {
		return nil, domain.UserProfile{}, err
	}
	if strings.TrimSpace(body.Content) == "" {
		return nil, domain.UserProfile{}, apierr.Validation(map[string]string{"content": "missing"})
	}

	return &domain.ContentItem{Kind: domain.KindText, Text: body.Content}, profile, nil
}

func (h *LocalizeHandler) parseMultipart(c *gin.Context) (*domain.ContentItem, domain.UserProfile, error) {
	profile, err := parseProfile(c.PostForm("profile"))
	if err != nil {
		return nil, domain.UserProfile{}, err
	}

	fileHeader, fErr := c.FormFile("file")
	content := strings.TrimSpace(c.PostForm("content"))

	if fErr != nil {
		if content == "" {
			return nil, domain.UserProfile{}, apierr.Validation(map[string]string{"content": "missing"})
		}
		return &domain.ContentItem{Kind: domain.KindText, Text: content}, profile, nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, domain.UserProfile{}, apierr.ExtractionFailed(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.UserProfile{}, apierr.ExtractionFailed(err)
	}

	kind, _, err := services.SniffKind(data)
	if err != nil {
		return nil, domain.UserProfile{}, apierr.Validation(map[string]string{"file": "Unsupported file type"})
	}

	return &domain.ContentItem{
		Kind:       kind,
		RawPayload: data,
		FileName:   fileHeader.Filename,
	}, profile, nil
}

// parseProfile distinguishes an absent profile from a syntactically
// broken one; callers rely on the detail message to tell them apart.
func parseProfile(raw string) (domain.UserProfile, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return domain.UserProfile{}, apierr.Validation(map[string]string{"profile": "missing"})
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return domain.UserProfile{}, apierr.Validation(map[string]string{"profile": "invalid JSON"})
	}
	if strings.TrimSpace(profile.PreferredLanguage) == "" {
		return domain.UserProfile{}, apierr.Validation(map[string]string{"preferredLanguage": "missing"})
	}
	return profile, nil
}
