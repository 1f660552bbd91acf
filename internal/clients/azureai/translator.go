package azureai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hedex-labs/hedex-backend/internal/platform/envutil"
	"github.com/hedex-labs/hedex-backend/internal/platform/httpx"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

// Translator is the Azure Translator capability: language detection and
// text translation over the v3.0 REST API.
type Translator interface {
	Detect(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text, from, to string) (string, error)
}

const apiVersion = "3.0"

type translator struct {
	log        *logger.Logger
	endpoint   string
	apiKey     string
	region     string
	httpClient *http.Client

	maxRetries int
}

func NewTranslator(log *logger.Logger) (Translator, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("AZURE_TRANSLATOR_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing AZURE_TRANSLATOR_KEY")
	}
	endpoint := strings.TrimSpace(os.Getenv("AZURE_TRANSLATOR_ENDPOINT"))
	if endpoint == "" {
		endpoint = "https://api.cognitive.microsofttranslator.com"
	}
	endpoint = strings.TrimRight(endpoint, "/")
	region := strings.TrimSpace(os.Getenv("AZURE_TRANSLATOR_REGION"))

	timeout := envutil.Seconds("AZURE_TRANSLATOR_TIMEOUT_SECONDS", 30*time.Second)
	maxRetries := envutil.Int("AZURE_TRANSLATOR_MAX_RETRIES", 3)
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &translator{
		log:        log.With("service", "AzureTranslator"),
		endpoint:   endpoint,
		apiKey:     apiKey,
		region:     region,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}, nil
}

type azureHTTPError struct {
	StatusCode int
	Body       string
}

func (e *azureHTTPError) Error() string {
	return fmt.Sprintf("azure translator http %d: %s", e.StatusCode, e.Body)
}

func (e *azureHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type textPayload struct {
	Text string `json:"Text"`
}

type detectResponse []struct {
	Language string  `json:"language"`
	Score    float64 `json:"score"`
}

type translateResponse []struct {
	Translations []struct {
		Text string `json:"text"`
		To   string `json:"to"`
	} `json:"translations"`
}

func (t *translator) Detect(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("detect: empty text")
	}

	params := url.Values{"api-version": {apiVersion}}
	var resp detectResponse
	if err := t.do(ctx, "/detect", params, []textPayload{{Text: text}}, &resp); err != nil {
		return "", err
	}
	if len(resp) == 0 || strings.TrimSpace(resp[0].Language) == "" {
		return "", fmt.Errorf("detect: empty response")
	}
	return strings.TrimSpace(resp[0].Language), nil
}

func (t *translator) Translate(ctx context.Context, text, from, to string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("translate: empty text")
	}
	if strings.TrimSpace(to) == "" {
		return "", fmt.Errorf("translate: target language required")
	}

	params := url.Values{
		"api-version": {apiVersion},
		"to":          {to},
	}
	if strings.TrimSpace(from) != "" {
		params.Set("from", from)
	}

	var resp translateResponse
	if err := t.do(ctx, "/translate", params, []textPayload{{Text: text}}, &resp); err != nil {
		return "", err
	}
	if len(resp) == 0 || len(resp[0].Translations) == 0 {
		return "", fmt.Errorf("translate: empty response")
	}
	return resp[0].Translations[0].Text, nil
}

func (t *translator) doOnce(ctx context.Context, path string, params url.Values, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+path+"?"+params.Encode(), &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", t.apiKey)
	if t.region != "" {
		req.Header.Set("Ocp-Apim-Subscription-Region", t.region)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &azureHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (t *translator) do(ctx context.Context, path string, params url.Values, body any, out any) error {
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := t.doOnce(ctx, path, params, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("azure translator decode: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == t.maxRetries {
			return err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 5*time.Second))
		t.log.Warn("Azure Translator retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", t.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}
