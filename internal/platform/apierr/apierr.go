package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hedex-labs/hedex-backend/internal/platform/httpx"
)

// Stable error codes surfaced to clients. Status codes alone distinguish
// retryable (429, 504) from terminal (400, 500) failures.
const (
	CodeValidation    = "validation_error"
	CodeExtraction    = "extraction_failed"
	CodeTimeout       = "capability_timeout"
	CodeRateLimited   = "rate_limited"
	CodeMalformedQuiz = "malformed_quiz_data"
	CodeUpstream      = "upstream_failure"
)

type Error struct {
	Status  int
	Code    string
	Err     error
	Details map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(details map[string]string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Err:     errors.New("invalid request"),
		Details: details,
	}
}

func ExtractionFailed(err error) *Error {
	return New(http.StatusInternalServerError, CodeExtraction, err)
}

func Timeout(err error) *Error {
	return New(http.StatusGatewayTimeout, CodeTimeout, err)
}

func RateLimited(err error) *Error {
	e := New(http.StatusTooManyRequests, CodeRateLimited, err)
	e.Details = map[string]string{"hint": "try again shortly"}
	return e
}

func MalformedQuiz(err error) *Error {
	return New(http.StatusInternalServerError, CodeMalformedQuiz, err)
}

func Upstream(err error) *Error {
	return New(http.StatusInternalServerError, CodeUpstream, err)
}

// FromCapability classifies a capability-client failure into the taxonomy.
// Already-typed errors pass through unchanged.
func FromCapability(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout(err)
	}
	var sc httpx.HTTPStatusCoder
	if errors.As(err, &sc) {
		switch sc.HTTPStatusCode() {
		case http.StatusTooManyRequests:
			return RateLimited(err)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return Timeout(err)
		}
	}
	return Upstream(err)
}
