package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

func nopLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type translateCall struct {
	text, from, to string
}

type fakeTranslator struct {
	detectLang  string
	detectErr   error
	detectCalls int

	translateErr   error
	translateCalls []translateCall
}

func (f *fakeTranslator) Detect(_ context.Context, _ string) (string, error) {
	f.detectCalls++
	if f.detectErr != nil {
		return "", f.detectErr
	}
	return f.detectLang, nil
}

func (f *fakeTranslator) Translate(_ context.Context, text, from, to string) (string, error) {
	f.translateCalls = append(f.translateCalls, translateCall{text: text, from: from, to: to})
	if f.translateErr != nil {
		return "", f.translateErr
	}
	return fmt.Sprintf("[%s] %s", to, text), nil
}

type fakeHTTPError struct {
	code int
}

func (e *fakeHTTPError) Error() string       { return fmt.Sprintf("upstream http %d", e.code) }
func (e *fakeHTTPError) HTTPStatusCode() int { return e.code }

type fakeGenerator struct {
	textCalls int
	textErr   error
	textFn    func(system, user string) (string, error)

	jsonCalls int
	jsonErr   error
	jsonFn    func(system, user string) (map[string]any, error)
}

func (f *fakeGenerator) GenerateText(_ context.Context, system, user string) (string, error) {
	f.textCalls++
	if f.textErr != nil {
		return "", f.textErr
	}
	if f.textFn != nil {
		return f.textFn(system, user)
	}
	return "generated output", nil
}

// GenerateJSON rejects with a 400 by default, steering callers onto the
// text path unless a test wires jsonFn/jsonErr explicitly.
func (f *fakeGenerator) GenerateJSON(_ context.Context, system, user, _ string, _ map[string]any) (map[string]any, error) {
	f.jsonCalls++
	if f.jsonErr != nil {
		return nil, f.jsonErr
	}
	if f.jsonFn != nil {
		return f.jsonFn(system, user)
	}
	return nil, &fakeHTTPError{code: 400}
}
