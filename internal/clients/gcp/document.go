package gcp

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/fieldmaskpb"

	"github.com/hedex-labs/hedex-backend/internal/platform/ctxutil"
	"github.com/hedex-labs/hedex-backend/internal/platform/envutil"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

// Document extracts structured text from uploaded documents via
// Document AI. Requests carry the raw bytes; nothing is persisted.
type Document interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
	Close() error
}

type documentService struct {
	log *logger.Logger

	docClient *documentai.DocumentProcessorClient

	projectID        string
	location         string
	processorID      string
	processorVersion string
	timeout          time.Duration
}

// Configured reports whether the Document AI processor is set up in the
// environment. When it is not, extraction falls back to local parsing.
func Configured() bool {
	return strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_ID")) != "" &&
		strings.TrimSpace(os.Getenv("DOCUMENTAI_PROJECT_ID")) != ""
}

func NewDocument(log *logger.Logger) (Document, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.Document")

	projectID := strings.TrimSpace(os.Getenv("DOCUMENTAI_PROJECT_ID"))
	processorID := strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_ID"))
	if projectID == "" || processorID == "" {
		return nil, fmt.Errorf("missing DOCUMENTAI_PROJECT_ID or DOCUMENTAI_PROCESSOR_ID")
	}
	location := strings.TrimSpace(os.Getenv("DOCUMENTAI_LOCATION"))
	if location == "" {
		location = "us"
	}
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)

	ctx := context.Background()
	docOpts := append([]option.ClientOption{option.WithEndpoint(endpoint)}, ClientOptionsFromEnv()...)
	c, err := documentai.NewDocumentProcessorClient(ctx, docOpts...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}

	slog.Info("Document AI initialized", "endpoint", endpoint)

	return &documentService{
		log:              slog,
		docClient:        c,
		projectID:        projectID,
		location:         location,
		processorID:      processorID,
		processorVersion: strings.TrimSpace(os.Getenv("DOCUMENTAI_PROCESSOR_VERSION")),
		timeout:          envutil.Seconds("DOCUMENTAI_TIMEOUT_SECONDS", 2*time.Minute),
	}, nil
}

func (s *documentService) Close() error {
	if s == nil || s.docClient == nil {
		return nil
	}
	return s.docClient.Close()
}

func (s *documentService) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if len(data) == 0 {
		return "", fmt.Errorf("documentai: empty document")
	}
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	r := &documentaipb.ProcessRequest{
		Name: s.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mimeType,
			},
		},
		// Only the full text is consumed; skip tables/forms payloads.
		FieldMask: &fieldmaskpb.FieldMask{Paths: []string{"text", "pages.page_number"}},
	}

	resp, err := s.docClient.ProcessDocument(ctx, r)
	if err != nil {
		return "", fmt.Errorf("documentai ProcessDocument: %w", err)
	}
	if resp == nil || resp.Document == nil {
		return "", fmt.Errorf("documentai: empty result")
	}

	text := collapseWhitespace(resp.Document.Text)
	if text == "" {
		return "", fmt.Errorf("documentai: no text in document")
	}
	return text, nil
}

func (s *documentService) processorName() string {
	base := fmt.Sprintf("projects/%s/locations/%s/processors/%s", s.projectID, s.location, s.processorID)
	if s.processorVersion != "" {
		return base + "/processorVersions/" + s.processorVersion
	}
	return base
}
