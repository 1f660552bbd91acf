package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hedex-labs/hedex-backend/internal/clients/gcp"
	"github.com/hedex-labs/hedex-backend/internal/domain"
	"github.com/hedex-labs/hedex-backend/internal/platform/apierr"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

// Extractor resolves a content item's canonical text. Text items pass
// through; pdf and image items go to the extraction capabilities.
type Extractor interface {
	Extract(ctx context.Context, item *domain.ContentItem) error
}

type extractService struct {
	log *logger.Logger

	// Either may be nil when the capability is not configured.
	document gcp.Document
	vision   gcp.Vision
}

func NewExtractor(log *logger.Logger, document gcp.Document, vision gcp.Vision) Extractor {
	return &extractService{
		log:      log.With("service", "Extractor"),
		document: document,
		vision:   vision,
	}
}

// SniffKind classifies an uploaded payload by magic bytes. Anything
// outside pdf/jpeg/png is rejected before the pipeline runs.
func SniffKind(data []byte) (domain.ContentKind, string, error) {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return domain.KindPDF, "application/pdf", nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return domain.KindImage, "image/jpeg", nil
	case bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}):
		return domain.KindImage, "image/png", nil
	default:
		return "", "", fmt.Errorf("unsupported file type")
	}
}

func (s *extractService) Extract(ctx context.Context, item *domain.ContentItem) error {
	if item == nil {
		return apierr.ExtractionFailed(fmt.Errorf("nil content item"))
	}

	switch item.Kind {
	case domain.KindText, "":
		if strings.TrimSpace(item.Text) == "" {
			return apierr.Validation(map[string]string{"content": "missing"})
		}
		return nil

	case domain.KindPDF:
		text, err := s.extractPDF(ctx, item.RawPayload)
		if err != nil {
			s.log.Error("PDF extraction failed", "file", item.FileName, "error", err.Error())
			return apierr.ExtractionFailed(err)
		}
		item.Text = text
		return nil

	case domain.KindImage:
		if s.vision == nil {
			return apierr.ExtractionFailed(fmt.Errorf("image extraction not configured"))
		}
		text, err := s.vision.DescribeImage(ctx, item.RawPayload)
		if err != nil {
			s.log.Error("image extraction failed", "file", item.FileName, "error", err.Error())
			return apierr.ExtractionFailed(err)
		}
		item.Text = text
		return nil

	default:
		return apierr.Validation(map[string]string{"kind": "unsupported content kind"})
	}
}

func (s *extractService) extractPDF(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty pdf payload")
	}

	if s.document != nil {
		text, err := s.document.ExtractText(ctx, data, "application/pdf")
		if err == nil {
			return text, nil
		}
		s.log.Warn("Document AI extraction failed, falling back to local parse", "error", err.Error())
	}

	return extractPDFLocal(data)
}

func extractPDFLocal(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf parse: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}

	text := strings.Join(strings.Fields(string(raw)), " ")
	if text == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return text, nil
}
