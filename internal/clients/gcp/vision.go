package gcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/hedex-labs/hedex-backend/internal/platform/ctxutil"
	"github.com/hedex-labs/hedex-backend/internal/platform/envutil"
	"github.com/hedex-labs/hedex-backend/internal/platform/logger"
)

// Vision turns an uploaded image into a text representation the pipeline
// can localize: any text found in the image plus a label-based description.
type Vision interface {
	DescribeImage(ctx context.Context, img []byte) (string, error)
	Close() error
}

type visionService struct {
	log          *logger.Logger
	visionClient *vision.ImageAnnotatorClient
	timeout      time.Duration
}

func NewVision(log *logger.Logger) (Vision, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.Vision")

	ctx := context.Background()
	vClient, err := vision.NewImageAnnotatorClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}

	return &visionService{
		log:          slog,
		visionClient: vClient,
		timeout:      envutil.Seconds("VISION_TIMEOUT_SECONDS", 60*time.Second),
	}, nil
}

func (s *visionService) Close() error {
	if s == nil || s.visionClient == nil {
		return nil
	}
	return s.visionClient.Close()
}

func (s *visionService) DescribeImage(ctx context.Context, img []byte) (string, error) {
	if len(img) == 0 {
		return "", fmt.Errorf("vision: empty image")
	}

	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: img},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
			{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: 10},
		},
	}

	br := &visionpb.BatchAnnotateImagesRequest{Requests: []*visionpb.AnnotateImageRequest{req}}
	resp, err := s.visionClient.BatchAnnotateImages(ctx, br)
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", fmt.Errorf("vision: empty response")
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	var parts []string
	if fta := r0.FullTextAnnotation; fta != nil && strings.TrimSpace(fta.Text) != "" {
		parts = append(parts, collapseWhitespace(fta.Text))
	}
	if labels := describeLabels(r0.LabelAnnotations); labels != "" {
		parts = append(parts, "Image content: "+labels)
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("vision: no text or labels detected")
	}
	return strings.Join(parts, "\n"), nil
}

func describeLabels(anns []*visionpb.EntityAnnotation) string {
	type label struct {
		desc  string
		score float32
	}
	labels := make([]label, 0, len(anns))
	for _, a := range anns {
		if a == nil || strings.TrimSpace(a.Description) == "" {
			continue
		}
		labels = append(labels, label{desc: strings.TrimSpace(a.Description), score: a.Score})
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].score > labels[j].score })

	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, l.desc)
	}
	return strings.Join(out, ", ")
}
