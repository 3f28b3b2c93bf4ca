// Package vision backs the ocr.Engine contract with Google Cloud Vision
// document text detection. Credentials resolve from GOOGLE_CREDENTIALS
// (inline JSON), GOOGLE_APPLICATION_CREDENTIALS (key file path), or
// application default credentials, in that order.
package vision

import (
	"context"
	"fmt"
	"os"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/chaitanya1705/mcqextract/ocr"
)

// Engine implements ocr.Engine and ocr.CloseableEngine over a Cloud Vision
// image annotator client.
type Engine struct {
	client *vision.ImageAnnotatorClient
}

// New creates a Vision-backed engine with credentials from the environment.
func New(ctx context.Context) (*Engine, error) {
	var client *vision.ImageAnnotatorClient
	var err error
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}
	return &Engine{client: client}, nil
}

// NewWithClient wraps an existing annotator client, mainly for tests.
func NewWithClient(client *vision.ImageAnnotatorClient) *Engine {
	return &Engine{client: client}
}

// Name identifies the provider.
func (e *Engine) Name() string { return "google-vision" }

// Recognize submits the image for document text detection and averages the
// page-level confidences onto the 0-100 scale.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: in.Image},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
		},
	}
	if len(in.Languages) > 0 {
		req.ImageContext = &visionpb.ImageContext{LanguageHints: in.Languages}
	}
	batch, err := e.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{req},
	})
	if err != nil {
		return ocr.Result{}, fmt.Errorf("annotate image: %w", err)
	}
	resp := batch.Responses[0]
	if resp.Error != nil {
		return ocr.Result{}, fmt.Errorf("annotate image: %s", resp.Error.Message)
	}
	full := resp.FullTextAnnotation
	if full == nil {
		return ocr.Result{InputID: in.ID}, nil
	}
	return ocr.Result{
		InputID:    in.ID,
		Text:       full.Text,
		Confidence: meanPageConfidence(full.Pages),
	}, nil
}

// Close releases the underlying gRPC connection.
func (e *Engine) Close() error { return e.client.Close() }

func meanPageConfidence(pages []*visionpb.Page) float64 {
	if len(pages) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pages {
		sum += float64(p.GetConfidence())
	}
	return sum / float64(len(pages)) * 100
}
