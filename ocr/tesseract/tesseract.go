// Package tesseract backs the ocr.Engine contract with a local Tesseract
// worker via gosseract. The native client is expensive to start, so one
// client is created per Engine and reused for every recognition until Close.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/chaitanya1705/mcqextract/ocr"
)

// Engine implements ocr.Engine and ocr.CloseableEngine over a single
// long-lived gosseract client. It is not safe for concurrent Recognize
// calls; wrap it in ocr.Managed and call sequentially, which is how region
// extraction drives it.
type Engine struct {
	client *gosseract.Client
}

// New starts a Tesseract client. The returned engine must be closed when the
// extraction session ends.
func New() *Engine {
	return &Engine{client: gosseract.NewClient()}
}

// Name identifies the provider.
func (e *Engine) Name() string { return "tesseract" }

// Recognize runs OCR over the input image and reports the mean word-level
// confidence on the 0-100 scale.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	select {
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	default:
	}
	if err := e.client.SetImageFromBytes(in.Image); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := e.client.SetLanguage(in.Languages...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := e.client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := e.client.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	text, err := e.client.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}
	return ocr.Result{
		InputID:    in.ID,
		Text:       text,
		Confidence: e.meanWordConfidence(),
	}, nil
}

// Close shuts the native client down.
func (e *Engine) Close() error { return e.client.Close() }

func (e *Engine) meanWordConfidence() float64 {
	boxes, err := e.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes))
}
