// Package reconcile decides, per selected region, which of two imperfect
// text sources wins: the exact but layout-fragile structured layer, or the
// noisy image recognizer. When both produced partial text it merges them
// under a fixed length-ratio heuristic.
package reconcile

import (
	"context"

	"github.com/chaitanya1705/mcqextract/mathdetect"
	"github.com/chaitanya1705/mcqextract/ocr"
)

// Policy constants. These values are pinned by long-standing behavior;
// callers compare extraction runs across versions, so do not tune them.
const (
	// TrustLength is the structured-layer length above which recognition is
	// skipped entirely.
	TrustLength = 10
	// ConfidenceFloor is the recognition confidence at or below which a
	// recognized result is treated as absent.
	ConfidenceFloor = 60
	// StructuredConfidence is assigned to any non-empty structured-layer
	// result used on its own.
	StructuredConfidence = 95
	// StructuredDominanceRatio: the structured text is judged complete when
	// longer than this fraction of the recognized text.
	StructuredDominanceRatio = 0.8
	// RecognizedDominanceRatio: the recognized text likely caught content
	// the layer missed when longer than this multiple of the structured text.
	RecognizedDominanceRatio = 1.5
	// Placeholder is returned when neither source yields usable text.
	Placeholder = "Unable to extract text"
)

// Method names the source that produced an outcome.
type Method string

const (
	MethodStructured Method = "structured"
	MethodRecognized Method = "recognized"
	MethodHybrid     Method = "hybrid"
)

// Outcome is the terminal result of one region's extraction. Confidence is
// informational; a zero value marks a placeholder or low-quality result that
// a human should review.
type Outcome struct {
	Text       string  `json:"text"`
	Method     Method  `json:"method"`
	Confidence float64 `json:"confidence"`
	HasMath    bool    `json:"hasMath"`
}

// Recognizer is the narrow capability the engine needs from an image
// recognizer: one cropped region image in, one raw result out.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (ocr.Result, error)
}

// Engine runs the per-region decision sequence. The zero value works without
// a recognizer and degrades to structured-only extraction.
type Engine struct {
	Recognizer Recognizer
}

// New returns an engine using the given recognizer.
func New(r Recognizer) *Engine { return &Engine{Recognizer: r} }

// Extract resolves one region given the structured-layer text and the
// cropped region image. The recognizer is only invoked when the structured
// text is too short to trust; a recognizer failure is treated as an empty
// zero-confidence recognition, never an error.
func (e *Engine) Extract(ctx context.Context, structuredText string, image []byte) Outcome {
	if len(structuredText) > TrustLength {
		return Outcome{
			Text:       structuredText,
			Method:     MethodStructured,
			Confidence: StructuredConfidence,
			HasMath:    mathdetect.HasMath(structuredText),
		}
	}

	var rec ocr.Result
	if e.Recognizer != nil && len(image) > 0 {
		res, err := e.Recognizer.Recognize(ctx, image)
		if err == nil {
			rec = res
		}
	}
	rec.Text = ocr.Cleanup(rec.Text)
	return Reconcile(structuredText, rec)
}

// Reconcile applies the decision sequence once recognition has happened (or
// failed; pass a zero Result). Evaluated in order, first match wins:
//
//  1. recognition at or below the confidence floor is treated as absent;
//  2. both sources non-empty: merge by length ratio, method hybrid;
//  3. one source non-empty: that source, its own confidence;
//  4. nothing usable: the structured text if any, else the placeholder,
//     at zero confidence.
func Reconcile(structuredText string, rec ocr.Result) Outcome {
	recUsable := rec.Confidence > ConfidenceFloor && rec.Text != ""

	switch {
	case recUsable && structuredText != "":
		text := merge(structuredText, rec.Text)
		return Outcome{
			Text:       text,
			Method:     MethodHybrid,
			Confidence: max(StructuredConfidence, rec.Confidence),
			HasMath:    mathdetect.HasMath(structuredText) || mathdetect.HasMath(rec.Text),
		}
	case recUsable:
		return Outcome{
			Text:       rec.Text,
			Method:     MethodRecognized,
			Confidence: rec.Confidence,
			HasMath:    mathdetect.HasMath(rec.Text),
		}
	case rec.Confidence > ConfidenceFloor && structuredText != "":
		// Recognition was confident but produced no text; the short
		// structured hit stands on its own.
		return Outcome{
			Text:       structuredText,
			Method:     MethodStructured,
			Confidence: StructuredConfidence,
			HasMath:    mathdetect.HasMath(structuredText),
		}
	case structuredText != "":
		return Outcome{Text: structuredText, Method: MethodStructured, Confidence: 0}
	default:
		return Outcome{Text: Placeholder, Method: MethodRecognized, Confidence: 0}
	}
}

// merge combines two partial sources. A structured text longer than 0.8x the
// recognized text is judged complete; a recognized text longer than 1.5x the
// structured text likely caught image-only content; anything in between is
// assumed complementary and concatenated. The asymmetric thresholds are
// deliberate, see the package tests pinning the boundaries.
func merge(structuredText, recognizedText string) string {
	switch {
	case float64(len(structuredText)) > StructuredDominanceRatio*float64(len(recognizedText)):
		return structuredText
	case float64(len(recognizedText)) > RecognizedDominanceRatio*float64(len(structuredText)):
		return recognizedText
	default:
		return structuredText + " " + recognizedText
	}
}
