package extract

import (
	"context"

	"github.com/chaitanya1705/mcqextract/ocr"
)

// EngineRecognizer adapts an ocr.Engine to the reconcile.Recognizer
// contract, applying the same input options to every submission.
type EngineRecognizer struct {
	Engine  ocr.Engine
	Options []ocr.InputOption
}

// Recognize wraps the raw image in a recognition input and delegates to the
// engine.
func (r EngineRecognizer) Recognize(ctx context.Context, image []byte) (ocr.Result, error) {
	in := ocr.NewInput("", image, ocr.ImageFormatPNG, r.Options...)
	return r.Engine.Recognize(ctx, in)
}
