package ocr

import "context"

// ImageFormat identifies the content type of a recognition input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatTIFF ImageFormat = "image/tiff"
)

// Input encapsulates a single cropped region image submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier echoed back in the Result.
	ID string
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/png).
	Format ImageFormat
	// DPI carries the effective dots-per-inch for the image. Providers such
	// as Tesseract use this for scaling heuristics; zero means unknown.
	DPI int
	// Languages is a list of language hints (e.g., "eng", "deu") that
	// providers can use to select trained data.
	Languages []string
	// Metadata passes engine-specific knobs (e.g., "tessedit_pageseg_mode")
	// without hard-coding them into the API surface.
	Metadata map[string]string
}

// Result is an engine's output for one input: recognized text plus a scalar
// quality estimate on a 0-100 scale. Text is raw engine output; callers run
// Cleanup before comparing it against the structured layer.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// Text is the recognized text.
	Text string
	// Confidence estimates recognition quality, 0 (unusable) to 100 (exact).
	Confidence float64
}

// Engine is the recognition provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// CloseableEngine is implemented by engines that hold an expensive worker
// (a native library handle, a spawned process) that must be released when the
// session ends.
type CloseableEngine interface {
	Engine
	Close() error
}
