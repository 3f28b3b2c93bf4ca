// Package ocr defines the image-recognition contract used as the fallback
// text source. The interfaces are small and transport-agnostic so engines can
// be backed by a local Tesseract worker, a cloud API, or a test stub without
// leaking provider concerns into callers.
package ocr
