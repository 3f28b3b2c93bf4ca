// Package gemini backs the ocr.Engine contract with a Gemini multimodal
// model. It trades the local Tesseract worker for a remote call that handles
// handwriting and mathematical layout better, at the cost of latency and an
// API key.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/chaitanya1705/mcqextract/ocr"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

// Remote models return no per-word confidence, so a successful non-empty
// transcription is reported at a fixed high confidence and an empty one at
// zero.
const transcriptionConfidence = 85

const prompt = `Transcribe all text in this image exactly as written. ` +
	`Preserve numbering, option letters and mathematical notation using ` +
	`LaTeX ($...$) where needed. Output only the transcription.`

// Engine implements ocr.Engine over the Gemini API.
type Engine struct {
	client *genai.Client
	model  string
}

// New creates a Gemini-backed engine. An empty model selects DefaultModel.
func New(ctx context.Context, apiKey, model string) (*Engine, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(strings.TrimSpace(apiKey)))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	return &Engine{client: client, model: model}, nil
}

// Name identifies the provider.
func (e *Engine) Name() string { return "gemini" }

// Recognize sends the image with a transcription prompt and returns the
// model's text output.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	m := e.client.GenerativeModel(e.model)
	var temp float32
	m.GenerationConfig = genai.GenerationConfig{Temperature: &temp}

	mime := string(in.Format)
	if mime == "" {
		mime = string(ocr.ImageFormatPNG)
	}
	resp, err := m.GenerateContent(ctx,
		genai.Text(prompt),
		&genai.Blob{MIMEType: mime, Data: in.Image},
	)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("gemini generate: %w", err)
	}
	text := collectText(resp)
	res := ocr.Result{InputID: in.ID, Text: text}
	if strings.TrimSpace(text) != "" {
		res.Confidence = transcriptionConfidence
	}
	return res, nil
}

// Close releases the API client.
func (e *Engine) Close() error { return e.client.Close() }

func collectText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}
