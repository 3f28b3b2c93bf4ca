package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chaitanya1705/mcqextract/coords"
	"github.com/chaitanya1705/mcqextract/ocr"
	"github.com/chaitanya1705/mcqextract/reconcile"
	"github.com/chaitanya1705/mcqextract/textlayer"
)

type stubCropper struct {
	calls int
	data  []byte
	err   error
}

func (c *stubCropper) Crop(page int, r coords.Rect) ([]byte, error) {
	c.calls++
	return c.data, c.err
}

type stubRecognizer struct {
	calls  int
	result ocr.Result
	err    error
}

func (s *stubRecognizer) Recognize(ctx context.Context, image []byte) (ocr.Result, error) {
	s.calls++
	return s.result, s.err
}

// testPage renders a 612x792 native page at 1.5x.
var testPage = Page{Height: 792, Scale: 1.5}

// fragmentAt positions a fragment so it falls inside a raster-space region
// after the axis flip.
func fragmentAt(content string, rasterX, rasterY float64) textlayer.Fragment {
	return textlayer.Fragment{
		Content: content,
		AnchorX: rasterX / testPage.Scale,
		AnchorY: (testPage.Height*testPage.Scale - rasterY) / testPage.Scale,
	}
}

func TestExtractRegionStructuredFastPath(t *testing.T) {
	src := textlayer.SliceSource{0: {
		fragmentAt("What", 110, 210),
		fragmentAt("is", 150, 210),
		fragmentAt("entropy?", 180, 210),
	}}
	cropper := &stubCropper{data: []byte{1}}
	rec := &stubRecognizer{result: ocr.Result{Text: "ignored", Confidence: 99}}
	s, err := NewSession(Config{Source: src, Cropper: cropper, Recognizer: rec})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	region := Region{X: 100, Y: 200, Width: 200, Height: 40, Page: 0, Kind: KindQuestion}
	out, err := s.ExtractRegion(context.Background(), testPage, region)
	if err != nil {
		t.Fatalf("ExtractRegion() error = %v", err)
	}
	if out.Text != "What is entropy?" {
		t.Fatalf("text = %q", out.Text)
	}
	if out.Method != reconcile.MethodStructured || out.Confidence != reconcile.StructuredConfidence {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if cropper.calls != 0 {
		t.Fatalf("cropper invoked %d times on the fast path, want 0", cropper.calls)
	}
	if rec.calls != 0 {
		t.Fatalf("recognizer invoked %d times on the fast path, want 0", rec.calls)
	}
}

func TestExtractRegionRecognitionFallback(t *testing.T) {
	src := textlayer.SliceSource{} // empty layer
	cropper := &stubCropper{data: []byte{0x89, 1, 2}}
	rec := &stubRecognizer{result: ocr.Result{Text: "(C) 7/2", Confidence: 88}}
	s, err := NewSession(Config{Source: src, Cropper: cropper, Recognizer: rec})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	region := Region{X: 10, Y: 10, Width: 50, Height: 20, Page: 0, Kind: KindOption}
	out, err := s.ExtractRegion(context.Background(), testPage, region)
	if err != nil {
		t.Fatalf("ExtractRegion() error = %v", err)
	}
	if cropper.calls != 1 || rec.calls != 1 {
		t.Fatalf("cropper calls = %d, recognizer calls = %d, want 1 and 1", cropper.calls, rec.calls)
	}
	if out.Method != reconcile.MethodRecognized || out.Text != "(C) 7/2" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestExtractRegionCropFailureDegrades(t *testing.T) {
	src := textlayer.SliceSource{}
	cropper := &stubCropper{err: errors.New("render surface gone")}
	rec := &stubRecognizer{result: ocr.Result{Text: "whatever", Confidence: 90}}
	s, err := NewSession(Config{Source: src, Cropper: cropper, Recognizer: rec})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	region := Region{X: 10, Y: 10, Width: 50, Height: 20, Page: 0}
	out, err := s.ExtractRegion(context.Background(), testPage, region)
	if err != nil {
		t.Fatalf("ExtractRegion() error = %v", err)
	}
	if rec.calls != 0 {
		t.Fatalf("recognizer ran without an image, calls = %d", rec.calls)
	}
	if out.Text != reconcile.Placeholder || out.Confidence != 0 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestExtractRegionEmptyRegionRejected(t *testing.T) {
	s, err := NewSession(Config{Source: textlayer.SliceSource{}})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if _, err := s.ExtractRegion(context.Background(), testPage, Region{}); err == nil {
		t.Fatal("expected error for empty region")
	}
}

func TestNewSessionRequiresSource(t *testing.T) {
	if _, err := NewSession(Config{}); err == nil {
		t.Fatal("expected error without a fragment source")
	}
}

func TestExtractAllSequentialWithDelay(t *testing.T) {
	src := textlayer.SliceSource{}
	cropper := &stubCropper{data: []byte{1}}
	rec := &stubRecognizer{result: ocr.Result{Text: "some option text", Confidence: 80}}
	s, err := NewSession(Config{
		Source:     src,
		Cropper:    cropper,
		Recognizer: rec,
		Delay:      10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	regions := []Region{
		{X: 1, Y: 1, Width: 10, Height: 10, Kind: KindQuestion},
		{X: 1, Y: 20, Width: 10, Height: 10, Kind: KindOption},
		{X: 1, Y: 40, Width: 10, Height: 10, Kind: KindOption},
	}
	start := time.Now()
	outcomes, err := s.ExtractAll(context.Background(), testPage, regions)
	if err != nil {
		t.Fatalf("ExtractAll() error = %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected two inter-call delays, elapsed %v", elapsed)
	}
}

func TestExtractAllSkipsDelayAfterFastPath(t *testing.T) {
	src := textlayer.SliceSource{0: {
		fragmentAt("plenty", 5, 5),
		fragmentAt("of", 10, 5),
		fragmentAt("layer", 15, 5),
		fragmentAt("text", 20, 5),
	}}
	cropper := &stubCropper{data: []byte{1}}
	rec := &stubRecognizer{result: ocr.Result{Text: "ignored", Confidence: 99}}
	s, err := NewSession(Config{
		Source:     src,
		Cropper:    cropper,
		Recognizer: rec,
		Delay:      500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	// Both regions resolve from the structured layer alone, so no rate-limit
	// pause should separate them.
	regions := []Region{
		{X: 1, Y: 1, Width: 30, Height: 10, Kind: KindQuestion},
		{X: 1, Y: 1, Width: 30, Height: 10, Kind: KindOption},
	}
	start := time.Now()
	outcomes, err := s.ExtractAll(context.Background(), testPage, regions)
	if err != nil {
		t.Fatalf("ExtractAll() error = %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	if rec.calls != 0 || cropper.calls != 0 {
		t.Fatalf("recognizer calls = %d, cropper calls = %d, want 0 and 0", rec.calls, cropper.calls)
	}
	if elapsed := time.Since(start); elapsed >= 250*time.Millisecond {
		t.Fatalf("fast-path extractions paid the rate-limit pause, elapsed %v", elapsed)
	}
}

func TestExtractAllHonorsCancellation(t *testing.T) {
	cropper := &stubCropper{data: []byte{1}}
	rec := &stubRecognizer{result: ocr.Result{Text: "text from the image", Confidence: 80}}
	s, err := NewSession(Config{
		Source:     textlayer.SliceSource{},
		Cropper:    cropper,
		Recognizer: rec,
		Delay:      time.Hour,
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	regions := []Region{
		{X: 1, Y: 1, Width: 10, Height: 10},
		{X: 1, Y: 20, Width: 10, Height: 10},
	}
	outcomes, err := s.ExtractAll(ctx, testPage, regions)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes before cancellation, want 1", len(outcomes))
	}
}

func TestAssembleQuestions(t *testing.T) {
	regions := []Region{
		{Kind: KindQuestion, Page: 0},
		{Kind: KindOption, Page: 0},
		{Kind: KindOption, Page: 0},
		{Kind: KindQuestion, Page: 1},
		{Kind: KindOption, Page: 1},
	}
	outcomes := []reconcile.Outcome{
		{Text: "What is $2^3$?", Method: reconcile.MethodStructured, Confidence: 95, HasMath: true},
		{Text: "(A) 6", Method: reconcile.MethodStructured, Confidence: 95},
		{Text: "(B) 8", Method: reconcile.MethodRecognized, Confidence: 72},
		{Text: "Name the capital of France.", Method: reconcile.MethodStructured, Confidence: 95},
		{Text: "(A) Paris", Method: reconcile.MethodHybrid, Confidence: 95},
	}
	questions := AssembleQuestions(regions, outcomes)
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}

	q1 := questions[0]
	if q1.Number != 1 || q1.Text != "What is $2^3$?" {
		t.Fatalf("unexpected first question: %+v", q1)
	}
	if len(q1.Options) != 2 || q1.Options[1] != "(B) 8" {
		t.Fatalf("unexpected options: %v", q1.Options)
	}
	if q1.Confidence != 72 {
		t.Fatalf("confidence = %v, want weakest member 72", q1.Confidence)
	}
	if !q1.HasMath {
		t.Fatal("expected math tag on first question")
	}

	q2 := questions[1]
	if q2.Number != 2 || q2.Page != 1 || len(q2.Options) != 1 {
		t.Fatalf("unexpected second question: %+v", q2)
	}
	if q2.HasMath {
		t.Fatal("unexpected math tag on second question")
	}
}

func TestAssembleQuestionsDropsOrphanOptions(t *testing.T) {
	regions := []Region{
		{Kind: KindOption, Page: 0},
		{Kind: KindQuestion, Page: 0},
		{Kind: KindOption, Page: 2}, // different page than its question
	}
	outcomes := []reconcile.Outcome{
		{Text: "(A) orphan"},
		{Text: "A question"},
		{Text: "(B) far away"},
	}
	questions := AssembleQuestions(regions, outcomes)
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if len(questions[0].Options) != 0 {
		t.Fatalf("unexpected options: %v", questions[0].Options)
	}
}
