// Package extract drives per-region extraction: it maps a selection
// rectangle into the page's native space, probes the structured text layer,
// falls back to image recognition through the reconciliation engine, and
// assembles question records from adjacent region outcomes.
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chaitanya1705/mcqextract/coords"
	"github.com/chaitanya1705/mcqextract/reconcile"
	"github.com/chaitanya1705/mcqextract/textlayer"
)

// RegionKind discriminates what a selection rectangle contains.
type RegionKind string

const (
	KindQuestion RegionKind = "question"
	KindOption   RegionKind = "option"
)

// Region is a user-drawn selection rectangle in raster pixel space, tied to
// a zero-based page index. Regions are immutable once extraction begins.
type Region struct {
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Page   int        `json:"page"`
	Kind   RegionKind `json:"kind"`
}

// Rect returns the raster-space rectangle of the region.
func (r Region) Rect() coords.Rect {
	return coords.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Cropper produces an encoded sub-image of the rendered page for a raster
// rectangle. It is implemented by the rendering collaborator.
type Cropper interface {
	Crop(page int, r coords.Rect) ([]byte, error)
}

// Page carries the per-page geometry an extraction call needs: the page
// height in native units and the scale the raster was rendered at.
type Page struct {
	Height float64
	Scale  float64
}

// Config assembles a Session's collaborators.
type Config struct {
	// Source supplies structured-layer fragments per page. Required.
	Source textlayer.Source
	// Cropper produces region images for recognition. Optional; without it
	// extraction degrades to structured-layer-only.
	Cropper Cropper
	// Recognizer is the image-recognition fallback. Optional.
	Recognizer reconcile.Recognizer
	// Delay is the pause inserted between successive region extractions in
	// ExtractAll, respecting external-service rate limits. Zero disables it.
	Delay time.Duration
	// Logger defaults to a disabled logger.
	Logger *zerolog.Logger
}

// Session extracts regions against one rendered document. Fragment lists are
// cached per page for the session's lifetime. A session is safe to drive in
// a tight sequential loop; no state leaks between calls.
type Session struct {
	fragments *textlayer.Cache
	cropper   Cropper
	engine    *reconcile.Engine
	delay     time.Duration
	log       zerolog.Logger
}

// NewSession validates the config and builds a session.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("extract: Source is required")
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Session{
		fragments: textlayer.NewCache(cfg.Source),
		cropper:   cfg.Cropper,
		engine:    reconcile.New(cfg.Recognizer),
		delay:     cfg.Delay,
		log:       log,
	}, nil
}

// ExtractRegion resolves one region on the given page. It returns an error
// only when the structured-layer source fails outright; recognition problems
// degrade to a low-confidence outcome instead.
func (s *Session) ExtractRegion(ctx context.Context, page Page, region Region) (reconcile.Outcome, error) {
	out, _, err := s.extractRegion(ctx, page, region)
	return out, err
}

// extractRegion additionally reports whether the recognizer ran, which is
// what the inter-call rate-limit pause keys off.
func (s *Session) extractRegion(ctx context.Context, page Page, region Region) (reconcile.Outcome, bool, error) {
	if region.Rect().IsEmpty() {
		return reconcile.Outcome{}, false, fmt.Errorf("extract: empty region on page %d", region.Page)
	}
	frags, err := s.fragments.FragmentsFor(region.Page)
	if err != nil {
		return reconcile.Outcome{}, false, fmt.Errorf("load fragments for page %d: %w", region.Page, err)
	}
	native := coords.ToNative(region.Rect(), page.Height, page.Scale)
	structured := textlayer.ExtractRegion(frags, native)

	// The crop is only produced when recognition can actually run; a trusted
	// structured hit never touches the raster.
	var image []byte
	if len(structured) <= reconcile.TrustLength && s.cropper != nil {
		image, err = s.cropper.Crop(region.Page, region.Rect())
		if err != nil {
			s.log.Warn().Err(err).Int("page", region.Page).Msg("crop failed, structured text only")
			image = nil
		}
	}

	recognized := s.engine.Recognizer != nil && len(image) > 0
	out := s.engine.Extract(ctx, structured, image)
	s.log.Debug().
		Int("page", region.Page).
		Str("kind", string(region.Kind)).
		Str("method", string(out.Method)).
		Float64("confidence", out.Confidence).
		Bool("hasMath", out.HasMath).
		Msg("region extracted")
	return out, recognized, nil
}

// ExtractAll resolves regions sequentially in order, pausing for the
// configured delay after each recognizer-invoking extraction. Structured
// fast-path hits make no external call, so the next region proceeds
// immediately. It stops early when ctx is canceled.
func (s *Session) ExtractAll(ctx context.Context, page Page, regions []Region) ([]reconcile.Outcome, error) {
	outcomes := make([]reconcile.Outcome, 0, len(regions))
	pause := false
	for _, region := range regions {
		if pause && s.delay > 0 {
			if err := sleep(ctx, s.delay); err != nil {
				return outcomes, err
			}
		}
		out, recognized, err := s.extractRegion(ctx, page, region)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, out)
		pause = recognized
	}
	return outcomes, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
