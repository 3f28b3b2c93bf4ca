// Package textlayer reads the document's embedded text layer: exact strings
// with the anchor position each was placed at. It is the fast, precise
// extraction source; image recognition is the fallback when the layer is
// sparse over a selected region.
package textlayer

import (
	"strings"
	"sync"

	"github.com/chaitanya1705/mcqextract/coords"
)

// Fragment is an atomic run of text from the structured layer. AnchorX and
// AnchorY are in native page units with the origin at the bottom-left.
type Fragment struct {
	Content string
	AnchorX float64
	AnchorY float64
}

// Source supplies the fragment list for a page. Implementations may read a
// parsed document, an hOCR sidecar, or a test fixture.
type Source interface {
	FragmentsFor(page int) ([]Fragment, error)
}

// ExtractRegion returns the space-joined content of every fragment whose
// anchor point lies within region, inclusive on all four bounds, in the
// order the fragments appear in the layer.
//
// Membership is decided by the anchor point alone, not by glyph extents: a
// fragment whose anchor sits just outside the region is excluded even when
// its rendered text overlaps it. Anchors are the only geometry the layer
// provides, so this stays a point test.
func ExtractRegion(fragments []Fragment, region coords.Rect) string {
	var b strings.Builder
	for _, f := range fragments {
		if !region.Contains(coords.Point{X: f.AnchorX, Y: f.AnchorY}) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.Content)
	}
	return strings.TrimRight(b.String(), " \t\n\r")
}

// Cache wraps a Source and memoizes fragment lists per page for the life of
// one extraction session. It is safe for concurrent use.
type Cache struct {
	src Source

	mu    sync.Mutex
	pages map[int][]Fragment
}

// NewCache returns a caching wrapper around src.
func NewCache(src Source) *Cache {
	return &Cache{src: src, pages: make(map[int][]Fragment)}
}

// FragmentsFor returns the fragments for page, loading from the underlying
// source on first request. Errors are not cached; a failed load is retried
// on the next call.
func (c *Cache) FragmentsFor(page int) ([]Fragment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if frags, ok := c.pages[page]; ok {
		return frags, nil
	}
	frags, err := c.src.FragmentsFor(page)
	if err != nil {
		return nil, err
	}
	c.pages[page] = frags
	return frags, nil
}

// SliceSource adapts in-memory fragment lists (indexed by page) to the
// Source interface.
type SliceSource map[int][]Fragment

// FragmentsFor returns the fragments registered for page, or nil.
func (s SliceSource) FragmentsFor(page int) ([]Fragment, error) {
	return s[page], nil
}
