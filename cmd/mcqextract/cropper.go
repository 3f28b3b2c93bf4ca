package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/chaitanya1705/mcqextract/coords"
)

// dirCropper serves region crops from pre-rendered page images named
// page-N.png inside a directory, decoding each page at most once.
type dirCropper struct {
	dir   string
	pages map[int]image.Image
}

func (c *dirCropper) Crop(page int, r coords.Rect) ([]byte, error) {
	img, err := c.page(page)
	if err != nil {
		return nil, err
	}
	rect := image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)),
		int(math.Round(r.Y+r.Height)),
	).Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("region outside page %d bounds", page)
	}
	sub, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return nil, fmt.Errorf("page %d image does not support sub-image", page)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, sub.SubImage(rect)); err != nil {
		return nil, fmt.Errorf("encode crop: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *dirCropper) page(n int) (image.Image, error) {
	if img, ok := c.pages[n]; ok {
		return img, nil
	}
	path := filepath.Join(c.dir, fmt.Sprintf("page-%d.png", n))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if c.pages == nil {
		c.pages = make(map[int]image.Image)
	}
	c.pages[n] = img
	return img, nil
}
