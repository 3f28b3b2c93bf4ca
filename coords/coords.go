// Package coords translates rectangles between the rendered raster's pixel
// space (origin top-left) and the document's native page space (origin
// bottom-left). All downstream containment tests run in native space.
package coords

import (
	"errors"
	"math"
)

// Matrix is an affine transform in the usual [a b c d e f] form.
type Matrix [6]float64

// Identity returns the identity transform.
func Identity() Matrix { return Matrix{1, 0, 0, 1, 0, 0} }

// Multiply returns m followed by o.
func (m Matrix) Multiply(o Matrix) Matrix {
	return Matrix{
		m[0]*o[0] + m[1]*o[2],
		m[0]*o[1] + m[1]*o[3],
		m[2]*o[0] + m[3]*o[2],
		m[2]*o[1] + m[3]*o[3],
		m[4]*o[0] + m[5]*o[2] + o[4],
		m[4]*o[1] + m[5]*o[3] + o[5],
	}
}

// Point is a location in either coordinate space.
type Point struct{ X, Y float64 }

// Transform applies the matrix to a point.
func (m Matrix) Transform(p Point) Point {
	return Point{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

// Inverse returns the inverse transform, or an error for a singular matrix.
func (m Matrix) Inverse() (Matrix, error) {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-10 {
		return Matrix{}, errors.New("matrix singular")
	}
	return Matrix{
		m[3] / det, -m[1] / det,
		-m[2] / det, m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, nil
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix { return Matrix{1, 0, 0, 1, tx, ty} }

// Scale returns a scaling matrix.
func Scale(sx, sy float64) Matrix { return Matrix{sx, 0, 0, sy, 0, 0} }

// Rect is an axis-aligned rectangle. Which space its values live in depends
// on where it came from: selection rectangles arrive in raster pixels,
// ToNative produces native page units.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IsEmpty reports whether the rectangle has non-positive dimensions.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r, inclusive on all four bounds.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// RasterToNative returns the transform taking raster pixel points to native
// page points: an inverse scale composed with a vertical flip about the page
// height. pageHeight is in native units; scale relates raster pixels to
// native units (pixels = native units * scale).
func RasterToNative(pageHeight, scale float64) Matrix {
	return Scale(1/scale, -1/scale).Multiply(Translate(0, pageHeight))
}

// ToNative converts a raster-space rectangle to native page space. The raster
// origin is top-left while the native origin is bottom-left, so the vertical
// axis flips.
func ToNative(r Rect, pageHeight, scale float64) Rect {
	return transformRect(RasterToNative(pageHeight, scale), r)
}

// FromNative is the inverse of ToNative, mapping a native-space rectangle
// back onto the raster.
func FromNative(r Rect, pageHeight, scale float64) Rect {
	inv, err := RasterToNative(pageHeight, scale).Inverse()
	if err != nil {
		return Rect{}
	}
	return transformRect(inv, r)
}

// transformRect maps a rectangle through m by transforming two opposite
// corners and renormalizing, which absorbs the axis flip.
func transformRect(m Matrix, r Rect) Rect {
	a := m.Transform(Point{X: r.X, Y: r.Y})
	b := m.Transform(Point{X: r.X + r.Width, Y: r.Y + r.Height})
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}
