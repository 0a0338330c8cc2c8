// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "math"

// Rect is an axis-aligned rectangle in page space. The origin is the top-left
// corner of the visible page area and y grows downward, so Y0 <= Y1 for a
// normalized rectangle.
type Rect struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// NewRect returns a normalized rectangle spanning the two corner points.
func NewRect(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// CenterX returns the horizontal midpoint of r.
func (r Rect) CenterX() float64 { return r.X0 + r.Width()/2 }

// IsEmpty reports whether r encloses no area.
func (r Rect) IsEmpty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Intersects reports whether r and o share a region of positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X0 >= r.X0 && o.X1 <= r.X1 && o.Y0 >= r.Y0 && o.Y1 <= r.Y1
}

// Union returns the smallest rectangle enclosing r and o. An empty r yields o.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// TextBlock is a rectangle of text on a page together with its extracted
// content. Lines within the block are separated by "\n".
type TextBlock struct {
	Rect Rect   `json:"rect" yaml:"rect"`
	Text string `json:"text" yaml:"text"`
}
