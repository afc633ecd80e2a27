package annotate

import "math"

//BoundingBox is an axis-aligned box in image pixel space.
//Boxes may extend past the image edge, they are only clipped when drawn.
type BoundingBox struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	CategoryID int     `json:"category_id"`
	Label      string  `json:"label,omitempty"`
}

//NormalizedBox builds the box spanned by two corners, in whatever order they were dragged
func NormalizedBox(a, b Point) BoundingBox {
	return BoundingBox{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

//Valid reports whether the box has a positive extent on both axes
func (b BoundingBox) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

//Contains is a closed containment test
func (b BoundingBox) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width && p.Y >= b.Y && p.Y <= b.Y+b.Height
}

func (b BoundingBox) Area() float64 {
	return b.Width * b.Height
}

//COCO returns the [x, y, w, h] tuple used by COCO datasets
func (b BoundingBox) COCO() [4]float64 {
	return [4]float64{b.X, b.Y, b.Width, b.Height}
}

//Clip returns the visible part of the box within a width x height image, ok is false when nothing is visible
func (b BoundingBox) Clip(width, height float64) (BoundingBox, bool) {
	x0 := math.Max(b.X, 0)
	y0 := math.Max(b.Y, 0)
	x1 := math.Min(b.X+b.Width, width)
	y1 := math.Min(b.Y+b.Height, height)
	if x1 <= x0 || y1 <= y0 {
		return BoundingBox{}, false
	}

	clipped := b
	clipped.X, clipped.Y = x0, y0
	clipped.Width, clipped.Height = x1-x0, y1-y0
	return clipped, true
}
