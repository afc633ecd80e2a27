package annotate

import (
	"errors"
	"fmt"
)

var ErrInvalidViewport = errors.New("viewport width and height must be positive")

//Point is a location in either image space or client space, depending on who holds it
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

//Viewport is the on-screen rectangle the image is rendered into (client space)
type Viewport struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

//Transform maps client space to image space and back.
//Scale factors are native/display per axis and are only recomputed on resize or image change.
type Transform struct {
	Left   float64
	Top    float64
	ScaleX float64
	ScaleY float64
}

//Identity draws image space 1:1 at the origin, used when rendering on the native frame
var Identity = Transform{ScaleX: 1, ScaleY: 1}

//NewTransform builds the transform for an image of nativeWidth x nativeHeight rendered into vp
func NewTransform(vp Viewport, nativeWidth, nativeHeight int) (Transform, error) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return Transform{}, ErrInvalidViewport
	}
	if nativeWidth <= 0 || nativeHeight <= 0 {
		return Transform{}, fmt.Errorf("NewTransform: %w (%dx%d)", ErrInvalidImage, nativeWidth, nativeHeight)
	}

	return Transform{
		Left:   vp.Left,
		Top:    vp.Top,
		ScaleX: float64(nativeWidth) / vp.Width,
		ScaleY: float64(nativeHeight) / vp.Height,
	}, nil
}

//ToImage converts a pointer position in client space to image space
func (t Transform) ToImage(clientX, clientY float64) Point {
	return Point{
		X: (clientX - t.Left) * t.ScaleX,
		Y: (clientY - t.Top) * t.ScaleY,
	}
}

//ToClient is the inverse of ToImage
func (t Transform) ToClient(p Point) Point {
	d := t.ToDisplay(p)
	return Point{X: d.X + t.Left, Y: d.Y + t.Top}
}

//ToDisplay maps an image space point onto the surface, relative to the surface origin
func (t Transform) ToDisplay(p Point) Point {
	return Point{X: p.X / t.ScaleX, Y: p.Y / t.ScaleY}
}

//BoxToDisplay scales a box into surface coordinates
func (t Transform) BoxToDisplay(b BoundingBox) BoundingBox {
	topLeft := t.ToDisplay(Point{X: b.X, Y: b.Y})
	b.X, b.Y = topLeft.X, topLeft.Y
	b.Width /= t.ScaleX
	b.Height /= t.ScaleY
	return b
}
