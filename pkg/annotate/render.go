package annotate

import "image/color"

type ShapeKind int

const (
	ShapeBox ShapeKind = iota
	ShapeDraft
	ShapeCrosshair
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeDraft:
		return "draft"
	case ShapeCrosshair:
		return "crosshair"
	default:
		return "unknown"
	}
}

//Palette colors boxes by category id modulo its length
var Palette = []color.RGBA{
	{255, 0, 0, 255},
	{0, 200, 0, 255},
	{0, 0, 255, 255},
	{255, 165, 0, 255},
	{160, 32, 240, 255},
	{0, 200, 200, 255},
}

//DraftColor marks a box that is still being dragged
var DraftColor = color.RGBA{255, 255, 255, 255}

//Shape is one drawable element. For crosshairs X,Y is the pointer and Width,Height the drawing extent.
type Shape struct {
	Kind     ShapeKind
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Label    string
	Color    color.RGBA
	Selected bool
}

func ColorFor(categoryID int) color.RGBA {
	i := categoryID % len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return Palette[i]
}

//Render lays out the surface in display space using the current transform
func (s *Surface) Render() []Shape {
	if !s.ready {
		return nil
	}
	return s.RenderAt(s.transform)
}

//RenderAt lays out boxes, the draft and the guide lines with t.
//Passing Identity yields native image coordinates.
func (s *Surface) RenderAt(t Transform) []Shape {
	if !s.ready {
		return nil
	}

	shapes := make([]Shape, 0, len(s.boxes)+2)
	for i, b := range s.boxes {
		d := t.BoxToDisplay(b)
		shapes = append(shapes, Shape{
			Kind:     ShapeBox,
			X:        d.X,
			Y:        d.Y,
			Width:    d.Width,
			Height:   d.Height,
			Label:    b.Label,
			Color:    ColorFor(b.CategoryID),
			Selected: i == s.selected,
		})
	}

	if s.drawing {
		d := t.BoxToDisplay(s.draft)
		shapes = append(shapes, Shape{Kind: ShapeDraft, X: d.X, Y: d.Y, Width: d.Width, Height: d.Height, Label: s.draft.Label, Color: DraftColor})
	}

	if s.hasCursor {
		c := t.ToDisplay(s.cursor)
		extent := t.ToDisplay(Point{X: float64(s.nativeWidth), Y: float64(s.nativeHeight)})
		shapes = append(shapes, Shape{Kind: ShapeCrosshair, X: c.X, Y: c.Y, Width: extent.X, Height: extent.Y, Color: DraftColor})
	}

	return shapes
}
