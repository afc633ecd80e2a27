package video

import (
	"image"
	"math"

	"github.com/chenBenjamin97/tennis-annotator/pkg/annotate"
)

const (
	boxThickness      = 3
	selectedThickness = 5
	chipHeight        = 20
	chipCharWidth     = 9
	chipPadding       = 4
)

//boxRect clips a shape to the frame and rounds it to pixels, false when nothing is left
func boxRect(s annotate.Shape, width, height int) (image.Rectangle, bool) {
	b, ok := annotate.BoundingBox{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}.Clip(float64(width), float64(height))
	if !ok {
		return image.Rectangle{}, false
	}

	r := image.Rect(
		int(math.Round(b.X)),
		int(math.Round(b.Y)),
		int(math.Round(b.X+b.Width)),
		int(math.Round(b.Y+b.Height)),
	)
	return r, !r.Empty()
}

//chipRect is the filled background of a label drawn above a box, moved inside the box when the box touches the top edge
func chipRect(box image.Rectangle, label string, width int) image.Rectangle {
	w := len(label)*chipCharWidth + 2*chipPadding
	top := box.Min.Y - chipHeight
	if top < 0 {
		top = box.Min.Y
	}

	r := image.Rect(box.Min.X, top, box.Min.X+w, top+chipHeight)
	if r.Max.X > width {
		r = r.Sub(image.Pt(r.Max.X-width, 0))
	}
	return r
}

func thicknessFor(s annotate.Shape) int {
	if s.Selected {
		return selectedThickness
	}
	return boxThickness
}
