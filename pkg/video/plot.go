//go:build gocv
// +build gocv

package video

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"

	"github.com/chenBenjamin97/tennis-annotator/pkg/annotate"
)

//Plot draws the shapes (native image coordinates, see annotate.Identity) onto the encoded frame and returns a JPEG
func Plot(frameData []byte, shapes []annotate.Shape) ([]byte, error) {
	frame, err := gocv.IMDecode(frameData, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("Plot: Could not decode frame, got '%v'", err)
	}
	defer frame.Close()
	if frame.Empty() {
		return nil, errors.New("Plot: Empty frame")
	}

	for _, s := range shapes {
		switch s.Kind {
		case annotate.ShapeCrosshair:
			plotCrosshair(&frame, s)
		default:
			plotBox(&frame, s)
		}
	}

	img, err := frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("Plot: Could not convert frame, got '%v'", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("Plot: Could not encode frame, got '%v'", err)
	}
	return buf.Bytes(), nil
}

//plotBox plots given bounding box and writes its label on a filled chip above it
func plotBox(frame *gocv.Mat, s annotate.Shape) {
	rect, ok := boxRect(s, frame.Cols(), frame.Rows())
	if !ok {
		return
	}
	gocv.Rectangle(frame, rect, s.Color, thicknessFor(s))

	if s.Label == "" {
		return
	}
	whiteRGB := color.RGBA{255, 255, 255, 0}
	chip := chipRect(rect, s.Label, frame.Cols())
	gocv.Rectangle(frame, chip, s.Color, -1) //thickness -1 == filled rectangle
	gocv.PutText(frame, s.Label, image.Pt(chip.Min.X+chipPadding, chip.Max.Y-5), gocv.FontHersheyPlain, 1, whiteRGB, 2)
}

func plotCrosshair(frame *gocv.Mat, s annotate.Shape) {
	x, y := int(s.X), int(s.Y)
	gocv.Line(frame, image.Pt(x, 0), image.Pt(x, int(s.Height)), s.Color, 1)
	gocv.Line(frame, image.Pt(0, y), image.Pt(int(s.Width), y), s.Color, 1)
}
