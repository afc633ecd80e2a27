//go:build !gocv
// +build !gocv

package video

import "github.com/chenBenjamin97/tennis-annotator/pkg/annotate"

//Plot needs OpenCV, build with -tags gocv
func Plot([]byte, []annotate.Shape) ([]byte, error) {
	return nil, ErrRenderUnavailable
}
