package video

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/chenBenjamin97/tennis-annotator/pkg/utils"
)

var (
	ErrVideoNotFound = errors.New("video not found")
	ErrFrameNotFound = errors.New("frame not found")
	//ErrRenderUnavailable is returned by Plot when built without the gocv tag
	ErrRenderUnavailable = errors.New("gocv build tag is not enabled")
)

//Library resolves uploaded videos and their extracted frames (<frames>/<video>/<frame file>)
type Library struct {
	UploadsDir string
	FramesDir  string
}

//UploadedVideos lists video ids from the uploads directory, a missing directory is an empty list
func (l Library) UploadedVideos() ([]string, error) {
	names, err := utils.ListDir(l.UploadsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		if id := utils.VideoID(name); id != name {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

//Frames returns the sorted frame file names extracted for videoID
func (l Library) Frames(videoID string) ([]string, error) {
	if _, err := utils.SafeName(videoID); err != nil {
		return nil, err
	}

	frames, err := utils.ListFrames(path.Join(l.FramesDir, videoID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: '%s'", ErrVideoNotFound, videoID)
	}
	return frames, err
}

//FramePath returns the on-disk path of one frame after checking both names stay inside the frames directory
func (l Library) FramePath(videoID, fileName string) (string, error) {
	if _, err := utils.SafeName(videoID); err != nil {
		return "", err
	}
	if _, err := utils.SafeName(fileName); err != nil {
		return "", err
	}

	framePath := path.Join(l.FramesDir, videoID, fileName)
	info, err := os.Stat(framePath)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", fmt.Errorf("%w: '%s/%s'", ErrFrameNotFound, videoID, fileName)
	}
	if err != nil {
		return "", fmt.Errorf("FramePath: Error, got '%v'", err)
	}
	return framePath, nil
}

//ReadFrame loads a frame's bytes for rendering
func (l Library) ReadFrame(videoID, fileName string) ([]byte, error) {
	framePath, err := l.FramePath(videoID, fileName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(framePath)
}
