package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//ErrUnsafeName is returned for names that could escape their directory
var ErrUnsafeName = errors.New("unsafe name")

//InSlice returns true if given string appears in given slice
func InSlice(lookingFor string, slice []string) bool {
	for _, s := range slice {
		if s == lookingFor {
			return true
		}
	}

	return false
}

//ListDir returns a sorted list of files/ directories in given path
func ListDir(path string) ([]string, error) {
	names := make([]string, 0)
	if entries, err := os.ReadDir(path); err != nil {
		return nil, fmt.Errorf("ListDir: Error, got '%w'", err)
	} else {
		for _, e := range entries {
			names = append(names, e.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

//ListFrames returns the sorted image files in given path, skipping directories and hidden files
func ListFrames(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("ListFrames: Error, got '%w'", err)
	}

	frames := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if InSlice(strings.ToLower(filepath.Ext(e.Name())), FrameExtensions) {
			frames = append(frames, e.Name())
		}
	}

	sort.Strings(frames)
	return frames, nil
}

//SafeName rejects empty names, path separators and dot segments so a request value can be joined to a data directory
func SafeName(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "\x00") {
		return "", fmt.Errorf("%w: '%s'", ErrUnsafeName, name)
	}
	return name, nil
}

//VideoID strips a known video extension, "match.mp4" -> "match"
func VideoID(name string) string {
	ext := filepath.Ext(name)
	if InSlice(strings.ToLower(ext), VideoExtensions) {
		return strings.TrimSuffix(name, ext)
	}
	return name
}
